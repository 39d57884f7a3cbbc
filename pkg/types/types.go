package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// EventResult is the outcome of a dispatch as reported by the CLI and API.
type EventResult struct {
	// Event name.
	// example: before-something
	Name string `json:"name" example:"before-something"`
	// Event identifier.
	// example: 5b1f0c8e-8a59-4d7c-9f43-0e4b2a1f3c11
	ID string `json:"id" example:"5b1f0c8e-8a59-4d7c-9f43-0e4b2a1f3c11"`
	// Final argument bag after every listener ran.
	Arguments map[string]any `json:"arguments"`
	// Whether a listener stopped propagation.
	// example: false
	Stopped bool `json:"stopped" example:"false"`
}

// EventInfo describes the listeners registered for one event name.
type EventInfo struct {
	// example: controller.before
	Name string `json:"name" example:"controller.before"`
	// example: 2
	Listeners int `json:"listeners" example:"2"`
}

// EventsResponse is returned by GET /events.
type EventsResponse struct {
	Events []EventInfo `json:"events"`
}

// RouteInfo describes one entry of the route table.
type RouteInfo struct {
	// example: GET
	Method string `json:"method" example:"GET"`
	// example: /hello/{name}
	Pattern string `json:"pattern" example:"/hello/{name}"`
	// example: hello
	Controller string `json:"controller" example:"hello"`
	// example: greet
	Action string `json:"action" example:"greet"`
}
