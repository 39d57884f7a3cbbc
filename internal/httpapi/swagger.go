//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// swaggerSpec describes the operational and sample application endpoints.
var swaggerSpec = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "skeleton API",
	Description:      "Event-driven web application skeleton.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(swaggerSpec.InstanceName(), swaggerSpec)
}

// MountSwagger serves the Swagger UI and its doc.json under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

const swaggerTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["text/plain"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/readyz": {
            "get": {
                "produces": ["text/plain"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "ready"},
                    "503": {"description": "starting"}
                }
            }
        },
        "/events": {
            "get": {
                "produces": ["application/json"],
                "summary": "Registered events and listener counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.EventsResponse"}}
                }
            }
        },
        "/hello/{name}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Greets name after dispatching before-something",
                "parameters": [
                    {"type": "string", "name": "name", "in": "path", "required": true},
                    {"type": "string", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Maintenance", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/something": {
            "post": {
                "produces": ["application/json"],
                "summary": "Dispatches something and reports which listeners ran",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Maintenance", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.EventInfo": {
            "type": "object",
            "properties": {
                "listeners": {"type": "integer", "example": 2},
                "name": {"type": "string", "example": "controller.before"}
            }
        },
        "types.EventsResponse": {
            "type": "object",
            "properties": {
                "events": {"type": "array", "items": {"$ref": "#/definitions/types.EventInfo"}}
            }
        }
    }
}`
