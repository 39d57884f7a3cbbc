package main

// General API documentation for swaggo. Build with -tags swagger to serve it.
//
// @title           skeleton API
// @version         1.0
// @description     Event-driven web application skeleton.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
