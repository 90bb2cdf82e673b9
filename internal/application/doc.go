// Package application provides application initialization and dependency
// wiring. It encapsulates the creation of handlers, routers, and HTTP
// server instances, keeping the main package focused on CLI parsing and
// orchestration.
package application
