// Package main provides the entry point for the Cancha management console.
// It initializes and runs a web server using the Fiber framework that renders
// role-gated administration screens for the Cancha reservation platform.
// All domain data is read from and written to the remote Cancha REST API;
// the console itself only persists its own settings and sessions.
package main
