// Package server holds the configuration of the snapshot HTTP server.
//
// The `serve` command starts a Fiber app on Port that exposes the session
// state read-only, plus the folder selection and processing triggers. When
// ApiKey is set every request must carry it (see core/middleware/auth).
package server
