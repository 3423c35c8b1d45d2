// Package httpserver wraps net/http with graceful shutdown,
// environment-driven timeouts, and probe handlers. Run blocks until the
// context is cancelled or an interrupt/TERM signal arrives, then shuts
// down with a configurable deadline. Listen errors are wrapped with
// ErrStart and shutdown errors with ErrShutdown for errors.Is checks.
package httpserver
