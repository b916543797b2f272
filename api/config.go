// Package api provides the HTTP server for the data assistant: query,
// summarize and explain endpoints plus health and schema inspection.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string
}
