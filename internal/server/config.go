package server

import "github.com/raysh454/webcheck/internal/logging"

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// Logger receives request and handler logs; defaults to stdout.
	Logger logging.Logger
}
