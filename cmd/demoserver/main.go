// Command demoserver starts a small shop site whose pages can be switched
// between versions, for trying out checks by hand.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"os"
	"strconv"

	"github.com/raysh454/webcheck/internal/demoserver"
	"github.com/raysh454/webcheck/internal/logging"
)

func main() {
	logger := logging.NewStdoutLogger("demoserver")
	cfg := demoserver.DefaultConfig()
	cfg.Logger = logger

	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			logger.Error("invalid port", logging.Field{Key: "arg", Value: os.Args[1]})
			os.Exit(2)
		}
		cfg.Port = port
	}

	server := demoserver.NewDemoServer(cfg)
	if err := server.Start(); err != nil {
		logger.Error("server error", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}
