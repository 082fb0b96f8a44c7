package webclient

import "time"

type Client string

const (
	ClientNetHTTP Client = "nethttp"
)

// Config selects and tunes the fetch backend.
type Config struct {
	// Client names a registered backend; empty means nethttp.
	Client Client `yaml:"client" json:"client"`

	// Timeout bounds a single request, including reading the body.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// UserAgent is sent with every request when set.
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// DefaultConfig returns the nethttp backend with a 30s timeout.
func DefaultConfig() Config {
	return Config{
		Client:    ClientNetHTTP,
		Timeout:   30 * time.Second,
		UserAgent: "webcheck/0.1",
	}
}
