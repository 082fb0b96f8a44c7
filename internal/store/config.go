package store

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	// Backend is "json" (default) or "sqlite".
	Backend string `yaml:"backend" json:"backend"`
	// Path is the backing file.
	Path string `yaml:"path" json:"path"`
}

func DefaultConfig() Config {
	return Config{
		Backend: BackendJSON,
		Path:    "default.json",
	}
}
