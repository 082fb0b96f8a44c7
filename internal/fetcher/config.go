package fetcher

type Config struct {
	// MaxConcurrency bounds the number of fetches in flight; values below 1
	// fetch sequentially.
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency"`
}

func DefaultConfig() Config {
	return Config{MaxConcurrency: 4}
}
