// internal/workers/lookup/classify-query/config.go
package classifyquery

import (
	"time"

	"lookup-workers/internal/common/observability"
)

type Config struct {
	Timeout     time.Duration
	Renderer    string
	InputSchema map[string]interface{}
	// Observability receives job counters; nil records prometheus only.
	Observability *observability.Observability
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  5 * time.Second,
		Renderer: "markdownv2",
	}
}
