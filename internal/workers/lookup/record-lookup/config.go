// internal/workers/lookup/record-lookup/config.go
package recordlookup

import (
	"time"

	"lookup-workers/internal/common/observability"
)

type Config struct {
	// Timeout bounds a whole job. It should exceed the lookup call timeout.
	Timeout       time.Duration
	InputSchema   map[string]interface{}
	Observability *observability.Observability
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 45 * time.Second,
	}
}
