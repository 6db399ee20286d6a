// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	LookupAPI LookupAPIConfig         `mapstructure:"lookup_api"`
	Report    ReportConfig            `mapstructure:"report"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Registry  RegistryConfig          `mapstructure:"registry"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Metrics   MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

// --- Specific Configuration Sections ---

// LookupAPIConfig points at the record-lookup service.
type LookupAPIConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
	FindType    string `mapstructure:"find_type"`
	CountryType string `mapstructure:"country_type"`
}

// ReportConfig controls how lookup results are rendered.
type ReportConfig struct {
	Renderer  string `mapstructure:"renderer"` // markdownv2, html or plain
	Compact   bool   `mapstructure:"compact"`
	Budget    int    `mapstructure:"budget"` // runes
	FieldCap  int    `mapstructure:"field_cap"`
	SourceCap int    `mapstructure:"source_cap"`
}

// RegistryConfig locates the activity registry.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the health and metrics HTTP server settings.
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
