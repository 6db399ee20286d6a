package pipeline

import (
	"lookup-workers/internal/common/config"
	"lookup-workers/internal/common/logger"
	"lookup-workers/internal/lookup/aggregate"
	"lookup-workers/internal/lookup/client"
	"lookup-workers/internal/lookup/report"
)

// ReportOptions derives formatter options from the report section.
func ReportOptions(rc config.ReportConfig) report.Options {
	opts := report.DefaultOptions()
	if rc.Compact {
		opts = report.CompactOptions()
	}
	opts.Renderer = report.RendererByName(rc.Renderer)
	if rc.Budget > 0 {
		opts.Budget = rc.Budget
	}
	if rc.FieldCap > 0 && !rc.Compact {
		opts.FieldCap = rc.FieldCap
	}
	if rc.SourceCap > 0 {
		opts.SourceCap = rc.SourceCap
	}
	return opts
}

// NewFromConfig wires a service against the configured lookup service.
func NewFromConfig(cfg *config.Config, log logger.Logger, opts ...Option) *Service {
	c := client.New(&client.Config{
		BaseURL:     cfg.LookupAPI.BaseURL,
		APIKey:      cfg.LookupAPI.APIKey,
		Timeout:     config.GetDuration(cfg.LookupAPI.Timeout),
		FindType:    cfg.LookupAPI.FindType,
		CountryType: cfg.LookupAPI.CountryType,
	}, log)

	return New(c, aggregate.New(nil), report.NewFormatter(ReportOptions(cfg.Report)), log, opts...)
}
