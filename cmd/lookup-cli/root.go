package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lookup-workers/internal/common/config"
	"lookup-workers/internal/common/logger"
	"lookup-workers/internal/lookup/pipeline"
)

type rootOptions struct {
	configPath string
	renderer   string
	compact    bool
	logLevel   string
	logOutput  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "lookup-cli",
		Short:         "Run record lookups from the terminal",
		Long:          `Classifies a person or phone query, calls the record-lookup service and prints the formatted report.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.renderer, "renderer", "", "output markup: plain, markdownv2 or html (default: report.renderer from config)")
	root.PersistentFlags().BoolVar(&opts.compact, "compact", false, "show fewer values per field")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().StringVar(&opts.logOutput, "log-output", "stderr", "log destination: stderr, stdout or a file path")

	root.AddCommand(
		newPersonCmd(opts),
		newPhoneCmd(opts),
		newClassifyCmd(),
		newChatCmd(opts),
	)
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.renderer != "" {
		cfg.Report.Renderer = o.renderer
	}
	if o.compact {
		cfg.Report.Compact = true
	}
	return cfg, nil
}

// buildService wires the pipeline and returns the logger it writes to.
func (o *rootOptions) buildService() (*pipeline.Service, logger.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewZapAdapter(logger.NewWithOptions(logger.Options{
		Level:  o.logLevel,
		Format: "console",
		Output: o.logOutput,
	}))
	return pipeline.NewFromConfig(cfg, log), log, nil
}
