// Package cli implements the upctl commands.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/narsis77/unpoly/internal/config"
	"github.com/narsis77/unpoly/internal/logging"
)

// env carries what every command needs once flags are parsed.
type env struct {
	v          *viper.Viper
	configPath string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand returns the upctl command tree.
func NewRootCommand() *cobra.Command {
	e := &env{v: config.New()}

	root := &cobra.Command{
		Use:   "upctl",
		Short: "upctl inspects request params and drives event bus scripts.",
		Long: `upctl inspects request params and drives event bus scripts. ` +
			`It converts URLs and HTML forms into params (query, json, entries) ` +
			`and runs Lua scripts against an event bus.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.load,
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&e.configPath, "config", "c", "", "config file (default: ./upctl.yaml or ~/.config/upctl/upctl.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", "console", "log format: console or json")
	flags.StringP("format", "f", config.FormatJSON, "output format: query, json or entries")
	flags.Bool("pretty", false, "indent JSON output")

	bind(e.v, flags.Lookup("log-level"), config.KeyLogLevel)
	bind(e.v, flags.Lookup("log-format"), config.KeyLogFormat)
	bind(e.v, flags.Lookup("format"), config.KeyOutputFormat)
	bind(e.v, flags.Lookup("pretty"), config.KeyOutputPretty)

	root.AddCommand(
		newQueryCommand(e),
		newStripCommand(e),
		newFormCommand(e),
		newScriptCommand(e),
	)
	return root
}

// load reads the configuration and builds the logger.
func (e *env) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(e.v, e.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.FromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.logger = logger
	if cfg.File != "" {
		logger.Debug("config loaded", zap.String("file", cfg.File))
	}
	return nil
}
