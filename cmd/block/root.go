package main

import (
	"errors"
	"fmt"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	block "github.com/dangdungcntt/go-block"
	"github.com/dangdungcntt/go-block/internal/logging"
)

// options are the flags shared by every command.
type options struct {
	verbosity  int
	configFile string
	views      string
	extension  string

	logger zerolog.Logger
	config *block.Config
}

// NewRootCmd builds the block command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "block",
		Short: "Render views composed with sections, layouts and components",
		Long: `block renders views from a directory. Views extend layouts, fill and
append to named sections, insert partials and nest components with slots.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/block/config.yaml when present)")
	flags.StringVar(&opts.views, "views", "", "views directory, overrides the config file")
	flags.StringVar(&opts.extension, "ext", "", "view file extension, overrides the config file")

	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func (o *options) setup(cmd *cobra.Command) error {
	path := o.configFile
	if path == "" {
		if found, err := xdg.SearchConfigFile("block/config.yaml"); err == nil {
			path = found
		}
	}

	cfg, err := block.LoadConfig(path)
	if err != nil {
		return err
	}
	if o.views != "" {
		cfg.Views = o.views
	}
	if o.extension != "" {
		cfg.Extension = o.extension
	}
	o.config = cfg

	o.logger = logging.New(cmd.ErrOrStderr(), logging.Level(o.verbosity, cfg.LogLevel))
	o.logger.Debug().
		Str("command", cmd.Name()).
		Str("config", path).
		Str("views", cfg.Views).
		Msg("Command started")
	return nil
}

func (o *options) engine() (*block.Engine, error) {
	if o.config == nil {
		return nil, errors.New("configuration not loaded")
	}
	return block.NewEngineFromConfig(o.config, block.WithLogger(o.logger))
}

var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "block %s\n", version)
		},
	}
}
