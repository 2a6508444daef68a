// Package cmd wires the nocomment command line.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bxfferoverflow.me/no-comment/config"
	"bxfferoverflow.me/no-comment/languages"
)

// Version is the release of this binary, checked against the requires key
// of the configuration.
const Version = "0.3.0"

type app struct {
	fs       afero.Fs
	v        *viper.Viper
	cfgFile  string
	cfg      *config.Config
	registry *languages.Registry
	logger   *slog.Logger
	// tty is set when standard output is a terminal.
	tty bool
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	fd := os.Stdout.Fd()
	root := newRootCommand(afero.NewOsFs(), isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	root.SetOut(colorable.NewColorableStdout())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree on top of fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	return newRootCommand(fs, false)
}

func newRootCommand(fs afero.Fs, tty bool) *cobra.Command {
	a := &app{fs: fs, v: config.New(fs), tty: tty}

	root := &cobra.Command{
		Use:   "nocomment",
		Short: "Strip comments from source code and count what is left",
		Long: `nocomment removes comments from source files using per-language tables of
comment markers, and measures source trees before and after stripping.

Comment markers inside string literals are not special: "/*" inside quotes
still opens a comment.

Configuration is read from .nocomment.{yaml,toml,json} in the working
directory or the home directory, or from --config. Every key can also be set
through a NOCOMMENT_ environment variable, e.g. NOCOMMENT_LOG_LEVEL=debug.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "configuration file")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("color", "auto", "color output (auto, always, never)")
	bindFlags(a.v, flags, "log-level", "color")

	root.AddCommand(
		newStripCommand(a),
		newStatsCommand(a),
		newLanguagesCommand(a),
		newVersionCommand(),
	)
	return root
}

// bindFlags makes the named flags override the configuration key of the
// same name, with dashes turned into underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.CheckVersion(Version); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a.registry = languages.NewRegistry()
	if err := cfg.Apply(a.registry); err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.File != "" {
		a.logger.Debug("loaded configuration", "file", cfg.File)
	}
	return nil
}

func (a *app) colorEnabled() bool {
	switch a.cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return a.tty && os.Getenv("NO_COLOR") == ""
}
