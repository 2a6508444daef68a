package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"bxfferoverflow.me/no-comment/counter"
	"bxfferoverflow.me/no-comment/report"
)

type statsOptions struct {
	format   string
	watch    bool
	encoding string
}

func newStatsCommand(a *app) *cobra.Command {
	var opts statsOptions
	cmd := &cobra.Command{
		Use:   "stats [dir...]",
		Short: "Count lines, code and comments in source trees",
		Long: `Stats walks the given directories (the current one by default) and counts,
per file extension, the lines, blank lines, lines of code left after
stripping comments, lines that only held comments, and the characters the
comments took up.

Files whose language is unknown are ignored. Files with an unmatched comment
close are listed and left out of the totals.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(report.Formats, opts.format) {
				return fmt.Errorf("--format must be one of %s", strings.Join(report.Formats, ", "))
			}
			if len(args) == 0 {
				args = []string{"."}
			}
			return a.stats(cmd, args, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", report.FormatTable, "output format ("+strings.Join(report.Formats, ", ")+")")
	f.BoolVarP(&opts.watch, "watch", "w", false, "print new results whenever files change")
	f.StringVar(&opts.encoding, "encoding", "", "character set of the files, e.g. latin1 (default utf-8)")
	return cmd
}

func (a *app) stats(cmd *cobra.Command, roots []string, opts statsOptions) error {
	s := &counter.Scanner{
		Fs:         a.fs,
		Registry:   a.registry,
		IgnoreDirs: a.cfg.IgnoreDirs,
		Workers:    a.cfg.Workers,
		Encoding:   opts.encoding,
		Logger:     a.logger,
	}
	ropts := report.Options{
		Format:    opts.format,
		Color:     a.colorEnabled(),
		PathWidth: 80,
	}
	out := cmd.OutOrStdout()

	if !opts.watch {
		c, err := s.Scan(cmd.Context(), roots...)
		if err != nil {
			return err
		}
		return report.Write(out, c, ropts)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return s.Watch(ctx, roots, func(c *counter.Counter, err error) {
		if err != nil {
			if ctx.Err() == nil {
				a.logger.Error("scan failed", "error", err)
			}
			return
		}
		if err := report.Write(out, c, ropts); err != nil {
			a.logger.Error("writing report", "error", err)
		}
	})
}
