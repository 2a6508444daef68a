package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bxfferoverflow.me/no-comment/input"
	"bxfferoverflow.me/no-comment/languages"
	"bxfferoverflow.me/no-comment/stripper"
)

type stripOptions struct {
	lang     string
	rules    string
	output   string
	encoding string
}

func newStripCommand(a *app) *cobra.Command {
	var opts stripOptions
	cmd := &cobra.Command{
		Use:   "strip [file...]",
		Short: "Write files without their comments",
		Long: `Strip writes each file, or standard input when no file is given, with all
comments removed. The language is picked from the file extension unless
--lang or --rules is given; standard input needs one of them.

Files ending in .xz are decompressed first and their language is picked
from the extension under .xz.

An unmatched block comment close (e.g. "*/" with no "/*") is an error and
stops the command.`,
		Example: `  nocomment strip main.go
  cat query.sql | nocomment strip --lang sql
  nocomment strip --rules lua.yaml init.lua -o init.stripped.lua`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.strip(cmd, args, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.lang, "lang", "l", "", "language to use instead of detecting it")
	f.StringVar(&opts.rules, "rules", "", "YAML file with a custom comment table")
	f.StringVarP(&opts.output, "output", "o", "", "write to this file instead of standard output")
	f.StringVar(&opts.encoding, "encoding", "", "character set of the input, e.g. latin1 (default utf-8)")
	cmd.MarkFlagsMutuallyExclusive("lang", "rules")
	return cmd
}

func (a *app) strip(cmd *cobra.Command, args []string, opts stripOptions) error {
	forced, err := a.forcedTable(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := a.fs.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)

	if len(args) == 0 {
		if forced == nil {
			return errors.New("reading standard input needs --lang or --rules")
		}
		r, err := input.Decode(cmd.InOrStdin(), opts.encoding)
		if err != nil {
			return err
		}
		if _, err := stripper.NewReader(r, forced).WriteTo(w); err != nil {
			return fmt.Errorf("<stdin>: %w", err)
		}
		return w.Flush()
	}

	for _, path := range args {
		if err := a.stripFile(w, path, forced, opts.encoding); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (a *app) forcedTable(opts stripOptions) (*stripper.Table, error) {
	switch {
	case opts.rules != "":
		f, err := languages.LoadFile(a.fs, opts.rules)
		if err != nil {
			return nil, err
		}
		return stripper.Compile(f.Rules)
	case opts.lang != "":
		t, ok := a.registry.Lookup(opts.lang)
		if !ok {
			return nil, fmt.Errorf("unknown language %q, see 'nocomment languages'", opts.lang)
		}
		return t, nil
	}
	return nil, nil
}

func (a *app) stripFile(w io.Writer, path string, table *stripper.Table, encoding string) error {
	if table == nil {
		var ok bool
		var lang string
		lang, table, ok = a.registry.ForPath(input.Name(path))
		if !ok {
			return fmt.Errorf("%s: cannot tell the language from the extension, use --lang", path)
		}
		a.logger.Debug("detected language", "path", path, "language", lang)
	}

	rc, err := input.Open(a.fs, path, encoding)
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := stripper.NewReader(rc, table).WriteTo(w); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
