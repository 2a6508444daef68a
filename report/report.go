// Package report renders counter results.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bxfferoverflow.me/no-comment/counter"
)

const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// Formats lists the accepted values of Options.Format.
var Formats = []string{FormatTable, FormatMarkdown, FormatCSV}

type Options struct {
	Format string
	// Color enables ANSI colors in the summary.
	Color bool
	// PathWidth truncates failed paths to this many columns, 0 for no limit.
	PathWidth int
}

// Write renders c to w.
func Write(w io.Writer, c *counter.Counter, opts Options) error {
	p := message.NewPrinter(language.English)
	num := func(n int64) string { return p.Sprintf("%d", n) }

	switch opts.Format {
	case "", FormatTable, FormatMarkdown:
	case FormatCSV:
		// machine readable, no grouping
		num = func(n int64) string { return strconv.FormatInt(n, 10) }
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Ext", "Language", "Files", "Lines", "Blank", "Code", "Comment", "Removed"})
	for _, s := range c.ByExt() {
		t.AppendRow(table.Row{s.Ext, s.Language, num(s.Files), num(s.Lines), num(s.Blank), num(s.Code), num(s.Comment), num(s.Removed)})
	}
	total := c.Totals()
	footer := table.Row{"Total", "", num(total.Files), num(total.Lines), num(total.Blank), num(total.Code), num(total.Comment), num(total.Removed)}

	t.AppendFooter(footer)

	var out string
	switch opts.Format {
	case FormatMarkdown:
		out = t.RenderMarkdown()
	case FormatCSV:
		out = t.RenderCSV()
	default:
		t.SetStyle(table.StyleLight)
		out = t.Render()
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}
	if opts.Format == FormatCSV {
		return nil
	}
	return writeSummary(w, c, p, opts)
}

func writeSummary(w io.Writer, c *counter.Counter, p *message.Printer, opts Options) error {
	good := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed)
	if opts.Color {
		good.EnableColor()
		bad.EnableColor()
	} else {
		good.DisableColor()
		bad.DisableColor()
	}

	total := c.Totals()
	if _, err := fmt.Fprintf(w, "%s %s\n", good.Sprint("Average lines per file:"), p.Sprintf("%.1f", total.AverageLinesPerFile())); err != nil {
		return err
	}

	failures := c.Failures()
	if len(failures) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, bad.Sprintf("%d file(s) skipped:", len(failures))); err != nil {
		return err
	}
	for _, f := range failures {
		path := f.Path
		if opts.PathWidth > 0 {
			path = runewidth.Truncate(path, opts.PathWidth, "…")
		}
		if _, err := fmt.Fprintf(w, "  %s: %v\n", path, f.Err); err != nil {
			return err
		}
	}
	return nil
}
