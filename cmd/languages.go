package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"bxfferoverflow.me/no-comment/languages"
)

func newLanguagesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "languages",
		Aliases: []string{"langs"},
		Short:   "List the known comment tables",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Language", "Extensions", "Open", "Close", "Nests", "Keep close", "Bare close")
			for _, name := range a.registry.Names() {
				t, _ := a.registry.Lookup(name)
				exts := strings.Join(a.registry.Extensions(name), " ")
				for i, r := range t.Language() {
					row := []string{"", "", quote(r.Open), quote(r.Close), yesNo(r.Nests), yesNo(r.KeepClose), yesNo(r.AllowBareClose)}
					if i == 0 {
						row[0], row[1] = name, exts
					}
					if err := table.Append(row); err != nil {
						return err
					}
				}
			}
			return table.Render()
		},
	}
	cmd.AddCommand(newLanguagesShowCommand(a))
	return cmd
}

func newLanguagesShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <language>",
		Short: "Print a comment table as YAML, ready for --rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.ToLower(args[0])
			t, ok := a.registry.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown language %q", args[0])
			}
			return languages.Encode(cmd.OutOrStdout(), &languages.File{
				Name:       name,
				Extensions: a.registry.Extensions(name),
				Rules:      t.Language(),
			})
		},
	}
}

// quote makes newlines and surrounding spaces visible.
func quote(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
