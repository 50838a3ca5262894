package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newLanguagesCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List known languages and their line-comment tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			syntax, err := rt.syntax()
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("LANGUAGE", "TOKEN")
			for _, lang := range syntax.Languages() {
				tok, _ := syntax.Token(lang)
				t.Row(lang, tok)
			}

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
