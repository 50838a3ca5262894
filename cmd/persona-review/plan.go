package main

import (
	"encoding/json"

	"persona-review/internal/document"
	"persona-review/internal/review"
	"persona-review/internal/reviewer"

	"github.com/spf13/cobra"
)

func newPlanCmd(rt *runtime) *cobra.Command {
	var (
		file     string
		response string
		lang     string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan comment insertions for a critique without calling a backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			syntax, err := rt.syntax()
			if err != nil {
				return err
			}

			doc, err := document.Load(file, lang)
			if err != nil {
				return err
			}

			text, err := readInput(cmd.InOrStdin(), response)
			if err != nil {
				return err
			}

			res, err := planWith(syntax, text, doc)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printPreview(cmd.OutOrStdout(), file, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&file, "file", "f", "", "source file the critique refers to")
	f.StringVarP(&response, "response", "r", "-", "critique file (- for stdin)")
	f.StringVarP(&lang, "lang", "l", "", "language identifier (default detected from extension)")
	f.BoolVar(&asJSON, "json", false, "print the plan as JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// planWith runs the parser and planner only; no backend is built.
func planWith(syntax *review.Syntax, text string, doc *document.Document) (*reviewer.Result, error) {
	svc := reviewer.NewService(reviewer.Options{Syntax: syntax})
	return svc.PlanResponse(text, doc.Lines, doc.Language)
}
