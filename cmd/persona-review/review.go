package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"persona-review/internal/diff"
	"persona-review/internal/document"
	"persona-review/internal/reviewer"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotApproved = errors.New("not applied")

type reviewOptions struct {
	file         string
	persona      string
	lang         string
	start        int
	end          int
	question     string
	responseFile string
	yes          bool
	dryRun       bool
	showDiff     bool
}

func newReviewCmd(rt *runtime) *cobra.Command {
	o := &reviewOptions{}

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Ask a persona to review a file and insert its remarks as comments",
		Long: `Review sends the file (or --start..--end, 1-indexed and inclusive) to the
configured persona backend, shows a preview of the comments it would insert,
and after approval writes them into the file above the lines they refer to.

With --response-file the backend is skipped and the given critique is used.

Examples:
  persona-review review --file main.go --persona "a security auditor"
  persona-review review --file app.py --start 10 --end 40 --question "any races?"
  persona-review review --file app.ts --response-file critique.txt --yes --diff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, rt, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.file, "file", "f", "", "file to review")
	f.StringVarP(&o.persona, "persona", "p", "", "who reviews (default from config)")
	f.StringVarP(&o.lang, "lang", "l", "", "language identifier (default detected from extension)")
	f.IntVar(&o.start, "start", 0, "first selected line, 1-indexed")
	f.IntVar(&o.end, "end", 0, "last selected line, 1-indexed")
	f.StringVarP(&o.question, "question", "q", "", "question for the persona")
	f.StringVar(&o.responseFile, "response-file", "", "use this critique instead of calling the backend (- for stdin)")
	f.BoolVarP(&o.yes, "yes", "y", false, "apply without asking")
	f.BoolVar(&o.dryRun, "dry-run", false, "preview only, never write")
	f.BoolVar(&o.showDiff, "diff", false, "print a unified diff of the change")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runReview(cmd *cobra.Command, rt *runtime, o *reviewOptions) error {
	out := cmd.OutOrStdout()

	svc, err := rt.service(false)
	if err != nil {
		return err
	}

	doc, err := document.Load(o.file, o.lang)
	if err != nil {
		return err
	}

	var res *reviewer.Result
	if o.responseFile != "" {
		text, err := readInput(cmd.InOrStdin(), o.responseFile)
		if err != nil {
			return err
		}
		res, err = svc.PlanResponse(text, doc.Lines, doc.Language)
		if err != nil {
			return err
		}
	} else {
		res, err = svc.Review(cmd.Context(), reviewer.Request{
			Persona:   o.persona,
			Document:  doc,
			Selection: selection(o.start, o.end),
			Question:  o.question,
		})
		if err != nil {
			return err
		}
	}

	printPreview(out, o.file, res)

	lines, err := document.Apply(doc.Lines, res.Plan)
	if err != nil {
		return err
	}

	if o.showDiff {
		fmt.Fprintln(out)
		printDiff(out, diff.Compute(o.file, doc.Lines, lines).Unified())
	}

	if o.dryRun {
		return nil
	}

	if !o.yes {
		ok, err := confirm(cmd, fmt.Sprintf("Insert %d comment(s) into %s?", len(res.Plan), o.file))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, mutedStyle.Render("nothing written"))
			return nil
		}
	}

	if err := doc.WithLines(lines).WriteFile(o.file); err != nil {
		return err
	}

	rt.logger.Info("comments inserted", "file", o.file, "count", len(res.Plan))
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("inserted %d comment(s) into %s", len(res.Plan), o.file)))
	return nil
}

// selection converts 1-indexed flags; a zero start means the whole file.
func selection(start, end int) *document.Selection {
	if start <= 0 {
		return nil
	}
	return &document.Selection{Start: start - 1, End: max(start, end) - 1}
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

// confirm asks a y/N question on the terminal. Non-interactive stdin is
// refused so a pipeline never edits files without --yes.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return false, fmt.Errorf("%w: stdin is not a terminal, pass --yes to apply", errNotApproved)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
