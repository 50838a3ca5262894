package main

import (
	"fmt"
	"io"
	"strings"

	"persona-review/internal/reviewer"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func printPreview(w io.Writer, path string, res *reviewer.Result) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d comment(s) for %s", len(res.Insertions), path)))

	var meta []string
	if res.Provider != "" {
		meta = append(meta, res.Provider)
	}
	if res.Model != "" {
		meta = append(meta, res.Model)
	}
	if res.Cached {
		meta = append(meta, "cached")
	}
	if res.CostUSD > 0 {
		meta = append(meta, fmt.Sprintf("$%.4f", res.CostUSD))
	}
	if len(meta) > 0 {
		fmt.Fprintln(w, mutedStyle.Render(strings.Join(meta, " · ")))
	}
	if res.Fallback {
		fmt.Fprintln(w, warnStyle.Render("no line references found; the whole critique goes at the top of the file"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, res.Preview)
}

func printDiff(w io.Writer, unified string) {
	for _, l := range strings.SplitAfter(unified, "\n") {
		switch {
		case strings.HasPrefix(l, "+") && !strings.HasPrefix(l, "+++"):
			fmt.Fprint(w, addedStyle.Render(strings.TrimSuffix(l, "\n")), "\n")
		case strings.HasPrefix(l, "-") && !strings.HasPrefix(l, "---"):
			fmt.Fprint(w, removedStyle.Render(strings.TrimSuffix(l, "\n")), "\n")
		default:
			fmt.Fprint(w, l)
		}
	}
}
