package review

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

const previewRule = "----------------------------------------"

// Plan returns the insertions in application order: strictly descending by
// LineNumber, ties kept in their input order.
//
// Every insertion targets the ORIGINAL numbering, so callers must apply the
// result in exactly this order; applying bottom-up means an edit never shifts
// the anchor of an edit that is still pending. At a shared line the later
// remark ends up physically above the earlier one.
//
// The input slice is left untouched.
func Plan(insertions []Insertion) []Insertion {
	planned := slices.Clone(insertions)
	slices.SortStableFunc(planned, func(a, b Insertion) int {
		return cmp.Compare(b.LineNumber, a.LineNumber)
	})
	return planned
}

// IsApplicationOrder reports whether insertions satisfy Plan's post-condition.
func IsApplicationOrder(insertions []Insertion) bool {
	for i := 1; i < len(insertions); i++ {
		if insertions[i].LineNumber > insertions[i-1].LineNumber {
			return false
		}
	}
	return true
}

// Preview renders insertions for a human in discovery order, which is how the
// critique reads; it is deliberately not the application order.
func Preview(insertions []Insertion, sourceLines []string) string {
	blocks := make([]string, 0, len(insertions))

	for i, ins := range insertions {
		var b strings.Builder
		fmt.Fprintf(&b, "#%d line %d\n", i+1, ins.LineNumber+1)
		b.WriteString(ins.CommentText)

		if ctx := firstLine(ins.Context); ctx != "" {
			b.WriteString("\ncontext: " + ctx)
		} else if ins.LineNumber >= 0 && ins.LineNumber < len(sourceLines) {
			if above := strings.TrimSpace(sourceLines[ins.LineNumber]); above != "" {
				b.WriteString("\nabove: " + above)
			}
		}

		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n"+previewRule+"\n")
}

func firstLine(s string) string {
	first, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(first)
}
