package diff

import (
	"fmt"
	"strings"
)

// Unified renders the diff in unified format. An unchanged file renders as
// the empty string.
func (f FileDiff) Unified() string {
	if len(f.Hunks) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString("--- a/" + f.Filename + "\n")
	b.WriteString("+++ b/" + f.Filename + "\n")

	for _, h := range f.Hunks {
		oldCount, newCount := h.counts()
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", h.OldStart, oldCount, h.NewStart, newCount)

		for _, l := range h.Lines {

			prefix := " "
			if l.Type == Added {
				prefix = "+"
			}
			if l.Type == Removed {
				prefix = "-"
			}

			b.WriteString(
				prefix + l.Content + "\n",
			)
		}
	}

	return b.String()
}
