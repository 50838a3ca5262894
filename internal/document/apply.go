package document

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"persona-review/internal/review"
)

var (
	ErrNotDescending = errors.New("plan is not in descending line order")
	ErrOutOfRange    = errors.New("insertion line out of range")
)

// Apply inserts every planned comment immediately above its target line,
// in plan order, and returns the new line table. lines is not modified.
//
// Line numbers refer to the original table, so the plan must come from
// review.Plan; anything else would drift and is rejected up front.
func Apply(lines []string, plan []review.Insertion) ([]string, error) {
	if !review.IsApplicationOrder(plan) {
		return nil, ErrNotDescending
	}

	out := slices.Clone(lines)
	for _, ins := range plan {
		// an empty table still accepts line 0
		if ins.LineNumber < 0 || ins.LineNumber >= max(len(lines), 1) {
			return nil, fmt.Errorf("%w: line %d of %d", ErrOutOfRange, ins.LineNumber+1, len(lines))
		}
		out = slices.Insert(out, ins.LineNumber, strings.Split(ins.CommentText, "\n")...)
	}
	return out, nil
}
