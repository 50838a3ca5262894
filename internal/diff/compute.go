package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ContextLines is how many unchanged lines surround each change in a hunk.
const ContextLines = 3

// Compute diffs two line tables line-by-line.
func Compute(filename string, before, after []string) FileDiff {
	flat := lineDiff(before, after)
	return FileDiff{
		Filename: filename,
		Hunks:    group(flat),
	}
}

func lineDiff(before, after []string) []Line {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(joinLines(before), joinLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out []Line
	oldNo, newNo := 1, 1
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		for _, content := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, Line{Type: Context, Content: content, OldNumber: oldNo, NewNumber: newNo})
				oldNo++
				newNo++
			case diffmatchpatch.DiffDelete:
				out = append(out, Line{Type: Removed, Content: content, OldNumber: oldNo})
				oldNo++
			case diffmatchpatch.DiffInsert:
				out = append(out, Line{Type: Added, Content: content, NewNumber: newNo})
				newNo++
			}
		}
	}
	return out
}

// group cuts the flat line list into hunks with ContextLines of context,
// merging hunks whose context would overlap.
func group(flat []Line) []Hunk {
	var hunks []Hunk

	i := 0
	for i < len(flat) {
		if flat[i].Type == Context {
			i++
			continue
		}

		start := max(i-ContextLines, 0)
		end := i
		for end < len(flat) {
			if flat[end].Type != Context {
				end++
				continue
			}
			next := nextChange(flat, end)
			if next < 0 || next-end > 2*ContextLines {
				break
			}
			end = next
		}
		end = min(end+ContextLines, len(flat))

		hunks = append(hunks, newHunk(flat[start:end]))
		i = end
	}
	return hunks
}

func nextChange(flat []Line, from int) int {
	for j := from; j < len(flat); j++ {
		if flat[j].Type != Context {
			return j
		}
	}
	return -1
}

func newHunk(lines []Line) Hunk {
	h := Hunk{Lines: lines}
	for _, l := range lines {
		if h.OldStart == 0 && l.OldNumber > 0 {
			h.OldStart = l.OldNumber
		}
		if h.NewStart == 0 && l.NewNumber > 0 {
			h.NewStart = l.NewNumber
		}
	}
	return h
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
