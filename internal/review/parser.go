package review

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const fallbackMarker = "REVIEW:"

var (
	// "Line 5:", "lines 3-6", "LINE 12 -14:" ... never spans a newline.
	lineRefRe = regexp.MustCompile(`(?i)\blines?[ \t]+(\d+)(?:[ \t]*-[ \t]*(\d+))?[ \t]*:?`)

	// any standalone "line"/"lines" ends the remark in progress
	triggerRe = regexp.MustCompile(`(?i)\blines?\b`)
)

// Parse extracts line-anchored comments from free-form critique text.
//
// Each "line N" or "lines N-M" reference becomes one Insertion whose remark
// runs up to the next "line"/"lines" word, the next newline, or the end of
// the text. References outside sourceLines are dropped, and so are references
// whose remark is empty once trimmed ("Line 2:" alone). When nothing
// survives, the whole response is returned as a single REVIEW block anchored
// at line 0, so callers always have something to show.
//
// Parse never fails: the response comes from an uncontrolled generator.
func Parse(responseText string, sourceLines []string, commentToken string) []Insertion {
	text := normalizeNewlines(responseText)

	headers := lineRefRe.FindAllStringSubmatchIndex(text, -1)
	triggers := triggerRe.FindAllStringIndex(text, -1)

	var out []Insertion
	for _, h := range headers {
		start, ok := toIndex(text, h[2], h[3])
		if !ok || start < 0 || start >= len(sourceLines) {
			continue
		}

		end := start
		if h[4] >= 0 {
			if e, ok := toIndex(text, h[4], h[5]); ok && e >= start {
				end = e
			}
		}
		if end > len(sourceLines)-1 {
			end = len(sourceLines) - 1
		}

		remark := strings.TrimSpace(text[h[1]:remarkEnd(text, h[1], triggers)])
		if remark == "" {
			continue
		}

		out = append(out, Insertion{
			LineNumber:  start,
			CommentText: commentToken + " " + remark,
			Context:     strings.Join(sourceLines[start:end+1], "\n"),
		})
	}

	if len(out) == 0 {
		return []Insertion{fallback(text, commentToken)}
	}
	return out
}

// remarkEnd returns the offset where a remark starting at from stops.
func remarkEnd(text string, from int, triggers [][]int) int {
	end := len(text)
	if nl := strings.IndexByte(text[from:], '\n'); nl >= 0 {
		end = from + nl
	}

	i := sort.Search(len(triggers), func(i int) bool { return triggers[i][0] >= from })
	if i < len(triggers) && triggers[i][0] < end {
		end = triggers[i][0]
	}
	return end
}

func toIndex(text string, lo, hi int) (int, bool) {
	n, err := strconv.Atoi(text[lo:hi])
	if err != nil {
		return 0, false
	}
	return n - 1, true
}

func fallback(text, commentToken string) Insertion {
	lines := []string{commentToken, commentToken + " " + fallbackMarker}

	if body := strings.TrimSpace(text); body != "" {
		for _, l := range strings.Split(body, "\n") {
			lines = append(lines, prefixLine(commentToken, l))
		}
	}

	return Insertion{
		LineNumber:  0,
		CommentText: strings.Join(lines, "\n"),
	}
}

func prefixLine(commentToken, line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return commentToken
	}
	return commentToken + " " + line
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// IsFallback reports whether insertions is the single REVIEW block Parse
// returns when the response held no usable reference.
func IsFallback(insertions []Insertion, commentToken string) bool {
	return len(insertions) == 1 &&
		insertions[0].LineNumber == 0 &&
		strings.HasPrefix(insertions[0].CommentText, commentToken+"\n"+commentToken+" "+fallbackMarker)
}
