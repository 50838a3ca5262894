package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"persona-review/internal/review"
)

var (
	ErrEmptyDocument    = errors.New("document is empty")
	ErrInvalidSelection = errors.New("invalid selection")
)

// Document is a source file split into its line table.
type Document struct {
	Path            string
	Language        string
	Lines           []string
	TrailingNewline bool
}

// Selection is an inclusive, 0-indexed line range.
type Selection struct {
	Start int `json:"start_line"`
	End   int `json:"end_line"`
}

// Split breaks text into lines. CRLF is normalized and a single trailing
// newline does not add an empty last line.
func Split(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Parse builds a Document from in-memory text. An empty language is detected
// from path.
func Parse(path, language, text string) (*Document, error) {
	if language == "" {
		lang, err := review.LanguageForPath(path)
		if err != nil {
			return nil, err
		}
		language = lang
	}

	return &Document{
		Path:            path,
		Language:        language,
		Lines:           Split(text),
		TrailingNewline: strings.HasSuffix(text, "\n"),
	}, nil
}

// Load reads path from disk.
func Load(path, language string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(path, language, string(b))
}

// Range builds a selection from optional 0-indexed bounds. A nil start
// selects the whole document and a nil end selects the start line alone.
func Range(start, end *int) *Selection {
	if start == nil {
		return nil
	}
	sel := Selection{Start: *start, End: *start}
	if end != nil {
		sel.End = *end
	}
	return &sel
}

// Select validates a selection, clamping End to the last line. A nil
// selection selects the whole document.
func (d *Document) Select(sel *Selection) (Selection, error) {
	if len(d.Lines) == 0 {
		return Selection{}, ErrEmptyDocument
	}

	last := len(d.Lines) - 1
	if sel == nil {
		return Selection{Start: 0, End: last}, nil
	}
	if sel.Start < 0 || sel.Start > last || sel.End < sel.Start {
		return Selection{}, fmt.Errorf("%w: lines %d-%d of %d", ErrInvalidSelection, sel.Start+1, sel.End+1, len(d.Lines))
	}
	return Selection{Start: sel.Start, End: min(sel.End, last)}, nil
}

// NumberedContext renders the selected lines with 1-indexed, file-absolute
// line numbers so a persona can reference them.
func (d *Document) NumberedContext(sel Selection) string {
	width := len(fmt.Sprint(sel.End + 1))

	var b strings.Builder
	for i := sel.Start; i <= sel.End && i < len(d.Lines); i++ {
		fmt.Fprintf(&b, "%*d | %s\n", width, i+1, d.Lines[i])
	}
	return b.String()
}

// Text joins the line table back into file content.
func (d *Document) Text() string {
	s := strings.Join(d.Lines, "\n")
	if d.TrailingNewline && len(d.Lines) > 0 {
		s += "\n"
	}
	return s
}

// WriteFile atomically replaces path with the document's text, keeping the
// existing file mode.
func (d *Document) WriteFile(path string) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(d.Text()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WithLines returns a copy of d carrying a new line table.
func (d *Document) WithLines(lines []string) *Document {
	cp := *d
	cp.Lines = lines
	return &cp
}
