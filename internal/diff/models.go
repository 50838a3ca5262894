package diff

type FileDiff struct {
	Filename string
	Hunks    []Hunk
}

type Hunk struct {
	OldStart int
	NewStart int
	Lines    []Line
}

type Line struct {
	Type      LineType
	Content   string
	OldNumber int
	NewNumber int
}

type LineType string

const (
	Added   LineType = "added"
	Removed LineType = "removed"
	Context LineType = "context"
)

func (h Hunk) counts() (oldCount, newCount int) {
	for _, l := range h.Lines {
		switch l.Type {
		case Context:
			oldCount++
			newCount++
		case Removed:
			oldCount++
		case Added:
			newCount++
		}
	}
	return oldCount, newCount
}

// Stats counts added and removed lines across all hunks.
func (f FileDiff) Stats() (added, removed int) {
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case Added:
				added++
			case Removed:
				removed++
			}
		}
	}
	return added, removed
}
