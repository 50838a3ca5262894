package review

// Insertion is a single "insert above line N" comment produced from a
// persona critique.
type Insertion struct {
	// LineNumber is 0-indexed and refers to the original, unmodified file.
	LineNumber int `json:"line_number"`

	// CommentText is already prefixed with the language's comment token on
	// every physical line.
	CommentText string `json:"comment_text"`

	// Context is the verbatim source the remark refers to. Preview only.
	Context string `json:"context,omitempty"`
}
