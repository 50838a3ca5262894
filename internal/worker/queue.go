package worker

import (
	"context"

	"persona-review/internal/document"
)

// Queue is the job transport between the API and the processor.
type Queue interface {
	Push(ctx context.Context, j Job) error
	Pop(ctx context.Context) (Job, error)
}

// Job asks for one persona review of a file on disk. A nil Selection
// reviews the whole file.
type Job struct {
	ID        string              `json:"id"`
	Persona   string              `json:"persona"`
	Path      string              `json:"path"`
	Language  string              `json:"language,omitempty"`
	Selection *document.Selection `json:"selection,omitempty"`
	Question  string              `json:"question,omitempty"`

	// Apply writes the planned comments back to Path.
	Apply bool `json:"apply"`
}
