package ai

import (
	"context"
	"errors"
)

var (
	ErrEmptyResponse   = errors.New("empty persona response")
	ErrUnknownProvider = errors.New("unknown provider")
)

type ReviewRequest struct {
	Persona  string
	File     string
	Language string

	// Content is the selection rendered with file-absolute line numbers.
	Content string

	// Question is an optional user prompt; a general critique is asked for
	// when empty.
	Question string
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type ReviewResponse struct {
	Content  string
	Provider string
	Model    string
	Usage    Usage

	// CostUSD is set when the backend reports its own cost.
	CostUSD float64
}

//go:generate mockery --name Provider --output ../mocks --with-expecter
type Provider interface {
	Review(ctx context.Context, r ReviewRequest) (ReviewResponse, error)
}
