package ai

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	personaPlaceholder = "{{persona}}"
	maxStderrExcerpt   = 512
)

var execCommandContext = exec.CommandContext

type PersonaOptions struct {
	Command string
	Args    []string

	// Output is "text" (stdout is the critique) or "json" (the paths below
	// select fields of a JSON document on stdout).
	Output     string
	ResultPath string
	ErrorPath  string
	CostPath   string

	Timeout time.Duration
}

// PersonaCLI asks an external agent CLI for the critique. The full prompt is
// written to the command's stdin.
type PersonaCLI struct {
	opts PersonaOptions
}

func NewPersonaCLI(opts PersonaOptions) *PersonaCLI {
	if opts.Output == "" {
		opts.Output = "text"
	}
	if opts.ResultPath == "" {
		opts.ResultPath = "result"
	}
	return &PersonaCLI{opts: opts}
}

func (p *PersonaCLI) Review(ctx context.Context, r ReviewRequest) (ReviewResponse, error) {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	args := make([]string, len(p.opts.Args))
	for i, a := range p.opts.Args {
		args[i] = strings.ReplaceAll(a, personaPlaceholder, r.Persona)
	}

	prompt := FullPrompt(r)

	cmd := execCommandContext(ctx, p.opts.Command, args...)
	cmd.Stdin = strings.NewReader(prompt)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ReviewResponse{}, fmt.Errorf("persona command %s after %v: %w", p.opts.Command, time.Since(start).Round(time.Millisecond), ctx.Err())
		}
		return ReviewResponse{}, fmt.Errorf("persona command %s: %w: %s", p.opts.Command, err, excerpt(stderr.String()))
	}

	text, costUSD, err := p.decode(stdout.String())
	if err != nil {
		return ReviewResponse{}, err
	}
	if strings.TrimSpace(text) == "" {
		return ReviewResponse{}, fmt.Errorf("%w: %s", ErrEmptyResponse, excerpt(stderr.String()))
	}

	return ReviewResponse{
		Content:  text,
		Provider: "persona",
		Model:    filepath.Base(p.opts.Command),
		Usage:    estimateUsage(prompt, text),
		CostUSD:  costUSD,
	}, nil
}

func (p *PersonaCLI) decode(out string) (string, float64, error) {
	if p.opts.Output != "json" {
		return out, 0, nil
	}

	if !gjson.Valid(out) {
		return "", 0, fmt.Errorf("persona output is not valid json: %s", excerpt(out))
	}
	doc := gjson.Parse(out)

	result := doc.Get(p.opts.ResultPath)
	if p.opts.ErrorPath != "" && doc.Get(p.opts.ErrorPath).Bool() {
		return "", 0, fmt.Errorf("persona reported an error: %s", excerpt(result.String()))
	}
	if !result.Exists() {
		return "", 0, fmt.Errorf("%w: no %q in persona output", ErrEmptyResponse, p.opts.ResultPath)
	}

	var costUSD float64
	if p.opts.CostPath != "" {
		costUSD = doc.Get(p.opts.CostPath).Float()
	}
	return result.String(), costUSD, nil
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(no output)"
	}
	if len(s) > maxStderrExcerpt {
		return s[:maxStderrExcerpt] + "..."
	}
	return s
}
