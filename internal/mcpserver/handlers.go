package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"persona-review/internal/document"
	"persona-review/internal/review"
	"persona-review/internal/reviewer"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PlanCommentsParams struct {
	Response string `json:"response" jsonschema:"The persona critique text"`
	Content  string `json:"content" jsonschema:"Full source text of the file the critique refers to"`
	Language string `json:"language" jsonschema:"Language identifier such as go, python or typescript"`
}

type ReviewSelectionParams struct {
	Persona   string `json:"persona,omitempty" jsonschema:"Who reviews, e.g. a security auditor"`
	Path      string `json:"path" jsonschema:"Path of the file to review"`
	Language  string `json:"language,omitempty" jsonschema:"Language identifier; detected from the extension when empty"`
	StartLine int    `json:"start_line,omitempty" jsonschema:"First selected line, 1-indexed; 0 reviews the whole file"`
	EndLine   int    `json:"end_line,omitempty" jsonschema:"Last selected line, 1-indexed"`
	Question  string `json:"question,omitempty" jsonschema:"Optional question for the persona"`
}

type planOutput struct {
	Insertions []review.Insertion `json:"insertions"`
	Plan       []review.Insertion `json:"plan"`
	Fallback   bool               `json:"fallback"`
	CostUSD    float64            `json:"cost_usd,omitempty"`
}

func (s *Server) PlanComments(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params PlanCommentsParams,
) (*mcp.CallToolResult, any, error) {

	res, err := s.service.PlanResponse(params.Response, document.Split(params.Content), params.Language)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return planResult(res)
}

func (s *Server) ReviewSelection(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params ReviewSelectionParams,
) (*mcp.CallToolResult, any, error) {

	if params.Path == "" {
		return nil, nil, fmt.Errorf("path parameter is required")
	}

	doc, err := document.Load(params.Path, params.Language)
	if err != nil {
		return errorResult(err), nil, nil
	}

	var sel *document.Selection
	if params.StartLine > 0 {
		sel = &document.Selection{
			Start: params.StartLine - 1,
			End:   max(params.StartLine, params.EndLine) - 1,
		}
	}

	res, err := s.service.Review(ctx, reviewer.Request{
		Persona:   params.Persona,
		Document:  doc,
		Selection: sel,
		Question:  params.Question,
	})
	if err != nil {
		s.logger.Error("mcp review failed", "path", params.Path, "err", err)
		return errorResult(err), nil, nil
	}
	return planResult(res)
}

func planResult(res *reviewer.Result) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(planOutput{
		Insertions: res.Insertions,
		Plan:       res.Plan,
		Fallback:   res.Fallback,
		CostUSD:    res.CostUSD,
	}, "", "  ")
	if err != nil {
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: res.Preview},
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
		},
		IsError: true,
	}
}
