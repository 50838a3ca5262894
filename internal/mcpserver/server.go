package mcpserver

import (
	"context"

	"persona-review/internal/observability"
	"persona-review/internal/reviewer"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const version = "v1.0.0"

type Server struct {
	service *reviewer.Service
	logger  *observability.Logger
	mcp     *mcp.Server
}

func New(service *reviewer.Service, logger *observability.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "persona-review",
			Version: version,
		}, nil),
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "plan_comments",
		Description: "Turn a persona critique that references \"Line N:\" into comment insertions for the given source, with a preview. Does not call any backend.",
	}, s.PlanComments)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "review_selection",
		Description: "Ask a persona to review lines of a file and return the planned comment insertions and a preview. Never edits the file.",
	}, s.ReviewSelection)

	return s
}

// Run serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
