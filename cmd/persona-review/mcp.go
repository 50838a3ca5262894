package main

import (
	"os"
	"os/signal"
	"syscall"

	"persona-review/internal/mcpserver"

	"github.com/spf13/cobra"
)

func newMCPCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the plan_comments and review_selection tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := rt.service(true)
			if err != nil {
				return err
			}
			return mcpserver.New(svc, rt.logger).Run(ctx)
		},
	}
}
