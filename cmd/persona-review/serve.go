package main

import (
	"os"
	"os/signal"
	"syscall"

	"persona-review/internal/app"
	"persona-review/internal/worker"

	"github.com/spf13/cobra"
)

func newServeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background review worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := rt.service(true)
			if err != nil {
				return err
			}

			queue := worker.NewQueue(rt.cfg)
			store := worker.NewMemoryJobStore()

			processor := worker.NewProcessor(queue, store, svc, rt.logger)
			processor.Start(ctx)

			server := app.NewServer(rt.cfg, rt.logger, svc, worker.NewAdapter(queue, store))
			return server.Start(ctx)
		},
	}
}
