package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"persona-review/internal/config"
	"persona-review/internal/observability"
	"persona-review/internal/reviewer"
	"persona-review/internal/worker"
)

// Jobs is the async side of the API.
type Jobs interface {
	Enqueue(ctx context.Context, j worker.Job) (string, error)
	Status(ctx context.Context, id string) (worker.JobState, error)
}

type Server struct {
	cfg     *config.Config
	logger  *observability.Logger
	service *reviewer.Service
	jobs    Jobs
	http    *http.Server
}

func NewServer(cfg *config.Config, logger *observability.Logger, service *reviewer.Service, jobs Jobs) *Server {

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		service: service,
		jobs:    jobs,
	}

	s.http = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting server",
		"addr", s.http.Addr,
		"env", s.cfg.Env,
	)

	if err := s.http.ListenAndServe(); err != nil &&
		err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
