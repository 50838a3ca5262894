package main

import (
	"fmt"

	"persona-review/internal/ai"
	"persona-review/internal/budget"
	"persona-review/internal/cache"
	"persona-review/internal/config"
	"persona-review/internal/observability"
	"persona-review/internal/ratelimit"
	"persona-review/internal/review"
	"persona-review/internal/reviewer"

	"github.com/spf13/cobra"
)

// runtime is what every subcommand needs once flags are parsed.
type runtime struct {
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *observability.Logger
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:   "persona-review",
		Short: "Insert persona code-review remarks as comments above the lines they target",
		Long: `persona-review asks a persona (an external agent CLI, OpenAI or Ollama) to
critique a file or a selection of it, turns every "Line N: remark" in the
answer into a comment placed directly above line N, and applies the edit
bottom-up so no comment lands on the wrong line.

Available commands:
  review     - ask a persona and apply its remarks as comments
  plan       - plan comments for a critique you already have
  serve      - run the HTTP API and job worker
  mcp        - run the MCP server on stdio
  languages  - list known languages and their comment tokens`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return rt.logger.Close()
		},
	}

	root.PersistentFlags().StringVar(&rt.cfgFile, "config", "", "config file (default ./persona-review.yaml)")
	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newReviewCmd(rt),
		newPlanCmd(rt),
		newServeCmd(rt),
		newMCPCmd(rt),
		newLanguagesCmd(rt),
	)
	return root
}

func (rt *runtime) init() error {
	cfg, err := config.Load(rt.cfgFile)
	if err != nil {
		return err
	}
	if rt.logLevel != "" {
		cfg.LogLevel = rt.logLevel
	}

	rt.cfg = cfg
	rt.logger = observability.NewLogger(cfg)
	return nil
}

func (rt *runtime) syntax() (*review.Syntax, error) {
	return review.DefaultSyntax().WithOverrides(rt.cfg.CommentTokens)
}

// cacheStore only keeps an in-process cache for long-lived commands; a
// one-shot process would never hit it.
func (rt *runtime) cacheStore(longLived bool) cache.Store {
	if !longLived && rt.cfg.CacheType != "redis" {
		return cache.Nop{}
	}
	return cache.New(rt.cfg)
}

func (rt *runtime) service(longLived bool) (*reviewer.Service, error) {
	cfg := rt.cfg

	provider, err := ai.NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	syntax, err := rt.syntax()
	if err != nil {
		return nil, fmt.Errorf("comment_tokens: %w", err)
	}

	return reviewer.NewService(reviewer.Options{
		Provider:       provider,
		Syntax:         syntax,
		Cache:          rt.cacheStore(longLived),
		Budget:         budget.NewGuard(cfg.BudgetEnabled, cfg.BudgetDailyUSD, cfg.BudgetPersonaUSD, budget.NewMemoryStore()),
		Limiter:        ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:         rt.logger,
		Backend:        cfg.AIProvider,
		DefaultPersona: cfg.DefaultPersona,
		RetryAttempts:  cfg.RetryAttempts,
		RetryWait:      cfg.RetryWait,
	}), nil
}
