package reviewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"persona-review/internal/ai"
	"persona-review/internal/budget"
	"persona-review/internal/cache"
	"persona-review/internal/cost"
	"persona-review/internal/document"
	"persona-review/internal/observability"
	"persona-review/internal/ratelimit"
	"persona-review/internal/retry"
	"persona-review/internal/review"
)

var ErrBudgetExceeded = errors.New("budget exceeded")

type Request struct {
	Persona   string
	Document  *document.Document
	Selection *document.Selection // nil reviews the whole document
	Question  string
}

type Result struct {
	Response   string             `json:"response"`
	Insertions []review.Insertion `json:"insertions"`
	Plan       []review.Insertion `json:"plan"`
	Preview    string             `json:"preview"`
	Provider   string             `json:"provider,omitempty"`
	Model      string             `json:"model,omitempty"`
	Usage      ai.Usage           `json:"usage"`
	CostUSD    float64            `json:"cost_usd"`
	Cached     bool               `json:"cached"`
	Fallback   bool               `json:"fallback"`
}

type Options struct {
	Provider ai.Provider
	Syntax   *review.Syntax
	Cache    cache.Store
	Budget   *budget.Guard
	Limiter  *ratelimit.Limiter
	Logger   *observability.Logger

	// Backend namespaces cache keys so switching backends misses.
	Backend        string
	DefaultPersona string
	RetryAttempts  int
	RetryWait      time.Duration
}

type Service struct {
	provider ai.Provider
	syntax   *review.Syntax
	cache    cache.Store
	guard    *budget.Guard
	limiter  *ratelimit.Limiter
	logger   *observability.Logger

	backend        string
	defaultPersona string
	retryAttempts  int
	retryWait      time.Duration
	now            func() time.Time
}

func NewService(o Options) *Service {
	s := &Service{
		provider:       o.Provider,
		syntax:         o.Syntax,
		cache:          o.Cache,
		guard:          o.Budget,
		limiter:        o.Limiter,
		logger:         o.Logger,
		backend:        o.Backend,
		defaultPersona: o.DefaultPersona,
		retryAttempts:  o.RetryAttempts,
		retryWait:      o.RetryWait,
		now:            time.Now,
	}
	if s.syntax == nil {
		s.syntax = review.DefaultSyntax()
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.retryAttempts < 1 {
		s.retryAttempts = 1
	}
	return s
}

func (s *Service) Syntax() *review.Syntax {
	return s.syntax
}

// Review asks the persona about the selected lines and turns its critique
// into an insertion plan against the whole document.
func (s *Service) Review(ctx context.Context, req Request) (*Result, error) {
	doc := req.Document
	if doc == nil {
		return nil, document.ErrEmptyDocument
	}

	token, err := s.syntax.Token(doc.Language)
	if err != nil {
		return nil, err
	}

	sel, err := doc.Select(req.Selection)
	if err != nil {
		return nil, err
	}

	persona := req.Persona
	if persona == "" {
		persona = s.defaultPersona
	}

	areq := ai.ReviewRequest{
		Persona:  persona,
		File:     doc.Path,
		Language: doc.Language,
		Content:  doc.NumberedContext(sel),
		Question: req.Question,
	}

	log := s.logger.With("persona", persona, "file", doc.Path)

	key := cache.Key(s.backend, persona, ai.FullPrompt(areq))
	if text, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn("cache get failed", "err", err)
	} else if ok {
		observability.CacheHits.Inc()
		log.Debug("cache hit")
		res := s.plan(text, doc.Lines, token)
		res.Cached = true
		return res, nil
	}

	resp, costUSD, err := s.call(ctx, persona, areq)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, resp.Content); err != nil {
		log.Warn("cache set failed", "err", err)
	}

	res := s.plan(resp.Content, doc.Lines, token)
	res.Provider = resp.Provider
	res.Model = resp.Model
	res.Usage = resp.Usage
	res.CostUSD = costUSD

	log.Info("persona review",
		"provider", resp.Provider,
		"insertions", len(res.Insertions),
		"fallback", res.Fallback,
		"cost_usd", costUSD,
	)
	return res, nil
}

// PlanResponse runs only the parser and planner over a critique the caller
// already holds.
func (s *Service) PlanResponse(text string, lines []string, language string) (*Result, error) {
	token, err := s.syntax.Token(language)
	if err != nil {
		return nil, err
	}
	return s.plan(text, lines, token), nil
}

func (s *Service) plan(text string, lines []string, token string) *Result {
	insertions := review.Parse(text, lines, token)

	res := &Result{
		Response:   text,
		Insertions: insertions,
		Plan:       review.Plan(insertions),
		Preview:    review.Preview(insertions, lines),
		Fallback:   review.IsFallback(insertions, token),
	}

	if res.Fallback {
		observability.InsertionsParsed.WithLabelValues("fallback").Inc()
	} else {
		observability.InsertionsParsed.WithLabelValues("reference").Add(float64(len(insertions)))
	}
	return res
}

func (s *Service) call(ctx context.Context, persona string, areq ai.ReviewRequest) (ai.ReviewResponse, float64, error) {
	now := s.now()

	allowed, reason, scope, err := s.guard.Allow(ctx, persona, 0, now)
	if err != nil {
		return ai.ReviewResponse{}, 0, fmt.Errorf("budget check: %w", err)
	}
	if !allowed {
		observability.BudgetBlocks.WithLabelValues(scope).Inc()
		return ai.ReviewResponse{}, 0, fmt.Errorf("%w: %s", ErrBudgetExceeded, reason)
	}

	if err := s.limiter.Wait(ctx, persona); err != nil {
		return ai.ReviewResponse{}, 0, fmt.Errorf("rate limit: %w", err)
	}

	provider := s.backend
	if provider == "" {
		provider = "primary"
	}

	var resp ai.ReviewResponse
	err = retry.Do(ctx, s.retryAttempts, s.retryWait, func() error {
		start := time.Now()

		r, err := s.provider.Review(ctx, areq)

		observability.PersonaCalls.WithLabelValues(provider).Inc()
		observability.PersonaLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())

		if err != nil {
			observability.PersonaErrors.WithLabelValues(provider).Inc()
			s.logger.Warn("persona call failed", "persona", persona, "err", err)
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return ai.ReviewResponse{}, 0, fmt.Errorf("persona %q: %w", persona, err)
	}

	costUSD := resp.CostUSD
	if costUSD == 0 {
		costUSD = cost.EstimateUSD(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	observability.PersonaTokens.WithLabelValues(resp.Provider, resp.Model, "prompt").Add(float64(resp.Usage.PromptTokens))
	observability.PersonaTokens.WithLabelValues(resp.Provider, resp.Model, "completion").Add(float64(resp.Usage.CompletionTokens))
	observability.PersonaCostUSD.WithLabelValues(resp.Provider, resp.Model).Add(costUSD)

	if err := s.guard.Record(ctx, persona, costUSD, now); err != nil {
		s.logger.Error("budget record failed", "persona", persona, "err", err)
	}

	return resp, costUSD, nil
}
