package ai

import (
	"fmt"

	"persona-review/internal/config"
)

// NewProvider builds the configured backend, chained to the fallback backend
// when one is set, behind a circuit breaker.
func NewProvider(cfg *config.Config) (Provider, error) {
	primary, err := newBackend(cfg, cfg.AIProvider)
	if err != nil {
		return nil, err
	}

	p := primary
	if cfg.FallbackProvider != "" && cfg.FallbackProvider != cfg.AIProvider {
		secondary, err := newBackend(cfg, cfg.FallbackProvider)
		if err != nil {
			return nil, err
		}
		p = NewFallback(primary, secondary)
	}

	return NewCircuitBreaker("persona-"+cfg.AIProvider, p), nil
}

func newBackend(cfg *config.Config, name string) (Provider, error) {
	switch name {

	case "persona":
		return NewPersonaCLI(PersonaOptions{
			Command:    cfg.PersonaCommand,
			Args:       cfg.PersonaArgs,
			Output:     cfg.PersonaOutput,
			ResultPath: cfg.PersonaResultPath,
			ErrorPath:  cfg.PersonaErrorPath,
			CostPath:   cfg.PersonaCostPath,
			Timeout:    cfg.PersonaTimeout,
		}), nil

	case "ollama":
		return NewOllama(
			cfg.OllamaURL,
			cfg.OllamaModel,
		), nil

	case "openai":
		return NewOpenAI(
			cfg.OpenAIKey,
			cfg.OpenAIModel,
			cfg.OpenAIBaseURL,
		), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
