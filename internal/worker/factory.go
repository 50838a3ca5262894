package worker

import "persona-review/internal/config"

func NewQueue(cfg *config.Config) Queue {

	if cfg.QueueType == "redis" {
		return NewRedisQueue(
			cfg.RedisAddr,
			"persona_review_jobs",
		)
	}

	return NewMemoryQueue(100)
}
