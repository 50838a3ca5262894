package cache

import "persona-review/internal/config"

func New(cfg *config.Config) Store {
	switch cfg.CacheType {
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.CacheTTL)
	case "memory":
		return NewMemory(cfg.CacheTTL)
	default:
		return Nop{}
	}
}
