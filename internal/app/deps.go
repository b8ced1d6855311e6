package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"eduflow/internal/cache"
	"eduflow/internal/config"
	"eduflow/internal/extract"
	"eduflow/internal/llm"
	"eduflow/internal/logger"
	"eduflow/internal/pipeline"
	"eduflow/internal/prompt"
)

// Deps bundles common runtime dependencies for the service.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Cache    cache.Cache
	Backend  llm.Backend
	Pipeline *pipeline.Service
}

// Build loads env, config, and shared components. A missing backend
// credential is not fatal: the service starts, reports itself unconfigured
// on the status endpoint, and fails generation requests individually.
func Build(ctx context.Context) (Deps, error) {
	// Optional; environment variables win over a .env file.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	backend, err := buildBackend(ctx, cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM backend: %w", err)
	}

	svc := pipeline.New(log, cfg.LLMProvider, backend, extract.New(),
		prompt.NewAssembler(cfg.ContextCharLimit), c, cfg.BlockCacheTTL)

	return Deps{
		Config:   cfg,
		Log:      log,
		Cache:    c,
		Backend:  backend,
		Pipeline: svc,
	}, nil
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		log.Info("using Redis block cache", "addr", cfg.RedisAddr)
		return c, nil
	case "noop":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: noop, redis)", cfg.CacheProvider)
	}
}

// buildBackend returns a nil backend (not an error) when the active
// provider's credential is absent, so startup succeeds and the state stays
// queryable.
func buildBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (llm.Backend, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiKey == "" {
			log.Warn("GEMINI_API_KEY not set; generation requests will fail until configured")
			return nil, nil
		}
		backend, err := llm.NewGeminiBackend(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		log.Info("using Gemini backend", "model", cfg.GeminiModel)
		return backend, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			log.Warn("OPENAI_API_KEY not set; generation requests will fail until configured")
			return nil, nil
		}
		backend, err := llm.NewOpenAIBackend(cfg.OpenAIKey, openai.ChatModel(cfg.OpenAIModel))
		if err != nil {
			return nil, err
		}
		log.Info("using OpenAI backend", "model", cfg.OpenAIModel)
		return backend, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: gemini, openai)", cfg.LLMProvider)
	}
}
