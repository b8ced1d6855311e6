// Package pipeline sequences extraction, prompt assembly, backend generation
// and response normalization for the two generation flows.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"eduflow/internal/block"
	"eduflow/internal/cache"
	"eduflow/internal/extract"
	"eduflow/internal/llm"
	"eduflow/internal/prompt"
)

// Service orchestrates a single generation run. All state is request-scoped;
// the backend and cache clients are read-only after construction, so the
// service is safe under any degree of concurrent use.
type Service struct {
	log       *slog.Logger
	provider  string
	backend   llm.Backend // nil when no credential is configured
	extractor *extract.Extractor
	assembler *prompt.Assembler
	cache     cache.Cache
	cacheTTL  time.Duration
}

// New builds a Service. backend may be nil; generation then fails with a
// ConfigurationError per request while the process keeps serving health.
func New(log *slog.Logger, provider string, backend llm.Backend, extractor *extract.Extractor, assembler *prompt.Assembler, c cache.Cache, cacheTTL time.Duration) *Service {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Service{
		log:       log,
		provider:  provider,
		backend:   backend,
		extractor: extractor,
		assembler: assembler,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

// Configured reports whether a generation backend is ready. Read-only status
// query; no generation is attempted.
func (s *Service) Configured() bool { return s.backend != nil }

// Provider returns the configured provider name.
func (s *Service) Provider() string { return s.provider }

// GenerateDirect runs the direct flow: assemble (no context), generate,
// normalize. Identical requests are served from the block cache while the
// TTL lasts.
func (s *Service) GenerateDirect(ctx context.Context, req prompt.Request) (*block.LearningBlock, error) {
	if s.backend == nil {
		return nil, &ConfigurationError{Provider: s.provider}
	}

	log := s.log.With("generation_id", uuid.NewString(), "backend", s.backend.Name())

	key := cache.Key(s.backend.Name(), req.Sujet, req.Niveau, req.Objectif)
	if cached, err := s.cache.GetBlock(ctx, key); err != nil {
		log.Warn("block cache lookup failed", "err", err)
	} else if cached != nil {
		log.Info("block cache hit", "sujet", req.Sujet)
		return cached, nil
	}

	b, err := s.run(ctx, log, s.assembler.Assemble(req, ""))
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetBlock(ctx, key, b, s.cacheTTL); err != nil {
		log.Warn("failed to cache block", "err", err)
	}
	return b, nil
}

// GenerateFromUpload runs the upload flow: extract, assemble with document
// context, generate, normalize. Upload results are not cached; the document
// text dominates the request and uploads are one-shot.
func (s *Service) GenerateFromUpload(ctx context.Context, content []byte, filename string, req prompt.Request) (*block.LearningBlock, error) {
	if s.backend == nil {
		return nil, &ConfigurationError{Provider: s.provider}
	}

	log := s.log.With("generation_id", uuid.NewString(), "backend", s.backend.Name(), "filename", filename)

	text, err := s.extractor.Extract(content, filename)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}
	log.Debug("document extracted", "chars", len(text))

	return s.run(ctx, log, s.assembler.Assemble(req.WithDefaults(), text))
}

// run performs the backend call and normalization shared by both flows. No
// retries: every failure is surfaced to the caller as-is.
func (s *Service) run(ctx context.Context, log *slog.Logger, p prompt.Payload) (*block.LearningBlock, error) {
	start := time.Now()
	raw, err := s.backend.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	log.Info("backend responded", "duration_ms", time.Since(start).Milliseconds(), "chars", len(raw))

	b, err := block.Normalize(raw)
	if err != nil {
		log.Warn("backend output failed normalization", "err", err)
		return nil, err
	}
	return b, nil
}
