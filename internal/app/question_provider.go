package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"smarttest-quiz-service/internal/catalog"
	"smarttest-quiz-service/internal/domain"
	"smarttest-quiz-service/internal/llm"
	"smarttest-quiz-service/internal/metrics"
	"smarttest-quiz-service/internal/parser"
)

var (
	errNotConfigured = fmt.Errorf("%w: not configured", domain.ErrBackendUnavailable)
	errNoRecords     = fmt.Errorf("%w: reply had no parseable question blocks", domain.ErrBackendUnavailable)
)

// ProviderConfig holds the question-count and timeout policy.
type ProviderConfig struct {
	DefaultCount      int
	MaxCount          int
	GenerationTimeout time.Duration
	Language          string
}

// DefaultProviderConfig serves 5 questions by default, at most 10, waiting up to 15s on the backend.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		DefaultCount:      5,
		MaxCount:          10,
		GenerationTimeout: 15 * time.Second,
		Language:          "Brazilian Portuguese",
	}
}

// QuestionProvider obtains question sets, preferring the generation backend and degrading to the catalog.
type QuestionProvider struct {
	catalog *catalog.Catalog
	backend llm.Backend
	cache   GenerationCache
	cfg     ProviderConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewQuestionProvider wires a provider. backend and cache may be nil.
func NewQuestionProvider(cat *catalog.Catalog, backend llm.Backend, cache GenerationCache, cfg ProviderConfig, logger *slog.Logger, m *metrics.Metrics) *QuestionProvider {
	defaults := DefaultProviderConfig()
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = defaults.DefaultCount
	}
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = defaults.MaxCount
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = defaults.GenerationTimeout
	}
	if cfg.Language == "" {
		cfg.Language = defaults.Language
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionProvider{
		catalog: cat,
		backend: backend,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// selection is the result of one attempt to obtain records: either records or the reason there are none.
type selection struct {
	records []domain.QuestionRecord
	source  domain.Source
	err     error
}

// GetQuestions returns up to count questions. The only error it surfaces is ErrUnknownSubject.
func (p *QuestionProvider) GetQuestions(ctx context.Context, subjectKey string, difficulty domain.Difficulty, count int) (domain.QuestionSet, error) {
	subject, ok := p.catalog.Lookup(subjectKey)
	if !ok {
		return domain.QuestionSet{}, fmt.Errorf("%w: %q", domain.ErrUnknownSubject, subjectKey)
	}
	count = p.clampCount(count)
	difficulty = domain.ParseDifficulty(string(difficulty))

	chosen := p.generate(ctx, subject, difficulty, count)
	if chosen.err != nil {
		p.logger.Warn("question generation unavailable, serving fallback bank",
			"subject", subject.Key, "difficulty", difficulty, "count", count, "error", chosen.err)
		p.metrics.GenerationFailed(failureReason(chosen.err))
		chosen = selection{records: p.catalog.Sample(subject.Key, count), source: domain.SourceFallback}
	}

	records := chosen.records
	if len(records) > count {
		records = records[:count]
	}

	views := make([]domain.ClientQuestionView, len(records))
	for i, q := range records {
		views[i] = domain.ClientQuestionView{
			ID:         i + 1,
			Prompt:     q.Prompt,
			Options:    append([]string(nil), q.Options...),
			Difficulty: q.Difficulty,
		}
	}
	p.metrics.QuestionSetServed(string(chosen.source))

	return domain.QuestionSet{
		Subject:   subject.Key,
		Questions: views,
		AnswerKey: domain.AnswerKey(records),
		Source:    chosen.source,
	}, nil
}

// clampCount applies the count policy: non-positive means default, anything above MaxCount is capped.
func (p *QuestionProvider) clampCount(count int) int {
	if count <= 0 {
		return p.cfg.DefaultCount
	}
	if count > p.cfg.MaxCount {
		return p.cfg.MaxCount
	}
	return count
}

func (p *QuestionProvider) generate(ctx context.Context, subject catalog.Subject, difficulty domain.Difficulty, count int) selection {
	if p.backend == nil {
		return selection{err: errNotConfigured}
	}

	call := func(ctx context.Context) ([]domain.QuestionRecord, error) {
		return p.callBackend(ctx, subject, difficulty, count)
	}
	if p.cache == nil {
		records, err := call(ctx)
		return selection{records: records, source: domain.SourceGenerated, err: err}
	}

	records, hit, err := p.cache.GetOrGenerate(ctx, generationKey(subject.Key, difficulty, count), call)
	if err != nil {
		return selection{err: err}
	}
	if hit {
		p.catalog.Shuffle(records)
	}
	return selection{records: records, source: domain.SourceGenerated}
}

func (p *QuestionProvider) callBackend(ctx context.Context, subject catalog.Subject, difficulty domain.Difficulty, count int) ([]domain.QuestionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.GenerationTimeout)
	defer cancel()

	start := time.Now()
	raw, err := p.backend.Generate(ctx, BuildQuestionPrompt(subject.Label, difficulty, count, p.cfg.Language))
	p.metrics.ObserveGeneration(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	records := parser.Parse(raw)
	if len(records) == 0 {
		return nil, errNoRecords
	}
	p.logger.Debug("generated questions", "subject", subject.Key, "difficulty", difficulty, "requested", count, "parsed", len(records))
	return records, nil
}

func generationKey(subject string, difficulty domain.Difficulty, count int) string {
	return fmt.Sprintf("%s:%s:%d", subject, difficulty, count)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, errNotConfigured):
		return "not_configured"
	case errors.Is(err, errNoRecords):
		return "no_records"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "backend_error"
	}
}
