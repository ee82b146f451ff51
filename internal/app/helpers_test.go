package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"smarttest-quiz-service/internal/app"
	"smarttest-quiz-service/internal/catalog"
	"smarttest-quiz-service/internal/domain"
	"smarttest-quiz-service/internal/infra/memory"
	"smarttest-quiz-service/internal/llm"
)

var errBackendDown = errors.New("backend down")

// scriptedBackend replies with fixed text, or fails when err is set.
type scriptedBackend struct {
	mu      sync.Mutex
	reply   string
	err     error
	delay   time.Duration
	prompts []string
}

func (b *scriptedBackend) Generate(ctx context.Context, prompt string) (string, error) {
	b.mu.Lock()
	b.prompts = append(b.prompts, prompt)
	b.mu.Unlock()
	if b.delay > 0 {
		select {
		case <-time.After(b.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if b.err != nil {
		return "", b.err
	}
	return b.reply, nil
}

func (b *scriptedBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.prompts)
}

func generatedBlocks(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "QUESTION %d:\nPrompt: Generated question %d?\nA) one\nB) two\nC) three\nD) four\nCORRECT: B\n\n", i, i)
	}
	return sb.String()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	service *app.QuizService
	auth    *app.AuthService
	users   *memory.UserStore
	keys    *memory.AnswerKeyStore
	events  *recordingPublisher
}

func newTestEnv(backend llm.Backend) *testEnv {
	cat := catalog.Default()
	logger := discardLogger()
	users := memory.NewUserStore()
	keys := memory.NewAnswerKeyStore(time.Hour)
	events := &recordingPublisher{}

	provider := app.NewQuestionProvider(cat, backend, memory.NewGenerationCache(time.Hour), app.DefaultProviderConfig(), logger, nil)
	scoring := app.NewScoringEngine(nil, app.FlatPointsPolicy(20), time.Second, "", logger)
	service := app.NewQuizService(app.QuizDeps{
		Catalog:    cat,
		Provider:   provider,
		Scoring:    scoring,
		Users:      users,
		AnswerKeys: keys,
		Events:     events,
		Seed:       app.SeedRanking(),
		Logger:     logger,
	})
	return &testEnv{service: service, users: users, keys: keys, events: events}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.QuizCompleted
	err    error
}

func (p *recordingPublisher) PublishQuizCompleted(_ context.Context, event domain.QuizCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func intPtr(v int) *int { return &v }
