package app

import (
	"context"

	"smarttest-quiz-service/internal/domain"
)

// UserRepository abstracts where accounts live (in-memory, Redis).
// Create must check email uniqueness atomically with the insert; IncrementPoints must not lose updates.
type UserRepository interface {
	Create(ctx context.Context, user domain.UserAccount) (domain.UserAccount, error)
	FindByEmail(ctx context.Context, email string) (domain.UserAccount, error)
	FindByID(ctx context.Context, id string) (domain.UserAccount, error)
	IncrementPoints(ctx context.Context, id string, delta int) (int, error)
	// List returns accounts in registration order.
	List(ctx context.Context) ([]domain.UserAccount, error)
}

// GenerateFunc produces fresh question records for a cache miss.
type GenerateFunc func(ctx context.Context) ([]domain.QuestionRecord, error)

// GenerationCache keeps successful generations for a bounded time.
// Failed generations are never cached. hit reports whether records came from the cache.
type GenerationCache interface {
	GetOrGenerate(ctx context.Context, key string, generate GenerateFunc) (records []domain.QuestionRecord, hit bool, err error)
}

// AnswerKeyStore holds served answer keys until the matching submission consumes them.
type AnswerKeyStore interface {
	Put(ctx context.Context, key domain.AnswerKey) (string, error)
	// Take returns and deletes the key; ErrQuizNotFound when absent or expired.
	Take(ctx context.Context, quizID string) (domain.AnswerKey, error)
}

// EventPublisher announces scored submissions to other systems.
type EventPublisher interface {
	PublishQuizCompleted(ctx context.Context, event domain.QuizCompleted) error
}
