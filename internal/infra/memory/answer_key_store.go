package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"smarttest-quiz-service/internal/domain"
)

// AnswerKeyStore is an in-memory implementation of app.AnswerKeyStore.
type AnswerKeyStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu   sync.Mutex
	keys map[string]storedKey
}

type storedKey struct {
	key       domain.AnswerKey
	expiresAt time.Time
}

// DefaultAnswerKeyTTL replaces a non-positive TTL so unredeemed keys always expire.
const DefaultAnswerKeyTTL = time.Hour

func NewAnswerKeyStore(ttl time.Duration) *AnswerKeyStore {
	if ttl <= 0 {
		ttl = DefaultAnswerKeyTTL
	}
	return &AnswerKeyStore{
		ttl:   ttl,
		clock: time.Now,
		keys:  make(map[string]storedKey),
	}
}

func (s *AnswerKeyStore) Put(_ context.Context, key domain.AnswerKey) (string, error) {
	id := uuid.NewString()
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked(now)
	s.keys[id] = storedKey{
		key:       domain.AnswerKey(cloneRecords(key)),
		expiresAt: now.Add(s.ttl),
	}
	return id, nil
}

func (s *AnswerKeyStore) Take(_ context.Context, quizID string) (domain.AnswerKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.keys[quizID]
	if !ok {
		return nil, domain.ErrQuizNotFound
	}
	delete(s.keys, quizID)
	if !stored.expiresAt.After(s.clock()) {
		return nil, domain.ErrQuizNotFound
	}
	return stored.key, nil
}

// Len reports how many keys are held, expired or not.
func (s *AnswerKeyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

func (s *AnswerKeyStore) evictExpiredLocked(now time.Time) {
	for id, stored := range s.keys {
		if !stored.expiresAt.After(now) {
			delete(s.keys, id)
		}
	}
}
