package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"smarttest-quiz-service/internal/domain"
)

// AnswerKeyStore keeps served answer keys under quiz:answers:{quizID} until submitted or expired.
type AnswerKeyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// DefaultAnswerKeyTTL replaces a non-positive TTL; SET with 0 would keep the key forever.
const DefaultAnswerKeyTTL = time.Hour

func NewAnswerKeyStore(client *redis.Client, ttl time.Duration) *AnswerKeyStore {
	if ttl <= 0 {
		ttl = DefaultAnswerKeyTTL
	}
	return &AnswerKeyStore{client: client, ttl: ttl}
}

func (s *AnswerKeyStore) Put(ctx context.Context, key domain.AnswerKey) (string, error) {
	payload, err := json.Marshal(key)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.client.Set(ctx, s.key(id), payload, s.ttl).Err(); err != nil {
		return "", wrap("set answer key", err)
	}
	return id, nil
}

// Take uses GETDEL so a key can be redeemed only once across instances.
func (s *AnswerKeyStore) Take(ctx context.Context, quizID string) (domain.AnswerKey, error) {
	payload, err := s.client.GetDel(ctx, s.key(quizID)).Bytes()
	if isNil(err) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, wrap("getdel answer key", err)
	}
	var key domain.AnswerKey
	if err := json.Unmarshal(payload, &key); err != nil {
		return nil, wrap("decode answer key", err)
	}
	return key, nil
}

func (s *AnswerKeyStore) key(quizID string) string {
	return "quiz:answers:" + quizID
}
