package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"smarttest-quiz-service/internal/app"
	"smarttest-quiz-service/internal/domain"
)

// GenerationCache stores successful generations in Redis as JSON:
// SET quiz:generated:{subject}:{difficulty}:{count} <records> EX ttl
// Redis errors degrade to a direct generate call. A non-positive TTL disables storing,
// so no key is ever written without an expiry.
type GenerationCache struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

type flightResult struct {
	records []domain.QuestionRecord
	hit     bool
}

func NewGenerationCache(client *redis.Client, ttl time.Duration) *GenerationCache {
	return &GenerationCache{
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *GenerationCache) GetOrGenerate(ctx context.Context, key string, generate app.GenerateFunc) ([]domain.QuestionRecord, bool, error) {
	if records, ok := c.lookup(ctx, key); ok {
		return records, true, nil
	}

	// shared by every coalesced caller, so one disconnect must not cancel it
	flightCtx := context.WithoutCancel(ctx)
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if records, ok := c.lookup(flightCtx, key); ok {
			return flightResult{records: records, hit: true}, nil
		}

		records, err := generate(flightCtx)
		if err != nil {
			return flightResult{}, err
		}
		if c.ttl <= 0 {
			return flightResult{records: records}, nil
		}
		if payload, err := json.Marshal(records); err == nil {
			_ = c.client.Set(flightCtx, c.key(key), payload, c.ttlWithJitter()).Err()
		}
		return flightResult{records: records}, nil
	})
	if err != nil {
		return nil, false, err
	}
	res := result.(flightResult)
	return cloneRecords(res.records), res.hit, nil
}

func (c *GenerationCache) lookup(ctx context.Context, key string) ([]domain.QuestionRecord, bool) {
	payload, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var records []domain.QuestionRecord
	if err := json.Unmarshal(payload, &records); err != nil || len(records) == 0 {
		return nil, false
	}
	return records, true
}

func (c *GenerationCache) key(key string) string {
	return "quiz:generated:" + key
}

func (c *GenerationCache) ttlWithJitter() time.Duration {
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func cloneRecords(records []domain.QuestionRecord) []domain.QuestionRecord {
	out := make([]domain.QuestionRecord, len(records))
	for i, q := range records {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

func isNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

func wrap(op string, err error) error {
	return fmt.Errorf("redis %s: %w", op, err)
}
