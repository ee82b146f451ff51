package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"smarttest-quiz-service/internal/app"
	"smarttest-quiz-service/internal/domain"
)

// GenerationCache keeps successful generations with TTL so repeated requests skip the backend.
type GenerationCache struct {
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedRecords
}

type cachedRecords struct {
	records   []domain.QuestionRecord
	expiresAt time.Time
}

type flightResult struct {
	records []domain.QuestionRecord
	hit     bool
}

func NewGenerationCache(ttl time.Duration) *GenerationCache {
	return &GenerationCache{
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedRecords),
	}
}

// GetOrGenerate returns a copy of the cached records for key, generating them on a miss.
// Concurrent misses for the same key share one generate call, which outlives the
// cancellation of whichever caller started it. A non-positive TTL disables storing.
func (c *GenerationCache) GetOrGenerate(ctx context.Context, key string, generate app.GenerateFunc) ([]domain.QuestionRecord, bool, error) {
	if records, ok := c.lookup(key); ok {
		return records, true, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if records, ok := c.lookup(key); ok {
			return flightResult{records: records, hit: true}, nil
		}

		records, err := generate(flightCtx)
		if err != nil {
			return flightResult{}, err
		}
		if c.ttl <= 0 {
			return flightResult{records: records}, nil
		}

		c.mu.Lock()
		c.cache[key] = cachedRecords{
			records:   cloneRecords(records),
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return flightResult{records: records}, nil
	})
	if err != nil {
		return nil, false, err
	}
	res := result.(flightResult)
	return cloneRecords(res.records), res.hit, nil
}

func (c *GenerationCache) lookup(key string) ([]domain.QuestionRecord, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return cloneRecords(entry.records), true
}

func (c *GenerationCache) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func cloneRecords(records []domain.QuestionRecord) []domain.QuestionRecord {
	if records == nil {
		return nil
	}
	out := make([]domain.QuestionRecord, len(records))
	for i, q := range records {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
