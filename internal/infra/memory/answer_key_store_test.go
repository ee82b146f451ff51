package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"smarttest-quiz-service/internal/domain"
)

func TestAnswerKeyStoreTakeConsumes(t *testing.T) {
	store := NewAnswerKeyStore(time.Hour)
	ctx := context.Background()

	id, err := store.Put(ctx, domain.AnswerKey(sampleRecords()))
	if err != nil || id == "" {
		t.Fatalf("put: id=%q err=%v", id, err)
	}
	key, err := store.Take(ctx, id)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if len(key) != 2 || key[1].CorrectIndex != 1 {
		t.Fatalf("unexpected key %+v", key)
	}
	if _, err := store.Take(ctx, id); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected second take to fail, got %v", err)
	}
}

func TestAnswerKeyStoreExpires(t *testing.T) {
	store := NewAnswerKeyStore(time.Minute)
	now := time.Now()
	store.clock = func() time.Time { return now }
	ctx := context.Background()

	expired, _ := store.Put(ctx, domain.AnswerKey(sampleRecords()))
	now = now.Add(2 * time.Minute)
	if _, err := store.Take(ctx, expired); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected expired key to be gone, got %v", err)
	}

	stale, _ := store.Put(ctx, domain.AnswerKey(sampleRecords()))
	now = now.Add(2 * time.Minute)
	if _, err := store.Put(ctx, domain.AnswerKey(sampleRecords())); err != nil {
		t.Fatalf("put: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected stale key %s evicted, have %d keys", stale, store.Len())
	}
}

func TestAnswerKeyStoreNonPositiveTTLStillExpires(t *testing.T) {
	store := NewAnswerKeyStore(0)
	now := time.Now()
	store.clock = func() time.Time { return now }
	ctx := context.Background()

	id, _ := store.Put(ctx, domain.AnswerKey(sampleRecords()))
	now = now.Add(DefaultAnswerKeyTTL + time.Second)
	if _, err := store.Take(ctx, id); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected key to expire under the default ttl, got %v", err)
	}
}
