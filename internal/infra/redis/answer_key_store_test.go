package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"smarttest-quiz-service/internal/domain"
)

func TestAnswerKeyStoreSetsAndConsumesKeys(t *testing.T) {
	mr, client := newClient(t)
	store := NewAnswerKeyStore(client, time.Hour)
	ctx := context.Background()

	id, err := store.Put(ctx, domain.AnswerKey(sampleRecords()))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !mr.Exists("quiz:answers:" + id) {
		t.Fatalf("expected redis key to be set")
	}

	key, err := store.Take(ctx, id)
	if err != nil || len(key) != 2 || key[0].CorrectIndex != 1 {
		t.Fatalf("take: %+v %v", key, err)
	}
	if mr.Exists("quiz:answers:" + id) {
		t.Fatalf("expected redis key to be removed")
	}
	if _, err := store.Take(ctx, id); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestAnswerKeyStoreExpires(t *testing.T) {
	mr, client := newClient(t)
	store := NewAnswerKeyStore(client, time.Minute)

	id, _ := store.Put(context.Background(), domain.AnswerKey(sampleRecords()))
	mr.FastForward(2 * time.Minute)
	if _, err := store.Take(context.Background(), id); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestAnswerKeyStoreNonPositiveTTLStillExpires(t *testing.T) {
	mr, client := newClient(t)
	store := NewAnswerKeyStore(client, 0)

	id, err := store.Put(context.Background(), domain.AnswerKey(sampleRecords()))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if ttl := mr.TTL("quiz:answers:" + id); ttl != DefaultAnswerKeyTTL {
		t.Fatalf("expected default ttl %v, got %v", DefaultAnswerKeyTTL, ttl)
	}
}
