package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"smarttest-quiz-service/internal/domain"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleRecords() []domain.QuestionRecord {
	return []domain.QuestionRecord{
		{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1, Difficulty: domain.DifficultyMedium},
		{Prompt: "Capital of Brazil?", Options: []string{"Rio", "Brasilia", "Recife", "Salvador"}, CorrectIndex: 1, Difficulty: domain.DifficultyEasy},
	}
}
