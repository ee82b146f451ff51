package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"smarttest-quiz-service/internal/domain"
)

// BankLoader reads and writes the curated question_bank table.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

// LoadBanks returns every stored question grouped by subject key, in insertion order.
func (l *BankLoader) LoadBanks(ctx context.Context) (map[string][]domain.QuestionRecord, error) {
	rows, err := l.pool.Query(ctx, `SELECT subject, prompt, options, correct_index, difficulty FROM question_bank ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	defer rows.Close()

	banks := make(map[string][]domain.QuestionRecord)
	for rows.Next() {
		var (
			subject    string
			q          domain.QuestionRecord
			difficulty string
		)
		if err := rows.Scan(&subject, &q.Prompt, &q.Options, &q.CorrectIndex, &difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Difficulty = domain.ParseDifficulty(difficulty)
		banks[subject] = append(banks[subject], q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question bank: %w", err)
	}
	return banks, nil
}

// InsertQuestions appends records to a subject's bank in one batch.
func (l *BankLoader) InsertQuestions(ctx context.Context, subject string, records []domain.QuestionRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, q := range records {
		batch.Queue(
			`INSERT INTO question_bank (subject, prompt, options, correct_index, difficulty) VALUES ($1, $2, $3, $4, $5)`,
			subject, q.Prompt, q.Options, q.CorrectIndex, string(q.Difficulty),
		)
	}
	br := l.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert question for %s: %w", subject, err)
		}
	}
	return nil
}

// Count reports how many questions are stored.
func (l *BankLoader) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.pool.QueryRow(ctx, `SELECT count(*) FROM question_bank`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}
