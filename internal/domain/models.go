package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty grades a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty maps free input onto a known difficulty, defaulting to medium.
func ParseDifficulty(raw string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(raw))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// OptionCount is the number of lettered options (A-D) every question carries.
const OptionCount = 4

// Source tells where a served question set came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// QuestionRecord is a gradeable multiple-choice question.
type QuestionRecord struct {
	Prompt       string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctAnswer"`
	Difficulty   Difficulty `json:"difficulty"`
}

// Validate reports whether the record may be served as gradeable.
func (q QuestionRecord) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question prompt is empty")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("question has %d options, want %d", len(q.Options), OptionCount)
	}
	seen := make(map[string]struct{}, len(q.Options))
	for i, opt := range q.Options {
		norm := strings.ToLower(strings.TrimSpace(opt))
		if norm == "" {
			return fmt.Errorf("option %d is empty", i)
		}
		if _, dup := seen[norm]; dup {
			return fmt.Errorf("option %q is duplicated", opt)
		}
		seen[norm] = struct{}{}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return fmt.Errorf("correct index %d out of range", q.CorrectIndex)
	}
	return nil
}

// ClientQuestionView is what a quiz taker sees; it never carries the answer.
type ClientQuestionView struct {
	ID         int        `json:"id"`
	Prompt     string     `json:"question"`
	Options    []string   `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
}

// AnswerKey is aligned positionally with the served views.
type AnswerKey []QuestionRecord

// QuestionSet is the outcome of one generate-questions call.
type QuestionSet struct {
	QuizID    string
	Subject   string
	Questions []ClientQuestionView
	AnswerKey AnswerKey
	Source    Source
}

// QuestionResult is the per-question outcome of a submission.
type QuestionResult struct {
	QuestionID    int    `json:"questionId"`
	UserAnswer    *int   `json:"userAnswer"`
	CorrectAnswer int    `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Question      string `json:"question"`
}

// SubmissionResult summarizes a scored quiz.
type SubmissionResult struct {
	CorrectCount    int
	TotalCount      int
	AccuracyPercent int
	PointsEarned    int
	Results         []QuestionResult
	Recommendations []string
}

// UserAccount is a registered quiz taker.
type UserAccount struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Points       int       `json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail is the comparison form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Points        int    `json:"points"`
	AvatarInitial string `json:"avatar"`
	Position      int    `json:"position"`
}

// QuizCompleted is emitted after a submission is scored.
type QuizCompleted struct {
	UserID      string    `json:"userId"`
	Subject     string    `json:"subject"`
	Correct     int       `json:"correctAnswers"`
	Total       int       `json:"totalQuestions"`
	Accuracy    int       `json:"accuracy"`
	Points      int       `json:"points"`
	TotalPoints int       `json:"totalPoints"`
	CompletedAt time.Time `json:"completedAt"`
}
