package app

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"smarttest-quiz-service/internal/catalog"
	"smarttest-quiz-service/internal/domain"
	"smarttest-quiz-service/internal/llm"
)

const (
	PointsModeFlat       = "flat"
	PointsModeDifficulty = "difficulty"
)

// PointsPolicy decides how many points a correct answer is worth.
type PointsPolicy struct {
	Mode       string
	PerCorrect int
	Easy       int
	Medium     int
	Hard       int
}

// FlatPointsPolicy awards the same points for every correct answer.
func FlatPointsPolicy(perCorrect int) PointsPolicy {
	if perCorrect <= 0 {
		perCorrect = 20
	}
	return PointsPolicy{Mode: PointsModeFlat, PerCorrect: perCorrect}
}

// DifficultyPointsPolicy awards 50/100/150 for easy/medium/hard.
func DifficultyPointsPolicy() PointsPolicy {
	return PointsPolicy{Mode: PointsModeDifficulty, Easy: 50, Medium: 100, Hard: 150}
}

// PointsFor returns the award for one correct answer of the given difficulty.
func (p PointsPolicy) PointsFor(d domain.Difficulty) int {
	if p.Mode != PointsModeDifficulty {
		return p.PerCorrect
	}
	switch d {
	case domain.DifficultyEasy:
		return p.Easy
	case domain.DifficultyHard:
		return p.Hard
	default:
		return p.Medium
	}
}

// ScoringEngine grades submissions and produces study recommendations.
type ScoringEngine struct {
	backend  llm.Backend
	policy   PointsPolicy
	timeout  time.Duration
	language string
	logger   *slog.Logger
}

// NewScoringEngine builds an engine; backend may be nil, in which case recommendations are static.
func NewScoringEngine(backend llm.Backend, policy PointsPolicy, timeout time.Duration, language string, logger *slog.Logger) *ScoringEngine {
	if policy.Mode == "" {
		policy = FlatPointsPolicy(policy.PerCorrect)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if language == "" {
		language = DefaultProviderConfig().Language
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringEngine{backend: backend, policy: policy, timeout: timeout, language: language, logger: logger}
}

// Score grades answers positionally against key. Accuracy is relative to the number of submitted answers.
func (e *ScoringEngine) Score(answers []*int, key domain.AnswerKey) (domain.SubmissionResult, error) {
	if len(key) == 0 {
		return domain.SubmissionResult{}, fmt.Errorf("%w: answer key is empty", domain.ErrInvalidSubmission)
	}
	if len(answers) == 0 {
		return domain.SubmissionResult{}, fmt.Errorf("%w: no answers submitted", domain.ErrInvalidSubmission)
	}
	for i, q := range key {
		if q.CorrectIndex < 0 || q.CorrectIndex >= domain.OptionCount {
			return domain.SubmissionResult{}, fmt.Errorf("%w: question %d has correct index %d", domain.ErrInvalidSubmission, i+1, q.CorrectIndex)
		}
	}

	result := domain.SubmissionResult{TotalCount: len(answers)}
	for i, answer := range answers {
		if i >= len(key) {
			break
		}
		q := key[i]
		correct := answer != nil && *answer == q.CorrectIndex
		if correct {
			result.CorrectCount++
			result.PointsEarned += e.policy.PointsFor(q.Difficulty)
		}
		result.Results = append(result.Results, domain.QuestionResult{
			QuestionID:    i + 1,
			UserAnswer:    answer,
			CorrectAnswer: q.CorrectIndex,
			IsCorrect:     correct,
			Question:      q.Prompt,
		})
	}
	result.AccuracyPercent = int(math.Round(100 * float64(result.CorrectCount) / float64(len(answers))))
	return result, nil
}

// Recommend returns RecommendationCount study tips. It never fails: backend problems degrade to the static table.
func (e *ScoringEngine) Recommend(ctx context.Context, subject catalog.Subject, accuracy int) []string {
	band := BandFor(accuracy)
	if e.backend != nil {
		tips, err := e.generateRecommendations(ctx, subject, accuracy, band)
		if err == nil {
			return tips
		}
		e.logger.Warn("recommendation generation failed, using static table",
			"subject", subject.Key, "accuracy", accuracy, "error", err)
	}
	return StaticRecommendations(subject.Key, band)
}

func (e *ScoringEngine) generateRecommendations(ctx context.Context, subject catalog.Subject, accuracy int, band Band) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.backend.Generate(ctx, BuildRecommendationPrompt(subject.Label, accuracy, band, e.language))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	tips := parseBullets(raw, RecommendationCount)
	if len(tips) == 0 {
		return nil, fmt.Errorf("%w: reply had no bullet lines", domain.ErrBackendUnavailable)
	}
	return tips, nil
}

// parseBullets keeps lines starting with a dash, without the dash, up to limit.
func parseBullets(raw string, limit int) []string {
	var tips []string
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() && len(tips) < limit {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "-") {
			continue
		}
		if tip := strings.TrimSpace(strings.TrimPrefix(line, "-")); tip != "" {
			tips = append(tips, tip)
		}
	}
	return tips
}
