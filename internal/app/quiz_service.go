package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"smarttest-quiz-service/internal/catalog"
	"smarttest-quiz-service/internal/domain"
	"smarttest-quiz-service/internal/metrics"
)

// QuizDeps lists the collaborators of QuizService. Events, Hub and Metrics are optional.
type QuizDeps struct {
	Catalog    *catalog.Catalog
	Provider   *QuestionProvider
	Scoring    *ScoringEngine
	Users      UserRepository
	AnswerKeys AnswerKeyStore
	Events     EventPublisher
	Hub        *RankingHub
	Seed       []domain.LeaderboardEntry
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// QuizService contains the quiz use cases.
type QuizService struct {
	catalog    *catalog.Catalog
	provider   *QuestionProvider
	scoring    *ScoringEngine
	users      UserRepository
	answerKeys AnswerKeyStore
	events     EventPublisher
	hub        *RankingHub
	seed       []domain.LeaderboardEntry
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewQuizService(deps QuizDeps) *QuizService {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hub := deps.Hub
	if hub == nil {
		hub = NewRankingHub()
	}
	return &QuizService{
		catalog:    deps.Catalog,
		provider:   deps.Provider,
		scoring:    deps.Scoring,
		users:      deps.Users,
		answerKeys: deps.AnswerKeys,
		events:     deps.Events,
		hub:        hub,
		seed:       deps.Seed,
		logger:     logger,
		metrics:    deps.Metrics,
		now:        time.Now,
	}
}

// SubmitRequest is a quiz submission. When QuizID is set the server-held answer key is used,
// otherwise QuestionsData is treated as the client-held key.
type SubmitRequest struct {
	Subject       string
	QuizID        string
	Answers       []*int
	QuestionsData domain.AnswerKey
}

// Subjects lists the subjects clients may request.
func (s *QuizService) Subjects() []catalog.Subject {
	return s.catalog.Subjects()
}

// GenerateQuestions serves a question set and retains its answer key under a new quiz id.
func (s *QuizService) GenerateQuestions(ctx context.Context, subject string, difficulty domain.Difficulty, count int) (domain.QuestionSet, error) {
	set, err := s.provider.GetQuestions(ctx, subject, difficulty, count)
	if err != nil {
		return domain.QuestionSet{}, err
	}
	if s.answerKeys != nil && len(set.AnswerKey) > 0 {
		// storage must not depend on the caller still being connected
		id, err := s.answerKeys.Put(context.WithoutCancel(ctx), set.AnswerKey)
		if err != nil {
			return domain.QuestionSet{}, fmt.Errorf("store answer key: %w", err)
		}
		set.QuizID = id
	}
	return set, nil
}

// SubmitQuiz scores a submission, credits the user and refreshes the live ranking.
func (s *QuizService) SubmitQuiz(ctx context.Context, userID string, req SubmitRequest) (domain.SubmissionResult, error) {
	subject, ok := s.catalog.Lookup(req.Subject)
	if !ok {
		return domain.SubmissionResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownSubject, req.Subject)
	}
	if len(req.Answers) == 0 {
		return domain.SubmissionResult{}, fmt.Errorf("%w: no answers submitted", domain.ErrInvalidSubmission)
	}

	key, err := s.answerKey(ctx, req)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	result, err := s.scoring.Score(req.Answers, key)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	total, err := s.users.IncrementPoints(ctx, userID, result.PointsEarned)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.logger.Warn("scored submission for unknown user, points not stored", "user_id", userID)
	case err != nil:
		return domain.SubmissionResult{}, fmt.Errorf("increment points: %w", err)
	}

	result.Recommendations = s.scoring.Recommend(ctx, subject, result.AccuracyPercent)
	s.metrics.SubmissionScored(string(BandFor(result.AccuracyPercent)), result.PointsEarned)
	s.logger.Info("quiz submitted",
		"user_id", userID, "subject", subject.Key, "correct", result.CorrectCount,
		"total", result.TotalCount, "accuracy", result.AccuracyPercent, "points", result.PointsEarned)

	s.publishCompleted(ctx, domain.QuizCompleted{
		UserID:      userID,
		Subject:     subject.Key,
		Correct:     result.CorrectCount,
		Total:       result.TotalCount,
		Accuracy:    result.AccuracyPercent,
		Points:      result.PointsEarned,
		TotalPoints: total,
		CompletedAt: s.now(),
	})
	s.broadcastRanking(ctx)
	return result, nil
}

func (s *QuizService) answerKey(ctx context.Context, req SubmitRequest) (domain.AnswerKey, error) {
	if req.QuizID == "" {
		if len(req.QuestionsData) == 0 {
			return nil, fmt.Errorf("%w: question data not provided", domain.ErrInvalidSubmission)
		}
		return req.QuestionsData, nil
	}
	if s.answerKeys == nil {
		return nil, fmt.Errorf("%w: quiz ids are not supported", domain.ErrInvalidSubmission)
	}
	key, err := s.answerKeys.Take(ctx, req.QuizID)
	if err != nil {
		if errors.Is(err, domain.ErrQuizNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSubmission, err)
		}
		return nil, fmt.Errorf("load answer key: %w", err)
	}
	return key, nil
}

func (s *QuizService) publishCompleted(ctx context.Context, event domain.QuizCompleted) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishQuizCompleted(ctx, event); err != nil {
		s.logger.Error("publish quiz completed event", "user_id", event.UserID, "error", err)
	}
}

func (s *QuizService) broadcastRanking(ctx context.Context) {
	ranking, err := s.Ranking(ctx)
	if err != nil {
		s.logger.Error("refresh ranking", "error", err)
		return
	}
	s.hub.Publish(ranking)
}

// Ranking returns the current leaderboard.
func (s *QuizService) Ranking(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return Rank(s.seed, users), nil
}

// SubscribeRanking streams ranking snapshots, starting with the current one.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) SubscribeRanking(ctx context.Context) (<-chan []domain.LeaderboardEntry, func(), error) {
	current, err := s.Ranking(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(current)
	return ch, cancel, nil
}
