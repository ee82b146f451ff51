package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"smarttest-quiz-service/internal/app"
	"smarttest-quiz-service/internal/catalog"
	"smarttest-quiz-service/internal/domain"
)

// QuizUseCases is the quiz surface the handlers need.
type QuizUseCases interface {
	Subjects() []catalog.Subject
	GenerateQuestions(ctx context.Context, subject string, difficulty domain.Difficulty, count int) (domain.QuestionSet, error)
	SubmitQuiz(ctx context.Context, userID string, req app.SubmitRequest) (domain.SubmissionResult, error)
	Ranking(ctx context.Context) ([]domain.LeaderboardEntry, error)
	SubscribeRanking(ctx context.Context) (<-chan []domain.LeaderboardEntry, func(), error)
}

// AccountUseCases is the account surface the handlers need.
type AccountUseCases interface {
	Authenticator
	Register(ctx context.Context, name, email, password string) (app.Session, error)
	Login(ctx context.Context, email, password string) (app.Session, error)
	Profile(ctx context.Context, userID string) (domain.UserAccount, error)
}

type API struct {
	quiz     QuizUseCases
	accounts AccountUseCases
	logger   *slog.Logger
	now      func() time.Time
}

func NewAPI(quiz QuizUseCases, accounts AccountUseCases, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{quiz: quiz, accounts: accounts, logger: logger, now: time.Now}
}

type publicUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Points int    `json:"points"`
}

type sessionResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    publicUser `json:"user"`
}

func toPublicUser(u domain.UserAccount) publicUser {
	return publicUser{ID: u.ID, Name: u.Name, Email: u.Email, Points: u.Points}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}
	session, err := a.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		Message: "user registered successfully",
		Token:   session.Token,
		User:    toPublicUser(session.User),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}
	session, err := a.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Message: "login successful",
		Token:   session.Token,
		User:    toPublicUser(session.User),
	})
}

type subjectsResponse struct {
	Subjects []subjectView `json:"subjects"`
}

type subjectView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func (a *API) Subjects(w http.ResponseWriter, _ *http.Request) {
	subjects := a.quiz.Subjects()
	views := make([]subjectView, len(subjects))
	for i, s := range subjects {
		views[i] = subjectView{Key: s.Key, Label: s.Label}
	}
	writeJSON(w, http.StatusOK, subjectsResponse{Subjects: views})
}

type generateRequest struct {
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

type generateResponse struct {
	Questions []domain.ClientQuestionView `json:"questions"`
	Total     int                         `json:"total"`
	Subject   string                      `json:"subject"`
	Source    domain.Source               `json:"source"`
	QuizID    string                      `json:"quizId,omitempty"`
}

func (a *API) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}
	set, err := a.quiz.GenerateQuestions(r.Context(), req.Subject, domain.ParseDifficulty(req.Difficulty), req.Count)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	questions := set.Questions
	if questions == nil {
		questions = []domain.ClientQuestionView{}
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Questions: questions,
		Total:     len(questions),
		Subject:   set.Subject,
		Source:    set.Source,
		QuizID:    set.QuizID,
	})
}

type submitRequest struct {
	Subject       string                  `json:"subject"`
	QuizID        string                  `json:"quizId"`
	Answers       []*int                  `json:"answers"`
	QuestionsData []domain.QuestionRecord `json:"questionsData"`
}

type submitResponse struct {
	CorrectAnswers  int                     `json:"correctAnswers"`
	TotalQuestions  int                     `json:"totalQuestions"`
	Accuracy        int                     `json:"accuracy"`
	Points          int                     `json:"points"`
	Results         []domain.QuestionResult `json:"results"`
	Recommendations []string                `json:"recommendations"`
}

func (a *API) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, a.logger, err)
		return
	}
	result, err := a.quiz.SubmitQuiz(r.Context(), claims.UserID, app.SubmitRequest{
		Subject:       req.Subject,
		QuizID:        req.QuizID,
		Answers:       req.Answers,
		QuestionsData: domain.AnswerKey(req.QuestionsData),
	})
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		CorrectAnswers:  result.CorrectCount,
		TotalQuestions:  result.TotalCount,
		Accuracy:        result.AccuracyPercent,
		Points:          result.PointsEarned,
		Results:         result.Results,
		Recommendations: result.Recommendations,
	})
}

type rankingResponse struct {
	Ranking []domain.LeaderboardEntry `json:"ranking"`
	Period  string                    `json:"period"`
}

// Ranking serves the global leaderboard; other periods fall back to global.
func (a *API) Ranking(w http.ResponseWriter, r *http.Request) {
	ranking, err := a.quiz.Ranking(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "global"
	}
	writeJSON(w, http.StatusOK, rankingResponse{Ranking: ranking, Period: period})
}

type profileResponse struct {
	publicUser
	CreatedAt time.Time `json:"createdAt"`
}

func (a *API) Profile(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r.Context())
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	user, err := a.accounts.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{publicUser: toPublicUser(user), CreatedAt: user.CreatedAt})
}

type healthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *API) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   "SmartTest API is running",
		Timestamp: a.now().UTC(),
	})
}
