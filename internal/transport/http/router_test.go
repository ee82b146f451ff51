package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"smarttest-quiz-service/internal/app"
	"smarttest-quiz-service/internal/auth"
	"smarttest-quiz-service/internal/catalog"
	"smarttest-quiz-service/internal/infra/memory"
	"smarttest-quiz-service/internal/llm"
	"smarttest-quiz-service/internal/metrics"
)

type failingBackend struct{}

func (failingBackend) Generate(context.Context, string) (string, error) {
	return "", errors.New("upstream 503")
}

type testServer struct {
	*httptest.Server
	catalog *catalog.Catalog
}

func newTestServer(t *testing.T, backend llm.Backend) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := catalog.Default()
	users := memory.NewUserStore()
	m := metrics.New()

	provider := app.NewQuestionProvider(cat, backend, memory.NewGenerationCache(time.Hour), app.DefaultProviderConfig(), logger, m)
	scoring := app.NewScoringEngine(backend, app.FlatPointsPolicy(20), time.Second, "", logger)
	quiz := app.NewQuizService(app.QuizDeps{
		Catalog:    cat,
		Provider:   provider,
		Scoring:    scoring,
		Users:      users,
		AnswerKeys: memory.NewAnswerKeyStore(time.Hour),
		Seed:       app.SeedRanking(),
		Logger:     logger,
		Metrics:    m,
	})
	accounts := app.NewAuthService(users, auth.NewTokenIssuer("test-secret", time.Hour), m)

	router := NewRouter(RouterConfig{
		API:     NewAPI(quiz, accounts, logger),
		Ranking: NewRankingStream(quiz, logger),
		Metrics: m.Handler(),
		Logger:  logger,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, catalog: cat}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Alice", "email": email, "password": "secret1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d body %v", resp.StatusCode, body)
	}
	return body["token"].(string)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, body := srv.do(t, http.MethodGet, "/api/health", "", nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "OK" {
		t.Fatalf("unexpected health %d %v", resp.StatusCode, body)
	}
}

func TestGenerateUnknownSubjectIs400(t *testing.T) {
	srv := newTestServer(t, failingBackend{})
	token := srv.register(t, "alice@example.com")

	resp, body := srv.do(t, http.MethodPost, "/api/generate-questions", token, map[string]any{"subject": "astrology", "count": 3})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if msg, _ := body["message"].(string); msg == "" {
		t.Fatalf("expected message, got %v", body)
	}
}

func TestGenerateFallsBackWhenBackendFails(t *testing.T) {
	srv := newTestServer(t, failingBackend{})
	token := srv.register(t, "alice@example.com")
	bank, _ := srv.catalog.GetBank("historia")

	for _, count := range []int{3, 10} {
		resp, body := srv.do(t, http.MethodPost, "/api/generate-questions", token, map[string]any{"subject": "historia", "difficulty": "hard", "count": count})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d %v", resp.StatusCode, body)
		}
		questions := body["questions"].([]any)
		if body["source"] != "fallback" || len(questions) != min(count, len(bank)) {
			t.Fatalf("count %d: expected %d fallback questions, got %d (%v)", count, min(count, len(bank)), len(questions), body["source"])
		}
		if int(body["total"].(float64)) != len(questions) {
			t.Fatalf("total does not match questions")
		}
		first := questions[0].(map[string]any)
		if _, leaked := first["correctAnswer"]; leaked {
			t.Fatalf("client view leaked the answer: %v", first)
		}
	}
}

func TestQuizRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.register(t, "alice@example.com")

	resp, gen := srv.do(t, http.MethodPost, "/api/generate-questions", token, map[string]any{"subject": "fisica", "count": 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate: %d %v", resp.StatusCode, gen)
	}
	quizID, _ := gen["quizId"].(string)
	if quizID == "" {
		t.Fatalf("expected quiz id in %v", gen)
	}

	resp, result := srv.do(t, http.MethodPost, "/api/submit-quiz", token, map[string]any{
		"subject": "fisica",
		"quizId":  quizID,
		"answers": []any{0, nil, 2},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: %d %v", resp.StatusCode, result)
	}
	if int(result["totalQuestions"].(float64)) != 3 {
		t.Fatalf("expected 3 questions, got %v", result["totalQuestions"])
	}
	if recs := result["recommendations"].([]any); len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %v", recs)
	}
	points := int(result["points"].(float64))

	resp, profile := srv.do(t, http.MethodGet, "/api/profile", token, nil)
	if resp.StatusCode != http.StatusOK || int(profile["points"].(float64)) != points {
		t.Fatalf("profile points %v, want %d", profile["points"], points)
	}
	if _, leaked := profile["passwordHash"]; leaked {
		t.Fatalf("profile leaked password hash")
	}
}

func TestSubmitWithQuestionsData(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.register(t, "alice@example.com")

	resp, result := srv.do(t, http.MethodPost, "/api/submit-quiz", token, map[string]any{
		"subject": "matematica",
		"answers": []any{1, 0},
		"questionsData": []map[string]any{
			{"question": "2+2?", "options": []string{"3", "4", "5", "6"}, "correctAnswer": 1, "difficulty": "easy"},
			{"question": "3*3?", "options": []string{"6", "9", "12", "8"}, "correctAnswer": 1, "difficulty": "easy"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: %d %v", resp.StatusCode, result)
	}
	if result["correctAnswers"].(float64) != 1 || result["accuracy"].(float64) != 50 || result["points"].(float64) != 20 {
		t.Fatalf("unexpected result %v", result)
	}
}

func TestAuthErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := srv.do(t, http.MethodGet, "/api/profile", "", nil)
	if resp.StatusCode != http.StatusUnauthorized || body["message"] == nil {
		t.Fatalf("expected 401 with message, got %d %v", resp.StatusCode, body)
	}
	resp, body = srv.do(t, http.MethodGet, "/api/profile", "not-a-token", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if body["message"] != "invalid token" {
		t.Fatalf("token parser detail leaked into response: %v", body["message"])
	}

	srv.register(t, "alice@example.com")
	resp, body = srv.do(t, http.MethodPost, "/api/register", "", map[string]string{"name": "A", "email": "ALICE@example.com", "password": "secret1"})
	if resp.StatusCode != http.StatusBadRequest || body["message"] == nil {
		t.Fatalf("expected duplicate email 400, got %d %v", resp.StatusCode, body)
	}
	resp, _ = srv.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad credentials, got %d", resp.StatusCode)
	}
	resp, body = srv.do(t, http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	if resp.StatusCode != http.StatusOK || body["token"] == "" {
		t.Fatalf("login: %d %v", resp.StatusCode, body)
	}
}

func TestMalformedBodyIs400(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Post(srv.URL+"/api/register", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSubjectsRankingAndNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := srv.do(t, http.MethodGet, "/api/subjects", "", nil)
	if resp.StatusCode != http.StatusOK || len(body["subjects"].([]any)) != len(srv.catalog.Subjects()) {
		t.Fatalf("subjects: %d %v", resp.StatusCode, body)
	}

	resp, body = srv.do(t, http.MethodGet, "/api/ranking?period=weekly", "", nil)
	if resp.StatusCode != http.StatusOK || body["period"] != "weekly" || len(body["ranking"].([]any)) != 4 {
		t.Fatalf("ranking: %d %v", resp.StatusCode, body)
	}

	resp, body = srv.do(t, http.MethodGet, "/api/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound || body["message"] == nil {
		t.Fatalf("expected json 404, got %d %v", resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, failingBackend{})
	token := srv.register(t, "alice@example.com")
	srv.do(t, http.MethodPost, "/api/generate-questions", token, map[string]any{"subject": "quimica"})

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), `quiz_question_sets_total{source="fallback"} 1`) {
		t.Fatalf("expected fallback counter in metrics output")
	}
}

func TestRankingStreamPushesUpdates(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.register(t, "alice@example.com")

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/ranking"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	initial := readRanking(t, conn)
	if len(initial) != 5 {
		t.Fatalf("expected seed plus one user, got %d", len(initial))
	}

	resp, _ := srv.do(t, http.MethodPost, "/api/submit-quiz", token, map[string]any{
		"subject": "matematica",
		"answers": []any{1},
		"questionsData": []map[string]any{
			{"question": "2+2?", "options": []string{"3", "4", "5", "6"}, "correctAnswer": 1},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: %d", resp.StatusCode)
	}

	update := readRanking(t, conn)
	var found bool
	for _, e := range update {
		if e["name"] == "Alice" && e["points"].(float64) == 20 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Alice with 20 points in %v", update)
	}
}

func readRanking(t *testing.T, conn *websocket.Conn) []map[string]any {
	t.Helper()
	var msg struct {
		Type    string `json:"type"`
		Payload struct {
			Ranking []map[string]any `json:"ranking"`
		} `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read ws: %v", err)
	}
	if msg.Type != "ranking" {
		t.Fatalf("expected ranking message, got %s", msg.Type)
	}
	return msg.Payload.Ranking
}
