package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"smarttest-quiz-service/internal/domain"
)

// RankingSubscriber yields live ranking snapshots.
type RankingSubscriber interface {
	SubscribeRanking(ctx context.Context) (<-chan []domain.LeaderboardEntry, func(), error)
}

// RankingStream pushes the leaderboard to websocket clients whenever it changes.
type RankingStream struct {
	rankings RankingSubscriber
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewRankingStream(rankings RankingSubscriber, logger *slog.Logger) *RankingStream {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingStream{
		rankings: rankings,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type rankingPayload struct {
	Ranking []domain.LeaderboardEntry `json:"ranking"`
}

type errorPayload struct {
	Message string `json:"message"`
}

const writeWait = 10 * time.Second

// ServeWS upgrades the request and streams ranking snapshots until the client goes away.
func (s *RankingStream) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancelCtx := context.WithCancel(r.Context())
	defer cancelCtx()

	updates, cancel, err := s.rankings.SubscribeRanking(ctx)
	if err != nil {
		s.logger.Error("subscribe ranking", "error", err)
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "ranking unavailable"}})
		return
	}
	defer cancel()

	// clients only send close frames; reading is how we notice them
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ranking, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			msg := outboundMessage[rankingPayload]{Type: "ranking", Payload: rankingPayload{Ranking: ranking}}
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Debug("ws write error", "error", err)
				return
			}
		case <-readerDone:
			return
		case <-ctx.Done():
			return
		}
	}
}
