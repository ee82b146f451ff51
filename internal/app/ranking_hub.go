package app

import (
	"sync"

	"smarttest-quiz-service/internal/domain"
)

// RankingHub fans ranking snapshots out to live subscribers.
type RankingHub struct {
	mu          sync.Mutex
	subscribers map[chan []domain.LeaderboardEntry]struct{}
}

func NewRankingHub() *RankingHub {
	return &RankingHub{subscribers: make(map[chan []domain.LeaderboardEntry]struct{})}
}

// Subscribe registers a subscriber whose channel starts with initial.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *RankingHub) Subscribe(initial []domain.LeaderboardEntry) (<-chan []domain.LeaderboardEntry, func()) {
	ch := make(chan []domain.LeaderboardEntry, 8)
	ch <- initial

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ranking to every subscriber without blocking on slow ones.
func (h *RankingHub) Publish(ranking []domain.LeaderboardEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- ranking:
		default:
			// full buffer: replace the oldest snapshot
			select {
			case <-ch:
			default:
			}
			ch <- ranking
		}
	}
}

// Subscribers reports how many subscribers are attached.
func (h *RankingHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
