package memory

import (
	"context"
	"sync"

	"smarttest-quiz-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]*domain.UserAccount
	byEmail map[string]string
	order   []string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]*domain.UserAccount),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Create(_ context.Context, user domain.UserAccount) (domain.UserAccount, error) {
	email := domain.NormalizeEmail(user.Email)
	user.Email = email

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		return domain.UserAccount{}, domain.ErrDuplicateEmail
	}
	stored := user
	s.byID[user.ID] = &stored
	s.byEmail[email] = user.ID
	s.order = append(s.order, user.ID)
	return user, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return domain.UserAccount{}, domain.ErrUserNotFound
	}
	return *s.byID[id], nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[id]
	if !ok {
		return domain.UserAccount{}, domain.ErrUserNotFound
	}
	return *user, nil
}

func (s *UserStore) IncrementPoints(_ context.Context, id string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	user.Points += delta
	return user.Points, nil
}

func (s *UserStore) List(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.UserAccount, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, *s.byID[id])
	}
	return users, nil
}
