package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"smarttest-quiz-service/internal/domain"
)

// UserStore keeps accounts in Redis so points survive restarts and are shared by instances:
//
//	SETNX user:email:{email} {id}   uniqueness claim
//	HSET  user:{id} name email password_hash points created_at
//	RPUSH users {id}                registration order
type UserStore struct {
	client *redis.Client
}

func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client}
}

const usersListKey = "users"

func (s *UserStore) Create(ctx context.Context, user domain.UserAccount) (domain.UserAccount, error) {
	user.Email = domain.NormalizeEmail(user.Email)

	claimed, err := s.client.SetNX(ctx, emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return domain.UserAccount{}, wrap("claim email", err)
	}
	if !claimed {
		return domain.UserAccount{}, domain.ErrDuplicateEmail
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, userKey(user.ID), map[string]interface{}{
			"name":          user.Name,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"points":        user.Points,
			"created_at":    user.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.RPush(ctx, usersListKey, user.ID)
		return nil
	})
	if err != nil {
		_ = s.client.Del(ctx, emailKey(user.Email)).Err()
		return domain.UserAccount{}, wrap("store user", err)
	}
	return user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (domain.UserAccount, error) {
	id, err := s.client.Get(ctx, emailKey(domain.NormalizeEmail(email))).Result()
	if isNil(err) {
		return domain.UserAccount{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserAccount{}, wrap("lookup email", err)
	}
	return s.FindByID(ctx, id)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (domain.UserAccount, error) {
	fields, err := s.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return domain.UserAccount{}, wrap("load user", err)
	}
	if len(fields) == 0 {
		return domain.UserAccount{}, domain.ErrUserNotFound
	}
	return decodeUser(id, fields), nil
}

// IncrementPoints relies on HINCRBY so concurrent submissions never lose updates.
func (s *UserStore) IncrementPoints(ctx context.Context, id string, delta int) (int, error) {
	exists, err := s.client.Exists(ctx, userKey(id)).Result()
	if err != nil {
		return 0, wrap("check user", err)
	}
	if exists == 0 {
		return 0, domain.ErrUserNotFound
	}
	total, err := s.client.HIncrBy(ctx, userKey(id), "points", int64(delta)).Result()
	if err != nil {
		return 0, wrap("increment points", err)
	}
	return int(total), nil
}

func (s *UserStore) List(ctx context.Context) ([]domain.UserAccount, error) {
	ids, err := s.client.LRange(ctx, usersListKey, 0, -1).Result()
	if err != nil {
		return nil, wrap("list users", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, userKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, wrap("load users", err)
	}

	users := make([]domain.UserAccount, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		users = append(users, decodeUser(ids[i], fields))
	}
	return users, nil
}

func decodeUser(id string, fields map[string]string) domain.UserAccount {
	points, _ := strconv.Atoi(fields["points"])
	created, _ := time.Parse(time.RFC3339Nano, fields["created_at"])
	return domain.UserAccount{
		ID:           id,
		Name:         fields["name"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		Points:       points,
		CreatedAt:    created,
	}
}

func emailKey(email string) string {
	return "user:email:" + email
}

func userKey(id string) string {
	return "user:" + id
}
