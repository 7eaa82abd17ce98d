package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type sessionRepository struct {
	client *redislib.Client
	prefix string
	now    func() time.Time
}

// NewSessionRepository creates a Redis-backed revocation list. Entries live
// until the revoked token would have expired anyway.
func NewSessionRepository(client *redislib.Client) repository.SessionRepository {
	return &sessionRepository{
		client: client,
		prefix: "session:revoked:",
		now:    time.Now,
	}
}

func (r *sessionRepository) Revoke(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}

	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(session.ID), payload, ttl).Err()
}

func (r *sessionRepository) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *sessionRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
