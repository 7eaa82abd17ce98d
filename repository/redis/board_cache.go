package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

// setIfCurrent writes the snapshot only while the workspace generation still
// matches the one the snapshot was loaded under.
var setIfCurrent = redislib.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

type boardCache struct {
	client    *redislib.Client
	prefix    string
	genPrefix string
	ttl       time.Duration
}

// NewBoardCache stores board snapshots as JSON under board:<workspaceId>,
// guarded by a per-workspace counter under board:gen:<workspaceId>.
func NewBoardCache(client *redislib.Client, ttl time.Duration) repository.BoardCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &boardCache{
		client:    client,
		prefix:    "board:",
		genPrefix: "board:gen:",
		ttl:       ttl,
	}
}

func (c *boardCache) Get(ctx context.Context, workspaceID string) (*repository.BoardSnapshot, error) {
	result, err := c.client.Get(ctx, c.key(workspaceID)).Bytes()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}

	var snapshot repository.BoardSnapshot
	if err := json.Unmarshal(result, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *boardCache) Generation(ctx context.Context, workspaceID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(workspaceID)).Int64()
	if errors.Is(err, redislib.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *boardCache) Set(ctx context.Context, snapshot *repository.BoardSnapshot) error {
	if snapshot == nil || snapshot.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	keys := []string{c.genKey(snapshot.WorkspaceID), c.key(snapshot.WorkspaceID)}
	return setIfCurrent.Run(ctx, c.client, keys, snapshot.Generation, payload, c.ttl.Milliseconds()).Err()
}

// Invalidate bumps the generation and drops the snapshot in one transaction,
// so a reader that loaded before the bump cannot store its result.
func (c *boardCache) Invalidate(ctx context.Context, workspaceID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(workspaceID))
		pipe.Del(ctx, c.key(workspaceID))
		return nil
	})
	return err
}

func (c *boardCache) key(workspaceID string) string {
	return fmt.Sprintf("%s%s", c.prefix, workspaceID)
}

func (c *boardCache) genKey(workspaceID string) string {
	return fmt.Sprintf("%s%s", c.genPrefix, workspaceID)
}
