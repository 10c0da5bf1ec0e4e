package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ss-infotech2024/AllCares/internal/domain"
	apperrors "github.com/ss-infotech2024/AllCares/pkg/errors"
)

const keyPrefix = "cart:"

// Snapshots implements repository.Snapshots using Redis.
type Snapshots struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshots creates a Redis-backed snapshot store.
func NewSnapshots(client *redis.Client, ttl time.Duration) *Snapshots {
	return &Snapshots{
		client: client,
		ttl:    ttl,
	}
}

// Load retrieves a cart snapshot by session ID. A snapshot that no longer
// parses is deleted and reported as absent; stale persisted state is treated
// as if it never existed.
func (r *Snapshots) Load(ctx context.Context, sessionID string) (domain.CartState, error) {
	key := keyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.CartState{}, apperrors.NotFound("cart snapshot", sessionID)
		}
		return domain.CartState{}, fmt.Errorf("redis get cart snapshot: %w", err)
	}

	var state domain.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		_ = r.client.Del(ctx, key).Err()
		return domain.CartState{}, apperrors.NotFound("cart snapshot", sessionID)
	}

	return state, nil
}

// Save persists a cart snapshot with the configured TTL.
func (r *Snapshots) Save(ctx context.Context, sessionID string, state domain.CartState) error {
	key := keyPrefix + sessionID

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart snapshot: %w", err)
	}

	return nil
}

// Delete removes the snapshot for a session.
func (r *Snapshots) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del cart snapshot: %w", err)
	}
	return nil
}
