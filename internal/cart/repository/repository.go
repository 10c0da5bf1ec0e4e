package repository

import (
	"context"

	"github.com/ss-infotech2024/AllCares/internal/domain"
)

// Snapshots persists cart state between sessions. Persistence is best
// effort: the cart works entirely from memory and survives a snapshot store
// outage with nothing worse than losing the restore-on-return behavior.
type Snapshots interface {
	// Load retrieves the snapshot for a session. Returns errors.ErrNotFound
	// when no usable snapshot exists.
	Load(ctx context.Context, sessionID string) (domain.CartState, error)

	// Save overwrites the snapshot for a session.
	Save(ctx context.Context, sessionID string, state domain.CartState) error

	// Delete removes the snapshot for a session.
	Delete(ctx context.Context, sessionID string) error
}
