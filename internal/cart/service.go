package cart

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ss-infotech2024/AllCares/internal/cart/repository"
	"github.com/ss-infotech2024/AllCares/internal/domain"
	"github.com/ss-infotech2024/AllCares/internal/event"
	apperrors "github.com/ss-infotech2024/AllCares/pkg/errors"
)

// Service orchestrates cart commands for the storefront: it dispatches
// through the pure reducer, restores snapshots for returning sessions, and
// fans out best-effort persistence and domain events. Commands themselves
// never fail; snapshot and publish errors are logged and swallowed.
type Service struct {
	store     *Store
	snapshots repository.Snapshots
	events    *event.Producer
	logger    *slog.Logger

	// addDelay simulates backend latency on add-to-cart. There is no
	// cancellation and no guard against a second add arriving while the
	// first delay is pending; concurrent adds merge at the store.
	addDelay time.Duration
}

// NewService creates a cart service. snapshots and events may be nil, in
// which case the cart is memory-only and publishes nothing.
func NewService(store *Store, snapshots repository.Snapshots, events *event.Producer, logger *slog.Logger, addDelay time.Duration) *Service {
	return &Service{
		store:     store,
		snapshots: snapshots,
		events:    events,
		logger:    logger,
		addDelay:  addDelay,
	}
}

// Cart returns the current cart state for a session, restoring a persisted
// snapshot on first access. A session with no cart yields the empty state.
func (s *Service) Cart(ctx context.Context, sessionID string) domain.CartState {
	if state, ok := s.store.Get(sessionID); ok {
		return state
	}

	if s.snapshots != nil {
		state, err := s.snapshots.Load(ctx, sessionID)
		if err == nil {
			s.store.Put(sessionID, state)
			return state
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "cart snapshot restore failed",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}

	return domain.EmptyCart()
}

// AddItem adds quantity units of a product to the session's cart, merging
// into an existing line when present. The product is accepted regardless of
// its stock flag.
func (s *Service) AddItem(ctx context.Context, sessionID string, product *domain.Product, quantity int) domain.CartState {
	if s.addDelay > 0 {
		time.Sleep(s.addDelay)
	}

	state := s.dispatch(ctx, sessionID, domain.AddItem{Product: product, Quantity: quantity})

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", product.ID),
		slog.Int("quantity", quantity),
		slog.Int("item_count", state.ItemCount),
	)

	return state
}

// RemoveItem deletes the line for productID. Unknown IDs leave the cart
// unchanged.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) domain.CartState {
	state := s.dispatch(ctx, sessionID, domain.RemoveItem{ProductID: productID})

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return state
}

// UpdateQuantity sets an item's quantity to an absolute value; zero or below
// removes the line. Unknown IDs leave the cart unchanged.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) domain.CartState {
	state := s.dispatch(ctx, sessionID, domain.UpdateQuantity{ProductID: productID, Quantity: quantity})

	s.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return state
}

// Clear resets the session's cart to the empty state and drops its snapshot.
func (s *Service) Clear(ctx context.Context, sessionID string) domain.CartState {
	state := s.store.Dispatch(sessionID, domain.ClearCart{})

	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "cart snapshot delete failed",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.events != nil {
		if err := s.events.PublishCartCleared(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "failed to publish cart.cleared event",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return state
}

// dispatch runs a command through the store and fans out persistence and the
// cart.updated event.
func (s *Service) dispatch(ctx context.Context, sessionID string, cmd domain.Command) domain.CartState {
	// Make sure a persisted snapshot is in the store before the command
	// applies, so returning sessions do not lose their cart to a fresh add.
	_ = s.Cart(ctx, sessionID)

	state := s.store.Dispatch(sessionID, cmd)

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, sessionID, state); err != nil {
			s.logger.WarnContext(ctx, "cart snapshot save failed",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.events != nil {
		if err := s.events.PublishCartUpdated(ctx, sessionID, state); err != nil {
			s.logger.WarnContext(ctx, "failed to publish cart.updated event",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}

	return state
}
