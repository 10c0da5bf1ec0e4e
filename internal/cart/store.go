package cart

import (
	"sync"

	"github.com/ss-infotech2024/AllCares/internal/domain"
)

// Store holds the in-memory cart state for every active session. It is the
// authoritative state handle, passed explicitly to whatever needs it rather
// than reached through package globals. Commands run on the single UI event
// turn each, but HTTP requests arrive on separate goroutines, so access is
// guarded by a mutex.
type Store struct {
	mu    sync.RWMutex
	carts map[string]domain.CartState
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		carts: make(map[string]domain.CartState),
	}
}

// Get returns the cart state for a session and whether it was present.
func (s *Store) Get(sessionID string) (domain.CartState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.carts[sessionID]
	return state, ok
}

// Put replaces the cart state for a session.
func (s *Store) Put(sessionID string, state domain.CartState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = state
}

// Delete drops the cart state for a session.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
}

// Dispatch applies a command to a session's cart under the write lock and
// returns the resulting state. Sessions without a cart start from the empty
// state.
func (s *Store) Dispatch(sessionID string, cmd domain.Command) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.carts[sessionID]
	if !ok {
		state = domain.EmptyCart()
	}

	next := domain.Reduce(state, cmd)
	s.carts[sessionID] = next
	return next
}
