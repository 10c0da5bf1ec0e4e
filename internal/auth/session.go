package auth

import (
	"errors"
	"log/slog"

	"github.com/ss-infotech2024/AllCares/pkg/localstore"
)

// userInfoKey is the fixed storage key for the signed-in user record, kept
// byte-for-byte compatible with the web client's storage.
const userInfoKey = "userInfo"

// User is the record returned by the identity API and persisted locally.
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
}

// SessionStore persists the signed-in user under a fixed key in durable
// local storage. Malformed persisted state is discarded and treated as
// signed out.
type SessionStore struct {
	store  *localstore.Store
	logger *slog.Logger
}

// NewSessionStore creates a session store over the given local store.
func NewSessionStore(store *localstore.Store, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		store:  store,
		logger: logger,
	}
}

// Save persists the user record.
func (s *SessionStore) Save(u *User) error {
	return s.store.Set(userInfoKey, u)
}

// Current returns the persisted user, or false when signed out.
func (s *SessionStore) Current() (*User, bool) {
	var u User
	if err := s.store.Get(userInfoKey, &u); err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			s.logger.Warn("failed to read stored user",
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}
	return &u, true
}

// Clear signs the user out by removing the persisted record.
func (s *SessionStore) Clear() error {
	return s.store.Delete(userInfoKey)
}
