// Package session owns the authenticated session: the bearer token, the user
// profile, and the reactive current-user feed every role-gated view reads.
//
// Both fields persist to durable local storage under fixed keys and are
// rehydrated at construction, so a process restart preserves the session.
// Persistence and subscriber publication always happen together: a late
// subscriber and a fresh storage read agree by construction.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/palanikalyan/K-MATO/internal/kmerr"
	"github.com/palanikalyan/K-MATO/pkg/model"
	"github.com/palanikalyan/K-MATO/pkg/reactive"
	"github.com/palanikalyan/K-MATO/pkg/storage"
)

// Storage keys. Fixed names shared with every client the backend serves.
const (
	TokenKey = "kmato_jwt"
	UserKey  = "kmato_user"
)

// ErrNoCredential is returned when a login response succeeds at the
// transport level but carries no token.
var ErrNoCredential = kmerr.New("KM1002")

// AuthAPI is the slice of the remote API the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error)
	Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error)
	Me(ctx context.Context) (*model.User, error)
}

// Store owns the session state.
type Store struct {
	storage storage.Store
	auth    AuthAPI
	logger  *slog.Logger

	mu    sync.RWMutex
	token string

	current *reactive.Signal[*model.User]
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a session store backed by st, rehydrating any persisted
// session. Malformed persisted state is discarded silently.
func New(st storage.Store, auth AuthAPI, opts ...Option) *Store {
	s := &Store{
		storage: st,
		auth:    auth,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")

	s.token = s.tokenFromStorage()
	s.current = reactive.NewSignal(s.userFromStorage())

	return s
}

// Login delegates to the auth API. On success the token is persisted, and so
// is the profile when the response carries one. On failure nothing changes
// and the transport error is returned unchanged.
func (s *Store) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	if resp.Token == "" {
		// The call looked successful but there is nothing to hold a
		// session with. No partial state is created.
		return nil, ErrNoCredential
	}

	if err := s.SaveToken(resp.Token); err != nil {
		return nil, err
	}
	if resp.User != nil {
		if err := s.SaveUser(resp.User); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Register delegates to the auth API. Registration does not start a session;
// callers log in afterwards.
func (s *Store) Register(ctx context.Context, reg model.Registration) (*model.AuthResponse, error) {
	return s.auth.Register(ctx, reg)
}

// FetchCurrentUser re-fetches the profile from the backend and saves it on
// success.
func (s *Store) FetchCurrentUser(ctx context.Context) (*model.User, error) {
	user, err := s.auth.Me(ctx)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err := s.SaveUser(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// SaveToken persists the token unconditionally. It does not publish a
// profile change by itself.
func (s *Store) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(TokenKey, []byte(token)); err != nil {
		return kmerr.FromError(err, "KM2001")
	}
	s.token = token
	return nil
}

// SaveUser persists the profile and publishes it to subscribers. The two
// effects happen together; a failed write publishes nothing.
func (s *Store) SaveUser(user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return kmerr.FromError(err, "KM2001")
	}
	if err := s.storage.Set(UserKey, data); err != nil {
		return kmerr.FromError(err, "KM2001")
	}
	s.current.Set(user)
	return nil
}

// Logout clears both persisted fields and publishes absent.
func (s *Store) Logout() {
	s.mu.Lock()
	if err := s.storage.Delete(TokenKey); err != nil {
		s.logger.Warn("failed to clear persisted token", "error", err)
	}
	if err := s.storage.Delete(UserKey); err != nil {
		s.logger.Warn("failed to clear persisted user", "error", err)
	}
	s.token = ""
	s.mu.Unlock()

	s.current.Set(nil)
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current profile, or nil when absent.
func (s *Store) User() *model.User {
	return s.current.Get()
}

// Subscribe registers fn on the current-user feed. The first delivered value
// is the profile current at subscribe time (replay-latest); the returned
// cancel detaches the subscription.
func (s *Store) Subscribe(fn func(*model.User)) (cancel func()) {
	return s.current.Subscribe(fn)
}

// IsLoggedIn reports whether a token is held. The profile may still be
// absent while it is being fetched.
func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// HasRole reports whether the current profile carries the role,
// case-insensitively. Absent profile or role is false, never an error.
func (s *Store) HasRole(role model.Role) bool {
	user := s.User()
	if user == nil || user.Role == "" {
		return false
	}
	return user.Role.Equals(role)
}

// IsAdmin reports whether the current user is an administrator.
func (s *Store) IsAdmin() bool {
	return s.HasRole(model.RoleAdmin)
}

// IsRestaurantOwner reports whether the current user owns a restaurant.
// Accepts both spellings backends return: RESTAURANT_OWNER and OWNER.
func (s *Store) IsRestaurantOwner() bool {
	return s.HasRole(model.RoleRestaurantOwner) || s.HasRole(model.RoleOwner)
}

// tokenFromStorage reads the persisted token, or "" when absent.
func (s *Store) tokenFromStorage() string {
	data, err := s.storage.Get(TokenKey)
	if err != nil {
		s.logger.Warn("failed to read persisted token", "error", err)
		return ""
	}
	return string(data)
}

// userFromStorage reads the persisted profile. Absent or malformed data
// yields nil. A profile persisted without a token is discarded: a profile
// implies a credential.
func (s *Store) userFromStorage() *model.User {
	if s.token == "" {
		return nil
	}
	data, err := s.storage.Get(UserKey)
	if err != nil || len(data) == 0 {
		return nil
	}
	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Debug("discarding malformed persisted profile", "error", err)
		return nil
	}
	return &user
}

// IsNoCredential reports whether err is the "successful login without a
// token" failure.
func IsNoCredential(err error) bool {
	return errors.Is(err, ErrNoCredential)
}
