// Package session holds the authenticated-user state of one client.
//
// A Holder starts in the loading phase, resolves to authenticated or
// unauthenticated in Restore, and afterwards only changes through Login
// and Logout. The authenticated user is persisted as JSON under
// StorageKey so that a fresh Holder over the same Storage restores it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"dbconsole/models"
	"dbconsole/utils"
)

type phase int

const (
	phaseInit phase = iota
	phaseActive
	phaseDisposed
)

// Option customises a Holder
type Option func(*Holder)

// WithLogger sets the logger used for restore warnings
func WithLogger(l *utils.Logger) Option {
	return func(h *Holder) { h.log = l }
}

// Holder is the single source of truth for who is logged in on one client
type Holder struct {
	storage Storage
	auth    Authenticator
	log     *utils.Logger

	mu    sync.RWMutex
	phase phase
	user  *models.User
}

// New creates a Holder in the loading phase
func New(storage Storage, auth Authenticator, opts ...Option) *Holder {
	h := &Holder{
		storage: storage,
		auth:    auth,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Holder) logger() *utils.Logger {
	if h.log != nil {
		return h.log
	}
	return utils.Log
}

// Restore reads the persisted user and resolves the loading phase.
// A missing or corrupt record leaves the holder unauthenticated; a corrupt
// record is also removed. Only a storage read failure is returned, and
// even then the holder ends up active and unauthenticated.
func (h *Holder) Restore(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.phase == phaseDisposed {
		return ErrDisposed
	}
	h.phase = phaseActive
	h.user = nil

	data, err := h.storage.Get(ctx, StorageKey)
	if errors.Is(err, ErrNotFound) || (err == nil && len(data) == 0) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	user, err := decodeUser(data)
	if err != nil {
		h.logger().Warn("Discarding corrupt session record: %v", err)
		if delErr := h.storage.Delete(ctx, StorageKey); delErr != nil && !errors.Is(delErr, ErrNotFound) {
			h.logger().Warn("Failed to delete corrupt session record: %v", delErr)
		}
		return nil
	}

	h.user = user
	return nil
}

// Login authenticates the credentials and, on success, persists the user
// and marks the holder authenticated. On failure the state is unchanged.
func (h *Holder) Login(ctx context.Context, email, password string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkActive(); err != nil {
		return false, err
	}

	user, ok := h.auth.Authenticate(ctx, email, password)
	if !ok || user == nil {
		return false, nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return false, fmt.Errorf("encode session user: %w", err)
	}
	if err := h.storage.Set(ctx, StorageKey, data); err != nil {
		return false, fmt.Errorf("persist session user: %w", err)
	}

	h.user = user
	return true, nil
}

// Logout clears the persisted user and the in-memory state. The in-memory
// state is cleared even when the storage delete fails.
func (h *Holder) Logout(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkActive(); err != nil {
		return err
	}

	h.user = nil
	if err := h.storage.Delete(ctx, StorageKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clear session user: %w", err)
	}
	return nil
}

// State returns a snapshot. The returned User is a copy.
func (h *Holder) State() models.AuthState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	state := models.AuthState{IsLoading: h.phase == phaseInit}
	if h.user != nil {
		u := *h.user
		state.User = &u
		state.IsAuthenticated = true
	}
	return state
}

// User returns a copy of the authenticated user, or nil
func (h *Holder) User() *models.User {
	return h.State().User
}

// Dispose ends the holder's lifecycle. Later mutations fail with ErrDisposed;
// State keeps returning the last snapshot.
func (h *Holder) Dispose() {
	h.mu.Lock()
	h.phase = phaseDisposed
	h.mu.Unlock()
}

func (h *Holder) checkActive() error {
	switch h.phase {
	case phaseInit:
		return ErrNotActive
	case phaseDisposed:
		return ErrDisposed
	}
	return nil
}

func decodeUser(data []byte) (*models.User, error) {
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if user.ID == "" || user.Email == "" {
		return nil, errors.New("missing id or email")
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", user.Role)
	}
	return &user, nil
}
