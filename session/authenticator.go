package session

import (
	"context"
	"fmt"
	"time"

	"dbconsole/models"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator verifies credentials. It reports false for an unknown
// email and for a wrong password alike.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, bool)
}

// AuthenticatorFunc adapts a function to Authenticator
type AuthenticatorFunc func(ctx context.Context, email, password string) (*models.User, bool)

// Authenticate calls f
func (f AuthenticatorFunc) Authenticate(ctx context.Context, email, password string) (*models.User, bool) {
	return f(ctx, email, password)
}

// DemoPassword is the password every demo account accepts
const DemoPassword = "password"

// Account is one entry of the static allow-list
type Account struct {
	ID    string
	Email string
	Name  string
	Role  models.Role
}

// DemoAccounts are the two built-in accounts
var DemoAccounts = []Account{
	{ID: "1", Email: "admin@example.com", Name: "Admin User", Role: models.RoleAdmin},
	{ID: "2", Email: "user@example.com", Name: "Standard User", Role: models.RoleUser},
}

type staticEntry struct {
	account Account
	hash    []byte
}

// StaticAuthenticator checks credentials against a fixed allow-list that
// shares one password. It stands in for a real verification service.
type StaticAuthenticator struct {
	entries map[string]staticEntry
	order   []Account
	now     func() time.Time
}

// NewStaticAuthenticator builds an allow-list of accounts all accepting
// password. cost is the bcrypt cost; values outside bcrypt's range fall
// back to bcrypt.DefaultCost.
func NewStaticAuthenticator(accounts []Account, password string, cost int) (*StaticAuthenticator, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	entries := make(map[string]staticEntry, len(accounts))
	for _, acc := range accounts {
		if !acc.Role.Valid() {
			return nil, fmt.Errorf("account %s: invalid role %q", acc.Email, acc.Role)
		}
		entries[acc.Email] = staticEntry{account: acc, hash: hash}
	}

	order := make([]Account, len(accounts))
	copy(order, accounts)
	return &StaticAuthenticator{entries: entries, order: order, now: time.Now}, nil
}

// Authenticate matches email exactly (case-sensitive) and compares the
// password against the shared hash
func (a *StaticAuthenticator) Authenticate(ctx context.Context, email, password string) (*models.User, bool) {
	entry, ok := a.entries[email]
	if !ok {
		return nil, false
	}
	if err := bcrypt.CompareHashAndPassword(entry.hash, []byte(password)); err != nil {
		return nil, false
	}

	return &models.User{
		ID:        entry.account.ID,
		Email:     entry.account.Email,
		Name:      entry.account.Name,
		Role:      entry.account.Role,
		CreatedAt: a.now().UTC(),
	}, true
}

// Accounts lists the allow-listed accounts in registration order
func (a *StaticAuthenticator) Accounts() []Account {
	out := make([]Account, len(a.order))
	copy(out, a.order)
	return out
}
