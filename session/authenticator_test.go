package session_test

import (
	"context"
	"testing"
	"time"

	"dbconsole/models"
	"dbconsole/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticAuthenticator(t *testing.T) {
	auth := newAuthenticator(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	u, ok := auth.Authenticate(ctx, "user@example.com", "password")
	require.True(t, ok)
	assert.Equal(t, "2", u.ID)
	assert.Equal(t, "Standard User", u.Name)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.True(t, u.CreatedAt.After(before))

	_, ok = auth.Authenticate(ctx, "user@example.com", "Password")
	assert.False(t, ok)
	_, ok = auth.Authenticate(ctx, " user@example.com", "password")
	assert.False(t, ok)
}

func TestStaticAuthenticatorAccounts(t *testing.T) {
	extra := append([]session.Account{}, session.DemoAccounts...)
	extra = append(extra, session.Account{ID: "3", Email: "ops@example.com", Name: "Ops", Role: models.RoleUser})

	auth, err := session.NewStaticAuthenticator(extra, "secret", bcrypt.MinCost)
	require.NoError(t, err)

	accounts := auth.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, "admin@example.com", accounts[0].Email)
	assert.Equal(t, "ops@example.com", accounts[2].Email)

	_, ok := auth.Authenticate(context.Background(), "ops@example.com", "secret")
	assert.True(t, ok)
}

func TestStaticAuthenticatorRejectsInvalidRole(t *testing.T) {
	_, err := session.NewStaticAuthenticator([]session.Account{{ID: "1", Email: "a@b.c", Role: "root"}}, "x", bcrypt.MinCost)
	assert.Error(t, err)
}
