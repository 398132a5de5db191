package auth

import (
	"testing"
	"time"

	"dbconsole/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = &models.User{ID: "1", Email: "admin@example.com", Name: "Admin User", Role: models.RoleAdmin}

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, expires, err := issuer.Issue(admin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	u := claims.User()
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenIssuer("one", time.Hour).Issue(admin)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := issuer.Issue(admin)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Minute).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Role:             models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "root",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueWithoutUser(t *testing.T) {
	_, _, err := NewTokenIssuer("secret", 0).Issue(nil)
	assert.Error(t, err)
	assert.Equal(t, time.Hour, NewTokenIssuer("secret", 0).TTL())
}
