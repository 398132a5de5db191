package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestI18n(t *testing.T) {
	require.NoError(t, InitI18n())

	assert.Equal(t, "Admin Dashboard", TLang("en", "admin_dashboard_title"))
	assert.Equal(t, "管理ダッシュボード", TLang("ja", "admin_dashboard_title"))
	assert.Equal(t, "no_such_key", TLang("en", "no_such_key"))

	greeting := TWithData(GetLocalizer("en"), "navbar_welcome", map[string]interface{}{"Name": "Admin User"})
	assert.Equal(t, "Welcome, Admin User", greeting)

	assert.True(t, IsSupportedLanguage("ja"))
	assert.False(t, IsSupportedLanguage("fr"))
}

func TestTWithoutBundle(t *testing.T) {
	assert.Equal(t, "login_title", T(nil, "login_title"))
}
