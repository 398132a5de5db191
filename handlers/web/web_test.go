package web

import (
	"testing"

	"dbconsole/models"
	"dbconsole/session"

	"github.com/stretchr/testify/assert"
)

func TestDemoCredentials(t *testing.T) {
	assert.Equal(t, []string{
		"Admin: admin@example.com / password",
		"User: user@example.com / password",
	}, demoCredentials(session.DemoAccounts))
}

func TestToggleNotification(t *testing.T) {
	s := models.DefaultNotificationSettings("2")

	assert.True(t, toggleNotification(&s, "sms"))
	assert.True(t, s.SMS)
	assert.True(t, toggleNotification(&s, "email"))
	assert.False(t, s.Email)
	assert.True(t, toggleNotification(&s, "push"))
	assert.False(t, s.Push)
	assert.False(t, toggleNotification(&s, "fax"))
}

func TestToggleSystem(t *testing.T) {
	s := models.DefaultSystemSettings()

	enabled, ok := toggleSystem(&s, "maintenance")
	assert.True(t, ok)
	assert.True(t, enabled)
	assert.True(t, s.MaintenanceMode)

	enabled, ok = toggleSystem(&s, "registration")
	assert.True(t, ok)
	assert.False(t, enabled)

	_, ok = toggleSystem(&s, "reboot")
	assert.False(t, ok)
	assert.Equal(t, "enabled", onOff(true))
	assert.Equal(t, "disabled", onOff(false))
}
