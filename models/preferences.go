package models

import "time"

// NotificationSettings are the per-user notification toggles
type NotificationSettings struct {
	UserID    string    `json:"user_id"`
	Email     bool      `json:"email"`
	SMS       bool      `json:"sms"`
	Push      bool      `json:"push"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultNotificationSettings mirrors what a new account starts with
func DefaultNotificationSettings(userID string) NotificationSettings {
	return NotificationSettings{
		UserID: userID,
		Email:  true,
		SMS:    false,
		Push:   true,
	}
}

// SystemSettings are the system-wide toggles only admins can change
type SystemSettings struct {
	MaintenanceMode  bool      `json:"maintenance_mode"`
	UserRegistration bool      `json:"user_registration"`
	DebugMode        bool      `json:"debug_mode"`
	UpdatedBy        string    `json:"updated_by,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultSystemSettings returns the initial system toggles
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		MaintenanceMode:  false,
		UserRegistration: true,
		DebugMode:        false,
	}
}
