package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"dbconsole/models"

	"go.etcd.io/bbolt"
)

const systemSettingsKey = "settings"

// PreferenceStorage persists notification toggles per user and the
// system-wide admin toggles
type PreferenceStorage struct {
	db *bbolt.DB
}

// NewPreferenceStorage wraps a DB opened with InitDB
func NewPreferenceStorage(db *bbolt.DB) *PreferenceStorage {
	return &PreferenceStorage{db: db}
}

// GetNotifications returns the user's toggles, or the defaults when the
// user has never saved any
func (s *PreferenceStorage) GetNotifications(userID string) (models.NotificationSettings, error) {
	settings := models.DefaultNotificationSettings(userID)

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(notificationBucket)).Get([]byte(userID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &settings)
	})
	if err != nil {
		return models.DefaultNotificationSettings(userID), fmt.Errorf("failed to load notification settings: %v", err)
	}
	return settings, nil
}

// SaveNotifications stores the user's toggles
func (s *PreferenceStorage) SaveNotifications(settings models.NotificationSettings) error {
	if settings.UserID == "" {
		return fmt.Errorf("notification settings need a user id")
	}
	settings.UpdatedAt = time.Now()

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(notificationBucket)).Put([]byte(settings.UserID), data)
	})
}

// GetSystem returns the system toggles, or the defaults
func (s *PreferenceStorage) GetSystem() (models.SystemSettings, error) {
	settings := models.DefaultSystemSettings()

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(systemBucket)).Get([]byte(systemSettingsKey))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &settings)
	})
	if err != nil {
		return models.DefaultSystemSettings(), fmt.Errorf("failed to load system settings: %v", err)
	}
	return settings, nil
}

// SaveSystem stores the system toggles on behalf of updatedBy
func (s *PreferenceStorage) SaveSystem(settings models.SystemSettings, updatedBy string) error {
	settings.UpdatedBy = updatedBy
	settings.UpdatedAt = time.Now()

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(systemBucket)).Put([]byte(systemSettingsKey), data)
	})
}
