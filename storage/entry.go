package storage

import (
	"encoding/json"
	"time"
)

// entry is how the file and bolt backends persist a session blob
type entry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func newEntry(val []byte, exp time.Duration) entry {
	e := entry{Data: val}
	if exp > 0 {
		e.ExpiresAt = time.Now().Add(exp)
	}
	return e
}

func (e entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

func decodeEntry(raw []byte) (entry, error) {
	var e entry
	err := json.Unmarshal(raw, &e)
	return e, err
}
