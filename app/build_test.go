package app

import (
	"sync/atomic"
	"testing"
	"time"

	"dbconsole/config"
	"dbconsole/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeExpired() (int, error) {
	p.calls.Add(1)
	return 1, nil
}

func TestStartPurgeSweepsUntilStopped(t *testing.T) {
	p := &countingPurger{}
	stop := startPurge(p, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop())
	require.NoError(t, stop())

	after := p.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, p.calls.Load())
}

func TestSessionStorageDrivers(t *testing.T) {
	db, err := storage.InitDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Default()
	cfg.Session.Dir = t.TempDir()

	tests := []struct {
		driver    string
		purgeable bool
	}{
		{config.DriverFile, true},
		{config.DriverBolt, true},
	}
	for _, tt := range tests {
		cfg.Session.Driver = tt.driver
		s, err := sessionStorage(cfg, db)
		require.NoError(t, err, tt.driver)
		_, ok := s.(purger)
		assert.Equal(t, tt.purgeable, ok, tt.driver)
	}

	cfg.Session.Driver = config.DriverMemory
	s, err := sessionStorage(cfg, db)
	require.NoError(t, err)
	assert.Nil(t, s)

	cfg.Session.Driver = "nope"
	_, err = sessionStorage(cfg, db)
	assert.Error(t, err)
}

func TestBuildStopsSessionPurgeOnClose(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Dir = t.TempDir()
	cfg.Session.Dir = t.TempDir()
	cfg.Session.Driver = config.DriverFile
	cfg.JWT.Secret = "test-secret"
	cfg.Auth.BcryptCost = bcrypt.MinCost

	app, closeAll, err := Build(cfg)
	require.NoError(t, err)
	require.NotNil(t, app)
	closeAll()
}
