package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"dbconsole/activity"
	"dbconsole/auth"
	"dbconsole/config"
	"dbconsole/datasets"
	"dbconsole/metrics"
	"dbconsole/session"
	"dbconsole/storage"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
	"go.etcd.io/bbolt"
)

const (
	registrySweep = 10 * time.Minute
	sessionSweep  = 10 * time.Minute
)

// Build opens the stores named by cfg and assembles the application. The
// returned close function releases them.
func Build(cfg *config.Config) (*fiber.App, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				utils.Log.Warn("Error during shutdown: %v", err)
			}
		}
	}

	db, err := storage.InitDB(cfg.Data.Dir)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, db)

	sessions, err := sessionStorage(cfg, db)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if sessions != nil {
		closers = append(closers, storageCloser{sessions})
	}
	if p, ok := sessions.(purger); ok {
		closers = append(closers, closerFunc(startPurge(p, sessionSweep)))
	}

	authenticator, err := session.NewStaticAuthenticator(session.DemoAccounts, session.DemoPassword, cfg.Auth.BcryptCost)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	registry := datasets.NewRegistry(cfg.Session.Expiration, registrySweep)
	closers = append(closers, closerFunc(func() error {
		registry.Close()
		return nil
	}))

	feed := activity.NewFeed(activity.DefaultCapacity)
	feed.Seed()

	deps := Deps{
		SessionStorage: sessions,
		Authenticator:  authenticator,
		Accounts:       authenticator.Accounts(),
		Preferences:    storage.NewPreferenceStorage(db),
		Registry:       registry,
		Feed:           feed,
		Metrics:        metrics.New(),
		Tokens:         auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL),
	}

	return New(cfg, deps), closeAll, nil
}

// sessionStorage picks the fiber.Storage for the configured driver. The
// memory driver returns nil so Fiber uses its own in-process store.
func sessionStorage(cfg *config.Config, db *bbolt.DB) (fiber.Storage, error) {
	switch cfg.Session.Driver {
	case config.DriverMemory:
		return nil, nil

	case config.DriverFile:
		s, err := storage.NewFileStorage(cfg.Session.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize session storage: %w", err)
		}
		return s, nil

	case config.DriverBolt:
		return storage.NewBoltStorage(db), nil

	case config.DriverRedis:
		s := storage.NewRedisStorage(storage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			utils.Log.Warn("Redis at %s is not reachable yet: %v", cfg.Redis.Addr, err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
}

// purger is a session backend that keeps expired entries until swept
type purger interface {
	PurgeExpired() (int, error)
}

// startPurge sweeps p every interval until the returned stop is called
func startPurge(p purger, interval time.Duration) func() error {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ticker.C:
				n, err := p.PurgeExpired()
				if err != nil {
					utils.Log.Warn("Session purge failed: %v", err)
				} else if n > 0 {
					utils.Log.Debug("Purged %d expired sessions", n)
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() error {
		once.Do(func() {
			ticker.Stop()
			close(done)
			<-stopped
		})
		return nil
	}
}

type storageCloser struct {
	fiber.Storage
}

func (s storageCloser) Close() error {
	return s.Storage.Close()
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
