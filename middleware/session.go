package middleware

import (
	"context"
	"fmt"
	"time"

	"dbconsole/session"
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

const holderKey = "session_holder"

// SessionCookie is the cookie carrying the browser session ID
const SessionCookie = "dbconsole_session"

// NewSessionStore builds the fiber session store over storage. A nil
// storage keeps sessions in process memory.
func NewSessionStore(storage fiber.Storage, expiration time.Duration, secure bool) *fibersession.Store {
	return fibersession.New(fibersession.Config{
		Storage:        storage,
		Expiration:     expiration,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieSecure:   secure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// sessionStorage adapts one request's fiber session to session.Storage.
// The fiber session is fetched again for every call because Save releases
// it back to the pool.
type sessionStorage struct {
	store *fibersession.Store
	c     *fiber.Ctx
}

// NewSessionStorage exposes the browser session of c as session.Storage
func NewSessionStorage(store *fibersession.Store, c *fiber.Ctx) session.Storage {
	return &sessionStorage{store: store, c: c}
}

func (s *sessionStorage) Get(ctx context.Context, key string) ([]byte, error) {
	sess, err := s.store.Get(s.c)
	if err != nil {
		return nil, err
	}
	switch v := sess.Get(key).(type) {
	case nil:
		return nil, session.ErrNotFound
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unexpected %T stored under %q", v, key)
	}
}

func (s *sessionStorage) Set(ctx context.Context, key string, value []byte) error {
	sess, err := s.store.Get(s.c)
	if err != nil {
		return err
	}
	sess.Set(key, string(value))
	return sess.Save()
}

func (s *sessionStorage) Delete(ctx context.Context, key string) error {
	sess, err := s.store.Get(s.c)
	if err != nil {
		return err
	}
	sess.Delete(key)
	return sess.Save()
}

// SessionScope gives every request a restored session.Holder over the
// browser's session and disposes it when the request ends.
func SessionScope(store *fibersession.Store, auth session.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := session.New(NewSessionStorage(store, c), auth, session.WithLogger(utils.Log))
		if err := h.Restore(c.UserContext()); err != nil {
			utils.Log.Error("Failed to restore session: %v", err)
		}
		defer h.Dispose()

		c.Locals(holderKey, h)
		return c.Next()
	}
}

// Holder returns the request's holder, if SessionScope ran
func Holder(c *fiber.Ctx) (*session.Holder, bool) {
	h, ok := c.Locals(holderKey).(*session.Holder)
	return h, ok && h != nil
}

// MustHolder returns the request's holder and panics outside SessionScope.
// A missing holder is a wiring bug, not a runtime condition.
func MustHolder(c *fiber.Ctx) *session.Holder {
	h, ok := Holder(c)
	if !ok {
		panic("middleware: MustHolder called outside SessionScope")
	}
	return h
}

// SessionID returns the browser session ID, or "" when there is no saved
// session yet
func SessionID(store *fibersession.Store, c *fiber.Ctx) string {
	if c.Cookies(SessionCookie) == "" {
		return ""
	}
	sess, err := store.Get(c)
	if err != nil {
		return ""
	}
	return sess.ID()
}

// ClientKey identifies the caller for per-client state: the browser
// session ID, or the user ID for token-authenticated requests.
func ClientKey(store *fibersession.Store, c *fiber.Ctx) string {
	if ViaToken(c) {
		return "user:" + CurrentState(c).User.ID
	}
	if id := SessionID(store, c); id != "" {
		return "session:" + id
	}
	if u := CurrentState(c).User; u != nil {
		return "user:" + u.ID
	}
	return ""
}
