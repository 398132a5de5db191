package web

import (
	"fmt"

	"dbconsole/activity"
	"dbconsole/datasets"
	"dbconsole/metrics"
	"dbconsole/middleware"
	"dbconsole/models"
	"dbconsole/session"
	"dbconsole/utils"
	"dbconsole/views"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
)

// AuthHandler serves the landing page, login and logout
type AuthHandler struct {
	store    *fibersession.Store
	registry *datasets.Registry
	feed     *activity.Feed
	metrics  *metrics.Metrics
	demo     []string
}

// NewAuthHandler creates a new instance of AuthHandler. accounts are listed
// on the login page as demo credentials.
func NewAuthHandler(store *fibersession.Store, registry *datasets.Registry, feed *activity.Feed, m *metrics.Metrics, accounts []session.Account) *AuthHandler {
	return &AuthHandler{
		store:    store,
		registry: registry,
		feed:     feed,
		metrics:  m,
		demo:     demoCredentials(accounts),
	}
}

func demoCredentials(accounts []session.Account) []string {
	out := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		label := "User"
		if acc.Role == models.RoleAdmin {
			label = "Admin"
		}
		out = append(out, fmt.Sprintf("%s: %s / %s", label, acc.Email, session.DemoPassword))
	}
	return out
}

// ShowIndex renders the landing page, or sends logged-in users on to
// their dashboard
func (h *AuthHandler) ShowIndex(c *fiber.Ctx) error {
	if middleware.CurrentState(c).IsAuthenticated {
		return c.Redirect("/dashboard")
	}
	return render(c, fiber.StatusOK, "index", "", fiber.Map{
		"Highlights":   views.Highlights,
		"FeatureLists": views.FeatureLists,
	})
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	if middleware.CurrentState(c).IsAuthenticated {
		return c.Redirect("/dashboard")
	}
	return h.renderLogin(c, fiber.StatusOK, "", "")
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, status int, email, errorKey string) error {
	data := fiber.Map{
		"Email":           email,
		"DemoCredentials": h.demo,
	}
	if errorKey != "" {
		data["Error"] = translate(c, errorKey)
	}
	return render(c, status, "login", "login_title", data)
}

// HandleLogin processes the login form. Email is matched exactly as typed.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	holder := middleware.MustHolder(c)
	ok, err := holder.Login(c.UserContext(), email, password)
	if err != nil {
		h.countLogin("error")
		utils.Log.Error("Login failed for %s: %v", email, err)
		return h.renderLogin(c, fiber.StatusInternalServerError, email, "login_error")
	}
	if !ok {
		h.countLogin("failure")
		utils.Log.Info("Rejected login for %s", email)
		return h.renderLogin(c, fiber.StatusUnauthorized, email, "login_failed")
	}

	h.countLogin("success")
	h.feed.Publish(activity.Event{
		Kind:    activity.KindLogin,
		Message: "User login: " + email,
		Actor:   email,
	})
	utils.Log.WithField("role", holder.State().Role()).Info("User %s logged in", email)

	return c.Redirect("/dashboard")
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

// HandleLogout ends the session and drops its dialog data
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	key := middleware.ClientKey(h.store, c)
	holder := middleware.MustHolder(c)
	user := holder.User()

	if err := holder.Logout(c.UserContext()); err != nil {
		utils.Log.Error("Failed to clear session: %v", err)
	}
	if key != "" {
		h.registry.Drop(key)
	}

	if user != nil {
		h.feed.Publish(activity.Event{
			Kind:    activity.KindLogout,
			Message: "User logout: " + user.Email,
			Actor:   user.Email,
		})
		if h.metrics != nil {
			h.metrics.Logouts.Inc()
		}
	}

	return c.Redirect("/login")
}
