package web

import (
	"fmt"

	"dbconsole/activity"
	"dbconsole/middleware"
	"dbconsole/models"
	"dbconsole/storage"
	"dbconsole/utils"
	"dbconsole/views"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler changes the system-wide settings
type AdminHandler struct {
	prefs *storage.PreferenceStorage
	feed  *activity.Feed
}

func NewAdminHandler(prefs *storage.PreferenceStorage, feed *activity.Feed) *AdminHandler {
	return &AdminHandler{prefs: prefs, feed: feed}
}

// ToggleSystem flips one of the admin switches
func (h *AdminHandler) ToggleSystem(c *fiber.Ctx) error {
	state := middleware.CurrentState(c)
	if !views.ShowAdminSettings(state) {
		return utils.ForbiddenError("Access denied", nil)
	}

	settings, err := h.prefs.GetSystem()
	if err != nil {
		return utils.InternalServerError("Error loading settings", err)
	}

	name := c.FormValue("setting")
	enabled, ok := toggleSystem(&settings, name)
	if !ok {
		return utils.BadRequestError("unknown setting", nil)
	}

	if err := h.prefs.SaveSystem(settings, state.User.Email); err != nil {
		return utils.InternalServerError("Error saving settings", err)
	}

	h.feed.Publish(activity.Event{
		Kind:    activity.KindSettings,
		Message: fmt.Sprintf("System setting %s %s", name, onOff(enabled)),
		Actor:   state.User.Email,
	})

	return c.Redirect("/settings", fiber.StatusSeeOther)
}

func toggleSystem(s *models.SystemSettings, name string) (bool, bool) {
	switch name {
	case "maintenance":
		s.MaintenanceMode = !s.MaintenanceMode
		return s.MaintenanceMode, true
	case "registration":
		s.UserRegistration = !s.UserRegistration
		return s.UserRegistration, true
	case "debug":
		s.DebugMode = !s.DebugMode
		return s.DebugMode, true
	}
	return false, false
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
