package web

import (
	"dbconsole/middleware"
	"dbconsole/models"
	"dbconsole/storage"
	"dbconsole/utils"
	"dbconsole/views"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler serves the settings page and its forms
type SettingsHandler struct {
	prefs *storage.PreferenceStorage
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(prefs *storage.PreferenceStorage) *SettingsHandler {
	return &SettingsHandler{prefs: prefs}
}

type profileForm struct {
	Name  string `form:"name" validate:"required,max=100"`
	Email string `form:"email" validate:"required,email"`
}

type passwordForm struct {
	Current string `form:"current_password"`
	New     string `form:"new_password"`
	Confirm string `form:"confirm_password"`
}

// ShowSettings renders the settings page
func (h *SettingsHandler) ShowSettings(c *fiber.Ctx) error {
	user := middleware.CurrentState(c).User
	return h.renderSettings(c, fiber.StatusOK, profileForm{Name: user.Name, Email: user.Email}, fiber.Map{})
}

func (h *SettingsHandler) renderSettings(c *fiber.Ctx, status int, profile profileForm, extra fiber.Map) error {
	state := middleware.CurrentState(c)

	notifications, err := h.prefs.GetNotifications(state.User.ID)
	if err != nil {
		utils.Log.Warn("Using default notification settings: %v", err)
	}

	data := fiber.Map{
		"Profile":           profile,
		"Notifications":     notifications,
		"ShowAdminSettings": views.ShowAdminSettings(state),
	}
	if views.ShowAdminSettings(state) {
		system, err := h.prefs.GetSystem()
		if err != nil {
			utils.Log.Warn("Using default system settings: %v", err)
		}
		data["System"] = system
	}
	for k, v := range extra {
		data[k] = v
	}

	return render(c, status, "settings", "settings_title", data)
}

// UpdateProfile validates the profile form and acknowledges it. The demo
// accounts are fixed, so nothing is stored.
func (h *SettingsHandler) UpdateProfile(c *fiber.Ctx) error {
	var form profileForm
	if err := c.BodyParser(&form); err != nil {
		return utils.BadRequestError("invalid form", err)
	}

	if err := utils.ValidateStruct(form); err != nil {
		message := err.Error()
		if appErr, ok := utils.AsAppError(err); ok {
			message = appErr.Message
		}
		return h.renderSettings(c, fiber.StatusBadRequest, form, fiber.Map{"Error": message})
	}

	return h.renderSettings(c, fiber.StatusOK, form, fiber.Map{
		"Flash": translate(c, "flash_profile_updated"),
	})
}

// ChangePassword checks that the new password was typed twice the same.
// The fields come back empty either way.
func (h *SettingsHandler) ChangePassword(c *fiber.Ctx) error {
	var form passwordForm
	if err := c.BodyParser(&form); err != nil {
		return utils.BadRequestError("invalid form", err)
	}

	user := middleware.CurrentState(c).User
	profile := profileForm{Name: user.Name, Email: user.Email}

	if form.New != form.Confirm {
		return h.renderSettings(c, fiber.StatusBadRequest, profile, fiber.Map{
			"Error": translate(c, "flash_password_mismatch"),
		})
	}

	return h.renderSettings(c, fiber.StatusOK, profile, fiber.Map{
		"Flash": translate(c, "flash_password_changed"),
	})
}

// ToggleNotification flips one of the user's notification switches
func (h *SettingsHandler) ToggleNotification(c *fiber.Ctx) error {
	user := middleware.CurrentState(c).User

	settings, err := h.prefs.GetNotifications(user.ID)
	if err != nil {
		return utils.InternalServerError("Error loading settings", err)
	}

	if !toggleNotification(&settings, c.FormValue("setting")) {
		return utils.BadRequestError("unknown setting", nil)
	}

	if err := h.prefs.SaveNotifications(settings); err != nil {
		return utils.InternalServerError("Error saving settings", err)
	}

	return c.Redirect("/settings", fiber.StatusSeeOther)
}

func toggleNotification(s *models.NotificationSettings, name string) bool {
	switch name {
	case "email":
		s.Email = !s.Email
	case "sms":
		s.SMS = !s.SMS
	case "push":
		s.Push = !s.Push
	default:
		return false
	}
	return true
}
