package web

import (
	"dbconsole/middleware"
	"dbconsole/utils"
	"dbconsole/views"

	"github.com/gofiber/fiber/v2"
)

// render fills in what the layout needs on every page and renders name
// inside it. titleKey is a message ID; "" leaves the bare app title.
func render(c *fiber.Ctx, status int, name, titleKey string, data fiber.Map) error {
	state := middleware.CurrentState(c)
	lang := middleware.Lang(c)

	view := fiber.Map{
		"Lang":              lang,
		"State":             state,
		"CSRFToken":         middleware.CSRFToken(c),
		"CanAccessSettings": views.CanAccessSettings(state),
	}
	if titleKey != "" {
		view["Title"] = utils.TLang(lang, titleKey)
	}
	for k, v := range data {
		view[k] = v
	}

	return c.Status(status).Render(name, view)
}

// RenderError shows the error page. Used by the app's error handler.
func RenderError(c *fiber.Ctx, code int, message string) error {
	return render(c, code, "error", "error_title", fiber.Map{
		"Code":    code,
		"Message": message,
	})
}

// translate is T for the request's language
func translate(c *fiber.Ctx, messageID string) string {
	return utils.TLang(middleware.Lang(c), messageID)
}
