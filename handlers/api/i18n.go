package api

import (
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
)

// clientKeys are the messages the dashboard scripts need
var clientKeys = []string{
	"activity_live",
	"button_delete",
	"button_cancel",
	"table_empty",
	"flash_settings_saved",
	"error_404",
	"error_500",
}

// I18nHandler handles i18n-related requests
type I18nHandler struct{}

// GetTranslations returns translations for the client-side JavaScript
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Params("lang")
	if !utils.IsSupportedLanguage(lang) {
		lang = "en"
	}

	localizer := utils.GetLocalizer(lang)

	translations := make(map[string]string, len(clientKeys))
	for _, key := range clientKeys {
		translations[key] = utils.T(localizer, key)
	}

	return c.JSON(translations)
}
