package middleware

import (
	"dbconsole/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
)

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Japanese,
})

// LocaleMiddleware picks the UI language from ?lang=, the lang cookie or
// Accept-Language, in that order. An explicit ?lang= is remembered in the
// cookie.
func LocaleMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := c.Query("lang")
		if utils.IsSupportedLanguage(lang) {
			c.Cookie(&fiber.Cookie{
				Name:     "lang",
				Value:    lang,
				MaxAge:   365 * 24 * 3600,
				HTTPOnly: true,
				SameSite: "Lax",
			})
		} else {
			lang = c.Cookies("lang")
		}

		if !utils.IsSupportedLanguage(lang) {
			lang = matchAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
		}

		c.Locals("localizer", utils.GetLocalizer(lang))
		c.Locals("lang", lang)

		return c.Next()
	}
}

func matchAcceptLanguage(header string) string {
	if header == "" {
		return "en"
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return "en"
	}
	return utils.SupportedLanguages[idx]
}

// Lang returns the language chosen by LocaleMiddleware
func Lang(c *fiber.Ctx) string {
	if lang, ok := c.Locals("lang").(string); ok && lang != "" {
		return lang
	}
	return "en"
}
