package app

import (
	"strings"
	"time"
	"unicode"

	"dbconsole/models"
	"dbconsole/utils"
	"dbconsole/views"

	"github.com/gofiber/template/html/v2"
)

// addFuncs registers the template helpers. Translation helpers take the
// language explicitly because the engine is shared by every request.
func addFuncs(engine *html.Engine) {
	engine.AddFunc("lower", strings.ToLower)
	engine.AddFunc("upper", strings.ToUpper)
	engine.AddFunc("trim", strings.TrimSpace)

	engine.AddFunc("t", utils.TLang)
	engine.AddFunc("tName", func(lang, messageID, name string) string {
		return utils.TWithData(utils.GetLocalizer(lang), messageID, map[string]interface{}{
			"Name": name,
		})
	})

	engine.AddFunc("tone", views.StatusTone)
	engine.AddFunc("columnLabel", columnLabel)
	engine.AddFunc("cell", func(row models.Row, column string) string {
		return row.Get(column)
	})

	engine.AddFunc("toggle", func(lang, csrf, action, name, label string, enabled bool) map[string]interface{} {
		return map[string]interface{}{
			"Lang":      lang,
			"CSRFToken": csrf,
			"Action":    action,
			"Name":      name,
			"Label":     label,
			"Enabled":   enabled,
		}
	})

	engine.AddFunc("formatTime", func(t time.Time) string {
		return t.Format("Jan 02, 2006 15:04")
	})
}

// columnLabel turns a column key such as "lastUpdated" into "Last Updated"
func columnLabel(column string) string {
	var b strings.Builder
	for i, r := range column {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
