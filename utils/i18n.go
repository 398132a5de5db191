package utils

import (
	"dbconsole/locales"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// SupportedLanguages lists the locales shipped in locales/
var SupportedLanguages = []string{"en", "ja"}

var (
	// Bundle is the global translation bundle
	Bundle *i18n.Bundle
	// Localizer is the default localizer
	Localizer *i18n.Localizer

	i18nOnce sync.Once
	i18nErr  error
)

// InitI18n loads the embedded locale files. Safe to call more than once.
func InitI18n() error {
	i18nOnce.Do(func() {
		Bundle = i18n.NewBundle(language.English)
		Bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		for _, lang := range SupportedLanguages {
			if _, err := Bundle.LoadMessageFileFS(locales.FS, "active."+lang+".toml"); err != nil {
				Log.Warn("Failed to load %s locale: %v", lang, err)
				if lang == "en" {
					i18nErr = err
				}
			}
		}

		Localizer = i18n.NewLocalizer(Bundle, language.English.String())
		Log.Debug("i18n system initialized")
	})
	return i18nErr
}

// IsSupportedLanguage reports whether lang has a locale file
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// GetLocalizer returns a localizer for the specified language
func GetLocalizer(lang string) *i18n.Localizer {
	if Bundle == nil {
		return nil
	}
	if lang == "" {
		lang = "en"
	}
	return i18n.NewLocalizer(Bundle, lang)
}

// T translates a message ID, falling back to the ID itself
func T(localizer *i18n.Localizer, messageID string) string {
	if localizer == nil {
		return messageID
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}

// TWithData translates a message ID with template data
func TWithData(localizer *i18n.Localizer, messageID string, data map[string]interface{}) string {
	if localizer == nil {
		return messageID
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}

// TLang is T for a language code, used by the template functions
func TLang(lang, messageID string) string {
	return T(GetLocalizer(lang), messageID)
}
