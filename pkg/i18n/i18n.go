package i18n

import (
	"embed"
	"encoding/json"
	"path"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

type Translator struct {
	bundle   *goi18n.Bundle
	fallback string
}

// New loads the embedded message files. defaultLang is used when the caller's language has no
// translation for a message.
func New(defaultLang string) (*Translator, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		tag = language.Spanish
	}

	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		data, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, err
		}
	}

	return &Translator{bundle: bundle, fallback: tag.String()}, nil
}

// T localizes messageID for the given Accept-Language style preferences. Unknown ids are
// returned unchanged.
func (t *Translator) T(acceptLanguage, messageID string, data map[string]interface{}) string {
	localizer := goi18n.NewLocalizer(t.bundle, acceptLanguage, t.fallback)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
