// Package i18n localizes the user-facing messages of showtrans.
package i18n

import (
	"embed"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// Message IDs.
const (
	MsgSuccess          = "Success"
	MsgNoFileSelected   = "NoFileSelected"
	MsgNoActiveDocument = "NoActiveDocument"
	MsgParseError       = "ParseError"
	MsgResolvedValue    = "ResolvedValue"
	MsgMissingKeys      = "MissingKeys"
)

var localeFiles = []string{"active.en.toml", "active.ko.toml"}

// Translator renders message IDs in the configured language.
type Translator struct {
	localizer *i18n.Localizer
	tag       language.Tag
}

// NewTranslator builds a Translator for locale. Unknown or malformed locales
// fall back to English.
func NewTranslator(locale string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			slog.Warn("i18n: failed to load message file", "file", file, "error", err)
		}
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	matcher := language.NewMatcher(bundle.LanguageTags())
	_, idx, _ := matcher.Match(tag)
	tag = bundle.LanguageTags()[idx]

	return &Translator{
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		tag:       tag,
	}
}

// Language returns the language messages are rendered in.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T renders the message id. When the id is unknown the id itself is returned.
func (t *Translator) T(id string, data map[string]any) string {
	if id == "" {
		return ""
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug("i18n: localize failed", "id", id, "error", err)
		return id
	}
	return msg
}

// Plural renders the message id for count, choosing the plural form.
func (t *Translator) Plural(id string, count int) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		slog.Debug("i18n: localize failed", "id", id, "error", err)
		return id
	}
	return msg
}
