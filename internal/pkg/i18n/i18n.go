package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle        *i18n.Bundle
	matcher       language.Matcher
	defaultLocale = "en"
	loadOnce      sync.Once
	loadErr       error
)

type ctxKey struct{}

func load() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		loadErr = fmt.Errorf("i18n: read locales dir: %w", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			loadErr = fmt.Errorf("i18n: read %s: %w", e.Name(), err)
			return
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			loadErr = fmt.Errorf("i18n: parse %s: %w", e.Name(), err)
			return
		}
	}
	matcher = language.NewMatcher(bundle.LanguageTags())
}

// Init loads the embedded locale files and sets the default locale.
func Init(defLocale string) error {
	loadOnce.Do(load)
	if defLocale != "" {
		defaultLocale = defLocale
	}
	return loadErr
}

// Match picks the best supported locale for an Accept-Language header value.
func Match(acceptLanguage string) string {
	if Init("") != nil || acceptLanguage == "" {
		return defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return defaultLocale
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return defaultLocale
	}
	base, _ := bundle.LanguageTags()[idx].Base()
	return base.String()
}

// WithLocale returns a new context carrying the given locale string (e.g. "id", "en").
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

// LocaleFromContext returns the default locale if none was set.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return defaultLocale
}

// T translates messageID for the locale in ctx, returning fallback when the
// message is unknown.
func T(ctx context.Context, messageID, fallback string) string {
	if Init("") != nil {
		return fallback
	}
	l := i18n.NewLocalizer(bundle, LocaleFromContext(ctx), defaultLocale)
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return fallback
	}
	return msg
}
