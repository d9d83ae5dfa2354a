package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var jsonUnmarshal = json.Unmarshal

//go:embed locales/*.json
var localeFS embed.FS

type (
	localizerKey struct{}
	languageKey  struct{}
)

var (
	bundle      *i18n.Bundle
	matcher     language.Matcher
	defaultLang string
	messageIDs  []string
)

// Init loads the translation bundle with lang as the default language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	bundle = i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", jsonUnmarshal)

	// Load all locale files from embedded FS.
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	ids := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		mf, err := bundle.ParseMessageFileBytes(data, e.Name())
		if err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		for _, m := range mf.Messages {
			ids[m.ID] = true
		}
		slog.Info("loaded locale file", "file", e.Name(), "messages", len(mf.Messages))
	}

	messageIDs = make([]string, 0, len(ids))
	for id := range ids {
		messageIDs = append(messageIDs, id)
	}
	sort.Strings(messageIDs)

	matcher = language.NewMatcher(bundle.LanguageTags())
	defaultLang = tag.String()
	return nil
}

// Match returns the first supported language found in prefs, which are
// language tags or Accept-Language values. It falls back to the default
// language.
func Match(prefs ...string) string {
	for _, p := range prefs {
		if p == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := matcher.Match(tags...)
		if conf == language.No {
			continue
		}
		base, _ := bundle.LanguageTags()[idx].Base()
		return base.String()
	}
	return defaultLang
}

// NewLocalizer creates a localizer for the given language.
func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang)
}

// WithLocalizer stores a localizer and its language in the context.
func WithLocalizer(ctx context.Context, lang string, loc *i18n.Localizer) context.Context {
	ctx = context.WithValue(ctx, languageKey{}, lang)
	return context.WithValue(ctx, localizerKey{}, loc)
}

// LanguageFromCtx returns the request language, or the default language.
func LanguageFromCtx(ctx context.Context) string {
	if lang, ok := ctx.Value(languageKey{}).(string); ok {
		return lang
	}
	return defaultLang
}

// localizerFromCtx retrieves the localizer from context.
func localizerFromCtx(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(localizerKey{}).(*i18n.Localizer); ok {
		return loc
	}
	return i18n.NewLocalizer(bundle, defaultLang)
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	loc := localizerFromCtx(ctx)
	s, err := loc.Localize(&i18n.LocalizeConfig{MessageID: msgID})
	if err != nil {
		slog.Warn("missing translation", "id", msgID, "error", err)
		return msgID
	}
	return s
}

// Dictionary returns every message translated for the request language.
func Dictionary(ctx context.Context) map[string]string {
	loc := localizerFromCtx(ctx)
	out := make(map[string]string, len(messageIDs))
	for _, id := range messageIDs {
		s, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id})
		if err != nil {
			s = id
		}
		out[id] = s
	}
	return out
}
