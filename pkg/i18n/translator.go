// Package i18n resolves the user-facing messages attached to normalized
// request results. Messages are keyed "error:<name>" and may carry
// {{placeholder}} fields.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// ErrorDomain prefixes every built-in message key.
const ErrorDomain = "error"

// Translator maps message keys to localized text. It is safe for concurrent use.
type Translator struct {
	mu            sync.RWMutex
	defaultLocale string
	fallbacks     []string
	messages      map[string]map[string]string // locale -> key -> text
}

// Option customizes a Translator.
type Option func(*Translator) error

// New creates an empty Translator with "en" as default locale.
func New(opts ...Option) (*Translator, error) {
	tr := &Translator{
		defaultLocale: "en",
		messages:      map[string]map[string]string{},
	}
	for _, opt := range opts {
		if err := opt(tr); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

// Default returns a Translator preloaded with the built-in messages.
func Default() *Translator {
	tr, err := New(WithEmbeddedMessages())
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded messages: %v", err))
	}
	return tr
}

// WithDefaultLocale sets the locale used when none is requested.
func WithDefaultLocale(locale string) Option {
	return func(t *Translator) error {
		if locale = strings.TrimSpace(locale); locale != "" {
			t.defaultLocale = locale
		}
		return nil
	}
}

// WithFallbackLocales sets the locales tried, in order, before the default.
func WithFallbackLocales(locales ...string) Option {
	return func(t *Translator) error {
		t.fallbacks = append(t.fallbacks[:0], locales...)
		return nil
	}
}

// WithEmbeddedMessages loads locales/<locale>.json under ErrorDomain.
func WithEmbeddedMessages() Option {
	return func(t *Translator) error {
		entries, err := embeddedLocales.ReadDir("locales")
		if err != nil {
			return err
		}
		for _, e := range entries {
			locale := strings.TrimSuffix(e.Name(), ".json")
			raw, err := embeddedLocales.ReadFile("locales/" + e.Name())
			if err != nil {
				return err
			}
			var flat map[string]string
			if err := json.Unmarshal(raw, &flat); err != nil {
				return fmt.Errorf("i18n: locale %s: %w", locale, err)
			}
			keyed := make(map[string]string, len(flat))
			for k, v := range flat {
				keyed[ErrorDomain+":"+k] = v
			}
			t.Add(locale, keyed)
		}
		return nil
	}
}

// Add merges messages into locale, replacing existing keys.
func (t *Translator) Add(locale string, messages map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.messages[locale]
	if !ok {
		m = make(map[string]string, len(messages))
		t.messages[locale] = m
	}
	for k, v := range messages {
		m[k] = v
	}
}

// chain lists the locales searched for locale: itself, its base language,
// the fallbacks and the default.
func (t *Translator) chain(locale string) []string {
	if locale == "" {
		locale = t.defaultLocale
	}
	out := []string{locale}
	if base, _, ok := strings.Cut(locale, "-"); ok {
		out = append(out, base)
	}
	out = append(out, t.fallbacks...)
	return append(out, t.defaultLocale)
}

// T returns the message for key in locale with placeholders filled from data.
// A key found in no locale is returned without its domain prefix.
func (t *Translator) T(locale, key string, data map[string]any) string {
	msg, found := "", false
	t.mu.RLock()
	for _, loc := range t.chain(locale) {
		if msg, found = t.messages[loc][key]; found {
			break
		}
	}
	t.mu.RUnlock()

	if !found {
		if _, name, ok := strings.Cut(key, ":"); ok {
			return name
		}
		return key
	}
	return fill(msg, data)
}

// TCtx is T with the locale carried by ctx.
func (t *Translator) TCtx(ctx context.Context, key string, data map[string]any) string {
	return t.T(LocaleFromContext(ctx), key, data)
}

var placeholder = regexp.MustCompile(`\{\{\s*[\w.]+\s*\}\}`)

func fill(msg string, data map[string]any) string {
	if len(data) == 0 {
		return msg
	}
	return placeholder.ReplaceAllStringFunc(msg, func(m string) string {
		name := strings.TrimSpace(m[2 : len(m)-2])
		if v, ok := data[name]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}

type localeKey struct{}

// ContextWithLocale stores the caller's locale for TCtx.
func ContextWithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns the locale stored by ContextWithLocale, or "".
func LocaleFromContext(ctx context.Context) string {
	locale, _ := ctx.Value(localeKey{}).(string)
	return locale
}
