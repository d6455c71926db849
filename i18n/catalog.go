// Package i18n holds the message catalog and Accept-Language negotiation.
package i18n

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
)

// Catalog resolves message keys for a set of supported locales.
type Catalog struct {
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
	tables    map[language.Tag]map[string]string
}

// New builds a catalog from tables. fallback must be one of the table
// locales (or match one) and is used when negotiation fails.
func New(fallback string, tables map[language.Tag]map[string]string) (*Catalog, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("i18n: no message tables")
	}

	requested, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid locale %q: %w", fallback, err)
	}

	candidates := make([]language.Tag, 0, len(tables))
	for tag := range tables {
		candidates = append(candidates, tag)
	}
	_, idx, conf := language.NewMatcher(candidates).Match(requested)
	if conf == language.No {
		return nil, fmt.Errorf("i18n: unsupported locale %q", fallback)
	}
	resolved := candidates[idx]

	// The matcher treats the first tag as its default.
	supported := []language.Tag{resolved}
	for _, tag := range candidates {
		if tag != resolved {
			supported = append(supported, tag)
		}
	}

	return &Catalog{
		fallback:  resolved,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		tables:    tables,
	}, nil
}

// NewDefault returns a catalog with the built-in English and Brazilian
// Portuguese tables.
func NewDefault(fallback string) (*Catalog, error) {
	return New(fallback, map[language.Tag]map[string]string{
		language.English:             english,
		language.BrazilianPortuguese: brazilianPortuguese,
	})
}

// Fallback returns the default locale.
func (c *Catalog) Fallback() language.Tag {
	return c.fallback
}

// Supported lists the catalog's locales, fallback first.
func (c *Catalog) Supported() []string {
	out := make([]string, len(c.supported))
	for i, tag := range c.supported {
		out[i] = tag.String()
	}
	return out
}

// Match negotiates an Accept-Language header value.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	return c.resolve(tags...)
}

// Parse resolves a single locale identifier such as "pt-BR".
func (c *Catalog) Parse(locale string) language.Tag {
	if locale == "" {
		return c.fallback
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return c.fallback
	}
	return c.resolve(tag)
}

func (c *Catalog) resolve(tags ...language.Tag) language.Tag {
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.fallback
	}
	return c.supported[idx]
}

// Lookup returns the message for key in tag, then in the fallback locale.
func (c *Catalog) Lookup(tag language.Tag, key string) (string, bool) {
	if msg, ok := c.tables[tag][key]; ok {
		return msg, true
	}
	msg, ok := c.tables[c.fallback][key]
	return msg, ok
}

// Text is Lookup that returns key itself when nothing matches.
func (c *Catalog) Text(tag language.Tag, key string) string {
	if msg, ok := c.Lookup(tag, key); ok {
		return msg
	}
	return key
}

// FromContext returns the locale stored in ctx or the fallback.
func (c *Catalog) FromContext(ctx context.Context) language.Tag {
	if tag, ok := LocaleFrom(ctx); ok {
		return tag
	}
	return c.fallback
}

type localeKey struct{}

// WithLocale stores tag in ctx.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

// LocaleFrom returns the locale stored by WithLocale.
func LocaleFrom(ctx context.Context) (language.Tag, bool) {
	tag, ok := ctx.Value(localeKey{}).(language.Tag)
	return tag, ok
}
