package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed locales/*.json
var localesFS embed.FS

// Bundle holds message catalogs keyed by locale code. Rendering falls back
// to the default locale when a locale or a key is missing, so lookups never
// fail hard.
type Bundle struct {
	catalogs      map[string]map[string]string
	defaultLocale string
}

// Load parses every embedded locale catalog. The default locale must be one
// of them.
func Load(defaultLocale string) (*Bundle, error) {
	entries, err := fs.ReadDir(localesFS, "locales")
	if err != nil {
		return nil, err
	}

	catalogs := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		raw, err := fs.ReadFile(localesFS, "locales/"+e.Name())
		if err != nil {
			return nil, err
		}
		var catalog map[string]string
		if err := json.Unmarshal(raw, &catalog); err != nil {
			return nil, fmt.Errorf("locale %s: %w", e.Name(), err)
		}
		catalogs[strings.TrimSuffix(e.Name(), ".json")] = catalog
	}

	if _, ok := catalogs[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q has no catalog", defaultLocale)
	}
	return &Bundle{catalogs: catalogs, defaultLocale: defaultLocale}, nil
}

// Locales returns the available locale codes, sorted.
func (b *Bundle) Locales() []string {
	codes := make([]string, 0, len(b.catalogs))
	for code := range b.catalogs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Has reports whether a catalog exists for the locale.
func (b *Bundle) Has(locale string) bool {
	_, ok := b.catalogs[locale]
	return ok
}

// Render formats the message under key in the given locale. An unsupported
// locale falls back to the default one; a missing key falls back to the
// default catalog and, as a last resort, to the key itself.
func (b *Bundle) Render(locale, key string, args ...any) string {
	catalog, ok := b.catalogs[locale]
	if !ok {
		catalog = b.catalogs[b.defaultLocale]
	}
	format, ok := catalog[key]
	if !ok {
		format, ok = b.catalogs[b.defaultLocale][key]
		if !ok {
			return key
		}
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
