// Package translation loads per-locale key/value catalogs and renders messages
// with {placeholder} substitution.
package translation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"skeleton/internal/common/fsutil"
)

// DefaultLocale is the fallback used when none is configured.
const DefaultLocale = "en"

// Extensions recognised by Load.
var Extensions = []string{".yaml", ".yml", ".json", ".toml"}

// ErrUnsupportedFormat is returned by LoadFile for unknown extensions.
var ErrUnsupportedFormat = errors.New("translation: unsupported file format")

// Translator holds catalogs keyed by locale. It is safe for concurrent use.
type Translator struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string
	fallback string
}

// New returns an empty translator falling back to fallback (DefaultLocale if empty).
func New(fallback string) *Translator {
	if fallback == "" {
		fallback = DefaultLocale
	}
	return &Translator{catalogs: make(map[string]map[string]string), fallback: fallback}
}

// Load reads every <locale>.<ext> catalog directly under dir.
func Load(dir, fallback string) (*Translator, error) {
	files, err := fsutil.ScanExt(dir, Extensions...)
	if err != nil {
		return nil, fmt.Errorf("translation: %w", err)
	}
	t := New(fallback)
	for _, f := range files {
		if err := t.LoadFile(f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// LoadFile merges one catalog file; the locale is the file name without extension.
func (t *Translator) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("translation: %w", err)
	}
	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &raw)
	case ".json":
		err = json.Unmarshal(b, &raw)
	case ".toml":
		err = toml.Unmarshal(b, &raw)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("translation: parse %s: %w", path, err)
	}
	entries := make(map[string]string)
	flatten("", raw, entries)
	t.Add(fsutil.StripExt(path), entries)
	return nil
}

// flatten turns nested maps into dotted keys.
func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]any:
			flatten(key, vv, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(vv)
		}
	}
}

// Add merges entries into the catalog for locale, overwriting existing keys.
func (t *Translator) Add(locale string, entries map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := t.catalogs[locale]
	if c == nil {
		c = make(map[string]string, len(entries))
		t.catalogs[locale] = c
	}
	for k, v := range entries {
		c[k] = v
	}
}

// SetFallback changes the fallback locale.
func (t *Translator) SetFallback(locale string) {
	t.mu.Lock()
	t.fallback = locale
	t.mu.Unlock()
}

// Fallback returns the fallback locale.
func (t *Translator) Fallback() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fallback
}

// Locales returns the loaded locales, sorted.
func (t *Translator) Locales() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.catalogs))
	for l := range t.catalogs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Has reports whether locale defines key (no fallback).
func (t *Translator) Has(locale, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.catalogs[locale][key]
	return ok
}

// Translate looks key up in locale, then in the fallback locale, and finally
// returns key itself. {name} placeholders are replaced from params.
func (t *Translator) Translate(locale, key string, params map[string]any) string {
	t.mu.RLock()
	msg, ok := t.catalogs[locale][key]
	if !ok {
		msg, ok = t.catalogs[t.fallback][key]
	}
	t.mu.RUnlock()
	if !ok {
		msg = key
	}
	return Substitute(msg, params)
}

// Substitute replaces {name} with params[name]. Placeholders without a value
// are left as they are.
func Substitute(msg string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	var b strings.Builder
	b.Grow(len(msg))
	for {
		open := strings.IndexByte(msg, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(msg[open:], '}')
		if end < 0 {
			break
		}
		end += open
		name := msg[open+1 : end]
		b.WriteString(msg[:open])
		if v, ok := params[name]; ok {
			fmt.Fprint(&b, v)
		} else {
			b.WriteString(msg[open : end+1])
		}
		msg = msg[end+1:]
	}
	b.WriteString(msg)
	return b.String()
}
