package services

import (
	"sort"
	"testing"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
	"github.com/stretchr/testify/assert"
)

type fakeCatalog map[string]site.Style

func (c fakeCatalog) Preset(id string) (site.Style, bool) {
	s, ok := c[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

func (c fakeCatalog) DefaultID() string { return "base" }

func (c fakeCatalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"base": {
			"primary": "#111", "secondary": "#222", "grey": "#222",
			"page": "#fff", "surface": "#fafafa", "background": "#f0f0f0",
		},
		"dark": {
			"primary": "#eee", "secondary": "#ddd", "grey": "#ddd",
			"page": "#000", "surface": "#111", "background": "#222",
		},
	}
}

func TestResolveIDFallsBack(t *testing.T) {
	r := NewStyleResolver(testCatalog())
	assert.Equal(t, "dark", r.ResolveID("dark"))
	assert.Equal(t, "dark", r.ResolveID(" dark "))
	assert.Equal(t, "base", r.ResolveID("neon"))
	assert.Equal(t, "base", r.ResolveID(""))
}

func TestSanitizeDropsUnknownKeys(t *testing.T) {
	r := NewStyleResolver(testCatalog())
	got := r.Sanitize(map[string]any{
		"primary":  " #abc ",
		"evil":     "url(javascript:alert(1))",
		"radius":   4,
		"accent":   "",
		"fontBody": "Inter",
	})
	assert.Equal(t, site.Style{"primary": "#abc", "fontBody": "Inter"}, got)
}

func TestComposeWithoutOverridesIsPreset(t *testing.T) {
	catalog := testCatalog()
	r := NewStyleResolver(catalog)
	assert.Equal(t, catalog["dark"], r.Compose("dark", site.Style{}))
	assert.Equal(t, catalog["base"], r.Compose("missing", nil))
}

func TestComposeIsDeterministic(t *testing.T) {
	r := NewStyleResolver(testCatalog())
	overrides := site.Style{"neutral": "#ccc", "secondary": "#f00", "primary": "#0f0"}
	first := r.Compose("base", overrides)
	second := r.Compose("base", overrides)
	assert.Equal(t, first, second)
}

func TestComposeCascades(t *testing.T) {
	r := NewStyleResolver(testCatalog())

	got := r.Compose("base", site.Style{"neutral": "#ccc"})
	assert.Equal(t, "#ccc", got["page"])
	assert.Equal(t, "#ccc", got["surface"])
	assert.Equal(t, "#ccc", got["background"])
	assert.Equal(t, "#ccc", got["neutral"])

	got = r.Compose("base", site.Style{"neutral": "#ccc", "surface": "#123"})
	assert.Equal(t, "#123", got["surface"], "explicit surface wins over neutral")
	assert.Equal(t, "#ccc", got["page"])

	got = r.Compose("base", site.Style{"secondary": "#f00"})
	assert.Equal(t, "#f00", got["secondary"])
	assert.Equal(t, "#f00", got["grey"])

	got = r.Compose("base", site.Style{"secondary": "#f00", "grey": "#999"})
	assert.Equal(t, "#999", got["grey"])
}
