package services

import (
	"testing"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer() *SiteNormalizer {
	return NewSiteNormalizer(NewStyleResolver(testCatalog()))
}

func TestNormalizeArrayPages(t *testing.T) {
	n := newTestNormalizer()
	s := n.Normalize(map[string]any{
		"styleId": "dark",
		"pages": []any{
			map[string]any{"id": "about", "name": "About", "order": 2},
			map[string]any{"id": "home", "name": "Home", "order": 1, "modules": []any{
				map[string]any{"id": "b", "type": "text", "order": 1},
				map[string]any{"moduleId": "a", "moduleType": "hero", "order": 0,
					"content": map[string]any{"layout": "split", "title": "Hi"}},
			}},
		},
	})

	require.Len(t, s.Pages, 2)
	assert.Equal(t, []string{"home", "about"}, s.PageIDs())
	assert.Equal(t, "/", s.Pages[0].Route)
	assert.Equal(t, "/about", s.Pages[1].Route)
	assert.Equal(t, 0, s.Pages[0].Order)
	assert.Equal(t, 1, s.Pages[1].Order)
	assert.Equal(t, []string{"home", "about"}, s.PageOrder)

	mods := s.Pages[0].Modules
	require.Len(t, mods, 2)
	assert.Equal(t, "a", mods[0].ID)
	assert.Equal(t, "hero", mods[0].Type)
	assert.Equal(t, "split", mods[0].LayoutValue())
	assert.NotContains(t, mods[0].Content, "layout")
	assert.Equal(t, "Hi", mods[0].Content["title"])
	assert.Equal(t, "b", mods[1].ID)
	assert.Nil(t, mods[1].Layout)
	assert.True(t, mods[1].Enabled)
	assert.Equal(t, "dark", s.StyleID)
}

func TestNormalizeLegacyMaps(t *testing.T) {
	n := newTestNormalizer()
	s := n.Normalize(map[string]any{
		"pages": map[string]any{
			"home": map[string]any{
				"modules": map[string]any{
					"intro": map[string]any{"config": map[string]any{"text": "hello"}, "visible": false},
				},
			},
			"contact": map[string]any{"path": "get-in-touch"},
		},
	})

	require.Len(t, s.Pages, 2)
	// sorted legacy keys: contact, home
	assert.Equal(t, "contact", s.Pages[0].ID)
	assert.Equal(t, "/get-in-touch", s.Pages[0].Route)
	assert.Equal(t, "home", s.Pages[1].ID)

	mod := s.Pages[1].Modules[0]
	assert.Equal(t, "intro", mod.ID)
	assert.Equal(t, "intro", mod.Type)
	assert.False(t, mod.Enabled)
	assert.Equal(t, "hello", mod.Content["text"])
}

func TestNormalizeMalformedEntries(t *testing.T) {
	n := newTestNormalizer()
	s := n.Normalize(map[string]any{
		"pages": []any{
			"garbage",
			nil,
			map[string]any{"modules": []any{42, map[string]any{"type": "text"}}},
		},
	})

	require.Len(t, s.Pages, 1)
	page := s.Pages[0]
	assert.Equal(t, "page-2", page.ID)
	require.Len(t, page.Modules, 2)
	assert.Equal(t, "custom", page.Modules[0].Type)
	assert.Equal(t, "page-2-module-0", page.Modules[0].ID)
	assert.Equal(t, "page-2-module-1", page.Modules[1].ID)
	assert.Equal(t, "text", page.Modules[1].Type)
}

func TestNormalizeNeverFails(t *testing.T) {
	n := newTestNormalizer()
	for _, raw := range []any{nil, "string", 12, []any{1, 2}, map[string]any{"pages": "nope"}} {
		s := n.Normalize(raw)
		require.NotNil(t, s)
		require.Len(t, s.Pages, 1)
		assert.Equal(t, site.HomePageID, s.Pages[0].ID)
		assert.Equal(t, "base", s.StyleID)
	}
}

func TestNormalizeDuplicateIDs(t *testing.T) {
	n := newTestNormalizer()
	s := n.Normalize(map[string]any{
		"pages": []any{
			map[string]any{"id": "home", "modules": []any{
				map[string]any{"id": "hero"},
				map[string]any{"id": "hero"},
			}},
			map[string]any{"id": "home"},
		},
	})
	assert.Equal(t, []string{"home", "home-2"}, s.PageIDs())
	assert.Equal(t, "hero", s.Pages[0].Modules[0].ID)
	assert.Equal(t, "hero-2", s.Pages[0].Modules[1].ID)
}

func TestNormalizeKeepsModuleIDsMatchingPageIDs(t *testing.T) {
	n := newTestNormalizer()
	s := n.Normalize(map[string]any{
		"pages": []any{
			map[string]any{"id": "home", "modules": []any{
				map[string]any{"id": "home", "type": "hero"},
				map[string]any{"id": "about", "type": "text"},
			}},
			map[string]any{"id": "about"},
		},
	})
	assert.Equal(t, []string{"home", "about"}, s.PageIDs())
	assert.Equal(t, "home", s.Pages[0].Modules[0].ID)
	assert.Equal(t, "about", s.Pages[0].Modules[1].ID)
	assert.Equal(t, s, n.Normalize(s.Raw()))
}

func TestNormalizePinsHomeRoute(t *testing.T) {
	n := newTestNormalizer()
	s := n.Normalize(map[string]any{"pages": []any{
		map[string]any{"id": "about", "route": "/about"},
		map[string]any{"id": "contact"},
	}})
	assert.Equal(t, "/", s.Pages[0].Route)
	assert.Equal(t, "/contact", s.Pages[1].Route)
	assert.Equal(t, "about", s.HomePageID())

	routed := n.Normalize(map[string]any{"pages": []any{
		map[string]any{"id": "about"},
		map[string]any{"id": "landing", "route": "/"},
	}})
	assert.Equal(t, "/about", routed.Pages[0].Route)
	assert.Equal(t, "landing", routed.HomePageID())
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := newTestNormalizer()
	inputs := []any{
		map[string]any{
			"styleId":        "dark",
			"styleOverrides": map[string]any{"neutral": "#ccc", "bogus": "x"},
			"navigation":     map[string]any{"links": []any{"home"}},
			"pageOrder":      []any{"about", "ghost"},
			"pages": map[string]any{
				"home": map[string]any{"modules": []any{
					map[string]any{"type": "hero", "content": map[string]any{"layout": "wide", "items": []any{1, 2}}},
					"broken",
				}},
				"about": map[string]any{"title": "About us", "order": 0},
			},
		},
		nil,
		map[string]any{"pages": []any{map[string]any{"slug": "x", "modules": map[string]any{"m": map[string]any{"enabled": false}}}}},
	}

	for _, raw := range inputs {
		once := n.Normalize(raw)
		twice := n.Normalize(once.Raw())
		assert.Equal(t, once, twice)
		assert.Equal(t, once, n.Normalize(once))
	}
}

func TestNormalizePageOrder(t *testing.T) {
	n := newTestNormalizer()
	s := n.Normalize(map[string]any{
		"pageOrder": []any{"b", "ghost", "b", 3},
		"pages": []any{
			map[string]any{"id": "a"},
			map[string]any{"id": "b"},
			map[string]any{"id": "c"},
		},
	})
	assert.Equal(t, []string{"b", "a", "c"}, s.PageOrder)
}

func TestNormalizeJSON(t *testing.T) {
	n := newTestNormalizer()
	s, err := n.NormalizeJSON([]byte(`{"pages":[{"id":"home","modules":[{"id":"m","content":{"count":3}}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, float64(3), s.Pages[0].Modules[0].Content["count"])

	_, err = n.NormalizeJSON([]byte(`{`))
	assert.Error(t, err)
}
