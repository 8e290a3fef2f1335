package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSite() *Site {
	layout := "split"
	return &Site{
		StyleID:        "modern",
		StyleOverrides: Style{"primary": "#ff0000"},
		Style:          Style{"primary": "#ff0000"},
		Navigation:     Content{"items": []any{"home"}},
		Pages: []Page{
			{ID: "home", Name: "Home", Route: "/", Modules: []Module{
				{ID: "hero", Type: "hero", Layout: &layout, Enabled: true, Content: Content{
					"title":  "Welcome",
					"images": []any{map[string]any{"src": "a.png"}},
				}},
			}},
			{ID: "about", Name: "About", Route: "/about", Order: 1},
		},
		PageOrder: []string{"home", "about"},
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := sampleSite()
	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Pages[0].Modules[0].Content["title"] = "Changed"
	clone.Pages[0].Modules[0].Content["images"].([]any)[0].(map[string]any)["src"] = "b.png"
	*clone.Pages[0].Modules[0].Layout = "stacked"
	clone.Navigation["items"] = nil
	clone.StyleOverrides["primary"] = "#000"

	assert.Equal(t, "Welcome", original.Pages[0].Modules[0].Content["title"])
	assert.Equal(t, "a.png", original.Pages[0].Modules[0].Content["images"].([]any)[0].(map[string]any)["src"])
	assert.Equal(t, "split", original.Pages[0].Modules[0].LayoutValue())
	assert.Equal(t, []any{"home"}, original.Navigation["items"])
	assert.Equal(t, "#ff0000", original.StyleOverrides["primary"])
}

func TestCanonical(t *testing.T) {
	got := Canonical(map[string]any{
		"count":  3,
		"tags":   []string{"a", "b"},
		"nested": map[string]int{"x": 1},
		"ptr":    (*string)(nil),
	})
	assert.Equal(t, map[string]any{
		"count":  float64(3),
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"x": float64(1)},
		"ptr":    nil,
	}, got)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(1, 1.0))
	assert.True(t, Equal([]string{"a"}, []any{"a"}))
	assert.False(t, Equal(map[string]any{"a": 1}, map[string]any{"a": 2}))
	assert.False(t, Equal("1", 1))
}

func TestHomePageID(t *testing.T) {
	s := sampleSite()
	assert.Equal(t, "home", s.HomePageID())

	s.Pages[0].ID = "landing"
	assert.Equal(t, "landing", s.HomePageID(), "route / wins when no page is called home")

	s.Pages[0].Route = "/landing"
	assert.Equal(t, "landing", s.HomePageID(), "first page is the fallback")

	assert.Equal(t, "", (&Site{}).HomePageID())
}

func TestLocateModule(t *testing.T) {
	s := sampleSite()
	pi, mi, ok := s.LocateModule("hero")
	require.True(t, ok)
	assert.Equal(t, 0, pi)
	assert.Equal(t, 0, mi)

	_, _, ok = s.LocateModule("missing")
	assert.False(t, ok)
	assert.True(t, s.HasID("about"))
	assert.True(t, s.HasRoute("/about"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "about-us", Slugify("  About Us! "))
	assert.Equal(t, "café-menu", Slugify("Café menu"))
	assert.Equal(t, "", Slugify("***"))
	assert.Equal(t, "team-2024", Slugify("Team -- 2024"))
}

func TestRawRoundTripShape(t *testing.T) {
	raw := sampleSite().Raw()
	pages := raw["pages"].([]any)
	require.Len(t, pages, 2)
	module := pages[0].(map[string]any)["modules"].([]any)[0].(map[string]any)
	assert.Equal(t, "split", module["layout"])
	assert.Equal(t, float64(0), module["order"])
	assert.Equal(t, []any{"home", "about"}, raw["pageOrder"])
}
