package editor

import (
	"testing"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/styling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStyleOverrides(t *testing.T) {
	e := newTestEditor(t)
	require.Equal(t, styling.DefaultPresetID, e.Site().StyleID)

	require.True(t, e.UpdateStyleOverrides(map[string]any{"neutral": "#111111", "bogus": "x"}))
	s := e.Site()
	assert.Equal(t, site.Style{"neutral": "#111111"}, s.StyleOverrides)
	for _, key := range []string{"page", "surface", "background"} {
		assert.Equal(t, "#111111", s.Style[key], key)
	}

	assert.False(t, e.UpdateStyleOverrides(map[string]any{"neutral": "#111111"}))
	assert.False(t, e.UpdateStyleOverrides(map[string]any{"bogus": "y"}))
	assert.False(t, e.UpdateStyleOverrides(nil))

	require.True(t, e.UpdateStyleOverrides(map[string]any{"neutral": nil}))
	s = e.Site()
	assert.Empty(t, s.StyleOverrides)
	assert.Equal(t, e.resolver.Compose(s.StyleID, nil), s.Style)

	assert.Len(t, e.History(ModeDetail).Past, 2)
}

func TestSetStyleID(t *testing.T) {
	e := newTestEditor(t)
	require.True(t, e.UpdateStyleOverrides(map[string]any{"primary": "#123456"}))

	assert.False(t, e.SetStyleID("unknown", SetStyleOptions{}), "unknown ids resolve to the current default")

	require.True(t, e.SetStyleID("midnight", SetStyleOptions{}))
	s := e.Site()
	assert.Equal(t, "midnight", s.StyleID)
	assert.Equal(t, "#123456", s.Style["primary"])

	require.True(t, e.SetStyleID("midnight", SetStyleOptions{ResetOverrides: true}))
	s = e.Site()
	assert.Empty(t, s.StyleOverrides)
	preset, ok := styling.NewCatalog().Preset("midnight")
	require.True(t, ok)
	assert.Equal(t, preset, s.Style)

	require.True(t, e.SetStyleID("classic", SetStyleOptions{
		ResetOverrides: true,
		Overrides:      map[string]any{"secondary": "#abcdef"},
	}))
	s = e.Site()
	assert.Equal(t, "#abcdef", s.Style["secondary"])
	assert.Equal(t, "#abcdef", s.Style["grey"])

	require.True(t, e.Undo(ModeDetail))
	assert.Equal(t, "midnight", e.Site().StyleID)
}

func TestUpdateNavigation(t *testing.T) {
	e := newTestEditor(t)
	require.True(t, e.UpdateNavigation(map[string]any{
		"links": []any{map[string]any{"label": "Home", "pageId": "home"}},
		"logo":  "logo.svg",
	}))
	assert.False(t, e.UpdateNavigation(map[string]any{"logo": "logo.svg"}))
	assert.False(t, e.UpdateNavigation(nil))

	nav := e.Site().Navigation
	assert.Equal(t, "logo.svg", nav["logo"])
	assert.Len(t, nav["links"], 1)

	past := e.History(ModeDetail).Past
	require.Len(t, past, 1)
	assert.Equal(t, "Updated navigation links, logo", past[0].Description)
	assert.Equal(t, 2, past[0].ChangesCount)
}
