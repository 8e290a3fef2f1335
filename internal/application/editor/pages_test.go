package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPage(t *testing.T) {
	e := newTestEditor(t)

	id := e.AddPage(NewPage{Name: "About Us"})
	require.Equal(t, "about-us", id)
	page := e.Site().FindPage(id)
	require.NotNil(t, page)
	assert.Equal(t, "/about-us", page.Route)
	assert.Equal(t, 1, page.Order)
	assert.Empty(t, page.Modules)
	assert.Equal(t, id, e.SelectedPageID())
	assert.Empty(t, e.SelectedModuleID())
	assert.Equal(t, []string{"home", "about-us"}, e.Site().PageOrder)

	again := e.AddPage(NewPage{Name: "About Us"})
	assert.Equal(t, "about-us-2", again)
	assert.Equal(t, "/about-us-2", e.Site().FindPage(again).Route)

	assert.Empty(t, e.AddPage(NewPage{ID: "home", Name: "Clash"}))

	custom := e.AddPage(NewPage{ID: "pricing", Name: "Pricing", Route: "plans"})
	assert.Equal(t, "pricing", custom)
	assert.Equal(t, "/plans", e.Site().FindPage(custom).Route)

	assert.Len(t, e.History(ModeStructure).Past, 3)
}

func TestHomePageProtection(t *testing.T) {
	e := newTestEditor(t)
	assert.False(t, e.RemovePage("home"))
	assert.False(t, e.RemovePage("missing"))

	require.NotEmpty(t, e.AddPage(NewPage{ID: "about", Name: "About"}))
	assert.False(t, e.RemovePage("home"))
	assert.Len(t, e.Site().Pages, 2)

	require.True(t, e.RemovePage("about"))
	assert.Equal(t, []string{"home"}, e.Site().PageIDs())
	assert.False(t, e.RemovePage("home"))
}

func TestHomePageSurvivesReorder(t *testing.T) {
	e := New(Options{})
	e.Load(LoadInput{Site: map[string]any{"pages": []any{
		map[string]any{"id": "about"},
		map[string]any{"id": "contact"},
	}}})

	assert.Equal(t, "/", e.Site().FindPage("about").Route)
	assert.False(t, e.RemovePage("about"))

	require.True(t, e.ReorderPages([]string{"contact", "about"}))
	assert.False(t, e.RemovePage("about"))
	assert.False(t, e.UpdatePageRoute("about", "/about"))
	assert.True(t, e.RemovePage("contact"))
}

func TestRemovePageRetargetsEntryPoint(t *testing.T) {
	e := newTestEditor(t)
	require.NotEmpty(t, e.AddPage(NewPage{ID: "about", Name: "About"}))
	require.True(t, e.SetEntryPoint("about"))
	assert.False(t, e.SetEntryPoint("about"))
	assert.False(t, e.SetEntryPoint("ghost"))

	require.True(t, e.RemovePage("about"))
	assert.Equal(t, "home", e.EntryPointPageID())
	assert.Equal(t, "home", e.SelectedPageID())

	require.True(t, e.Undo(ModeStructure))
	assert.Equal(t, "about", e.EntryPointPageID())

	past := e.History(ModeStructure).Past
	require.NotEmpty(t, past)
	assert.Equal(t, "setEntryPoint", past[len(past)-1].ActionType)
}

func TestRenamePage(t *testing.T) {
	e := newTestEditor(t)
	assert.False(t, e.RenamePage("home", "   "))
	assert.False(t, e.RenamePage("home", " Home "))
	assert.False(t, e.RenamePage("ghost", "Ghost"))

	require.True(t, e.RenamePage("home", "  Landing "))
	assert.Equal(t, "Landing", e.Site().FindPage("home").Name)
	assert.Len(t, e.History(ModeStructure).Past, 1)
}

func TestUpdatePageRoute(t *testing.T) {
	e := newTestEditor(t)
	require.NotEmpty(t, e.AddPage(NewPage{ID: "about", Name: "About"}))

	assert.False(t, e.UpdatePageRoute("about", "/"))
	assert.False(t, e.UpdatePageRoute("about", "/about"))
	assert.False(t, e.UpdatePageRoute("about", ""))

	require.True(t, e.UpdatePageRoute("about", "company"))
	assert.Equal(t, "/company", e.Site().FindPage("about").Route)
}

func TestReorderPages(t *testing.T) {
	e := newTestEditor(t)
	require.NotEmpty(t, e.AddPage(NewPage{ID: "about", Name: "About"}))
	require.NotEmpty(t, e.AddPage(NewPage{ID: "blog", Name: "Blog"}))

	assert.False(t, e.ReorderPages([]string{"home", "about", "blog"}))
	assert.False(t, e.ReorderPages([]string{"home"}))

	require.True(t, e.ReorderPages([]string{"blog", "ghost", "blog"}))
	s := e.Site()
	assert.Equal(t, []string{"blog", "home", "about"}, s.PageIDs())
	assert.Equal(t, []string{"blog", "home", "about"}, s.PageOrder)
	for i, p := range s.Pages {
		assert.Equal(t, i, p.Order)
	}
	// the home page keeps its protection wherever it sits
	assert.False(t, e.RemovePage("home"))
}
