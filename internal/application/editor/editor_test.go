package editor

import (
	"fmt"
	"testing"
	"time"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sequentialIDs() IDGenerator {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// newTestEditor returns an editor holding a single home page with one hero
// module.
func newTestEditor(t *testing.T, opts ...func(*Options)) *Editor {
	t.Helper()
	o := Options{
		IDGenerator: sequentialIDs(),
		Clock:       func() time.Time { return testNow },
	}
	for _, fn := range opts {
		fn(&o)
	}
	e := New(o)
	e.Load(LoadInput{Site: map[string]any{
		"pages": []any{
			map[string]any{"id": "home", "name": "Home", "modules": []any{
				map[string]any{"id": "hero", "type": "hero", "content": map[string]any{"title": "Welcome"}},
			}},
		},
	}})
	return e
}

func TestNewEditorHasOnePage(t *testing.T) {
	e := New(Options{})
	s := e.Site()
	require.Len(t, s.Pages, 1)
	assert.Equal(t, site.HomePageID, e.EntryPointPageID())
	assert.Equal(t, site.HomePageID, e.SelectedPageID())
	assert.False(t, e.HasUnsavedChanges())
}

func TestLoadResetsState(t *testing.T) {
	e := newTestEditor(t)
	require.NotEmpty(t, e.AddPage(NewPage{Name: "About"}))
	require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "Hi"}))
	require.True(t, e.StartTransaction(TransactionOptions{Mode: ModeDetail}))

	saved := testNow.Add(-time.Hour)
	e.Load(LoadInput{
		Site:                 map[string]any{"pages": []any{map[string]any{"id": "landing"}, map[string]any{"id": "docs"}}},
		EntryPointPageID:     "docs",
		CurrentVersionNumber: 4,
		LastSavedAt:          &saved,
		UserLibrary:          []any{map[string]any{"type": "hero"}},
	})

	state := e.State()
	assert.Equal(t, []string{"landing", "docs"}, state.Site.PageIDs())
	assert.Equal(t, "docs", state.EntryPointPageID)
	assert.Equal(t, "docs", state.SelectedPageID)
	assert.Empty(t, state.SelectedModuleID)
	assert.False(t, state.HasUnsavedChanges)
	assert.Equal(t, 4, state.CurrentVersionNumber)
	require.NotNil(t, state.LastSavedAt)
	assert.True(t, saved.Equal(*state.LastSavedAt))
	assert.Len(t, state.UserLibrary, 1)
	assert.Equal(t, StackSummary{}, state.StructureHistory)
	assert.Equal(t, StackSummary{}, state.DetailHistory)
	assert.False(t, state.Transaction.Active)
}

func TestLoadFallsBackToHomeEntryPoint(t *testing.T) {
	e := New(Options{})
	e.Load(LoadInput{
		Site:             map[string]any{"pages": []any{map[string]any{"id": "a"}, map[string]any{"id": "b", "route": "/"}}},
		EntryPointPageID: "missing",
	})
	assert.Equal(t, "b", e.EntryPointPageID())
}

func TestMarkAsSaved(t *testing.T) {
	var events []ChangeEvent
	e := newTestEditor(t, func(o *Options) {
		o.OnChange = func(ev ChangeEvent) { events = append(events, ev) }
	})
	require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "Hi"}))
	require.True(t, e.HasUnsavedChanges())

	e.MarkAsSaved(VersionInfo{VersionNumber: 7})
	state := e.State()
	assert.False(t, state.HasUnsavedChanges)
	assert.Equal(t, 7, state.CurrentVersionNumber)
	require.NotNil(t, state.LastSavedAt)
	assert.Equal(t, testNow, *state.LastSavedAt)

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, ChangeSaved, last.Kind)
	assert.False(t, last.HasUnsavedChanges)
}

func TestStateIsDeepCopy(t *testing.T) {
	e := newTestEditor(t)
	state := e.State()
	state.Site.Pages[0].Modules[0].Content["title"] = "mutated"
	state.Site.Pages[0].Name = "mutated"

	page, ok := e.SelectedPage()
	require.True(t, ok)
	assert.Equal(t, "Home", page.Name)
	assert.Equal(t, "Welcome", e.PageModules("home")[0].Content["title"])
}

func TestAccessors(t *testing.T) {
	e := newTestEditor(t)

	_, ok := e.SelectedModule()
	assert.False(t, ok)

	require.True(t, e.SelectModule("hero"))
	mod, ok := e.SelectedModule()
	require.True(t, ok)
	assert.Equal(t, "hero", mod.Type)
	assert.False(t, e.SelectModule("hero"))
	assert.False(t, e.SelectModule("ghost"))

	assert.Nil(t, e.PageModules("ghost"))

	assert.True(t, e.SetModuleHeight("hero", 320))
	assert.False(t, e.SetModuleHeight("ghost", 10))
	assert.False(t, e.SetModuleHeight("hero", -1))
	h, ok := e.ModuleHeight("hero")
	assert.True(t, ok)
	assert.Equal(t, 320, h)

	// selection and measurements are not edits
	assert.False(t, e.HasUnsavedChanges())
	assert.False(t, e.CanUndo(ModeStructure))
	assert.False(t, e.CanUndo(ModeDetail))
}

func TestChangeEventsSkipNoOps(t *testing.T) {
	var events []ChangeEvent
	e := newTestEditor(t)
	e.SetOnChange(func(ev ChangeEvent) { events = append(events, ev) })

	assert.False(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "Welcome"}))
	assert.False(t, e.RenamePage("home", "Home"))
	assert.False(t, e.Undo(ModeDetail))
	assert.Empty(t, events)

	require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "Hi"}))
	require.True(t, e.Undo(ModeDetail))
	require.Len(t, events, 2)
	assert.Equal(t, ChangeMutation, events[0].Kind)
	assert.Equal(t, ModeDetail, events[0].Mode)
	assert.Equal(t, "updateModuleContent", events[0].Meta.ActionType)
	assert.Equal(t, ChangeUndo, events[1].Kind)
}

func TestExampleScenario(t *testing.T) {
	e := newTestEditor(t)

	id := e.AddModule("home", NewModule{Type: "gallery", Content: map[string]any{}})
	require.NotEmpty(t, id)
	assert.Len(t, e.PageModules("home"), 2)
	assert.Equal(t, id, e.SelectedModuleID())
	assert.Len(t, e.History(ModeStructure).Past, 1)

	require.True(t, e.Undo(ModeStructure))
	assert.Len(t, e.PageModules("home"), 1)
	assert.Len(t, e.History(ModeStructure).Future, 1)

	require.True(t, e.Redo(ModeStructure))
	mods := e.PageModules("home")
	require.Len(t, mods, 2)
	assert.Equal(t, []string{"hero", id}, moduleIDs(mods))
}
