package editor

import (
	"fmt"
	"testing"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionAtomicity(t *testing.T) {
	var events []ChangeEvent
	e := newTestEditor(t, func(o *Options) {
		o.OnChange = func(ev ChangeEvent) { events = append(events, ev) }
	})
	require.True(t, e.StartTransaction(TransactionOptions{
		Mode:           ModeDetail,
		ConversationID: "conv-1",
		Description:    "Make the hero punchier",
	}))

	for i := 0; i < 5; i++ {
		require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": fmt.Sprintf("Title %d", i)}))
	}
	assert.Empty(t, e.History(ModeDetail).Past)

	view := e.Transaction()
	assert.True(t, view.Active)
	assert.Equal(t, 5, view.ChangesCount)
	assert.Equal(t, []string{"hero"}, view.AffectedModules)

	require.True(t, e.EndTransaction(EndOptions{}))
	assert.False(t, e.Transaction().Active)

	past := e.History(ModeDetail).Past
	require.Len(t, past, 1)
	meta := past[0]
	assert.Equal(t, site.SourceAI, meta.Source)
	assert.Equal(t, "conv-1", meta.ConversationID)
	assert.Equal(t, 5, meta.ChangesCount)
	assert.Equal(t, []string{"hero"}, meta.AffectedModules)
	assert.Equal(t, "updateModuleContent", meta.ActionType)

	require.True(t, e.Undo(ModeDetail))
	assert.Equal(t, "Welcome", e.PageModules("home")[0].Content["title"])
	assert.False(t, e.CanUndo(ModeDetail))

	kinds := make([]ChangeKind, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, ChangeTransactionCommit)
	for _, ev := range events {
		if ev.Kind == ChangeMutation {
			assert.Equal(t, site.SourceAI, ev.Meta.Source)
		}
	}
}

func TestTransactionCancellation(t *testing.T) {
	e := newTestEditor(t)
	before := e.Site()

	require.True(t, e.StartTransaction(TransactionOptions{Mode: ModeDetail}))
	require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "Draft"}))
	require.True(t, e.AddCollectionItem("home", "hero", "items", map[string]any{"label": "one"}))
	require.True(t, e.UpdateStyleOverrides(map[string]any{"accent": "#00ff00"}))
	require.True(t, e.HasUnsavedChanges())

	require.True(t, e.CancelTransaction())
	assert.Equal(t, before, e.Site())
	assert.Empty(t, e.History(ModeDetail).Past)
	assert.Empty(t, e.History(ModeStructure).Past)
	assert.False(t, e.HasUnsavedChanges())
	assert.False(t, e.Transaction().Active)

	assert.False(t, e.CancelTransaction())
}

func TestTransactionRefusesReentry(t *testing.T) {
	e := newTestEditor(t)
	require.True(t, e.StartTransaction(TransactionOptions{Mode: ModeDetail, ConversationID: "first"}))
	assert.False(t, e.StartTransaction(TransactionOptions{Mode: ModeStructure, ConversationID: "second"}))
	assert.Equal(t, "first", e.Transaction().ConversationID)
	assert.Equal(t, ModeDetail, e.Transaction().Mode)
}

func TestEndTransactionWithoutChanges(t *testing.T) {
	e := newTestEditor(t)
	assert.False(t, e.EndTransaction(EndOptions{}))

	require.True(t, e.StartTransaction(TransactionOptions{Mode: ModeDetail}))
	assert.False(t, e.EndTransaction(EndOptions{}))
	assert.False(t, e.Transaction().Active)
	assert.Empty(t, e.History(ModeDetail).Past)
}

func TestEndTransactionExplicitCount(t *testing.T) {
	e := newTestEditor(t)
	require.True(t, e.StartTransaction(TransactionOptions{Mode: ModeStructure, ConversationID: "c"}))
	assert.True(t, e.RegisterChange(site.ChangeMeta{ActionType: "aiPlan", AffectedModules: []string{"hero"}}))

	require.True(t, e.EndTransaction(EndOptions{
		Description:     "Planned layout",
		AffectedModules: []string{"hero", "gallery"},
		ChangesCount:    3,
	}))
	past := e.History(ModeStructure).Past
	require.Len(t, past, 1)
	assert.Equal(t, "Planned layout", past[0].Description)
	assert.Equal(t, "aiPlan", past[0].ActionType)
	assert.Equal(t, 3, past[0].ChangesCount)
	assert.Equal(t, []string{"hero", "gallery"}, past[0].AffectedModules)

	assert.False(t, e.RegisterChange(site.ChangeMeta{ActionType: "late"}))
}

func TestEndTransactionDetectsNetChange(t *testing.T) {
	e := newTestEditor(t)
	require.True(t, e.StartTransaction(TransactionOptions{Mode: ModeDetail, Description: "Retitle"}))
	require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "Other"}))
	require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "Welcome"}))

	// two recorded changes, so an entry is pushed even though the document is back where it started
	require.True(t, e.EndTransaction(EndOptions{}))
	assert.Len(t, e.History(ModeDetail).Past, 1)
	assert.Equal(t, "Retitle", e.History(ModeDetail).Past[0].Description)
}

func TestTransactionFoldsMutationsOfEitherMode(t *testing.T) {
	e := newTestEditor(t)
	require.True(t, e.StartTransaction(TransactionOptions{Mode: ModeDetail, ConversationID: "c"}))
	require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "AI draft"}))
	id := e.AddModule("home", NewModule{Type: "gallery"})
	require.NotEmpty(t, id)

	assert.Empty(t, e.History(ModeStructure).Past)
	assert.Equal(t, 2, e.Transaction().ChangesCount)

	require.True(t, e.EndTransaction(EndOptions{}))
	assert.Empty(t, e.History(ModeStructure).Past)
	past := e.History(ModeDetail).Past
	require.Len(t, past, 1)
	assert.Equal(t, "c", past[0].ConversationID)

	require.True(t, e.Undo(ModeDetail))
	assert.Len(t, e.PageModules("home"), 1)
	assert.Equal(t, "Welcome", e.PageModules("home")[0].Content["title"])
}

func TestCancelDiscardsMutationsOfEitherMode(t *testing.T) {
	e := newTestEditor(t)
	before := e.Site()
	require.True(t, e.StartTransaction(TransactionOptions{Mode: ModeDetail}))
	require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "AI draft"}))
	require.NotEmpty(t, e.AddModule("home", NewModule{Type: "gallery"}))

	require.True(t, e.CancelTransaction())
	assert.Equal(t, before, e.Site())
	assert.Empty(t, e.History(ModeStructure).Past)
	assert.Empty(t, e.History(ModeDetail).Past)
	assert.False(t, e.Undo(ModeStructure))
	assert.Equal(t, before, e.Site())
}

func TestUndoResetsTransaction(t *testing.T) {
	e := newTestEditor(t)
	require.NotEmpty(t, e.AddPage(NewPage{Name: "About"}))
	require.True(t, e.StartTransaction(TransactionOptions{Mode: ModeDetail}))
	require.True(t, e.UpdateModuleContent("home", "hero", map[string]any{"title": "Draft"}))

	require.True(t, e.Undo(ModeStructure))
	assert.False(t, e.Transaction().Active)
	assert.False(t, e.EndTransaction(EndOptions{}))
}
