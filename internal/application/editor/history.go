package editor

import (
	"fmt"
	"strings"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

// Mode selects one of the two independent history stacks.
type Mode int

const (
	// ModeStructure records page/module membership changes.
	ModeStructure Mode = iota
	// ModeDetail records content, property, collection and style edits.
	ModeDetail
)

func (m Mode) String() string {
	if m == ModeDetail {
		return "detail"
	}
	return "structure"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, ok := ParseMode(string(text))
	if !ok {
		return fmt.Errorf("unknown history mode %q", string(text))
	}
	*m = mode
	return nil
}

// ParseMode accepts "structure" (or "structural") and "detail".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "structure", "structural":
		return ModeStructure, true
	case "detail":
		return ModeDetail, true
	}
	return ModeStructure, false
}

// historyStack is a bounded undo stack plus its redo stack. The oldest past
// entry is evicted once capacity is exceeded.
type historyStack struct {
	past     []site.HistoryEntry
	future   []site.HistoryEntry
	capacity int
}

func newHistoryStack(capacity int) *historyStack {
	if capacity < 1 {
		capacity = 1
	}
	return &historyStack{capacity: capacity}
}

// record pushes a new edit. Any redo history is invalidated.
func (h *historyStack) record(entry site.HistoryEntry) {
	h.pushPast(entry)
	h.future = nil
}

func (h *historyStack) pushPast(entry site.HistoryEntry) {
	h.past = append(h.past, entry)
	if over := len(h.past) - h.capacity; over > 0 {
		h.past = append([]site.HistoryEntry(nil), h.past[over:]...)
	}
}

func (h *historyStack) popPast() (site.HistoryEntry, bool) {
	if len(h.past) == 0 {
		return site.HistoryEntry{}, false
	}
	entry := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return entry, true
}

func (h *historyStack) popFuture() (site.HistoryEntry, bool) {
	if len(h.future) == 0 {
		return site.HistoryEntry{}, false
	}
	entry := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return entry, true
}

func (h *historyStack) clear() {
	h.past = nil
	h.future = nil
}

// HistoryView is a read-only summary of one stack, oldest entry first.
type HistoryView struct {
	Mode     Mode              `json:"mode"`
	Capacity int               `json:"capacity"`
	Past     []site.ChangeMeta `json:"past"`
	Future   []site.ChangeMeta `json:"future"`
}

func (h *historyStack) view(mode Mode) HistoryView {
	v := HistoryView{
		Mode:     mode,
		Capacity: h.capacity,
		Past:     make([]site.ChangeMeta, len(h.past)),
		Future:   make([]site.ChangeMeta, len(h.future)),
	}
	for i, e := range h.past {
		v.Past[i] = e.Meta.Clone()
	}
	for i, e := range h.future {
		v.Future[i] = e.Meta.Clone()
	}
	return v
}

func (e *Editor) stack(mode Mode) *historyStack {
	if mode == ModeDetail {
		return e.detail
	}
	return e.structure
}

// commit installs the next document. Outside a transaction the previous state
// is recorded on the mode's stack; inside one, the metadata of every mutation
// is folded into the transaction whatever its mode.
func (e *Editor) commit(mode Mode, meta site.ChangeMeta, next *site.Site, sel selection) {
	meta = e.stampMeta(meta)

	if e.tx.active {
		e.tx.accumulate(meta)
	} else {
		e.stack(mode).record(site.HistoryEntry{State: e.snapshot(), Meta: meta})
	}

	e.site = next
	e.entryPointPageID = sel.entryPointPageID
	e.selectedPageID = sel.pageID
	e.selectedModuleID = sel.moduleID
	e.hasUnsavedChanges = true

	e.logger.Debug("Mutation committed",
		"mode", mode.String(),
		"actionType", meta.ActionType,
		"changesCount", meta.ChangesCount,
		"inTransaction", e.tx.active)
	e.emit(ChangeEvent{Kind: ChangeMutation, Mode: mode, Meta: meta})
}

func (e *Editor) stampMeta(meta site.ChangeMeta) site.ChangeMeta {
	meta = meta.Clone()
	if meta.Timestamp.IsZero() {
		meta.Timestamp = e.now()
	}
	if meta.Source == "" {
		meta.Source = site.SourceUser
		if e.tx.active {
			meta.Source = site.SourceAI
		}
	}
	if meta.ConversationID == "" && e.tx.active {
		meta.ConversationID = e.tx.conversationID
	}
	if meta.ChangesCount <= 0 {
		meta.ChangesCount = 1
	}
	return meta
}

// Undo reverts the most recent entry of the stack. Any open transaction is
// dropped without rollback.
func (e *Editor) Undo(mode Mode) bool {
	st := e.stack(mode)
	entry, ok := st.popPast()
	if !ok {
		return false
	}

	st.future = append(st.future, site.HistoryEntry{State: e.snapshot(), Meta: entry.Meta})
	e.restore(entry.State)
	e.tx.reset()
	e.hasUnsavedChanges = true

	e.logger.Info("Undo applied", "mode", mode.String(), "actionType", entry.Meta.ActionType)
	e.emit(ChangeEvent{Kind: ChangeUndo, Mode: mode, Meta: entry.Meta.Clone()})
	return true
}

// Redo re-applies the most recently undone entry of the stack.
func (e *Editor) Redo(mode Mode) bool {
	st := e.stack(mode)
	entry, ok := st.popFuture()
	if !ok {
		return false
	}

	st.pushPast(site.HistoryEntry{State: e.snapshot(), Meta: entry.Meta})
	e.restore(entry.State)
	e.tx.reset()
	e.hasUnsavedChanges = true

	e.logger.Info("Redo applied", "mode", mode.String(), "actionType", entry.Meta.ActionType)
	e.emit(ChangeEvent{Kind: ChangeRedo, Mode: mode, Meta: entry.Meta.Clone()})
	return true
}

func (e *Editor) CanUndo(mode Mode) bool { return len(e.stack(mode).past) > 0 }

func (e *Editor) CanRedo(mode Mode) bool { return len(e.stack(mode).future) > 0 }

// History returns the metadata of a stack.
func (e *Editor) History(mode Mode) HistoryView {
	return e.stack(mode).view(mode)
}
