package editor

import (
	"reflect"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

// TransactionOptions opens an assisted-edit transaction.
type TransactionOptions struct {
	Mode           Mode   `json:"mode"`
	ConversationID string `json:"conversationId"`
	Description    string `json:"description"`
}

// EndOptions closes a transaction. Zero values fall back to what the
// transaction accumulated.
type EndOptions struct {
	Description     string   `json:"description"`
	AffectedModules []string `json:"affectedModules"`
	ChangesCount    int      `json:"changesCount"`
	ActionType      string   `json:"actionType"`
}

// TransactionView is the read-only state of the transaction.
type TransactionView struct {
	Active          bool     `json:"active"`
	Mode            Mode     `json:"mode"`
	ConversationID  string   `json:"conversationId,omitempty"`
	Description     string   `json:"description,omitempty"`
	AffectedModules []string `json:"affectedModules"`
	ChangesCount    int      `json:"changesCount"`
	LastActionType  string   `json:"lastActionType,omitempty"`
}

type transaction struct {
	active         bool
	mode           Mode
	conversationID string
	description    string
	start          *site.Snapshot
	startUnsaved   bool
	affected       []string
	affectedSet    map[string]bool
	changesCount   int
	lastActionType string
}

func (t *transaction) reset() {
	*t = transaction{}
}

func (t *transaction) addAffected(ids []string) {
	if t.affectedSet == nil {
		t.affectedSet = map[string]bool{}
	}
	for _, id := range ids {
		if id == "" || t.affectedSet[id] {
			continue
		}
		t.affectedSet[id] = true
		t.affected = append(t.affected, id)
	}
}

// accumulate folds one change into the transaction: affected modules are
// unioned, counts summed, description and action type replaced.
func (t *transaction) accumulate(meta site.ChangeMeta) {
	t.addAffected(meta.AffectedModules)
	t.changesCount += meta.ChangesCount
	if meta.Description != "" {
		t.description = meta.Description
	}
	if meta.ActionType != "" {
		t.lastActionType = meta.ActionType
	}
}

// StartTransaction opens a transaction. A second start while one is active is
// refused.
func (e *Editor) StartTransaction(opts TransactionOptions) bool {
	if e.tx.active {
		e.logger.Warn("Transaction already active, start ignored",
			"activeConversationId", e.tx.conversationID,
			"conversationId", opts.ConversationID)
		return false
	}

	start := e.snapshot()
	e.tx = transaction{
		active:         true,
		mode:           opts.Mode,
		conversationID: opts.ConversationID,
		description:    opts.Description,
		start:          &start,
		startUnsaved:   e.hasUnsavedChanges,
	}
	e.logger.Info("Transaction started",
		"mode", opts.Mode.String(),
		"conversationId", opts.ConversationID)
	return true
}

// RegisterChange records metadata for work done outside the mutation methods.
func (e *Editor) RegisterChange(meta site.ChangeMeta) bool {
	if !e.tx.active {
		return false
	}
	e.tx.accumulate(meta)
	return true
}

// EndTransaction closes the transaction and records at most one history entry
// spanning the whole transaction. It reports whether an entry was recorded.
func (e *Editor) EndTransaction(opts EndOptions) bool {
	if !e.tx.active || e.tx.start == nil {
		return false
	}
	tx := e.tx
	defer e.tx.reset()

	tx.addAffected(opts.AffectedModules)
	count := opts.ChangesCount
	if count <= 0 {
		count = tx.changesCount
	}

	changed := count > 0 || !sameDocument(tx.start, e.snapshot())
	if !changed {
		e.logger.Info("Transaction ended without changes", "conversationId", tx.conversationID)
		return false
	}
	if count <= 0 {
		count = 1
	}

	meta := site.ChangeMeta{
		Timestamp:       e.now(),
		Source:          site.SourceAI,
		ActionType:      firstNonEmpty(opts.ActionType, tx.lastActionType, "aiTransaction"),
		Description:     firstNonEmpty(opts.Description, tx.description, "Assisted edit"),
		ConversationID:  tx.conversationID,
		AffectedModules: append([]string{}, tx.affected...),
		ChangesCount:    count,
	}
	e.stack(tx.mode).record(site.HistoryEntry{State: *tx.start, Meta: meta})

	e.logger.Info("Transaction committed",
		"mode", tx.mode.String(),
		"conversationId", tx.conversationID,
		"changesCount", count,
		"affectedModules", len(meta.AffectedModules))
	e.emit(ChangeEvent{Kind: ChangeTransactionCommit, Mode: tx.mode, Meta: meta.Clone()})
	return true
}

// CancelTransaction rolls the document back to the transaction's start and
// records nothing.
func (e *Editor) CancelTransaction() bool {
	if !e.tx.active || e.tx.start == nil {
		return false
	}
	tx := e.tx
	e.tx.reset()

	e.restore(*tx.start)
	e.hasUnsavedChanges = tx.startUnsaved

	e.logger.Info("Transaction cancelled",
		"conversationId", tx.conversationID,
		"discardedChanges", tx.changesCount)
	e.emit(ChangeEvent{Kind: ChangeTransactionCancel, Mode: tx.mode, Meta: site.ChangeMeta{
		Timestamp:       e.now(),
		Source:          site.SourceAI,
		ActionType:      "cancelTransaction",
		Description:     tx.description,
		ConversationID:  tx.conversationID,
		AffectedModules: append([]string{}, tx.affected...),
		ChangesCount:    tx.changesCount,
	}})
	return true
}

// Transaction returns the state of the current transaction.
func (e *Editor) Transaction() TransactionView {
	return TransactionView{
		Active:          e.tx.active,
		Mode:            e.tx.mode,
		ConversationID:  e.tx.conversationID,
		Description:     e.tx.description,
		AffectedModules: append([]string{}, e.tx.affected...),
		ChangesCount:    e.tx.changesCount,
		LastActionType:  e.tx.lastActionType,
	}
}

func sameDocument(a *site.Snapshot, b site.Snapshot) bool {
	return a.EntryPointPageID == b.EntryPointPageID && reflect.DeepEqual(a.Site, b.Site)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
