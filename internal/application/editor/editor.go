// Package editor implements the studio's document engine: the live site, the
// mutation operations, two bounded undo/redo stacks and assisted-edit
// transactions. An Editor is not safe for concurrent use; the host serializes
// calls.
package editor

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
	"github.com/AtRiskMedia/tractstack-studio/internal/domain/services"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/security"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/styling"
)

const (
	DefaultStructureCapacity = 10
	DefaultDetailCapacity    = 20
)

// IDGenerator returns a fresh unique id for a page or module.
type IDGenerator func(prefix string) string

// ULIDGenerator builds ids like "module-01hx...".
func ULIDGenerator(prefix string) string {
	return prefix + "-" + strings.ToLower(security.GenerateULID())
}

// ChangeKind names what happened to the document.
type ChangeKind string

const (
	ChangeMutation          ChangeKind = "mutation"
	ChangeUndo              ChangeKind = "undo"
	ChangeRedo              ChangeKind = "redo"
	ChangeLoad              ChangeKind = "load"
	ChangeSaved             ChangeKind = "saved"
	ChangeTransactionCommit ChangeKind = "transaction.commit"
	ChangeTransactionCancel ChangeKind = "transaction.cancel"
)

// ChangeEvent is delivered to the OnChange listener after every state change.
// No-op calls never produce one.
type ChangeEvent struct {
	Kind              ChangeKind      `json:"kind"`
	Mode              Mode            `json:"mode"`
	Meta              site.ChangeMeta `json:"meta"`
	HasUnsavedChanges bool            `json:"hasUnsavedChanges"`
}

type Options struct {
	Resolver          *services.StyleResolver
	Normalizer        *services.SiteNormalizer
	Logger            *slog.Logger
	StructureCapacity int
	DetailCapacity    int
	IDGenerator       IDGenerator
	Clock             func() time.Time
	OnChange          func(ChangeEvent)
}

type Editor struct {
	resolver   *services.StyleResolver
	normalizer *services.SiteNormalizer
	logger     *slog.Logger
	newID      IDGenerator
	now        func() time.Time
	onChange   func(ChangeEvent)

	site             *site.Site
	entryPointPageID string
	selectedPageID   string
	selectedModuleID string

	hasUnsavedChanges    bool
	currentVersionNumber int
	lastSavedAt          *time.Time
	userLibrary          []any

	structure *historyStack
	detail    *historyStack
	tx        transaction

	heights map[string]int
}

// New creates an editor holding an empty one-page site.
func New(opts Options) *Editor {
	if opts.Resolver == nil {
		opts.Resolver = services.NewStyleResolver(styling.NewCatalog())
	}
	if opts.Normalizer == nil {
		opts.Normalizer = services.NewSiteNormalizer(opts.Resolver)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.StructureCapacity <= 0 {
		opts.StructureCapacity = DefaultStructureCapacity
	}
	if opts.DetailCapacity <= 0 {
		opts.DetailCapacity = DefaultDetailCapacity
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = ULIDGenerator
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Now().UTC() }
	}

	e := &Editor{
		resolver:   opts.Resolver,
		normalizer: opts.Normalizer,
		logger:     opts.Logger,
		newID:      opts.IDGenerator,
		now:        opts.Clock,
		onChange:   opts.OnChange,
		structure:  newHistoryStack(opts.StructureCapacity),
		detail:     newHistoryStack(opts.DetailCapacity),
		heights:    map[string]int{},
	}
	e.install(e.normalizer.Normalize(nil), "")
	return e
}

// SetOnChange replaces the change listener.
func (e *Editor) SetOnChange(fn func(ChangeEvent)) {
	e.onChange = fn
}

func (e *Editor) emit(ev ChangeEvent) {
	if e.onChange == nil {
		return
	}
	ev.HasUnsavedChanges = e.hasUnsavedChanges
	e.onChange(ev)
}

// LoadInput is what the persistence collaborator hands to the editor.
type LoadInput struct {
	Site                 any        `json:"site"`
	EntryPointPageID     string     `json:"entryPointPageId"`
	CurrentVersionNumber int        `json:"currentVersionNumber"`
	LastSavedAt          *time.Time `json:"lastSavedAt"`
	UserLibrary          []any      `json:"userLibrary"`
}

// Load replaces the document with a normalized copy of the input. Both history
// stacks and any transaction are discarded.
func (e *Editor) Load(in LoadInput) {
	e.install(e.normalizer.Normalize(in.Site), in.EntryPointPageID)
	e.currentVersionNumber = in.CurrentVersionNumber
	e.lastSavedAt = copyTime(in.LastSavedAt)
	e.userLibrary = nil
	if in.UserLibrary != nil {
		e.userLibrary = site.Canonical(in.UserLibrary).([]any)
	}

	e.logger.Info("Site loaded",
		"pages", len(e.site.Pages),
		"entryPointPageId", e.entryPointPageID,
		"version", e.currentVersionNumber)
	e.emit(ChangeEvent{Kind: ChangeLoad, Meta: site.ChangeMeta{
		Timestamp:  e.now(),
		Source:     site.SourceUser,
		ActionType: "load",
	}})
}

func (e *Editor) install(s *site.Site, entryPointPageID string) {
	e.site = s
	e.entryPointPageID = validEntryPoint(s, entryPointPageID)
	e.selectedPageID = e.entryPointPageID
	e.selectedModuleID = ""
	e.hasUnsavedChanges = false
	e.structure.clear()
	e.detail.clear()
	e.tx.reset()
	e.heights = map[string]int{}
}

// VersionInfo acknowledges a save performed by the persistence collaborator.
type VersionInfo struct {
	VersionNumber int       `json:"versionNumber"`
	SavedAt       time.Time `json:"savedAt"`
}

// MarkAsSaved clears the unsaved flag and records the saved version.
func (e *Editor) MarkAsSaved(info VersionInfo) {
	e.hasUnsavedChanges = false
	e.currentVersionNumber = info.VersionNumber
	savedAt := info.SavedAt
	if savedAt.IsZero() {
		savedAt = e.now()
	}
	e.lastSavedAt = &savedAt
	e.emit(ChangeEvent{Kind: ChangeSaved, Meta: site.ChangeMeta{
		Timestamp:  savedAt,
		Source:     site.SourceUser,
		ActionType: "save",
	}})
}

// StackSummary counts the entries of one history stack.
type StackSummary struct {
	Past   int `json:"past"`
	Future int `json:"future"`
}

// EditorState is a deep copy of everything the surrounding UI reads.
type EditorState struct {
	Site                 *site.Site      `json:"site"`
	EntryPointPageID     string          `json:"entryPointPageId"`
	SelectedPageID       string          `json:"selectedPageId"`
	SelectedModuleID     string          `json:"selectedModuleId"`
	HasUnsavedChanges    bool            `json:"hasUnsavedChanges"`
	CurrentVersionNumber int             `json:"currentVersionNumber"`
	LastSavedAt          *time.Time      `json:"lastSavedAt"`
	UserLibrary          []any           `json:"userLibrary"`
	StructureHistory     StackSummary    `json:"structureHistory"`
	DetailHistory        StackSummary    `json:"detailHistory"`
	Transaction          TransactionView `json:"transaction"`
}

func (e *Editor) State() EditorState {
	var library []any
	if e.userLibrary != nil {
		library = site.CloneValue(e.userLibrary).([]any)
	}
	return EditorState{
		Site:                 e.site.Clone(),
		EntryPointPageID:     e.entryPointPageID,
		SelectedPageID:       e.selectedPageID,
		SelectedModuleID:     e.selectedModuleID,
		HasUnsavedChanges:    e.hasUnsavedChanges,
		CurrentVersionNumber: e.currentVersionNumber,
		LastSavedAt:          copyTime(e.lastSavedAt),
		UserLibrary:          library,
		StructureHistory:     StackSummary{Past: len(e.structure.past), Future: len(e.structure.future)},
		DetailHistory:        StackSummary{Past: len(e.detail.past), Future: len(e.detail.future)},
		Transaction:          e.Transaction(),
	}
}

// Site returns a deep copy of the live document.
func (e *Editor) Site() *site.Site { return e.site.Clone() }

func (e *Editor) EntryPointPageID() string { return e.entryPointPageID }

func (e *Editor) SelectedPageID() string { return e.selectedPageID }

func (e *Editor) SelectedModuleID() string { return e.selectedModuleID }

func (e *Editor) HasUnsavedChanges() bool { return e.hasUnsavedChanges }

// SelectedPage returns a copy of the selected page.
func (e *Editor) SelectedPage() (site.Page, bool) {
	p := e.site.FindPage(e.selectedPageID)
	if p == nil {
		return site.Page{}, false
	}
	return p.Clone(), true
}

// SelectedModule returns a copy of the selected module.
func (e *Editor) SelectedModule() (site.Module, bool) {
	if e.selectedModuleID == "" {
		return site.Module{}, false
	}
	pi, mi, ok := e.site.LocateModule(e.selectedModuleID)
	if !ok {
		return site.Module{}, false
	}
	return e.site.Pages[pi].Modules[mi].Clone(), true
}

// PageModules returns copies of a page's modules in order.
func (e *Editor) PageModules(pageID string) []site.Module {
	p := e.site.FindPage(pageID)
	if p == nil {
		return nil
	}
	return p.Clone().Modules
}

// SetModuleHeight records a rendered height reported by the canvas. Heights
// are measurements, not document state, and are never part of history.
func (e *Editor) SetModuleHeight(moduleID string, height int) bool {
	if height < 0 {
		return false
	}
	if _, _, ok := e.site.LocateModule(moduleID); !ok {
		return false
	}
	e.heights[moduleID] = height
	return true
}

// ModuleHeight returns the last reported height of a module.
func (e *Editor) ModuleHeight(moduleID string) (int, bool) {
	h, ok := e.heights[moduleID]
	return h, ok
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
