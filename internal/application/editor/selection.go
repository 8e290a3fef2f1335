package editor

import "github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"

type selection struct {
	entryPointPageID string
	pageID           string
	moduleID         string
}

func (e *Editor) currentSelection() selection {
	return selection{
		entryPointPageID: e.entryPointPageID,
		pageID:           e.selectedPageID,
		moduleID:         e.selectedModuleID,
	}
}

// deriveSelection validates a recorded selection against the document it
// belongs to. A missing page falls back to the first page; a module found on
// another page carries the page selection with it; a vanished module clears.
func deriveSelection(s *site.Site, pageID, moduleID string) (string, string) {
	if s == nil || len(s.Pages) == 0 {
		return "", ""
	}
	if s.FindPage(pageID) == nil {
		pageID = s.Pages[0].ID
	}
	if moduleID == "" {
		return pageID, ""
	}
	if s.FindPage(pageID).ModuleIndex(moduleID) >= 0 {
		return pageID, moduleID
	}
	if pi, _, ok := s.LocateModule(moduleID); ok {
		return s.Pages[pi].ID, moduleID
	}
	return pageID, ""
}

// validEntryPoint keeps the entry point when it names a page, else falls back
// to the home page.
func validEntryPoint(s *site.Site, pageID string) string {
	if s.FindPage(pageID) != nil {
		return pageID
	}
	return s.HomePageID()
}

func (e *Editor) snapshot() site.Snapshot {
	return site.Snapshot{
		Site:             e.site.Clone(),
		EntryPointPageID: e.entryPointPageID,
		SelectedPageID:   e.selectedPageID,
		SelectedModuleID: e.selectedModuleID,
	}
}

// restore installs a snapshot as the live state.
func (e *Editor) restore(snap site.Snapshot) {
	e.site = snap.Site.Clone()
	e.entryPointPageID = validEntryPoint(e.site, snap.EntryPointPageID)
	e.selectedPageID, e.selectedModuleID = deriveSelection(e.site, snap.SelectedPageID, snap.SelectedModuleID)
}

// SelectPage changes the selected page. Selection is not recorded in history.
func (e *Editor) SelectPage(pageID string) bool {
	if e.site.FindPage(pageID) == nil || pageID == e.selectedPageID {
		return false
	}
	e.selectedPageID = pageID
	if e.site.FindPage(pageID).ModuleIndex(e.selectedModuleID) < 0 {
		e.selectedModuleID = ""
	}
	return true
}

// SelectModule selects a module, and its page. An empty id clears the module
// selection.
func (e *Editor) SelectModule(moduleID string) bool {
	if moduleID == "" {
		if e.selectedModuleID == "" {
			return false
		}
		e.selectedModuleID = ""
		return true
	}
	pi, _, ok := e.site.LocateModule(moduleID)
	if !ok || moduleID == e.selectedModuleID {
		return false
	}
	e.selectedPageID = e.site.Pages[pi].ID
	e.selectedModuleID = moduleID
	return true
}
