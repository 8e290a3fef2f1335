package editor

import (
	"fmt"
	"strings"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

const defaultModuleType = "custom"

// NewModule describes a module to add. Only Type is expected; the rest is
// derived when empty.
type NewModule struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Name    string         `json:"name"`
	Layout  *string        `json:"layout"`
	Enabled *bool          `json:"enabled"`
	Content map[string]any `json:"content"`
}

func modulePrefix(moduleType string) string {
	if slug := site.Slugify(moduleType); slug != "" {
		return slug
	}
	return "module"
}

func (e *Editor) buildModule(s *site.Site, in NewModule) (site.Module, bool) {
	moduleType := strings.TrimSpace(in.Type)
	if moduleType == "" {
		moduleType = defaultModuleType
	}

	id := strings.TrimSpace(in.ID)
	if id != "" && s.HasID(id) {
		return site.Module{}, false
	}
	if id == "" {
		id = uniqueDocumentID(s, e.newID(modulePrefix(moduleType)))
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = moduleType
	}

	content := site.CanonicalContent(in.Content)
	layout := in.Layout
	if layout == nil {
		if l, ok := content["layout"].(string); ok && l != "" {
			layout = &l
		}
	}
	delete(content, "layout")
	if layout != nil {
		l := *layout
		layout = &l
	}

	enabled := true
	if in.Enabled != nil {
		enabled = *in.Enabled
	}

	return site.Module{
		ID:      id,
		Type:    moduleType,
		Name:    name,
		Layout:  layout,
		Enabled: enabled,
		Content: content,
	}, true
}

// AddModule appends a module to a page and selects it.
func (e *Editor) AddModule(pageID string, in NewModule) string {
	page := e.site.FindPage(pageID)
	if page == nil {
		return ""
	}
	return e.InsertModule(pageID, in, len(page.Modules))
}

// InsertModule places a module at index, clamped to the page bounds, and
// selects it. It returns the new module id, or "" on a no-op.
func (e *Editor) InsertModule(pageID string, in NewModule, index int) string {
	if e.site.FindPage(pageID) == nil {
		return ""
	}
	next := e.site.Clone()
	module, ok := e.buildModule(next, in)
	if !ok {
		e.logger.Debug("Module id already in use", "moduleId", in.ID)
		return ""
	}

	page := next.FindPage(pageID)
	index = clamp(index, 0, len(page.Modules))
	page.Modules = append(page.Modules, site.Module{})
	copy(page.Modules[index+1:], page.Modules[index:])
	page.Modules[index] = module
	page.ReindexModules()

	sel := e.currentSelection()
	sel.pageID, sel.moduleID = pageID, module.ID
	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:      "addModule",
		Description:     fmt.Sprintf("Added %s module to %q", module.Type, page.Name),
		AffectedModules: []string{module.ID},
	}, next, sel)
	return module.ID
}

// RemoveModule deletes a module. A non-home page left without modules is
// removed as well.
func (e *Editor) RemoveModule(pageID, moduleID string) bool {
	pi := e.site.PageIndex(pageID)
	if pi < 0 {
		return false
	}
	mi := e.site.Pages[pi].ModuleIndex(moduleID)
	if mi < 0 {
		return false
	}

	next := e.site.Clone()
	page := &next.Pages[pi]
	removed := page.Modules[mi]
	page.Modules = append(page.Modules[:mi], page.Modules[mi+1:]...)
	page.ReindexModules()

	sel := e.currentSelection()
	if sel.moduleID == moduleID {
		sel.moduleID = ""
	}
	sel, pruned := pruneEmptyPage(next, pi, sel)

	description := fmt.Sprintf("Removed %s module", removed.Type)
	if pruned {
		description += fmt.Sprintf(" and empty page %q", e.site.Pages[pi].Name)
	}
	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:      "removeModule",
		Description:     description,
		AffectedModules: []string{moduleID},
	}, next, sel)
	delete(e.heights, moduleID)
	return true
}

// DuplicateModule inserts a copy of a module right after it and selects the
// copy.
func (e *Editor) DuplicateModule(pageID, moduleID string) string {
	page := e.site.FindPage(pageID)
	if page == nil {
		return ""
	}
	mi := page.ModuleIndex(moduleID)
	if mi < 0 {
		return ""
	}

	next := e.site.Clone()
	target := next.FindPage(pageID)
	dup := target.Modules[mi].Clone()
	dup.ID = uniqueDocumentID(next, e.newID(modulePrefix(dup.Type)))
	dup.Name = dup.Name + " (copy)"

	target.Modules = append(target.Modules, site.Module{})
	copy(target.Modules[mi+2:], target.Modules[mi+1:])
	target.Modules[mi+1] = dup
	target.ReindexModules()

	sel := e.currentSelection()
	sel.pageID, sel.moduleID = pageID, dup.ID
	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:      "duplicateModule",
		Description:     fmt.Sprintf("Duplicated %s module", dup.Type),
		AffectedModules: []string{moduleID, dup.ID},
	}, next, sel)
	return dup.ID
}

// MoveModule repositions a module. Within one page it is a detail edit; a
// move to another page is structural and prunes the emptied source page.
func (e *Editor) MoveModule(fromPageID, toPageID, moduleID string, toIndex int) bool {
	from := e.site.PageIndex(fromPageID)
	to := e.site.PageIndex(toPageID)
	if from < 0 || to < 0 {
		return false
	}
	mi := e.site.Pages[from].ModuleIndex(moduleID)
	if mi < 0 {
		return false
	}

	if from == to {
		ids := moduleIDs(e.site.Pages[from].Modules)
		toIndex = clamp(toIndex, 0, len(ids)-1)
		if toIndex == mi {
			return false
		}
		reordered := append(append([]string{}, ids[:mi]...), ids[mi+1:]...)
		reordered = append(reordered[:toIndex], append([]string{moduleID}, reordered[toIndex:]...)...)
		return e.applyModuleOrder(fromPageID, reordered, "moveModule",
			fmt.Sprintf("Moved module to position %d", toIndex+1))
	}

	next := e.site.Clone()
	source := &next.Pages[from]
	module := source.Modules[mi]
	source.Modules = append(source.Modules[:mi], source.Modules[mi+1:]...)
	source.ReindexModules()

	target := &next.Pages[to]
	toIndex = clamp(toIndex, 0, len(target.Modules))
	target.Modules = append(target.Modules, site.Module{})
	copy(target.Modules[toIndex+1:], target.Modules[toIndex:])
	target.Modules[toIndex] = module
	target.ReindexModules()
	targetName := target.Name

	sel := e.currentSelection()
	if sel.moduleID == moduleID {
		sel.pageID = toPageID
	}
	sel, _ = pruneEmptyPage(next, from, sel)
	sel.pageID, sel.moduleID = deriveSelection(next, sel.pageID, sel.moduleID)

	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:      "moveModule",
		Description:     fmt.Sprintf("Moved %s module to %q", module.Type, targetName),
		AffectedModules: []string{moduleID},
	}, next, sel)
	return true
}

// ReorderModules puts the listed modules first, in the given order, followed
// by the modules not mentioned.
func (e *Editor) ReorderModules(pageID string, moduleIDList []string) bool {
	page := e.site.FindPage(pageID)
	if page == nil {
		return false
	}
	return e.applyModuleOrder(pageID, arrangeIDs(moduleIDs(page.Modules), moduleIDList),
		"reorderModules", "Reordered modules")
}

func (e *Editor) applyModuleOrder(pageID string, order []string, actionType, description string) bool {
	page := e.site.FindPage(pageID)
	current := moduleIDs(page.Modules)
	if sameStrings(order, current) {
		return false
	}

	next := e.site.Clone()
	target := next.FindPage(pageID)
	modules := make([]site.Module, 0, len(order))
	var moved []string
	for i, id := range order {
		modules = append(modules, target.Modules[target.ModuleIndex(id)])
		if current[i] != id {
			moved = append(moved, id)
		}
	}
	target.Modules = modules
	target.ReindexModules()

	e.commit(ModeDetail, site.ChangeMeta{
		ActionType:      actionType,
		Description:     description,
		AffectedModules: moved,
		ChangesCount:    len(moved),
	}, next, e.currentSelection())
	return true
}
