package editor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

// mergeContent shallow-merges partial into module content and reports the
// keys whose values actually changed. A "layout" key targets the module's
// layout attribute rather than its content.
func mergeContent(m *site.Module, partial map[string]any) []string {
	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var changed []string
	for _, key := range keys {
		value := site.Canonical(partial[key])
		if key == "layout" {
			if setLayout(m, value) {
				changed = append(changed, key)
			}
			continue
		}
		if current, ok := m.Content[key]; ok && site.Equal(current, value) {
			continue
		}
		if m.Content == nil {
			m.Content = site.Content{}
		}
		m.Content[key] = value
		changed = append(changed, key)
	}
	return changed
}

func setLayout(m *site.Module, value any) bool {
	var next *string
	switch v := value.(type) {
	case nil:
	case string:
		if v = strings.TrimSpace(v); v != "" {
			next = &v
		}
	default:
		return false
	}
	if m.LayoutValue() == derefString(next) && (m.Layout == nil) == (next == nil) {
		return false
	}
	m.Layout = next
	return true
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// UpdateModuleContent shallow-merges partial into a module's content. Keys
// whose value is deep-equal to the current one are ignored; if none remain
// the call is a no-op.
func (e *Editor) UpdateModuleContent(pageID, moduleID string, partial map[string]any) bool {
	page := e.site.FindPage(pageID)
	if page == nil || page.ModuleIndex(moduleID) < 0 || len(partial) == 0 {
		return false
	}

	next := e.site.Clone()
	target := next.FindPage(pageID)
	module := &target.Modules[target.ModuleIndex(moduleID)]
	changed := mergeContent(module, partial)
	if len(changed) == 0 {
		return false
	}

	e.commit(ModeDetail, site.ChangeMeta{
		ActionType:      "updateModuleContent",
		Description:     fmt.Sprintf("Updated %s on %s", strings.Join(changed, ", "), module.Name),
		AffectedModules: []string{moduleID},
		ChangesCount:    len(changed),
	}, next, e.currentSelection())
	return true
}

// UpdateModuleProperty sets one top-level module attribute: name, type,
// layout or enabled. Other keys and mistyped values are ignored.
func (e *Editor) UpdateModuleProperty(pageID, moduleID, key string, value any) bool {
	page := e.site.FindPage(pageID)
	if page == nil || page.ModuleIndex(moduleID) < 0 {
		return false
	}

	next := e.site.Clone()
	target := next.FindPage(pageID)
	module := &target.Modules[target.ModuleIndex(moduleID)]

	changed := false
	switch key {
	case "name", "type":
		s, ok := value.(string)
		s = strings.TrimSpace(s)
		if !ok || s == "" {
			return false
		}
		field := &module.Name
		if key == "type" {
			field = &module.Type
		}
		changed = *field != s
		*field = s
	case "layout":
		changed = setLayout(module, site.Canonical(value))
	case "enabled":
		b, ok := value.(bool)
		if !ok {
			return false
		}
		changed = module.Enabled != b
		module.Enabled = b
	default:
		return false
	}
	if !changed {
		return false
	}

	e.commit(ModeDetail, site.ChangeMeta{
		ActionType:      "updateModuleProperty",
		Description:     fmt.Sprintf("Changed %s of %s", key, module.Name),
		AffectedModules: []string{moduleID},
	}, next, e.currentSelection())
	return true
}

// BatchUpdateModuleContents merges content into several modules of the
// selected page as a single edit. Modules not on that page are skipped.
func (e *Editor) BatchUpdateModuleContents(updates map[string]map[string]any) bool {
	page := e.site.FindPage(e.selectedPageID)
	if page == nil || len(updates) == 0 {
		return false
	}

	next := e.site.Clone()
	target := next.FindPage(e.selectedPageID)
	var affected []string
	total := 0
	for i := range target.Modules {
		m := &target.Modules[i]
		partial, ok := updates[m.ID]
		if !ok {
			continue
		}
		if changed := mergeContent(m, partial); len(changed) > 0 {
			affected = append(affected, m.ID)
			total += len(changed)
		}
	}
	if total == 0 {
		return false
	}

	e.commit(ModeDetail, site.ChangeMeta{
		ActionType:      "batchUpdateModuleContents",
		Description:     fmt.Sprintf("Updated %d modules on %q", len(affected), page.Name),
		AffectedModules: affected,
		ChangesCount:    total,
	}, next, e.currentSelection())
	return true
}
