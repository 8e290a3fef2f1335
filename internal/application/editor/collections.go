package editor

import (
	"fmt"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

// editCollection runs fn against a copy of the array stored under key in a
// module's content and commits the result when fn reports a non-zero number
// of changes. A missing key reads as an empty collection; a non-array value
// is left alone.
func (e *Editor) editCollection(pageID, moduleID, key string, meta site.ChangeMeta, fn func(items []any) ([]any, int)) bool {
	page := e.site.FindPage(pageID)
	if page == nil || key == "" || key == "layout" {
		return false
	}
	mi := page.ModuleIndex(moduleID)
	if mi < 0 {
		return false
	}

	var items []any
	switch v := page.Modules[mi].Content[key].(type) {
	case nil:
		items = []any{}
	case []any:
		items = site.CloneValue(v).([]any)
	default:
		return false
	}

	items, count := fn(items)
	if count == 0 {
		return false
	}

	next := e.site.Clone()
	module := &next.FindPage(pageID).Modules[mi]
	if module.Content == nil {
		module.Content = site.Content{}
	}
	module.Content[key] = items

	meta.AffectedModules = []string{moduleID}
	meta.ChangesCount = count
	e.commit(ModeDetail, meta, next, e.currentSelection())
	return true
}

// AddCollectionItem appends item to the array under key.
func (e *Editor) AddCollectionItem(pageID, moduleID, key string, item any) bool {
	return e.editCollection(pageID, moduleID, key, site.ChangeMeta{
		ActionType:  "addCollectionItem",
		Description: fmt.Sprintf("Added item to %s", key),
	}, func(items []any) ([]any, int) {
		return append(items, site.Canonical(item)), 1
	})
}

func (e *Editor) RemoveCollectionItem(pageID, moduleID, key string, index int) bool {
	return e.editCollection(pageID, moduleID, key, site.ChangeMeta{
		ActionType:  "removeCollectionItem",
		Description: fmt.Sprintf("Removed item %d from %s", index+1, key),
	}, func(items []any) ([]any, int) {
		if index < 0 || index >= len(items) {
			return nil, 0
		}
		return append(items[:index], items[index+1:]...), 1
	})
}

// UpdateCollectionItem shallow-merges partial into the object at index.
// Unchanged keys are ignored, so an identical update is a no-op.
func (e *Editor) UpdateCollectionItem(pageID, moduleID, key string, index int, partial map[string]any) bool {
	return e.editCollection(pageID, moduleID, key, site.ChangeMeta{
		ActionType:  "updateCollectionItem",
		Description: fmt.Sprintf("Updated item %d of %s", index+1, key),
	}, func(items []any) ([]any, int) {
		if index < 0 || index >= len(items) {
			return nil, 0
		}
		item, isObject := items[index].(map[string]any)
		if !isObject {
			return nil, 0
		}
		changes := 0
		for k, v := range partial {
			v = site.Canonical(v)
			if current, exists := item[k]; exists && site.Equal(current, v) {
				continue
			}
			item[k] = v
			changes++
		}
		return items, changes
	})
}

// ReorderCollectionItem swaps the items at from and to.
func (e *Editor) ReorderCollectionItem(pageID, moduleID, key string, from, to int) bool {
	return e.editCollection(pageID, moduleID, key, site.ChangeMeta{
		ActionType:  "reorderCollectionItem",
		Description: fmt.Sprintf("Reordered %s", key),
	}, func(items []any) ([]any, int) {
		if from == to || from < 0 || to < 0 || from >= len(items) || to >= len(items) {
			return nil, 0
		}
		if site.Equal(items[from], items[to]) {
			return nil, 0
		}
		items[from], items[to] = items[to], items[from]
		return items, 2
	})
}
