package editor

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

// UpdateStyleOverrides merges partial into the style overrides. A nil or
// empty value removes that override. Unknown keys are dropped. The call is a
// no-op when the resolved style does not change.
func (e *Editor) UpdateStyleOverrides(partial map[string]any) bool {
	if len(partial) == 0 {
		return false
	}

	overrides := e.site.StyleOverrides.Clone()
	for k, v := range partial {
		if s, ok := v.(string); v == nil || (ok && strings.TrimSpace(s) == "") {
			delete(overrides, k)
		}
	}
	for k, v := range e.resolver.Sanitize(partial) {
		overrides[k] = v
	}

	style := e.resolver.Compose(e.site.StyleID, overrides)
	if reflect.DeepEqual(style, e.site.Style) {
		return false
	}

	next := e.site.Clone()
	next.StyleOverrides = overrides
	next.Style = style

	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.commit(ModeDetail, site.ChangeMeta{
		ActionType:   "updateStyleOverrides",
		Description:  "Updated style " + strings.Join(keys, ", "),
		ChangesCount: len(keys),
	}, next, e.currentSelection())
	return true
}

// SetStyleOptions controls how SetStyleID treats existing overrides.
type SetStyleOptions struct {
	ResetOverrides bool           `json:"resetOverrides"`
	Overrides      map[string]any `json:"overrides"`
}

// SetStyleID switches the style preset. Unknown ids resolve to the default
// preset.
func (e *Editor) SetStyleID(styleID string, opts SetStyleOptions) bool {
	id := e.resolver.ResolveID(styleID)

	overrides := e.site.StyleOverrides.Clone()
	if opts.ResetOverrides {
		overrides = site.Style{}
	}
	for k, v := range e.resolver.Sanitize(opts.Overrides) {
		overrides[k] = v
	}

	style := e.resolver.Compose(id, overrides)
	if id == e.site.StyleID && reflect.DeepEqual(style, e.site.Style) {
		return false
	}

	next := e.site.Clone()
	next.StyleID = id
	next.StyleOverrides = overrides
	next.Style = style
	e.commit(ModeDetail, site.ChangeMeta{
		ActionType:  "setStyleId",
		Description: fmt.Sprintf("Switched style to %s", id),
	}, next, e.currentSelection())
	return true
}

// UpdateNavigation shallow-merges partial into the site navigation.
func (e *Editor) UpdateNavigation(partial map[string]any) bool {
	next := e.site.Clone()
	if next.Navigation == nil {
		next.Navigation = site.Content{}
	}

	var changed []string
	for k, v := range partial {
		v = site.Canonical(v)
		if current, ok := next.Navigation[k]; ok && site.Equal(current, v) {
			continue
		}
		next.Navigation[k] = v
		changed = append(changed, k)
	}
	if len(changed) == 0 {
		return false
	}
	sort.Strings(changed)

	e.commit(ModeDetail, site.ChangeMeta{
		ActionType:   "updateNavigation",
		Description:  "Updated navigation " + strings.Join(changed, ", "),
		ChangesCount: len(changed),
	}, next, e.currentSelection())
	return true
}
