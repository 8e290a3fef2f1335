package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

const (
	legacyKeyField    = "__legacyKey"
	defaultModuleType = "custom"
)

// SiteNormalizer turns loosely shaped site JSON into the canonical document.
// It never fails: malformed entries are dropped or replaced by placeholders.
type SiteNormalizer struct {
	styles *StyleResolver
}

func NewSiteNormalizer(styles *StyleResolver) *SiteNormalizer {
	return &SiteNormalizer{styles: styles}
}

// entry is one element of a page or module collection. Legacy map-keyed
// collections carry their map key.
type entry struct {
	key   string
	value any
}

// NormalizeJSON decodes and normalizes a JSON document.
func (n *SiteNormalizer) NormalizeJSON(data []byte) (*site.Site, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode site JSON: %w", err)
	}
	return n.Normalize(raw), nil
}

// Normalize accepts a raw decoded document (or an already typed *site.Site)
// and returns the canonical site.
func (n *SiteNormalizer) Normalize(raw any) *site.Site {
	var obj map[string]any
	switch v := raw.(type) {
	case *site.Site:
		if v != nil {
			obj = v.Raw()
		}
	case site.Site:
		obj = v.Raw()
	default:
		obj = asObject(site.Canonical(raw))
	}
	if obj == nil {
		obj = map[string]any{}
	}

	out := &site.Site{}
	out.StyleID = n.styles.ResolveID(asString(obj["styleId"]))
	out.StyleOverrides = n.styles.Sanitize(asObject(obj["styleOverrides"]))
	out.Style = n.styles.Compose(out.StyleID, out.StyleOverrides)
	out.Navigation = site.Content(asObjectOrEmpty(obj["navigation"]))

	// page and module ids are unique within their own kind
	out.Pages = n.normalizePages(obj["pages"], map[string]bool{}, map[string]bool{})
	if len(out.Pages) == 0 {
		out.Pages = []site.Page{{ID: site.HomePageID, Name: "Home", Route: "/", Modules: []site.Module{}}}
	}
	pinHomeRoute(out.Pages)
	out.PageOrder = normalizePageOrder(obj["pageOrder"], out.PageIDs())
	return out
}

// pinHomeRoute routes the first page at "/" when no page is identifiable as
// home, so the protected page does not change when pages are reordered.
func pinHomeRoute(pages []site.Page) {
	for _, p := range pages {
		if p.ID == site.HomePageID || p.Route == "/" {
			return
		}
	}
	if len(pages) > 0 {
		pages[0].Route = "/"
	}
}

type orderedPage struct {
	page  site.Page
	order float64
	pos   int
}

func (n *SiteNormalizer) normalizePages(value any, pageIDs, moduleIDs map[string]bool) []site.Page {
	var pages []orderedPage
	for index, e := range entries(value) {
		obj, ok := e.value.(map[string]any)
		if !ok {
			continue
		}
		page, order := n.normalizePage(obj, e.key, index, pageIDs, moduleIDs)
		pages = append(pages, orderedPage{page: page, order: order, pos: index})
	}

	sort.SliceStable(pages, func(i, j int) bool { return pages[i].order < pages[j].order })

	out := make([]site.Page, len(pages))
	for i, p := range pages {
		p.page.Order = i
		out[i] = p.page
	}
	return out
}

func (n *SiteNormalizer) normalizePage(obj map[string]any, key string, index int, pageIDs, moduleIDs map[string]bool) (site.Page, float64) {
	id := firstString(obj["id"], obj["pageId"], obj["slug"], obj[legacyKeyField], key)
	if id == "" {
		id = fmt.Sprintf("page-%d", index)
	}
	id = uniqueID(id, pageIDs)

	name := firstString(obj["name"], obj["title"])
	if name == "" {
		name = id
	}

	route := firstString(obj["route"], obj["path"])
	switch {
	case route == "" && id == site.HomePageID:
		route = "/"
	case route == "":
		route = "/" + id
	case !strings.HasPrefix(route, "/"):
		route = "/" + route
	}

	page := site.Page{
		ID:      id,
		Name:    name,
		Route:   route,
		Modules: n.normalizeModules(obj["modules"], id, moduleIDs),
	}
	return page, orderOr(obj["order"], index)
}

type orderedModule struct {
	module site.Module
	order  float64
}

func (n *SiteNormalizer) normalizeModules(value any, pageID string, used map[string]bool) []site.Module {
	list := entries(value)
	modules := make([]orderedModule, 0, len(list))
	for index, e := range list {
		obj, ok := e.value.(map[string]any)
		if !ok {
			modules = append(modules, orderedModule{
				module: placeholderModule(uniqueID(firstString(e.key, fmt.Sprintf("%s-module-%d", pageID, index)), used)),
				order:  float64(index),
			})
			continue
		}
		modules = append(modules, orderedModule{
			module: normalizeModule(obj, e.key, pageID, index, used),
			order:  orderOr(obj["order"], index),
		})
	}

	sort.SliceStable(modules, func(i, j int) bool { return modules[i].order < modules[j].order })

	out := make([]site.Module, len(modules))
	for i, m := range modules {
		m.module.Order = i
		out[i] = m.module
	}
	return out
}

func normalizeModule(obj map[string]any, key, pageID string, index int, used map[string]bool) site.Module {
	id := firstString(obj["id"], obj["moduleId"], obj["slug"], obj[legacyKeyField], key)
	if id == "" {
		id = fmt.Sprintf("%s-module-%d", pageID, index)
	}
	id = uniqueID(id, used)

	moduleType := firstString(obj["type"], obj["moduleType"])
	if moduleType == "" {
		moduleType = id
	}

	var content site.Content
	if c, ok := obj["content"].(map[string]any); ok {
		content = site.Content(site.CloneValue(c).(map[string]any))
	} else if c, ok := obj["config"].(map[string]any); ok {
		content = site.Content(site.CloneValue(c).(map[string]any))
	} else {
		content = site.Content{}
	}

	var layout *string
	if l := firstString(obj["layout"], content["layout"]); l != "" {
		layout = &l
	}
	delete(content, "layout")

	enabled := true
	if e, ok := obj["enabled"].(bool); ok {
		enabled = e
	} else if v, ok := obj["visible"].(bool); ok {
		enabled = v
	}

	name := firstString(obj["name"], obj["title"])
	if name == "" {
		name = moduleType
	}

	return site.Module{
		ID:      id,
		Type:    moduleType,
		Name:    name,
		Layout:  layout,
		Enabled: enabled,
		Content: content,
	}
}

func placeholderModule(id string) site.Module {
	return site.Module{
		ID:      id,
		Type:    defaultModuleType,
		Name:    "Custom",
		Enabled: true,
		Content: site.Content{},
	}
}

func normalizePageOrder(value any, pageIDs []string) []string {
	list, ok := value.([]any)
	if !ok {
		return append([]string{}, pageIDs...)
	}

	known := make(map[string]bool, len(pageIDs))
	for _, id := range pageIDs {
		known[id] = true
	}
	seen := map[string]bool{}
	order := make([]string, 0, len(pageIDs))
	for _, item := range list {
		id, ok := item.(string)
		if !ok || !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	for _, id := range pageIDs {
		if !seen[id] {
			order = append(order, id)
		}
	}
	return order
}

// entries flattens an array or a legacy key->value map. Map keys are visited
// in sorted order so the result is deterministic.
func entries(value any) []entry {
	switch v := value.(type) {
	case []any:
		out := make([]entry, len(v))
		for i, item := range v {
			out[i] = entry{value: item}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]entry, len(keys))
		for i, k := range keys {
			out[i] = entry{key: k, value: v[k]}
		}
		return out
	}
	return nil
}

func uniqueID(base string, used map[string]bool) string {
	id := base
	for i := 2; used[id]; i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	used[id] = true
	return id
}

func firstString(values ...any) string {
	for _, v := range values {
		switch s := v.(type) {
		case string:
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		case float64:
			return fmt.Sprintf("%g", s)
		}
	}
	return ""
}

func orderOr(v any, fallback int) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return float64(fallback)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asObject(v any) map[string]any {
	obj, _ := v.(map[string]any)
	return obj
}

func asObjectOrEmpty(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return site.CloneValue(obj).(map[string]any)
	}
	return map[string]any{}
}
