package editor

import (
	"fmt"
	"strings"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

// uniqueDocumentID derives an id from base that no page or module uses yet.
func uniqueDocumentID(s *site.Site, base string) string {
	id := base
	for i := 2; s.HasID(id); i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	return id
}

func uniqueRoute(s *site.Site, base string) string {
	route := base
	for i := 2; s.HasRoute(route); i++ {
		route = fmt.Sprintf("%s-%d", base, i)
	}
	return route
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return ""
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return route
}

func clamp(index, lo, hi int) int {
	if index < lo {
		return lo
	}
	if index > hi {
		return hi
	}
	return index
}

// syncPageOrder keeps the explicit page order for surviving pages and appends
// pages it does not mention yet.
func syncPageOrder(s *site.Site) {
	known := make(map[string]bool, len(s.Pages))
	for _, p := range s.Pages {
		known[p.ID] = true
	}
	seen := map[string]bool{}
	order := make([]string, 0, len(s.Pages))
	for _, id := range s.PageOrder {
		if known[id] && !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	for _, p := range s.Pages {
		if !seen[p.ID] {
			order = append(order, p.ID)
		}
	}
	s.PageOrder = order
}

// reindexPages rewrites positional orders after a topology change.
func reindexPages(s *site.Site) {
	for i := range s.Pages {
		s.Pages[i].Order = i
		s.Pages[i].ReindexModules()
	}
	syncPageOrder(s)
}

// arrangeIDs returns ids rearranged so that the listed ids come first, in the
// listed order, followed by the remaining ids in their current order. Unknown
// and repeated ids in listed are ignored.
func arrangeIDs(current, listed []string) []string {
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(current))
	for _, id := range listed {
		if known[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range current {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func moduleIDs(modules []site.Module) []string {
	ids := make([]string, len(modules))
	for i, m := range modules {
		ids[i] = m.ID
	}
	return ids
}

// removePageAt drops a page and repairs the entry point and selection that
// pointed into it.
func removePageAt(s *site.Site, index int, sel selection) selection {
	removed := s.Pages[index].ID
	s.Pages = append(s.Pages[:index], s.Pages[index+1:]...)
	reindexPages(s)

	if sel.entryPointPageID == removed {
		sel.entryPointPageID = s.Pages[0].ID
	}
	if sel.pageID == removed {
		sel.pageID = s.Pages[0].ID
	}
	sel.pageID, sel.moduleID = deriveSelection(s, sel.pageID, sel.moduleID)
	return sel
}

// pruneEmptyPage removes the page at index when it has no modules left, is
// not the home page and is not the last page.
func pruneEmptyPage(s *site.Site, index int, sel selection) (selection, bool) {
	p := s.Pages[index]
	if len(p.Modules) > 0 || len(s.Pages) <= 1 || p.ID == s.HomePageID() {
		return sel, false
	}
	return removePageAt(s, index, sel), true
}

func quoted(values []string) string {
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(q, ", ")
}
