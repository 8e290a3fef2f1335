package editor

import (
	"fmt"
	"strings"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

// NewPage describes a page to add. Empty fields are derived from the name.
type NewPage struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Route string `json:"route"`
}

// AddPage appends a page and selects it. It returns the new page id, or ""
// when the page could not be added.
func (e *Editor) AddPage(in NewPage) string {
	next := e.site.Clone()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Untitled"
	}

	id := strings.TrimSpace(in.ID)
	switch {
	case id != "" && next.HasID(id):
		e.logger.Debug("Page id already in use", "pageId", id)
		return ""
	case id == "":
		base := site.Slugify(name)
		if base == "" {
			base = e.newID("page")
		}
		id = uniqueDocumentID(next, base)
	}

	route := normalizeRoute(in.Route)
	switch {
	case route != "" && next.HasRoute(route):
		route = uniqueRoute(next, route)
	case route == "":
		route = uniqueRoute(next, "/"+site.Slugify(id))
	}

	next.Pages = append(next.Pages, site.Page{
		ID:      id,
		Name:    name,
		Route:   route,
		Modules: []site.Module{},
	})
	reindexPages(next)

	sel := e.currentSelection()
	sel.pageID, sel.moduleID = id, ""
	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:  "addPage",
		Description: fmt.Sprintf("Added page %q", name),
	}, next, sel)
	return id
}

// RemovePage deletes a page. The last remaining page and the home page are
// never removed.
func (e *Editor) RemovePage(pageID string) bool {
	if len(e.site.Pages) <= 1 || pageID == e.site.HomePageID() {
		return false
	}
	index := e.site.PageIndex(pageID)
	if index < 0 {
		return false
	}

	next := e.site.Clone()
	page := next.Pages[index]
	sel := removePageAt(next, index, e.currentSelection())

	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:      "removePage",
		Description:     fmt.Sprintf("Removed page %q", page.Name),
		AffectedModules: moduleIDs(page.Modules),
	}, next, sel)
	return true
}

func (e *Editor) RenamePage(pageID, name string) bool {
	name = strings.TrimSpace(name)
	page := e.site.FindPage(pageID)
	if page == nil || name == "" || name == page.Name {
		return false
	}

	next := e.site.Clone()
	old := page.Name
	next.FindPage(pageID).Name = name
	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:  "renamePage",
		Description: fmt.Sprintf("Renamed page %q to %q", old, name),
	}, next, e.currentSelection())
	return true
}

// UpdatePageRoute changes the path a page is served at. Routes taken by
// another page are refused, as is moving a home page that is only known by
// its "/" route.
func (e *Editor) UpdatePageRoute(pageID, route string) bool {
	route = normalizeRoute(route)
	page := e.site.FindPage(pageID)
	if page == nil || route == "" || route == page.Route || e.site.HasRoute(route) {
		return false
	}
	if page.Route == "/" && page.ID != site.HomePageID && page.ID == e.site.HomePageID() {
		return false
	}

	next := e.site.Clone()
	next.FindPage(pageID).Route = route
	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:  "updatePageRoute",
		Description: fmt.Sprintf("Moved page %q to %s", page.Name, route),
	}, next, e.currentSelection())
	return true
}

func (e *Editor) SetEntryPoint(pageID string) bool {
	page := e.site.FindPage(pageID)
	if page == nil || pageID == e.entryPointPageID {
		return false
	}

	sel := e.currentSelection()
	sel.entryPointPageID = pageID
	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:  "setEntryPoint",
		Description: fmt.Sprintf("Set %q as entry point", page.Name),
	}, e.site.Clone(), sel)
	return true
}

// ReorderPages puts the listed pages first, in the given order, followed by
// the pages not mentioned.
func (e *Editor) ReorderPages(pageIDs []string) bool {
	current := e.site.PageIDs()
	order := arrangeIDs(current, pageIDs)
	if sameStrings(order, current) && sameStrings(order, e.site.PageOrder) {
		return false
	}

	next := e.site.Clone()
	pages := make([]site.Page, 0, len(order))
	for _, id := range order {
		pages = append(pages, *next.FindPage(id))
	}
	next.Pages = pages
	next.PageOrder = nil
	reindexPages(next)

	e.commit(ModeStructure, site.ChangeMeta{
		ActionType:  "reorderPages",
		Description: "Reordered pages: " + quoted(order),
	}, next, e.currentSelection())
	return true
}
