// Package site defines the editor's document entities: the site, its pages,
// their modules, and the snapshots recorded by the history stacks.
package site

// HomePageID is the conventional id of the landing page.
const HomePageID = "home"

// Style is a resolved or sparse set of design tokens keyed by token name.
type Style map[string]string

// Clone returns a copy of the style map.
func (s Style) Clone() Style {
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type Module struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	Layout  *string `json:"layout"`
	Order   int     `json:"order"`
	Enabled bool    `json:"enabled"`
	Content Content `json:"content"`
}

// Clone returns a deep copy of the module.
func (m Module) Clone() Module {
	out := m
	if m.Layout != nil {
		layout := *m.Layout
		out.Layout = &layout
	}
	out.Content = m.Content.Clone()
	return out
}

// LayoutValue returns the layout name, or "" when none is set.
func (m Module) LayoutValue() string {
	if m.Layout == nil {
		return ""
	}
	return *m.Layout
}

type Page struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Route   string   `json:"route"`
	Modules []Module `json:"modules"`
	Order   int      `json:"order"`
}

// Clone returns a deep copy of the page and its modules.
func (p Page) Clone() Page {
	out := p
	out.Modules = make([]Module, len(p.Modules))
	for i, m := range p.Modules {
		out.Modules[i] = m.Clone()
	}
	return out
}

// ModuleIndex returns the position of a module on the page, or -1.
func (p *Page) ModuleIndex(moduleID string) int {
	for i := range p.Modules {
		if p.Modules[i].ID == moduleID {
			return i
		}
	}
	return -1
}

// ReindexModules rewrites module orders to their positions.
func (p *Page) ReindexModules() {
	for i := range p.Modules {
		p.Modules[i].Order = i
	}
}

// Site is the root document edited by the studio.
type Site struct {
	StyleID        string   `json:"styleId"`
	StyleOverrides Style    `json:"styleOverrides"`
	Style          Style    `json:"style"`
	Navigation     Content  `json:"navigation"`
	Pages          []Page   `json:"pages"`
	PageOrder      []string `json:"pageOrder"`
}

// Clone returns a deep copy of the site.
func (s *Site) Clone() *Site {
	if s == nil {
		return nil
	}
	out := &Site{
		StyleID:        s.StyleID,
		StyleOverrides: s.StyleOverrides.Clone(),
		Style:          s.Style.Clone(),
		Navigation:     s.Navigation.Clone(),
		Pages:          make([]Page, len(s.Pages)),
		PageOrder:      append([]string{}, s.PageOrder...),
	}
	for i, p := range s.Pages {
		out.Pages[i] = p.Clone()
	}
	return out
}

// PageIndex returns the position of a page, or -1.
func (s *Site) PageIndex(pageID string) int {
	for i := range s.Pages {
		if s.Pages[i].ID == pageID {
			return i
		}
	}
	return -1
}

// FindPage returns a pointer to the page with the given id, or nil.
func (s *Site) FindPage(pageID string) *Page {
	if i := s.PageIndex(pageID); i >= 0 {
		return &s.Pages[i]
	}
	return nil
}

// LocateModule finds a module anywhere in the document.
func (s *Site) LocateModule(moduleID string) (pageIndex, moduleIndex int, ok bool) {
	for pi := range s.Pages {
		if mi := s.Pages[pi].ModuleIndex(moduleID); mi >= 0 {
			return pi, mi, true
		}
	}
	return -1, -1, false
}

// PageIDs returns the page ids in document order.
func (s *Site) PageIDs() []string {
	ids := make([]string, len(s.Pages))
	for i, p := range s.Pages {
		ids[i] = p.ID
	}
	return ids
}

// HomePageID returns the id of the protected landing page: the page with id
// "home", else the page routed at "/", else the first page. Normalized
// documents always have one of the first two.
func (s *Site) HomePageID() string {
	if len(s.Pages) == 0 {
		return ""
	}
	for _, p := range s.Pages {
		if p.ID == HomePageID {
			return p.ID
		}
	}
	for _, p := range s.Pages {
		if p.Route == "/" {
			return p.ID
		}
	}
	return s.Pages[0].ID
}

// HasID reports whether a page or module already uses the id.
func (s *Site) HasID(id string) bool {
	if s.PageIndex(id) >= 0 {
		return true
	}
	_, _, ok := s.LocateModule(id)
	return ok
}

// HasRoute reports whether any page is served at the route.
func (s *Site) HasRoute(route string) bool {
	for _, p := range s.Pages {
		if p.Route == route {
			return true
		}
	}
	return false
}

// Reindex rewrites page and module orders to their positions and derives
// PageOrder from the page sequence.
func (s *Site) Reindex() {
	for i := range s.Pages {
		s.Pages[i].Order = i
		s.Pages[i].ReindexModules()
	}
	s.PageOrder = s.PageIDs()
}

// Raw returns the JSON-shaped view of the site, suitable for feeding back into
// the normalizer or for serialization.
func (s *Site) Raw() map[string]any {
	pages := make([]any, len(s.Pages))
	for i, p := range s.Pages {
		modules := make([]any, len(p.Modules))
		for j, m := range p.Modules {
			var layout any
			if m.Layout != nil {
				layout = *m.Layout
			}
			modules[j] = map[string]any{
				"id":      m.ID,
				"type":    m.Type,
				"name":    m.Name,
				"layout":  layout,
				"order":   float64(m.Order),
				"enabled": m.Enabled,
				"content": map[string]any(m.Content.Clone()),
			}
		}
		pages[i] = map[string]any{
			"id":      p.ID,
			"name":    p.Name,
			"route":   p.Route,
			"order":   float64(p.Order),
			"modules": modules,
		}
	}

	pageOrder := make([]any, len(s.PageOrder))
	for i, id := range s.PageOrder {
		pageOrder[i] = id
	}

	return map[string]any{
		"styleId":        s.StyleID,
		"styleOverrides": styleRaw(s.StyleOverrides),
		"style":          styleRaw(s.Style),
		"navigation":     map[string]any(s.Navigation.Clone()),
		"pages":          pages,
		"pageOrder":      pageOrder,
	}
}

func styleRaw(s Style) map[string]any {
	out := make(map[string]any, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
