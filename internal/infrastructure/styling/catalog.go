// Package styling provides the static catalog of named style presets.
package styling

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

// DefaultPresetID is used when a site names an unknown preset.
const DefaultPresetID = "modern"

var builtinPresets = map[string]site.Style{
	"modern": {
		"primary":     "#2563eb",
		"secondary":   "#64748b",
		"grey":        "#64748b",
		"accent":      "#f59e0b",
		"neutral":     "#f8fafc",
		"page":        "#ffffff",
		"surface":     "#f8fafc",
		"background":  "#f1f5f9",
		"text":        "#0f172a",
		"textMuted":   "#475569",
		"border":      "#e2e8f0",
		"fontHeading": "Inter",
		"fontBody":    "Inter",
		"radius":      "8px",
		"spacing":     "1rem",
		"shadow":      "0 1px 3px rgba(15,23,42,0.12)",
	},
	"classic": {
		"primary":     "#7c2d12",
		"secondary":   "#57534e",
		"grey":        "#57534e",
		"accent":      "#b45309",
		"neutral":     "#fafaf9",
		"page":        "#fffbf5",
		"surface":     "#fafaf9",
		"background":  "#f5f5f4",
		"text":        "#1c1917",
		"textMuted":   "#57534e",
		"border":      "#d6d3d1",
		"fontHeading": "Playfair Display",
		"fontBody":    "Georgia",
		"radius":      "2px",
		"spacing":     "1.25rem",
		"shadow":      "none",
	},
	"midnight": {
		"primary":     "#818cf8",
		"secondary":   "#94a3b8",
		"grey":        "#94a3b8",
		"accent":      "#f472b6",
		"neutral":     "#1e293b",
		"page":        "#0f172a",
		"surface":     "#1e293b",
		"background":  "#020617",
		"text":        "#f8fafc",
		"textMuted":   "#cbd5e1",
		"border":      "#334155",
		"fontHeading": "Space Grotesk",
		"fontBody":    "Inter",
		"radius":      "12px",
		"spacing":     "1rem",
		"shadow":      "0 4px 12px rgba(0,0,0,0.5)",
	},
	"minimal": {
		"primary":     "#111111",
		"secondary":   "#6b7280",
		"grey":        "#6b7280",
		"accent":      "#111111",
		"neutral":     "#ffffff",
		"page":        "#ffffff",
		"surface":     "#ffffff",
		"background":  "#ffffff",
		"text":        "#111111",
		"textMuted":   "#6b7280",
		"border":      "#e5e7eb",
		"fontHeading": "Helvetica Neue",
		"fontBody":    "Helvetica Neue",
		"radius":      "0px",
		"spacing":     "1.5rem",
		"shadow":      "none",
	},
	"vibrant": {
		"primary":     "#db2777",
		"secondary":   "#7c3aed",
		"grey":        "#7c3aed",
		"accent":      "#facc15",
		"neutral":     "#fdf4ff",
		"page":        "#ffffff",
		"surface":     "#fdf4ff",
		"background":  "#fae8ff",
		"text":        "#1f1147",
		"textMuted":   "#6b21a8",
		"border":      "#f5d0fe",
		"fontHeading": "Poppins",
		"fontBody":    "Nunito",
		"radius":      "16px",
		"spacing":     "1rem",
		"shadow":      "0 8px 24px rgba(219,39,119,0.25)",
	},
}

// Catalog is an immutable table of named presets.
type Catalog struct {
	presets   map[string]site.Style
	defaultID string
}

// NewCatalog returns the built-in presets.
func NewCatalog() *Catalog {
	presets := make(map[string]site.Style, len(builtinPresets))
	for id, style := range builtinPresets {
		presets[id] = style.Clone()
	}
	return &Catalog{presets: presets, defaultID: DefaultPresetID}
}

// catalogFile is the on-disk shape accepted by LoadCatalog.
type catalogFile struct {
	DefaultID string                       `json:"defaultId"`
	Presets   map[string]map[string]string `json:"presets"`
}

// LoadCatalog starts from the built-in presets and merges the presets found in
// a JSON file. An empty path returns the built-ins.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := NewCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read style presets %s: %w", path, err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse style presets %s: %w", path, err)
	}

	for id, fields := range file.Presets {
		if id == "" {
			continue
		}
		catalog.presets[id] = site.Style(fields).Clone()
	}
	if file.DefaultID != "" {
		if _, ok := catalog.presets[file.DefaultID]; !ok {
			return nil, fmt.Errorf("default preset %q is not defined", file.DefaultID)
		}
		catalog.defaultID = file.DefaultID
	}
	return catalog, nil
}

// WithDefault returns a copy of the catalog using another default preset.
// Unknown ids leave the default unchanged.
func (c *Catalog) WithDefault(id string) *Catalog {
	out := &Catalog{presets: c.presets, defaultID: c.defaultID}
	if _, ok := c.presets[id]; ok {
		out.defaultID = id
	}
	return out
}

func (c *Catalog) Preset(id string) (site.Style, bool) {
	style, ok := c.presets[id]
	if !ok {
		return nil, false
	}
	return style.Clone(), true
}

func (c *Catalog) DefaultID() string { return c.defaultID }

func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.presets))
	for id := range c.presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
