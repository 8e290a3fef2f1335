// Package services provides pure domain services for the studio document:
// style composition and site normalization.
package services

import (
	"strings"

	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
)

// PresetCatalog is the lookup table of named style presets.
type PresetCatalog interface {
	Preset(id string) (site.Style, bool)
	DefaultID() string
	IDs() []string
}

// StyleKeys lists the override keys a site may carry. Anything else is dropped.
var StyleKeys = []string{
	"primary", "secondary", "grey", "accent", "neutral",
	"page", "surface", "background",
	"text", "textMuted", "border",
	"fontHeading", "fontBody",
	"radius", "spacing", "shadow",
}

var styleKeySet = func() map[string]bool {
	set := make(map[string]bool, len(StyleKeys))
	for _, k := range StyleKeys {
		set[k] = true
	}
	return set
}()

// neutralTargets receive a "neutral" override unless overridden themselves.
var neutralTargets = []string{"page", "surface", "background"}

type StyleResolver struct {
	catalog PresetCatalog
}

func NewStyleResolver(catalog PresetCatalog) *StyleResolver {
	return &StyleResolver{catalog: catalog}
}

// Catalog exposes the preset table backing the resolver.
func (r *StyleResolver) Catalog() PresetCatalog {
	return r.catalog
}

// ResolveID validates a preset id, falling back to the catalog default.
func (r *StyleResolver) ResolveID(styleID string) string {
	id := strings.TrimSpace(styleID)
	if _, ok := r.catalog.Preset(id); ok {
		return id
	}
	return r.catalog.DefaultID()
}

// Sanitize keeps recognized keys with non-empty string values.
func (r *StyleResolver) Sanitize(raw map[string]any) site.Style {
	out := site.Style{}
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" && styleKeySet[k] {
			out[k] = s
		}
	}
	return out
}

func (r *StyleResolver) sanitizeStyle(overrides site.Style) site.Style {
	raw := make(map[string]any, len(overrides))
	for k, v := range overrides {
		raw[k] = v
	}
	return r.Sanitize(raw)
}

// Compose merges sanitized overrides over the preset. The result depends only
// on its arguments.
func (r *StyleResolver) Compose(styleID string, overrides site.Style) site.Style {
	preset, _ := r.catalog.Preset(r.ResolveID(styleID))
	out := preset.Clone()
	clean := r.sanitizeStyle(overrides)

	for k, v := range clean {
		switch k {
		case "neutral":
			out[k] = v
			for _, target := range neutralTargets {
				if _, explicit := clean[target]; !explicit {
					out[target] = v
				}
			}
		case "secondary":
			out[k] = v
			if _, explicit := clean["grey"]; !explicit {
				out["grey"] = v
			}
		default:
			out[k] = v
		}
	}
	return out
}
