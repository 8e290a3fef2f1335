package handlers

import (
	"github.com/AtRiskMedia/tractstack-studio/internal/application/editor"
	"github.com/gin-gonic/gin"
)

// SetStyleRequest switches the site preset.
type SetStyleRequest struct {
	StyleID string `json:"styleId" binding:"required"`
	editor.SetStyleOptions
}

func (h *StudioHandlers) UpdateStyleOverrides(c *gin.Context) {
	var partial map[string]any
	if !bindJSON(c, &partial) {
		return
	}
	h.apply(c, "update_style_overrides", applied(func(ed *editor.Editor) bool {
		return ed.UpdateStyleOverrides(partial)
	}))
}

func (h *StudioHandlers) SetStyle(c *gin.Context) {
	var req SetStyleRequest
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, "set_style", applied(func(ed *editor.Editor) bool {
		return ed.SetStyleID(req.StyleID, req.SetStyleOptions)
	}))
}

func (h *StudioHandlers) UpdateNavigation(c *gin.Context) {
	var partial map[string]any
	if !bindJSON(c, &partial) {
		return
	}
	h.apply(c, "update_navigation", applied(func(ed *editor.Editor) bool {
		return ed.UpdateNavigation(partial)
	}))
}
