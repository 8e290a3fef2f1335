package handlers

import (
	"net/http"
	"strconv"

	"github.com/AtRiskMedia/tractstack-studio/internal/application/editor"
	"github.com/AtRiskMedia/tractstack-studio/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SelectionRequest selects a page, a module, or both. A module wins when it
// lives on another page.
type SelectionRequest struct {
	PageID   string `json:"pageId"`
	ModuleID string `json:"moduleId"`
}

// HeightRequest reports a rendered module height.
type HeightRequest struct {
	Height *int `json:"height" binding:"required"`
}

// GetState returns the full editor state of a site, opening it if needed
func (h *StudioHandlers) GetState(c *gin.Context) {
	siteID, _ := middleware.GetSiteID(c)
	state, err := h.studio.Open(c.Request.Context(), siteID)
	if err != nil {
		h.fail(c, siteID, "get_state", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ImportSite replaces the document with the posted site
func (h *StudioHandlers) ImportSite(c *gin.Context) {
	siteID, _ := middleware.GetSiteID(c)
	var req editor.LoadInput
	if !bindJSON(c, &req) {
		return
	}
	state, err := h.studio.Import(c.Request.Context(), siteID, req)
	if err != nil {
		h.fail(c, siteID, "import", err)
		return
	}
	c.JSON(http.StatusOK, MutationResponse{Applied: true, State: state})
}

// SaveSite stores the current document as a new version
func (h *StudioHandlers) SaveSite(c *gin.Context) {
	siteID, _ := middleware.GetSiteID(c)
	version, err := h.studio.Save(c.Request.Context(), siteID)
	if err != nil {
		h.fail(c, siteID, "save", err)
		return
	}
	c.JSON(http.StatusOK, version)
}

// GetVersions lists the saved versions of a site
func (h *StudioHandlers) GetVersions(c *gin.Context) {
	siteID, _ := middleware.GetSiteID(c)
	versions, err := h.studio.Versions(c.Request.Context(), siteID)
	if err != nil {
		h.fail(c, siteID, "list_versions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"versions": versions,
		"count":    len(versions),
	})
}

// LoadVersion replaces the document with a saved version
func (h *StudioHandlers) LoadVersion(c *gin.Context) {
	siteID, _ := middleware.GetSiteID(c)
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version"})
		return
	}
	state, err := h.studio.LoadVersion(c.Request.Context(), siteID, version)
	if err != nil {
		h.fail(c, siteID, "load_version", err)
		return
	}
	c.JSON(http.StatusOK, MutationResponse{Applied: true, State: state})
}

// Select changes the selected page and module
func (h *StudioHandlers) Select(c *gin.Context) {
	var req SelectionRequest
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, "select", applied(func(ed *editor.Editor) bool {
		changed := false
		if req.PageID != "" {
			changed = ed.SelectPage(req.PageID) || changed
		}
		if req.ModuleID != "" {
			changed = ed.SelectModule(req.ModuleID) || changed
		}
		return changed
	}))
}

// SetModuleHeight records a measured module height
func (h *StudioHandlers) SetModuleHeight(c *gin.Context) {
	var req HeightRequest
	if !bindJSON(c, &req) {
		return
	}
	moduleID := c.Param("moduleId")
	h.apply(c, "set_module_height", applied(func(ed *editor.Editor) bool {
		return ed.SetModuleHeight(moduleID, *req.Height)
	}))
}

// GetPresets lists the available style presets
func (h *StudioHandlers) GetPresets(c *gin.Context) {
	presets := h.studio.Presets()
	c.JSON(http.StatusOK, gin.H{
		"presets": presets,
		"count":   len(presets),
	})
}

// Health reports the open sites
func (h *StudioHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"openSites": h.studio.OpenSites(),
	})
}

// GetMetrics returns timing aggregates for editor operations
func (h *StudioHandlers) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.perfTracker.Snapshot())
}
