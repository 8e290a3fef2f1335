package handlers

import (
	"github.com/AtRiskMedia/tractstack-studio/internal/application/editor"
	"github.com/gin-gonic/gin"
)

// RenamePageRequest defines the structure for renaming a page.
type RenamePageRequest struct {
	Name string `json:"name" binding:"required"`
}

// PageRouteRequest defines the structure for changing a page route.
type PageRouteRequest struct {
	Route string `json:"route" binding:"required"`
}

// PageIDRequest names a single page.
type PageIDRequest struct {
	PageID string `json:"pageId" binding:"required"`
}

// PageOrderRequest lists page ids in their new order.
type PageOrderRequest struct {
	PageIDs []string `json:"pageIds" binding:"required"`
}

func (h *StudioHandlers) AddPage(c *gin.Context) {
	var req editor.NewPage
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, "add_page", created(func(ed *editor.Editor) string {
		return ed.AddPage(req)
	}))
}

func (h *StudioHandlers) RemovePage(c *gin.Context) {
	pageID := c.Param("pageId")
	h.apply(c, "remove_page", applied(func(ed *editor.Editor) bool {
		return ed.RemovePage(pageID)
	}))
}

func (h *StudioHandlers) RenamePage(c *gin.Context) {
	var req RenamePageRequest
	if !bindJSON(c, &req) {
		return
	}
	pageID := c.Param("pageId")
	h.apply(c, "rename_page", applied(func(ed *editor.Editor) bool {
		return ed.RenamePage(pageID, req.Name)
	}))
}

func (h *StudioHandlers) UpdatePageRoute(c *gin.Context) {
	var req PageRouteRequest
	if !bindJSON(c, &req) {
		return
	}
	pageID := c.Param("pageId")
	h.apply(c, "update_page_route", applied(func(ed *editor.Editor) bool {
		return ed.UpdatePageRoute(pageID, req.Route)
	}))
}

func (h *StudioHandlers) SetEntryPoint(c *gin.Context) {
	var req PageIDRequest
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, "set_entry_point", applied(func(ed *editor.Editor) bool {
		return ed.SetEntryPoint(req.PageID)
	}))
}

func (h *StudioHandlers) ReorderPages(c *gin.Context) {
	var req PageOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, "reorder_pages", applied(func(ed *editor.Editor) bool {
		return ed.ReorderPages(req.PageIDs)
	}))
}
