package handlers

import (
	"github.com/AtRiskMedia/tractstack-studio/internal/application/editor"
	"github.com/gin-gonic/gin"
)

// AddModuleRequest adds a module, at Index when given.
type AddModuleRequest struct {
	editor.NewModule
	Index *int `json:"index"`
}

// MoveModuleRequest moves a module to another position, possibly on another page.
type MoveModuleRequest struct {
	ToPageID string `json:"toPageId" binding:"required"`
	ToIndex  int    `json:"toIndex"`
}

// ModuleOrderRequest lists module ids in their new order.
type ModuleOrderRequest struct {
	ModuleIDs []string `json:"moduleIds" binding:"required"`
}

// PropertyRequest carries the new value of a module property.
type PropertyRequest struct {
	Value any `json:"value"`
}

// BatchContentRequest maps module ids to partial content.
type BatchContentRequest struct {
	Updates map[string]map[string]any `json:"updates" binding:"required"`
}

func (h *StudioHandlers) AddModule(c *gin.Context) {
	var req AddModuleRequest
	if !bindJSON(c, &req) {
		return
	}
	pageID := c.Param("pageId")
	h.apply(c, "add_module", created(func(ed *editor.Editor) string {
		if req.Index != nil {
			return ed.InsertModule(pageID, req.NewModule, *req.Index)
		}
		return ed.AddModule(pageID, req.NewModule)
	}))
}

func (h *StudioHandlers) RemoveModule(c *gin.Context) {
	pageID, moduleID := c.Param("pageId"), c.Param("moduleId")
	h.apply(c, "remove_module", applied(func(ed *editor.Editor) bool {
		return ed.RemoveModule(pageID, moduleID)
	}))
}

func (h *StudioHandlers) DuplicateModule(c *gin.Context) {
	pageID, moduleID := c.Param("pageId"), c.Param("moduleId")
	h.apply(c, "duplicate_module", created(func(ed *editor.Editor) string {
		return ed.DuplicateModule(pageID, moduleID)
	}))
}

func (h *StudioHandlers) MoveModule(c *gin.Context) {
	var req MoveModuleRequest
	if !bindJSON(c, &req) {
		return
	}
	pageID, moduleID := c.Param("pageId"), c.Param("moduleId")
	h.apply(c, "move_module", applied(func(ed *editor.Editor) bool {
		return ed.MoveModule(pageID, req.ToPageID, moduleID, req.ToIndex)
	}))
}

func (h *StudioHandlers) ReorderModules(c *gin.Context) {
	var req ModuleOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	pageID := c.Param("pageId")
	h.apply(c, "reorder_modules", applied(func(ed *editor.Editor) bool {
		return ed.ReorderModules(pageID, req.ModuleIDs)
	}))
}

func (h *StudioHandlers) UpdateModuleContent(c *gin.Context) {
	var partial map[string]any
	if !bindJSON(c, &partial) {
		return
	}
	pageID, moduleID := c.Param("pageId"), c.Param("moduleId")
	h.apply(c, "update_module_content", applied(func(ed *editor.Editor) bool {
		return ed.UpdateModuleContent(pageID, moduleID, partial)
	}))
}

func (h *StudioHandlers) UpdateModuleProperty(c *gin.Context) {
	var req PropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	pageID, moduleID, key := c.Param("pageId"), c.Param("moduleId"), c.Param("key")
	h.apply(c, "update_module_property", applied(func(ed *editor.Editor) bool {
		return ed.UpdateModuleProperty(pageID, moduleID, key, req.Value)
	}))
}

// BatchUpdateModuleContents updates several modules of the selected page as one edit
func (h *StudioHandlers) BatchUpdateModuleContents(c *gin.Context) {
	var req BatchContentRequest
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, "batch_update_module_contents", applied(func(ed *editor.Editor) bool {
		return ed.BatchUpdateModuleContents(req.Updates)
	}))
}
