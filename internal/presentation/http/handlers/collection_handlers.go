package handlers

import (
	"net/http"
	"strconv"

	"github.com/AtRiskMedia/tractstack-studio/internal/application/editor"
	"github.com/gin-gonic/gin"
)

// CollectionItemRequest carries a new collection item.
type CollectionItemRequest struct {
	Item any `json:"item"`
}

// CollectionReorderRequest swaps two items of a collection.
type CollectionReorderRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

func paramIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection index"})
		return 0, false
	}
	return index, true
}

func (h *StudioHandlers) AddCollectionItem(c *gin.Context) {
	var req CollectionItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Item == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item is required"})
		return
	}
	pageID, moduleID, key := c.Param("pageId"), c.Param("moduleId"), c.Param("key")
	h.apply(c, "add_collection_item", applied(func(ed *editor.Editor) bool {
		return ed.AddCollectionItem(pageID, moduleID, key, req.Item)
	}))
}

func (h *StudioHandlers) RemoveCollectionItem(c *gin.Context) {
	index, ok := paramIndex(c)
	if !ok {
		return
	}
	pageID, moduleID, key := c.Param("pageId"), c.Param("moduleId"), c.Param("key")
	h.apply(c, "remove_collection_item", applied(func(ed *editor.Editor) bool {
		return ed.RemoveCollectionItem(pageID, moduleID, key, index)
	}))
}

func (h *StudioHandlers) UpdateCollectionItem(c *gin.Context) {
	index, ok := paramIndex(c)
	if !ok {
		return
	}
	var partial map[string]any
	if !bindJSON(c, &partial) {
		return
	}
	pageID, moduleID, key := c.Param("pageId"), c.Param("moduleId"), c.Param("key")
	h.apply(c, "update_collection_item", applied(func(ed *editor.Editor) bool {
		return ed.UpdateCollectionItem(pageID, moduleID, key, index, partial)
	}))
}

func (h *StudioHandlers) ReorderCollectionItem(c *gin.Context) {
	var req CollectionReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	pageID, moduleID, key := c.Param("pageId"), c.Param("moduleId"), c.Param("key")
	h.apply(c, "reorder_collection_item", applied(func(ed *editor.Editor) bool {
		return ed.ReorderCollectionItem(pageID, moduleID, key, *req.From, *req.To)
	}))
}
