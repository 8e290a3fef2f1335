package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/AtRiskMedia/tractstack-studio/internal/application/editor"
	"github.com/AtRiskMedia/tractstack-studio/internal/domain/entities/site"
	"github.com/AtRiskMedia/tractstack-studio/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

func (h *StudioHandlers) Undo(c *gin.Context) {
	mode, ok := paramMode(c)
	if !ok {
		return
	}
	h.apply(c, "undo", applied(func(ed *editor.Editor) bool {
		return ed.Undo(mode)
	}))
}

func (h *StudioHandlers) Redo(c *gin.Context) {
	mode, ok := paramMode(c)
	if !ok {
		return
	}
	h.apply(c, "redo", applied(func(ed *editor.Editor) bool {
		return ed.Redo(mode)
	}))
}

// GetHistory returns the entries of one history stack
func (h *StudioHandlers) GetHistory(c *gin.Context) {
	mode, ok := paramMode(c)
	if !ok {
		return
	}
	siteID, _ := middleware.GetSiteID(c)

	var view editor.HistoryView
	var canUndo, canRedo bool
	err := h.studio.Do(c.Request.Context(), siteID, func(ed *editor.Editor) error {
		view = ed.History(mode)
		canUndo, canRedo = ed.CanUndo(mode), ed.CanRedo(mode)
		return nil
	})
	if err != nil {
		h.fail(c, siteID, "get_history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"history": view,
		"canUndo": canUndo,
		"canRedo": canRedo,
	})
}

func (h *StudioHandlers) StartTransaction(c *gin.Context) {
	var req editor.TransactionOptions
	if !bindJSON(c, &req) {
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = c.GetHeader("X-Conversation-ID")
	}
	h.apply(c, "start_transaction", applied(func(ed *editor.Editor) bool {
		return ed.StartTransaction(req)
	}))
}

func (h *StudioHandlers) RegisterChange(c *gin.Context) {
	var req site.ChangeMeta
	if !bindJSON(c, &req) {
		return
	}
	h.apply(c, "register_change", applied(func(ed *editor.Editor) bool {
		return ed.RegisterChange(req)
	}))
}

func (h *StudioHandlers) CommitTransaction(c *gin.Context) {
	var req editor.EndOptions
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	h.apply(c, "commit_transaction", applied(func(ed *editor.Editor) bool {
		return ed.EndTransaction(req)
	}))
}

func (h *StudioHandlers) CancelTransaction(c *gin.Context) {
	h.apply(c, "cancel_transaction", applied(func(ed *editor.Editor) bool {
		return ed.CancelTransaction()
	}))
}
