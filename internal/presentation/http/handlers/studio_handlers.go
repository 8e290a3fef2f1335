// Package handlers provides HTTP handlers for the studio editor API
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/AtRiskMedia/tractstack-studio/internal/application/editor"
	"github.com/AtRiskMedia/tractstack-studio/internal/application/services"
	"github.com/AtRiskMedia/tractstack-studio/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-studio/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// MutationResponse is returned by every editing endpoint. Applied is false
// when the call was a no-op; State is returned either way.
type MutationResponse struct {
	Applied bool               `json:"applied"`
	ID      string             `json:"id,omitempty"`
	State   editor.EditorState `json:"state"`
}

// FeedOptions tunes the websocket change feed.
type FeedOptions struct {
	AllowedOrigins []string
	PingInterval   time.Duration
	WriteTimeout   time.Duration
}

// StudioHandlers contains all editor HTTP handlers
type StudioHandlers struct {
	studio      *services.StudioService
	broadcaster messaging.Broadcaster
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	feed        FeedOptions
	upgrader    websocket.Upgrader
}

// NewStudioHandlers creates studio handlers with injected dependencies
func NewStudioHandlers(studio *services.StudioService, broadcaster messaging.Broadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, feed FeedOptions) *StudioHandlers {
	if feed.PingInterval <= 0 {
		feed.PingInterval = 30 * time.Second
	}
	if feed.WriteTimeout <= 0 {
		feed.WriteTimeout = 10 * time.Second
	}
	h := &StudioHandlers{
		studio:      studio,
		broadcaster: broadcaster,
		logger:      logger,
		perfTracker: perfTracker,
		feed:        feed,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *StudioHandlers) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.feed.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// apply runs one editor operation under the site lock and writes the
// resulting state.
func (h *StudioHandlers) apply(c *gin.Context, operation string, fn func(ed *editor.Editor) (bool, string)) {
	siteID, ok := middleware.GetSiteID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "site context not found"})
		return
	}
	marker := h.perfTracker.StartOperation(operation, siteID)
	defer marker.Complete()

	var resp MutationResponse
	err := h.studio.Do(c.Request.Context(), siteID, func(ed *editor.Editor) error {
		resp.Applied, resp.ID = fn(ed)
		resp.State = ed.State()
		return nil
	})
	if err != nil {
		marker.SetError(err)
		h.fail(c, siteID, operation, err)
		return
	}
	marker.AddMetadata("applied", resp.Applied)

	h.logger.Editor().Debug("Editor request completed",
		"operation", operation,
		"siteId", siteID,
		"applied", resp.Applied,
		"duration", time.Since(marker.StartTime))
	c.JSON(http.StatusOK, resp)
}

// applied adapts an operation that only reports success.
func applied(fn func(ed *editor.Editor) bool) func(ed *editor.Editor) (bool, string) {
	return func(ed *editor.Editor) (bool, string) {
		return fn(ed), ""
	}
}

// created adapts an operation that returns a new id, "" meaning no-op.
func created(fn func(ed *editor.Editor) string) func(ed *editor.Editor) (bool, string) {
	return func(ed *editor.Editor) (bool, string) {
		id := fn(ed)
		return id != "", id
	}
}

func (h *StudioHandlers) fail(c *gin.Context, siteID, operation string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidSiteID):
		status = http.StatusBadRequest
	case errors.Is(err, repositories.ErrSiteNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.logger.LogError(logging.ChannelHTTP, operation, err, siteID, nil)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func paramMode(c *gin.Context) (editor.Mode, bool) {
	mode, ok := editor.ParseMode(c.Param("mode"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history mode, expected structure or detail"})
	}
	return mode, ok
}
