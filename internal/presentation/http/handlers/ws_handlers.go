package handlers

import (
	"github.com/AtRiskMedia/tractstack-studio/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-studio/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// ChangeFeed upgrades the request to a websocket that receives every change
// event of the site
func (h *StudioHandlers) ChangeFeed(c *gin.Context) {
	siteID, _ := middleware.GetSiteID(c)

	// events only flow for open sites
	if _, err := h.studio.Open(c.Request.Context(), siteID); err != nil {
		h.fail(c, siteID, "change_feed", err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Messaging().Warn("Websocket upgrade failed", "error", err.Error(), "siteId", siteID)
		return
	}

	client := messaging.NewClient(siteID, conn)
	h.broadcaster.Register(client)
	h.logger.Messaging().Info("Change feed connected", "siteId", siteID, "clientId", client.ID)

	go client.WritePump(h.feed.PingInterval, h.feed.WriteTimeout)
	client.ReadPump(h.broadcaster, 2*h.feed.PingInterval)

	h.logger.Messaging().Info("Change feed disconnected", "siteId", siteID, "clientId", client.ID)
}
