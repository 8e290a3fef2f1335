// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

const siteContextKey = "siteId"

var siteIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// SiteMiddleware validates the :siteId path parameter and stores it for
// handlers to access
func SiteMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		siteID := c.Param("siteId")
		if siteID == "" || !siteIDPattern.MatchString(siteID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site id"})
			c.Abort()
			return
		}

		c.Set(siteContextKey, siteID)
		c.Next()
	}
}

// GetSiteID retrieves the site id from gin context
func GetSiteID(c *gin.Context) (string, bool) {
	siteID, exists := c.Get(siteContextKey)
	if !exists {
		return "", false
	}
	id, ok := siteID.(string)
	return id, ok
}
