package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mossy-p/peercall/internal/signaling"
)

const version = "1.0.0"

// Status reports service liveness plus live connection and call
// counts.
func Status(hub *signaling.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "online",
			"time":    time.Now().UTC().Format(time.RFC3339),
			"version": version,
			"clients": hub.ClientCount(),
			"calls":   hub.CallCount(),
		})
	}
}
