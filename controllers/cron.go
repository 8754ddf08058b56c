package controllers

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"conflow/services"

	"github.com/gin-gonic/gin"
)

// cameraReadyRunner is what the cron handler needs from the job.
type cameraReadyRunner interface {
	Run(ctx context.Context) (*services.CameraReadySummary, error)
}

// CameraReadyCronHandler returns the handler for the scheduled camera-ready
// trigger. The caller must present Authorization: Bearer $CRON_SECRET; a
// missing or mismatched token is rejected before any job logic runs.
func CameraReadyCronHandler(job cameraReadyRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := os.Getenv("CRON_SECRET")
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cron trigger not configured"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || token == authHeader ||
			subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		summary, err := job.Run(c.Request.Context())
		if err != nil {
			log.Printf("camera-ready cron run failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "camera-ready job failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"summary": gin.H{
				"decisions_processed":      summary.DecisionsProcessed,
				"conferences_transitioned": summary.ConferencesTransitioned,
				"notifications_attempted":  summary.NotificationsAttempted,
				"notifications_failed":     summary.NotificationsFailed,
			},
		})
	}
}
