package controllers

import (
	"errors"
	"log"
	"net/http"

	"conference-management-api/config"
	"conference-management-api/realtime"
	"conference-management-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var notifier realtime.Notifier

// SetNotifier injects the real-time channel used by the review services.
// Called once from main; tests inject a recording fake.
func SetNotifier(n realtime.Notifier) { notifier = n }

func getDB() *gorm.DB { return config.DB }

func notificationService() *services.NotificationService {
	return services.NewNotificationService(getDB(), notifier)
}

func assignmentService() *services.AssignmentService {
	return services.NewAssignmentService(getDB(), notificationService())
}

func scoringService() *services.ScoringService {
	return services.NewScoringService(getDB(), notificationService())
}

func trackingService() *services.TrackingService {
	return services.NewTrackingService(getDB(), notificationService())
}

func getCurrentUserID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id, true
		}
	}
	return 0, false
}

// respondServiceError maps service error kinds to HTTP statuses. Internal
// details never cross the boundary on unexpected failures.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func sendMailSafe(to []string, subject, html string) {
	if err := config.SendMail(to, subject, html); err != nil {
		log.Printf("email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}
