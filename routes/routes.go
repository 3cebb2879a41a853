package routes

import (
	"conference-management-api/controllers"
	"conference-management-api/middleware"
	"conference-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)
			public.POST("/register", controllers.Register)

			// Submission works with or without a session; unknown authors
			// get an account created on the fly.
			public.POST("/communications/submit",
				middleware.OptionalAuthMiddleware(), controllers.SubmitCommunication)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Conference Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)

			// Communications
			communications := protected.Group("/communications")
			{
				communications.GET("", middleware.RequireRole(models.RoleAdmin), controllers.GetCommunications)
				communications.GET("/my", controllers.GetMyCommunications)
				communications.GET("/committee-members", middleware.RequireRole(models.RoleAdmin), controllers.GetCommitteeMembers)
				communications.GET("/assigned-to-me", middleware.RequireRole(models.RoleCommittee), controllers.GetAssignedToMe)
				communications.POST("/delete-bulk", middleware.RequireRole(models.RoleAdmin), controllers.DeleteBulkCommunications)

				communications.POST("/:id/assign-reviewers", middleware.RequireRole(models.RoleAdmin), controllers.AssignReviewers)
				communications.GET("/:id/tracking", middleware.RequireRole(models.RoleAdmin), controllers.GetTrackingForCommunication)
			}

			// Reviewer actions on a single assignment
			assignments := protected.Group("/assignments")
			assignments.Use(middleware.RequireRole(models.RoleCommittee))
			{
				assignments.POST("/:id/score", controllers.SetScore)
				assignments.POST("/:id/track", controllers.TrackAction)
			}

			// Notifications, one sub-tree per audience
			notifications := protected.Group("/notifications")
			{
				admin := notifications.Group("/admin")
				admin.Use(middleware.RequireRole(models.RoleAdmin))
				{
					admin.GET("", controllers.GetAdminNotifications)
					admin.POST("/mark-all-read", controllers.MarkAllAdminNotificationsRead)
				}

				reviewer := notifications.Group("/reviewer")
				reviewer.Use(middleware.RequireRole(models.RoleCommittee))
				{
					reviewer.GET("", controllers.GetReviewerNotifications)
					reviewer.POST("/:id/read", controllers.MarkReviewerNotificationRead)
					reviewer.POST("/mark-all-read", controllers.MarkAllReviewerNotificationsRead)
				}

				user := notifications.Group("/user")
				{
					user.GET("", controllers.GetUserNotifications)
					user.POST("/:id/read", controllers.MarkUserNotificationRead)
					user.POST("/mark-all-read", controllers.MarkAllUserNotificationsRead)
				}
			}
		}
	}
}
