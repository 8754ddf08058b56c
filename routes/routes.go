package routes

import (
	"conflow/controllers"
	"conflow/middleware"
	"conflow/models"
	"conflow/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	cameraReadyJob := services.NewCameraReadyJobService(nil, nil)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Conflow API is running",
				})
			})

			// Scheduled trigger, guarded by its own bearer secret
			public.POST("/cron/camera-ready", controllers.CameraReadyCronHandler(cameraReadyJob))
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Conferences
			conferences := protected.Group("/conferences")
			{
				conferences.GET("", controllers.GetConferences)
				conferences.GET("/:id", controllers.GetConference)
				conferences.GET("/:id/decisions", middleware.RequireRole(models.RoleChair), controllers.GetConferenceDecisions)

				// Only chairs manage conferences
				conferences.POST("", middleware.RequireRole(models.RoleChair), controllers.CreateConference)
				conferences.PUT("/:id", middleware.RequireRole(models.RoleChair), controllers.UpdateConference)
			}

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("", controllers.GetSubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.GET("/:id/reviews", middleware.RequireRole(models.RoleChair), controllers.GetSubmissionReviews)

				// Only authors create/update/withdraw their papers
				submissions.POST("", middleware.RequireRole(models.RoleAuthor), controllers.CreateSubmission)
				submissions.PUT("/:id", middleware.RequireRole(models.RoleAuthor), controllers.UpdateSubmission)
				submissions.DELETE("/:id", middleware.RequireRole(models.RoleAuthor), controllers.WithdrawSubmission)
			}

			// Reviewer assignments
			assignments := protected.Group("/assignments")
			{
				assignments.GET("/mine", middleware.RequireRole(models.RoleReviewer, models.RoleChair), controllers.GetMyAssignments)
				assignments.POST("", middleware.RequireRole(models.RoleChair), controllers.AssignReviewer)
				assignments.PUT("/:id/chair-reviewer", middleware.RequireRole(models.RoleChair), controllers.AssignChairReviewer)
			}

			// Reviews and decisions
			protected.POST("/reviews", middleware.RequireRole(models.RoleReviewer, models.RoleChair), controllers.SubmitReview)
			protected.POST("/decisions", middleware.RequireRole(models.RoleChair), controllers.CreateDecision)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}
		}
	}
}
