package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitcourse/backend/internal/domain"
	"fitcourse/backend/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	courseService service.CourseService,
	workoutService service.WorkoutService,
	enrollmentService service.EnrollmentService,
	completionService service.CompletionService,
	recipeService service.RecipeService,
	chatService service.ChatService,
) {

	authHandler := NewAuthHandler(authService)
	courseHandler := NewCourseHandler(courseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	enrollmentHandler := NewEnrollmentHandler(enrollmentService, completionService)
	recipeHandler := NewRecipeHandler(recipeService)
	chatHandler := NewChatHandler(chatService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.String(), "role": role})
		})

		// --- Catalog (any authenticated user) ---
		protected.GET("/courses", courseHandler.ListCourses)
		protected.GET("/courses/:id", courseHandler.GetCourse)
		protected.GET("/workouts", workoutHandler.ListWorkouts)
		protected.GET("/workouts/:id", workoutHandler.GetWorkout)
		protected.GET("/recipes", recipeHandler.ListRecipes)
		protected.GET("/recipes/:id", recipeHandler.GetRecipe)

		// --- Enrollment and calendar ---
		enrollmentGroup := protected.Group("/enrollments")
		{
			enrollmentGroup.POST("", enrollmentHandler.Enroll)
			enrollmentGroup.DELETE("", enrollmentHandler.Unenroll)
			enrollmentGroup.GET("/calendar", enrollmentHandler.GetCalendar)
			enrollmentGroup.PUT("/schedule", enrollmentHandler.ChangeSchedule)
			enrollmentGroup.POST("/completions", enrollmentHandler.RecordCompletion)
		}

		// --- Support chat ---
		chatGroup := protected.Group("/chat")
		{
			chatGroup.POST("/messages", chatHandler.SendMessage)
			chatGroup.GET("/messages", chatHandler.GetThread)
		}

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			courseGroup := adminGroup.Group("/courses")
			{
				courseGroup.POST("", courseHandler.CreateCourse)
				courseGroup.PUT("/:id", courseHandler.UpdateCourse)
				courseGroup.DELETE("/:id", courseHandler.DeleteCourse)

				courseGroup.POST("/:id/template-days", courseHandler.AddTemplateDay)
				courseGroup.PUT("/:id/template-days/:dayId", courseHandler.UpdateTemplateDay)
				courseGroup.DELETE("/:id/template-days/:dayId", courseHandler.DeleteTemplateDay)

				courseGroup.POST("/:id/validate", courseHandler.ValidateCourse)
				courseGroup.POST("/:id/publish", courseHandler.PublishCourse)
				courseGroup.POST("/:id/unpublish", courseHandler.UnpublishCourse)
				courseGroup.POST("/:id/cover-upload-url", courseHandler.CoverUploadURL)
			}

			workoutGroup := adminGroup.Group("/workouts")
			{
				workoutGroup.POST("", workoutHandler.CreateWorkout)
				workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
				workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			}

			recipeGroup := adminGroup.Group("/recipes")
			{
				recipeGroup.POST("", recipeHandler.CreateRecipe)
				recipeGroup.PUT("/:id", recipeHandler.UpdateRecipe)
				recipeGroup.DELETE("/:id", recipeHandler.DeleteRecipe)
				recipeGroup.POST("/:id/photo-upload-url", recipeHandler.PhotoUploadURL)
			}

			adminChatGroup := adminGroup.Group("/chat")
			{
				adminChatGroup.GET("/threads", chatHandler.ListThreads)
				adminChatGroup.GET("/threads/:userId", chatHandler.GetThreadAsAdmin)
				adminChatGroup.POST("/threads/:userId", chatHandler.ReplyToThread)
			}
		}
	}
}
