package api

import (
	"net/http"

	"jbarisic/gymtrack/internal/domain"
	"jbarisic/gymtrack/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler onto the router.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	recordService service.RecordService,
	statsService service.StatsService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	recordHandler := NewRecordHandler(recordService)
	statsHandler := NewStatsHandler(statsService)

	authMiddleware := AuthMiddleware(jwtSecret)
	adminOnly := RoleMiddleware(domain.RoleAdmin)

	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// --- Exercise Catalog ---
	// Reads are open; writes need an authenticated admin.
	exerciseGroup := api.Group("/exercises")
	{
		exerciseGroup.GET("", exerciseHandler.ListExercises)
		exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
		exerciseGroup.GET("/:id/video-url", exerciseHandler.GetVideoURL)

		exerciseGroup.POST("", authMiddleware, adminOnly, exerciseHandler.CreateExercise)
		exerciseGroup.PUT("/:id", authMiddleware, adminOnly, exerciseHandler.UpdateExercise)
		exerciseGroup.DELETE("/:id", authMiddleware, adminOnly, exerciseHandler.DeleteExercise)
		exerciseGroup.POST("/:id/video-upload", authMiddleware, adminOnly, exerciseHandler.RequestVideoUpload)
	}

	protected := api.Group("")
	protected.Use(authMiddleware)
	{
		// --- Workout Log ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
			workoutGroup.PUT("/:id/lock", workoutHandler.LockWorkout)

			workoutGroup.POST("/:id/exercises", workoutHandler.AddExerciseItem)
			workoutGroup.DELETE("/:id/exercises/:itemId", workoutHandler.RemoveExerciseItem)
			workoutGroup.PUT("/:id/exercises/:itemId/lock", workoutHandler.LockExerciseItem)

			// Sets are addressed by their own IDs; the ancestry is resolved
			// server-side.
			workoutGroup.POST("/exercise-items/:itemId/sets", workoutHandler.AddSet)
			workoutGroup.PUT("/sets/:setId", workoutHandler.UpdateSet)
			workoutGroup.DELETE("/sets/:setId", workoutHandler.RemoveSet)
		}

		// --- One-Rep-Max Records ---
		recordGroup := protected.Group("/records")
		{
			recordGroup.GET("", recordHandler.ListRecords)
			recordGroup.POST("", recordHandler.CreateRecord)
			recordGroup.DELETE("/:id", recordHandler.DeleteRecord)
		}

		// --- Profile ---
		userGroup := protected.Group("/users")
		{
			userGroup.GET("/me", userHandler.GetProfile)
			userGroup.PUT("/me", userHandler.UpdateProfile)
			userGroup.PUT("/me/password", userHandler.ChangePassword)
		}

		// --- Stats ---
		statsGroup := protected.Group("/stats")
		{
			statsGroup.GET("/total-sets-30d", statsHandler.TotalSets30d)
		}
	}
}
