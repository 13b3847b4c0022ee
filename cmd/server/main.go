package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jbarisic/gymtrack/internal/api"
	"jbarisic/gymtrack/internal/config"
	"jbarisic/gymtrack/internal/repository/mongo"
	"jbarisic/gymtrack/internal/service"
	"jbarisic/gymtrack/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("starting gymtrack server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("could not load config")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("database", cfg.Database.Name).Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongo.EnsureUserIndexes(ctx, appDB.Collection("users")); err != nil {
			log.WithError(err).Error("failed to ensure user indexes")
		}
		if err := mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises")); err != nil {
			log.WithError(err).Error("failed to ensure exercise indexes")
		}
		if err := mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts")); err != nil {
			log.WithError(err).Error("failed to ensure workout indexes")
		}
		if err := mongo.EnsureWorkoutItemIndexes(ctx, appDB.Collection("workout_exercises")); err != nil {
			log.WithError(err).Error("failed to ensure workout item indexes")
		}
		if err := mongo.EnsureWorkoutSetIndexes(ctx, appDB.Collection("workout_sets")); err != nil {
			log.WithError(err).Error("failed to ensure workout set indexes")
		}
		if err := mongo.EnsureRecordIndexes(ctx, appDB.Collection("one_rep_maxes")); err != nil {
			log.WithError(err).Error("failed to ensure record indexes")
		}
		log.Info("index creation completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize S3 storage")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	itemRepo := mongo.NewMongoWorkoutItemRepository(appDB)
	setRepo := mongo.NewMongoWorkoutSetRepository(appDB)
	recordRepo := mongo.NewMongoRecordRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage)
	workoutService := service.NewWorkoutService(workoutRepo, itemRepo, setRepo, exerciseRepo)
	recordService := service.NewRecordService(recordRepo, exerciseRepo)
	statsService := service.NewStatsService(workoutRepo, setRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret,
		authService, userService, exerciseService, workoutService, recordService, statsService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen and serve error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}
