package api

import (
	"errors"
	"fmt"
	"net/http"

	"jbarisic/gymtrack/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request Structs ---

type WorkoutRequest struct {
	Title       string `json:"title" binding:"required"`
	WorkoutDate string `json:"workout_date" binding:"required"`
	Notes       string `json:"notes"`
}

type ExerciseItemRequest struct {
	ExerciseID  string `json:"exercise_id" binding:"required"`
	OrderIndex  int    `json:"order_index"`
	PlannedSets int    `json:"planned_sets"`
	PlannedReps int    `json:"planned_reps"`
}

type SetRequest struct {
	SetNumber   int      `json:"set_number" binding:"required,min=1"`
	Reps        int      `json:"reps" binding:"required,min=1"`
	Weight      *float64 `json:"weight"`
	RestSeconds *int     `json:"rest_seconds"`
}

// mapWorkoutError translates workout service errors into HTTP responses.
// Lock refusals are conflicts, ownership failures are not-found, date
// violations are unprocessable.
func mapWorkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrSetNotFound),
		errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWorkoutLocked),
		errors.Is(err, service.ErrItemLocked),
		errors.Is(err, service.ErrWorkoutAlreadyLocked),
		errors.Is(err, service.ErrItemAlreadyLocked):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrWorkoutValidation),
		errors.Is(err, service.ErrInvalidDate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPastWorkoutDate):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.WithError(err).Error("workout operation failed")
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// --- Handler Methods ---

// ListWorkouts returns the caller's workouts, newest first. Optional
// from/to query parameters bound the workout date inclusively.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout returns one workout with its items and sets.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.workoutService.GetWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateWorkout plans a new workout. The date may not be in the past.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workoutID, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, req.Title, req.WorkoutDate, req.Notes)
	if err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": workoutID.Hex()})
}

// UpdateWorkout overwrites title, date and notes of an unlocked workout.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, workoutID, req.Title, req.WorkoutDate, req.Notes); err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "workout updated"})
}

// DeleteWorkout removes an unlocked workout with all its items and sets.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, workoutID); err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "workout deleted"})
}

// AddExerciseItem appends an exercise to a workout.
func (h *WorkoutHandler) AddExerciseItem(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req ExerciseItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := parseObjectIDString(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise_id format")
		return
	}

	itemID, err := h.workoutService.AddExerciseItem(c.Request.Context(), userID, workoutID, exerciseID, req.OrderIndex, req.PlannedSets, req.PlannedReps)
	if err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": itemID.Hex()})
}

// RemoveExerciseItem deletes an item from an unlocked workout.
func (h *WorkoutHandler) RemoveExerciseItem(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseObjectIDParam(c, "itemId")
	if !ok {
		return
	}

	if err := h.workoutService.RemoveExerciseItem(c.Request.Context(), userID, workoutID, itemID); err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "exercise item removed"})
}

// AddSet records a set under an exercise item.
func (h *WorkoutHandler) AddSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	itemID, ok := parseObjectIDParam(c, "itemId")
	if !ok {
		return
	}

	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	setID, err := h.workoutService.AddSet(c.Request.Context(), userID, itemID, req.SetNumber, req.Reps, req.Weight, req.RestSeconds)
	if err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": setID.Hex()})
}

// UpdateSet overwrites a set's numbers.
func (h *WorkoutHandler) UpdateSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	setID, ok := parseObjectIDParam(c, "setId")
	if !ok {
		return
	}

	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.workoutService.UpdateSet(c.Request.Context(), userID, setID, req.SetNumber, req.Reps, req.Weight, req.RestSeconds); err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "set updated"})
}

// RemoveSet deletes a set.
func (h *WorkoutHandler) RemoveSet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	setID, ok := parseObjectIDParam(c, "setId")
	if !ok {
		return
	}

	if err := h.workoutService.RemoveSet(c.Request.Context(), userID, setID); err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "set removed"})
}

// LockExerciseItem marks an item completed and freezes it.
func (h *WorkoutHandler) LockExerciseItem(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseObjectIDParam(c, "itemId")
	if !ok {
		return
	}

	if err := h.workoutService.LockExerciseItem(c.Request.Context(), userID, workoutID, itemID); err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LockWorkout freezes the workout and everything under it.
func (h *WorkoutHandler) LockWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	workoutID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.LockWorkout(c.Request.Context(), userID, workoutID); err != nil {
		mapWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
