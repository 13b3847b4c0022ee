package api

import (
	"errors"
	"fmt"
	"net/http"

	"jbarisic/gymtrack/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordHandler holds the record service dependency.
type RecordHandler struct {
	recordService service.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordService service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// --- Request Structs ---

type RecordRequest struct {
	ExerciseID string  `json:"exercise_id" binding:"required"`
	Weight     float64 `json:"weight" binding:"required"`
	RecordDate string  `json:"record_date" binding:"required"`
	Note       string  `json:"note"`
}

// --- Handler Methods ---

// ListRecords returns the caller's one-rep-max ledger, oldest first.
// An optional exercise_id query parameter narrows to one exercise.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var exerciseID *primitive.ObjectID
	if raw := c.Query("exercise_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exercise_id format")
			return
		}
		exerciseID = &id
	}

	records, err := h.recordService.ListRecords(c.Request.Context(), userID, exerciseID)
	if err != nil {
		log.WithError(err).Error("failed to list records")
		abortWithError(c, http.StatusInternalServerError, "Failed to list records")
		return
	}
	c.JSON(http.StatusOK, records)
}

// CreateRecord appends a ledger entry. Past dates are allowed here.
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := parseObjectIDString(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise_id format")
		return
	}

	recordID, err := h.recordService.CreateRecord(c.Request.Context(), userID, exerciseID, req.Weight, req.RecordDate, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordValidation),
			errors.Is(err, service.ErrInvalidWeight),
			errors.Is(err, service.ErrInvalidDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicateRecord):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			log.WithError(err).Error("failed to create record")
			abortWithError(c, http.StatusInternalServerError, "Failed to create record")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": recordID.Hex()})
}

// DeleteRecord removes a ledger entry. Succeeds even when no owned record
// matches.
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}
	recordID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.recordService.DeleteRecord(c.Request.Context(), userID, recordID); err != nil {
		log.WithError(err).Error("failed to delete record")
		abortWithError(c, http.StatusInternalServerError, "Failed to delete record")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "record deleted"})
}
