package api

import (
	"errors"
	"fmt"
	"net/http"

	"jbarisic/gymtrack/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request Structs ---

type ExerciseRequest struct {
	Name       string `json:"name" binding:"required"`
	BodyPart   string `json:"body_part" binding:"required"`
	ShortDesc  string `json:"short_desc"`
	HowTo      string `json:"how_to"`
	YoutubeURL string `json:"youtube_url"`
}

type VideoUploadRequest struct {
	ContentType string `json:"content_type"`
}

// --- Handler Methods ---

// ListExercises returns the catalog, optionally filtered by body part.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), c.Query("body_part"))
	if err != nil {
		log.WithError(err).Error("failed to list exercises")
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExercise returns a single catalog entry.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			log.WithError(err).Error("failed to get exercise")
			abortWithError(c, http.StatusInternalServerError, "Failed to get exercise")
		}
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// CreateExercise adds a catalog entry. Admin only.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req.Name, req.BodyPart, req.ShortDesc, req.HowTo, req.YoutubeURL)
	if err != nil {
		if errors.Is(err, service.ErrExerciseValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			log.WithError(err).Error("failed to create exercise")
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise")
		}
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// UpdateExercise overwrites a catalog entry. Admin only.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), exerciseID, req.Name, req.BodyPart, req.ShortDesc, req.HowTo, req.YoutubeURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			log.WithError(err).Error("failed to update exercise")
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise")
		}
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise removes a catalog entry. Admin only.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), exerciseID); err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			log.WithError(err).Error("failed to delete exercise")
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "exercise deleted"})
}

// RequestVideoUpload presigns an upload URL for a demo video. Admin only.
func (h *ExerciseHandler) RequestVideoUpload(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req VideoUploadRequest
	// Body is optional; an empty one means the default content type.
	_ = c.ShouldBindJSON(&req)

	uploadURL, objectKey, err := h.exerciseService.RequestVideoUploadURL(c.Request.Context(), exerciseID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			log.WithError(err).Error("failed to presign video upload")
			abortWithError(c, http.StatusInternalServerError, "Failed to create upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"upload_url": uploadURL,
		"object_key": objectKey,
	})
}

// GetVideoURL presigns a download URL for the exercise's demo video.
func (h *ExerciseHandler) GetVideoURL(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	downloadURL, err := h.exerciseService.GetVideoDownloadURL(c.Request.Context(), exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseNoVideo):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			log.WithError(err).Error("failed to presign video download")
			abortWithError(c, http.StatusInternalServerError, "Failed to create download URL")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"video_url": downloadURL})
}
