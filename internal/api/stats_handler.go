package api

import (
	"net/http"

	"jbarisic/gymtrack/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// StatsHandler holds the stats service dependency.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// TotalSets30d counts the caller's sets over the last 30 days of workouts.
func (h *StatsHandler) TotalSets30d(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	total, err := h.statsService.TotalSetsInWindow(c.Request.Context(), userID, 30)
	if err != nil {
		log.WithError(err).Error("failed to compute set total")
		abortWithError(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_sets": total})
}
