package service

import (
	"context"
	"time"

	"jbarisic/gymtrack/internal/domain"
	"jbarisic/gymtrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultStatsWindowDays = 30

// StatsService answers aggregate questions over the workout log.
type StatsService interface {
	// TotalSetsInWindow counts the caller's sets across workouts dated
	// within the last `days` calendar days, today inclusive.
	TotalSetsInWindow(ctx context.Context, userID primitive.ObjectID, days int) (int64, error)
}

// statsService implements the StatsService interface.
type statsService struct {
	workoutRepo repository.WorkoutRepository
	setRepo     repository.WorkoutSetRepository
	now         func() time.Time
}

// NewStatsService creates a new instance of statsService.
func NewStatsService(workoutRepo repository.WorkoutRepository, setRepo repository.WorkoutSetRepository) StatsService {
	return &statsService{
		workoutRepo: workoutRepo,
		setRepo:     setRepo,
		now:         time.Now,
	}
}

// TotalSetsInWindow resolves the window to workouts first, then counts
// their sets. The window is keyed off the workout date, not when the sets
// were entered.
func (s *statsService) TotalSetsInWindow(ctx context.Context, userID primitive.ObjectID, days int) (int64, error) {
	if days <= 0 {
		days = defaultStatsWindowDays
	}

	from := s.now().UTC().AddDate(0, 0, -days).Format(domain.DateLayout)
	workouts, err := s.workoutRepo.ListByUser(ctx, userID, from, "")
	if err != nil {
		return 0, err
	}
	if len(workouts) == 0 {
		return 0, nil
	}

	workoutIDs := make([]primitive.ObjectID, len(workouts))
	for i, w := range workouts {
		workoutIDs[i] = w.ID
	}
	return s.setRepo.CountByWorkouts(ctx, userID, workoutIDs)
}
