package service

import (
	"context"
	"errors"
	"time"

	"jbarisic/gymtrack/internal/domain"
	"jbarisic/gymtrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrRecordValidation = errors.New("exercise, weight and record date are required")
	ErrInvalidWeight    = errors.New("weight must be greater than zero")
	// ErrDuplicateRecord covers the unique (user, exercise, date, weight)
	// constraint of the ledger.
	ErrDuplicateRecord = errors.New("an identical record already exists")
)

// RecordEntry is a ledger row joined with its exercise for display.
type RecordEntry struct {
	domain.OneRepMaxRecord
	ExerciseName string `json:"exercise_name"`
	BodyPart     string `json:"body_part"`
}

// RecordService manages the one-rep-max ledger. Unlike workouts, records
// may be dated in the past; lifters backfill old personal bests.
type RecordService interface {
	ListRecords(ctx context.Context, userID primitive.ObjectID, exerciseID *primitive.ObjectID) ([]RecordEntry, error)
	CreateRecord(ctx context.Context, userID, exerciseID primitive.ObjectID, weight float64, recordDate, note string) (primitive.ObjectID, error)
	// DeleteRecord succeeds whether or not a matching owned record exists.
	DeleteRecord(ctx context.Context, userID, recordID primitive.ObjectID) error
}

// recordService implements the RecordService interface.
type recordService struct {
	recordRepo   repository.RecordRepository
	exerciseRepo repository.ExerciseRepository
}

// NewRecordService creates a new instance of recordService.
func NewRecordService(recordRepo repository.RecordRepository, exerciseRepo repository.ExerciseRepository) RecordService {
	return &recordService{
		recordRepo:   recordRepo,
		exerciseRepo: exerciseRepo,
	}
}

// ListRecords returns the caller's ledger in chronological order, each row
// joined with its exercise name and body part.
func (s *recordService) ListRecords(ctx context.Context, userID primitive.ObjectID, exerciseID *primitive.ObjectID) ([]RecordEntry, error) {
	records, err := s.recordRepo.ListByUser(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	exercises, err := s.exerciseRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	index := make(map[primitive.ObjectID]domain.Exercise, len(exercises))
	for _, ex := range exercises {
		index[ex.ID] = ex
	}

	entries := make([]RecordEntry, len(records))
	for i, rec := range records {
		ex := index[rec.ExerciseID]
		entries[i] = RecordEntry{
			OneRepMaxRecord: rec,
			ExerciseName:    ex.Name,
			BodyPart:        ex.BodyPart,
		}
	}
	return entries, nil
}

// CreateRecord appends a ledger entry after validating the referenced
// exercise exists.
func (s *recordService) CreateRecord(ctx context.Context, userID, exerciseID primitive.ObjectID, weight float64, recordDate, note string) (primitive.ObjectID, error) {
	if exerciseID.IsZero() || recordDate == "" {
		return primitive.NilObjectID, ErrRecordValidation
	}
	if weight <= 0 {
		return primitive.NilObjectID, ErrInvalidWeight
	}
	if _, err := time.Parse(domain.DateLayout, recordDate); err != nil {
		return primitive.NilObjectID, ErrInvalidDate
	}

	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrExerciseNotFound
		}
		return primitive.NilObjectID, err
	}

	record := &domain.OneRepMaxRecord{
		UserID:     userID,
		ExerciseID: exerciseID,
		Weight:     weight,
		RecordDate: recordDate,
		Note:       note,
	}
	recordID, err := s.recordRepo.Create(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return primitive.NilObjectID, ErrDuplicateRecord
		}
		return primitive.NilObjectID, err
	}
	return recordID, nil
}

// DeleteRecord removes an owned ledger entry. Deleting an absent or
// foreign record is a silent success; the end state is the same either way.
func (s *recordService) DeleteRecord(ctx context.Context, userID, recordID primitive.ObjectID) error {
	return s.recordRepo.Delete(ctx, recordID, userID)
}
