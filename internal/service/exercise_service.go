package service

import (
	"context"
	"errors"
	"fmt"

	"jbarisic/gymtrack/internal/domain"
	"jbarisic/gymtrack/internal/repository"
	"jbarisic/gymtrack/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrExerciseValidation = errors.New("exercise name and body part are required")
	ErrExerciseNoVideo    = errors.New("exercise has no uploaded video")
)

// ExerciseService manages the shared catalog. Reads are public; the API
// layer restricts writes to admins.
type ExerciseService interface {
	ListExercises(ctx context.Context, bodyPart string) ([]domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	CreateExercise(ctx context.Context, name, bodyPart, shortDesc, howTo, youtubeURL string) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, name, bodyPart, shortDesc, howTo, youtubeURL string) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error
	// RequestVideoUploadURL presigns a PUT URL for a demo video and links
	// the object key to the exercise.
	RequestVideoUploadURL(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (uploadURL string, objectKey string, err error)
	// GetVideoDownloadURL presigns a GET URL for the exercise's demo video.
	GetVideoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// ListExercises returns catalog entries, newest first.
func (s *exerciseService) ListExercises(ctx context.Context, bodyPart string) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx, bodyPart)
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// CreateExercise adds a catalog entry.
func (s *exerciseService) CreateExercise(ctx context.Context, name, bodyPart, shortDesc, howTo, youtubeURL string) (*domain.Exercise, error) {
	if name == "" || bodyPart == "" {
		return nil, ErrExerciseValidation
	}

	exercise := &domain.Exercise{
		Name:       name,
		BodyPart:   bodyPart,
		ShortDesc:  shortDesc,
		HowTo:      howTo,
		YoutubeURL: youtubeURL,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// UpdateExercise overwrites a catalog entry.
func (s *exerciseService) UpdateExercise(ctx context.Context, exerciseID primitive.ObjectID, name, bodyPart, shortDesc, howTo, youtubeURL string) (*domain.Exercise, error) {
	if name == "" || bodyPart == "" {
		return nil, ErrExerciseValidation
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	existing.Name = name
	existing.BodyPart = bodyPart
	existing.ShortDesc = shortDesc
	existing.HowTo = howTo
	existing.YoutubeURL = youtubeURL

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteExercise removes a catalog entry and, best effort, its uploaded
// demo video.
func (s *exerciseService) DeleteExercise(ctx context.Context, exerciseID primitive.ObjectID) error {
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	if existing.VideoObjectKey != "" {
		if err := s.fileStorage.DeleteObject(ctx, existing.VideoObjectKey); err != nil {
			// The catalog entry is already gone; an orphaned object is not
			// worth failing the request over.
			log.WithError(err).WithField("object_key", existing.VideoObjectKey).Warn("failed to delete exercise video")
		}
	}
	return nil
}

// RequestVideoUploadURL presigns an upload slot for the exercise's demo
// video and records the object key.
func (s *exerciseService) RequestVideoUploadURL(ctx context.Context, exerciseID primitive.ObjectID, contentType string) (string, string, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return "", "", err
	}
	if contentType == "" {
		contentType = "video/mp4"
	}

	objectKey := fmt.Sprintf("exercises/%s/%s", exercise.ID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}

	if err := s.exerciseRepo.SetVideoObjectKey(ctx, exerciseID, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrExerciseNotFound
		}
		return "", "", err
	}
	return uploadURL, objectKey, nil
}

// GetVideoDownloadURL presigns a download link for the stored demo video.
func (s *exerciseService) GetVideoDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.GetExerciseByID(ctx, exerciseID)
	if err != nil {
		return "", err
	}
	if exercise.VideoObjectKey == "" {
		return "", ErrExerciseNoVideo
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.VideoObjectKey, storage.DefaultPresignedURLExpiry)
}
