package service

import (
	"context"
	"sort"
	"time"

	"jbarisic/gymtrack/internal/domain"
	"jbarisic/gymtrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes honoring the same error contracts as the
// Mongo implementations.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	r.users[id] = &stored
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, username, email *string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *email {
				return repository.ErrDuplicate
			}
		}
		u.Email = *email
	}
	if username != nil {
		u.Username = *username
	}
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *fakeExerciseRepo) add(name, bodyPart string) primitive.ObjectID {
	id := primitive.NewObjectID()
	r.exercises[id] = &domain.Exercise{ID: id, Name: name, BodyPart: bodyPart}
	return id
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *exercise
	stored.ID = id
	r.exercises[id] = &stored
	return id, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *ex
	return &copied, nil
}

func (r *fakeExerciseRepo) List(_ context.Context, bodyPart string) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range r.exercises {
		if bodyPart != "" && ex.BodyPart != bodyPart {
			continue
		}
		out = append(out, *ex)
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *exercise
	r.exercises[exercise.ID] = &stored
	return nil
}

func (r *fakeExerciseRepo) SetVideoObjectKey(_ context.Context, id primitive.ObjectID, objectKey string) error {
	ex, ok := r.exercises[id]
	if !ok {
		return repository.ErrNotFound
	}
	ex.VideoObjectKey = objectKey
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type fakeWorkoutRepo struct {
	workouts map[primitive.ObjectID]*domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout)}
}

func (r *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *workout
	stored.ID = id
	r.workouts[id] = &stored
	return id, nil
}

func (r *fakeWorkoutRepo) GetOwned(_ context.Context, workoutID, userID primitive.ObjectID) (*domain.Workout, error) {
	w, ok := r.workouts[workoutID]
	if !ok || w.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *w
	return &copied, nil
}

func (r *fakeWorkoutRepo) ListByUser(_ context.Context, userID primitive.ObjectID, dateFrom, dateTo string) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, w := range r.workouts {
		if w.UserID != userID {
			continue
		}
		if dateFrom != "" && w.WorkoutDate < dateFrom {
			continue
		}
		if dateTo != "" && w.WorkoutDate > dateTo {
			continue
		}
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkoutDate > out[j].WorkoutDate })
	return out, nil
}

func (r *fakeWorkoutRepo) UpdateUnlocked(_ context.Context, workout *domain.Workout) error {
	w, ok := r.workouts[workout.ID]
	if !ok || w.UserID != workout.UserID {
		return repository.ErrNotFound
	}
	if w.Locked {
		return repository.ErrLocked
	}
	w.Title = workout.Title
	w.WorkoutDate = workout.WorkoutDate
	w.Notes = workout.Notes
	return nil
}

func (r *fakeWorkoutRepo) DeleteUnlocked(_ context.Context, workoutID, userID primitive.ObjectID) error {
	w, ok := r.workouts[workoutID]
	if !ok || w.UserID != userID {
		return repository.ErrNotFound
	}
	if w.Locked {
		return repository.ErrLocked
	}
	delete(r.workouts, workoutID)
	return nil
}

func (r *fakeWorkoutRepo) Lock(_ context.Context, workoutID, userID primitive.ObjectID) error {
	w, ok := r.workouts[workoutID]
	if !ok || w.UserID != userID {
		return repository.ErrNotFound
	}
	if w.Locked {
		return repository.ErrLocked
	}
	w.Locked = true
	return nil
}

type fakeItemRepo struct {
	items map[primitive.ObjectID]*domain.WorkoutExerciseItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[primitive.ObjectID]*domain.WorkoutExerciseItem)}
}

func (r *fakeItemRepo) Create(_ context.Context, item *domain.WorkoutExerciseItem) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *item
	stored.ID = id
	r.items[id] = &stored
	return id, nil
}

func (r *fakeItemRepo) GetOwned(_ context.Context, itemID, userID primitive.ObjectID) (*domain.WorkoutExerciseItem, error) {
	it, ok := r.items[itemID]
	if !ok || it.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *it
	return &copied, nil
}

func (r *fakeItemRepo) GetOwnedInWorkout(_ context.Context, itemID, workoutID, userID primitive.ObjectID) (*domain.WorkoutExerciseItem, error) {
	it, ok := r.items[itemID]
	if !ok || it.UserID != userID || it.WorkoutID != workoutID {
		return nil, repository.ErrNotFound
	}
	copied := *it
	return &copied, nil
}

func (r *fakeItemRepo) ListByWorkout(_ context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutExerciseItem, error) {
	var out []domain.WorkoutExerciseItem
	for _, it := range r.items {
		if it.WorkoutID == workoutID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *fakeItemRepo) ListByWorkouts(_ context.Context, workoutIDs []primitive.ObjectID) ([]domain.WorkoutExerciseItem, error) {
	wanted := make(map[primitive.ObjectID]bool, len(workoutIDs))
	for _, id := range workoutIDs {
		wanted[id] = true
	}
	var out []domain.WorkoutExerciseItem
	for _, it := range r.items {
		if wanted[it.WorkoutID] {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Delete(_ context.Context, itemID, userID primitive.ObjectID) error {
	it, ok := r.items[itemID]
	if !ok || it.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.items, itemID)
	return nil
}

func (r *fakeItemRepo) DeleteByWorkout(_ context.Context, workoutID primitive.ObjectID) error {
	for id, it := range r.items {
		if it.WorkoutID == workoutID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeItemRepo) Lock(_ context.Context, itemID, userID primitive.ObjectID, completedAt time.Time) error {
	it, ok := r.items[itemID]
	if !ok || it.UserID != userID {
		return repository.ErrNotFound
	}
	if it.Locked {
		return repository.ErrLocked
	}
	it.Locked = true
	it.CompletedAt = &completedAt
	return nil
}

type fakeSetRepo struct {
	sets map[primitive.ObjectID]*domain.WorkoutSet
}

func newFakeSetRepo() *fakeSetRepo {
	return &fakeSetRepo{sets: make(map[primitive.ObjectID]*domain.WorkoutSet)}
}

func (r *fakeSetRepo) Create(_ context.Context, set *domain.WorkoutSet) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *set
	stored.ID = id
	r.sets[id] = &stored
	return id, nil
}

func (r *fakeSetRepo) GetOwned(_ context.Context, setID, userID primitive.ObjectID) (*domain.WorkoutSet, error) {
	s, ok := r.sets[setID]
	if !ok || s.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSetRepo) ListByWorkout(_ context.Context, workoutID primitive.ObjectID) ([]domain.WorkoutSet, error) {
	var out []domain.WorkoutSet
	for _, s := range r.sets {
		if s.WorkoutID == workoutID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SetNumber < out[j].SetNumber })
	return out, nil
}

func (r *fakeSetRepo) Update(_ context.Context, set *domain.WorkoutSet) error {
	s, ok := r.sets[set.ID]
	if !ok || s.UserID != set.UserID {
		return repository.ErrNotFound
	}
	stored := *set
	r.sets[set.ID] = &stored
	return nil
}

func (r *fakeSetRepo) Delete(_ context.Context, setID, userID primitive.ObjectID) error {
	s, ok := r.sets[setID]
	if !ok || s.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.sets, setID)
	return nil
}

func (r *fakeSetRepo) DeleteByWorkout(_ context.Context, workoutID primitive.ObjectID) error {
	for id, s := range r.sets {
		if s.WorkoutID == workoutID {
			delete(r.sets, id)
		}
	}
	return nil
}

func (r *fakeSetRepo) CountByWorkouts(_ context.Context, userID primitive.ObjectID, workoutIDs []primitive.ObjectID) (int64, error) {
	wanted := make(map[primitive.ObjectID]bool, len(workoutIDs))
	for _, id := range workoutIDs {
		wanted[id] = true
	}
	var count int64
	for _, s := range r.sets {
		if s.UserID == userID && wanted[s.WorkoutID] {
			count++
		}
	}
	return count, nil
}

type fakeRecordRepo struct {
	records map[primitive.ObjectID]*domain.OneRepMaxRecord
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[primitive.ObjectID]*domain.OneRepMaxRecord)}
}

func (r *fakeRecordRepo) Create(_ context.Context, record *domain.OneRepMaxRecord) (primitive.ObjectID, error) {
	for _, existing := range r.records {
		if existing.UserID == record.UserID &&
			existing.ExerciseID == record.ExerciseID &&
			existing.RecordDate == record.RecordDate &&
			existing.Weight == record.Weight {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	stored := *record
	stored.ID = id
	r.records[id] = &stored
	return id, nil
}

func (r *fakeRecordRepo) ListByUser(_ context.Context, userID primitive.ObjectID, exerciseID *primitive.ObjectID) ([]domain.OneRepMaxRecord, error) {
	var out []domain.OneRepMaxRecord
	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
		if exerciseID != nil && rec.ExerciseID != *exerciseID {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordDate < out[j].RecordDate })
	return out, nil
}

func (r *fakeRecordRepo) Delete(_ context.Context, recordID, userID primitive.ObjectID) error {
	rec, ok := r.records[recordID]
	if ok && rec.UserID == userID {
		delete(r.records, recordID)
	}
	return nil
}

// fakeFileStorage records presign and delete calls.
type fakeFileStorage struct {
	deletedKeys []string
	uploadErr   error
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, contentType string, _ time.Duration) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "https://storage.local/upload/" + objectKey + "?ct=" + contentType, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.local/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(_ context.Context, objectKey string) error {
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}
