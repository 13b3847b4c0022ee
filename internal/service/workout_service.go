package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"jbarisic/gymtrack/internal/domain"
	"jbarisic/gymtrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrItemNotFound    = errors.New("exercise item not found")
	ErrSetNotFound     = errors.New("set not found")

	// Lock guard failures. Workout and item locks are reported separately
	// so the caller knows which level froze the mutation; when both apply,
	// the workout lock wins.
	ErrWorkoutLocked        = errors.New("workout is locked")
	ErrItemLocked           = errors.New("exercise item is locked")
	ErrWorkoutAlreadyLocked = errors.New("workout is already locked")
	ErrItemAlreadyLocked    = errors.New("exercise item is already locked")

	ErrWorkoutValidation = errors.New("title and workout date are required")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrPastWorkoutDate   = errors.New("workout date cannot be in the past")
)

// WorkoutSummary is one row of the workout listing: the workout plus a
// distinct, alphabetically sorted, comma-joined summary of the body parts
// its items touch.
type WorkoutSummary struct {
	domain.Workout
	BodyPartsSummary string `json:"body_parts_summary"`
}

// WorkoutItemDetail is an exercise item joined with its catalog entry and
// its sets in set-number order.
type WorkoutItemDetail struct {
	domain.WorkoutExerciseItem
	ExerciseName string              `json:"exercise_name"`
	BodyPart     string              `json:"body_part"`
	Sets         []domain.WorkoutSet `json:"sets"`
}

// WorkoutDetail is a full workout with its items in display order.
type WorkoutDetail struct {
	domain.Workout
	Items []WorkoutItemDetail `json:"items"`
}

// WorkoutService owns the workout/item/set hierarchy and its lock state
// machine. Every operation takes the caller's user ID explicitly and scopes
// all queries to it; workouts of other users surface as not-found.
type WorkoutService interface {
	ListWorkouts(ctx context.Context, userID primitive.ObjectID, dateFrom, dateTo string) ([]WorkoutSummary, error)
	GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*WorkoutDetail, error)
	CreateWorkout(ctx context.Context, userID primitive.ObjectID, title, workoutDate, notes string) (primitive.ObjectID, error)
	UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, title, workoutDate, notes string) error
	DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error

	AddExerciseItem(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID, orderIndex, plannedSets, plannedReps int) (primitive.ObjectID, error)
	RemoveExerciseItem(ctx context.Context, userID, workoutID, itemID primitive.ObjectID) error

	AddSet(ctx context.Context, userID, itemID primitive.ObjectID, setNumber, reps int, weight *float64, restSeconds *int) (primitive.ObjectID, error)
	UpdateSet(ctx context.Context, userID, setID primitive.ObjectID, setNumber, reps int, weight *float64, restSeconds *int) error
	RemoveSet(ctx context.Context, userID, setID primitive.ObjectID) error

	LockExerciseItem(ctx context.Context, userID, workoutID, itemID primitive.ObjectID) error
	LockWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	itemRepo     repository.WorkoutItemRepository
	setRepo      repository.WorkoutSetRepository
	exerciseRepo repository.ExerciseRepository
	now          func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	itemRepo repository.WorkoutItemRepository,
	setRepo repository.WorkoutSetRepository,
	exerciseRepo repository.ExerciseRepository,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		itemRepo:     itemRepo,
		setRepo:      setRepo,
		exerciseRepo: exerciseRepo,
		now:          time.Now,
	}
}

// exerciseIndex loads the catalog once and maps it by ID, for composing
// joined rows without a per-item query.
func (s *workoutService) exerciseIndex(ctx context.Context) (map[primitive.ObjectID]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	index := make(map[primitive.ObjectID]domain.Exercise, len(exercises))
	for _, ex := range exercises {
		index[ex.ID] = ex
	}
	return index, nil
}

// ListWorkouts returns the caller's workouts, newest first, each annotated
// with the body parts its exercises touch.
func (s *workoutService) ListWorkouts(ctx context.Context, userID primitive.ObjectID, dateFrom, dateTo string) ([]WorkoutSummary, error) {
	workouts, err := s.workoutRepo.ListByUser(ctx, userID, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	workoutIDs := make([]primitive.ObjectID, len(workouts))
	for i, w := range workouts {
		workoutIDs[i] = w.ID
	}

	items, err := s.itemRepo.ListByWorkouts(ctx, workoutIDs)
	if err != nil {
		return nil, err
	}

	exercises, err := s.exerciseIndex(ctx)
	if err != nil {
		return nil, err
	}

	// Distinct body parts per workout.
	partsByWorkout := make(map[primitive.ObjectID]map[string]struct{})
	for _, item := range items {
		ex, ok := exercises[item.ExerciseID]
		if !ok || ex.BodyPart == "" {
			continue
		}
		parts, ok := partsByWorkout[item.WorkoutID]
		if !ok {
			parts = make(map[string]struct{})
			partsByWorkout[item.WorkoutID] = parts
		}
		parts[ex.BodyPart] = struct{}{}
	}

	summaries := make([]WorkoutSummary, len(workouts))
	for i, w := range workouts {
		summaries[i] = WorkoutSummary{
			Workout:          w,
			BodyPartsSummary: joinBodyParts(partsByWorkout[w.ID]),
		}
	}
	return summaries, nil
}

func joinBodyParts(parts map[string]struct{}) string {
	if len(parts) == 0 {
		return ""
	}
	names := make([]string, 0, len(parts))
	for p := range parts {
		names = append(names, p)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// GetWorkout returns the workout with its items in display order and each
// item's sets in set-number order.
func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*WorkoutDetail, error) {
	workout, err := s.workoutRepo.GetOwned(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	items, err := s.itemRepo.ListByWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	sets, err := s.setRepo.ListByWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	exercises, err := s.exerciseIndex(ctx)
	if err != nil {
		return nil, err
	}

	setsByItem := make(map[primitive.ObjectID][]domain.WorkoutSet)
	for _, set := range sets {
		setsByItem[set.WorkoutExerciseID] = append(setsByItem[set.WorkoutExerciseID], set)
	}

	detail := &WorkoutDetail{
		Workout: *workout,
		Items:   make([]WorkoutItemDetail, len(items)),
	}
	for i, item := range items {
		itemSets := setsByItem[item.ID]
		if itemSets == nil {
			itemSets = []domain.WorkoutSet{}
		}
		ex := exercises[item.ExerciseID]
		detail.Items[i] = WorkoutItemDetail{
			WorkoutExerciseItem: item,
			ExerciseName:        ex.Name,
			BodyPart:            ex.BodyPart,
			Sets:                itemSets,
		}
	}
	return detail, nil
}

// CreateWorkout rejects past-dated workouts by calendar day. The stored
// YYYY-MM-DD strings compare lexically in calendar order, so the check is
// a plain string comparison against today's UTC date. Updates deliberately
// skip this re-check.
func (s *workoutService) CreateWorkout(ctx context.Context, userID primitive.ObjectID, title, workoutDate, notes string) (primitive.ObjectID, error) {
	if title == "" || workoutDate == "" {
		return primitive.NilObjectID, ErrWorkoutValidation
	}
	if _, err := time.Parse(domain.DateLayout, workoutDate); err != nil {
		return primitive.NilObjectID, ErrInvalidDate
	}

	today := s.now().UTC().Format(domain.DateLayout)
	if workoutDate < today {
		return primitive.NilObjectID, ErrPastWorkoutDate
	}

	workout := &domain.Workout{
		UserID:      userID,
		Title:       title,
		WorkoutDate: workoutDate,
		Notes:       notes,
	}
	return s.workoutRepo.Create(ctx, workout)
}

// UpdateWorkout overwrites title, date and notes of an unlocked workout.
func (s *workoutService) UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, title, workoutDate, notes string) error {
	if title == "" || workoutDate == "" {
		return ErrWorkoutValidation
	}
	if _, err := time.Parse(domain.DateLayout, workoutDate); err != nil {
		return ErrInvalidDate
	}

	workout := &domain.Workout{
		ID:          workoutID,
		UserID:      userID,
		Title:       title,
		WorkoutDate: workoutDate,
		Notes:       notes,
	}
	err := s.workoutRepo.UpdateUnlocked(ctx, workout)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrWorkoutNotFound
	case errors.Is(err, repository.ErrLocked):
		return ErrWorkoutLocked
	}
	return err
}

// DeleteWorkout removes an unlocked workout and cascades to its items and
// sets. The guarded delete of the workout document goes first so a locked
// workout never loses children.
func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	err := s.workoutRepo.DeleteUnlocked(ctx, workoutID, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrWorkoutNotFound
	case errors.Is(err, repository.ErrLocked):
		return ErrWorkoutLocked
	case err != nil:
		return err
	}

	if err := s.setRepo.DeleteByWorkout(ctx, workoutID); err != nil {
		return err
	}
	return s.itemRepo.DeleteByWorkout(ctx, workoutID)
}

// AddExerciseItem appends an exercise to an unlocked workout. The new item
// starts unlocked with no completion stamp.
func (s *workoutService) AddExerciseItem(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID, orderIndex, plannedSets, plannedReps int) (primitive.ObjectID, error) {
	workout, err := s.workoutRepo.GetOwned(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrWorkoutNotFound
		}
		return primitive.NilObjectID, err
	}
	if workout.Locked {
		return primitive.NilObjectID, ErrWorkoutLocked
	}

	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrExerciseNotFound
		}
		return primitive.NilObjectID, err
	}

	item := &domain.WorkoutExerciseItem{
		WorkoutID:   workoutID,
		UserID:      userID,
		ExerciseID:  exerciseID,
		OrderIndex:  orderIndex,
		PlannedSets: plannedSets,
		PlannedReps: plannedReps,
	}
	return s.itemRepo.Create(ctx, item)
}

// RemoveExerciseItem deletes an item when neither the parent workout nor
// the item itself is locked. The workout lock is checked first so its
// error takes precedence.
func (s *workoutService) RemoveExerciseItem(ctx context.Context, userID, workoutID, itemID primitive.ObjectID) error {
	item, err := s.itemRepo.GetOwnedInWorkout(ctx, itemID, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	workout, err := s.workoutRepo.GetOwned(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if workout.Locked {
		return ErrWorkoutLocked
	}
	if item.Locked {
		return ErrItemLocked
	}

	err = s.itemRepo.Delete(ctx, itemID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}

// resolveSetGuards walks item -> workout and applies the transitive lock
// checks shared by every set mutation.
func (s *workoutService) resolveSetGuards(ctx context.Context, userID, itemID primitive.ObjectID, notFound error) (*domain.WorkoutExerciseItem, error) {
	item, err := s.itemRepo.GetOwned(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		return nil, err
	}

	workout, err := s.workoutRepo.GetOwned(ctx, item.WorkoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	if workout.Locked {
		return nil, ErrWorkoutLocked
	}
	if item.Locked {
		return nil, ErrItemLocked
	}
	return item, nil
}

// AddSet records a set under an item, resolving ownership transitively
// through item and workout.
func (s *workoutService) AddSet(ctx context.Context, userID, itemID primitive.ObjectID, setNumber, reps int, weight *float64, restSeconds *int) (primitive.ObjectID, error) {
	item, err := s.resolveSetGuards(ctx, userID, itemID, ErrItemNotFound)
	if err != nil {
		return primitive.NilObjectID, err
	}

	set := &domain.WorkoutSet{
		WorkoutExerciseID: item.ID,
		WorkoutID:         item.WorkoutID,
		UserID:            userID,
		SetNumber:         setNumber,
		Reps:              reps,
		Weight:            weight,
		RestSeconds:       restSeconds,
	}
	return s.setRepo.Create(ctx, set)
}

// UpdateSet overwrites a set's numbers under the same guards as AddSet.
func (s *workoutService) UpdateSet(ctx context.Context, userID, setID primitive.ObjectID, setNumber, reps int, weight *float64, restSeconds *int) error {
	set, err := s.setRepo.GetOwned(ctx, setID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSetNotFound
		}
		return err
	}
	if _, err := s.resolveSetGuards(ctx, userID, set.WorkoutExerciseID, ErrSetNotFound); err != nil {
		return err
	}

	set.SetNumber = setNumber
	set.Reps = reps
	set.Weight = weight
	set.RestSeconds = restSeconds

	err = s.setRepo.Update(ctx, set)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSetNotFound
	}
	return err
}

// RemoveSet deletes a set under the same guards as AddSet.
func (s *workoutService) RemoveSet(ctx context.Context, userID, setID primitive.ObjectID) error {
	set, err := s.setRepo.GetOwned(ctx, setID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSetNotFound
		}
		return err
	}
	if _, err := s.resolveSetGuards(ctx, userID, set.WorkoutExerciseID, ErrSetNotFound); err != nil {
		return err
	}

	err = s.setRepo.Delete(ctx, setID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSetNotFound
	}
	return err
}

// LockExerciseItem flips the item's lock and stamps its completion time.
// A locked parent workout refuses the transition and wins over the item's
// own already-locked state in the reported error.
func (s *workoutService) LockExerciseItem(ctx context.Context, userID, workoutID, itemID primitive.ObjectID) error {
	item, err := s.itemRepo.GetOwnedInWorkout(ctx, itemID, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}

	workout, err := s.workoutRepo.GetOwned(ctx, workoutID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if workout.Locked {
		return ErrWorkoutLocked
	}
	if item.Locked {
		return ErrItemAlreadyLocked
	}

	// Conditional update: of two racing lock requests only one matches
	// locked=false.
	err = s.itemRepo.Lock(ctx, itemID, userID, s.now())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrItemNotFound
	case errors.Is(err, repository.ErrLocked):
		return ErrItemAlreadyLocked
	}
	return err
}

// LockWorkout flips the workout's lock. Items keep their own flags; the
// ancestor check freezes them regardless.
func (s *workoutService) LockWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	err := s.workoutRepo.Lock(ctx, workoutID, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrWorkoutNotFound
	case errors.Is(err, repository.ErrLocked):
		return ErrWorkoutAlreadyLocked
	}
	return err
}
