package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutFixture struct {
	svc          *workoutService
	workoutRepo  *fakeWorkoutRepo
	itemRepo     *fakeItemRepo
	setRepo      *fakeSetRepo
	exerciseRepo *fakeExerciseRepo
	userID       primitive.ObjectID
}

func newWorkoutFixture(t *testing.T) *workoutFixture {
	t.Helper()
	workoutRepo := newFakeWorkoutRepo()
	itemRepo := newFakeItemRepo()
	setRepo := newFakeSetRepo()
	exerciseRepo := newFakeExerciseRepo()

	svc := NewWorkoutService(workoutRepo, itemRepo, setRepo, exerciseRepo).(*workoutService)
	// Pin "today" so date assertions are stable.
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	}

	return &workoutFixture{
		svc:          svc,
		workoutRepo:  workoutRepo,
		itemRepo:     itemRepo,
		setRepo:      setRepo,
		exerciseRepo: exerciseRepo,
		userID:       primitive.NewObjectID(),
	}
}

func (f *workoutFixture) createWorkout(t *testing.T, date string) primitive.ObjectID {
	t.Helper()
	id, err := f.svc.CreateWorkout(context.Background(), f.userID, "Push Day", date, "")
	require.NoError(t, err)
	return id
}

func (f *workoutFixture) addItem(t *testing.T, workoutID primitive.ObjectID) primitive.ObjectID {
	t.Helper()
	exerciseID := f.exerciseRepo.add("Bench Press", "Chest")
	itemID, err := f.svc.AddExerciseItem(context.Background(), f.userID, workoutID, exerciseID, 1, 3, 8)
	require.NoError(t, err)
	return itemID
}

func TestCreateWorkoutDateValidation(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateWorkout(ctx, f.userID, "", "2025-06-20", "")
	assert.ErrorIs(t, err, ErrWorkoutValidation)

	_, err = f.svc.CreateWorkout(ctx, f.userID, "Push Day", "20-06-2025", "")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = f.svc.CreateWorkout(ctx, f.userID, "Push Day", "2025-06-14", "")
	assert.ErrorIs(t, err, ErrPastWorkoutDate)

	// Today and future are both fine.
	_, err = f.svc.CreateWorkout(ctx, f.userID, "Push Day", "2025-06-15", "")
	assert.NoError(t, err)
	_, err = f.svc.CreateWorkout(ctx, f.userID, "Push Day", "2025-07-01", "")
	assert.NoError(t, err)
}

func TestUpdateWorkoutAllowsPastDate(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")

	// Corrections backwards in time are allowed on update.
	err := f.svc.UpdateWorkout(ctx, f.userID, workoutID, "Push Day", "2025-06-01", "moved")
	require.NoError(t, err)

	detail, err := f.svc.GetWorkout(ctx, f.userID, workoutID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", detail.WorkoutDate)
	assert.Equal(t, "moved", detail.Notes)
}

func TestWorkoutOwnershipHidesForeignWorkouts(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")
	stranger := primitive.NewObjectID()

	_, err := f.svc.GetWorkout(ctx, stranger, workoutID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	err = f.svc.UpdateWorkout(ctx, stranger, workoutID, "Hijack", "2025-06-21", "")
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	err = f.svc.DeleteWorkout(ctx, stranger, workoutID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	err = f.svc.LockWorkout(ctx, stranger, workoutID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestLockedWorkoutRejectsAllMutations(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")
	itemID := f.addItem(t, workoutID)
	setID, err := f.svc.AddSet(ctx, f.userID, itemID, 1, 8, nil, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.LockWorkout(ctx, f.userID, workoutID))

	err = f.svc.UpdateWorkout(ctx, f.userID, workoutID, "Push Day", "2025-06-21", "")
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	err = f.svc.DeleteWorkout(ctx, f.userID, workoutID)
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	exerciseID := f.exerciseRepo.add("Squat", "Legs")
	_, err = f.svc.AddExerciseItem(ctx, f.userID, workoutID, exerciseID, 2, 3, 5)
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	err = f.svc.RemoveExerciseItem(ctx, f.userID, workoutID, itemID)
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	_, err = f.svc.AddSet(ctx, f.userID, itemID, 2, 8, nil, nil)
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	err = f.svc.UpdateSet(ctx, f.userID, setID, 1, 10, nil, nil)
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	err = f.svc.RemoveSet(ctx, f.userID, setID)
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	// Items cannot even be locked under a locked workout.
	err = f.svc.LockExerciseItem(ctx, f.userID, workoutID, itemID)
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	// The whole subtree survives the rejected mutations.
	detail, err := f.svc.GetWorkout(ctx, f.userID, workoutID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Len(t, detail.Items[0].Sets, 1)
	assert.Equal(t, 8, detail.Items[0].Sets[0].Reps)
}

func TestLockedItemFreezesItsSets(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")
	itemID := f.addItem(t, workoutID)
	setID, err := f.svc.AddSet(ctx, f.userID, itemID, 1, 8, nil, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.LockExerciseItem(ctx, f.userID, workoutID, itemID))

	_, err = f.svc.AddSet(ctx, f.userID, itemID, 2, 8, nil, nil)
	assert.ErrorIs(t, err, ErrItemLocked)

	err = f.svc.UpdateSet(ctx, f.userID, setID, 1, 12, nil, nil)
	assert.ErrorIs(t, err, ErrItemLocked)

	err = f.svc.RemoveSet(ctx, f.userID, setID)
	assert.ErrorIs(t, err, ErrItemLocked)

	err = f.svc.RemoveExerciseItem(ctx, f.userID, workoutID, itemID)
	assert.ErrorIs(t, err, ErrItemLocked)

	// The parent workout is untouched and still accepts new items.
	exerciseID := f.exerciseRepo.add("Squat", "Legs")
	_, err = f.svc.AddExerciseItem(ctx, f.userID, workoutID, exerciseID, 2, 5, 5)
	assert.NoError(t, err)
}

func TestLockIsNotIdempotent(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")
	itemID := f.addItem(t, workoutID)

	require.NoError(t, f.svc.LockExerciseItem(ctx, f.userID, workoutID, itemID))
	err := f.svc.LockExerciseItem(ctx, f.userID, workoutID, itemID)
	assert.ErrorIs(t, err, ErrItemAlreadyLocked)

	require.NoError(t, f.svc.LockWorkout(ctx, f.userID, workoutID))
	err = f.svc.LockWorkout(ctx, f.userID, workoutID)
	assert.ErrorIs(t, err, ErrWorkoutAlreadyLocked)
}

func TestLockExerciseItemStampsCompletion(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")
	itemID := f.addItem(t, workoutID)

	require.NoError(t, f.svc.LockExerciseItem(ctx, f.userID, workoutID, itemID))

	detail, err := f.svc.GetWorkout(ctx, f.userID, workoutID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.True(t, detail.Items[0].Locked)
	require.NotNil(t, detail.Items[0].CompletedAt)
	assert.Equal(t, f.svc.now(), *detail.Items[0].CompletedAt)
}

func TestWorkoutLockWinsOverItemLock(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")
	itemID := f.addItem(t, workoutID)
	setID, err := f.svc.AddSet(ctx, f.userID, itemID, 1, 8, nil, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.LockExerciseItem(ctx, f.userID, workoutID, itemID))
	require.NoError(t, f.svc.LockWorkout(ctx, f.userID, workoutID))

	// Both locks apply; the workout-level one is reported.
	err = f.svc.RemoveExerciseItem(ctx, f.userID, workoutID, itemID)
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	err = f.svc.UpdateSet(ctx, f.userID, setID, 1, 10, nil, nil)
	assert.ErrorIs(t, err, ErrWorkoutLocked)

	err = f.svc.LockExerciseItem(ctx, f.userID, workoutID, itemID)
	assert.ErrorIs(t, err, ErrWorkoutLocked)
}

func TestDeleteWorkoutCascades(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")
	itemID := f.addItem(t, workoutID)
	_, err := f.svc.AddSet(ctx, f.userID, itemID, 1, 8, nil, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteWorkout(ctx, f.userID, workoutID))

	assert.Empty(t, f.workoutRepo.workouts)
	assert.Empty(t, f.itemRepo.items)
	assert.Empty(t, f.setRepo.sets)
}

func TestAddExerciseItemRequiresExistingExercise(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")

	_, err := f.svc.AddExerciseItem(ctx, f.userID, workoutID, primitive.NewObjectID(), 1, 3, 8)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestListWorkoutsBodyPartsSummary(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")

	bench := f.exerciseRepo.add("Bench Press", "Chest")
	incline := f.exerciseRepo.add("Incline Press", "Chest")
	squat := f.exerciseRepo.add("Squat", "Legs")
	curl := f.exerciseRepo.add("Curl", "Arms")

	for i, ex := range []primitive.ObjectID{bench, incline, squat, curl} {
		_, err := f.svc.AddExerciseItem(ctx, f.userID, workoutID, ex, i, 3, 8)
		require.NoError(t, err)
	}

	summaries, err := f.svc.ListWorkouts(ctx, f.userID, "", "")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	// Distinct, alphabetical, comma-joined.
	assert.Equal(t, "Arms, Chest, Legs", summaries[0].BodyPartsSummary)

	empty := f.createWorkout(t, "2025-06-21")
	summaries, err = f.svc.ListWorkouts(ctx, f.userID, "", "")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	for _, s := range summaries {
		if s.ID == empty {
			assert.Equal(t, "", s.BodyPartsSummary)
		}
	}
}

func TestListWorkoutsDateRange(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	f.createWorkout(t, "2025-06-16")
	f.createWorkout(t, "2025-06-20")
	f.createWorkout(t, "2025-06-25")

	summaries, err := f.svc.ListWorkouts(ctx, f.userID, "2025-06-17", "2025-06-24")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "2025-06-20", summaries[0].WorkoutDate)

	// Bounds are inclusive.
	summaries, err = f.svc.ListWorkouts(ctx, f.userID, "2025-06-16", "2025-06-25")
	require.NoError(t, err)
	assert.Len(t, summaries, 3)
}

func TestGetWorkoutGroupsSetsPerItem(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")

	bench := f.exerciseRepo.add("Bench Press", "Chest")
	squat := f.exerciseRepo.add("Squat", "Legs")
	benchItem, err := f.svc.AddExerciseItem(ctx, f.userID, workoutID, bench, 1, 3, 8)
	require.NoError(t, err)
	squatItem, err := f.svc.AddExerciseItem(ctx, f.userID, workoutID, squat, 2, 3, 5)
	require.NoError(t, err)

	weight := 100.0
	_, err = f.svc.AddSet(ctx, f.userID, benchItem, 1, 8, &weight, nil)
	require.NoError(t, err)
	_, err = f.svc.AddSet(ctx, f.userID, benchItem, 2, 6, &weight, nil)
	require.NoError(t, err)
	_, err = f.svc.AddSet(ctx, f.userID, squatItem, 1, 5, nil, nil)
	require.NoError(t, err)

	detail, err := f.svc.GetWorkout(ctx, f.userID, workoutID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)

	assert.Equal(t, "Bench Press", detail.Items[0].ExerciseName)
	assert.Equal(t, "Chest", detail.Items[0].BodyPart)
	require.Len(t, detail.Items[0].Sets, 2)
	assert.Equal(t, 1, detail.Items[0].Sets[0].SetNumber)
	assert.Equal(t, 2, detail.Items[0].Sets[1].SetNumber)

	assert.Equal(t, "Squat", detail.Items[1].ExerciseName)
	require.Len(t, detail.Items[1].Sets, 1)
}

func TestSetMutationsAcrossUsersAreHidden(t *testing.T) {
	f := newWorkoutFixture(t)
	ctx := context.Background()
	workoutID := f.createWorkout(t, "2025-06-20")
	itemID := f.addItem(t, workoutID)
	setID, err := f.svc.AddSet(ctx, f.userID, itemID, 1, 8, nil, nil)
	require.NoError(t, err)

	stranger := primitive.NewObjectID()
	_, err = f.svc.AddSet(ctx, stranger, itemID, 2, 8, nil, nil)
	assert.ErrorIs(t, err, ErrItemNotFound)

	err = f.svc.UpdateSet(ctx, stranger, setID, 1, 10, nil, nil)
	assert.ErrorIs(t, err, ErrSetNotFound)

	err = f.svc.RemoveSet(ctx, stranger, setID)
	assert.ErrorIs(t, err, ErrSetNotFound)
}
