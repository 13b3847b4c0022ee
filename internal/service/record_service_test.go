package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRecordFixture() (RecordService, *fakeRecordRepo, *fakeExerciseRepo, primitive.ObjectID) {
	recordRepo := newFakeRecordRepo()
	exerciseRepo := newFakeExerciseRepo()
	return NewRecordService(recordRepo, exerciseRepo), recordRepo, exerciseRepo, primitive.NewObjectID()
}

func TestCreateRecordValidation(t *testing.T) {
	svc, _, exerciseRepo, userID := newRecordFixture()
	ctx := context.Background()
	benchID := exerciseRepo.add("Bench Press", "Chest")

	_, err := svc.CreateRecord(ctx, userID, primitive.NilObjectID, 100, "2024-01-10", "")
	assert.ErrorIs(t, err, ErrRecordValidation)

	_, err = svc.CreateRecord(ctx, userID, benchID, 0, "2024-01-10", "")
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = svc.CreateRecord(ctx, userID, benchID, 100, "10.01.2024", "")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.CreateRecord(ctx, userID, primitive.NewObjectID(), 100, "2024-01-10", "")
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	// Past dates are valid here, unlike workout creation.
	_, err = svc.CreateRecord(ctx, userID, benchID, 100, "2020-01-10", "old PR")
	assert.NoError(t, err)
}

func TestCreateRecordRejectsExactDuplicate(t *testing.T) {
	svc, _, exerciseRepo, userID := newRecordFixture()
	ctx := context.Background()
	benchID := exerciseRepo.add("Bench Press", "Chest")

	_, err := svc.CreateRecord(ctx, userID, benchID, 100, "2024-01-10", "")
	require.NoError(t, err)

	_, err = svc.CreateRecord(ctx, userID, benchID, 100, "2024-01-10", "again")
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	// Any differing tuple field makes it a new record.
	_, err = svc.CreateRecord(ctx, userID, benchID, 102.5, "2024-01-10", "")
	assert.NoError(t, err)
	_, err = svc.CreateRecord(ctx, userID, benchID, 100, "2024-01-11", "")
	assert.NoError(t, err)
}

func TestListRecordsJoinsExercise(t *testing.T) {
	svc, _, exerciseRepo, userID := newRecordFixture()
	ctx := context.Background()
	benchID := exerciseRepo.add("Bench Press", "Chest")
	squatID := exerciseRepo.add("Squat", "Legs")

	_, err := svc.CreateRecord(ctx, userID, benchID, 100, "2024-01-10", "")
	require.NoError(t, err)
	_, err = svc.CreateRecord(ctx, userID, squatID, 140, "2024-02-01", "")
	require.NoError(t, err)

	entries, err := svc.ListRecords(ctx, userID, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Bench Press", entries[0].ExerciseName)
	assert.Equal(t, "Chest", entries[0].BodyPart)
	assert.Equal(t, "Squat", entries[1].ExerciseName)

	only, err := svc.ListRecords(ctx, userID, &squatID)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, 140.0, only[0].Weight)
}

func TestDeleteRecordIsSilentForForeignIDs(t *testing.T) {
	svc, recordRepo, exerciseRepo, userID := newRecordFixture()
	ctx := context.Background()
	benchID := exerciseRepo.add("Bench Press", "Chest")

	recordID, err := svc.CreateRecord(ctx, userID, benchID, 100, "2024-01-10", "")
	require.NoError(t, err)

	// A stranger deleting the record succeeds without removing it.
	err = svc.DeleteRecord(ctx, primitive.NewObjectID(), recordID)
	assert.NoError(t, err)
	assert.Len(t, recordRepo.records, 1)

	// So does deleting an ID that never existed.
	err = svc.DeleteRecord(ctx, userID, primitive.NewObjectID())
	assert.NoError(t, err)

	// The owner's delete actually removes it.
	err = svc.DeleteRecord(ctx, userID, recordID)
	assert.NoError(t, err)
	assert.Empty(t, recordRepo.records)
}
