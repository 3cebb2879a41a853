package services

import (
	"testing"

	"conference-management-api/models"
	"conference-management-api/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitScoreValidatesRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoringService(db, NewNotificationService(db, &fakeNotifier{}))

	author := seedUser(t, db, "Alice", "Martin", models.RoleUser)
	reviewer := seedUser(t, db, "Bob", "Durand", models.RoleCommittee)
	comm := seedCommunication(t, db, author, "Pediatric imaging")
	assignment := seedAssignment(t, db, comm, reviewer)

	assert.ErrorIs(t, svc.SubmitScore(assignment.AssignmentID, reviewer.UserID, -0.5), ErrValidation)
	assert.ErrorIs(t, svc.SubmitScore(assignment.AssignmentID, reviewer.UserID, 10.5), ErrValidation)

	// boundaries are inclusive
	require.NoError(t, svc.SubmitScore(assignment.AssignmentID, reviewer.UserID, 0))
	require.NoError(t, svc.SubmitScore(assignment.AssignmentID, reviewer.UserID, 10))
}

func TestSubmitScoreRejectsOtherReviewers(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoringService(db, NewNotificationService(db, &fakeNotifier{}))

	author := seedUser(t, db, "Alice", "Martin", models.RoleUser)
	owner := seedUser(t, db, "Bob", "Durand", models.RoleCommittee)
	intruder := seedUser(t, db, "Eve", "Lambert", models.RoleCommittee)
	comm := seedCommunication(t, db, author, "Oncology trial")
	assignment := seedAssignment(t, db, comm, owner)

	err := svc.SubmitScore(assignment.AssignmentID, intruder.UserID, 7)
	assert.ErrorIs(t, err, ErrForbidden)

	// the score stays untouched
	var stored models.ReviewerAssignment
	require.NoError(t, db.First(&stored, assignment.AssignmentID).Error)
	assert.Nil(t, stored.Score)

	assert.ErrorIs(t, svc.SubmitScore(9999, owner.UserID, 7), ErrNotFound)
}

func TestSubmitScorePersistsAndOverwrites(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoringService(db, NewNotificationService(db, &fakeNotifier{}))

	author := seedUser(t, db, "Alice", "Martin", models.RoleUser)
	reviewer := seedUser(t, db, "Bob", "Durand", models.RoleCommittee)
	comm := seedCommunication(t, db, author, "Neurology cohort")
	other := seedUser(t, db, "Carol", "Petit", models.RoleCommittee)
	assignment := seedAssignment(t, db, comm, reviewer)
	seedAssignment(t, db, comm, other) // keeps the set not-all-scored

	require.NoError(t, svc.SubmitScore(assignment.AssignmentID, reviewer.UserID, 6.5))

	var stored models.ReviewerAssignment
	require.NoError(t, db.First(&stored, assignment.AssignmentID).Error)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 6.5, *stored.Score)

	// last write wins, no history
	require.NoError(t, svc.SubmitScore(assignment.AssignmentID, reviewer.UserID, 8))
	require.NoError(t, db.First(&stored, assignment.AssignmentID).Error)
	assert.Equal(t, 8.0, *stored.Score)
}

func TestOutcomeApprovalAtThreshold(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewScoringService(db, NewNotificationService(db, notifier))

	author := seedUser(t, db, "Alice", "Martin", models.RoleUser)
	comm := seedCommunication(t, db, author, "Rare disease registry")
	reviewers := []models.User{
		seedUser(t, db, "Bob", "Durand", models.RoleCommittee),
		seedUser(t, db, "Carol", "Petit", models.RoleCommittee),
		seedUser(t, db, "Dan", "Moreau", models.RoleCommittee),
	}
	assignments := make([]models.ReviewerAssignment, 0, 3)
	for _, r := range reviewers {
		assignments = append(assignments, seedAssignment(t, db, comm, r))
	}

	scores := []float64{9, 8.5, 7} // avg 8.1667 -> approved
	for i, s := range scores {
		require.NoError(t, svc.SubmitScore(assignments[i].AssignmentID, reviewers[i].UserID, s))
	}

	// only the final write completes the set, so exactly one author push
	require.Len(t, notifier.Rooms, 1)
	assert.Equal(t, realtime.UserRoom(author.UserID), notifier.Rooms[0].Room)

	var n models.Notification
	require.NoError(t, db.Where("type = ?", models.NotificationTypeApproval).First(&n).Error)
	require.NotNil(t, n.UserID)
	assert.Equal(t, author.UserID, *n.UserID)
	assert.Contains(t, n.Message, "8.17")
	assert.Contains(t, n.Message, comm.Title)
}

func TestOutcomeBinaryRejectionVersusTernaryDisplay(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewScoringService(db, NewNotificationService(db, notifier))

	author := seedUser(t, db, "Alice", "Martin", models.RoleUser)
	comm := seedCommunication(t, db, author, "Hypertension screening")
	r1 := seedUser(t, db, "Bob", "Durand", models.RoleCommittee)
	r2 := seedUser(t, db, "Carol", "Petit", models.RoleCommittee)
	a1 := seedAssignment(t, db, comm, r1)
	a2 := seedAssignment(t, db, comm, r2)

	require.NoError(t, svc.SubmitScore(a1.AssignmentID, r1.UserID, 9))
	require.NoError(t, svc.SubmitScore(a2.AssignmentID, r2.UserID, 3))

	// avg 6: the mutation path rejects...
	var n models.Notification
	require.NoError(t, db.Where("communication_id = ?", comm.CommunicationID).First(&n).Error)
	assert.Equal(t, models.NotificationTypeRejection, n.Type)
	assert.Contains(t, n.Message, "6.00")

	// ...while the display rule reports pending for the same data
	var assignments []models.ReviewerAssignment
	require.NoError(t, db.Where("communication_id = ?", comm.CommunicationID).Find(&assignments).Error)
	assert.Equal(t, StatusPending, ClassifyAssignments(assignments))
}

func TestOutcomeSkippedUntilAllScored(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewScoringService(db, NewNotificationService(db, notifier))

	author := seedUser(t, db, "Alice", "Martin", models.RoleUser)
	comm := seedCommunication(t, db, author, "Burnout survey")
	r1 := seedUser(t, db, "Bob", "Durand", models.RoleCommittee)
	r2 := seedUser(t, db, "Carol", "Petit", models.RoleCommittee)
	a1 := seedAssignment(t, db, comm, r1)
	seedAssignment(t, db, comm, r2)

	require.NoError(t, svc.SubmitScore(a1.AssignmentID, r1.UserID, 9))

	assert.Empty(t, notifier.Rooms)
	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestOutcomeRefiresOnCorrection(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewScoringService(db, NewNotificationService(db, notifier))

	author := seedUser(t, db, "Alice", "Martin", models.RoleUser)
	comm := seedCommunication(t, db, author, "Telemedicine uptake")
	r1 := seedUser(t, db, "Bob", "Durand", models.RoleCommittee)
	a1 := seedAssignment(t, db, comm, r1)

	require.NoError(t, svc.SubmitScore(a1.AssignmentID, r1.UserID, 9))
	require.NoError(t, svc.SubmitScore(a1.AssignmentID, r1.UserID, 4))

	// evaluation runs on every write once the set is complete; a correction
	// re-sends the outcome
	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.EqualValues(t, 2, count)
	require.Len(t, notifier.Rooms, 2)
}

func TestClassifyAverage(t *testing.T) {
	assert.Equal(t, StatusApproved, ClassifyAverage(8))
	assert.Equal(t, StatusApproved, ClassifyAverage(9.6))
	assert.Equal(t, StatusPending, ClassifyAverage(5))
	assert.Equal(t, StatusPending, ClassifyAverage(7.99))
	assert.Equal(t, StatusRejected, ClassifyAverage(4.99))
	assert.Equal(t, StatusRejected, ClassifyAverage(0))
}

func TestClassifyAssignmentsEdgeCases(t *testing.T) {
	assert.Equal(t, StatusPending, ClassifyAssignments(nil))

	s := 9.0
	scored := models.ReviewerAssignment{Score: &s}
	unscored := models.ReviewerAssignment{}
	assert.Equal(t, StatusPending, ClassifyAssignments([]models.ReviewerAssignment{scored, unscored}))
	assert.Equal(t, StatusApproved, ClassifyAssignments([]models.ReviewerAssignment{scored}))
}
