package services

import (
	"testing"

	"conference-management-api/models"
	"conference-management-api/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignmentFixture(t *testing.T) (*AssignmentService, *fakeNotifier, *testFixture) {
	t.Helper()
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	svc := NewAssignmentService(db, NewNotificationService(db, notifier))

	fx := &testFixture{}
	fx.author = seedUser(t, db, "Alice", "Martin", models.RoleUser)
	fx.r1 = seedUser(t, db, "Bob", "Durand", models.RoleCommittee)
	fx.r2 = seedUser(t, db, "Carol", "Petit", models.RoleCommittee)
	fx.r3 = seedUser(t, db, "Dan", "Moreau", models.RoleCommittee)
	fx.comm = seedCommunication(t, db, fx.author, "Deep learning in cardiology")
	return svc, notifier, fx
}

type testFixture struct {
	author     models.User
	r1, r2, r3 models.User
	comm       models.Communication
}

func TestSetAssignmentsComputesDeltas(t *testing.T) {
	svc, notifier, fx := newAssignmentFixture(t)

	added, removed, err := svc.SetAssignments(fx.comm.CommunicationID,
		[]uint{fx.r1.UserID, fx.r2.UserID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{fx.r1.UserID, fx.r2.UserID}, added)
	assert.Empty(t, removed)

	// one assignment notification per added reviewer, pushed to their room
	require.Len(t, notifier.Rooms, 2)
	assert.Equal(t, realtime.ReviewerRoom(fx.r1.UserID), notifier.Rooms[0].Room)
	assert.Equal(t, realtime.ReviewerRoom(fx.r2.UserID), notifier.Rooms[1].Room)

	// replace: drop r1, keep r2, add r3
	added, removed, err = svc.SetAssignments(fx.comm.CommunicationID,
		[]uint{fx.r2.UserID, fx.r3.UserID})
	require.NoError(t, err)
	assert.Equal(t, []uint{fx.r3.UserID}, added)
	assert.Equal(t, []uint{fx.r1.UserID}, removed)
}

func TestSetAssignmentsIsIdempotent(t *testing.T) {
	svc, _, fx := newAssignmentFixture(t)

	set := []uint{fx.r1.UserID, fx.r2.UserID}
	_, _, err := svc.SetAssignments(fx.comm.CommunicationID, set)
	require.NoError(t, err)

	added, removed, err := svc.SetAssignments(fx.comm.CommunicationID, set)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestSetAssignmentsUnknownCommunication(t *testing.T) {
	svc, _, fx := newAssignmentFixture(t)

	_, _, err := svc.SetAssignments(9999, []uint{fx.r1.UserID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemovingReviewerCascadesTracking(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	notifications := NewNotificationService(db, notifier)
	assignments := NewAssignmentService(db, notifications)
	tracking := NewTrackingService(db, notifications)

	author := seedUser(t, db, "Alice", "Martin", models.RoleUser)
	reviewer := seedUser(t, db, "Bob", "Durand", models.RoleCommittee)
	comm := seedCommunication(t, db, author, "Sepsis outcomes")

	added, _, err := assignments.SetAssignments(comm.CommunicationID, []uint{reviewer.UserID})
	require.NoError(t, err)
	require.Len(t, added, 1)

	var assignment models.ReviewerAssignment
	require.NoError(t, db.Where("communication_id = ?", comm.CommunicationID).First(&assignment).Error)
	require.NoError(t, tracking.RecordAction(assignment.AssignmentID, reviewer.UserID, ActionView))

	var trackCount int64
	db.Model(&models.Tracking{}).Count(&trackCount)
	require.EqualValues(t, 1, trackCount)

	_, removed, err := assignments.SetAssignments(comm.CommunicationID, []uint{})
	require.NoError(t, err)
	assert.Equal(t, []uint{reviewer.UserID}, removed)

	db.Model(&models.Tracking{}).Count(&trackCount)
	assert.EqualValues(t, 0, trackCount)

	snapshots, err := tracking.GetForCommunication(comm.CommunicationID)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestDeleteForCommunicationsRemovesChildren(t *testing.T) {
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	notifications := NewNotificationService(db, notifier)
	assignments := NewAssignmentService(db, notifications)
	tracking := NewTrackingService(db, notifications)

	author := seedUser(t, db, "Alice", "Martin", models.RoleUser)
	reviewer := seedUser(t, db, "Bob", "Durand", models.RoleCommittee)
	comm := seedCommunication(t, db, author, "Stroke registry")
	assignment := seedAssignment(t, db, comm, reviewer)
	require.NoError(t, tracking.RecordAction(assignment.AssignmentID, reviewer.UserID, ActionDownload))

	require.NoError(t, assignments.DeleteForCommunications([]uint{comm.CommunicationID}))

	var n int64
	db.Model(&models.ReviewerAssignment{}).Count(&n)
	assert.EqualValues(t, 0, n)
	db.Model(&models.Tracking{}).Count(&n)
	assert.EqualValues(t, 0, n)
}
