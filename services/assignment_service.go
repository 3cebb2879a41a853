package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"conference-management-api/models"

	"gorm.io/gorm"
)

// AssignmentService maintains the reviewer roster per communication. The
// desired reviewer set replaces the current one; the service computes the
// delta and applies adds before removes.
type AssignmentService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewAssignmentService(db *gorm.DB, notifications *NotificationService) *AssignmentService {
	return &AssignmentService{db: db, notifications: notifications}
}

// SetAssignments reconciles the stored assignments for a communication with
// the desired reviewer set and returns the applied deltas. Calling twice
// with the same set is a no-op on the second call.
func (s *AssignmentService) SetAssignments(communicationID uint, reviewerIDs []uint) (added, removed []uint, err error) {
	var comm models.Communication
	if err := s.db.First(&comm, communicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("communication %d: %w", communicationID, ErrNotFound)
		}
		return nil, nil, err
	}

	var current []models.ReviewerAssignment
	if err := s.db.Where("communication_id = ?", communicationID).Find(&current).Error; err != nil {
		return nil, nil, err
	}

	currentSet := make(map[uint]bool, len(current))
	for _, a := range current {
		currentSet[a.ReviewerID] = true
	}

	added = make([]uint, 0)
	desired := make(map[uint]bool, len(reviewerIDs))
	for _, id := range reviewerIDs {
		if desired[id] {
			continue // ignore duplicate ids in the request
		}
		desired[id] = true
		if !currentSet[id] {
			added = append(added, id)
		}
	}

	removed = make([]uint, 0)
	for _, a := range current {
		if !desired[a.ReviewerID] {
			removed = append(removed, a.ReviewerID)
		}
	}

	for _, reviewerID := range added {
		assignment := models.ReviewerAssignment{
			CommunicationID: communicationID,
			ReviewerID:      reviewerID,
			CreateAt:        time.Now(),
		}
		if err := s.db.Create(&assignment).Error; err != nil {
			return nil, nil, err
		}

		rid := reviewerID
		message := fmt.Sprintf("You have been assigned to review %q", comm.Title)
		if _, err := s.notifications.Dispatch(models.NotificationTypeAssignment, message, NotificationRef{
			ReviewerID:      &rid,
			CommunicationID: communicationID,
		}); err != nil {
			log.Printf("assignment notification for reviewer %d failed: %v", reviewerID, err)
		}
	}

	if len(removed) > 0 {
		if err := s.removeAssignments(communicationID, removed); err != nil {
			return nil, nil, err
		}
	}

	return added, removed, nil
}

// removeAssignments deletes assignments child-first: tracking rows go before
// their assignments so the store never holds an orphaned tracking record.
func (s *AssignmentService) removeAssignments(communicationID uint, reviewerIDs []uint) error {
	var stale []models.ReviewerAssignment
	if err := s.db.Where("communication_id = ? AND reviewer_id IN ?", communicationID, reviewerIDs).
		Find(&stale).Error; err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	assignmentIDs := make([]uint, 0, len(stale))
	for _, a := range stale {
		assignmentIDs = append(assignmentIDs, a.AssignmentID)
	}

	if err := s.db.Where("assignment_id IN ?", assignmentIDs).Delete(&models.Tracking{}).Error; err != nil {
		return err
	}
	return s.db.Where("assignment_id IN ?", assignmentIDs).Delete(&models.ReviewerAssignment{}).Error
}

// DeleteForCommunications removes all assignments (and their tracking rows)
// for the given communications. Used by the admin bulk delete, which removes
// children before the communications themselves.
func (s *AssignmentService) DeleteForCommunications(communicationIDs []uint) error {
	if len(communicationIDs) == 0 {
		return nil
	}

	var assignments []models.ReviewerAssignment
	if err := s.db.Where("communication_id IN ?", communicationIDs).Find(&assignments).Error; err != nil {
		return err
	}
	if len(assignments) == 0 {
		return nil
	}

	assignmentIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.AssignmentID)
	}

	if err := s.db.Where("assignment_id IN ?", assignmentIDs).Delete(&models.Tracking{}).Error; err != nil {
		return err
	}
	return s.db.Where("assignment_id IN ?", assignmentIDs).Delete(&models.ReviewerAssignment{}).Error
}
