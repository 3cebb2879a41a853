package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"conference-management-api/models"

	"gorm.io/gorm"
)

// Tracking actions
const (
	ActionView     = "view"
	ActionDownload = "download"
)

// TrackingService records when a reviewer views or downloads the file of an
// assigned communication and informs the admin channel about it.
type TrackingService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewTrackingService(db *gorm.DB, notifications *NotificationService) *TrackingService {
	return &TrackingService{db: db, notifications: notifications}
}

// RecordAction upserts the tracking row for the assignment. Flags are
// idempotent, the timestamp is refreshed on every call; there is no counter
// of repeated views. Every call pushes a fresh admin notification.
func (s *TrackingService) RecordAction(assignmentID, reviewerID uint, action string) error {
	if action != ActionView && action != ActionDownload {
		return fmt.Errorf("unknown action %q: %w", action, ErrValidation)
	}

	var assignment models.ReviewerAssignment
	if err := s.db.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
		}
		return err
	}
	if assignment.ReviewerID != reviewerID {
		return fmt.Errorf("assignment %d does not belong to reviewer %d: %w",
			assignmentID, reviewerID, ErrForbidden)
	}

	var tracking models.Tracking
	err := s.db.Where("assignment_id = ?", assignmentID).First(&tracking).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		tracking = models.Tracking{AssignmentID: assignmentID}
	}

	now := time.Now()
	if action == ActionView {
		tracking.Viewed = true
		tracking.ViewedAt = &now
	} else {
		tracking.Downloaded = true
		tracking.DownloadedAt = &now
	}
	if err := s.db.Save(&tracking).Error; err != nil {
		return err
	}

	s.notifyAdmin(&assignment, action)
	return nil
}

func (s *TrackingService) notifyAdmin(assignment *models.ReviewerAssignment, action string) {
	var reviewer models.User
	if err := s.db.First(&reviewer, assignment.ReviewerID).Error; err != nil {
		log.Printf("tracking notification: reviewer %d lookup failed: %v", assignment.ReviewerID, err)
		return
	}
	var comm models.Communication
	if err := s.db.First(&comm, assignment.CommunicationID).Error; err != nil {
		log.Printf("tracking notification: communication %d lookup failed: %v", assignment.CommunicationID, err)
		return
	}

	ntype := models.NotificationTypeView
	verb := "viewed"
	if action == ActionDownload {
		ntype = models.NotificationTypeDownload
		verb = "downloaded"
	}

	message := fmt.Sprintf("%s %s the file for %q", reviewer.FullName(), verb, comm.Title)
	if _, err := s.notifications.Dispatch(ntype, message, NotificationRef{
		CommunicationID: assignment.CommunicationID,
	}); err != nil {
		log.Printf("tracking notification for assignment %d failed: %v", assignment.AssignmentID, err)
	}
}

// TrackingSnapshot is the admin view of one reviewer's progress on a
// communication.
type TrackingSnapshot struct {
	AssignmentID uint       `json:"assignment_id"`
	ReviewerID   uint       `json:"reviewer_id"`
	ReviewerName string     `json:"reviewer_name"`
	Email        string     `json:"email"`
	Viewed       bool       `json:"viewed"`
	ViewedAt     *time.Time `json:"viewed_at,omitempty"`
	Downloaded   bool       `json:"downloaded"`
	DownloadedAt *time.Time `json:"downloaded_at,omitempty"`
	Score        *float64   `json:"score"`
}

// GetForCommunication returns one snapshot per assigned reviewer.
func (s *TrackingService) GetForCommunication(communicationID uint) ([]TrackingSnapshot, error) {
	var comm models.Communication
	if err := s.db.First(&comm, communicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("communication %d: %w", communicationID, ErrNotFound)
		}
		return nil, err
	}

	var assignments []models.ReviewerAssignment
	if err := s.db.Preload("Reviewer").Preload("Tracking").
		Where("communication_id = ?", communicationID).
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	snapshots := make([]TrackingSnapshot, 0, len(assignments))
	for _, a := range assignments {
		snap := TrackingSnapshot{
			AssignmentID: a.AssignmentID,
			ReviewerID:   a.ReviewerID,
			Score:        a.Score,
		}
		if a.Reviewer != nil {
			snap.ReviewerName = a.Reviewer.FullName()
			snap.Email = a.Reviewer.Email
		}
		if a.Tracking != nil {
			snap.Viewed = a.Tracking.Viewed
			snap.ViewedAt = a.Tracking.ViewedAt
			snap.Downloaded = a.Tracking.Downloaded
			snap.DownloadedAt = a.Tracking.DownloadedAt
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
