package services

import (
	"errors"
	"fmt"
	"log"

	"conference-management-api/models"

	"gorm.io/gorm"
)

// ApprovalThreshold is the average score at which a fully scored
// communication is approved. Everything below it is rejected by the
// outcome evaluation; the three-way display classification in
// status_service.go is a separate, read-only rule.
const ApprovalThreshold = 8.0

// ScoringService records reviewer scores and derives the aggregate outcome.
type ScoringService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewScoringService(db *gorm.DB, notifications *NotificationService) *ScoringService {
	return &ScoringService{db: db, notifications: notifications}
}

// SubmitScore validates and stores one reviewer's score for one assignment,
// then re-evaluates the parent communication. Overwrite semantics: a second
// write replaces the first, no history is kept. The UI disables resubmission
// once a score is set; the server deliberately does not.
func (s *ScoringService) SubmitScore(assignmentID, reviewerID uint, score float64) error {
	if score < 0 || score > 10 {
		return fmt.Errorf("score %g out of range [0,10]: %w", score, ErrValidation)
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

	if err := s.db.Model(&assignment).Update("score", score).Error; err != nil {
		return err
	}

	// Outcome evaluation is an independent failure domain: the committed
	// score stands even if notification dispatch fails.
	s.evaluateOutcome(assignment.CommunicationID)
	return nil
}

// evaluateOutcome derives the aggregate outcome once every assigned reviewer
// has scored. It runs after every score write, so a correction made after the
// set was already complete re-sends the outcome notification. That matches
// the at-least-once delivery stance; receivers must tolerate duplicates.
func (s *ScoringService) evaluateOutcome(communicationID uint) {
	var assignments []models.ReviewerAssignment
	if err := s.db.Where("communication_id = ?", communicationID).Find(&assignments).Error; err != nil {
		log.Printf("outcome evaluation for communication %d failed: %v", communicationID, err)
		return
	}
	if len(assignments) == 0 {
		return
	}

	sum := 0.0
	for _, a := range assignments {
		if a.Score == nil {
			return // not all scored yet, stays pending
		}
		sum += *a.Score
	}
	avg := sum / float64(len(assignments))

	var comm models.Communication
	if err := s.db.First(&comm, communicationID).Error; err != nil {
		log.Printf("outcome evaluation for communication %d failed: %v", communicationID, err)
		return
	}

	ntype := models.NotificationTypeRejection
	message := fmt.Sprintf("Your communication %q was rejected with an average score of %.2f", comm.Title, avg)
	if avg >= ApprovalThreshold {
		ntype = models.NotificationTypeApproval
		message = fmt.Sprintf("Your communication %q was approved with an average score of %.2f", comm.Title, avg)
	}

	authorID := comm.UserID
	if _, err := s.notifications.Dispatch(ntype, message, NotificationRef{
		UserID:          &authorID,
		CommunicationID: communicationID,
	}); err != nil {
		log.Printf("outcome notification for communication %d failed: %v", communicationID, err)
	}
}
