package services

import (
	"errors"
	"fmt"
	"time"

	"conference-management-api/models"
	"conference-management-api/realtime"

	"gorm.io/gorm"
)

// NotificationEvent is the socket.io event name used for every push.
const NotificationEvent = "notification"

// NotificationService persists notification rows and pushes them over the
// real-time channel. Persistence and broadcast are decoupled: a failed push
// never rolls back the stored row, the badge counters catch up on the next
// poll.
type NotificationService struct {
	db       *gorm.DB
	notifier realtime.Notifier
}

func NewNotificationService(db *gorm.DB, notifier realtime.Notifier) *NotificationService {
	return &NotificationService{db: db, notifier: notifier}
}

// NotificationRef carries the foreign references of a notification.
type NotificationRef struct {
	ReviewerID      *uint
	UserID          *uint
	CommunicationID uint
}

// Dispatch stores the notification and routes the push by type:
// assignment -> reviewer room, view/download -> global admin broadcast,
// approval/rejection -> author room.
func (s *NotificationService) Dispatch(ntype, message string, ref NotificationRef) (*models.Notification, error) {
	switch ntype {
	case models.NotificationTypeAssignment,
		models.NotificationTypeView,
		models.NotificationTypeDownload,
		models.NotificationTypeApproval,
		models.NotificationTypeRejection:
	default:
		return nil, fmt.Errorf("unknown notification type %q: %w", ntype, ErrValidation)
	}

	n := models.Notification{
		Type:            ntype,
		Message:         message,
		ReviewerID:      ref.ReviewerID,
		UserID:          ref.UserID,
		CommunicationID: ref.CommunicationID,
		IsRead:          false,
		CreateAt:        time.Now(),
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, err
	}

	s.push(&n)
	return &n, nil
}

func (s *NotificationService) push(n *models.Notification) {
	if s.notifier == nil {
		return
	}
	switch n.Type {
	case models.NotificationTypeAssignment:
		if n.ReviewerID != nil {
			s.notifier.EmitToRoom(realtime.ReviewerRoom(*n.ReviewerID), NotificationEvent, n)
		}
	case models.NotificationTypeView, models.NotificationTypeDownload:
		s.notifier.Broadcast(NotificationEvent, n)
	case models.NotificationTypeApproval, models.NotificationTypeRejection:
		if n.UserID != nil {
			s.notifier.EmitToRoom(realtime.UserRoom(*n.UserID), NotificationEvent, n)
		}
	}
}

/* ==========================
   Audience queries
   ========================== */

func (s *NotificationService) adminScope() *gorm.DB {
	return s.db.Model(&models.Notification{}).
		Where("type IN ?", []string{models.NotificationTypeView, models.NotificationTypeDownload})
}

func (s *NotificationService) reviewerScope(reviewerID uint) *gorm.DB {
	return s.db.Model(&models.Notification{}).
		Where("reviewer_id = ? AND type = ?", reviewerID, models.NotificationTypeAssignment)
}

func (s *NotificationService) userScope(userID uint) *gorm.DB {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND type IN ?", userID,
			[]string{models.NotificationTypeApproval, models.NotificationTypeRejection})
}

// ListAdmin returns the shared admin inbox (view/download activity).
func (s *NotificationService) ListAdmin(limit, offset int) ([]models.Notification, int64, error) {
	return s.list(s.adminScope(), limit, offset)
}

// ListReviewer returns a committee member's assignment notifications.
func (s *NotificationService) ListReviewer(reviewerID uint, limit, offset int) ([]models.Notification, int64, error) {
	return s.list(s.reviewerScope(reviewerID), limit, offset)
}

// ListUser returns an author's approval/rejection notifications.
func (s *NotificationService) ListUser(userID uint, limit, offset int) ([]models.Notification, int64, error) {
	return s.list(s.userScope(userID), limit, offset)
}

func (s *NotificationService) list(scope *gorm.DB, limit, offset int) ([]models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var unread int64
	if err := scope.Session(&gorm.Session{}).Where("is_read = ?", false).Count(&unread).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Notification
	if err := scope.Order("create_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

/* ==========================
   Read flags
   ========================== */

// MarkReadForReviewer flips is_read on one of the reviewer's own
// notifications. Idempotent; marking an already read row succeeds.
func (s *NotificationService) MarkReadForReviewer(notificationID, reviewerID uint) error {
	return s.markRead(s.reviewerScope(reviewerID), notificationID)
}

// MarkReadForUser flips is_read on one of the author's own notifications.
func (s *NotificationService) MarkReadForUser(notificationID, userID uint) error {
	return s.markRead(s.userScope(userID), notificationID)
}

func (s *NotificationService) markRead(scope *gorm.DB, notificationID uint) error {
	var n models.Notification
	if err := scope.Session(&gorm.Session{}).Where("notification_id = ?", notificationID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("notification %d: %w", notificationID, ErrNotFound)
		}
		return err
	}
	return s.db.Model(&models.Notification{}).
		Where("notification_id = ?", notificationID).
		Update("is_read", true).Error
}

// MarkAllReadAdmin clears the shared admin inbox. The admin audience is a
// single inbox, so there is no per-caller filter here.
func (s *NotificationService) MarkAllReadAdmin() error {
	return s.adminScope().Where("is_read = ?", false).Update("is_read", true).Error
}

func (s *NotificationService) MarkAllReadReviewer(reviewerID uint) error {
	return s.reviewerScope(reviewerID).Where("is_read = ?", false).Update("is_read", true).Error
}

func (s *NotificationService) MarkAllReadUser(userID uint) error {
	return s.userScope(userID).Where("is_read = ?", false).Update("is_read", true).Error
}
