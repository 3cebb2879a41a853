package models

import "time"

// Communication is a submitted abstract waiting for committee review.
type Communication struct {
	CommunicationID uint      `gorm:"primaryKey;column:communication_id" json:"communication_id"`
	Theme           string    `gorm:"column:theme" json:"theme"`
	Speciality      string    `gorm:"column:speciality" json:"speciality"`
	Title           string    `gorm:"column:title" json:"title"`
	MainAuthor      string    `gorm:"column:main_author" json:"main_author"`
	CoAuthors       string    `gorm:"column:co_authors" json:"co_authors"`
	Email           string    `gorm:"column:email" json:"email"`
	Phone           string    `gorm:"column:phone" json:"phone"`
	Service         string    `gorm:"column:service" json:"service"`
	Institution     string    `gorm:"column:institution" json:"institution"`
	Objectives      string    `gorm:"column:objectives" json:"objectives"`
	Methods         string    `gorm:"column:methods" json:"methods"`
	Results         string    `gorm:"column:results" json:"results"`
	Conclusion      string    `gorm:"column:conclusion" json:"conclusion"`
	FilePath        string    `gorm:"column:file_path" json:"file_path"`
	UserID          uint      `gorm:"column:user_id" json:"user_id"`
	CreateAt        time.Time `gorm:"column:create_at" json:"created_at"`

	User        *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Assignments []ReviewerAssignment `gorm:"foreignKey:CommunicationID" json:"assignments,omitempty"`
}

func (Communication) TableName() string {
	return "communications"
}

// ReviewerAssignment pairs one committee member with one communication.
// At most one row per (communication, reviewer); score stays NULL until
// the reviewer submits it.
type ReviewerAssignment struct {
	AssignmentID    uint      `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	CommunicationID uint      `gorm:"column:communication_id;uniqueIndex:idx_comm_reviewer" json:"communication_id"`
	ReviewerID      uint      `gorm:"column:reviewer_id;uniqueIndex:idx_comm_reviewer" json:"reviewer_id"`
	Score           *float64  `gorm:"column:score" json:"score"`
	CreateAt        time.Time `gorm:"column:create_at" json:"created_at"`

	Communication *Communication `gorm:"foreignKey:CommunicationID" json:"communication,omitempty"`
	Reviewer      *User          `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Tracking      *Tracking      `gorm:"foreignKey:AssignmentID" json:"tracking,omitempty"`
}

func (ReviewerAssignment) TableName() string {
	return "reviewer_assignments"
}

// Tracking is the one-to-one view/download record for an assignment.
// Only the last event timestamp is kept, no counters.
type Tracking struct {
	TrackingID   uint       `gorm:"primaryKey;column:tracking_id" json:"tracking_id"`
	AssignmentID uint       `gorm:"column:assignment_id;uniqueIndex" json:"assignment_id"`
	Viewed       bool       `gorm:"column:viewed" json:"viewed"`
	ViewedAt     *time.Time `gorm:"column:viewed_at" json:"viewed_at,omitempty"`
	Downloaded   bool       `gorm:"column:downloaded" json:"downloaded"`
	DownloadedAt *time.Time `gorm:"column:downloaded_at" json:"downloaded_at,omitempty"`
}

func (Tracking) TableName() string {
	return "trackings"
}
