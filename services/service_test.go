package services

import (
	"testing"
	"time"

	"conference-management-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// keep every query on the single in-memory connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Communication{},
		&models.ReviewerAssignment{},
		&models.Tracking{},
		&models.Notification{},
	))
	return db
}

type roomEmit struct {
	Room    string
	Event   string
	Payload any
}

type broadcastEmit struct {
	Event   string
	Payload any
}

// fakeNotifier records pushes instead of delivering them.
type fakeNotifier struct {
	Rooms      []roomEmit
	Broadcasts []broadcastEmit
}

func (f *fakeNotifier) EmitToRoom(room string, event string, payload any) {
	f.Rooms = append(f.Rooms, roomEmit{Room: room, Event: event, Payload: payload})
}

func (f *fakeNotifier) Broadcast(event string, payload any) {
	f.Broadcasts = append(f.Broadcasts, broadcastEmit{Event: event, Payload: payload})
}

func seedUser(t *testing.T, db *gorm.DB, first, last, role string) models.User {
	t.Helper()
	u := models.User{
		FirstName: first,
		LastName:  last,
		Email:     first + "." + last + "@example.org",
		Password:  "x",
		Role:      role,
		CreateAt:  time.Now(),
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedCommunication(t *testing.T, db *gorm.DB, author models.User, title string) models.Communication {
	t.Helper()
	comm := models.Communication{
		Title:      title,
		MainAuthor: author.FullName(),
		Email:      author.Email,
		FilePath:   "https://files.example.org/" + title + ".docx",
		UserID:     author.UserID,
		CreateAt:   time.Now(),
	}
	require.NoError(t, db.Create(&comm).Error)
	return comm
}

func seedAssignment(t *testing.T, db *gorm.DB, comm models.Communication, reviewer models.User) models.ReviewerAssignment {
	t.Helper()
	a := models.ReviewerAssignment{
		CommunicationID: comm.CommunicationID,
		ReviewerID:      reviewer.UserID,
		CreateAt:        time.Now(),
	}
	require.NoError(t, db.Create(&a).Error)
	return a
}
