package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"conference-management-api/models"
	"conference-management-api/services"
	"conference-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type submitCommunicationReq struct {
	Theme       string `json:"theme"`
	Speciality  string `json:"speciality"`
	Title       string `json:"title" binding:"required"`
	MainAuthor  string `json:"main_author" binding:"required"`
	CoAuthors   string `json:"co_authors"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone"`
	Service     string `json:"service"`
	Institution string `json:"institution"`
	Objectives  string `json:"objectives"`
	Methods     string `json:"methods"`
	Results     string `json:"results"`
	Conclusion  string `json:"conclusion"`
	FilePath    string `json:"file_path" binding:"required"`
}

// SubmitCommunication stores a submitted abstract. Anonymous submitters are
// matched by email; unknown ones get an account with a generated password
// mailed to them so they can follow their submission later. The uploaded
// file itself lives in object storage, only its reference is kept here.
func SubmitCommunication(c *gin.Context) {
	var req submitCommunicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}

	db := getDB()

	var user models.User
	if uid, ok := getCurrentUserID(c); ok {
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
	} else if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// First contact: create the account and mail the credentials.
		password := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		hashed, err := HashPassword(password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		firstName, lastName := splitAuthorName(req.MainAuthor)
		user = models.User{
			FirstName: firstName,
			LastName:  lastName,
			Email:     req.Email,
			Password:  hashed,
			Role:      models.RoleUser,
			CreateAt:  time.Now(),
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		go sendMailSafe([]string{req.Email}, "Your conference account",
			buildWelcomeEmailHTML(req.MainAuthor, req.Email, password))
	}

	comm := models.Communication{
		Theme:       utils.SanitizeInput(req.Theme),
		Speciality:  utils.SanitizeInput(req.Speciality),
		Title:       utils.SanitizeInput(req.Title),
		MainAuthor:  utils.SanitizeInput(req.MainAuthor),
		CoAuthors:   utils.SanitizeInput(req.CoAuthors),
		Email:       req.Email,
		Phone:       utils.SanitizeInput(req.Phone),
		Service:     utils.SanitizeInput(req.Service),
		Institution: utils.SanitizeInput(req.Institution),
		Objectives:  req.Objectives,
		Methods:     req.Methods,
		Results:     req.Results,
		Conclusion:  req.Conclusion,
		FilePath:    req.FilePath,
		UserID:      user.UserID,
		CreateAt:    time.Now(),
	}
	if err := db.Create(&comm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, comm)
}

type communicationListItem struct {
	models.Communication
	CommitteeMembers []committeeMember `json:"committee_members"`
	Scores           []float64         `json:"scores"`
	Status           string            `json:"status"`
}

type committeeMember struct {
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// GetCommunications lists every communication for the admin dashboard with
// its reviewer roster, the scores collected so far, and the three-way
// display status.
func GetCommunications(c *gin.Context) {
	var comms []models.Communication
	if err := getDB().
		Preload("User").
		Preload("Assignments.Reviewer").
		Order("create_at DESC").
		Find(&comms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items := make([]communicationListItem, 0, len(comms))
	for _, comm := range comms {
		item := communicationListItem{
			Communication:    comm,
			CommitteeMembers: make([]committeeMember, 0, len(comm.Assignments)),
			Scores:           make([]float64, 0, len(comm.Assignments)),
			Status:           services.ClassifyAssignments(comm.Assignments),
		}
		for _, a := range comm.Assignments {
			if a.Reviewer != nil {
				item.CommitteeMembers = append(item.CommitteeMembers, committeeMember{
					UserID:    a.Reviewer.UserID,
					FirstName: a.Reviewer.FirstName,
					LastName:  a.Reviewer.LastName,
					Email:     a.Reviewer.Email,
				})
			}
			if a.Score != nil {
				item.Scores = append(item.Scores, *a.Score)
			}
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

// GetMyCommunications lists the caller's own submissions.
func GetMyCommunications(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var comms []models.Communication
	if err := getDB().
		Where("user_id = ?", uid).
		Order("create_at DESC").
		Find(&comms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, comms)
}

// GetCommitteeMembers lists reviewers available for assignment.
func GetCommitteeMembers(c *gin.Context) {
	var members []models.User
	if err := getDB().
		Select([]string{"user_id", "first_name", "last_name", "email"}).
		Where("role = ? AND delete_at IS NULL", models.RoleCommittee).
		Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, members)
}

type deleteBulkReq struct {
	IDs []uint `json:"ids" binding:"required"`
}

// DeleteBulkCommunications removes communications and their dependents.
// Children go first: tracking rows, then assignments, then the
// communications themselves.
func DeleteBulkCommunications(c *gin.Context) {
	var req deleteBulkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids must not be empty"})
		return
	}

	if err := assignmentService().DeleteForCommunications(req.IDs); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := getDB().Where("communication_id IN ?", req.IDs).
		Delete(&models.Communication{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type assignedCommunication struct {
	AssignmentID uint     `json:"assignment_id"`
	Title        string   `json:"title"`
	FilePath     string   `json:"file_path"`
	MainAuthor   string   `json:"main_author"`
	Author       string   `json:"author"`
	Score        *float64 `json:"score"`
}

// GetAssignedToMe is the reviewer work queue.
func GetAssignedToMe(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var assignments []models.ReviewerAssignment
	if err := getDB().
		Preload("Communication.User").
		Where("reviewer_id = ?", uid).
		Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	items := make([]assignedCommunication, 0, len(assignments))
	for _, a := range assignments {
		item := assignedCommunication{
			AssignmentID: a.AssignmentID,
			Score:        a.Score,
		}
		if a.Communication != nil {
			item.Title = a.Communication.Title
			item.FilePath = a.Communication.FilePath
			item.MainAuthor = a.Communication.MainAuthor
			if a.Communication.User != nil {
				item.Author = a.Communication.User.FullName()
			}
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

func splitAuthorName(fullName string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(fullName))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], parts[0]
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func buildWelcomeEmailHTML(name, email, password string) string {
	return fmt.Sprintf(`<html><body>
<p>Dear %s,</p>
<p>An account was created for you so you can follow your communication through review.</p>
<p>Email: <b>%s</b><br>Password: <b>%s</b></p>
<p>Please change this password after your first login.</p>
</body></html>`, name, email, password)
}
