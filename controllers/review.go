package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type assignReviewersReq struct {
	ReviewerIDs []uint `json:"reviewer_ids" binding:"required"`
}

// AssignReviewers replaces the reviewer roster of a communication with the
// posted set and reports the applied delta.
func AssignReviewers(c *gin.Context) {
	communicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req assignReviewersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviewer_ids must be an array of user ids"})
		return
	}

	added, removed, err := assignmentService().SetAssignments(communicationID, req.ReviewerIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": added, "removed": removed})
}

type setScoreReq struct {
	// Pointer so a literal 0 still passes the required binding.
	Score *float64 `json:"score" binding:"required"`
}

// SetScore records the caller's score for one of their assignments.
func SetScore(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req setScoreReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score is required"})
		return
	}

	if err := scoringService().SubmitScore(assignmentID, uid, *req.Score); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type trackActionReq struct {
	Action string `json:"action" binding:"required"`
}

// TrackAction records a view or download of the assignment's file.
func TrackAction(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req trackActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	if err := trackingService().RecordAction(assignmentID, uid, req.Action); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetTrackingForCommunication returns per-reviewer tracking snapshots for
// the admin dashboard.
func GetTrackingForCommunication(c *gin.Context) {
	communicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	snapshots, err := trackingService().GetForCommunication(communicationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshots)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
