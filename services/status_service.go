package services

import "conference-management-api/models"

// Display statuses for list views. These are derived on read, never stored.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ClassifyAverage applies the three-way display rule: below 5 rejected,
// 5 to 8 pending, 8 and up approved. Note this intentionally differs from
// the binary outcome evaluation in scoring_service.go (>= 8 approved,
// everything else rejected); the two rules coexist and must not be unified.
func ClassifyAverage(avg float64) string {
	switch {
	case avg >= 8:
		return StatusApproved
	case avg < 5:
		return StatusRejected
	default:
		return StatusPending
	}
}

// ClassifyAssignments derives the display status for a communication from
// its assignments. No reviewers or any missing score means pending.
func ClassifyAssignments(assignments []models.ReviewerAssignment) string {
	if len(assignments) == 0 {
		return StatusPending
	}
	sum := 0.0
	for _, a := range assignments {
		if a.Score == nil {
			return StatusPending
		}
		sum += *a.Score
	}
	return ClassifyAverage(sum / float64(len(assignments)))
}
