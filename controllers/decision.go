package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"conflow/models"
	"conflow/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type decisionCreateReq struct {
	SubmissionID   uint    `json:"submission_id" binding:"required"`
	AssignmentID   uint    `json:"assignment_id" binding:"required"`
	ReviewDecision string  `json:"review_decision" binding:"required,oneof=accept reject revision"`
	Comments       *string `json:"comments"`
}

// decisionSubmissionStatus maps a verdict to the submission status it implies.
func decisionSubmissionStatus(verdict string) string {
	switch verdict {
	case models.DecisionAccept:
		return models.SubmissionStatusAccepted
	case models.DecisionReject:
		return models.SubmissionStatusRejected
	default:
		return models.SubmissionStatusRevision
	}
}

// CreateDecision records the chair's verdict on a submission, updates the
// submission status, and notifies the submitting author.
func CreateDecision(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req decisionCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var sub models.Submission
	if err := db.Preload("Conference").Preload("Submitter").
		First(&sub, "submission_id = ? AND delete_at IS NULL", req.SubmissionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}

	var assignment models.Assignment
	if err := db.First(&assignment, "assignment_id = ? AND submission_id = ?", req.AssignmentID, req.SubmissionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found for this submission"})
		return
	}

	decision := models.Decision{
		SubmissionID:   req.SubmissionID,
		AssignmentID:   req.AssignmentID,
		ReviewDecision: req.ReviewDecision,
		DecidedBy:      uid,
		Comments:       req.Comments,
		CreateAt:       time.Now(),
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&decision).Error; err != nil {
			return err
		}
		return tx.Model(&sub).Updates(map[string]interface{}{
			"status":    decisionSubmissionStatus(req.ReviewDecision),
			"update_at": time.Now(),
		}).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Best effort: the decision stands even if the author notification fails.
	notifier := services.NewNotificationService(db)
	submissionID := sub.SubmissionID
	title := fmt.Sprintf("Decision on %q", sub.Title)
	message := fmt.Sprintf("The program committee has reached a decision on your submission %q (%s): %s.",
		sub.Title, sub.Conference.Acronym, req.ReviewDecision)
	_ = notifier.CreateAndSend(c.Request.Context(),
		services.NotificationRecipient{ID: sub.UserID, Email: sub.Submitter.Email},
		title, message, &submissionID)

	c.JSON(http.StatusCreated, gin.H{"decision": decision})
}

// GetConferenceDecisions lists decisions for a conference (chair only).
func GetConferenceDecisions(c *gin.Context) {
	db := getDB()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conference id"})
		return
	}

	var items []models.Decision
	if err := db.Preload("Submission").
		Joins("JOIN submissions s ON s.submission_id = decisions.submission_id").
		Where("s.conference_id = ?", id).
		Order("decisions.create_at DESC").
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": items})
}
