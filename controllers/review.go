package controllers

import (
	"net/http"
	"strconv"
	"time"

	"conflow/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type reviewCreateReq struct {
	AssignmentID         uint    `json:"assignment_id" binding:"required"`
	Recommendation       string  `json:"recommendation" binding:"required,oneof=accept reject revision"`
	Score                *int    `json:"score" binding:"omitempty,min=1,max=10"`
	Comments             string  `json:"comments" binding:"required"`
	ConfidentialComments *string `json:"confidential_comments"`
}

// SubmitReview records a reviewer's recommendation for their own pending
// assignment and marks the assignment completed.
func SubmitReview(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req reviewCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var assignment models.Assignment
	if err := db.First(&assignment, "assignment_id = ?", req.AssignmentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}
	if assignment.ReviewerID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if assignment.Status == models.AssignmentStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "review already submitted for this assignment"})
		return
	}

	now := time.Now()
	review := models.Review{
		AssignmentID:         assignment.AssignmentID,
		SubmissionID:         assignment.SubmissionID,
		ReviewerID:           uid,
		Recommendation:       req.Recommendation,
		Score:                req.Score,
		Comments:             req.Comments,
		ConfidentialComments: req.ConfidentialComments,
		ReviewedAt:           now,
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return tx.Model(&assignment).Updates(map[string]interface{}{
			"status":    models.AssignmentStatusCompleted,
			"update_at": now,
		}).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// GetSubmissionReviews lists all reviews for a submission (chair only).
func GetSubmissionReviews(c *gin.Context) {
	db := getDB()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var items []models.Review
	if err := db.Preload("Reviewer").
		Where("submission_id = ?", id).
		Order("reviewed_at ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": items})
}
