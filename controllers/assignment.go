package controllers

import (
	"net/http"
	"strconv"
	"time"

	"conflow/models"

	"github.com/gin-gonic/gin"
)

type assignReviewerReq struct {
	SubmissionID uint       `json:"submission_id" binding:"required"`
	ReviewerID   int        `json:"reviewer_id" binding:"required"`
	DueDate      *time.Time `json:"due_date"`
}

type assignChairReviewerReq struct {
	ChairReviewerID int `json:"chair_reviewer_id" binding:"required"`
}

// AssignReviewer lets a chair assign a reviewer to a submission.
func AssignReviewer(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req assignReviewerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var sub models.Submission
	if err := db.First(&sub, "submission_id = ? AND delete_at IS NULL", req.SubmissionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}
	if sub.UserID == req.ReviewerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviewer cannot review their own submission"})
		return
	}

	var reviewer models.User
	if err := db.First(&reviewer, "user_id = ? AND delete_at IS NULL", req.ReviewerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reviewer not found"})
		return
	}

	var existing int64
	if err := db.Model(&models.Assignment{}).
		Where("submission_id = ? AND reviewer_id = ?", req.SubmissionID, req.ReviewerID).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "reviewer already assigned to this submission"})
		return
	}

	assignment := models.Assignment{
		SubmissionID: req.SubmissionID,
		ReviewerID:   req.ReviewerID,
		AssignedBy:   uid,
		Status:       models.AssignmentStatusPending,
		DueDate:      req.DueDate,
		CreateAt:     time.Now(),
	}
	if err := db.Create(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Move the paper into review on its first assignment.
	if sub.Status == models.SubmissionStatusSubmitted {
		_ = db.Model(&sub).Update("status", models.SubmissionStatusUnderReview).Error
	}

	c.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}

// AssignChairReviewer sets the user who will check the camera-ready version
// of an accepted paper. The camera-ready job picks this up when it fans out
// notifications.
func AssignChairReviewer(c *gin.Context) {
	db := getDB()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	var req assignChairReviewerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var assignment models.Assignment
	if err := db.First(&assignment, "assignment_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}

	var reviewer models.User
	if err := db.First(&reviewer, "user_id = ? AND delete_at IS NULL", req.ChairReviewerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chair reviewer not found"})
		return
	}

	now := time.Now()
	if err := db.Model(&assignment).Updates(map[string]interface{}{
		"chair_reviewer_id": req.ChairReviewerID,
		"update_at":         now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetMyAssignments lists the calling reviewer's assignments.
func GetMyAssignments(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	q := db.Model(&models.Assignment{}).Where("reviewer_id = ?", uid)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var items []models.Assignment
	if err := q.Preload("Submission").Preload("Submission.Conference").
		Order("create_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": items})
}
