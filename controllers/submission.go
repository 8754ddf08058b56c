package controllers

import (
	"net/http"
	"strconv"
	"time"

	"conflow/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type submissionAuthorReq struct {
	AuthorName      string  `json:"author_name" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	Affiliation     *string `json:"affiliation"`
	IsCorresponding bool    `json:"is_corresponding"`
}

type submissionCreateReq struct {
	ConferenceID uint                  `json:"conference_id" binding:"required"`
	Title        string                `json:"title" binding:"required"`
	Abstract     *string               `json:"abstract"`
	Keywords     *string               `json:"keywords"`
	Authors      []submissionAuthorReq `json:"authors" binding:"required,min=1,dive"`
}

type submissionUpdateReq struct {
	Title    *string `json:"title"`
	Abstract *string `json:"abstract"`
	Keywords *string `json:"keywords"`
}

// CreateSubmission submits a paper to an open conference.
func CreateSubmission(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req submissionCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var conf models.Conference
	if err := db.First(&conf, "conference_id = ? AND delete_at IS NULL", req.ConferenceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conference not found"})
		return
	}
	if !conf.SubmissionOpen(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "submission deadline has passed"})
		return
	}

	now := time.Now()
	sub := models.Submission{
		ConferenceID: req.ConferenceID,
		UserID:       uid,
		PaperNumber:  uuid.NewString(),
		Title:        req.Title,
		Abstract:     req.Abstract,
		Keywords:     req.Keywords,
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  now,
		CreateAt:     now,
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		for i, a := range req.Authors {
			author := models.SubmissionAuthor{
				SubmissionID:    sub.SubmissionID,
				AuthorName:      a.AuthorName,
				Email:           a.Email,
				Affiliation:     a.Affiliation,
				AuthorOrder:     i + 1,
				IsCorresponding: a.IsCorresponding,
			}
			if err := tx.Create(&author).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"submission": sub})
}

// GetSubmissions lists the caller's submissions; chairs may list a whole
// conference via ?conference_id=.
func GetSubmissions(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	q := db.Model(&models.Submission{}).Where("delete_at IS NULL")

	confIDStr := c.Query("conference_id")
	if confIDStr != "" && roleID == models.RoleChair {
		confID, err := strconv.Atoi(confIDStr)
		if err != nil || confID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conference id"})
			return
		}
		q = q.Where("conference_id = ?", confID)
	} else {
		q = q.Where("user_id = ?", uid)
	}

	var items []models.Submission
	if err := q.Preload("Conference").Order("submitted_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": items})
}

// GetSubmission returns one submission with its authors. Visible to the
// owner, chairs, and reviewers assigned to it.
func GetSubmission(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	roleID, _ := getCurrentRoleID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var sub models.Submission
	if err := db.Preload("Conference").Preload("Authors").
		First(&sub, "submission_id = ? AND delete_at IS NULL", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}

	if sub.UserID != uid && roleID != models.RoleChair {
		var assigned int64
		if err := db.Model(&models.Assignment{}).
			Where("submission_id = ? AND reviewer_id = ?", sub.SubmissionID, uid).
			Count(&assigned).Error; err != nil || assigned == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

// UpdateSubmission edits title/abstract/keywords while the conference is
// still accepting submissions.
func UpdateSubmission(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var sub models.Submission
	if err := db.Preload("Conference").
		First(&sub, "submission_id = ? AND delete_at IS NULL", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}
	if sub.UserID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if !sub.Conference.SubmissionOpen(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "submission deadline has passed"})
		return
	}

	var req submissionUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		sub.Title = *req.Title
	}
	if req.Abstract != nil {
		sub.Abstract = req.Abstract
	}
	if req.Keywords != nil {
		sub.Keywords = req.Keywords
	}
	now := time.Now()
	sub.UpdateAt = &now

	if err := db.Save(&sub).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub})
}

// WithdrawSubmission soft-deletes the caller's submission.
func WithdrawSubmission(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var sub models.Submission
	if err := db.First(&sub, "submission_id = ? AND delete_at IS NULL", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}
	if sub.UserID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	now := time.Now()
	if err := db.Model(&sub).Updates(map[string]interface{}{
		"status":    models.SubmissionStatusWithdrawn,
		"delete_at": now,
		"update_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
