package controllers

import (
	"net/http"
	"strconv"
	"time"

	"conflow/models"

	"github.com/gin-gonic/gin"
)

type conferenceCreateReq struct {
	Title              string     `json:"title" binding:"required"`
	Acronym            string     `json:"acronym" binding:"required"`
	Description        *string    `json:"description"`
	Location           *string    `json:"location"`
	SubmissionDeadline time.Time  `json:"submission_deadline" binding:"required"`
	ReviewDeadline     *time.Time `json:"review_deadline"`
}

type conferenceUpdateReq struct {
	Title              *string    `json:"title"`
	Acronym            *string    `json:"acronym"`
	Description        *string    `json:"description"`
	Location           *string    `json:"location"`
	SubmissionDeadline *time.Time `json:"submission_deadline"`
	ReviewDeadline     *time.Time `json:"review_deadline"`
}

// GetConferences lists conferences, optionally filtered by status.
func GetConferences(c *gin.Context) {
	db := getDB()

	q := db.Model(&models.Conference{}).Where("delete_at IS NULL")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var items []models.Conference
	if err := q.Order("submission_deadline ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conferences": items})
}

// GetConference returns a single conference.
func GetConference(c *gin.Context) {
	db := getDB()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conference id"})
		return
	}

	var conf models.Conference
	if err := db.Preload("Chair").
		First(&conf, "conference_id = ? AND delete_at IS NULL", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conference not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conference": conf})
}

// CreateConference creates a conference owned by the calling chair.
func CreateConference(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req conferenceCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conf := models.Conference{
		Title:              req.Title,
		Acronym:            req.Acronym,
		Description:        req.Description,
		Location:           req.Location,
		SubmissionDeadline: req.SubmissionDeadline,
		ReviewDeadline:     req.ReviewDeadline,
		Status:             models.ConferenceStatusActive,
		CreatedBy:          uid,
		CreateAt:           time.Now(),
	}
	if err := db.Create(&conf).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conference": conf})
}

// UpdateConference updates the conference metadata. Only the owning chair may
// update; the status column is owned by the camera-ready job and is not
// editable here.
func UpdateConference(c *gin.Context) {
	db := getDB()

	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conference id"})
		return
	}

	var conf models.Conference
	if err := db.First(&conf, "conference_id = ? AND delete_at IS NULL", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conference not found"})
		return
	}
	if conf.CreatedBy != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req conferenceUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		conf.Title = *req.Title
	}
	if req.Acronym != nil {
		conf.Acronym = *req.Acronym
	}
	if req.Description != nil {
		conf.Description = req.Description
	}
	if req.Location != nil {
		conf.Location = req.Location
	}
	if req.SubmissionDeadline != nil {
		conf.SubmissionDeadline = *req.SubmissionDeadline
	}
	if req.ReviewDeadline != nil {
		conf.ReviewDeadline = req.ReviewDeadline
	}
	now := time.Now()
	conf.UpdateAt = &now

	if err := db.Save(&conf).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conference": conf})
}
