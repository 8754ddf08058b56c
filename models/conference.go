package models

import "time"

// Conference statuses. A conference enters StatusCameraReady exactly once,
// via the camera-ready transition job; no code path moves it back.
const (
	ConferenceStatusActive      = "active"
	ConferenceStatusCameraReady = "camera_ready"
	ConferenceStatusArchived    = "archived"
)

// Conference represents the conferences table.
type Conference struct {
	ConferenceID       uint       `gorm:"primaryKey;column:conference_id" json:"conference_id"`
	Title              string     `gorm:"column:title" json:"title"`
	Acronym            string     `gorm:"column:acronym" json:"acronym"`
	Description        *string    `gorm:"column:description" json:"description,omitempty"`
	Location           *string    `gorm:"column:location" json:"location,omitempty"`
	SubmissionDeadline time.Time  `gorm:"column:submission_deadline" json:"submission_deadline"`
	ReviewDeadline     *time.Time `gorm:"column:review_deadline" json:"review_deadline,omitempty"`
	Status             string     `gorm:"column:status;type:enum('active','camera_ready','archived');default:'active'" json:"status"`
	CreatedBy          int        `gorm:"column:created_by" json:"created_by"`
	CreateAt           time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt           *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt           *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Chair User `gorm:"foreignKey:CreatedBy" json:"chair,omitempty"`
}

// TableName overrides the table name for Conference.
func (Conference) TableName() string {
	return "conferences"
}

// SubmissionOpen reports whether new submissions are still accepted.
func (c *Conference) SubmissionOpen(now time.Time) bool {
	return c.Status == ConferenceStatusActive && now.Before(c.SubmissionDeadline)
}
