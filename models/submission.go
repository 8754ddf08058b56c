package models

import "time"

// Submission statuses.
const (
	SubmissionStatusSubmitted   = "submitted"
	SubmissionStatusUnderReview = "under_review"
	SubmissionStatusAccepted    = "accepted"
	SubmissionStatusRejected    = "rejected"
	SubmissionStatusRevision    = "revision"
	SubmissionStatusWithdrawn   = "withdrawn"
)

// Submission represents the submissions table.
type Submission struct {
	SubmissionID uint       `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	ConferenceID uint       `gorm:"column:conference_id" json:"conference_id"`
	UserID       int        `gorm:"column:user_id" json:"user_id"`
	PaperNumber  string     `gorm:"column:paper_number;unique" json:"paper_number"`
	Title        string     `gorm:"column:title" json:"title"`
	Abstract     *string    `gorm:"column:abstract" json:"abstract,omitempty"`
	Keywords     *string    `gorm:"column:keywords" json:"keywords,omitempty"`
	Status       string     `gorm:"column:status;type:enum('submitted','under_review','accepted','rejected','revision','withdrawn');default:'submitted'" json:"status"`
	SubmittedAt  time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Conference Conference         `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
	Submitter  User               `gorm:"foreignKey:UserID" json:"submitter,omitempty"`
	Authors    []SubmissionAuthor `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"authors,omitempty"`
}

// SubmissionAuthor represents the submission_authors table (listed co-authors,
// not necessarily registered users).
type SubmissionAuthor struct {
	AuthorID        uint    `gorm:"primaryKey;column:author_id" json:"author_id"`
	SubmissionID    uint    `gorm:"column:submission_id" json:"submission_id"`
	AuthorName      string  `gorm:"column:author_name" json:"author_name"`
	Email           string  `gorm:"column:email" json:"email"`
	Affiliation     *string `gorm:"column:affiliation" json:"affiliation,omitempty"`
	AuthorOrder     int     `gorm:"column:author_order" json:"author_order"`
	IsCorresponding bool    `gorm:"column:is_corresponding" json:"is_corresponding"`
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionAuthor) TableName() string {
	return "submission_authors"
}
