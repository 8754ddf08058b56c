package models

import "time"

// Assignment statuses.
const (
	AssignmentStatusPending   = "pending"
	AssignmentStatusCompleted = "completed"
)

// Review recommendations and decision verdicts share the same vocabulary.
const (
	DecisionAccept   = "accept"
	DecisionReject   = "reject"
	DecisionRevision = "revision"
)

// Assignment links a submission to the reviewer responsible for it. After a
// paper is accepted, the chair may additionally set ChairReviewerID to the
// user who will check the camera-ready version.
type Assignment struct {
	AssignmentID    uint       `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	SubmissionID    uint       `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID      int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	AssignedBy      int        `gorm:"column:assigned_by" json:"assigned_by"`
	ChairReviewerID *int       `gorm:"column:chair_reviewer_id" json:"chair_reviewer_id,omitempty"`
	Status          string     `gorm:"column:status;type:enum('pending','completed');default:'pending'" json:"status"`
	DueDate         *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Submission    Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
	Reviewer      User       `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	ChairReviewer *User      `gorm:"foreignKey:ChairReviewerID" json:"chair_reviewer,omitempty"`
}

// Review represents a reviewer's recommendation on an assignment.
type Review struct {
	ReviewID             uint      `gorm:"primaryKey;column:review_id" json:"review_id"`
	AssignmentID         uint      `gorm:"column:assignment_id" json:"assignment_id"`
	SubmissionID         uint      `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID           int       `gorm:"column:reviewer_id" json:"reviewer_id"`
	Recommendation       string    `gorm:"column:recommendation;type:enum('accept','reject','revision')" json:"recommendation"`
	Score                *int      `gorm:"column:score" json:"score,omitempty"`
	Comments             string    `gorm:"column:comments" json:"comments"`
	ConfidentialComments *string   `gorm:"column:confidential_comments" json:"confidential_comments,omitempty"`
	ReviewedAt           time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// Decision is the chair's verdict on a submission. Accept decisions are
// consumed (deleted) by the camera-ready transition job once the owning
// conference's submission deadline has passed.
type Decision struct {
	DecisionID     uint      `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	SubmissionID   uint      `gorm:"column:submission_id" json:"submission_id"`
	AssignmentID   uint      `gorm:"column:assignment_id" json:"assignment_id"`
	ReviewDecision string    `gorm:"column:review_decision;type:enum('accept','reject','revision')" json:"review_decision"`
	DecidedBy      int       `gorm:"column:decided_by" json:"decided_by"`
	Comments       *string   `gorm:"column:comments" json:"comments,omitempty"`
	CreateAt       time.Time `gorm:"column:create_at" json:"create_at"`

	Submission Submission `gorm:"foreignKey:SubmissionID" json:"submission,omitempty"`
	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

// TableName overrides
func (Assignment) TableName() string {
	return "assignments"
}

func (Review) TableName() string {
	return "reviews"
}

func (Decision) TableName() string {
	return "decisions"
}
