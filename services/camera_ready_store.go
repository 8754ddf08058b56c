package services

import (
	"context"
	"time"

	"conflow/models"

	"gorm.io/gorm"
)

// gormCameraReadyStore is the MySQL-backed CameraReadyStore.
type gormCameraReadyStore struct {
	db *gorm.DB
}

func (st *gormCameraReadyStore) PendingAssignments(ctx context.Context, now time.Time) ([]CameraReadyAssignment, error) {
	var rows []CameraReadyAssignment
	err := st.db.WithContext(ctx).Table("decisions AS d").
		Select("d.decision_id, s.submission_id, s.title AS submission_title, "+
			"c.conference_id, c.title AS conference_title, c.acronym AS conference_acronym, "+
			"u.user_id AS chair_reviewer_id, u.email AS chair_reviewer_email").
		Joins("JOIN submissions s ON s.submission_id = d.submission_id").
		Joins("JOIN conferences c ON c.conference_id = s.conference_id").
		Joins("LEFT JOIN assignments a ON a.assignment_id = d.assignment_id").
		Joins("LEFT JOIN users u ON u.user_id = a.chair_reviewer_id").
		Where("d.review_decision = ?", models.DecisionAccept).
		Where("c.submission_deadline <= ?", now).
		Where("c.status <> ?", models.ConferenceStatusCameraReady).
		Order("d.decision_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (st *gormCameraReadyStore) CompleteTransition(ctx context.Context, decisionIDs, conferenceIDs []uint) error {
	return st.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("decision_id IN ?", decisionIDs).Delete(&models.Decision{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conference{}).
			Where("conference_id IN ?", conferenceIDs).
			Update("status", models.ConferenceStatusCameraReady).Error
	})
}
