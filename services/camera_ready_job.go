package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"conflow/config"

	"gorm.io/gorm"
)

const (
	cameraReadyNotificationTitle = "New Camera-Ready Assignment"

	// Notifications are dispatched in fixed-size batches; a batch must fully
	// settle before the next one starts, bounding concurrent SMTP load.
	defaultNotificationBatchSize = 5
)

// CameraReadyAssignment is one accept decision joined with the context needed
// to transition it and notify its chair-reviewer. ChairReviewerID is nil when
// the decision's assignment has no chair-reviewer yet; such decisions are
// still transitioned but produce no notification.
type CameraReadyAssignment struct {
	DecisionID         uint
	SubmissionID       uint
	SubmissionTitle    string
	ConferenceID       uint
	ConferenceTitle    string
	ConferenceAcronym  string
	ChairReviewerID    *int
	ChairReviewerEmail *string
}

// CameraReadyStore is the persistence surface the job depends on.
type CameraReadyStore interface {
	// PendingAssignments returns every accept decision whose conference's
	// submission deadline has passed and whose conference has not entered the
	// camera-ready phase.
	PendingAssignments(ctx context.Context, now time.Time) ([]CameraReadyAssignment, error)

	// CompleteTransition deletes the decisions and flips the conferences to
	// camera_ready as a single all-or-nothing unit.
	CompleteTransition(ctx context.Context, decisionIDs, conferenceIDs []uint) error
}

// CameraReadyNotificationFailure records one failed notification attempt.
type CameraReadyNotificationFailure struct {
	DecisionID uint
	Err        error
}

// CameraReadySummary reports what a single run did.
type CameraReadySummary struct {
	DecisionsProcessed      int
	ConferencesTransitioned int
	NotificationsAttempted  int
	NotificationsFailed     int
	Failures                []CameraReadyNotificationFailure
}

// CameraReadyJobService performs the scheduled accept-decision to camera-ready
// transition: one atomic delete+update, then a throttled notification fan-out.
type CameraReadyJobService struct {
	store     CameraReadyStore
	notifier  Notifier
	batchSize int
	now       func() time.Time
}

// NewCameraReadyJobService constructs the job. Nil arguments fall back to the
// global connection and the real notification service.
func NewCameraReadyJobService(db *gorm.DB, notifier Notifier) *CameraReadyJobService {
	if db == nil {
		db = config.DB
	}
	if notifier == nil {
		notifier = NewNotificationService(db)
	}
	return &CameraReadyJobService{
		store:     &gormCameraReadyStore{db: db},
		notifier:  notifier,
		batchSize: defaultNotificationBatchSize,
		now:       time.Now,
	}
}

// Run executes one job cycle. Selection and transition errors fail the run;
// notification failures are captured in the summary and never escalate. The
// conference status gate makes repeated runs idempotent: once a conference is
// camera_ready its decisions are gone and the selection excludes it.
func (s *CameraReadyJobService) Run(ctx context.Context) (*CameraReadySummary, error) {
	summary := &CameraReadySummary{}

	pending, err := s.store.PendingAssignments(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		log.Println("camera-ready job: no pending accept decisions")
		return summary, nil
	}

	decisionIDs := make([]uint, 0, len(pending))
	conferenceIDs := make([]uint, 0, len(pending))
	seen := make(map[uint]bool, len(pending))
	for _, p := range pending {
		decisionIDs = append(decisionIDs, p.DecisionID)
		if !seen[p.ConferenceID] {
			seen[p.ConferenceID] = true
			conferenceIDs = append(conferenceIDs, p.ConferenceID)
		}
	}

	if err := s.store.CompleteTransition(ctx, decisionIDs, conferenceIDs); err != nil {
		return nil, err
	}
	summary.DecisionsProcessed = len(decisionIDs)
	summary.ConferencesTransitioned = len(conferenceIDs)

	notifiable := make([]CameraReadyAssignment, 0, len(pending))
	for _, p := range pending {
		if p.ChairReviewerID != nil {
			notifiable = append(notifiable, p)
		}
	}
	s.dispatchNotifications(ctx, notifiable, summary)

	log.Printf("camera-ready job: processed %d decisions across %d conferences (notifications attempted=%d failed=%d)",
		summary.DecisionsProcessed,
		summary.ConferencesTransitioned,
		summary.NotificationsAttempted,
		summary.NotificationsFailed,
	)
	return summary, nil
}

// dispatchNotifications sends in strictly sequential batches; sends within a
// batch run concurrently and each failure is isolated to its own entry in the
// summary.
func (s *CameraReadyJobService) dispatchNotifications(ctx context.Context, items []CameraReadyAssignment, summary *CameraReadySummary) {
	batchSize := s.batchSize
	if batchSize <= 0 {
		batchSize = defaultNotificationBatchSize
	}

	var mu sync.Mutex
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for _, item := range items[start:end] {
			item := item
			wg.Add(1)
			go func() {
				defer wg.Done()

				recipient := NotificationRecipient{ID: *item.ChairReviewerID}
				if item.ChairReviewerEmail != nil {
					recipient.Email = *item.ChairReviewerEmail
				}
				submissionID := item.SubmissionID
				err := s.notifier.CreateAndSend(ctx, recipient, cameraReadyNotificationTitle, cameraReadyMessage(item), &submissionID)

				mu.Lock()
				defer mu.Unlock()
				summary.NotificationsAttempted++
				if err != nil {
					summary.NotificationsFailed++
					summary.Failures = append(summary.Failures, CameraReadyNotificationFailure{DecisionID: item.DecisionID, Err: err})
					log.Printf("camera-ready notification failed for decision %d: %v", item.DecisionID, err)
				}
			}()
		}
		wg.Wait()
	}
}

func cameraReadyMessage(a CameraReadyAssignment) string {
	return fmt.Sprintf("You have been assigned the camera-ready review of %q (submission #%d) for %s (%s).",
		a.SubmissionTitle, a.SubmissionID, a.ConferenceTitle, a.ConferenceAcronym)
}
