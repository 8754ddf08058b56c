package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type transitionCall struct {
	decisionIDs   []uint
	conferenceIDs []uint
}

type fakeCameraReadyStore struct {
	mu            sync.Mutex
	pending       []CameraReadyAssignment
	pendingErr    error
	transitionErr error
	transitions   []transitionCall
}

func (f *fakeCameraReadyStore) PendingAssignments(ctx context.Context, now time.Time) ([]CameraReadyAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	out := make([]CameraReadyAssignment, len(f.pending))
	copy(out, f.pending)
	return out, nil
}

func (f *fakeCameraReadyStore) CompleteTransition(ctx context.Context, decisionIDs, conferenceIDs []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transitionErr != nil {
		return f.transitionErr
	}
	f.transitions = append(f.transitions, transitionCall{decisionIDs: decisionIDs, conferenceIDs: conferenceIDs})
	// Deleting the decisions and flipping the status gate means the next
	// selection returns nothing.
	f.pending = nil
	return nil
}

type notifyCall struct {
	recipient NotificationRecipient
	title     string
	message   string
	related   *uint
}

type fakeNotifier struct {
	mu            sync.Mutex
	delay         time.Duration
	failRecipient map[int]error
	calls         []notifyCall
	active        int
	maxActive     int
	completed     int
	// completedAtStart[i] is how many sends had fully settled when the i-th
	// send (in arrival order) started; used to assert batch sequencing.
	completedAtStart []int
}

func (f *fakeNotifier) CreateAndSend(ctx context.Context, recipient NotificationRecipient, title, message string, related *uint) error {
	f.mu.Lock()
	f.active++
	if f.active > f.maxActive {
		f.maxActive = f.active
	}
	f.completedAtStart = append(f.completedAtStart, f.completed)
	f.calls = append(f.calls, notifyCall{recipient: recipient, title: title, message: message, related: related})
	err := f.failRecipient[recipient.ID]
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	f.active--
	f.completed++
	f.mu.Unlock()
	return err
}

func newTestJob(store CameraReadyStore, notifier Notifier) *CameraReadyJobService {
	return &CameraReadyJobService{
		store:     store,
		notifier:  notifier,
		batchSize: defaultNotificationBatchSize,
		now:       func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func pendingItem(decisionID, submissionID, conferenceID uint, chairID int) CameraReadyAssignment {
	return CameraReadyAssignment{
		DecisionID:         decisionID,
		SubmissionID:       submissionID,
		SubmissionTitle:    fmt.Sprintf("Paper %d", submissionID),
		ConferenceID:       conferenceID,
		ConferenceTitle:    "International Conference on Workflows",
		ConferenceAcronym:  "ICW",
		ChairReviewerID:    intPtr(chairID),
		ChairReviewerEmail: strPtr(fmt.Sprintf("chair%d@example.com", chairID)),
	}
}

func TestRunEarlyExitWithoutPendingDecisions(t *testing.T) {
	store := &fakeCameraReadyStore{}
	notifier := &fakeNotifier{}
	job := newTestJob(store, notifier)

	summary, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, summary.DecisionsProcessed)
	require.Empty(t, store.transitions)
	require.Empty(t, notifier.calls)
}

func TestRunIsIdempotentAcrossRepeatedRuns(t *testing.T) {
	store := &fakeCameraReadyStore{pending: []CameraReadyAssignment{
		pendingItem(1, 10, 100, 1),
		pendingItem(2, 11, 100, 2),
	}}
	notifier := &fakeNotifier{}
	job := newTestJob(store, notifier)

	first, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, first.DecisionsProcessed)
	require.Equal(t, 1, first.ConferencesTransitioned)
	require.Len(t, store.transitions, 1)
	require.Len(t, notifier.calls, 2)

	second, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, second.DecisionsProcessed)
	require.Zero(t, second.NotificationsAttempted)
	require.Len(t, store.transitions, 1, "second run must not write again")
	require.Len(t, notifier.calls, 2, "second run must not notify again")
}

func TestRunTransitionFailureAbortsBeforeNotifications(t *testing.T) {
	boom := errors.New("deadlock found")
	store := &fakeCameraReadyStore{
		pending:       []CameraReadyAssignment{pendingItem(1, 10, 100, 1)},
		transitionErr: boom,
	}
	notifier := &fakeNotifier{}
	job := newTestJob(store, notifier)

	_, err := job.Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Empty(t, notifier.calls, "no notification may be sent when the transition fails")
	require.Len(t, store.pending, 1, "pending decisions must survive a failed transition")
}

func TestRunDispatchesInSettledBatchesOfFive(t *testing.T) {
	var pending []CameraReadyAssignment
	for i := 1; i <= 12; i++ {
		pending = append(pending, pendingItem(uint(i), uint(100+i), 500, i))
	}
	store := &fakeCameraReadyStore{pending: pending}
	notifier := &fakeNotifier{delay: 5 * time.Millisecond}
	job := newTestJob(store, notifier)

	summary, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, summary.NotificationsAttempted)
	require.Len(t, notifier.calls, 12)
	require.LessOrEqual(t, notifier.maxActive, 5, "no more than one batch in flight")

	// Arrival indexes 0-4 are batch one, 5-9 batch two, 10-11 batch three;
	// a later batch must not start before the previous one fully settled.
	for i, settled := range notifier.completedAtStart {
		floor := (i / 5) * 5
		require.GreaterOrEqual(t, settled, floor,
			"send %d started before the previous batch settled", i)
	}
}

func TestRunIsolatesSingleNotificationFailure(t *testing.T) {
	var pending []CameraReadyAssignment
	for i := 1; i <= 12; i++ {
		pending = append(pending, pendingItem(uint(i), uint(100+i), 500, i))
	}
	store := &fakeCameraReadyStore{pending: pending}
	notifier := &fakeNotifier{failRecipient: map[int]error{7: errors.New("smtp refused")}}
	job := newTestJob(store, notifier)

	summary, err := job.Run(context.Background())
	require.NoError(t, err, "notification failures must not fail the job")
	require.Equal(t, 12, summary.NotificationsAttempted)
	require.Equal(t, 1, summary.NotificationsFailed)
	require.Len(t, summary.Failures, 1)
	require.Equal(t, uint(7), summary.Failures[0].DecisionID)
	require.Len(t, notifier.calls, 12, "sibling sends must still be attempted")
}

func TestRunSkipsNotificationWithoutChairReviewer(t *testing.T) {
	orphan := pendingItem(2, 11, 100, 0)
	orphan.ChairReviewerID = nil
	orphan.ChairReviewerEmail = nil

	store := &fakeCameraReadyStore{pending: []CameraReadyAssignment{
		pendingItem(1, 10, 100, 1),
		orphan,
	}}
	notifier := &fakeNotifier{}
	job := newTestJob(store, notifier)

	summary, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, summary.DecisionsProcessed, "the orphan decision is still transitioned")
	require.Equal(t, 1, summary.NotificationsAttempted)
	require.Len(t, notifier.calls, 1)
	require.Equal(t, 1, notifier.calls[0].recipient.ID)
}

func TestRunEndToEndSingleAcceptDecision(t *testing.T) {
	store := &fakeCameraReadyStore{pending: []CameraReadyAssignment{{
		DecisionID:         42,
		SubmissionID:       7,
		SubmissionTitle:    "Paper X",
		ConferenceID:       3,
		ConferenceTitle:    "Workshop on Examples",
		ConferenceAcronym:  "WEX",
		ChairReviewerID:    intPtr(1),
		ChairReviewerEmail: strPtr("u@example.com"),
	}}}
	notifier := &fakeNotifier{}
	job := newTestJob(store, notifier)

	summary, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.DecisionsProcessed)
	require.Equal(t, 1, summary.ConferencesTransitioned)
	require.Empty(t, store.pending, "the decision must be consumed")

	require.Len(t, store.transitions, 1)
	require.Equal(t, []uint{42}, store.transitions[0].decisionIDs)
	require.Equal(t, []uint{3}, store.transitions[0].conferenceIDs)

	require.Len(t, notifier.calls, 1)
	call := notifier.calls[0]
	require.Equal(t, 1, call.recipient.ID)
	require.Equal(t, "u@example.com", call.recipient.Email)
	require.Equal(t, "New Camera-Ready Assignment", call.title)
	require.Contains(t, call.message, "Paper X")
	require.Contains(t, call.message, "WEX")
	require.NotNil(t, call.related)
	require.Equal(t, uint(7), *call.related)
}

func TestRunSelectionFailurePropagates(t *testing.T) {
	boom := errors.New("connection refused")
	store := &fakeCameraReadyStore{pendingErr: boom}
	job := newTestJob(store, &fakeNotifier{})

	_, err := job.Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Empty(t, store.transitions)
}
