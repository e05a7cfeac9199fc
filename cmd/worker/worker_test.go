// cmd/worker/worker_test.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/leadloop/outreach-backend/internal/errors"
	"github.com/leadloop/outreach-backend/internal/model"
	"github.com/leadloop/outreach-backend/internal/repository"
	"github.com/leadloop/outreach-backend/internal/service"
)

// fakeStateStore keeps outreach states in memory and stands in for both the
// transaction runner and the state repository.
type fakeStateStore struct {
	mu      sync.Mutex
	owner   int
	saveErr error
	states  map[string]*model.OutreachState
}

func (f *fakeStateStore) RunInTx(ctx context.Context, fn func(q repository.Querier) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(nil)
}

func (f *fakeStateStore) Create(ctx context.Context, q repository.Querier, st *model.OutreachState) error {
	f.states[st.EnrolledContactID] = st
	return nil
}

func (f *fakeStateStore) GetForUpdate(ctx context.Context, q repository.Querier, contactID string) (*model.OutreachState, error) {
	st, ok := f.states[contactID]
	if !ok {
		return nil, appErrors.NewNotFound("enrolled contact", contactID)
	}
	copied := *st
	return &copied, nil
}

func (f *fakeStateStore) Save(ctx context.Context, q repository.Querier, st *model.OutreachState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *st
	f.states[st.EnrolledContactID] = &copied
	return nil
}

func (f *fakeStateStore) GetContactOwner(ctx context.Context, q repository.Querier, contactID string) (int, error) {
	if _, ok := f.states[contactID]; !ok {
		return 0, appErrors.NewNotFound("enrolled contact", contactID)
	}
	return f.owner, nil
}

func (f *fakeStateStore) StatsByEnrollment(ctx context.Context, q repository.Querier, enrollmentID string) (map[string]int, error) {
	return map[string]int{}, nil
}

func newTestService(store *fakeStateStore) *service.OutreachService {
	return &service.OutreachService{Runner: store, StateRepo: store}
}

func TestApplyEngagementEvents(t *testing.T) {
	store := &fakeStateStore{
		owner: 1,
		states: map[string]*model.OutreachState{
			"c-1": model.NewOutreachState("c-1", time.Now()),
		},
	}
	svc := newTestService(store)
	ctx := context.Background()

	events := []OutreachEvent{
		{EnrolledContactID: "c-1", UserID: 1, Event: "sent"},
		{EnrolledContactID: "c-1", UserID: 1, Event: "open"},
		{EnrolledContactID: "c-1", UserID: 1, Event: "reply"},
	}
	for _, evt := range events {
		require.NoError(t, applyEvent(ctx, svc, evt))
	}

	st := store.states["c-1"]
	assert.Equal(t, model.EmailStatusSent, st.EmailStatus)
	assert.Equal(t, 1, st.EmailsSentCount)
	assert.Equal(t, 1, st.OpenCount)
	assert.Equal(t, model.ResponseStatusReplied, st.ResponseStatus)
}

func TestApplyAdvanceEvent(t *testing.T) {
	store := &fakeStateStore{
		owner: 1,
		states: map[string]*model.OutreachState{
			"c-1": model.NewOutreachState("c-1", time.Now()),
		},
	}
	svc := newTestService(store)
	next := time.Now().Add(48 * time.Hour)

	require.NoError(t, applyEvent(context.Background(), svc, OutreachEvent{
		EnrolledContactID: "c-1", UserID: 1, Event: "advance", NextContactAt: &next,
	}))

	st := store.states["c-1"]
	assert.Equal(t, 2, st.CurrentSequenceStep)
	require.NotNil(t, st.NextScheduledAt)

	// Missing timestamp is a malformed event, not retryable.
	err := applyEvent(context.Background(), svc, OutreachEvent{
		EnrolledContactID: "c-1", UserID: 1, Event: "advance",
	})
	var invariant *appErrors.ErrInvariantViolation
	assert.True(t, errors.As(err, &invariant))
}

func TestApplyUnknownEvent(t *testing.T) {
	store := &fakeStateStore{owner: 1, states: map[string]*model.OutreachState{}}
	svc := newTestService(store)

	err := applyEvent(context.Background(), svc, OutreachEvent{
		EnrolledContactID: "c-1", UserID: 1, Event: "poke",
	})
	var invariant *appErrors.ErrInvariantViolation
	assert.True(t, errors.As(err, &invariant))
}

// fakeAcker records how the delivery was settled.
type fakeAcker struct {
	acked  bool
	nacked bool
}

func (a *fakeAcker) Ack(tag uint64, multiple bool) error { a.acked = true; return nil }
func (a *fakeAcker) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked = true
	return nil
}
func (a *fakeAcker) Reject(tag uint64, requeue bool) error { return nil }

// fakePublisher records republished events.
type fakePublisher struct {
	published []amqp.Publishing
	queues    []string
}

func (p *fakePublisher) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	p.published = append(p.published, msg)
	p.queues = append(p.queues, key)
	return nil
}

func eventDelivery(t *testing.T, acker *fakeAcker, evt OutreachEvent, headers amqp.Table) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(evt)
	require.NoError(t, err)
	return amqp.Delivery{
		Acknowledger: acker,
		ContentType:  "application/json",
		Headers:      headers,
		Body:         body,
	}
}

func TestTransientFailureRepublishesWithBumpedCounter(t *testing.T) {
	store := &fakeStateStore{
		owner:   1,
		saveErr: errors.New("db down"),
		states: map[string]*model.OutreachState{
			"c-1": model.NewOutreachState("c-1", time.Now()),
		},
	}
	acker := &fakeAcker{}
	pub := &fakePublisher{}
	evt := OutreachEvent{EnrolledContactID: "c-1", UserID: 1, Event: "open"}

	handleDelivery(newTestService(store), pub, "outreach_events", eventDelivery(t, acker, evt, amqp.Table{"trace-id": "t-1"}))

	require.Len(t, pub.published, 1)
	assert.Equal(t, "outreach_events", pub.queues[0])
	assert.Equal(t, int32(1), pub.published[0].Headers["x-retry-count"])
	assert.Equal(t, "t-1", pub.published[0].Headers["trace-id"], "other headers survive the republish")
	assert.True(t, acker.acked, "the original delivery is acked once its retry is queued")
	assert.False(t, acker.nacked)

	var republished OutreachEvent
	require.NoError(t, json.Unmarshal(pub.published[0].Body, &republished))
	assert.Equal(t, evt, republished)
}

func TestExhaustedRetriesDropTheEvent(t *testing.T) {
	store := &fakeStateStore{
		owner:   1,
		saveErr: errors.New("db down"),
		states: map[string]*model.OutreachState{
			"c-1": model.NewOutreachState("c-1", time.Now()),
		},
	}
	acker := &fakeAcker{}
	pub := &fakePublisher{}
	evt := OutreachEvent{EnrolledContactID: "c-1", UserID: 1, Event: "open"}

	handleDelivery(newTestService(store), pub, "outreach_events", eventDelivery(t, acker, evt, amqp.Table{"x-retry-count": int32(3)}))

	assert.Empty(t, pub.published, "an exhausted event is dropped, not requeued")
	assert.True(t, acker.acked)
	assert.False(t, acker.nacked)
}

func TestNonRetryableFailureIsDroppedImmediately(t *testing.T) {
	store := &fakeStateStore{owner: 1, states: map[string]*model.OutreachState{}}
	acker := &fakeAcker{}
	pub := &fakePublisher{}
	evt := OutreachEvent{EnrolledContactID: "missing", UserID: 1, Event: "open"}

	handleDelivery(newTestService(store), pub, "outreach_events", eventDelivery(t, acker, evt, nil))

	assert.Empty(t, pub.published)
	assert.True(t, acker.acked)
}

func TestRetryCountHeaderTypes(t *testing.T) {
	assert.Equal(t, 0, retryCount(nil))
	assert.Equal(t, 2, retryCount(map[string]interface{}{"x-retry-count": int32(2)}))
	assert.Equal(t, 3, retryCount(map[string]interface{}{"x-retry-count": int64(3)}))
	assert.Equal(t, 0, retryCount(map[string]interface{}{"x-retry-count": "nope"}))
}
