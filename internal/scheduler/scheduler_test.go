package scheduler

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/pkg/logger"
)

// memStore is an in-memory job store safe for the scheduler's timer
// goroutines.
type memStore struct {
	mu   sync.Mutex
	jobs map[string]model.ReminderJob
	next int
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[string]model.ReminderJob)}
}

func (s *memStore) Insert(ctx context.Context, j *model.ReminderJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	j.ID = "job-" + strconv.Itoa(s.next)
	s.jobs[j.ID] = *j
	return nil
}

func (s *memStore) Pending(ctx context.Context) ([]model.ReminderJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ReminderJob
	for _, j := range s.jobs {
		if !j.Sent {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *memStore) MarkSent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := s.jobs[id]
	j.Sent = true
	s.jobs[id] = j
	return nil
}

func (s *memStore) sent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id].Sent
}

// recorder collects delivered jobs.
type recorder struct {
	mu    sync.Mutex
	fired []model.ReminderJob
}

func (r *recorder) send(ctx context.Context, j model.ReminderJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, j)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestScheduleFiresOnceAndMarksSent(t *testing.T) {
	store := newMemStore()
	rec := &recorder{}
	s := New(store, rec.send, logger.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	j := &model.ReminderJob{OrderID: "order-1", Email: "ada@example.com", FireAt: time.Now().Add(20 * time.Millisecond)}
	require.NoError(t, s.Schedule(context.Background(), j))

	waitFor(t, func() bool { return store.sent(j.ID) }, "job never fired")
	assert.Equal(t, 1, rec.count())
}

func TestSchedulePastDueFiresImmediately(t *testing.T) {
	store := newMemStore()
	rec := &recorder{}
	s := New(store, rec.send, logger.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	j := &model.ReminderJob{OrderID: "order-1", Email: "ada@example.com", FireAt: time.Now().Add(-time.Hour)}
	require.NoError(t, s.Schedule(context.Background(), j))

	waitFor(t, func() bool { return rec.count() == 1 }, "overdue job did not fire")
}

func TestStartRecoversPendingJobs(t *testing.T) {
	store := newMemStore()
	j := &model.ReminderJob{OrderID: "order-1", Email: "ada@example.com", FireAt: time.Now().Add(-time.Minute)}
	require.NoError(t, store.Insert(context.Background(), j))

	rec := &recorder{}
	s := New(store, rec.send, logger.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	waitFor(t, func() bool { return store.sent(j.ID) }, "recovered job did not fire")
}

func TestStopCancelsArmedTimers(t *testing.T) {
	store := newMemStore()
	rec := &recorder{}
	s := New(store, rec.send, logger.NewNop())
	require.NoError(t, s.Start(context.Background()))

	j := &model.ReminderJob{OrderID: "order-1", Email: "ada@example.com", FireAt: time.Now().Add(time.Hour)}
	require.NoError(t, s.Schedule(context.Background(), j))

	s.Stop()
	assert.Equal(t, 0, rec.count())
	assert.False(t, store.sent(j.ID), "cancelled job stays unsent for the next sweep")
}

func TestScheduleRejectedWhenStopped(t *testing.T) {
	store := newMemStore()
	s := New(store, (&recorder{}).send, logger.NewNop())

	err := s.Schedule(context.Background(), &model.ReminderJob{FireAt: time.Now()})
	assert.Error(t, err)
}
