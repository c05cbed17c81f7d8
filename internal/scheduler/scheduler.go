// Package scheduler arms one-shot wall-clock timers for reminder jobs.
// Jobs are persisted before the timer is armed, and a startup sweep
// re-arms everything unsent, so a restart loses no reminders; the
// in-memory timers are just the delivery mechanism.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quicktickets/backend/internal/model"
	"github.com/quicktickets/backend/pkg/logger"
)

// Store is the persistence contract for jobs. Implemented by
// repository.ReminderRepo.
type Store interface {
	Insert(ctx context.Context, j *model.ReminderJob) error
	Pending(ctx context.Context) ([]model.ReminderJob, error)
	MarkSent(ctx context.Context, id string) error
}

// SendFunc delivers one reminder. Errors are logged by the scheduler
// and the job stays unsent so a later restart can retry it.
type SendFunc func(ctx context.Context, j model.ReminderJob) error

// Scheduler owns the timer set. Safe for concurrent use.
type Scheduler struct {
	store Store
	send  SendFunc
	log   logger.Logger

	mu      sync.Mutex
	running bool
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
}

// New constructs a Scheduler. Start must be called before Schedule.
func New(store Store, send SendFunc, log logger.Logger) *Scheduler {
	return &Scheduler{
		store:  store,
		send:   send,
		log:    log,
		timers: make(map[string]*time.Timer),
	}
}

// Start runs the recovery sweep: every unsent job in the store gets a
// timer, past-due jobs included (they fire immediately).
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("scheduler already running")
	}
	s.running = true
	s.mu.Unlock()

	pending, err := s.store.Pending(ctx)
	if err != nil {
		return fmt.Errorf("load pending reminder jobs: %w", err)
	}
	for _, j := range pending {
		s.arm(j)
	}
	s.log.Info("reminder scheduler started", "pending_jobs", len(pending))
	return nil
}

// Stop cancels all armed timers and waits for in-flight deliveries.
// Unfired jobs remain unsent in the store and are recovered on the
// next Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	for id, t := range s.timers {
		// Stop reports whether firing was prevented; only then does the
		// callback never run and its wg slot must be released here.
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("reminder scheduler stopped")
}

// Schedule persists the job and arms its timer. A fire time in the
// past is not suppressed: the job fires immediately, with a warning,
// so a buyer inside the reminder window still gets their notice.
func (s *Scheduler) Schedule(ctx context.Context, j *model.ReminderJob) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return errors.New("scheduler is not running")
	}

	if err := s.store.Insert(ctx, j); err != nil {
		return fmt.Errorf("persist reminder job: %w", err)
	}
	if time.Until(j.FireAt) <= 0 {
		s.log.Warn("reminder fire time already passed, firing now",
			"job_id", j.ID, "fire_at", j.FireAt, "event_id", j.EventID)
	}
	s.arm(*j)
	return nil
}

// arm registers the timer for a job. A non-positive delay fires on the
// timer goroutine right away.
func (s *Scheduler) arm(j model.ReminderJob) {
	delay := time.Until(j.FireAt)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.wg.Add(1)
	s.timers[j.ID] = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.fire(j)
	})
}

// fire delivers one job exactly once and marks it sent. Delivery
// errors leave the job unsent for the next recovery sweep.
func (s *Scheduler) fire(j model.ReminderJob) {
	s.mu.Lock()
	delete(s.timers, j.ID)
	running := s.running
	s.mu.Unlock()
	if !running {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.send(ctx, j); err != nil {
		s.log.Error("reminder delivery failed", "job_id", j.ID, "error", err)
		return
	}
	if err := s.store.MarkSent(ctx, j.ID); err != nil {
		s.log.Error("mark reminder sent failed", "job_id", j.ID, "error", err)
		return
	}
	s.log.Info("reminder delivered", "job_id", j.ID, "event_id", j.EventID, "fired_at", time.Now().UTC())
}
