// ABOUTME: Scheduler for one-shot reminders and recurring alarms.
// ABOUTME: Reminders poll the store for due rows; alarms are live cron entries.

package sched

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/hearthd/hearth/internal/store"
)

// reminderPollInterval is how often due reminders are checked.
const reminderPollInterval = 30 * time.Second

// Notify delivers a fired reminder or alarm message to the user.
type Notify func(message string)

// Alarm is a recurring schedule held in memory for the process lifetime.
type Alarm struct {
	ID        string    `json:"id"`
	Expr      string    `json:"expr"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`

	entryID rcron.EntryID
}

// Service drives reminder delivery and alarm firing.
type Service struct {
	reminders store.ReminderStore
	notify    Notify
	logger    *slog.Logger

	mu     sync.Mutex
	cron   *rcron.Cron
	alarms map[string]*Alarm
	nextID func() string
}

// NewService creates a stopped scheduler. Call Start before adding alarms.
func NewService(reminders store.ReminderStore, notify Notify, logger *slog.Logger) *Service {
	return &Service{
		reminders: reminders,
		notify:    notify,
		logger:    logger.With("component", "sched"),
		alarms:    make(map[string]*Alarm),
	}
}

// Start begins the cron loop and reminder polling. Stops when ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cron != nil {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already started")
	}
	s.cron = rcron.New()
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", reminderPollInterval), func() {
		s.CheckReminders(context.Background(), time.Now())
	}); err != nil {
		return fmt.Errorf("registering reminder poll: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "poll_interval", reminderPollInterval)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts the cron loop, waiting for running jobs to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	c := s.cron
	s.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// CheckReminders delivers and marks every reminder due at now. Exposed so
// callers (and tests) can force a poll without waiting for the ticker.
func (s *Service) CheckReminders(ctx context.Context, now time.Time) {
	if s.reminders == nil {
		return
	}
	due, err := s.reminders.DueReminders(ctx, now)
	if err != nil {
		s.logger.Error("querying due reminders", "error", err)
		return
	}
	for _, r := range due {
		s.logger.Info("reminder fired", "id", r.ID, "message", r.Message)
		if s.notify != nil {
			s.notify(fmt.Sprintf("Reminder: %s", r.Message))
		}
		if err := s.reminders.MarkReminderFired(ctx, r.ID); err != nil {
			s.logger.Error("marking reminder fired", "id", r.ID, "error", err)
		}
	}
}

// AddAlarm registers a recurring alarm with a cron expression. The
// expression is validated by the cron parser; invalid expressions fail.
func (s *Service) AddAlarm(id, expr, message string) (*Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil, fmt.Errorf("scheduler not started")
	}

	alarm := &Alarm{
		ID:        id,
		Expr:      expr,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	entryID, err := s.cron.AddFunc(expr, func() {
		s.logger.Info("alarm fired", "id", alarm.ID, "message", alarm.Message)
		if s.notify != nil {
			s.notify(fmt.Sprintf("Alarm: %s", alarm.Message))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	alarm.entryID = entryID
	s.alarms[id] = alarm
	return alarm, nil
}

// RemoveAlarm cancels a recurring alarm.
func (s *Service) RemoveAlarm(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarm, ok := s.alarms[id]
	if !ok {
		return fmt.Errorf("%w: alarm %s", store.ErrNotFound, id)
	}
	s.cron.Remove(alarm.entryID)
	delete(s.alarms, id)
	return nil
}

// Alarms returns all registered alarms sorted by creation time.
func (s *Service) Alarms() []*Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Alarm, 0, len(s.alarms))
	for _, a := range s.alarms {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
