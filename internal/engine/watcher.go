package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/lexicon/internal/logger"
)

// UserLister lists users that have graduated records.
type UserLister interface {
	Users(ctx context.Context) ([]int64, error)
}

// Notifier tells a user how many reviews are waiting.
type Notifier interface {
	SendReminders(userID int64, count int) error
}

// LogNotifier reports due reviews to the log.
type LogNotifier struct {
	Log *logger.Logger
}

func (n LogNotifier) SendReminders(userID int64, count int) error {
	n.Log.Info("reviews due", "user_id", userID, "count", count)
	return nil
}

// DueWatcher periodically checks every user for due reviews.
type DueWatcher struct {
	engine    *Engine
	users     UserLister
	notifier  Notifier
	limit     int
	scheduler *gocron.Scheduler
	log       *logger.Logger
}

// NewDueWatcher creates a watcher. limit caps the count reported per user.
func NewDueWatcher(e *Engine, users UserLister, notifier Notifier, limit int, log *logger.Logger) *DueWatcher {
	return &DueWatcher{
		engine:    e,
		users:     users,
		notifier:  notifier,
		limit:     limit,
		scheduler: gocron.NewScheduler(time.UTC),
		log:       log,
	}
}

// Start runs Check now and then every interval until Stop is called.
func (w *DueWatcher) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", interval)
	}
	w.scheduler.SingletonModeAll()
	if _, err := w.scheduler.Every(interval).Do(w.run); err != nil {
		return fmt.Errorf("schedule due check: %w", err)
	}
	w.scheduler.StartAsync()
	return nil
}

// Stop terminates the scheduled checks.
func (w *DueWatcher) Stop() {
	w.scheduler.Stop()
}

func (w *DueWatcher) run() {
	notified, err := w.Check(context.Background())
	if err != nil {
		w.log.Error("due check failed", "error", err)
		return
	}
	w.log.Debug("due check finished", "notified", notified)
}

// Check notifies every user with due reviews once and returns how many
// users were notified. A failure for one user is logged and skipped.
func (w *DueWatcher) Check(ctx context.Context) (int, error) {
	users, err := w.users.Users(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	notified := 0
	for _, id := range users {
		due, err := w.engine.ListDue(ctx, id, w.limit)
		if err != nil {
			w.log.Error("list due reviews", "user_id", id, "error", err)
			continue
		}
		if len(due) == 0 {
			continue
		}
		if err := w.notifier.SendReminders(id, len(due)); err != nil {
			w.log.Error("send reminder", "user_id", id, "error", err)
			continue
		}
		notified++
	}
	return notified, nil
}
