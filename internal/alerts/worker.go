package alerts

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
)

// Worker reacts to transaction events and periodically sweeps every
// account so alerts stay current even when an event was lost.
type Worker struct {
	evaluator *Evaluator
	users     storage.UserStore
	batchSize int
}

func NewWorker(evaluator *Evaluator, users storage.UserStore, batchSize int) *Worker {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Worker{
		evaluator: evaluator,
		users:     users,
		batchSize: batchSize,
	}
}

// HandleEvent re-evaluates the user named by a transaction event.
func (w *Worker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"user_id", event.UserID,
		"transaction_id", event.TransactionID,
		"action", event.Action)
	return w.evaluator.EvaluateUser(ctx, event.UserID, time.Now())
}

// SweepAll evaluates every account, batchSize users at a time.
func (w *Worker) SweepAll(ctx context.Context) error {
	users, err := w.users.ListUsers(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.batchSize)
	for _, u := range users {
		userID := u.ID
		g.Go(func() error {
			if err := w.evaluator.EvaluateUser(ctx, userID, now); err != nil {
				// One bad account should not stop the sweep.
				slog.ErrorContext(ctx, "Alert evaluation failed",
					"user_id", userID,
					"error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Run drives periodic sweeps until ctx is canceled. An initial sweep
// runs immediately so a restarted worker catches up without waiting a
// full interval.
func (w *Worker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.SweepAll(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.SweepAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sweep failed", "error", err)
			}
		}
	}
}
