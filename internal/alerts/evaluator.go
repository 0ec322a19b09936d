// Package alerts generates and manages budget alerts. Evaluation runs
// outside the request path, in the alert worker, and appends to the
// user's alert collection.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

var ErrNotFound = errors.New("alert not found")

type Evaluator struct {
	store storage.Store
}

func NewEvaluator(store storage.Store) *Evaluator {
	return &Evaluator{store: store}
}

// EvaluateUser inspects the user's budgets for now's month and appends
// alerts for newly exceeded or newly warning budgets, plus milestone
// alerts for goals that reached their target. A budget or goal with an
// unread alert of the same type is not flagged again.
func (e *Evaluator) EvaluateUser(ctx context.Context, userID string, now time.Time) error {
	snap, err := e.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	unread := make(map[string]bool)
	for _, a := range snap.Alerts {
		if !a.IsRead {
			unread[string(a.Type)+"|"+a.Category] = true
		}
	}

	var added []core.BudgetAlert
	overview := analytics.BudgetUsage(snap.Budgets, snap.Transactions, now)
	for _, row := range overview.Categories {
		switch row.Status {
		case analytics.StatusOver:
			if unread[string(core.AlertBudgetExceeded)+"|"+row.Category] {
				continue
			}
			added = append(added, core.BudgetAlert{
				ID:     uuid.NewString(),
				UserID: userID,
				Type:   core.AlertBudgetExceeded,
				Message: fmt.Sprintf("You have exceeded your %s budget: spent %.2f of %.2f",
					row.Category, row.Spent, row.Amount),
				Category:  row.Category,
				Amount:    row.Spent,
				CreatedAt: now.UTC(),
			})
			unread[string(core.AlertBudgetExceeded)+"|"+row.Category] = true
		case analytics.StatusWarning:
			if unread[string(core.AlertBudgetWarning)+"|"+row.Category] {
				continue
			}
			added = append(added, core.BudgetAlert{
				ID:     uuid.NewString(),
				UserID: userID,
				Type:   core.AlertBudgetWarning,
				Message: fmt.Sprintf("Your %s budget is at %.0f%%: spent %.2f of %.2f",
					row.Category, row.Utilization, row.Spent, row.Amount),
				Category:  row.Category,
				Amount:    row.Spent,
				CreatedAt: now.UTC(),
			})
			unread[string(core.AlertBudgetWarning)+"|"+row.Category] = true
		}
	}

	for _, g := range snap.SavingsGoals {
		if g.TargetAmount <= 0 || g.CurrentAmount < g.TargetAmount {
			continue
		}
		if unread[string(core.AlertGoalMilestone)+"|"+g.Name] {
			continue
		}
		added = append(added, core.BudgetAlert{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      core.AlertGoalMilestone,
			Message:   fmt.Sprintf("Savings goal %q is fully funded", g.Name),
			Category:  g.Name,
			Amount:    g.CurrentAmount,
			CreatedAt: now.UTC(),
		})
		unread[string(core.AlertGoalMilestone)+"|"+g.Name] = true
	}

	if len(added) == 0 {
		return nil
	}
	if err := e.store.SaveAlerts(ctx, userID, append(snap.Alerts, added...)); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}

	slog.InfoContext(ctx, "Generated alerts",
		"user_id", userID,
		"count", len(added))
	return nil
}

// MarkRead flags one alert as read.
func (e *Evaluator) MarkRead(ctx context.Context, userID, alertID string) (core.BudgetAlert, error) {
	snap, err := e.store.Load(ctx, userID)
	if err != nil {
		return core.BudgetAlert{}, fmt.Errorf("load snapshot: %w", err)
	}

	for i, a := range snap.Alerts {
		if a.ID != alertID {
			continue
		}
		snap.Alerts[i].IsRead = true
		if err := e.store.SaveAlerts(ctx, userID, snap.Alerts); err != nil {
			return core.BudgetAlert{}, fmt.Errorf("save alerts: %w", err)
		}
		return snap.Alerts[i], nil
	}
	return core.BudgetAlert{}, ErrNotFound
}

// Dismiss removes one alert entirely.
func (e *Evaluator) Dismiss(ctx context.Context, userID, alertID string) error {
	snap, err := e.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	for i, a := range snap.Alerts {
		if a.ID != alertID {
			continue
		}
		remaining := append(snap.Alerts[:i], snap.Alerts[i+1:]...)
		if err := e.store.SaveAlerts(ctx, userID, remaining); err != nil {
			return fmt.Errorf("save alerts: %w", err)
		}
		return nil
	}
	return ErrNotFound
}
