package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

var evalNow = time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)

const userID = "u1"

func seed(t *testing.T, store storage.Store, budgets []core.Budget, txs []core.Transaction, goals []core.SavingsGoal) {
	t.Helper()
	ctx := context.Background()
	if err := store.SaveBudgets(ctx, userID, budgets); err != nil {
		t.Fatalf("SaveBudgets: %v", err)
	}
	if err := store.SaveTransactions(ctx, userID, txs); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}
	if err := store.SaveSavingsGoals(ctx, userID, goals); err != nil {
		t.Fatalf("SaveSavingsGoals: %v", err)
	}
}

func expense(amount float64, category string) core.Transaction {
	return core.Transaction{
		ID:       "tx",
		Type:     core.Expense,
		Amount:   amount,
		Category: category,
		Date:     core.NewDate(2025, 8, 10),
	}
}

func TestEvaluateUserGeneratesBudgetAlerts(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	e := NewEvaluator(store)

	seed(t, store,
		[]core.Budget{
			{ID: "b1", Category: "Groceries", Amount: 500, Period: core.PeriodMonthly},
			{ID: "b2", Category: "Entertainment", Amount: 100, Period: core.PeriodMonthly},
			{ID: "b3", Category: "Transport", Amount: 200, Period: core.PeriodMonthly},
		},
		[]core.Transaction{
			expense(550, "Groceries"),     // over
			expense(90, "Entertainment"),  // warning
			expense(20, "Transport"),      // good
		},
		nil)

	if err := e.EvaluateUser(ctx, userID, evalNow); err != nil {
		t.Fatalf("EvaluateUser: %v", err)
	}

	snap, _ := store.Load(ctx, userID)
	if len(snap.Alerts) != 2 {
		t.Fatalf("len(Alerts) = %d, want 2", len(snap.Alerts))
	}

	byType := map[core.AlertType]core.BudgetAlert{}
	for _, a := range snap.Alerts {
		byType[a.Type] = a
	}
	over, ok := byType[core.AlertBudgetExceeded]
	if !ok || over.Category != "Groceries" || over.Amount != 550 {
		t.Errorf("exceeded alert = %+v", over)
	}
	warn, ok := byType[core.AlertBudgetWarning]
	if !ok || warn.Category != "Entertainment" {
		t.Errorf("warning alert = %+v", warn)
	}
	for _, a := range snap.Alerts {
		if a.IsRead {
			t.Errorf("new alert %s is already read", a.ID)
		}
		if a.ID == "" {
			t.Error("alert has no ID")
		}
	}
}

func TestEvaluateUserDoesNotDuplicateUnread(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	e := NewEvaluator(store)

	seed(t, store,
		[]core.Budget{{ID: "b1", Category: "Groceries", Amount: 500, Period: core.PeriodMonthly}},
		[]core.Transaction{expense(550, "Groceries")},
		nil)

	if err := e.EvaluateUser(ctx, userID, evalNow); err != nil {
		t.Fatalf("EvaluateUser: %v", err)
	}
	if err := e.EvaluateUser(ctx, userID, evalNow); err != nil {
		t.Fatalf("EvaluateUser again: %v", err)
	}

	snap, _ := store.Load(ctx, userID)
	if len(snap.Alerts) != 1 {
		t.Errorf("len(Alerts) = %d, want 1 after re-evaluation", len(snap.Alerts))
	}
}

func TestEvaluateUserReAlertsAfterRead(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	e := NewEvaluator(store)

	seed(t, store,
		[]core.Budget{{ID: "b1", Category: "Groceries", Amount: 500, Period: core.PeriodMonthly}},
		[]core.Transaction{expense(550, "Groceries")},
		nil)

	if err := e.EvaluateUser(ctx, userID, evalNow); err != nil {
		t.Fatalf("EvaluateUser: %v", err)
	}
	snap, _ := store.Load(ctx, userID)
	if _, err := e.MarkRead(ctx, userID, snap.Alerts[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	if err := e.EvaluateUser(ctx, userID, evalNow); err != nil {
		t.Fatalf("EvaluateUser after read: %v", err)
	}
	snap, _ = store.Load(ctx, userID)
	if len(snap.Alerts) != 2 {
		t.Errorf("len(Alerts) = %d, want 2 (read alert plus fresh one)", len(snap.Alerts))
	}
}

func TestEvaluateUserGoalMilestone(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	e := NewEvaluator(store)

	seed(t, store, nil, nil, []core.SavingsGoal{{
		ID: "g1", Name: "Emergency fund",
		TargetAmount: 1000, CurrentAmount: 1000,
		TargetDate: core.NewDate(2026, 1, 1),
		Category:   core.GoalEmergency,
	}})

	if err := e.EvaluateUser(ctx, userID, evalNow); err != nil {
		t.Fatalf("EvaluateUser: %v", err)
	}

	snap, _ := store.Load(ctx, userID)
	if len(snap.Alerts) != 1 || snap.Alerts[0].Type != core.AlertGoalMilestone {
		t.Fatalf("alerts = %+v, want one goal_milestone", snap.Alerts)
	}
}

func TestEvaluateUserZeroBudget(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	e := NewEvaluator(store)

	seed(t, store,
		[]core.Budget{{ID: "b1", Category: "Misc", Amount: 0, Period: core.PeriodMonthly}},
		[]core.Transaction{expense(100, "Misc")},
		nil)

	if err := e.EvaluateUser(ctx, userID, evalNow); err != nil {
		t.Fatalf("EvaluateUser: %v", err)
	}
	snap, _ := store.Load(ctx, userID)
	if len(snap.Alerts) != 0 {
		t.Errorf("zero-limit budget produced alerts: %+v", snap.Alerts)
	}
}

func TestMarkReadAndDismiss(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	e := NewEvaluator(store)

	seed(t, store,
		[]core.Budget{{ID: "b1", Category: "Groceries", Amount: 500, Period: core.PeriodMonthly}},
		[]core.Transaction{expense(550, "Groceries")},
		nil)
	if err := e.EvaluateUser(ctx, userID, evalNow); err != nil {
		t.Fatalf("EvaluateUser: %v", err)
	}
	snap, _ := store.Load(ctx, userID)
	alertID := snap.Alerts[0].ID

	read, err := e.MarkRead(ctx, userID, alertID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !read.IsRead {
		t.Error("alert not marked read")
	}

	if _, err := e.MarkRead(ctx, userID, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRead(ghost) err = %v, want ErrNotFound", err)
	}

	if err := e.Dismiss(ctx, userID, alertID); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	snap, _ = store.Load(ctx, userID)
	if len(snap.Alerts) != 0 {
		t.Errorf("alerts after dismiss = %+v, want none", snap.Alerts)
	}
	if err := e.Dismiss(ctx, userID, alertID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Dismiss(gone) err = %v, want ErrNotFound", err)
	}
}
