package alerts

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func TestHandleEvent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	w := NewWorker(NewEvaluator(store), store, 10)

	seed(t, store,
		[]core.Budget{{ID: "b1", Category: "Groceries", Amount: 500, Period: core.PeriodMonthly}},
		[]core.Transaction{{
			ID: "t1", Type: core.Expense, Amount: 600, Category: "Groceries",
			Date: core.DateOf(time.Now()),
		}},
		nil)

	event := amqp.NewTransactionEvent(userID, "t1", "Groceries", amqp.ActionCreated)
	if err := w.HandleEvent(ctx, event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	snap, _ := store.Load(ctx, userID)
	if len(snap.Alerts) != 1 || snap.Alerts[0].Type != core.AlertBudgetExceeded {
		t.Errorf("alerts = %+v, want one budget_exceeded", snap.Alerts)
	}
}

func TestSweepAllCoversEveryUser(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	w := NewWorker(NewEvaluator(store), store, 2)

	today := core.DateOf(time.Now())
	for _, id := range []string{"a", "b", "c"} {
		err := store.CreateUser(ctx, core.User{
			ID: id, Email: id + "@example.com", Name: id,
			PasswordHash: "x", Currency: "USD", CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("CreateUser(%s): %v", id, err)
		}
		if err := store.SaveBudgets(ctx, id, []core.Budget{
			{ID: "b-" + id, Category: "Groceries", Amount: 100, Period: core.PeriodMonthly},
		}); err != nil {
			t.Fatalf("SaveBudgets(%s): %v", id, err)
		}
		if err := store.SaveTransactions(ctx, id, []core.Transaction{
			{ID: "t-" + id, Type: core.Expense, Amount: 200, Category: "Groceries", Date: today},
		}); err != nil {
			t.Fatalf("SaveTransactions(%s): %v", id, err)
		}
	}

	if err := w.SweepAll(ctx); err != nil {
		t.Fatalf("SweepAll: %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		snap, _ := store.Load(ctx, id)
		if len(snap.Alerts) != 1 {
			t.Errorf("user %s alerts = %d, want 1", id, len(snap.Alerts))
		}
	}
}
