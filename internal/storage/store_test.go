package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
)

type backend struct {
	Store
	users UserStore
}

func backends(t *testing.T) map[string]backend {
	t.Helper()

	mem := NewMemoryStore()

	file, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]backend{
		"memory": {Store: mem, users: mem},
		"file":   {Store: file, users: file},
		"sqlite": {Store: sqlite, users: sqlite},
	}
}

func sampleSnapshot(userID string) *Snapshot {
	created := time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)
	return &Snapshot{
		Transactions: []core.Transaction{{
			ID:          "t1",
			UserID:      userID,
			Type:        core.Expense,
			Amount:      45.5,
			Category:    "Groceries",
			Description: "weekly shop",
			Date:        core.NewDate(2025, 8, 3),
			CreatedAt:   created,
		}},
		Categories: []core.Category{{
			ID:    "c1",
			Name:  "Groceries",
			Type:  core.Expense,
			Color: "#10B981",
			Icon:  "ShoppingCart",
		}},
		Budgets: []core.Budget{{
			ID:        "b1",
			UserID:    userID,
			Category:  "Groceries",
			Amount:    500,
			Period:    core.PeriodMonthly,
			Type:      core.BudgetVariable,
			CreatedAt: created,
		}},
		SavingsGoals: []core.SavingsGoal{{
			ID:            "g1",
			UserID:        userID,
			Name:          "Emergency fund",
			TargetAmount:  6000,
			CurrentAmount: 1500,
			TargetDate:    core.NewDate(2026, 6, 1),
			Priority:      core.PriorityHigh,
			Category:      core.GoalEmergency,
			CreatedAt:     created,
		}},
		IncomeSources: []core.IncomeSource{{
			ID:        "s1",
			UserID:    userID,
			Name:      "Job",
			Amount:    3200,
			Frequency: core.Monthly,
			IsActive:  true,
			CreatedAt: created,
		}},
		Alerts: []core.BudgetAlert{{
			ID:        "a1",
			UserID:    userID,
			Type:      core.AlertBudgetWarning,
			Message:   "Groceries budget at 90%",
			Category:  "Groceries",
			Amount:    450,
			IsRead:    false,
			CreatedAt: created,
		}},
	}
}

func TestLoadUnknownUserIsEmpty(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			snap, err := b.Load(context.Background(), "nobody")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(snap.Transactions) != 0 || len(snap.Categories) != 0 || len(snap.Budgets) != 0 ||
				len(snap.SavingsGoals) != 0 || len(snap.IncomeSources) != 0 || len(snap.Alerts) != 0 {
				t.Errorf("unknown user snapshot not empty: %+v", snap)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const userID = "u1"

			if name == "sqlite" {
				seedUser(t, b.users, userID)
			}

			want := sampleSnapshot(userID)
			if err := b.SaveTransactions(ctx, userID, want.Transactions); err != nil {
				t.Fatalf("SaveTransactions: %v", err)
			}
			if err := b.SaveCategories(ctx, userID, want.Categories); err != nil {
				t.Fatalf("SaveCategories: %v", err)
			}
			if err := b.SaveBudgets(ctx, userID, want.Budgets); err != nil {
				t.Fatalf("SaveBudgets: %v", err)
			}
			if err := b.SaveSavingsGoals(ctx, userID, want.SavingsGoals); err != nil {
				t.Fatalf("SaveSavingsGoals: %v", err)
			}
			if err := b.SaveIncomeSources(ctx, userID, want.IncomeSources); err != nil {
				t.Fatalf("SaveIncomeSources: %v", err)
			}
			if err := b.SaveAlerts(ctx, userID, want.Alerts); err != nil {
				t.Fatalf("SaveAlerts: %v", err)
			}

			got, err := b.Load(ctx, userID)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if len(got.Transactions) != 1 {
				t.Fatalf("len(Transactions) = %d, want 1", len(got.Transactions))
			}
			tx := got.Transactions[0]
			if tx.ID != "t1" || tx.Amount != 45.5 || tx.Category != "Groceries" {
				t.Errorf("transaction = %+v", tx)
			}
			if !tx.Date.Equal(core.NewDate(2025, 8, 3).Time) {
				t.Errorf("transaction date = %v", tx.Date)
			}
			if !tx.CreatedAt.Equal(want.Transactions[0].CreatedAt) {
				t.Errorf("transaction createdAt = %v", tx.CreatedAt)
			}

			if len(got.Categories) != 1 || got.Categories[0].Color != "#10B981" {
				t.Errorf("categories = %+v", got.Categories)
			}
			if len(got.Budgets) != 1 || got.Budgets[0].Amount != 500 || got.Budgets[0].Type != core.BudgetVariable {
				t.Errorf("budgets = %+v", got.Budgets)
			}
			if len(got.SavingsGoals) != 1 {
				t.Fatalf("len(SavingsGoals) = %d, want 1", len(got.SavingsGoals))
			}
			if !got.SavingsGoals[0].TargetDate.Equal(core.NewDate(2026, 6, 1).Time) {
				t.Errorf("goal targetDate = %v", got.SavingsGoals[0].TargetDate)
			}
			if len(got.IncomeSources) != 1 || !got.IncomeSources[0].IsActive {
				t.Errorf("income sources = %+v", got.IncomeSources)
			}
			if len(got.Alerts) != 1 || got.Alerts[0].Type != core.AlertBudgetWarning {
				t.Errorf("alerts = %+v", got.Alerts)
			}
		})
	}
}

func TestSaveReplacesCollection(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const userID = "u1"

			if name == "sqlite" {
				seedUser(t, b.users, userID)
			}

			first := sampleSnapshot(userID).Transactions
			if err := b.SaveTransactions(ctx, userID, first); err != nil {
				t.Fatalf("SaveTransactions: %v", err)
			}

			replacement := []core.Transaction{{
				ID:        "t2",
				UserID:    userID,
				Type:      core.Income,
				Amount:    100,
				Category:  "Salary",
				Date:      core.NewDate(2025, 8, 10),
				CreatedAt: time.Now().UTC(),
			}}
			if err := b.SaveTransactions(ctx, userID, replacement); err != nil {
				t.Fatalf("SaveTransactions: %v", err)
			}

			got, err := b.Load(ctx, userID)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(got.Transactions) != 1 || got.Transactions[0].ID != "t2" {
				t.Errorf("transactions = %+v, want only t2", got.Transactions)
			}
		})
	}
}

func seedUser(t *testing.T, users UserStore, id string) {
	t.Helper()
	err := users.CreateUser(context.Background(), core.User{
		ID:           id,
		Email:        id + "@example.com",
		Name:         "Test",
		PasswordHash: "x",
		Currency:     "USD",
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
}

func TestUserLifecycle(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := core.User{
				ID:           "u1",
				Email:        "ada@example.com",
				Name:         "Ada",
				PasswordHash: "hash",
				Currency:     "USD",
				CreatedAt:    time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC),
			}

			if err := b.users.CreateUser(ctx, u); err != nil {
				t.Fatalf("CreateUser: %v", err)
			}
			if err := b.users.CreateUser(ctx, core.User{ID: "u2", Email: u.Email, Name: "Dup", PasswordHash: "x", Currency: "USD", CreatedAt: u.CreatedAt}); !errors.Is(err, ErrEmailTaken) {
				t.Errorf("duplicate email err = %v, want ErrEmailTaken", err)
			}

			got, err := b.users.UserByEmail(ctx, u.Email)
			if err != nil {
				t.Fatalf("UserByEmail: %v", err)
			}
			if got.ID != u.ID || got.Currency != "USD" {
				t.Errorf("UserByEmail = %+v", got)
			}

			got.Currency = "EUR"
			if err := b.users.UpdateUser(ctx, got); err != nil {
				t.Fatalf("UpdateUser: %v", err)
			}
			again, err := b.users.UserByID(ctx, u.ID)
			if err != nil {
				t.Fatalf("UserByID: %v", err)
			}
			if again.Currency != "EUR" {
				t.Errorf("currency after update = %q, want EUR", again.Currency)
			}

			if _, err := b.users.UserByID(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
				t.Errorf("UserByID(ghost) err = %v, want ErrUserNotFound", err)
			}
			if err := b.users.UpdateUser(ctx, core.User{ID: "ghost"}); !errors.Is(err, ErrUserNotFound) {
				t.Errorf("UpdateUser(ghost) err = %v, want ErrUserNotFound", err)
			}
		})
	}
}
