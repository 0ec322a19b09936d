// Package storage persists user accounts and their finance records.
// Records are saved a whole collection at a time: callers load the
// full snapshot, mutate it in memory, and write the changed collection
// back. Three backends implement the same contract: in-memory for
// tests, JSON files on disk, and SQLite.
package storage

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Snapshot is the complete record set of one user.
type Snapshot struct {
	Transactions  []core.Transaction  `json:"transactions"`
	Categories    []core.Category     `json:"categories"`
	Budgets       []core.Budget       `json:"budgets"`
	SavingsGoals  []core.SavingsGoal  `json:"savingsGoals"`
	IncomeSources []core.IncomeSource `json:"incomeSources"`
	Alerts        []core.BudgetAlert  `json:"alerts"`
}

// Store reads and writes per-user finance collections. Each Save
// replaces the named collection wholesale; there are no row-level
// updates.
type Store interface {
	Load(ctx context.Context, userID string) (*Snapshot, error)
	SaveTransactions(ctx context.Context, userID string, records []core.Transaction) error
	SaveCategories(ctx context.Context, userID string, records []core.Category) error
	SaveBudgets(ctx context.Context, userID string, records []core.Budget) error
	SaveSavingsGoals(ctx context.Context, userID string, records []core.SavingsGoal) error
	SaveIncomeSources(ctx context.Context, userID string, records []core.IncomeSource) error
	SaveAlerts(ctx context.Context, userID string, records []core.BudgetAlert) error
	Close() error
}

// UserStore manages user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u core.User) error
	UserByEmail(ctx context.Context, email string) (core.User, error)
	UserByID(ctx context.Context, id string) (core.User, error)
	UpdateUser(ctx context.Context, u core.User) error
	ListUsers(ctx context.Context) ([]core.User, error)
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Transactions:  []core.Transaction{},
		Categories:    []core.Category{},
		Budgets:       []core.Budget{},
		SavingsGoals:  []core.SavingsGoal{},
		IncomeSources: []core.IncomeSource{},
		Alerts:        []core.BudgetAlert{},
	}
}
