// Package finance owns the record collections: transactions,
// categories, budgets, savings goals and income sources. Every write
// loads the user's collection, mutates it in memory and saves it back
// whole, then notifies the alert worker over AMQP when transactions
// change.
package finance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

var ErrNotFound = errors.New("record not found")

type Service struct {
	store      storage.Store
	amqpClient *amqp.Client
}

func NewService(store storage.Store, amqpClient *amqp.Client) *Service {
	return &Service{
		store:      store,
		amqpClient: amqpClient,
	}
}

// Snapshot returns all of a user's collections.
func (s *Service) Snapshot(ctx context.Context, userID string) (*storage.Snapshot, error) {
	return s.store.Load(ctx, userID)
}

// defaultCategories is the starter set every new account gets.
var defaultCategories = []core.Category{
	{Name: "Food & Dining", Type: core.Expense, Color: "#F59E0B", Icon: "UtensilsCrossed"},
	{Name: "Transportation", Type: core.Expense, Color: "#3B82F6", Icon: "Car"},
	{Name: "Utilities", Type: core.Expense, Color: "#EF4444", Icon: "Zap"},
	{Name: "Entertainment", Type: core.Expense, Color: "#8B5CF6", Icon: "Music"},
	{Name: "Healthcare", Type: core.Expense, Color: "#EC4899", Icon: "Heart"},
	{Name: "Shopping", Type: core.Expense, Color: "#10B981", Icon: "ShoppingBag"},
	{Name: "Housing", Type: core.Expense, Color: "#6B7280", Icon: "Home"},
	{Name: "Insurance", Type: core.Expense, Color: "#14B8A6", Icon: "Shield"},
	{Name: "Salary", Type: core.Income, Color: "#059669", Icon: "DollarSign"},
	{Name: "Freelance", Type: core.Income, Color: "#7C3AED", Icon: "Briefcase"},
	{Name: "Investments", Type: core.Income, Color: "#DC2626", Icon: "TrendingUp"},
}

// SeedDefaults installs the starter categories for users that have
// none yet. Existing category sets are left alone.
func (s *Service) SeedDefaults(ctx context.Context, userID string) error {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if len(snap.Categories) > 0 {
		return nil
	}

	seeded := make([]core.Category, len(defaultCategories))
	for i, c := range defaultCategories {
		c.ID = uuid.NewString()
		seeded[i] = c
	}
	if err := s.store.SaveCategories(ctx, userID, seeded); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}

	slog.InfoContext(ctx, "Seeded default categories",
		"user_id", userID,
		"count", len(seeded))
	return nil
}

func (s *Service) publishEvent(ctx context.Context, event *amqp.TransactionEvent) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping event")
		return
	}
	if err := s.amqpClient.PublishTransactionEvent(ctx, event); err != nil {
		// The record is already saved. Alerts catch up on the next
		// evaluation cycle, so losing the event is not fatal.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"user_id", event.UserID,
			"transaction_id", event.TransactionID,
			"error", err)
	}
}

// AddTransaction stores a new transaction. ID and CreatedAt are
// assigned here, never taken from the caller.
func (s *Service) AddTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	tx.UserID = userID
	tx.CreatedAt = time.Now().UTC()
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.store.SaveTransactions(ctx, userID, append(snap.Transactions, tx)); err != nil {
		return core.Transaction{}, fmt.Errorf("save transactions: %w", err)
	}

	s.publishEvent(ctx, amqp.NewTransactionEvent(userID, tx.ID, tx.Category, amqp.ActionCreated))
	return tx, nil
}

// UpdateTransaction applies a patch to one transaction. Fields absent
// from the patch keep their stored values.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, patch core.TransactionPatch) (core.Transaction, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load snapshot: %w", err)
	}

	for i, tx := range snap.Transactions {
		if tx.ID != id {
			continue
		}
		updated := patch.Apply(tx)
		if err := updated.Validate(); err != nil {
			return core.Transaction{}, err
		}
		snap.Transactions[i] = updated
		if err := s.store.SaveTransactions(ctx, userID, snap.Transactions); err != nil {
			return core.Transaction{}, fmt.Errorf("save transactions: %w", err)
		}
		s.publishEvent(ctx, amqp.NewTransactionEvent(userID, id, updated.Category, amqp.ActionUpdated))
		return updated, nil
	}
	return core.Transaction{}, ErrNotFound
}

func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	for i, tx := range snap.Transactions {
		if tx.ID != id {
			continue
		}
		remaining := append(snap.Transactions[:i], snap.Transactions[i+1:]...)
		if err := s.store.SaveTransactions(ctx, userID, remaining); err != nil {
			return fmt.Errorf("save transactions: %w", err)
		}
		s.publishEvent(ctx, amqp.NewTransactionEvent(userID, id, tx.Category, amqp.ActionDeleted))
		return nil
	}
	return ErrNotFound
}

func (s *Service) AddCategory(ctx context.Context, userID string, c core.Category) (core.Category, error) {
	c.ID = uuid.NewString()
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.Category{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.store.SaveCategories(ctx, userID, append(snap.Categories, c)); err != nil {
		return core.Category{}, fmt.Errorf("save categories: %w", err)
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, userID, id string, patch core.CategoryPatch) (core.Category, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.Category{}, fmt.Errorf("load snapshot: %w", err)
	}

	for i, c := range snap.Categories {
		if c.ID != id {
			continue
		}
		updated := patch.Apply(c)
		if err := updated.Validate(); err != nil {
			return core.Category{}, err
		}
		snap.Categories[i] = updated
		if err := s.store.SaveCategories(ctx, userID, snap.Categories); err != nil {
			return core.Category{}, fmt.Errorf("save categories: %w", err)
		}
		return updated, nil
	}
	return core.Category{}, ErrNotFound
}

// DeleteCategory removes a category. Transactions keep referencing the
// category by name, so history is unaffected.
func (s *Service) DeleteCategory(ctx context.Context, userID, id string) error {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	for i, c := range snap.Categories {
		if c.ID != id {
			continue
		}
		remaining := append(snap.Categories[:i], snap.Categories[i+1:]...)
		if err := s.store.SaveCategories(ctx, userID, remaining); err != nil {
			return fmt.Errorf("save categories: %w", err)
		}
		return nil
	}
	return ErrNotFound
}

func (s *Service) AddBudget(ctx context.Context, userID string, b core.Budget) (core.Budget, error) {
	b.ID = uuid.NewString()
	b.UserID = userID
	b.CreatedAt = time.Now().UTC()
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.store.SaveBudgets(ctx, userID, append(snap.Budgets, b)); err != nil {
		return core.Budget{}, fmt.Errorf("save budgets: %w", err)
	}
	return b, nil
}

func (s *Service) UpdateBudget(ctx context.Context, userID, id string, patch core.BudgetPatch) (core.Budget, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("load snapshot: %w", err)
	}

	for i, b := range snap.Budgets {
		if b.ID != id {
			continue
		}
		updated := patch.Apply(b)
		if err := updated.Validate(); err != nil {
			return core.Budget{}, err
		}
		snap.Budgets[i] = updated
		if err := s.store.SaveBudgets(ctx, userID, snap.Budgets); err != nil {
			return core.Budget{}, fmt.Errorf("save budgets: %w", err)
		}
		return updated, nil
	}
	return core.Budget{}, ErrNotFound
}

func (s *Service) DeleteBudget(ctx context.Context, userID, id string) error {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	for i, b := range snap.Budgets {
		if b.ID != id {
			continue
		}
		remaining := append(snap.Budgets[:i], snap.Budgets[i+1:]...)
		if err := s.store.SaveBudgets(ctx, userID, remaining); err != nil {
			return fmt.Errorf("save budgets: %w", err)
		}
		return nil
	}
	return ErrNotFound
}

func (s *Service) AddSavingsGoal(ctx context.Context, userID string, g core.SavingsGoal) (core.SavingsGoal, error) {
	g.ID = uuid.NewString()
	g.UserID = userID
	g.CreatedAt = time.Now().UTC()
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.store.SaveSavingsGoals(ctx, userID, append(snap.SavingsGoals, g)); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("save savings goals: %w", err)
	}
	return g, nil
}

func (s *Service) UpdateSavingsGoal(ctx context.Context, userID, id string, patch core.SavingsGoalPatch) (core.SavingsGoal, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("load snapshot: %w", err)
	}

	for i, g := range snap.SavingsGoals {
		if g.ID != id {
			continue
		}
		updated := patch.Apply(g)
		if err := updated.Validate(); err != nil {
			return core.SavingsGoal{}, err
		}
		snap.SavingsGoals[i] = updated
		if err := s.store.SaveSavingsGoals(ctx, userID, snap.SavingsGoals); err != nil {
			return core.SavingsGoal{}, fmt.Errorf("save savings goals: %w", err)
		}
		return updated, nil
	}
	return core.SavingsGoal{}, ErrNotFound
}

// ContributeToGoal adds amount to a goal's balance. Negative amounts
// withdraw, but the balance never drops below zero.
func (s *Service) ContributeToGoal(ctx context.Context, userID, id string, amount float64) (core.SavingsGoal, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("load snapshot: %w", err)
	}

	for i, g := range snap.SavingsGoals {
		if g.ID != id {
			continue
		}
		g.CurrentAmount += amount
		if g.CurrentAmount < 0 {
			g.CurrentAmount = 0
		}
		snap.SavingsGoals[i] = g
		if err := s.store.SaveSavingsGoals(ctx, userID, snap.SavingsGoals); err != nil {
			return core.SavingsGoal{}, fmt.Errorf("save savings goals: %w", err)
		}
		return g, nil
	}
	return core.SavingsGoal{}, ErrNotFound
}

func (s *Service) DeleteSavingsGoal(ctx context.Context, userID, id string) error {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	for i, g := range snap.SavingsGoals {
		if g.ID != id {
			continue
		}
		remaining := append(snap.SavingsGoals[:i], snap.SavingsGoals[i+1:]...)
		if err := s.store.SaveSavingsGoals(ctx, userID, remaining); err != nil {
			return fmt.Errorf("save savings goals: %w", err)
		}
		return nil
	}
	return ErrNotFound
}

func (s *Service) AddIncomeSource(ctx context.Context, userID string, src core.IncomeSource) (core.IncomeSource, error) {
	src.ID = uuid.NewString()
	src.UserID = userID
	src.CreatedAt = time.Now().UTC()
	if err := src.Validate(); err != nil {
		return core.IncomeSource{}, err
	}

	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.IncomeSource{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.store.SaveIncomeSources(ctx, userID, append(snap.IncomeSources, src)); err != nil {
		return core.IncomeSource{}, fmt.Errorf("save income sources: %w", err)
	}
	return src, nil
}

func (s *Service) UpdateIncomeSource(ctx context.Context, userID, id string, patch core.IncomeSourcePatch) (core.IncomeSource, error) {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return core.IncomeSource{}, fmt.Errorf("load snapshot: %w", err)
	}

	for i, src := range snap.IncomeSources {
		if src.ID != id {
			continue
		}
		updated := patch.Apply(src)
		if err := updated.Validate(); err != nil {
			return core.IncomeSource{}, err
		}
		snap.IncomeSources[i] = updated
		if err := s.store.SaveIncomeSources(ctx, userID, snap.IncomeSources); err != nil {
			return core.IncomeSource{}, fmt.Errorf("save income sources: %w", err)
		}
		return updated, nil
	}
	return core.IncomeSource{}, ErrNotFound
}

func (s *Service) DeleteIncomeSource(ctx context.Context, userID, id string) error {
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	for i, src := range snap.IncomeSources {
		if src.ID != id {
			continue
		}
		remaining := append(snap.IncomeSources[:i], snap.IncomeSources[i+1:]...)
		if err := s.store.SaveIncomeSources(ctx, userID, remaining); err != nil {
			return fmt.Errorf("save income sources: %w", err)
		}
		return nil
	}
	return ErrNotFound
}
