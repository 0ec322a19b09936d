package storage

import (
	"context"
	"sync"

	"fintrack/internal/core"
)

// MemoryStore keeps everything in process memory. It backs tests and
// the ephemeral backend mode.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]core.User
	snapshots map[string]*Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]core.User),
		snapshots: make(map[string]*Snapshot),
	}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[userID]
	if !ok {
		return emptySnapshot(), nil
	}
	out := &Snapshot{
		Transactions:  append([]core.Transaction{}, snap.Transactions...),
		Categories:    append([]core.Category{}, snap.Categories...),
		Budgets:       append([]core.Budget{}, snap.Budgets...),
		SavingsGoals:  append([]core.SavingsGoal{}, snap.SavingsGoals...),
		IncomeSources: append([]core.IncomeSource{}, snap.IncomeSources...),
		Alerts:        append([]core.BudgetAlert{}, snap.Alerts...),
	}
	return out, nil
}

func (s *MemoryStore) snapshot(userID string) *Snapshot {
	snap, ok := s.snapshots[userID]
	if !ok {
		snap = emptySnapshot()
		s.snapshots[userID] = snap
	}
	return snap
}

func (s *MemoryStore) SaveTransactions(ctx context.Context, userID string, records []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot(userID).Transactions = append([]core.Transaction{}, records...)
	return nil
}

func (s *MemoryStore) SaveCategories(ctx context.Context, userID string, records []core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot(userID).Categories = append([]core.Category{}, records...)
	return nil
}

func (s *MemoryStore) SaveBudgets(ctx context.Context, userID string, records []core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot(userID).Budgets = append([]core.Budget{}, records...)
	return nil
}

func (s *MemoryStore) SaveSavingsGoals(ctx context.Context, userID string, records []core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot(userID).SavingsGoals = append([]core.SavingsGoal{}, records...)
	return nil
}

func (s *MemoryStore) SaveIncomeSources(ctx context.Context, userID string, records []core.IncomeSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot(userID).IncomeSources = append([]core.IncomeSource{}, records...)
	return nil
}

func (s *MemoryStore) SaveAlerts(ctx context.Context, userID string, records []core.BudgetAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot(userID).Alerts = append([]core.BudgetAlert{}, records...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateUser(ctx context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, ErrUserNotFound
}

func (s *MemoryStore) UserByID(ctx context.Context, id string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return core.User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]core.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	s.users[u.ID] = u
	return nil
}
