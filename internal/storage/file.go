package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"fintrack/internal/core"
)

// FileStore keeps each user's collections as JSON documents under a
// data directory, one file per collection. Writes go through a temp
// file and rename so a crash never leaves a half-written document.
//
//	<root>/users.json
//	<root>/<userID>/transactions.json
//	<root>/<userID>/categories.json
//	...
type FileStore struct {
	mu   sync.Mutex
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) collectionPath(userID, name string) string {
	return filepath.Join(s.root, userID, name+".json")
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create user directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readJSON loads path into v. A missing file leaves v untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, userID string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := emptySnapshot()
	parts := []struct {
		name string
		dst  any
	}{
		{"transactions", &snap.Transactions},
		{"categories", &snap.Categories},
		{"budgets", &snap.Budgets},
		{"savings_goals", &snap.SavingsGoals},
		{"income_sources", &snap.IncomeSources},
		{"alerts", &snap.Alerts},
	}
	for _, p := range parts {
		if err := readJSON(s.collectionPath(userID, p.name), p.dst); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (s *FileStore) saveCollection(userID, name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.collectionPath(userID, name), v)
}

func (s *FileStore) SaveTransactions(ctx context.Context, userID string, records []core.Transaction) error {
	return s.saveCollection(userID, "transactions", records)
}

func (s *FileStore) SaveCategories(ctx context.Context, userID string, records []core.Category) error {
	return s.saveCollection(userID, "categories", records)
}

func (s *FileStore) SaveBudgets(ctx context.Context, userID string, records []core.Budget) error {
	return s.saveCollection(userID, "budgets", records)
}

func (s *FileStore) SaveSavingsGoals(ctx context.Context, userID string, records []core.SavingsGoal) error {
	return s.saveCollection(userID, "savings_goals", records)
}

func (s *FileStore) SaveIncomeSources(ctx context.Context, userID string, records []core.IncomeSource) error {
	return s.saveCollection(userID, "income_sources", records)
}

func (s *FileStore) SaveAlerts(ctx context.Context, userID string, records []core.BudgetAlert) error {
	return s.saveCollection(userID, "alerts", records)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) usersPath() string {
	return filepath.Join(s.root, "users.json")
}

func (s *FileStore) loadUsers() ([]core.User, error) {
	users := []core.User{}
	if err := readJSON(s.usersPath(), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *FileStore) CreateUser(ctx context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	return writeJSON(s.usersPath(), append(users, u))
}

func (s *FileStore) UserByEmail(ctx context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return core.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, ErrUserNotFound
}

func (s *FileStore) UserByID(ctx context.Context, id string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return core.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return core.User{}, ErrUserNotFound
}

func (s *FileStore) ListUsers(ctx context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUsers()
}

func (s *FileStore) UpdateUser(ctx context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	for i, existing := range users {
		if existing.ID == u.ID {
			users[i] = u
			return writeJSON(s.usersPath(), users)
		}
	}
	return ErrUserNotFound
}
