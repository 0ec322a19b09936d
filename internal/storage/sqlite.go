package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// SQLiteStore persists collections in a SQLite database. Collection
// saves replace all of a user's rows for that table inside one
// transaction, keeping the whole-collection write contract.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := ApplySchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, userID string) (*Snapshot, error) {
	snap := emptySnapshot()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, amount, category, description, date, created_at
		 FROM transactions WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	for rows.Next() {
		var tx core.Transaction
		var date, createdAt string
		if err := rows.Scan(&tx.ID, &tx.Type, &tx.Amount, &tx.Category, &tx.Description, &date, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.UserID = userID
		if tx.Date, err = parseDate(date); err != nil {
			rows.Close()
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		if tx.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		snap.Transactions = append(snap.Transactions, tx)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, name, type, color, icon FROM categories WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Color, &c.Icon); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan category: %w", err)
		}
		snap.Categories = append(snap.Categories, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, category, amount, period, budget_type, created_at
		 FROM budgets WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	for rows.Next() {
		var b core.Budget
		var createdAt string
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount, &b.Period, &b.Type, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.UserID = userID
		if b.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("budget %s: %w", b.ID, err)
		}
		snap.Budgets = append(snap.Budgets, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, name, description, target_amount, current_amount, target_date, priority, category, created_at
		 FROM savings_goals WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load savings goals: %w", err)
	}
	for rows.Next() {
		var g core.SavingsGoal
		var targetDate, createdAt string
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.TargetAmount, &g.CurrentAmount, &targetDate, &g.Priority, &g.Category, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		g.UserID = userID
		if g.TargetDate, err = parseDate(targetDate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("savings goal %s: %w", g.ID, err)
		}
		if g.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("savings goal %s: %w", g.ID, err)
		}
		snap.SavingsGoals = append(snap.SavingsGoals, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate savings goals: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, name, amount, frequency, source_type, is_active, created_at
		 FROM income_sources WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load income sources: %w", err)
	}
	for rows.Next() {
		var src core.IncomeSource
		var createdAt string
		if err := rows.Scan(&src.ID, &src.Name, &src.Amount, &src.Frequency, &src.Type, &src.IsActive, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan income source: %w", err)
		}
		src.UserID = userID
		if src.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("income source %s: %w", src.ID, err)
		}
		snap.IncomeSources = append(snap.IncomeSources, src)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate income sources: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, type, message, category, amount, is_read, created_at
		 FROM alerts WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load alerts: %w", err)
	}
	for rows.Next() {
		var a core.BudgetAlert
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Type, &a.Message, &a.Category, &a.Amount, &a.IsRead, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.UserID = userID
		if a.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("alert %s: %w", a.ID, err)
		}
		snap.Alerts = append(snap.Alerts, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	rows.Close()

	return snap, nil
}

// replaceRows clears a user's rows in table and re-inserts via insert,
// all inside one transaction.
func (s *SQLiteStore) replaceRows(ctx context.Context, table, userID string, insert func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	return nil
}

func (s *SQLiteStore) SaveTransactions(ctx context.Context, userID string, records []core.Transaction) error {
	return s.replaceRows(ctx, "transactions", userID, func(tx *sql.Tx) error {
		for _, r := range records {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (id, user_id, type, amount, category, description, date, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, userID, r.Type, r.Amount, r.Category, r.Description,
				r.Date.Format(dateLayout), r.CreatedAt.UTC().Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("insert transaction %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) SaveCategories(ctx context.Context, userID string, records []core.Category) error {
	return s.replaceRows(ctx, "categories", userID, func(tx *sql.Tx) error {
		for _, r := range records {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO categories (id, user_id, name, type, color, icon)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				r.ID, userID, r.Name, r.Type, r.Color, r.Icon)
			if err != nil {
				return fmt.Errorf("insert category %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) SaveBudgets(ctx context.Context, userID string, records []core.Budget) error {
	return s.replaceRows(ctx, "budgets", userID, func(tx *sql.Tx) error {
		for _, r := range records {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO budgets (id, user_id, category, amount, period, budget_type, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.ID, userID, r.Category, r.Amount, r.Period, r.Type,
				r.CreatedAt.UTC().Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("insert budget %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) SaveSavingsGoals(ctx context.Context, userID string, records []core.SavingsGoal) error {
	return s.replaceRows(ctx, "savings_goals", userID, func(tx *sql.Tx) error {
		for _, r := range records {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO savings_goals (id, user_id, name, description, target_amount, current_amount, target_date, priority, category, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, userID, r.Name, r.Description, r.TargetAmount, r.CurrentAmount,
				r.TargetDate.Format(dateLayout), r.Priority, r.Category,
				r.CreatedAt.UTC().Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("insert savings goal %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) SaveIncomeSources(ctx context.Context, userID string, records []core.IncomeSource) error {
	return s.replaceRows(ctx, "income_sources", userID, func(tx *sql.Tx) error {
		for _, r := range records {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO income_sources (id, user_id, name, amount, frequency, source_type, is_active, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, userID, r.Name, r.Amount, r.Frequency, r.Type, r.IsActive,
				r.CreatedAt.UTC().Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("insert income source %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) SaveAlerts(ctx context.Context, userID string, records []core.BudgetAlert) error {
	return s.replaceRows(ctx, "alerts", userID, func(tx *sql.Tx) error {
		for _, r := range records {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO alerts (id, user_id, type, message, category, amount, is_read, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, userID, r.Type, r.Message, r.Category, r.Amount, r.IsRead,
				r.CreatedAt.UTC().Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("insert alert %s: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u core.User) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE email = ?", u.Email).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists > 0 {
		return ErrEmailTaken
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Currency,
		u.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Currency, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	if u.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return core.User{}, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return u, nil
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, currency, created_at FROM users WHERE email = ?", email))
}

func (s *SQLiteStore) UserByID(ctx context.Context, id string) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, currency, created_at FROM users WHERE id = ?", id))
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, name, password_hash, currency, created_at FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		var u core.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Currency, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if u.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, u core.User) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET email = ?, name = ?, password_hash = ?, currency = ? WHERE id = ?",
		u.Email, u.Name, u.PasswordHash, u.Currency, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
