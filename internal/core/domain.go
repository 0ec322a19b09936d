package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

const (
	BudgetFixed    BudgetType = "fixed"
	BudgetVariable BudgetType = "variable"
	BudgetDebt     BudgetType = "debt"
)

const (
	Weekly    Frequency = "weekly"
	BiWeekly  Frequency = "bi-weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	GoalEmergency  GoalCategory = "emergency"
	GoalShortTerm  GoalCategory = "short-term"
	GoalMediumTerm GoalCategory = "medium-term"
	GoalLongTerm   GoalCategory = "long-term"
)

const (
	AlertBudgetExceeded AlertType = "budget_exceeded"
	AlertBudgetWarning  AlertType = "budget_warning"
	AlertGoalMilestone  AlertType = "goal_milestone"
	AlertBillReminder   AlertType = "bill_reminder"
	AlertSavingsTarget  AlertType = "savings_target"
)

type (
	TransactionType string
	BudgetPeriod    string
	BudgetType      string
	Frequency       string
	Priority        string
	GoalCategory    string
	AlertType       string

	// Date is a calendar date without a time-of-day component.
	// It serializes as "2006-01-02" while full timestamps (CreatedAt
	// fields) serialize as RFC 3339, so the two survive a persistence
	// round trip as distinct kinds of value.
	Date struct {
		time.Time
	}

	User struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		Name         string    `json:"name"`
		PasswordHash string    `json:"passwordHash,omitempty"`
		Currency     string    `json:"currency"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		UserID      string          `json:"userId"`
		Type        TransactionType `json:"type"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	Category struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Type  TransactionType `json:"type"`
		Color string          `json:"color"`
		Icon  string          `json:"icon"`
	}

	Budget struct {
		ID        string       `json:"id"`
		UserID    string       `json:"userId"`
		Category  string       `json:"category"`
		Amount    float64      `json:"amount"`
		Period    BudgetPeriod `json:"period"`
		Type      BudgetType   `json:"type"`
		CreatedAt time.Time    `json:"createdAt"`
	}

	SavingsGoal struct {
		ID            string       `json:"id"`
		UserID        string       `json:"userId"`
		Name          string       `json:"name"`
		Description   string       `json:"description"`
		TargetAmount  float64      `json:"targetAmount"`
		CurrentAmount float64      `json:"currentAmount"`
		TargetDate    Date         `json:"targetDate"`
		Priority      Priority     `json:"priority"`
		Category      GoalCategory `json:"category"`
		CreatedAt     time.Time    `json:"createdAt"`
	}

	IncomeSource struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		Name      string    `json:"name"`
		Amount    float64   `json:"amount"`
		Frequency Frequency `json:"frequency"`
		Type      string    `json:"type"`
		IsActive  bool      `json:"isActive"`
		CreatedAt time.Time `json:"createdAt"`
	}

	BudgetAlert struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		Type      AlertType `json:"type"`
		Message   string    `json:"message"`
		Category  string    `json:"category,omitempty"`
		Amount    float64   `json:"amount,omitempty"`
		IsRead    bool      `json:"isRead"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidPeriod    = errors.New("invalid budget period")
	ErrInvalidBudget    = errors.New("invalid budget type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidGoal      = errors.New("invalid goal category")
	ErrZeroDate         = errors.New("date cannot be zero")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		// Older stored values carry a full timestamp; keep the date part.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	d.Time = t
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return ErrInvalidType
}

func (tx Transaction) Validate() error {
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if tx.Amount < 0 {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	return tx.Date.Validate()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return c.Type.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Amount < 0 {
		return ErrNegativeAmount
	}
	switch b.Period {
	case PeriodMonthly, PeriodYearly:
	default:
		return ErrInvalidPeriod
	}
	switch b.Type {
	case BudgetFixed, BudgetVariable, BudgetDebt:
	default:
		return ErrInvalidBudget
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.TargetAmount <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount < 0 {
		return ErrNegativeAmount
	}
	if err := g.TargetDate.Validate(); err != nil {
		return err
	}
	switch g.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}
	switch g.Category {
	case GoalEmergency, GoalShortTerm, GoalMediumTerm, GoalLongTerm:
	default:
		return ErrInvalidGoal
	}
	return nil
}

func (s IncomeSource) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Amount <= 0 {
		return ErrInvalidAmount
	}
	switch s.Frequency {
	case Weekly, BiWeekly, Monthly, Quarterly, Yearly:
		return nil
	}
	return ErrInvalidFrequency
}
