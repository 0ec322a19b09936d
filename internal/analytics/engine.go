// Package analytics derives the read-only dashboard figures from raw
// record collections. Every function is a pure reduction over its
// inputs: no state, no errors, recomputed in full on each call.
// Division sites guard their zero denominators explicitly; anything
// else malformed flows through float64 arithmetic untouched.
package analytics

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

type BudgetStatus string

const (
	StatusGood    BudgetStatus = "good"
	StatusWarning BudgetStatus = "warning"
	StatusOver    BudgetStatus = "over"
)

// MonthlySummary is the income/expense/savings triple for one month.
type MonthlySummary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Savings  float64 `json:"savings"`
}

// TrendPoint is one month of a trailing trend series.
type TrendPoint struct {
	Month string `json:"month"`
	MonthlySummary
}

// CategoryAmount is an amount aggregated under one category name.
type CategoryAmount struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Amount float64 `json:"amount"`
}

// BudgetRow is one budget's spend position within a month.
type BudgetRow struct {
	core.Budget
	Spent       float64      `json:"spent"`
	Remaining   float64      `json:"remaining"`
	Utilization float64      `json:"utilization"`
	Status      BudgetStatus `json:"status"`
}

// BudgetOverview aggregates all budgets for a month.
type BudgetOverview struct {
	TotalBudget float64     `json:"totalBudget"`
	TotalSpent  float64     `json:"totalSpent"`
	Remaining   float64     `json:"remaining"`
	Utilization float64     `json:"utilization"`
	Categories  []BudgetRow `json:"categories"`
}

// CategoryPerformance is the progress-report view of one budget,
// carrying the signed variance instead of the remaining balance.
type CategoryPerformance struct {
	Category    string       `json:"category"`
	Budget      float64      `json:"budget"`
	Spent       float64      `json:"spent"`
	Utilization float64      `json:"utilization"`
	Variance    float64      `json:"variance"`
	Status      BudgetStatus `json:"status"`
}

func monthBounds(ref time.Time) (core.Date, core.Date) {
	start := core.NewDate(ref.Year(), int(ref.Month()), 1)
	end := core.Date{Time: start.AddDate(0, 1, -1)}
	return start, end
}

func inMonth(d core.Date, start, end core.Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

// SummarizeMonth sums transactions dated within ref's calendar month,
// inclusive of both month ends. An empty month yields zeroes.
func SummarizeMonth(transactions []core.Transaction, ref time.Time) MonthlySummary {
	start, end := monthBounds(ref)
	var s MonthlySummary
	for _, tx := range transactions {
		if !inMonth(tx.Date, start, end) {
			continue
		}
		switch tx.Type {
		case core.Income:
			s.Income += tx.Amount
		case core.Expense:
			s.Expenses += tx.Amount
		}
	}
	s.Savings = s.Income - s.Expenses
	return s
}

// PeriodChange returns the percent change from previous to current.
// A zero previous period yields 0, which masks true change from a zero
// baseline; that is the documented behavior, not an oversight.
func PeriodChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// SavingsChange is the savings-line variant of PeriodChange: the
// denominator is the magnitude of the previous value so that the sign
// of the result tracks the direction of the move even when the
// previous month's savings were negative.
func SavingsChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	abs := previous
	if abs < 0 {
		abs = -abs
	}
	return (current - previous) / abs * 100
}

// TotalBalance nets every income against every expense across all time.
func TotalBalance(transactions []core.Transaction) float64 {
	var balance float64
	for _, tx := range transactions {
		if tx.Type == core.Income {
			balance += tx.Amount
		} else {
			balance -= tx.Amount
		}
	}
	return balance
}

func classify(utilization float64) BudgetStatus {
	switch {
	case utilization > 100:
		return StatusOver
	case utilization > 80:
		return StatusWarning
	default:
		return StatusGood
	}
}

func spentForCategory(transactions []core.Transaction, category string, start, end core.Date) float64 {
	var spent float64
	for _, tx := range transactions {
		if tx.Type == core.Expense && tx.Category == category && inMonth(tx.Date, start, end) {
			spent += tx.Amount
		}
	}
	return spent
}

// BudgetUsage reports each budget's spend position within ref's month.
// A zero-limit budget always reads as 0% utilized and "good" regardless
// of spend. Duplicate budgets for one category each get their own row
// and both count toward the totals.
func BudgetUsage(budgets []core.Budget, transactions []core.Transaction, ref time.Time) BudgetOverview {
	start, end := monthBounds(ref)
	ov := BudgetOverview{Categories: make([]BudgetRow, 0, len(budgets))}
	for _, b := range budgets {
		spent := spentForCategory(transactions, b.Category, start, end)
		var utilization float64
		if b.Amount > 0 {
			utilization = spent / b.Amount * 100
		}
		ov.Categories = append(ov.Categories, BudgetRow{
			Budget:      b,
			Spent:       spent,
			Remaining:   b.Amount - spent,
			Utilization: utilization,
			Status:      classify(utilization),
		})
		ov.TotalBudget += b.Amount
		ov.TotalSpent += spent
	}
	ov.Remaining = ov.TotalBudget - ov.TotalSpent
	if ov.TotalBudget > 0 {
		ov.Utilization = ov.TotalSpent / ov.TotalBudget * 100
	}
	return ov
}

// PerformanceByCategory is the progress-report cut of the same data:
// spend against budget with a signed variance per category.
func PerformanceByCategory(budgets []core.Budget, transactions []core.Transaction, ref time.Time) []CategoryPerformance {
	start, end := monthBounds(ref)
	rows := make([]CategoryPerformance, 0, len(budgets))
	for _, b := range budgets {
		spent := spentForCategory(transactions, b.Category, start, end)
		var utilization float64
		if b.Amount > 0 {
			utilization = spent / b.Amount * 100
		}
		rows = append(rows, CategoryPerformance{
			Category:    b.Category,
			Budget:      b.Amount,
			Spent:       spent,
			Utilization: utilization,
			Variance:    spent - b.Amount,
			Status:      classify(utilization),
		})
	}
	return rows
}

// ReportBudget is the monthly report's aggregate budget line: the sum
// of all budget amounts against the month's total expenses, budgeted
// or not.
type ReportBudget struct {
	Total       float64 `json:"total"`
	Utilization float64 `json:"utilization"`
}

// ReportBudgetUsage measures monthlyExpenses against the combined
// budget. Unbudgeted spending counts toward utilization, so the figure
// can exceed 100 even when every individual budget is on track.
func ReportBudgetUsage(budgets []core.Budget, monthlyExpenses float64) ReportBudget {
	var total float64
	for _, b := range budgets {
		total += b.Amount
	}
	var utilization float64
	if total > 0 {
		utilization = monthlyExpenses / total * 100
	}
	return ReportBudget{Total: total, Utilization: utilization}
}

// monthlyEquivalent normalizes a per-period amount to a monthly figure
// using fixed calendar-average factors. These are deliberate
// approximations (a weekly source contributes amount x 4.33, never a
// day-count-accurate figure) and must stay numerically identical across
// releases. Frequencies without an entry normalize as yearly.
var monthlyEquivalent = map[core.Frequency]func(float64) float64{
	core.Monthly:   func(a float64) float64 { return a },
	core.Weekly:    func(a float64) float64 { return a * 4.33 },
	core.BiWeekly:  func(a float64) float64 { return a * 2.17 },
	core.Quarterly: func(a float64) float64 { return a / 3 },
}

// MonthlyIncomeFromSources totals the monthly-equivalent amount of the
// active income sources.
func MonthlyIncomeFromSources(sources []core.IncomeSource) float64 {
	var total float64
	for _, s := range sources {
		if !s.IsActive {
			continue
		}
		if f, ok := monthlyEquivalent[s.Frequency]; ok {
			total += f(s.Amount)
		} else {
			total += s.Amount / 12
		}
	}
	return total
}

// SavingsRate is the share of income left after spending, in percent.
func SavingsRate(totalIncome, totalSpent float64) float64 {
	if totalIncome <= 0 {
		return 0
	}
	return (totalIncome - totalSpent) / totalIncome * 100
}

// MonthlyTrend produces the trailing monthCount calendar months ending
// at ref's month, oldest first, each summarized as SummarizeMonth does.
// The series always has exactly monthCount entries.
func MonthlyTrend(transactions []core.Transaction, monthCount int, ref time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, monthCount)
	for i := monthCount - 1; i >= 0; i-- {
		m := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		points = append(points, TrendPoint{
			Month:          m.Format("Jan 2006"),
			MonthlySummary: SummarizeMonth(transactions, m),
		})
	}
	return points
}

// RecentTransactions returns the newest transactions by date, at most
// limit of them. Ties keep their original relative order.
func RecentTransactions(transactions []core.Transaction, limit int) []core.Transaction {
	sorted := make([]core.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// breakdown groups one transaction type's amounts by category for ref's
// month, categories in first-seen order, colored from the category set.
func breakdown(transactions []core.Transaction, categories []core.Category, txType core.TransactionType, ref time.Time) []CategoryAmount {
	start, end := monthBounds(ref)
	index := make(map[string]int)
	var rows []CategoryAmount
	for _, tx := range transactions {
		if tx.Type != txType || !inMonth(tx.Date, start, end) {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(rows)
			index[tx.Category] = i
			rows = append(rows, CategoryAmount{Name: tx.Category, Color: categoryColor(categories, tx.Category)})
		}
		rows[i].Amount += tx.Amount
	}
	return rows
}

const fallbackColor = "#6B7280"

func categoryColor(categories []core.Category, name string) string {
	for _, c := range categories {
		if c.Name == name {
			return c.Color
		}
	}
	return fallbackColor
}

// ExpenseBreakdown groups the month's expenses by category.
func ExpenseBreakdown(transactions []core.Transaction, categories []core.Category, ref time.Time) []CategoryAmount {
	return breakdown(transactions, categories, core.Expense, ref)
}

// IncomeBreakdown groups the month's income by category.
func IncomeBreakdown(transactions []core.Transaction, categories []core.Category, ref time.Time) []CategoryAmount {
	return breakdown(transactions, categories, core.Income, ref)
}
