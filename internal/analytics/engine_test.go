package analytics

import (
	"math"
	"testing"
	"time"

	"fintrack/internal/core"
)

var august = time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)

func tx(txType core.TransactionType, amount float64, category string, date core.Date) core.Transaction {
	return core.Transaction{
		ID:       "tx-" + category,
		Type:     txType,
		Amount:   amount,
		Category: category,
		Date:     date,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarizeMonth(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, 3000, "Salary", core.NewDate(2025, 8, 1)),
		tx(core.Expense, 450, "Groceries", core.NewDate(2025, 8, 10)),
		tx(core.Expense, 120, "Transport", core.NewDate(2025, 8, 31)),
		tx(core.Expense, 999, "Groceries", core.NewDate(2025, 7, 31)),
		tx(core.Income, 500, "Freelance", core.NewDate(2025, 9, 1)),
	}

	got := SummarizeMonth(txs, august)
	if got.Income != 3000 {
		t.Errorf("income = %v, want 3000", got.Income)
	}
	if got.Expenses != 570 {
		t.Errorf("expenses = %v, want 570", got.Expenses)
	}
	if got.Savings != 2430 {
		t.Errorf("savings = %v, want 2430", got.Savings)
	}
}

func TestSummarizeMonthEmpty(t *testing.T) {
	got := SummarizeMonth(nil, august)
	if got.Income != 0 || got.Expenses != 0 || got.Savings != 0 {
		t.Errorf("empty month summary = %+v, want zeroes", got)
	}
}

func TestPeriodChange(t *testing.T) {
	tests := []struct {
		name              string
		current, previous float64
		want              float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"zero previous", 150, 0, 0},
		{"no change", 100, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PeriodChange(tt.current, tt.previous); !almostEqual(got, tt.want) {
				t.Errorf("PeriodChange(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestSavingsChangeNegativeBaseline(t *testing.T) {
	// moving from -100 to 100 must read as a positive change
	if got := SavingsChange(100, -100); !almostEqual(got, 200) {
		t.Errorf("SavingsChange(100, -100) = %v, want 200", got)
	}
	if got := SavingsChange(100, 0); got != 0 {
		t.Errorf("SavingsChange(100, 0) = %v, want 0", got)
	}
}

func TestTotalBalance(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, 3000, "Salary", core.NewDate(2025, 1, 1)),
		tx(core.Expense, 1200, "Rent", core.NewDate(2025, 1, 2)),
		tx(core.Expense, 300, "Groceries", core.NewDate(2024, 6, 2)),
	}
	if got := TotalBalance(txs); got != 1500 {
		t.Errorf("TotalBalance = %v, want 1500", got)
	}
}

func TestBudgetUsage(t *testing.T) {
	budgets := []core.Budget{
		{ID: "b1", Category: "Groceries", Amount: 500, Period: core.PeriodMonthly},
		{ID: "b2", Category: "Entertainment", Amount: 100, Period: core.PeriodMonthly},
		{ID: "b3", Category: "Transport", Amount: 200, Period: core.PeriodMonthly},
	}
	txs := []core.Transaction{
		tx(core.Expense, 450, "Groceries", core.NewDate(2025, 8, 5)),
		tx(core.Expense, 130, "Entertainment", core.NewDate(2025, 8, 9)),
		tx(core.Expense, 50, "Transport", core.NewDate(2025, 8, 12)),
		tx(core.Income, 500, "Groceries", core.NewDate(2025, 8, 5)),
		tx(core.Expense, 300, "Groceries", core.NewDate(2025, 7, 5)),
	}

	ov := BudgetUsage(budgets, txs, august)
	if ov.TotalBudget != 800 {
		t.Errorf("total budget = %v, want 800", ov.TotalBudget)
	}
	if ov.TotalSpent != 630 {
		t.Errorf("total spent = %v, want 630", ov.TotalSpent)
	}
	if ov.Remaining != 170 {
		t.Errorf("remaining = %v, want 170", ov.Remaining)
	}

	want := []struct {
		spent       float64
		utilization float64
		status      BudgetStatus
	}{
		{450, 90, StatusWarning},
		{130, 130, StatusOver},
		{50, 25, StatusGood},
	}
	for i, w := range want {
		row := ov.Categories[i]
		if row.Spent != w.spent || !almostEqual(row.Utilization, w.utilization) || row.Status != w.status {
			t.Errorf("row %s = {spent %v utilization %v status %s}, want %+v",
				row.Category, row.Spent, row.Utilization, row.Status, w)
		}
	}
}

func TestBudgetUsageZeroLimit(t *testing.T) {
	budgets := []core.Budget{{ID: "b1", Category: "Misc", Amount: 0, Period: core.PeriodMonthly}}
	txs := []core.Transaction{tx(core.Expense, 40, "Misc", core.NewDate(2025, 8, 2))}

	ov := BudgetUsage(budgets, txs, august)
	row := ov.Categories[0]
	if row.Utilization != 0 || row.Status != StatusGood {
		t.Errorf("zero-limit row = {utilization %v status %s}, want {0 good}", row.Utilization, row.Status)
	}
}

func TestReportBudgetUsageCountsAllExpenses(t *testing.T) {
	budgets := []core.Budget{
		{ID: "b1", Category: "Groceries", Amount: 500, Period: core.PeriodMonthly},
		{ID: "b2", Category: "Transport", Amount: 300, Period: core.PeriodMonthly},
	}

	// 400 budgeted plus 600 in an unbudgeted category.
	rb := ReportBudgetUsage(budgets, 1000)
	if rb.Total != 800 {
		t.Errorf("total = %v, want 800", rb.Total)
	}
	if !almostEqual(rb.Utilization, 125) {
		t.Errorf("utilization = %v, want 125", rb.Utilization)
	}
}

func TestReportBudgetUsageNoBudgets(t *testing.T) {
	rb := ReportBudgetUsage(nil, 250)
	if rb.Total != 0 || rb.Utilization != 0 {
		t.Errorf("usage = %+v, want zeroes", rb)
	}
}

func TestPerformanceByCategoryVariance(t *testing.T) {
	budgets := []core.Budget{{ID: "b1", Category: "Groceries", Amount: 500, Period: core.PeriodMonthly}}
	txs := []core.Transaction{tx(core.Expense, 620, "Groceries", core.NewDate(2025, 8, 20))}

	rows := PerformanceByCategory(budgets, txs, august)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].Variance != 120 {
		t.Errorf("variance = %v, want 120", rows[0].Variance)
	}
	if rows[0].Status != StatusOver {
		t.Errorf("status = %s, want over", rows[0].Status)
	}
}

func TestMonthlyIncomeFromSources(t *testing.T) {
	tests := []struct {
		name      string
		frequency core.Frequency
		amount    float64
		want      float64
	}{
		{"monthly", core.Monthly, 1000, 1000},
		{"weekly", core.Weekly, 100, 433.0},
		{"bi-weekly", core.BiWeekly, 100, 217.0},
		{"quarterly", core.Quarterly, 300, 100},
		{"yearly", core.Yearly, 1200, 100},
		{"unknown falls back to yearly", core.Frequency("daily"), 1200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := []core.IncomeSource{{ID: "s1", Name: "Job", Amount: tt.amount, Frequency: tt.frequency, IsActive: true}}
			if got := MonthlyIncomeFromSources(sources); !almostEqual(got, tt.want) {
				t.Errorf("MonthlyIncomeFromSources(%s %v) = %v, want %v", tt.frequency, tt.amount, got, tt.want)
			}
		})
	}
}

func TestMonthlyIncomeSkipsInactive(t *testing.T) {
	sources := []core.IncomeSource{
		{ID: "s1", Name: "Job", Amount: 1000, Frequency: core.Monthly, IsActive: true},
		{ID: "s2", Name: "Old job", Amount: 5000, Frequency: core.Monthly, IsActive: false},
	}
	if got := MonthlyIncomeFromSources(sources); got != 1000 {
		t.Errorf("MonthlyIncomeFromSources = %v, want 1000", got)
	}
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name          string
		income, spent float64
		want          float64
	}{
		{"quarter saved", 4000, 3000, 25},
		{"overspent", 1000, 1500, -50},
		{"zero income", 0, 500, 0},
		{"negative income", -100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SavingsRate(tt.income, tt.spent); !almostEqual(got, tt.want) {
				t.Errorf("SavingsRate(%v, %v) = %v, want %v", tt.income, tt.spent, got, tt.want)
			}
		})
	}
}

func TestMonthlyTrend(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, 3000, "Salary", core.NewDate(2025, 8, 1)),
		tx(core.Expense, 500, "Rent", core.NewDate(2025, 6, 1)),
	}

	points := MonthlyTrend(txs, 6, august)
	if len(points) != 6 {
		t.Fatalf("len(points) = %d, want 6", len(points))
	}
	wantLabels := []string{"Mar 2025", "Apr 2025", "May 2025", "Jun 2025", "Jul 2025", "Aug 2025"}
	for i, label := range wantLabels {
		if points[i].Month != label {
			t.Errorf("points[%d].Month = %q, want %q", i, points[i].Month, label)
		}
	}
	if points[3].Expenses != 500 {
		t.Errorf("June expenses = %v, want 500", points[3].Expenses)
	}
	if points[5].Income != 3000 {
		t.Errorf("August income = %v, want 3000", points[5].Income)
	}
	if points[0].Income != 0 || points[0].Expenses != 0 {
		t.Errorf("March = %+v, want zeroes", points[0].MonthlySummary)
	}
}

func TestMonthlyTrendYearBoundary(t *testing.T) {
	feb := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	points := MonthlyTrend(nil, 6, feb)
	if points[0].Month != "Sep 2024" || points[5].Month != "Feb 2025" {
		t.Errorf("boundary labels = %q .. %q, want Sep 2024 .. Feb 2025", points[0].Month, points[5].Month)
	}
}

func TestRecentTransactions(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, 1, "a", core.NewDate(2025, 8, 1)),
		tx(core.Expense, 2, "b", core.NewDate(2025, 8, 9)),
		tx(core.Expense, 3, "c", core.NewDate(2025, 8, 5)),
		tx(core.Expense, 4, "d", core.NewDate(2025, 8, 9)),
		tx(core.Expense, 5, "e", core.NewDate(2025, 7, 1)),
		tx(core.Expense, 6, "f", core.NewDate(2025, 8, 30)),
	}

	got := RecentTransactions(txs, 5)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	wantOrder := []string{"f", "b", "d", "c", "a"}
	for i, cat := range wantOrder {
		if got[i].Category != cat {
			t.Errorf("got[%d].Category = %q, want %q", i, got[i].Category, cat)
		}
	}
}

func TestRecentTransactionsDoesNotMutateInput(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, 1, "a", core.NewDate(2025, 8, 1)),
		tx(core.Expense, 2, "b", core.NewDate(2025, 8, 9)),
	}
	RecentTransactions(txs, 1)
	if txs[0].Category != "a" {
		t.Error("input slice was reordered")
	}
}

func TestExpenseBreakdown(t *testing.T) {
	categories := []core.Category{
		{ID: "c1", Name: "Groceries", Color: "#10B981", Type: core.Expense},
	}
	txs := []core.Transaction{
		tx(core.Expense, 100, "Groceries", core.NewDate(2025, 8, 3)),
		tx(core.Expense, 40, "Transport", core.NewDate(2025, 8, 4)),
		tx(core.Expense, 60, "Groceries", core.NewDate(2025, 8, 20)),
		tx(core.Income, 500, "Salary", core.NewDate(2025, 8, 1)),
		tx(core.Expense, 999, "Groceries", core.NewDate(2025, 7, 1)),
	}

	rows := ExpenseBreakdown(txs, categories, august)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Name != "Groceries" || rows[0].Amount != 160 || rows[0].Color != "#10B981" {
		t.Errorf("rows[0] = %+v, want Groceries 160 #10B981", rows[0])
	}
	if rows[1].Name != "Transport" || rows[1].Amount != 40 || rows[1].Color != fallbackColor {
		t.Errorf("rows[1] = %+v, want Transport 40 fallback color", rows[1])
	}
}

func TestIncomeBreakdown(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, 3000, "Salary", core.NewDate(2025, 8, 1)),
		tx(core.Income, 500, "Freelance", core.NewDate(2025, 8, 15)),
		tx(core.Expense, 100, "Groceries", core.NewDate(2025, 8, 2)),
	}

	rows := IncomeBreakdown(txs, nil, august)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Name != "Salary" || rows[0].Amount != 3000 {
		t.Errorf("rows[0] = %+v, want Salary 3000", rows[0])
	}
}
