package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

const monthLayout = "2006-01"

// parseMonth reads the optional ?month=YYYY-MM parameter, defaulting
// to the current month.
func parseMonth(r *http.Request) (time.Time, error) {
	q := r.URL.Query().Get("month")
	if q == "" {
		return time.Now(), nil
	}
	ref, err := time.Parse(monthLayout, q)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q", errBadQuery, q)
	}
	return ref, nil
}

// cachedView serves a computed view from the TTL cache, building and
// storing it on a miss. Keys carry the user ID as prefix so writes can
// evict everything the user sees in one call.
func (s *Server) cachedView(w http.ResponseWriter, r *http.Request, userID, view string, build func(*storage.Snapshot, time.Time) any) {
	ref, err := parseMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := userID + ":" + view + ":" + ref.Format(monthLayout)
	if data, found := s.views.Get(key); found {
		slog.DebugContext(r.Context(), "View cache hit", "view", view, "key", key)
		writeRawJSON(w, data)
		return
	}

	snap, err := s.finance.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := json.Marshal(build(snap, ref))
	if err != nil {
		writeError(w, r, fmt.Errorf("marshal %s view: %w", view, err))
		return
	}
	s.views.Set(key, data)
	writeRawJSON(w, data)
}

func writeRawJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// invalidateViews drops every cached view for the user. Called after
// each write so dashboards never show stale aggregates.
func (s *Server) invalidateViews(userID string) {
	s.views.DeletePrefix(userID + ":")
}

type dashboardView struct {
	Month            string                     `json:"month"`
	Summary          analytics.MonthlySummary   `json:"summary"`
	IncomeChange     float64                    `json:"incomeChange"`
	ExpenseChange    float64                    `json:"expenseChange"`
	SavingsChange    float64                    `json:"savingsChange"`
	TotalBalance     float64                    `json:"totalBalance"`
	MonthlyIncome    float64                    `json:"monthlyIncome"`
	SavingsRate      float64                    `json:"savingsRate"`
	Trend            []analytics.TrendPoint     `json:"trend"`
	ExpenseBreakdown []analytics.CategoryAmount `json:"expenseBreakdown"`
	IncomeBreakdown  []analytics.CategoryAmount `json:"incomeBreakdown"`
	Recent           []core.Transaction         `json:"recent"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID string) {
	s.cachedView(w, r, userID, "dashboard", func(snap *storage.Snapshot, ref time.Time) any {
		current := analytics.SummarizeMonth(snap.Transactions, ref)
		previous := analytics.SummarizeMonth(snap.Transactions, ref.AddDate(0, -1, 0))
		monthlyIncome := analytics.MonthlyIncomeFromSources(snap.IncomeSources)

		return dashboardView{
			Month:            ref.Format(monthLayout),
			Summary:          current,
			IncomeChange:     analytics.PeriodChange(current.Income, previous.Income),
			ExpenseChange:    analytics.PeriodChange(current.Expenses, previous.Expenses),
			SavingsChange:    analytics.SavingsChange(current.Savings, previous.Savings),
			TotalBalance:     analytics.TotalBalance(snap.Transactions),
			MonthlyIncome:    monthlyIncome,
			SavingsRate:      analytics.SavingsRate(monthlyIncome, current.Expenses),
			Trend:            analytics.MonthlyTrend(snap.Transactions, 6, ref),
			ExpenseBreakdown: analytics.ExpenseBreakdown(snap.Transactions, snap.Categories, ref),
			IncomeBreakdown:  analytics.IncomeBreakdown(snap.Transactions, snap.Categories, ref),
			Recent:           analytics.RecentTransactions(snap.Transactions, 5),
		}
	})
}

type budgetOverviewView struct {
	Month       string                   `json:"month"`
	Overview    analytics.BudgetOverview `json:"overview"`
	SavingsRate float64                  `json:"savingsRate"`
}

func (s *Server) handleBudgetOverview(w http.ResponseWriter, r *http.Request, userID string) {
	s.cachedView(w, r, userID, "budgets", func(snap *storage.Snapshot, ref time.Time) any {
		overview := analytics.BudgetUsage(snap.Budgets, snap.Transactions, ref)
		monthlyIncome := analytics.MonthlyIncomeFromSources(snap.IncomeSources)

		return budgetOverviewView{
			Month:       ref.Format(monthLayout),
			Overview:    overview,
			SavingsRate: analytics.SavingsRate(monthlyIncome, overview.TotalSpent),
		}
	})
}

type progressReportView struct {
	Month         string                          `json:"month"`
	Summary       analytics.MonthlySummary        `json:"summary"`
	SavingsRate   float64                         `json:"savingsRate"`
	IncomeChange  float64                         `json:"incomeChange"`
	ExpenseChange float64                         `json:"expenseChange"`
	SavingsChange float64                         `json:"savingsChange"`
	Budget        analytics.ReportBudget          `json:"budget"`
	Performance   []analytics.CategoryPerformance `json:"performance"`
	Goals         []analytics.GoalProgress        `json:"goals"`
}

func (s *Server) handleProgressReport(w http.ResponseWriter, r *http.Request, userID string) {
	s.cachedView(w, r, userID, "progress", func(snap *storage.Snapshot, ref time.Time) any {
		summary := analytics.SummarizeMonth(snap.Transactions, ref)
		previous := analytics.SummarizeMonth(snap.Transactions, ref.AddDate(0, -1, 0))

		return progressReportView{
			Month:         ref.Format(monthLayout),
			Summary:       summary,
			SavingsRate:   analytics.SavingsRate(summary.Income, summary.Expenses),
			IncomeChange:  analytics.PeriodChange(summary.Income, previous.Income),
			ExpenseChange: analytics.PeriodChange(summary.Expenses, previous.Expenses),
			SavingsChange: analytics.SavingsChange(summary.Savings, previous.Savings),
			Budget:        analytics.ReportBudgetUsage(snap.Budgets, summary.Expenses),
			Performance:   analytics.PerformanceByCategory(snap.Budgets, snap.Transactions, ref),
			Goals:         analytics.ProgressForGoals(snap.SavingsGoals, ref),
		}
	})
}

type savingsView struct {
	Plans    []analytics.GoalPlan     `json:"plans"`
	Progress []analytics.GoalProgress `json:"progress"`
	Totals   analytics.GoalTotals     `json:"totals"`
}

func (s *Server) handleSavingsView(w http.ResponseWriter, r *http.Request, userID string) {
	s.cachedView(w, r, userID, "savings", func(snap *storage.Snapshot, ref time.Time) any {
		return savingsView{
			Plans:    analytics.PlansForGoals(snap.SavingsGoals, ref),
			Progress: analytics.ProgressForGoals(snap.SavingsGoals, ref),
			Totals:   analytics.TotalsForGoals(snap.SavingsGoals),
		}
	})
}
