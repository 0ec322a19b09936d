package analytics

import (
	"math"
	"time"

	"fintrack/internal/core"
)

type GoalStatus string

const (
	GoalCompleted GoalStatus = "completed"
	GoalOverdue   GoalStatus = "overdue"
	GoalUrgent    GoalStatus = "urgent"
	GoalOnTrack   GoalStatus = "on-track"
)

// GoalProgress is the dashboard view of one savings goal.
type GoalProgress struct {
	core.SavingsGoal
	Percent         float64    `json:"percent"`
	Remaining       float64    `json:"remaining"`
	DaysLeft        int        `json:"daysLeft"`
	MonthsLeft      int        `json:"monthsLeft"`
	MonthlyRequired float64    `json:"monthlyRequired"`
	Status          GoalStatus `json:"status"`
}

// GoalPlan is the planning view of the same goal. Its months-left
// figure is a calendar-month difference and can go negative for a past
// deadline, unlike GoalProgress's day-count estimate which floors at
// zero. The two are intentionally distinct and not interchangeable.
type GoalPlan struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	MonthsLeft      int     `json:"monthsLeft"`
	MonthlyRequired float64 `json:"monthlyRequired"`
}

// GoalTotals aggregates all goals regardless of deadline.
type GoalTotals struct {
	Target    float64 `json:"target"`
	Saved     float64 `json:"saved"`
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"`
}

func goalPercent(g core.SavingsGoal) float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return g.CurrentAmount / g.TargetAmount * 100
}

// ProgressForGoal computes the day-count projection for one goal as of
// now. DaysLeft goes negative past the deadline; MonthsLeft floors at
// zero, and once no months remain the monthly requirement is the whole
// outstanding balance.
func ProgressForGoal(g core.SavingsGoal, now time.Time) GoalProgress {
	today := core.DateOf(now)
	daysLeft := int(math.Ceil(g.TargetDate.Sub(today.Time).Hours() / 24))
	monthsLeft := int(math.Ceil(float64(daysLeft) / 30))
	if monthsLeft < 0 {
		monthsLeft = 0
	}
	remaining := g.TargetAmount - g.CurrentAmount
	monthlyRequired := remaining
	if monthsLeft > 0 {
		monthlyRequired = remaining / float64(monthsLeft)
	}
	status := GoalOnTrack
	switch {
	case goalPercent(g) >= 100:
		status = GoalCompleted
	case daysLeft < 0:
		status = GoalOverdue
	case daysLeft < 30:
		status = GoalUrgent
	}
	return GoalProgress{
		SavingsGoal:     g,
		Percent:         goalPercent(g),
		Remaining:       remaining,
		DaysLeft:        daysLeft,
		MonthsLeft:      monthsLeft,
		MonthlyRequired: monthlyRequired,
		Status:          status,
	}
}

// ProgressForGoals applies ProgressForGoal over a goal set.
func ProgressForGoals(goals []core.SavingsGoal, now time.Time) []GoalProgress {
	rows := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, ProgressForGoal(g, now))
	}
	return rows
}

// monthsBetween counts full calendar months elapsed from a to b,
// negative when b precedes a. A month only counts once its day of
// month is reached, so Aug 31 to Sep 1 is zero months.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months > 0 && b.Day() < a.Day() {
		months--
	} else if months < 0 && b.Day() > a.Day() {
		months++
	}
	return months
}

// PlanForGoal computes the calendar-month projection for one goal.
func PlanForGoal(g core.SavingsGoal, now time.Time) GoalPlan {
	monthsLeft := monthsBetween(now, g.TargetDate.Time)
	remaining := g.TargetAmount - g.CurrentAmount
	monthlyRequired := remaining
	if monthsLeft > 0 {
		monthlyRequired = remaining / float64(monthsLeft)
	}
	return GoalPlan{
		ID:              g.ID,
		Name:            g.Name,
		MonthsLeft:      monthsLeft,
		MonthlyRequired: monthlyRequired,
	}
}

// PlansForGoals applies PlanForGoal over a goal set.
func PlansForGoals(goals []core.SavingsGoal, now time.Time) []GoalPlan {
	rows := make([]GoalPlan, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, PlanForGoal(g, now))
	}
	return rows
}

// TotalsForGoals sums targets and balances across every goal.
func TotalsForGoals(goals []core.SavingsGoal) GoalTotals {
	var t GoalTotals
	for _, g := range goals {
		t.Target += g.TargetAmount
		t.Saved += g.CurrentAmount
	}
	if t.Target > 0 {
		t.Percent = t.Saved / t.Target * 100
	}
	t.Remaining = t.Target - t.Saved
	return t
}
