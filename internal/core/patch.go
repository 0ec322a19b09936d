package core

// Patches carry the optional fields of a partial update. Each Apply
// copies only the fields that are set, so a caller can never smuggle an
// unknown key into a stored record the way an untyped merge would.

type TransactionPatch struct {
	Type        *TransactionType `json:"type,omitempty"`
	Amount      *float64         `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        *Date            `json:"date,omitempty"`
}

func (p TransactionPatch) Apply(tx Transaction) Transaction {
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	return tx
}

type CategoryPatch struct {
	Name  *string          `json:"name,omitempty"`
	Type  *TransactionType `json:"type,omitempty"`
	Color *string          `json:"color,omitempty"`
	Icon  *string          `json:"icon,omitempty"`
}

func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	return c
}

type BudgetPatch struct {
	Category *string       `json:"category,omitempty"`
	Amount   *float64      `json:"amount,omitempty"`
	Period   *BudgetPeriod `json:"period,omitempty"`
	Type     *BudgetType   `json:"type,omitempty"`
}

func (p BudgetPatch) Apply(b Budget) Budget {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.Type != nil {
		b.Type = *p.Type
	}
	return b
}

type SavingsGoalPatch struct {
	Name          *string       `json:"name,omitempty"`
	Description   *string       `json:"description,omitempty"`
	TargetAmount  *float64      `json:"targetAmount,omitempty"`
	CurrentAmount *float64      `json:"currentAmount,omitempty"`
	TargetDate    *Date         `json:"targetDate,omitempty"`
	Priority      *Priority     `json:"priority,omitempty"`
	Category      *GoalCategory `json:"category,omitempty"`
}

func (p SavingsGoalPatch) Apply(g SavingsGoal) SavingsGoal {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.TargetDate != nil {
		g.TargetDate = *p.TargetDate
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	return g
}

type IncomeSourcePatch struct {
	Name      *string    `json:"name,omitempty"`
	Amount    *float64   `json:"amount,omitempty"`
	Frequency *Frequency `json:"frequency,omitempty"`
	Type      *string    `json:"type,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
}

func (p IncomeSourcePatch) Apply(s IncomeSource) IncomeSource {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.Frequency != nil {
		s.Frequency = *p.Frequency
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
	return s
}
