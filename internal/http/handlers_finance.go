package http

import (
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, userID string) {
	snap, err := s.finance.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Transactions)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.finance.AddTransaction(r.Context(), userID, tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	var patch core.TransactionPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.finance.UpdateTransaction(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.finance.DeleteTransaction(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, userID string) {
	snap, err := s.finance.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Categories)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request, userID string) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.finance.AddCategory(r.Context(), userID, c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, userID string) {
	var patch core.CategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.finance.UpdateCategory(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.finance.DeleteCategory(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request, userID string) {
	snap, err := s.finance.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Budgets)
}

func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request, userID string) {
	var b core.Budget
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.finance.AddBudget(r.Context(), userID, b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request, userID string) {
	var patch core.BudgetPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.finance.UpdateBudget(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.finance.DeleteBudget(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request, userID string) {
	snap, err := s.finance.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.SavingsGoals)
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request, userID string) {
	var g core.SavingsGoal
	if err := decodeJSON(r, &g); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.finance.AddSavingsGoal(r.Context(), userID, g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request, userID string) {
	var patch core.SavingsGoalPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.finance.UpdateSavingsGoal(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.finance.DeleteSavingsGoal(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	w.WriteHeader(http.StatusNoContent)
}

type contributeRequest struct {
	Amount float64 `json:"amount"`
}

// handleContribute adds to a goal's saved amount. Negative amounts
// withdraw, floored at zero.
func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request, userID string) {
	var req contributeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.finance.ContributeToGoal(r.Context(), userID, r.PathValue("id"), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListIncomeSources(w http.ResponseWriter, r *http.Request, userID string) {
	snap, err := s.finance.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.IncomeSources)
}

func (s *Server) handleAddIncomeSource(w http.ResponseWriter, r *http.Request, userID string) {
	var src core.IncomeSource
	if err := decodeJSON(r, &src); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.finance.AddIncomeSource(r.Context(), userID, src)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateIncomeSource(w http.ResponseWriter, r *http.Request, userID string) {
	var patch core.IncomeSourcePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.finance.UpdateIncomeSource(r.Context(), userID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteIncomeSource(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.finance.DeleteIncomeSource(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateViews(userID)
	w.WriteHeader(http.StatusNoContent)
}
