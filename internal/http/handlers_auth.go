package http

import (
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/currency"
)

// requireUser resolves the bearer token and hands the user ID to the
// wrapped handler.
func (s *Server) requireUser(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			return
		}
		userID, ok := s.sessions.Resolve(token)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid or expired session"})
			return
		}
		next(w, r, userID)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.identity.Register(r.Context(), req.Email, req.Password, req.Name, req.Currency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// New accounts start with the stock category set.
	if err := s.finance.SeedDefaults(r.Context(), user.ID); err != nil {
		slog.ErrorContext(r.Context(), "Failed seeding default categories",
			"user_id", user.ID,
			"error", err)
	}

	token := s.sessions.Issue(user.ID)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token := s.sessions.Issue(user.ID)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := bearerToken(r); ok {
		s.sessions.Revoke(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := s.identity.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type currencyResponse struct {
	Currency currency.Info `json:"currency"`
}

func (s *Server) handleGetCurrency(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := s.identity.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, currencyResponse{Currency: currency.Lookup(user.Currency)})
}

type updateCurrencyRequest struct {
	Currency string `json:"currency"`
}

func (s *Server) handleUpdateCurrency(w http.ResponseWriter, r *http.Request, userID string) {
	var req updateCurrencyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.identity.UpdateCurrency(r.Context(), userID, req.Currency)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currency.Supported)
}
