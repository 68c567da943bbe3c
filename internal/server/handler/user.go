package handler

import (
	"log/slog"
	"math/big"
	"net/http"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// UserService defines the per-account query operations the user handler
// requires from the engine.
type UserService interface {
	UserIntents(account string) []domain.Intent
	ExecutionHistory(account string) []domain.Execution
	TotalProfit(account string) *big.Int
}

// UserHandler serves per-account query endpoints.
type UserHandler struct {
	users  UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// ListIntents returns all intents ever created by the account, including
// executed ones.
// GET /api/users/{account}/intents
func (h *UserHandler) ListIntents(w http.ResponseWriter, r *http.Request) {
	account := pathParam(r, "account")
	intents := h.users.UserIntents(account)
	if intents == nil {
		intents = []domain.Intent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"intents": intents})
}

// ListExecutions returns the account's execution history.
// GET /api/users/{account}/executions
func (h *UserHandler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	account := pathParam(r, "account")
	execs := h.users.ExecutionHistory(account)
	if execs == nil {
		execs = []domain.Execution{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"executions": execs})
}

// GetProfit returns the account's accumulated profit in minor units, as a
// decimal string to avoid JSON number precision loss.
// GET /api/users/{account}/profit
func (h *UserHandler) GetProfit(w http.ResponseWriter, r *http.Request) {
	account := pathParam(r, "account")
	writeJSON(w, http.StatusOK, map[string]string{
		"account": account,
		"profit":  domain.FormatMinorUnits(h.users.TotalProfit(account)),
	})
}
