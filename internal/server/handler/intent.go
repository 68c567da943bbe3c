package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// IntentService defines the operations the intent handler requires from the
// engine.
type IntentService interface {
	CreateIntent(ctx context.Context, caller, tokenPair, minProfitThreshold string, deposit *big.Int) (string, error)
	PauseIntent(ctx context.Context, id, caller string) error
	ResumeIntent(ctx context.Context, id, caller string) error
	ExecuteArbitrage(ctx context.Context, intentID, caller, priceA, priceB string) (domain.SettlementHandle, error)
	Intent(id string) (domain.Intent, error)
}

// IntentHandler serves intent lifecycle endpoints.
type IntentHandler struct {
	intents IntentService
	logger  *slog.Logger
}

// NewIntentHandler creates an IntentHandler.
func NewIntentHandler(intents IntentService, logger *slog.Logger) *IntentHandler {
	return &IntentHandler{intents: intents, logger: logger}
}

// createIntentRequest is the JSON body for intent creation. Deposit is a
// decimal string in minor units; MinProfitThreshold is a decimal string to
// keep server-side parsing authoritative.
type createIntentRequest struct {
	TokenPair          string `json:"token_pair"`
	MinProfitThreshold string `json:"min_profit_threshold"`
	Deposit            string `json:"deposit"`
}

// CreateIntent registers a new arbitrage intent for the calling account.
// POST /api/intents
func (h *IntentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	caller := callerAccount(r)
	if caller == "" {
		writeError(w, http.StatusBadRequest, "missing "+accountHeader+" header")
		return
	}

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	deposit, err := domain.ParseMinorUnits(req.Deposit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deposit: "+err.Error())
		return
	}

	id, err := h.intents.CreateIntent(r.Context(), caller, req.TokenPair, req.MinProfitThreshold, deposit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	intent, err := h.intents.Intent(id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "read back created intent failed",
			slog.String("intent_id", id),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
		return
	}

	writeJSON(w, http.StatusCreated, intent)
}

// GetIntent returns a single intent by id.
// GET /api/intents/{id}
func (h *IntentHandler) GetIntent(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	intent, err := h.intents.Intent(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

// PauseIntent pauses an intent owned by the caller.
// POST /api/intents/{id}/pause
func (h *IntentHandler) PauseIntent(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.intents.PauseIntent)
}

// ResumeIntent resumes an intent owned by the caller.
// POST /api/intents/{id}/resume
func (h *IntentHandler) ResumeIntent(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.intents.ResumeIntent)
}

func (h *IntentHandler) setStatus(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id, caller string) error) {
	caller := callerAccount(r)
	if caller == "" {
		writeError(w, http.StatusBadRequest, "missing "+accountHeader+" header")
		return
	}

	id := pathParam(r, "id")
	if err := op(r.Context(), id, caller); err != nil {
		writeDomainError(w, err)
		return
	}

	intent, err := h.intents.Intent(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

// executeRequest is the JSON body for triggering arbitrage execution. Prices
// are decimal strings mirroring the on-chain calling convention.
type executeRequest struct {
	PriceA string `json:"price_a"`
	PriceB string `json:"price_b"`
}

// ExecuteArbitrage runs the profitability check for an intent and records an
// execution when it passes.
// POST /api/intents/{id}/execute
func (h *IntentHandler) ExecuteArbitrage(w http.ResponseWriter, r *http.Request) {
	caller := callerAccount(r)
	if caller == "" {
		writeError(w, http.StatusBadRequest, "missing "+accountHeader+" header")
		return
	}

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id := pathParam(r, "id")
	handle, err := h.intents.ExecuteArbitrage(r.Context(), id, caller, req.PriceA, req.PriceB)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"settlement_id": handle.ID,
		"status":        "executed",
	})
}
