package handler

import (
	"log/slog"
	"net/http"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// InfoService provides the ledger summary snapshot.
type InfoService interface {
	Info() domain.ContractInfo
}

// InfoHandler serves the ledger info endpoint.
type InfoHandler struct {
	info   InfoService
	logger *slog.Logger
}

// NewInfoHandler creates an InfoHandler.
func NewInfoHandler(info InfoService, logger *slog.Logger) *InfoHandler {
	return &InfoHandler{info: info, logger: logger}
}

// GetInfo returns the ledger identity and lifetime totals.
// GET /api/info
func (h *InfoHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.info.Info())
}
