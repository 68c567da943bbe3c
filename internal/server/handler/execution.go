package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// ExecutionService defines the operations the execution handler requires
// from the engine.
type ExecutionService interface {
	Execution(id string) (domain.Execution, error)
	StoreSignature(ctx context.Context, executionID string, rec domain.SignatureRecord)
	VerifySignature(ctx context.Context, executionID string) bool
	Signature(executionID string) (domain.SignatureRecord, bool)
}

// ExecutionHandler serves execution record and cross-chain signature
// endpoints.
type ExecutionHandler struct {
	executions ExecutionService
	logger     *slog.Logger
}

// NewExecutionHandler creates an ExecutionHandler.
func NewExecutionHandler(executions ExecutionService, logger *slog.Logger) *ExecutionHandler {
	return &ExecutionHandler{executions: executions, logger: logger}
}

// GetExecution returns a single execution record by id.
// GET /api/executions/{id}
func (h *ExecutionHandler) GetExecution(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	exec, err := h.executions.Execution(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}

// storeSignatureRequest carries a signature record. Byte fields are 0x-hex
// encoded on the wire.
type storeSignatureRequest struct {
	Signature hexutil.Bytes `json:"signature"`
	PublicKey hexutil.Bytes `json:"public_key"`
	ChainID   uint64        `json:"chain_id"`
	Nonce     uint64        `json:"nonce"`
}

// signatureResponse mirrors storeSignatureRequest for reads.
type signatureResponse struct {
	Signature hexutil.Bytes `json:"signature"`
	PublicKey hexutil.Bytes `json:"public_key"`
	ChainID   uint64        `json:"chain_id"`
	Nonce     uint64        `json:"nonce"`
}

// StoreSignature stores (or overwrites) the cross-chain signature for an
// execution id. The id is not required to reference a recorded execution.
// POST /api/executions/{id}/signature
func (h *ExecutionHandler) StoreSignature(w http.ResponseWriter, r *http.Request) {
	var req storeSignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Signature) == 0 {
		writeError(w, http.StatusBadRequest, "signature is required")
		return
	}

	id := pathParam(r, "id")
	h.executions.StoreSignature(r.Context(), id, domain.SignatureRecord{
		Signature: req.Signature,
		PublicKey: req.PublicKey,
		ChainID:   req.ChainID,
		Nonce:     req.Nonce,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

// GetSignature returns the stored signature record for an execution id.
// GET /api/executions/{id}/signature
func (h *ExecutionHandler) GetSignature(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	rec, ok := h.executions.Signature(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no signature stored for execution "+id)
		return
	}
	writeJSON(w, http.StatusOK, signatureResponse{
		Signature: rec.Signature,
		PublicKey: rec.PublicKey,
		ChainID:   rec.ChainID,
		Nonce:     rec.Nonce,
	})
}

// VerifySignature reports whether the execution id carries a valid signature.
// GET /api/executions/{id}/signature/verify
func (h *ExecutionHandler) VerifySignature(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	writeJSON(w, http.StatusOK, map[string]bool{
		"verified": h.executions.VerifySignature(r.Context(), id),
	})
}
