// Package handler contains the HTTP handlers for the ledger API. Each
// handler depends on a narrow service interface satisfied by the engine.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Emmy123222/arbintent/internal/domain"
)

// accountHeader carries the caller identity. The ledger has no session
// concept; the predecessor account is supplied explicitly per request, the
// API key middleware having already authenticated the operator.
const accountHeader = "X-Account-ID"

// writeJSON marshals v and writes it with the given status code. If
// marshaling fails, it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps ledger errors onto HTTP status codes and writes the
// wrapped message as the response body.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientDeposit):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrPreconditionFailed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// callerAccount extracts the caller identity from the request headers. An
// empty result means the request carried no identity.
func callerAccount(r *http.Request) string {
	return r.Header.Get(accountHeader)
}

// pathParam extracts a named path parameter using Go 1.22+ routing.
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}
