package domain

import "context"

// SignatureRecord is an externally produced authorization signature keyed by
// execution id. The ledger treats it as opaque storage: no binding between
// the record and the referenced execution is checked on write.
type SignatureRecord struct {
	Signature []byte `json:"signature"`
	PublicKey []byte `json:"public_key"`
	ChainID   uint64 `json:"chain_id"`
	Nonce     uint64 `json:"nonce"`
}

// SignatureVerifier decides whether an execution carries a valid cross-chain
// authorization. The bundled implementation is a presence check only; real
// cryptographic verification is an extension point behind this interface.
type SignatureVerifier interface {
	Verify(ctx context.Context, executionID string, rec SignatureRecord, ok bool) bool
}

// PresenceVerifier is the placeholder SignatureVerifier: an execution is
// considered authorized as soon as any signature record is stored for it.
type PresenceVerifier struct{}

// Verify reports whether a record exists for the execution id.
func (PresenceVerifier) Verify(_ context.Context, _ string, _ SignatureRecord, ok bool) bool {
	return ok
}
