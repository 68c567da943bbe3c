package ledger

import "github.com/Emmy123222/arbintent/internal/domain"

// SignatureStore holds opaque cross-chain authorization records keyed by
// execution id. Writes unconditionally overwrite; there is no check that the
// execution id references a real execution and no conflict resolution.
type SignatureStore struct {
	records map[string]domain.SignatureRecord
}

// NewSignatureStore returns an empty store.
func NewSignatureStore() *SignatureStore {
	return &SignatureStore{records: make(map[string]domain.SignatureRecord)}
}

// Put stores rec under executionID, replacing any existing record.
func (s *SignatureStore) Put(executionID string, rec domain.SignatureRecord) {
	s.records[executionID] = rec
}

// Get returns the record for executionID and whether one exists.
func (s *SignatureStore) Get(executionID string) (domain.SignatureRecord, bool) {
	rec, ok := s.records[executionID]
	return rec, ok
}
