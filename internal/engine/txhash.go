package engine

import (
	"crypto/rand"

	"github.com/ethereum/go-ethereum/common"
)

// TxHasher produces the placeholder settlement transaction hash recorded on
// an execution. A real settlement integration would supply this value from
// the collaborator instead.
type TxHasher interface {
	Hash() string
}

// randomTxHasher returns a 32-byte random value rendered as a 0x-prefixed
// hex hash.
type randomTxHasher struct{}

func (randomTxHasher) Hash() string {
	var b [32]byte
	// crypto/rand.Read does not fail on supported platforms.
	_, _ = rand.Read(b[:])
	return common.BytesToHash(b[:]).Hex()
}
