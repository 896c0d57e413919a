package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrRejected is returned when a transaction isn't admitted to the mempool.
var ErrRejected = errors.New("transaction rejected")

// =============================================================================

// SubmitTransaction accepts a transaction for inclusion in a future block.
// Structural validity is always required. When the signature policy demands
// signatures they are checked here as well, so a batch selected from the
// mempool can't fail on them later.
func (s *State) SubmitTransaction(tx database.Transaction) error {
	if err := s.checkSignature(tx); err != nil {
		s.recorder.TransactionSubmitted(false)
		return fmt.Errorf("%w: %s", ErrRejected, err)
	}

	if !s.mempool.Add(tx) {
		s.recorder.TransactionSubmitted(false)
		return fmt.Errorf("%w: transaction is not valid: %s", ErrRejected, tx)
	}

	count := s.mempool.Count()
	s.recorder.TransactionSubmitted(true)
	s.recorder.PoolSize(count)

	s.evHandler("viewer: tx: added: %s: pool[%d]", tx, count)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// ClearMempool removes every pending transaction.
func (s *State) ClearMempool() {
	s.mempool.Clear()
	s.recorder.PoolSize(0)

	s.evHandler("viewer: tx: mempool cleared")
}
