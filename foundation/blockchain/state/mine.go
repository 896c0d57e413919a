package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no transactions in the mempool.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// MineNextBlock selects the next batch of transactions from the mempool and
// attempts to add a block with them to the chain. If the block can't be added
// the batch is placed back at the front of the mempool.
func (s *State) MineNextBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNextBlock: MINING: select transactions")

	trans := s.mempool.Select(s.transPerBlock)
	if len(trans) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	block, err := s.AddBlock(ctx, trans)
	if err != nil {
		s.evHandler("state: MineNextBlock: MINING: requeue txs[%d]", len(trans))
		s.mempool.Requeue(trans)
		s.recorder.PoolSize(s.mempool.Count())
		return database.Block{}, err
	}

	s.recorder.PoolSize(s.mempool.Count())

	return block, nil
}
