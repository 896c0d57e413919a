package state

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// RetrieveBlocks returns a copy of every block in the chain.
func (s *State) RetrieveBlocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := make([]database.Block, len(s.chain))
	for i, block := range s.chain {
		blocks[i] = block.Clone()
	}

	return blocks
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) ([]database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := uint64(len(s.chain) - 1)
	if from == QueryLatest {
		from = latest
		to = latest
	}
	if to == QueryLatest || to > latest {
		to = latest
	}

	if from > to {
		return nil, fmt.Errorf("invalid block range %d-%d, latest block is %d", from, to, latest)
	}

	out := make([]database.Block, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, s.chain[i].Clone())
	}

	return out, nil
}

// QueryChainLength returns the number of blocks including genesis.
func (s *State) QueryChainLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chain)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// RetrieveMempool returns a copy of the pending transactions in the order
// they will be selected.
func (s *State) RetrieveMempool() []database.Transaction {
	return s.mempool.Copy()
}

// RetrieveDifficulty returns the number of leading zeros required.
func (s *State) RetrieveDifficulty() uint {
	return s.difficulty
}

// RetrieveTransPerBlock returns the maximum number of transactions
// selected for a block.
func (s *State) RetrieveTransPerBlock() int {
	return s.transPerBlock
}

// RetrieveSignaturePolicy returns the configured signature policy.
func (s *State) RetrieveSignaturePolicy() SignaturePolicy {
	return s.signaturePolicy
}

// Mempool returns the mempool associated with the ledger.
func (s *State) Mempool() *mempool.Mempool {
	return s.mempool
}
