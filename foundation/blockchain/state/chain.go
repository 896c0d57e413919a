package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// ErrInvalidBlock is returned when a mined block doesn't pass validation and
// is discarded. Mining always produces a solved hash, so this points to
// transactions that should never have reached the block.
var ErrInvalidBlock = errors.New("mined block is invalid")

// =============================================================================

// LatestBlock returns a copy of the last block in the chain. The genesis block
// is always present.
func (s *State) LatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain[len(s.chain)-1].Clone()
}

// AddBlock constructs the next block from the transactions, mines it at the
// ledger difficulty and appends it if it's valid. Calls are serialized so the
// latest block can't change between reading it and appending.
func (s *State) AddBlock(ctx context.Context, trans []database.Transaction) (database.Block, error) {
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	s.mu.RLock()
	number := uint64(len(s.chain))
	prevBlockHash := s.chain[len(s.chain)-1].Hash
	s.mu.RUnlock()

	s.evHandler("state: AddBlock: MINING: blk[%d]: txs[%d]: difficulty[%d]", number, len(trans), s.difficulty)

	block := database.NewBlock(number, trans, prevBlockHash, uint64(s.clock().UTC().Unix()))

	t := time.Now()
	result, err := block.MineWith(ctx, s.difficulty, s.strategy)
	duration := time.Since(t)

	if err != nil {
		s.recorder.MiningFailed()
		s.evHandler("state: AddBlock: MINING: blk[%d]: ERROR: %s", number, err)
		return database.Block{}, err
	}

	s.evHandler("state: AddBlock: MINING: SOLVED: blk[%d]: hash[%s]: nonce[%d]: attempts[%d]: duration[%v]", number, block.Hash, block.Nonce, result.Attempts, duration)

	if err := block.Validate(); err != nil {
		s.recorder.MiningFailed()
		s.evHandler("state: AddBlock: blk[%d]: WARNING: discarded: %s", number, err)
		return database.Block{}, fmt.Errorf("%w: %s", ErrInvalidBlock, err)
	}

	if err := s.checkSignatures(block); err != nil {
		s.recorder.MiningFailed()
		s.evHandler("state: AddBlock: blk[%d]: WARNING: discarded: %s", number, err)
		return database.Block{}, fmt.Errorf("%w: %s", ErrInvalidBlock, err)
	}

	// The chain keeps its own copy so the block can't be changed once
	// it's been appended.
	s.mu.Lock()
	s.chain = append(s.chain, block.Clone())
	length := len(s.chain)
	s.mu.Unlock()

	s.recorder.BlockMined(number, result.Attempts, duration)
	s.recorder.ChainHeight(length)

	s.evHandler("viewer: block: blk[%d]: hash[%s]: prev[%s]", number, block.Hash, block.PrevBlockHash)

	return block, nil
}

// IsChainValid reports whether every block after genesis is valid and points
// to the block before it.
func (s *State) IsChainValid() bool {
	return s.ValidateChain() == nil
}

// ValidateChain walks the chain from the first block after genesis and
// returns the first problem found. The genesis block is the anchor of the
// walk and is not validated itself.
func (s *State) ValidateChain() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 1; i < len(s.chain); i++ {
		if err := s.chain[i].ValidateLink(s.chain[i-1]); err != nil {
			return err
		}

		if err := s.checkSignatures(s.chain[i]); err != nil {
			return err
		}
	}

	return nil
}

// =============================================================================

// checkSignatures applies the signature policy to every transaction in the
// block.
func (s *State) checkSignatures(block database.Block) error {
	for i, tx := range block.Transactions {
		if err := s.checkSignature(tx); err != nil {
			return fmt.Errorf("block %d transaction %d: %w", block.Number, i, err)
		}
	}

	return nil
}

// checkSignature applies the signature policy to a single transaction.
func (s *State) checkSignature(tx database.Transaction) error {
	switch s.signaturePolicy {
	case SignaturesRequired:
		if _, err := tx.SignerAddress(); err != nil {
			return fmt.Errorf("signature required: %w", err)
		}

	case SignaturesVerified:
		publicKey, exists := s.keyResolver(tx.Sender)
		if !exists {
			return fmt.Errorf("no public key known for sender %q", tx.Sender)
		}

		if !tx.VerifySignature(publicKey) {
			return fmt.Errorf("signature doesn't verify for sender %q", tx.Sender)
		}
	}

	return nil
}
