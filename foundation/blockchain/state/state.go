// Package state is the core API for the ledger and implements all the
// business rules and processing for the chain of blocks and the mempool.
package state

import (
	"crypto/ecdsa"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// Recorder interface represents the behavior required to be implemented by
// any package collecting metrics about the ledger.
type Recorder interface {
	BlockMined(number uint64, attempts uint64, duration time.Duration)
	MiningFailed()
	TransactionSubmitted(admitted bool)
	ChainHeight(length int)
	PoolSize(count int)
}

// KeyResolver returns the public key for the specified sender identifier.
type KeyResolver func(sender string) (*ecdsa.PublicKey, bool)

// SignaturePolicy decides how transaction signatures are treated when a block
// is appended and when the chain is validated. Block validity itself never
// depends on signatures.
type SignaturePolicy int

// Set of signature policies.
const (
	// SignaturesIgnored only checks transactions are structurally valid.
	SignaturesIgnored SignaturePolicy = iota

	// SignaturesRequired requires every transaction to carry a signature
	// that a public key can be recovered from.
	SignaturesRequired

	// SignaturesVerified requires every transaction to carry a signature
	// that verifies against the key resolved for its sender.
	SignaturesVerified
)

// String implements the fmt.Stringer interface.
func (sp SignaturePolicy) String() string {
	switch sp {
	case SignaturesIgnored:
		return "ignored"
	case SignaturesRequired:
		return "required"
	case SignaturesVerified:
		return "verified"
	}
	return fmt.Sprintf("policy(%d)", int(sp))
}

// ParseSignaturePolicy converts the string form of a policy back into its
// value.
func ParseSignaturePolicy(s string) (SignaturePolicy, error) {
	switch s {
	case "", "ignored":
		return SignaturesIgnored, nil
	case "required":
		return SignaturesRequired, nil
	case "verified":
		return SignaturesVerified, nil
	}
	return 0, fmt.Errorf("unknown signature policy %q", s)
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	Difficulty      uint
	TransPerBlock   int
	Strategy        pow.Strategy
	SignaturePolicy SignaturePolicy
	KeyResolver     KeyResolver
	Clock           func() time.Time
	Recorder        Recorder
	EvHandler       EventHandler
}

// State manages the chain of blocks and the mempool. All appends to the chain
// are serialized, reads never wait on a mining operation.
type State struct {
	difficulty      uint
	transPerBlock   int
	strategy        pow.Strategy
	signaturePolicy SignaturePolicy
	keyResolver     KeyResolver
	clock           func() time.Time
	recorder        Recorder
	evHandler       EventHandler

	appendMu sync.Mutex
	mu       sync.RWMutex
	chain    []database.Block

	mempool *mempool.Mempool

	Worker Worker
}

// New constructs the ledger with the genesis block and an empty mempool.
func New(cfg Config) (*State, error) {
	if cfg.Difficulty > database.MaxDifficulty {
		return nil, fmt.Errorf("%w: difficulty %d is larger than %d", database.ErrInvalidArgument, cfg.Difficulty, database.MaxDifficulty)
	}

	if cfg.SignaturePolicy == SignaturesVerified && cfg.KeyResolver == nil {
		return nil, fmt.Errorf("%w: the verified signature policy requires a key resolver", database.ErrInvalidArgument)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	strategy := cfg.Strategy
	if strategy == nil {
		strategy = pow.Sequential{EvHandler: ev}
	}

	transPerBlock := cfg.TransPerBlock
	if transPerBlock < 1 {
		transPerBlock = mempool.DefaultBatchSize
	}

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	// The genesis block is accepted as is, it's never mined.
	genesis := database.NewBlock(0, nil, signature.ZeroHash, uint64(clock().UTC().Unix()))

	state := State{
		difficulty:      cfg.Difficulty,
		transPerBlock:   transPerBlock,
		strategy:        strategy,
		signaturePolicy: cfg.SignaturePolicy,
		keyResolver:     cfg.KeyResolver,
		clock:           clock,
		recorder:        recorder,
		evHandler:       ev,
		chain:           []database.Block{genesis},
		mempool:         mempool.New(),
	}

	state.recorder.ChainHeight(1)

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all background mining activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}
}

// =============================================================================

// nopRecorder is used when no metrics are being collected.
type nopRecorder struct{}

func (nopRecorder) BlockMined(uint64, uint64, time.Duration) {}
func (nopRecorder) MiningFailed()                            {}
func (nopRecorder) TransactionSubmitted(bool)                {}
func (nopRecorder) ChainHeight(int)                          {}
func (nopRecorder) PoolSize(int)                             {}
