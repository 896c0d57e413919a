// Package mempool maintains the pool of transactions waiting to be mined
// into a block.
package mempool

import (
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/gammazero/deque"
)

// DefaultBatchSize is the number of transactions mined into a block when no
// batch size is configured.
const DefaultBatchSize = 10

// Mempool represents a first in, first out queue of structurally valid
// transactions. Selection order is insertion order.
type Mempool struct {
	mu    sync.RWMutex
	queue deque.Deque[database.Transaction]
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return mp.queue.Len()
}

// Add places the transaction at the back of the pool if it's valid. There is
// no de-duplication. The return value reports if the transaction was admitted.
func (mp *Mempool) Add(tx database.Transaction) bool {
	if !tx.IsValid() {
		return false
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.queue.PushBack(tx)

	return true
}

// Select removes and returns up to max transactions from the front of the
// pool in the order they were added. A max less than one selects nothing.
func (mp *Mempool) Select(max int) []database.Transaction {
	if max < 1 {
		return []database.Transaction{}
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	n := min(max, mp.queue.Len())

	trans := make([]database.Transaction, n)
	for i := range n {
		trans[i] = mp.queue.PopFront()
	}

	return trans
}

// Requeue places the transactions back at the front of the pool keeping
// their relative order. This is used when a selected batch can't be mined.
func (mp *Mempool) Requeue(trans []database.Transaction) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i := len(trans) - 1; i >= 0; i-- {
		mp.queue.PushFront(trans[i])
	}
}

// Clear removes all the transactions from the pool.
func (mp *Mempool) Clear() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.queue.Clear()
}

// Copy returns the pending transactions in selection order without removing
// them.
func (mp *Mempool) Copy() []database.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Transaction, mp.queue.Len())
	for i := range trans {
		trans[i] = mp.queue.At(i)
	}

	return trans
}
