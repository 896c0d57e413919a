// Package pow provides the strategies for searching the nonce space when
// solving the proof of work puzzle for a block.
package pow

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// checkInterval is the number of attempts between checks of the context.
const checkInterval = 1 << 10

// reportInterval is the number of attempts between progress events.
const reportInterval = 1_000_000

// AttemptFunc calculates the hash for the specified nonce and reports whether
// the hash solves the puzzle. It must be safe for concurrent use.
type AttemptFunc func(nonce uint64) (hash string, solved bool)

// Result is the outcome of a successful search.
type Result struct {
	Nonce    uint64
	Hash     string
	Attempts uint64
}

// Strategy represents the behavior required to search the nonce space. A
// search only ends when a solution is found or the context is cancelled.
type Strategy interface {
	Search(ctx context.Context, start uint64, attempt AttemptFunc) (Result, error)
}

// =============================================================================

// Sequential searches the nonce space one nonce at a time starting with the
// start nonce and incrementing by one.
type Sequential struct {
	EvHandler func(v string, args ...any)
}

// Search implements the Strategy interface.
func (s Sequential) Search(ctx context.Context, start uint64, attempt AttemptFunc) (Result, error) {
	var attempts uint64
	for nonce := start; ; nonce++ {
		if attempts%checkInterval == 0 && ctx.Err() != nil {
			s.event("pow: sequential: CANCELLED: attempts[%d]", attempts)
			return Result{}, ctx.Err()
		}

		attempts++
		if attempts%reportInterval == 0 {
			s.event("pow: sequential: attempts[%d]", attempts)
		}

		if hash, solved := attempt(nonce); solved {
			return Result{Nonce: nonce, Hash: hash, Attempts: attempts}, nil
		}
	}
}

func (s Sequential) event(v string, args ...any) {
	if s.EvHandler != nil {
		s.EvHandler(v, args...)
	}
}

// =============================================================================

// Parallel partitions the nonce space across a set of goroutines. Worker i
// tries the nonces start+i, start+i+Workers, start+i+2*Workers and so on. The
// first solution found cancels the remaining workers.
type Parallel struct {
	Workers   int
	EvHandler func(v string, args ...any)
}

// Search implements the Strategy interface.
func (p Parallel) Search(ctx context.Context, start uint64, attempt AttemptFunc) (Result, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	stride := uint64(workers)

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		found    bool
		result   Result
		attempts atomic.Uint64
	)

	g, gctx := errgroup.WithContext(searchCtx)
	for w := range workers {
		offset := uint64(w)

		g.Go(func() error {
			var n uint64
			defer func() { attempts.Add(n) }()

			for nonce := start + offset; ; nonce += stride {
				if n%checkInterval == 0 && gctx.Err() != nil {
					return nil
				}

				n++
				hash, solved := attempt(nonce)
				if !solved {
					continue
				}

				once.Do(func() {
					found = true
					result = Result{Nonce: nonce, Hash: hash}
				})
				cancel()

				return nil
			}
		})
	}

	// The workers never return an error.
	_ = g.Wait()

	total := attempts.Load()
	if !found {
		p.event("pow: parallel: CANCELLED: workers[%d]: attempts[%d]", workers, total)
		return Result{}, ctx.Err()
	}

	result.Attempts = total
	p.event("pow: parallel: SOLVED: workers[%d]: attempts[%d]", workers, total)

	return result, nil
}

func (p Parallel) event(v string, args ...any) {
	if p.EvHandler != nil {
		p.EvHandler(v, args...)
	}
}
