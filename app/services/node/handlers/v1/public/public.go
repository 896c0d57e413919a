// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/keystore"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	State   *state.State
	KS      *keystore.KeyStore
	NodeKey *ecdsa.PrivateKey
	WS      websocket.Upgrader
	Evts    *events.Events
}

// Chain returns the blocks of the chain. The range of blocks can be limited
// with the from and to parameters.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := blockNumber(web.Param(r, "from"), 0)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	to, err := blockNumber(web.Param(r, "to"), state.QueryLatest)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	blocks, err := h.State.QueryBlocksByNumber(from, to)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	chain := Chain{
		Length:          h.State.QueryChainLength(),
		Difficulty:      h.State.RetrieveDifficulty(),
		TransPerBlock:   h.State.RetrieveTransPerBlock(),
		SignaturePolicy: h.State.RetrieveSignaturePolicy().String(),
		LatestHash:      h.State.LatestBlock().Hash,
		Pending:         h.State.QueryMempoolLength(),
		Blocks:          toBlocks(blocks, h.KS),
	}

	return web.Respond(ctx, w, chain, http.StatusOK)
}

// SubmitTransaction creates a transaction, signs it with the key stored for
// the sender and adds it to the mempool. When no key is stored for the
// sender the node key is used.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	tx, err := database.NewTransaction(ntx.Sender, ntx.Receiver, ntx.Amount)
	if err != nil {
		return errs.FromLedger(err)
	}

	privateKey := h.NodeKey
	if h.KS != nil {
		if pk, err := h.KS.PrivateKey(ntx.Sender); err == nil {
			privateKey = pk
		}
	}

	if privateKey != nil {
		if err := tx.Sign(privateKey); err != nil {
			return fmt.Errorf("signing transaction: %w", err)
		}
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "sender", tx.Sender, "receiver", tx.Receiver, "amount", tx.Amount, "signed", tx.IsSigned())

	if err := h.State.SubmitTransaction(tx); err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, Status{Status: "transaction added to mempool", Hash: tx.Hash}, http.StatusOK)
}

// SubmitSignedTransaction adds a transaction that was signed by the client
// to the mempool.
func (h Handlers) SubmitSignedTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var stx SignedTx
	if err := web.Decode(r, &stx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(stx); err != nil {
		return err
	}

	tx, err := database.NewTransactionAt(stx.Sender, stx.Receiver, stx.Amount, stx.TimeStamp)
	if err != nil {
		return errs.FromLedger(err)
	}

	if stx.Hash != "" && stx.Hash != tx.Hash {
		return errs.NewTrusted(errors.New("hash doesn't match the transaction content"), http.StatusBadRequest)
	}

	tx.Signature, err = signature.FromSignatureString(stx.Signature)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("decoding signature: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("submit signed tran", "traceid", v.TraceID, "sender", tx.Sender, "receiver", tx.Receiver, "amount", tx.Amount, "hash", tx.Hash)

	if err := h.State.SubmitTransaction(tx); err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, Status{Status: "transaction added to mempool", Hash: tx.Hash}, http.StatusOK)
}

// Mempool returns the set of pending transactions in selection order.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.State.RetrieveMempool(), h.KS), http.StatusOK)
}

// ClearMempool removes every pending transaction.
func (h Handlers) ClearMempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.ClearMempool()
	return web.Respond(ctx, w, Status{Status: "mempool cleared"}, http.StatusOK)
}

// MineBlock mines the next batch of pending transactions into a block.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	block, err := h.State.MineNextBlock(ctx)
	if err != nil {
		return errs.FromLedger(err)
	}

	h.Log.Infow("mined block", "traceid", v.TraceID, "number", block.Number, "hash", block.Hash, "nonce", block.Nonce, "since", time.Since(v.Now))

	return web.Respond(ctx, w, toBlock(block, h.KS), http.StatusOK)
}

// ValidateChain reports whether the chain is valid.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	val := Validation{
		Valid:  true,
		Length: h.State.QueryChainLength(),
	}

	if err := h.State.ValidateChain(); err != nil {
		val.Valid = false
		val.Error = err.Error()
	}

	return web.Respond(ctx, w, val, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The connection is hijacked, the status is only used for logging.
	web.SetStatusCode(ctx, http.StatusSwitchingProtocols)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// =============================================================================

func blockNumber(param string, def uint64) (uint64, error) {
	switch param {
	case "":
		return def, nil
	case "latest":
		return state.QueryLatest, nil
	}

	num, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block number %q", param)
	}

	return num, nil
}
