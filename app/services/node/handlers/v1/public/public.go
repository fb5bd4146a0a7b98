// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log     *zap.SugaredLogger
	State   *state.State
	NS      *nameservice.NameService
	MinerID database.AccountID
	WS      websocket.Upgrader
	Evts    *events.Events
}

// Events handles a web socket to provide mining events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

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
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool. The transaction
// is not authenticated.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	fromID, err := database.ToAccountID(string(h.NS.Resolve(ntx.From)))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("from: %w", err), http.StatusBadRequest)
	}

	toID, err := database.ToAccountID(string(h.NS.Resolve(ntx.To)))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("to: %w", err), http.StatusBadRequest)
	}

	dbTx := database.NewTx(fromID, toID, ntx.Amount)

	h.Log.Infow("submit tran", "traceid", web.GetTraceID(ctx), "tx", dbTx)
	pending, err := h.State.SubmitTransaction(dbTx)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status  string `json:"status"`
		Pending int    `json:"pending"`
	}{
		Status:  "transaction added to mempool",
		Pending: pending,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mempool := h.State.RetrieveMempool()

	trans := make([]tx, len(mempool))
	for i, tran := range mempool {
		trans[i] = h.toTx(tran)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Mine packages the mempool into a new block for the specified account, or
// the node's miner account when none is provided. The call blocks until the
// proof of work is solved or the client goes away.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	rewardID := h.MinerID
	if acct := web.Param(r, "account"); acct != "" {
		rewardID = h.NS.Resolve(acct)
	}

	blk, err := h.State.MinePendingTransactions(ctx, rewardID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return errs.NewTrusted(err, http.StatusRequestTimeout)
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := mined{
		Status:  "block mined",
		Block:   h.toBlock(blk),
		Pending: h.State.QueryMempoolLength(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balance returns the balance of the specified account derived from the
// chain, with and without the pending transactions applied.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	accountID, err := database.ToAccountID(string(h.NS.Resolve(web.Param(r, "account"))))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	bal := balance{
		Account:     accountID,
		Name:        h.NS.Lookup(accountID),
		Balance:     h.State.QueryBalance(accountID),
		WithPending: h.State.QueryBalanceWithPending(accountID),
	}

	return web.Respond(ctx, w, bal, http.StatusOK)
}

// BlocksByAccount returns the blocks holding transactions for the account,
// or every block when no account is provided.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accountID database.AccountID
	if acct := web.Param(r, "account"); acct != "" {
		accountID = h.NS.Resolve(acct)
	}

	dbBlocks := h.State.QueryBlocksByAccount(accountID)
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = h.toBlock(blk)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Validate re-verifies the chain and reports the first failure found.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v := validity{
		Valid:  true,
		Length: h.State.RetrieveChainLength(),
	}

	if err := h.State.Validate(); err != nil {
		v.Valid = false
		v.Error = err.Error()

		if ve := database.GetValidationError(err); ve != nil {
			v.Index = ve.Index
			v.Kind = ve.Kind.String()
		}
	}

	return web.Respond(ctx, w, v, http.StatusOK)
}

// =============================================================================

func (h Handlers) toTx(tran database.Tx) tx {
	t := tx{
		FromAccount: tran.FromID,
		To:          tran.ToID,
		ToName:      h.NS.Lookup(tran.ToID),
		Amount:      tran.Value,
		Reward:      tran.IsReward(),
	}

	if !tran.IsReward() {
		t.FromName = h.NS.Lookup(tran.FromID)
	}

	return t
}

func (h Handlers) toBlock(bd database.BlockData) block {
	trans := make([]tx, len(bd.Transactions))
	for i, tran := range bd.Transactions {
		trans[i] = h.toTx(tran)
	}

	return block{
		Index:        bd.Index,
		Hash:         bd.Hash,
		PrevHash:     bd.PrevHash,
		TimeStamp:    bd.TimeStamp,
		Nonce:        bd.Nonce,
		Kind:         bd.Kind,
		Genesis:      bd.Genesis,
		Transactions: trans,
	}
}
