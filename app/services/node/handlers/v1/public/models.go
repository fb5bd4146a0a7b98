package public

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// newTx is what a client submits to be added to the mempool. Names found in
// the name service are accepted in place of accounts.
type newTx struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Amount uint64 `json:"amount"`
}

type tx struct {
	FromAccount database.AccountID `json:"from"`
	FromName    string             `json:"from_name,omitempty"`
	To          database.AccountID `json:"to"`
	ToName      string             `json:"to_name"`
	Amount      uint64             `json:"amount"`
	Reward      bool               `json:"reward"`
}

type block struct {
	Index        int    `json:"index"`
	Hash         string `json:"hash"`
	PrevHash     string `json:"previous_hash"`
	TimeStamp    uint64 `json:"timestamp"`
	Nonce        uint64 `json:"nonce"`
	Kind         string `json:"kind"`
	Genesis      string `json:"genesis,omitempty"`
	Transactions []tx   `json:"transactions"`
}

type balance struct {
	Account     database.AccountID `json:"account"`
	Name        string             `json:"name"`
	Balance     int64              `json:"balance"`
	WithPending int64              `json:"with_pending"`
}

type mined struct {
	Status  string `json:"status"`
	Block   block  `json:"block"`
	Pending int    `json:"pending"`
}

type validity struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length"`
	Index  int    `json:"index,omitempty"`
	Kind   string `json:"kind,omitempty"`
	Error  string `json:"error,omitempty"`
}
