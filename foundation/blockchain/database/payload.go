package database

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// errInvalidUTF8 is returned when a payload holds text that can't be
// encoded without loss.
var errInvalidUTF8 = errors.New("payload text is not valid UTF-8")

// Set of payload kinds a block can carry.
const (
	KindGenesis      = "genesis"
	KindTransactions = "transactions"
)

// Payload represents the content of a block. Only the genesis block carries
// a GenesisPayload, every mined block carries a TxPayload.
type Payload interface {
	Kind() string
	Transactions() []Tx

	encode() (any, error)
	clone() Payload
}

// =============================================================================

// GenesisPayload is the fixed text stored in the genesis block.
type GenesisPayload string

// Kind implements the Payload interface.
func (GenesisPayload) Kind() string {
	return KindGenesis
}

// Transactions implements the Payload interface. The genesis block moves
// no value.
func (GenesisPayload) Transactions() []Tx {
	return nil
}

func (p GenesisPayload) encode() (any, error) {
	if !utf8.ValidString(string(p)) {
		return nil, errInvalidUTF8
	}

	enc := struct {
		Kind    string `json:"kind"`
		Genesis string `json:"genesis"`
	}{
		Kind:    KindGenesis,
		Genesis: string(p),
	}

	return enc, nil
}

func (p GenesisPayload) clone() Payload {
	return p
}

// =============================================================================

// TxPayload is the ordered set of transactions committed by a mined block.
type TxPayload []Tx

// Kind implements the Payload interface.
func (TxPayload) Kind() string {
	return KindTransactions
}

// Transactions implements the Payload interface.
func (p TxPayload) Transactions() []Tx {
	return p
}

func (p TxPayload) encode() (any, error) {
	type encodedTx struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Amount string `json:"amount"`
	}

	trans := make([]encodedTx, len(p))
	for i, tx := range p {
		if !utf8.ValidString(string(tx.FromID)) || !utf8.ValidString(string(tx.ToID)) {
			return nil, errInvalidUTF8
		}

		trans[i] = encodedTx{
			From:   string(tx.FromID),
			To:     string(tx.ToID),
			Amount: strconv.FormatUint(tx.Value, 10),
		}
	}

	enc := struct {
		Kind         string      `json:"kind"`
		Transactions []encodedTx `json:"transactions"`
	}{
		Kind:         KindTransactions,
		Transactions: trans,
	}

	return enc, nil
}

func (p TxPayload) clone() Payload {
	trans := make(TxPayload, len(p))
	copy(trans, p)
	return trans
}
