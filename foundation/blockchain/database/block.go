package database

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"
	"unicode/utf8"
)

// GenesisPrevHash is the sentinel previous hash of the genesis block.
const GenesisPrevHash = "0"

// hashLength is the number of hex characters in a block hash.
const hashLength = 2 * sha256.Size

// =============================================================================

// Block represents a group of transactions batched together. The Hash field
// is a cached value. It is refreshed by the operations in this package but
// is never trusted when the chain is validated.
type Block struct {
	TimeStamp uint64  // Time the block was created in unix milliseconds.
	Payload   Payload // Genesis text or the transactions committed by the block.
	PrevHash  string  // Hash of the previous block in the chain.
	Nonce     uint64  // Value identified to solve the hash solution.
	Hash      string  // Cached hash of the fields above.
}

// NewBlock constructs an unmined block holding the specified transactions
// that links to the specified previous block hash.
func NewBlock(timeStamp time.Time, trans []Tx, prevHash string) Block {
	payload := make(TxPayload, len(trans))
	copy(payload, trans)

	b := Block{
		TimeStamp: uint64(timeStamp.UTC().UnixMilli()),
		Payload:   payload,
		PrevHash:  prevHash,
	}
	b.RecomputeHash()

	return b
}

// NewGenesisBlock constructs the first block of a chain. The genesis block
// is never mined, its hash is the hash at nonce 0.
func NewGenesisBlock(date time.Time, text string) Block {
	b := Block{
		TimeStamp: uint64(date.UTC().UnixMilli()),
		Payload:   GenesisPayload(text),
		PrevHash:  GenesisPrevHash,
	}
	b.RecomputeHash()

	return b
}

// CalculateHash derives the hash of the block from its canonical encoding.
// The cached Hash field is not part of the input.
func (b Block) CalculateHash() string {
	data, err := b.canonicalEncoding()
	if err != nil {

		// An empty hash never satisfies a difficulty check or a link check,
		// so a block holding text that can't be encoded never validates.
		return ""
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// RecomputeHash refreshes the cached hash after the fields it depends on
// have been changed.
func (b *Block) RecomputeHash() {
	b.Hash = b.CalculateHash()
}

// IsGenesis reports whether the block carries the genesis payload.
func (b Block) IsGenesis() bool {
	return b.Payload != nil && b.Payload.Kind() == KindGenesis
}

// Transactions returns the transactions committed by the block.
func (b Block) Transactions() []Tx {
	if b.Payload == nil {
		return nil
	}
	return b.Payload.Transactions()
}

// IsMined reports whether the cached hash solves the puzzle at the
// specified difficulty.
func (b Block) IsMined(difficulty uint) bool {
	return IsHashSolved(difficulty, b.Hash)
}

// clone returns a copy of the block that shares no memory with the original.
func (b Block) clone() Block {
	if b.Payload != nil {
		b.Payload = b.Payload.clone()
	}
	return b
}

// canonicalEncoding produces the bytes that are hashed for the block. Every
// number is written as a decimal string and every field is named, so no two
// distinct blocks can share an encoding. Text must be valid UTF-8 since the
// JSON encoder would otherwise replace invalid bytes, and HTML characters
// are written as is.
func (b Block) canonicalEncoding() ([]byte, error) {
	payload := b.Payload
	if payload == nil {
		payload = TxPayload{}
	}

	encPayload, err := payload.encode()
	if err != nil {
		return nil, err
	}

	if !utf8.ValidString(b.PrevHash) {
		return nil, errInvalidUTF8
	}

	enc := struct {
		TimeStamp string `json:"timestamp"`
		Payload   any    `json:"payload"`
		PrevHash  string `json:"prev_hash"`
		Nonce     string `json:"nonce"`
	}{
		TimeStamp: strconv.FormatUint(b.TimeStamp, 10),
		Payload:   encPayload,
		PrevHash:  b.PrevHash,
		Nonce:     strconv.FormatUint(b.Nonce, 10),
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(enc); err != nil {
		return nil, err
	}

	// Encode terminates the document with a newline.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if len(hash) != hashLength || difficulty > hashLength {
		return false
	}

	for i := range difficulty {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// =============================================================================

// BlockData represents the block as it is presented outside of the node.
// The index is positional and is never stored in the block itself.
type BlockData struct {
	Index        int    `json:"index"`
	Hash         string `json:"hash"`
	PrevHash     string `json:"previous_hash"`
	TimeStamp    uint64 `json:"timestamp"`
	Nonce        uint64 `json:"nonce"`
	Kind         string `json:"kind"`
	Genesis      string `json:"genesis,omitempty"`
	Transactions []Tx   `json:"transactions,omitempty"`
}

// NewBlockData constructs the value to present for the block found at the
// specified index in the chain.
func NewBlockData(index int, block Block) BlockData {
	bd := BlockData{
		Index:     index,
		Hash:      block.Hash,
		PrevHash:  block.PrevHash,
		TimeStamp: block.TimeStamp,
		Nonce:     block.Nonce,
	}

	switch p := block.Payload.(type) {
	case GenesisPayload:
		bd.Kind = KindGenesis
		bd.Genesis = string(p)
	case TxPayload:
		bd.Kind = KindTransactions
		bd.Transactions = append([]Tx(nil), p...)
	default:
		bd.Kind = KindTransactions
	}

	return bd
}
