package database

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// MaxValue is the largest amount a single transaction can move. Balances are
// derived in signed 64 bit arithmetic.
const MaxValue = math.MaxInt64

// ErrInvalidTx is returned when a transaction can't be accepted into the
// mempool.
var ErrInvalidTx = errors.New("invalid transaction")

// Tx is the transactional information between two parties.
type Tx struct {
	FromID AccountID `json:"from"`   // Account sending the value. Empty for a mining reward.
	ToID   AccountID `json:"to"`     // Account receiving the value.
	Value  uint64    `json:"amount"` // Amount of value moved by this transaction.
}

// NewTx constructs a new transaction between two accounts.
func NewTx(fromID AccountID, toID AccountID, value uint64) Tx {
	return Tx{
		FromID: fromID,
		ToID:   toID,
		Value:  value,
	}
}

// NewRewardTx constructs the transaction that issues a mining reward
// to the specified account.
func NewRewardTx(toID AccountID, reward uint64) Tx {
	return Tx{
		FromID: RewardIssuer,
		ToID:   toID,
		Value:  reward,
	}
}

// Validate checks the transaction can be committed to a block. Account ids
// must be valid UTF-8 since the hash encoding can't tell invalid sequences
// apart. The amount can't exceed MaxValue.
func (tx Tx) Validate() error {
	if !utf8.ValidString(string(tx.FromID)) {
		return fmt.Errorf("%w: from account is not valid UTF-8", ErrInvalidTx)
	}

	if !utf8.ValidString(string(tx.ToID)) {
		return fmt.Errorf("%w: to account is not valid UTF-8", ErrInvalidTx)
	}

	if tx.ToID == "" {
		return fmt.Errorf("%w: to account is empty", ErrInvalidTx)
	}

	if tx.Value > MaxValue {
		return fmt.Errorf("%w: amount %d exceeds max amount %d", ErrInvalidTx, tx.Value, uint64(MaxValue))
	}

	return nil
}

// IsReward reports whether the transaction issues new value rather than
// moving it between accounts.
func (tx Tx) IsReward() bool {
	return tx.FromID == RewardIssuer
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	from := string(tx.FromID)
	if tx.IsReward() {
		from = "reward"
	}

	return fmt.Sprintf("%s->%s:%d", from, tx.ToID, tx.Value)
}
