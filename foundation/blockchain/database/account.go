package database

import (
	"crypto/ecdsa"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/crypto"
)

// AccountID represents an identifier that can send and receive value on the
// ledger. Any non-empty UTF-8 string is accepted. The empty value is reserved for
// the issuer of mining rewards.
type AccountID string

// RewardIssuer is the from account of a mining reward. Coins issued from
// this account are created, not transferred.
const RewardIssuer AccountID = ""

// ToAccountID converts a string to an account and validates it can be used
// as the sender or receiver of a transaction.
func ToAccountID(s string) (AccountID, error) {
	a := AccountID(strings.TrimSpace(s))
	if a == RewardIssuer {
		return "", errors.New("invalid account, empty identifier")
	}

	if !utf8.ValidString(string(a)) {
		return "", errors.New("invalid account, not valid UTF-8")
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key to an account value. This is
// how named key files in the accounts folder become ledger identities.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(crypto.PubkeyToAddress(pk).String())
}

// IsAddress verifies whether the account is a hex-encoded address derived
// from a public key.
func (a AccountID) IsAddress() bool {
	const addressLength = 20

	if !has0xPrefix(a) {
		return false
	}
	a = a[2:]

	return len(a) == 2*addressLength && isHex(a)
}

// =============================================================================

// has0xPrefix validates the account starts with a 0x.
func has0xPrefix(a AccountID) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is valid hexadecimal string.
func isHex(a AccountID) bool {
	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
