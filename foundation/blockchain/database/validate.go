package database

import (
	"errors"
	"fmt"
)

// FailureKind identifies why a block failed validation.
type FailureKind int

// Set of reasons a block can fail validation.
const (
	ContentMismatch FailureKind = iota + 1 // The block hash does not match its content.
	LinkMismatch                           // The previous hash does not match the previous block.
)

// String implements the fmt.Stringer interface.
func (fk FailureKind) String() string {
	switch fk {
	case ContentMismatch:
		return "content mismatch"
	case LinkMismatch:
		return "link mismatch"
	}
	return "unknown"
}

// ValidationError identifies the first block in a chain that failed
// validation and the reason it failed.
type ValidationError struct {
	Index int
	Kind  FailureKind
	Got   string
	Exp   string
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("block[%d]: %s: got %s, exp %s", ve.Index, ve.Kind, ve.Got, ve.Exp)
}

// IsValidationError checks if an error of type ValidationError exists.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationError returns a copy of the ValidationError pointer.
func GetValidationError(err error) *ValidationError {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return ve
}

// =============================================================================

// ValidateChain re-verifies the chain from index 1 to the tip. Every hash is
// recomputed from the block content and the cached hashes are only used to
// check the links. The genesis block is only checked as the parent of
// block 1.
func ValidateChain(blocks []Block) error {
	for i := 1; i < len(blocks); i++ {
		current := blocks[i]
		previous := blocks[i-1]

		if hash := current.CalculateHash(); current.Hash != hash {
			return &ValidationError{
				Index: i,
				Kind:  ContentMismatch,
				Got:   current.Hash,
				Exp:   hash,
			}
		}

		if current.PrevHash != previous.Hash {
			return &ValidationError{
				Index: i,
				Kind:  LinkMismatch,
				Got:   current.PrevHash,
				Exp:   previous.Hash,
			}
		}
	}

	return nil
}
