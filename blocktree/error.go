// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrDuplicateBlock indicates a block with the same hash already
	// exists.
	ErrDuplicateBlock ErrorCode = iota

	// ErrBlockNotFound indicates the block with the requested hash does
	// not exist in the tree.
	ErrBlockNotFound

	// ErrPreviousBlockUnknown indicates that the previous block is not
	// known.
	ErrPreviousBlockUnknown

	// ErrInvalidAncestorBlock indicates that an ancestor of this block has
	// already failed validation. Headers building on such an ancestor are
	// rejected outright and never stored.
	ErrInvalidAncestorBlock

	// ErrForkPriorFinalized indicates a block that forks the chain before
	// the most recent finality point.
	ErrForkPriorFinalized

	// ErrConsensusReject indicates the block failed the externally
	// supplied consensus verdict.
	ErrConsensusReject

	// ErrFinalizeInvalidBlock indicates an attempt to finalize a block
	// whose status is not valid.
	ErrFinalizeInvalidBlock

	// ErrInvalidateGenesis indicates an attempt to invalidate the genesis
	// block.
	ErrInvalidateGenesis
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicateBlock:       "ErrDuplicateBlock",
	ErrBlockNotFound:        "ErrBlockNotFound",
	ErrPreviousBlockUnknown: "ErrPreviousBlockUnknown",
	ErrInvalidAncestorBlock: "ErrInvalidAncestorBlock",
	ErrForkPriorFinalized:   "ErrForkPriorFinalized",
	ErrConsensusReject:      "ErrConsensusReject",
	ErrFinalizeInvalidBlock: "ErrFinalizeInvalidBlock",
	ErrInvalidateGenesis:    "ErrInvalidateGenesis",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block or header failed due to one of the many validation
// rules. The caller can use type assertions to determine if a failure was
// specifically due to a rule violation and access the ErrorCode field to
// ascertain the specific reason for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}
