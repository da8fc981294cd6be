// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

import "fmt"

// ErrorCode identifies a specific kind of organizer error.
type ErrorCode int

const (
	// Peer-attributable: recoverable at the caller/peer level.
	ErrDuplicateBlock ErrorCode = iota
	ErrDuplicateHeader
	ErrOrphanBlock
	ErrOrphanHeader
	ErrCheckpointConflict
	ErrBlockUnconfirmable
	ErrValidation

	// Transient / expected.
	ErrServiceStopped

	// Fatal: the organizer enters a terminal faulted state.
	ErrStoreIntegrity
	ErrGetBranchWork
	ErrGetIsStrong
	ErrPopCandidate
	ErrPushCandidate
	ErrNodePush
	ErrInvalidBranchPoint
	ErrInvalidForkPoint
	ErrSetDisassociated
	ErrGetCandidateChainState
)

// Class discriminates the three failure classes an organizer error can
// fall into: peer-attributable, transient, or fatal.
type Class int

const (
	// ClassPeer errors are reported to the caller and do not alter
	// organizer state beyond possibly caching the payload.
	ClassPeer Class = iota
	// ClassTransient errors mean the organizer is closed; the caller
	// should redrop the work.
	ClassTransient
	// ClassFatal errors are store invariant violations; the organizer
	// enters a terminal faulted state.
	ClassFatal
)

var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicateBlock:         "ErrDuplicateBlock",
	ErrDuplicateHeader:        "ErrDuplicateHeader",
	ErrOrphanBlock:            "ErrOrphanBlock",
	ErrOrphanHeader:           "ErrOrphanHeader",
	ErrCheckpointConflict:     "ErrCheckpointConflict",
	ErrBlockUnconfirmable:     "ErrBlockUnconfirmable",
	ErrValidation:             "ErrValidation",
	ErrServiceStopped:         "ErrServiceStopped",
	ErrStoreIntegrity:         "ErrStoreIntegrity",
	ErrGetBranchWork:          "ErrGetBranchWork",
	ErrGetIsStrong:            "ErrGetIsStrong",
	ErrPopCandidate:           "ErrPopCandidate",
	ErrPushCandidate:          "ErrPushCandidate",
	ErrNodePush:               "ErrNodePush",
	ErrInvalidBranchPoint:     "ErrInvalidBranchPoint",
	ErrInvalidForkPoint:       "ErrInvalidForkPoint",
	ErrSetDisassociated:       "ErrSetDisassociated",
	ErrGetCandidateChainState: "ErrGetCandidateChainState",
}

var errorCodeClasses = map[ErrorCode]Class{
	ErrDuplicateBlock:     ClassPeer,
	ErrDuplicateHeader:    ClassPeer,
	ErrOrphanBlock:        ClassPeer,
	ErrOrphanHeader:       ClassPeer,
	ErrCheckpointConflict: ClassPeer,
	ErrBlockUnconfirmable: ClassPeer,
	ErrValidation:         ClassPeer,
	ErrServiceStopped:     ClassTransient,
	// everything else defaults to ClassFatal, see Class() below.
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Class reports which of the three failure classes this code belongs to.
func (e ErrorCode) Class() Class {
	if c, ok := errorCodeClasses[e]; ok {
		return c
	}
	return ClassFatal
}

// Component names the subsystem a fatal code originates from, letting a
// monitoring subscriber attribute a fault without string-matching the
// description.
func (e ErrorCode) Component() string {
	switch e {
	case ErrGetBranchWork:
		return "accumulator"
	case ErrGetIsStrong:
		return "strongness"
	case ErrPopCandidate, ErrPushCandidate, ErrNodePush, ErrInvalidBranchPoint:
		return "reorg"
	case ErrInvalidForkPoint:
		return "disorganize"
	case ErrSetDisassociated:
		return "malleate"
	case ErrGetCandidateChainState:
		return "lookup"
	case ErrStoreIntegrity:
		return "store"
	default:
		return "organizer"
	}
}

// Error identifies an organizer failure. Callers distinguish classes via
// Code.Class() and unwrap to inspect a wrapped store error via errors.As.
type Error struct {
	Code        ErrorCode
	Description string
	Err         error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code.String()
	}
	return e.Description
}

// Unwrap exposes the underlying store/validation error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError constructs an *Error with a formatted description.
func newError(c ErrorCode, err error, format string, args ...interface{}) *Error {
	return &Error{Code: c, Description: fmt.Sprintf(format, args...), Err: err}
}

// NewStoreIntegrityError lets a Store implementation surface a fatal
// integrity violation in the organizer's own error vocabulary, without
// exposing the organizer's internal newError helper.
func NewStoreIntegrityError(description string) error {
	return &Error{Code: ErrStoreIntegrity, Description: description}
}
