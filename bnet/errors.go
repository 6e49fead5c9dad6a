package bnet

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies the abstract error categories of spec §7: IoError,
// FormatError, InvariantError, DomainError. File-format front ends (aiger,
// blif, iscas89, truthio, binio) reuse the same kinds so callers can
// dispatch on a single enumeration regardless of which component failed.
type ErrorKind int

const (
	// KindIoError covers file-not-found / read / write failures.
	KindIoError ErrorKind = iota
	// KindFormatError covers malformed headers, illegal literals,
	// redefinitions, and undefined references.
	KindFormatError
	// KindInvariantError covers I1-I6 violations detected by wrap_up.
	KindInvariantError
	// KindDomainError covers arity mismatches, wrong cell kind, and
	// other caller-precondition violations.
	KindDomainError
)

func (k ErrorKind) String() string {
	switch k {
	case KindIoError:
		return "IoError"
	case KindFormatError:
		return "FormatError"
	case KindInvariantError:
		return "InvariantError"
	case KindDomainError:
		return "DomainError"
	default:
		return "UnknownError"
	}
}

// Error is the error type this package's fallible entry points return
// for failures not covered by one of the sentinels below. Unlike a bare
// sentinel, it can carry the full diagnostic list
// wrap_up collects before aborting (§4.10: "validators run to completion
// to collect the full diagnostic list but do not mutate on error").
type Error struct {
	Kind ErrorKind
	Msgs []string
}

func (e *Error) Error() string {
	if len(e.Msgs) == 0 {
		return e.Kind.String()
	}
	if len(e.Msgs) == 1 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msgs[0])
	}
	return fmt.Sprintf("%s: %d issues: %s", e.Kind, len(e.Msgs), strings.Join(e.Msgs, "; "))
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msgs: []string{fmt.Sprintf(format, args...)}}
}

// Package-level sentinels for the domain errors callers most often need to
// compare against with errors.Is, in the style of cache.go's ErrXxx block.
var (
	// ErrDuplicatePortName is returned by NewPort when the name is
	// already in use (E5).
	ErrDuplicatePortName = errors.New("duplicate port name")

	// ErrArityMismatch is returned by ConnectFanins, ChangePrimitive,
	// and friends when the supplied fanin count does not match the
	// node's declared arity.
	ErrArityMismatch = errors.New("fanin arity mismatch")

	// ErrNotSequentialCell is returned by NewDffCell when the supplied
	// cell is not a true FF/latch cell, or has an inout pin.
	ErrNotSequentialCell = errors.New("cell is not usable as a dff: must be sequential with no inout pins")

	// ErrNotCombinationalCell is returned by NewLogicCell when the
	// supplied cell is sequential, has more than one output, or has a
	// tristate output (E4).
	ErrNotCombinationalCell = errors.New("cell is not usable as logic: must be combinational, single-output, non-tristate")

	// ErrNotSane names the state of a network that has not been wrapped
	// up since its last mutation. No accessor in this package returns
	// it: LogicList, OutputSrcList and PrimaryOutputSrcList run WrapUp
	// themselves in that state.
	ErrNotSane = errors.New("network is not sane: call WrapUp first")
)
