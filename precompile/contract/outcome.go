// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"github.com/ava-labs/libevm/core/types"
)

// OutcomeKind is the top-level result class of a precompile call.
type OutcomeKind uint8

const (
	// KindSuccess: the call ran to completion; output and logs are valid.
	KindSuccess OutcomeKind = iota
	// KindError: resource exhaustion; nothing was charged or mutated.
	KindError
	// KindRevert: an expected business failure; a fixed partial cost is
	// charged and the output buffer is visible to the caller.
	KindRevert
	// KindFatal: protocol-level misuse; nothing was charged or mutated.
	KindFatal
)

func (k OutcomeKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindRevert:
		return "revert"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ExitCode refines an OutcomeKind.
type ExitCode uint8

const (
	ExitReturned ExitCode = iota
	ExitOutOfGas
	ExitReverted
	ExitOther
	ExitNotSupported
)

func (c ExitCode) String() string {
	switch c {
	case ExitReturned:
		return "returned"
	case ExitOutOfGas:
		return "out_of_gas"
	case ExitReverted:
		return "reverted"
	case ExitOther:
		return "other"
	case ExitNotSupported:
		return "not_supported"
	default:
		return "unknown"
	}
}

// Outcome is the single result of a precompile invocation. It is built by
// the dispatcher and handlers, consumed immediately by the host, and never
// retained.
type Outcome struct {
	Kind   OutcomeKind
	Code   ExitCode
	Cost   uint64
	Output []byte
	Logs   []*types.Log
}

// Returned builds the success outcome. The host meters the fixed method
// cost itself, so the reported cost is zero.
func Returned(output []byte, logs ...*types.Log) Outcome {
	return Outcome{
		Kind:   KindSuccess,
		Code:   ExitReturned,
		Output: output,
		Logs:   logs,
	}
}

// OutOfGas builds the gas-exhaustion outcome.
func OutOfGas() Outcome {
	return Outcome{
		Kind: KindError,
		Code: ExitOutOfGas,
	}
}

// Reverted builds a business-failure outcome carrying a fixed partial cost
// and an inspectable output buffer.
func Reverted(cost uint64, output []byte) Outcome {
	return Outcome{
		Kind:   KindRevert,
		Code:   ExitReverted,
		Cost:   cost,
		Output: output,
	}
}

// FatalOther builds the malformed-input / unauthorized-caller outcome.
func FatalOther() Outcome {
	return Outcome{
		Kind: KindFatal,
		Code: ExitOther,
	}
}

// FatalNotSupported builds the unsupported-chain / unknown-selector outcome.
func FatalNotSupported() Outcome {
	return Outcome{
		Kind: KindFatal,
		Code: ExitNotSupported,
	}
}

// Success reports whether the call completed.
func (o Outcome) Success() bool {
	return o.Kind == KindSuccess
}
