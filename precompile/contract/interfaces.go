// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contract defines the interface and dispatch machinery for the
// system's precompiled contracts: the call context supplied by the host
// EVM, the four-class outcome taxonomy, and the selector-keyed function
// table each contract is assembled from.
package contract

import (
	"github.com/ava-labs/libevm/common"

	"github.com/telosprotocol/topvm/ledger"
)

// CallContext describes one EVM call into a precompile. It is supplied by
// the host and read-only.
type CallContext struct {
	// Caller is the EVM address that issued the call instruction.
	Caller common.Address
	// Address is the precompiled contract's own address. Role fields live
	// on the account derived from it.
	Address common.Address
	// IsStatic is set when the call runs under STATICCALL semantics.
	IsStatic bool
}

// StatefulPrecompiledContract executes one precompile call against staged
// ledger state. Implementations are pure dispatch: all state access goes
// through [lgr], which the host owns and the contract only borrows for the
// duration of the call. Every invocation terminates with exactly one
// Outcome.
type StatefulPrecompiledContract interface {
	Run(lgr ledger.Accessor, ctx CallContext, input []byte, suppliedGas uint64) Outcome
}
