// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package precompiletest provides the table-driven harness the contract
// packages test themselves with.
package precompiletest

import (
	"testing"

	"github.com/ava-labs/libevm/common"
	"github.com/stretchr/testify/require"

	"github.com/telosprotocol/topvm/ledger"
	"github.com/telosprotocol/topvm/precompile/contract"
	"github.com/telosprotocol/topvm/precompile/modules"
)

// PrecompileTest is a single exercised call against a fresh staged ledger.
type PrecompileTest struct {
	Name string
	// Caller is the EVM address issuing the call.
	Caller common.Address
	// Input is the full wire input. InputFn takes precedence when set.
	Input       []byte
	InputFn     func(t testing.TB) []byte
	SuppliedGas uint64
	IsStatic    bool
	// BeforeHook seeds the ledger before the call.
	BeforeHook func(t testing.TB, state *ledger.StagedState)

	ExpectedKind contract.OutcomeKind
	ExpectedCode contract.ExitCode
	ExpectedCost uint64
	// ExpectedOutput is only asserted when non-nil.
	ExpectedOutput []byte

	// AfterHook inspects ledger state and the raw outcome.
	AfterHook func(t testing.TB, state *ledger.StagedState, outcome contract.Outcome)
}

// Run executes the test against [module]'s contract.
func (test PrecompileTest) Run(t *testing.T, module modules.Module) {
	t.Helper()
	state := ledger.NewStagedState()
	if test.BeforeHook != nil {
		test.BeforeHook(t, state)
	}
	input := test.Input
	if test.InputFn != nil {
		input = test.InputFn(t)
	}
	ctx := contract.CallContext{
		Caller:   test.Caller,
		Address:  module.Address,
		IsStatic: test.IsStatic,
	}

	outcome := module.Contract.Run(state, ctx, input, test.SuppliedGas)

	require.Equal(t, test.ExpectedKind, outcome.Kind, "outcome kind")
	require.Equal(t, test.ExpectedCode, outcome.Code, "exit code")
	require.Equal(t, test.ExpectedCost, outcome.Cost, "outcome cost")
	if test.ExpectedOutput != nil {
		require.Equal(t, test.ExpectedOutput, outcome.Output, "output")
	}
	if !outcome.Success() {
		require.Empty(t, outcome.Logs, "failed calls must not emit logs")
	}
	if test.AfterHook != nil {
		test.AfterHook(t, state, outcome)
	}
}

// RunPrecompileTests executes every test as a subtest.
func RunPrecompileTests(t *testing.T, module modules.Module, tests []PrecompileTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			test.Run(t, module)
		})
	}
}
