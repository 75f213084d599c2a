// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"errors"
	"testing"

	"github.com/ava-labs/libevm/common"
	"github.com/stretchr/testify/require"

	"github.com/telosprotocol/topvm/ledger"
	"github.com/telosprotocol/topvm/nativeid"
)

const testGasCost uint64 = 100

var (
	testChain        = nativeid.ChainUUIDEth
	testContractAddr = common.HexToAddress("0xff00000000000000000000000000000000000099")
	testCallerAddr   = common.HexToAddress("0x2000000000000000000000000000000000000001")

	viewSelector    = CalculateFunctionSelector("peek()")
	mutatorSelector = CalculateFunctionSelector("poke()")
	guardedSelector = CalculateFunctionSelector("guardedPoke()")
)

// buildTestContract assembles a contract with one view method, one open
// mutator, and one mutator behind an always-failing guard. [ran] records
// which handlers actually executed.
func buildTestContract(t *testing.T, ran map[string]bool) StatefulPrecompiledContract {
	record := func(name string) RunStatefulPrecompileFunc {
		return func(ledger.Accessor, CallContext, []byte) Outcome {
			ran[name] = true
			return Returned(TrueWord())
		}
	}
	denyAll := func(ledger.Accessor, CallContext) error {
		return errors.New("denied")
	}

	c, err := NewStatefulPrecompiledContract(testChain, []*StatefulPrecompileFunction{
		NewViewFunction("peek", viewSelector, testGasCost, record("peek")),
		NewMutatorFunction("poke", mutatorSelector, testGasCost, nil, record("poke")),
		NewMutatorFunction("guardedPoke", guardedSelector, testGasCost, denyAll, record("guardedPoke")),
	})
	require.NoError(t, err)
	return c
}

func callInput(selector []byte) []byte {
	return append([]byte{byte(testChain)}, selector...)
}

func runTestContract(t *testing.T, input []byte, suppliedGas uint64, isStatic bool, ran map[string]bool) Outcome {
	c := buildTestContract(t, ran)
	ctx := CallContext{Caller: testCallerAddr, Address: testContractAddr, IsStatic: isStatic}
	return c.Run(ledger.NewStagedState(), ctx, input, suppliedGas)
}

func TestRunRejectsEmptyInput(t *testing.T) {
	outcome := runTestContract(t, nil, testGasCost, false, map[string]bool{})
	require.Equal(t, KindFatal, outcome.Kind)
	require.Equal(t, ExitOther, outcome.Code)
}

func TestRunRejectsForeignChainTag(t *testing.T) {
	input := append([]byte{byte(nativeid.ChainUUIDBsc)}, viewSelector...)
	outcome := runTestContract(t, input, testGasCost, false, map[string]bool{})
	require.Equal(t, KindFatal, outcome.Kind)
	require.Equal(t, ExitNotSupported, outcome.Code)
}

func TestRunRejectsTruncatedSelector(t *testing.T) {
	outcome := runTestContract(t, callInput(viewSelector)[:3], testGasCost, false, map[string]bool{})
	require.Equal(t, KindFatal, outcome.Kind)
	require.Equal(t, ExitOther, outcome.Code)
}

func TestRunRejectsUnknownSelector(t *testing.T) {
	input := callInput(CalculateFunctionSelector("missing()"))
	outcome := runTestContract(t, input, testGasCost, false, map[string]bool{})
	require.Equal(t, KindFatal, outcome.Kind)
	require.Equal(t, ExitNotSupported, outcome.Code)
}

func TestRunDispatchesToHandler(t *testing.T) {
	ran := map[string]bool{}
	outcome := runTestContract(t, callInput(viewSelector), testGasCost, false, ran)
	require.True(t, outcome.Success())
	require.Equal(t, TrueWord(), outcome.Output)
	require.True(t, ran["peek"])
}

func TestStaticCheckPrecedesGasCheck(t *testing.T) {
	// a static call to a mutator reverts with the method's full cost even
	// when the supplied gas could not have covered it
	ran := map[string]bool{}
	outcome := runTestContract(t, callInput(mutatorSelector), 0, true, ran)
	require.Equal(t, KindRevert, outcome.Kind)
	require.Equal(t, ExitReverted, outcome.Code)
	require.Equal(t, testGasCost, outcome.Cost)
	require.Equal(t, ZeroWord(), outcome.Output)
	require.False(t, ran["poke"])
}

func TestViewMethodRunsInStaticContext(t *testing.T) {
	ran := map[string]bool{}
	outcome := runTestContract(t, callInput(viewSelector), testGasCost, true, ran)
	require.True(t, outcome.Success())
	require.True(t, ran["peek"])
}

func TestGasCheckPrecedesAuthorization(t *testing.T) {
	ran := map[string]bool{}
	outcome := runTestContract(t, callInput(guardedSelector), testGasCost-1, false, ran)
	require.Equal(t, KindError, outcome.Kind)
	require.Equal(t, ExitOutOfGas, outcome.Code)
	require.False(t, ran["guardedPoke"])
}

func TestFailedGuardIsFatalBeforeHandler(t *testing.T) {
	ran := map[string]bool{}
	outcome := runTestContract(t, callInput(guardedSelector), testGasCost, false, ran)
	require.Equal(t, KindFatal, outcome.Kind)
	require.Equal(t, ExitOther, outcome.Code)
	require.False(t, ran["guardedPoke"])
}

func TestNewContractRejectsBadSelectors(t *testing.T) {
	noop := func(ledger.Accessor, CallContext, []byte) Outcome { return Returned(nil) }

	_, err := NewStatefulPrecompiledContract(testChain, []*StatefulPrecompileFunction{
		NewViewFunction("short", []byte{0x01}, 0, noop),
	})
	require.ErrorContains(t, err, "selector of length")

	_, err = NewStatefulPrecompiledContract(testChain, []*StatefulPrecompileFunction{
		NewViewFunction("first", viewSelector, 0, noop),
		NewViewFunction("second", viewSelector, 0, noop),
	})
	require.ErrorContains(t, err, "duplicate selector")
}
