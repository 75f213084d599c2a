// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"fmt"

	"github.com/ava-labs/libevm/log"

	"github.com/telosprotocol/topvm/ledger"
	"github.com/telosprotocol/topvm/nativeid"
)

// SelectorLen is the length of a method selector on the wire.
const SelectorLen = 4

// RunStatefulPrecompileFunc executes one method. [args] carries the raw
// ABI-encoded parameters, selector already stripped. The static, gas, and
// authorization checks have passed by the time a handler runs; the handler
// still owns parameter decoding and must not touch the ledger before it
// succeeds.
type RunStatefulPrecompileFunc func(lgr ledger.Accessor, ctx CallContext, args []byte) Outcome

// AuthGuard decides whether the caller may run a privileged method. A
// non-nil error turns into Fatal(Other) before any parameter is decoded.
type AuthGuard func(lgr ledger.Accessor, ctx CallContext) error

// StatefulPrecompileFunction binds a selector to its handler together with
// everything the dispatcher needs to meter it: the fixed gas cost,
// static-call eligibility, and an optional authorization guard.
type StatefulPrecompileFunction struct {
	name        string
	selector    []byte
	requiredGas uint64
	mutator     bool
	guard       AuthGuard
	execute     RunStatefulPrecompileFunc
}

// NewViewFunction builds a table entry for a method that never mutates the
// ledger and is therefore allowed in static calls.
func NewViewFunction(name string, selector []byte, requiredGas uint64, execute RunStatefulPrecompileFunc) *StatefulPrecompileFunction {
	return &StatefulPrecompileFunction{
		name:        name,
		selector:    selector,
		requiredGas: requiredGas,
		execute:     execute,
	}
}

// NewMutatorFunction builds a table entry for a state-changing method.
// The handler owns any fixed partial cost it charges on a ledger-level
// revert. [guard] may be nil for unprivileged methods.
func NewMutatorFunction(name string, selector []byte, requiredGas uint64, guard AuthGuard, execute RunStatefulPrecompileFunc) *StatefulPrecompileFunction {
	return &StatefulPrecompileFunction{
		name:        name,
		selector:    selector,
		requiredGas: requiredGas,
		mutator:     true,
		guard:       guard,
		execute:     execute,
	}
}

// Name returns the ABI name of the bound method.
func (f *StatefulPrecompileFunction) Name() string {
	return f.name
}

type statefulPrecompiledContract struct {
	chain     nativeid.ChainUUID
	functions map[string]*StatefulPrecompileFunction
	metrics   *Metrics
}

// Option configures a contract built by NewStatefulPrecompiledContract.
type Option func(*statefulPrecompiledContract)

// WithMetrics attaches per-method call counters to the dispatcher.
func WithMetrics(metrics *Metrics) Option {
	return func(c *statefulPrecompiledContract) {
		c.metrics = metrics
	}
}

// NewStatefulPrecompiledContract assembles a contract from its function
// table. [chain] is the single chain UUID the contract serves; every call
// must carry it as the first input byte.
func NewStatefulPrecompiledContract(chain nativeid.ChainUUID, functions []*StatefulPrecompileFunction, opts ...Option) (StatefulPrecompiledContract, error) {
	c := &statefulPrecompiledContract{
		chain:     chain,
		functions: make(map[string]*StatefulPrecompileFunction, len(functions)),
	}
	for _, function := range functions {
		if len(function.selector) != SelectorLen {
			return nil, fmt.Errorf("method %q has selector of length %d", function.name, len(function.selector))
		}
		key := string(function.selector)
		if _, exists := c.functions[key]; exists {
			return nil, fmt.Errorf("duplicate selector %#x", function.selector)
		}
		c.functions[key] = function
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run parses the wire input, selects the method, and applies the canonical
// check order: static-context eligibility, gas sufficiency, authorization,
// then parameter decode inside the handler. All four must pass before any
// ledger mutation.
func (c *statefulPrecompiledContract) Run(lgr ledger.Accessor, ctx CallContext, input []byte, suppliedGas uint64) Outcome {
	function, outcome := c.dispatch(lgr, ctx, input, suppliedGas)
	c.metrics.observe(function, outcome)
	return outcome
}

func (c *statefulPrecompiledContract) dispatch(lgr ledger.Accessor, ctx CallContext, input []byte, suppliedGas uint64) (*StatefulPrecompileFunction, Outcome) {
	if len(input) == 0 {
		log.Warn("precompiled contract: empty input")
		return nil, FatalOther()
	}
	if chain := nativeid.ChainUUID(input[0]); chain != c.chain {
		log.Warn("precompiled contract: unsupported chain", "chain", chain)
		return nil, FatalNotSupported()
	}
	payload := input[1:]
	if len(payload) < SelectorLen {
		log.Warn("precompiled contract: input too short for a selector")
		return nil, FatalOther()
	}
	function, ok := c.functions[string(payload[:SelectorLen])]
	if !ok {
		log.Warn("precompiled contract: unknown selector", "selector", fmt.Sprintf("%#x", payload[:SelectorLen]))
		return nil, FatalNotSupported()
	}

	if function.mutator && ctx.IsStatic {
		log.Warn("precompiled contract: method not allowed in static context", "method", function.name)
		return function, Reverted(function.requiredGas, ZeroWord())
	}
	if suppliedGas < function.requiredGas {
		log.Warn("precompiled contract: out of gas",
			"method", function.name, "supplied", suppliedGas, "required", function.requiredGas)
		return function, OutOfGas()
	}
	if function.guard != nil {
		if err := function.guard(lgr, ctx); err != nil {
			log.Warn("precompiled contract: unauthorized caller",
				"method", function.name, "caller", ctx.Caller, "err", err)
			return function, FatalOther()
		}
	}
	return function, function.execute(lgr, ctx, payload[SelectorLen:])
}
