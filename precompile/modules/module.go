// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package modules keeps the address-keyed registry of precompiled
// contracts a host EVM consults when resolving a call target.
package modules

import (
	"bytes"
	"fmt"

	"github.com/ava-labs/libevm/common"
	"golang.org/x/exp/slices"

	"github.com/telosprotocol/topvm/precompile/contract"
)

// Module pairs a precompiled contract with the fixed address it lives at.
type Module struct {
	// Name is a human-readable identifier, used in logs and metrics only.
	Name string
	// Address is the contract's fixed system address.
	Address  common.Address
	Contract contract.StatefulPrecompiledContract
}

// registeredModules is sorted by address so iteration order is
// deterministic across nodes.
var registeredModules []Module

// RegisterModule adds [module] to the registry. Called from contract
// package init functions; duplicate names or addresses are a programming
// error.
func RegisterModule(module Module) error {
	for _, registered := range registeredModules {
		if registered.Address == module.Address {
			return fmt.Errorf("module already registered at address %s", module.Address)
		}
		if registered.Name == module.Name {
			return fmt.Errorf("module %q already registered", module.Name)
		}
	}
	registeredModules = append(registeredModules, module)
	slices.SortFunc(registeredModules, func(a, b Module) int {
		return bytes.Compare(a.Address[:], b.Address[:])
	})
	return nil
}

// GetPrecompileModuleByAddress returns the module registered at [address].
func GetPrecompileModuleByAddress(address common.Address) (Module, bool) {
	for _, module := range registeredModules {
		if module.Address == address {
			return module, true
		}
	}
	return Module{}, false
}

// RegisteredModules returns the registered modules in address order.
func RegisteredModules() []Module {
	return slices.Clone(registeredModules)
}
