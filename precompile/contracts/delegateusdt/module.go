// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package delegateusdt

import (
	"github.com/ava-labs/libevm/common"

	"github.com/telosprotocol/topvm/precompile/modules"
)

// ContractAddress is the fixed system address the delegated USDT contract
// lives at. Role fields are stored on the native account derived from it.
var ContractAddress = common.HexToAddress("0xff00000000000000000000000000000000000002")

var Module = modules.Module{
	Name:     "delegate_usdt",
	Address:  ContractAddress,
	Contract: DelegateUSDTPrecompile,
}

func init() {
	if err := modules.RegisterModule(Module); err != nil {
		panic(err)
	}
}
