// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package delegateusdt

import (
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/holiman/uint256"
)

// Event IDs (topic0) from the contract ABI.
var (
	TransferEventID             = DelegateUSDTABI.Events["Transfer"].ID
	ApprovalEventID             = DelegateUSDTABI.Events["Approval"].ID
	OwnershipTransferredEventID = DelegateUSDTABI.Events["OwnershipTransferred"].ID
	ControllerSetEventID        = DelegateUSDTABI.Events["ControllerSet"].ID
)

// Every successful mutating method emits exactly one log: topic0 is the
// event signature hash, address topics are left-padded to 32 bytes in
// declared order, and the data payload carries the non-indexed arguments.

func transferLog(contractAddr, from, to common.Address, amount *uint256.Int) *types.Log {
	return &types.Log{
		Address: contractAddr,
		Topics: []common.Hash{
			TransferEventID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: amountWord(amount),
	}
}

func approvalLog(contractAddr, owner, spender common.Address, amount *uint256.Int) *types.Log {
	return &types.Log{
		Address: contractAddr,
		Topics: []common.Hash{
			ApprovalEventID,
			common.BytesToHash(owner.Bytes()),
			common.BytesToHash(spender.Bytes()),
		},
		Data: amountWord(amount),
	}
}

func ownershipTransferredLog(contractAddr, previousOwner, newOwner common.Address) *types.Log {
	return &types.Log{
		Address: contractAddr,
		Topics: []common.Hash{
			OwnershipTransferredEventID,
			common.BytesToHash(previousOwner.Bytes()),
			common.BytesToHash(newOwner.Bytes()),
		},
	}
}

func controllerSetLog(contractAddr, previousController, newController common.Address) *types.Log {
	return &types.Log{
		Address: contractAddr,
		Topics: []common.Hash{
			ControllerSetEventID,
			common.BytesToHash(previousController.Bytes()),
			common.BytesToHash(newController.Bytes()),
		},
	}
}
