// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"errors"
	"fmt"

	"github.com/telosprotocol/topvm/ledger"
	"github.com/telosprotocol/topvm/nativeid"
)

var ErrUnauthorized = errors.New("caller does not hold the required role")

// RoleAccessor reads a role account from the contract's own unit state.
type RoleAccessor func(state ledger.UnitState) nativeid.Account

// RoleGuard builds an AuthGuard comparing the caller's derived native
// account to the role read by [role] from the account the contract itself
// lives on.
func RoleGuard(role RoleAccessor) AuthGuard {
	return func(lgr ledger.Accessor, ctx CallContext) error {
		state := lgr.LoadAccount(nativeid.FromEth(ctx.Address))
		if nativeid.FromEth(ctx.Caller) != role(state) {
			return fmt.Errorf("%w: caller %s", ErrUnauthorized, ctx.Caller)
		}
		return nil
	}
}

// OwnerGuard admits only the stored owner for [chain].
func OwnerGuard(chain nativeid.ChainUUID) AuthGuard {
	return RoleGuard(func(state ledger.UnitState) nativeid.Account {
		return state.Owner(chain)
	})
}

// ControllerGuard admits only the stored controller for [chain].
func ControllerGuard(chain nativeid.ChainUUID) AuthGuard {
	return RoleGuard(func(state ledger.UnitState) nativeid.Account {
		return state.Controller(chain)
	})
}
