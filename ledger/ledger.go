// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger defines the staged account state surface consumed by the
// precompiled contracts, plus an in-memory staged implementation.
//
// All amounts are unsigned 256-bit integers. Operations that would drive a
// balance or allowance negative, or past the 256-bit ceiling, fail with a
// typed error and leave the state untouched.
package ledger

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/telosprotocol/topvm/nativeid"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrBalanceOverflow       = errors.New("balance overflow")
	ErrAllowanceOverflow     = errors.New("allowance overflow")
)

// AllowanceOp selects the direction of an allowance adjustment.
type AllowanceOp uint8

const (
	AllowanceIncrease AllowanceOp = iota
	AllowanceDecrease
)

// Accessor is a borrowed handle into staged account state. It is valid only
// for the duration of one precompile call and performs no locking; the host
// serializes access per transaction.
type Accessor interface {
	// LoadAccount returns the unit state for [acct], creating an empty one
	// if the account has never been touched.
	LoadAccount(acct nativeid.Account) UnitState

	// Transfer moves [amount] of [token] from [from] to [to]. Either both
	// the debit and the credit apply, or neither does.
	Transfer(token nativeid.TokenKind, from, to nativeid.Account, amount *uint256.Int) error

	// TransferFrom debits [spender]'s allowance on [owner] by [amount] and
	// moves [amount] of [token] from [owner] to [recipient]. The allowance
	// debit and the transfer commit together or not at all.
	TransferFrom(token nativeid.TokenKind, owner, spender, recipient nativeid.Account, amount *uint256.Int) error

	// Snapshot returns a revision that RevertToSnapshot can restore.
	Snapshot() int
	RevertToSnapshot(revision int)
}

// UnitState is the per-account handle exposed by an Accessor.
type UnitState interface {
	Balance(token nativeid.TokenKind) *uint256.Int
	Deposit(token nativeid.TokenKind, amount *uint256.Int) error
	Withdraw(token nativeid.TokenKind, amount *uint256.Int) error

	Allowance(token nativeid.TokenKind, spender nativeid.Account) *uint256.Int
	// SetAllowance overwrites the allowance for [spender] absolutely.
	SetAllowance(token nativeid.TokenKind, spender nativeid.Account, amount *uint256.Int)
	UpdateAllowance(token nativeid.TokenKind, spender nativeid.Account, amount *uint256.Int, op AllowanceOp) error

	// Role fields, one pair per chain UUID, stored on the contract's own
	// account.
	Owner(chain nativeid.ChainUUID) nativeid.Account
	SetOwner(chain nativeid.ChainUUID, acct nativeid.Account) error
	Controller(chain nativeid.ChainUUID) nativeid.Account
	SetController(chain nativeid.ChainUUID, acct nativeid.Account) error
}
