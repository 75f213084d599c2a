// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nativeid holds the identifiers shared between the EVM facade and
// the native ledger: chain UUIDs, delegated token kinds, and the native
// account form of an EVM address.
package nativeid

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ava-labs/libevm/common"
)

// ChainUUID tags the external chain a delegated token mirrors. It is the
// first byte of every precompile call.
type ChainUUID byte

const (
	ChainUUIDTop ChainUUID = iota
	ChainUUIDEth
	ChainUUIDBsc
)

func (c ChainUUID) String() string {
	switch c {
	case ChainUUIDTop:
		return "top"
	case ChainUUIDEth:
		return "eth"
	case ChainUUIDBsc:
		return "bsc"
	default:
		return fmt.Sprintf("unknown(%d)", byte(c))
	}
}

// TokenKind selects which delegated token a ledger operation touches.
type TokenKind byte

const (
	TokenTop TokenKind = iota
	TokenUSDT
	TokenUSDC
)

func (t TokenKind) String() string {
	switch t {
	case TokenTop:
		return "top"
	case TokenUSDT:
		return "usdt"
	case TokenUSDC:
		return "usdc"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// evmAccountPrefix is the native address prefix for secp256k1 EVM user
// accounts. The remainder of a native address is the lowercase hex form of
// the 20-byte EVM address.
const evmAccountPrefix = "T80000"

// Account is the native ledger form of an account address.
type Account string

// FromEth derives the native account for an EVM address. The derivation is
// pure: the same EVM address always yields the same native account.
func FromEth(addr common.Address) Account {
	return Account(evmAccountPrefix + hex.EncodeToString(addr.Bytes()))
}

// Eth recovers the EVM address a native account was derived from.
func (a Account) Eth() (common.Address, error) {
	s := string(a)
	if !strings.HasPrefix(s, evmAccountPrefix) {
		return common.Address{}, fmt.Errorf("account %q is not an EVM user account", s)
	}
	body := s[len(evmAccountPrefix):]
	if len(body) != 2*common.AddressLength {
		return common.Address{}, fmt.Errorf("account %q has malformed address body", s)
	}
	raw, err := hex.DecodeString(body)
	if err != nil {
		return common.Address{}, fmt.Errorf("account %q has malformed address body: %w", s, err)
	}
	return common.BytesToAddress(raw), nil
}

func (a Account) String() string {
	return string(a)
}
