// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/holiman/uint256"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/telosprotocol/topvm/nativeid"
)

var (
	_ Accessor  = (*StagedState)(nil)
	_ UnitState = (*unitState)(nil)
)

// StagedState is an in-memory journaled implementation of Accessor. Every
// mutation appends an undo entry, so RevertToSnapshot restores any earlier
// revision exactly. Hosts embed one per transaction and commit or discard
// it wholesale.
type StagedState struct {
	units   map[nativeid.Account]*unitState
	journal []func()
}

func NewStagedState() *StagedState {
	return &StagedState{
		units: make(map[nativeid.Account]*unitState),
	}
}

func (s *StagedState) LoadAccount(acct nativeid.Account) UnitState {
	return s.loadUnit(acct)
}

func (s *StagedState) loadUnit(acct nativeid.Account) *unitState {
	unit, ok := s.units[acct]
	if !ok {
		unit = &unitState{
			staged:      s,
			balances:    make(map[nativeid.TokenKind]*uint256.Int),
			allowances:  make(map[nativeid.TokenKind]map[nativeid.Account]*uint256.Int),
			owners:      make(map[nativeid.ChainUUID]nativeid.Account),
			controllers: make(map[nativeid.ChainUUID]nativeid.Account),
		}
		s.units[acct] = unit
		s.journal = append(s.journal, func() {
			delete(s.units, acct)
		})
	}
	return unit
}

func (s *StagedState) Transfer(token nativeid.TokenKind, from, to nativeid.Account, amount *uint256.Int) error {
	revision := s.Snapshot()
	if err := s.loadUnit(from).Withdraw(token, amount); err != nil {
		return err
	}
	if err := s.loadUnit(to).Deposit(token, amount); err != nil {
		s.RevertToSnapshot(revision)
		return err
	}
	return nil
}

func (s *StagedState) TransferFrom(token nativeid.TokenKind, owner, spender, recipient nativeid.Account, amount *uint256.Int) error {
	revision := s.Snapshot()
	if err := s.loadUnit(owner).UpdateAllowance(token, spender, amount, AllowanceDecrease); err != nil {
		return err
	}
	if err := s.Transfer(token, owner, recipient, amount); err != nil {
		s.RevertToSnapshot(revision)
		return err
	}
	return nil
}

func (s *StagedState) Snapshot() int {
	return len(s.journal)
}

func (s *StagedState) RevertToSnapshot(revision int) {
	for i := len(s.journal) - 1; i >= revision; i-- {
		s.journal[i]()
	}
	s.journal = s.journal[:revision]
}

// Accounts returns every touched account in sorted order.
func (s *StagedState) Accounts() []nativeid.Account {
	accounts := maps.Keys(s.units)
	slices.Sort(accounts)
	return accounts
}

type unitState struct {
	staged      *StagedState
	balances    map[nativeid.TokenKind]*uint256.Int
	allowances  map[nativeid.TokenKind]map[nativeid.Account]*uint256.Int
	owners      map[nativeid.ChainUUID]nativeid.Account
	controllers map[nativeid.ChainUUID]nativeid.Account
}

func (u *unitState) Balance(token nativeid.TokenKind) *uint256.Int {
	if balance, ok := u.balances[token]; ok {
		return new(uint256.Int).Set(balance)
	}
	return new(uint256.Int)
}

func (u *unitState) setBalance(token nativeid.TokenKind, balance *uint256.Int) {
	prev, had := u.balances[token]
	u.staged.journal = append(u.staged.journal, func() {
		if had {
			u.balances[token] = prev
		} else {
			delete(u.balances, token)
		}
	})
	u.balances[token] = balance
}

func (u *unitState) Deposit(token nativeid.TokenKind, amount *uint256.Int) error {
	balance, overflow := new(uint256.Int).AddOverflow(u.Balance(token), amount)
	if overflow {
		return ErrBalanceOverflow
	}
	u.setBalance(token, balance)
	return nil
}

func (u *unitState) Withdraw(token nativeid.TokenKind, amount *uint256.Int) error {
	balance := u.Balance(token)
	if balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	u.setBalance(token, balance.Sub(balance, amount))
	return nil
}

func (u *unitState) Allowance(token nativeid.TokenKind, spender nativeid.Account) *uint256.Int {
	if allowance, ok := u.allowances[token][spender]; ok {
		return new(uint256.Int).Set(allowance)
	}
	return new(uint256.Int)
}

func (u *unitState) SetAllowance(token nativeid.TokenKind, spender nativeid.Account, amount *uint256.Int) {
	byToken, ok := u.allowances[token]
	if !ok {
		byToken = make(map[nativeid.Account]*uint256.Int)
		u.allowances[token] = byToken
	}
	prev, had := byToken[spender]
	u.staged.journal = append(u.staged.journal, func() {
		if had {
			byToken[spender] = prev
		} else {
			delete(byToken, spender)
		}
	})
	byToken[spender] = new(uint256.Int).Set(amount)
}

func (u *unitState) UpdateAllowance(token nativeid.TokenKind, spender nativeid.Account, amount *uint256.Int, op AllowanceOp) error {
	allowance := u.Allowance(token, spender)
	switch op {
	case AllowanceIncrease:
		updated, overflow := new(uint256.Int).AddOverflow(allowance, amount)
		if overflow {
			return ErrAllowanceOverflow
		}
		u.SetAllowance(token, spender, updated)
	case AllowanceDecrease:
		if allowance.Lt(amount) {
			return ErrInsufficientAllowance
		}
		u.SetAllowance(token, spender, allowance.Sub(allowance, amount))
	}
	return nil
}

func (u *unitState) Owner(chain nativeid.ChainUUID) nativeid.Account {
	return u.owners[chain]
}

func (u *unitState) SetOwner(chain nativeid.ChainUUID, acct nativeid.Account) error {
	prev, had := u.owners[chain]
	u.staged.journal = append(u.staged.journal, func() {
		if had {
			u.owners[chain] = prev
		} else {
			delete(u.owners, chain)
		}
	})
	u.owners[chain] = acct
	return nil
}

func (u *unitState) Controller(chain nativeid.ChainUUID) nativeid.Account {
	return u.controllers[chain]
}

func (u *unitState) SetController(chain nativeid.ChainUUID, acct nativeid.Account) error {
	prev, had := u.controllers[chain]
	u.staged.journal = append(u.staged.journal, func() {
		if had {
			u.controllers[chain] = prev
		} else {
			delete(u.controllers, chain)
		}
	})
	u.controllers[chain] = acct
	return nil
}
