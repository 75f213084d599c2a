// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package delegateusdt implements the delegated USDT token as a precompiled
// contract. Balances, allowances, and the owner/controller role pair live in
// the native ledger; this package only dispatches, meters, and translates
// between the ABI wire form and ledger operations.
package delegateusdt

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ava-labs/libevm/common"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"

	_ "embed"

	"github.com/ava-labs/libevm/accounts/abi"

	"github.com/telosprotocol/topvm/ledger"
	"github.com/telosprotocol/topvm/nativeid"
	"github.com/telosprotocol/topvm/precompile/contract"
)

const (
	// Decimals is fixed for every delegated token.
	Decimals = 18

	// Gas costs for each method. The revert costs are the fixed partial
	// amounts charged when the ledger rejects a mutation.
	DecimalsGasCost           uint64 = 0
	TotalSupplyGasCost        uint64 = 2538
	BalanceOfGasCost          uint64 = 3268
	TransferGasCost           uint64 = 18446
	TransferRevertGasCost     uint64 = 3662
	TransferFromGasCost       uint64 = 18190
	TransferFromRevertGasCost uint64 = 4326
	ApproveGasCost            uint64 = 18599
	ApproveRevertGasCost      uint64 = ApproveGasCost / 2
	AllowanceGasCost          uint64 = 3987
	MintGasCost               uint64 = 3155
	BurnFromGasCost           uint64 = 3155
	TransferOwnershipGasCost  uint64 = 3155
	SetControllerGasCost      uint64 = 3155
	OwnerGasCost              uint64 = 0
	ControllerGasCost         uint64 = 0
)

var (
	// ChainTag is the single chain UUID this contract serves; every call
	// carries it as the first input byte.
	ChainTag = nativeid.ChainUUIDEth
	// Token is the ledger token kind all operations are scoped to.
	Token = nativeid.TokenUSDT

	// TotalSupply is the fixed supply reported by totalSupply(), regardless
	// of ledger state.
	TotalSupply = uint256.MustFromDecimal("45257057549529550000000000000")

	ErrInvalidLen = errors.New("invalid input length")

	// DelegateUSDTRawABI contains the raw ABI of the delegated USDT contract.
	//go:embed IDelegateUSDT.abi
	DelegateUSDTRawABI string

	DelegateUSDTABI = contract.ParseABI(DelegateUSDTRawABI)

	// DelegateUSDTPrecompile is the singleton contract instance.
	DelegateUSDTPrecompile contract.StatefulPrecompiledContract = createDelegateUSDTPrecompile()
)

// PackCallInput prepends the chain tag to an ABI-packed method call,
// producing the full wire input the precompile expects.
func PackCallInput(packed []byte) []byte {
	return append([]byte{byte(ChainTag)}, packed...)
}

// unpackInput unpacks [args] (selector already stripped) for [method],
// enforcing the exact word count the method declares.
func unpackInput(method string, args []byte) ([]interface{}, error) {
	inputs := DelegateUSDTABI.Methods[method].Inputs
	if len(args) != len(inputs)*common.HashLength {
		return nil, fmt.Errorf("%w: %s wants %d words", ErrInvalidLen, method, len(inputs))
	}
	return inputs.Unpack(args)
}

// Pack helpers build selector-prefixed call data. Mostly used by tests and
// embedding hosts.

func PackBalanceOf(account common.Address) ([]byte, error) {
	return DelegateUSDTABI.Pack("balanceOf", account)
}

func PackTransfer(recipient common.Address, amount *big.Int) ([]byte, error) {
	return DelegateUSDTABI.Pack("transfer", recipient, amount)
}

func PackTransferFrom(owner, recipient common.Address, amount *big.Int) ([]byte, error) {
	return DelegateUSDTABI.Pack("transferFrom", owner, recipient, amount)
}

func PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	return DelegateUSDTABI.Pack("approve", spender, amount)
}

func PackAllowance(owner, spender common.Address) ([]byte, error) {
	return DelegateUSDTABI.Pack("allowance", owner, spender)
}

func PackMint(recipient common.Address, amount *big.Int) ([]byte, error) {
	return DelegateUSDTABI.Pack("mint", recipient, amount)
}

func PackBurnFrom(account common.Address, amount *big.Int) ([]byte, error) {
	return DelegateUSDTABI.Pack("burnFrom", account, amount)
}

func PackTransferOwnership(newOwner common.Address) ([]byte, error) {
	return DelegateUSDTABI.Pack("transferOwnership", newOwner)
}

func PackSetController(newController common.Address) ([]byte, error) {
	return DelegateUSDTABI.Pack("setController", newController)
}

func PackDecimals() ([]byte, error) {
	return DelegateUSDTABI.Pack("decimals")
}

func PackTotalSupply() ([]byte, error) {
	return DelegateUSDTABI.Pack("totalSupply")
}

func PackOwner() ([]byte, error) {
	return DelegateUSDTABI.Pack("owner")
}

func PackController() ([]byte, error) {
	return DelegateUSDTABI.Pack("controller")
}

func asAddress(arg interface{}) common.Address {
	return *abi.ConvertType(arg, new(common.Address)).(*common.Address)
}

func asAmount(arg interface{}) *uint256.Int {
	return uint256.MustFromBig(*abi.ConvertType(arg, new(*big.Int)).(**big.Int))
}

// ethOrZero maps a possibly-unset native role account to its EVM form.
func ethOrZero(acct nativeid.Account) common.Address {
	addr, err := acct.Eth()
	if err != nil {
		return common.Address{}
	}
	return addr
}

func amountWord(amount *uint256.Int) []byte {
	word := amount.Bytes32()
	return word[:]
}

func addressWord(addr common.Address) []byte {
	return common.BytesToHash(addr.Bytes()).Bytes()
}

func decimals(_ ledger.Accessor, _ contract.CallContext, _ []byte) contract.Outcome {
	return contract.Returned(amountWord(uint256.NewInt(Decimals)))
}

func totalSupply(_ ledger.Accessor, _ contract.CallContext, args []byte) contract.Outcome {
	if len(args) != 0 {
		return contract.FatalOther()
	}
	return contract.Returned(amountWord(TotalSupply))
}

func balanceOf(lgr ledger.Accessor, _ contract.CallContext, args []byte) contract.Outcome {
	unpacked, err := unpackInput("balanceOf", args)
	if err != nil {
		return contract.FatalOther()
	}
	state := lgr.LoadAccount(nativeid.FromEth(asAddress(unpacked[0])))
	return contract.Returned(amountWord(state.Balance(Token)))
}

func transfer(lgr ledger.Accessor, ctx contract.CallContext, args []byte) contract.Outcome {
	unpacked, err := unpackInput("transfer", args)
	if err != nil {
		return contract.FatalOther()
	}
	recipient := asAddress(unpacked[0])
	amount := asAmount(unpacked[1])

	if err := lgr.Transfer(Token, nativeid.FromEth(ctx.Caller), nativeid.FromEth(recipient), amount); err != nil {
		return contract.Reverted(TransferRevertGasCost, contract.ZeroWord())
	}
	return contract.Returned(contract.TrueWord(), transferLog(ctx.Address, ctx.Caller, recipient, amount))
}

func transferFrom(lgr ledger.Accessor, ctx contract.CallContext, args []byte) contract.Outcome {
	unpacked, err := unpackInput("transferFrom", args)
	if err != nil {
		return contract.FatalOther()
	}
	owner := asAddress(unpacked[0])
	recipient := asAddress(unpacked[1])
	amount := asAmount(unpacked[2])

	// the allowance debit and the transfer commit together or not at all
	if err := lgr.TransferFrom(
		Token,
		nativeid.FromEth(owner),
		nativeid.FromEth(ctx.Caller),
		nativeid.FromEth(recipient),
		amount,
	); err != nil {
		return contract.Reverted(TransferFromRevertGasCost, contract.ZeroWord())
	}
	return contract.Returned(contract.TrueWord(), transferLog(ctx.Address, owner, recipient, amount))
}

func approve(lgr ledger.Accessor, ctx contract.CallContext, args []byte) contract.Outcome {
	unpacked, err := unpackInput("approve", args)
	if err != nil {
		return contract.FatalOther()
	}
	spender := asAddress(unpacked[0])
	amount := asAmount(unpacked[1])

	// approvals overwrite, they never add
	state := lgr.LoadAccount(nativeid.FromEth(ctx.Caller))
	state.SetAllowance(Token, nativeid.FromEth(spender), amount)
	return contract.Returned(contract.TrueWord(), approvalLog(ctx.Address, ctx.Caller, spender, amount))
}

func allowance(lgr ledger.Accessor, _ contract.CallContext, args []byte) contract.Outcome {
	unpacked, err := unpackInput("allowance", args)
	if err != nil {
		return contract.FatalOther()
	}
	owner := asAddress(unpacked[0])
	spender := asAddress(unpacked[1])

	state := lgr.LoadAccount(nativeid.FromEth(owner))
	return contract.Returned(amountWord(state.Allowance(Token, nativeid.FromEth(spender))))
}

func mint(lgr ledger.Accessor, ctx contract.CallContext, args []byte) contract.Outcome {
	unpacked, err := unpackInput("mint", args)
	if err != nil {
		return contract.FatalOther()
	}
	recipient := asAddress(unpacked[0])
	amount := asAmount(unpacked[1])

	if err := lgr.LoadAccount(nativeid.FromEth(recipient)).Deposit(Token, amount); err != nil {
		return contract.Reverted(MintGasCost, contract.ZeroWord())
	}
	return contract.Returned(contract.TrueWord(), transferLog(ctx.Address, common.Address{}, recipient, amount))
}

func burnFrom(lgr ledger.Accessor, ctx contract.CallContext, args []byte) contract.Outcome {
	unpacked, err := unpackInput("burnFrom", args)
	if err != nil {
		return contract.FatalOther()
	}
	account := asAddress(unpacked[0])
	amount := asAmount(unpacked[1])

	if err := lgr.LoadAccount(nativeid.FromEth(account)).Withdraw(Token, amount); err != nil {
		return contract.Reverted(BurnFromGasCost, contract.ZeroWord())
	}
	return contract.Returned(contract.TrueWord(), transferLog(ctx.Address, account, common.Address{}, amount))
}

func transferOwnership(lgr ledger.Accessor, ctx contract.CallContext, args []byte) contract.Outcome {
	unpacked, err := unpackInput("transferOwnership", args)
	if err != nil {
		return contract.FatalOther()
	}
	newOwner := asAddress(unpacked[0])

	state := lgr.LoadAccount(nativeid.FromEth(ctx.Address))
	if err := state.SetOwner(ChainTag, nativeid.FromEth(newOwner)); err != nil {
		return contract.Reverted(TransferOwnershipGasCost, contract.ZeroWord())
	}
	return contract.Returned(contract.TrueWord(), ownershipTransferredLog(ctx.Address, ctx.Caller, newOwner))
}

func setController(lgr ledger.Accessor, ctx contract.CallContext, args []byte) contract.Outcome {
	unpacked, err := unpackInput("setController", args)
	if err != nil {
		return contract.FatalOther()
	}
	newController := asAddress(unpacked[0])

	state := lgr.LoadAccount(nativeid.FromEth(ctx.Address))
	previous := ethOrZero(state.Controller(ChainTag))
	if err := state.SetController(ChainTag, nativeid.FromEth(newController)); err != nil {
		return contract.Reverted(SetControllerGasCost, contract.ZeroWord())
	}
	return contract.Returned(contract.TrueWord(), controllerSetLog(ctx.Address, previous, newController))
}

func owner(lgr ledger.Accessor, ctx contract.CallContext, _ []byte) contract.Outcome {
	state := lgr.LoadAccount(nativeid.FromEth(ctx.Address))
	return contract.Returned(addressWord(ethOrZero(state.Owner(ChainTag))))
}

func controller(lgr ledger.Accessor, ctx contract.CallContext, _ []byte) contract.Outcome {
	state := lgr.LoadAccount(nativeid.FromEth(ctx.Address))
	return contract.Returned(addressWord(ethOrZero(state.Controller(ChainTag))))
}

// createDelegateUSDTPrecompile assembles the selector-keyed method table.
func createDelegateUSDTPrecompile(opts ...contract.Option) contract.StatefulPrecompiledContract {
	ownerOnly := contract.OwnerGuard(ChainTag)
	controllerOnly := contract.ControllerGuard(ChainTag)

	functions := []*contract.StatefulPrecompileFunction{
		contract.NewViewFunction("decimals", selector("decimals"), DecimalsGasCost, decimals),
		contract.NewViewFunction("totalSupply", selector("totalSupply"), TotalSupplyGasCost, totalSupply),
		contract.NewViewFunction("balanceOf", selector("balanceOf"), BalanceOfGasCost, balanceOf),
		contract.NewViewFunction("allowance", selector("allowance"), AllowanceGasCost, allowance),
		contract.NewViewFunction("owner", selector("owner"), OwnerGasCost, owner),
		contract.NewViewFunction("controller", selector("controller"), ControllerGasCost, controller),

		contract.NewMutatorFunction("transfer", selector("transfer"), TransferGasCost, nil, transfer),
		contract.NewMutatorFunction("transferFrom", selector("transferFrom"), TransferFromGasCost, nil, transferFrom),
		contract.NewMutatorFunction("approve", selector("approve"), ApproveGasCost, nil, approve),
		contract.NewMutatorFunction("mint", selector("mint"), MintGasCost, controllerOnly, mint),
		contract.NewMutatorFunction("burnFrom", selector("burnFrom"), BurnFromGasCost, controllerOnly, burnFrom),
		contract.NewMutatorFunction("transferOwnership", selector("transferOwnership"), TransferOwnershipGasCost, ownerOnly, transferOwnership),
		contract.NewMutatorFunction("setController", selector("setController"), SetControllerGasCost, ownerOnly, setController),
	}

	statefulContract, err := contract.NewStatefulPrecompiledContract(ChainTag, functions, opts...)
	if err != nil {
		panic(err)
	}
	return statefulContract
}

// NewPrecompileWithMetrics builds a contract instance reporting per-method
// call and revert-cost counters to [reg] under [namespace]. Hosts that
// expose a metrics endpoint register one in place of the plain singleton.
func NewPrecompileWithMetrics(namespace string, reg prometheus.Registerer) (contract.StatefulPrecompiledContract, error) {
	metrics, err := contract.NewMetrics(namespace, reg)
	if err != nil {
		return nil, err
	}
	return createDelegateUSDTPrecompile(contract.WithMetrics(metrics)), nil
}

func selector(method string) []byte {
	abiMethod, ok := DelegateUSDTABI.Methods[method]
	if !ok {
		panic(fmt.Errorf("method %q does not exist in the ABI", method))
	}
	return abiMethod.ID
}
