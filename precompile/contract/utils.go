// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/crypto"
)

var functionSignatureRegex = regexp.MustCompile(`\w+\((\w*|(\w+,)+\w+)\)`)

// CalculateFunctionSelector returns the 4 byte function selector that results from [functionSignature]
// Ex. the function transfer(addr address, amount uint256) should be passed in as the string:
// "transfer(address,uint256)"
func CalculateFunctionSelector(functionSignature string) []byte {
	if !functionSignatureRegex.MatchString(functionSignature) {
		panic(fmt.Errorf("invalid function signature: %q", functionSignature))
	}
	hash := crypto.Keccak256([]byte(functionSignature))
	return hash[:SelectorLen]
}

// ParseABI parses the given ABI string and returns the parsed ABI.
// If the ABI is invalid, it panics.
func ParseABI(rawABI string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ZeroWord returns a fresh zero-filled 32-byte output buffer.
func ZeroWord() []byte {
	return make([]byte, common.HashLength)
}

// TrueWord returns the 32-byte word mutating methods return on success:
// all zero except a low byte of 1.
func TrueWord() []byte {
	word := make([]byte, common.HashLength)
	word[common.HashLength-1] = 1
	return word
}
