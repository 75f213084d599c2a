// Copyright (C) 2022, Telos Foundation & contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry forces the import of every precompiled contract package
// so that each one's init function runs and registers its module.
package registry

import (
	_ "github.com/telosprotocol/topvm/precompile/contracts/delegateusdt"
)
