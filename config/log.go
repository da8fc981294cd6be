// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import "github.com/btcsuite/btclog"

var log = btclog.Disabled

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
