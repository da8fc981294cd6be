// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

import "github.com/btcsuite/btclog"

// log is the package-level logger used throughout the organizer. It is a
// no-op until the caller installs a real backend with UseLogger, matching
// the btcd convention of never logging before the application wires one up.
var log = btclog.Disabled

// DisableLog disables all library log output. Logging is disabled by
// default until UseLogger is called.
func DisableLog() {
	log = btclog.Disabled
}

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}
