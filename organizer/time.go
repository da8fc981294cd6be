// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package organizer

import "time"

// nowUnix returns the current wall-clock time as unix seconds. Organizer
// indirects through the now field so tests can inject a fixed clock for
// the currency-window check without sleeping.
func nowUnix() int64 {
	return time.Now().Unix()
}
