// Copyright (c) 2024 The libbitcoin-node developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
)

// interruptSignals is the set of OS signals that request a graceful
// shutdown.
var interruptSignals = []os.Signal{os.Interrupt}

// shutdownRequestChannel lets code inside the process request the same
// clean-exit path an operator Ctrl-C would. Nothing in this module sends
// on it; the organizer's fault path does not.
var shutdownRequestChannel = make(chan struct{})

// interruptListener listens for the set of interrupt signals and/or a
// shutdown request, logging once and closing the returned channel. Later
// signals are only logged, so the user can see that shutdown is in
// progress.
func interruptListener() <-chan struct{} {
	interruptChannel := make(chan os.Signal, 1)
	signal.Notify(interruptChannel, interruptSignals...)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-interruptChannel:
			orgnLog.Infof("Received signal (%s). Shutting down...", sig)
		case <-shutdownRequestChannel:
			orgnLog.Infof("Shutdown requested. Shutting down...")
		}
		close(done)

		// Log repeated signals so the user knows shutdown is in progress
		// and the process is not hung.
		for {
			select {
			case sig := <-interruptChannel:
				orgnLog.Infof("Received signal (%s). Already shutting down...", sig)
			case <-shutdownRequestChannel:
			}
		}
	}()

	return done
}
