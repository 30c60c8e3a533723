//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext derives the run context: Ctrl-C cancels any composition in
// flight, and nothing is written. Windows has no SIGTERM or SIGHUP.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
