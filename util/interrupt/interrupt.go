// Copyright (c) 2013 Conformal Systems LLC.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package interrupt allows to handle interrupts (SIGINT and SIGTERM).
package interrupt

import (
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mutecomm/b64stream/log"
)

// ShutdownChannel is used to signal that shutdown is in progress.
var ShutdownChannel = make(chan error)

// ErrInterrupted is sent on ShutdownChannel after a signal was received.
var ErrInterrupted = errors.New("interrupt: interrupted by signal")

var (
	once sync.Once
	// signals is used to receive SIGINT (Ctrl+C) and SIGTERM signals
	signals = make(chan os.Signal, 1)
	// handlers is used to add an interrupt handler to the list of handlers
	// to be invoked on a signal
	handlers = make(chan func())
)

// mainInterruptHandler listens for signals and invokes the registered
// callbacks accordingly. It also listens for callback registration.
// It must be run as a goroutine.
func mainInterruptHandler() {
	var callbacks []func()
	for {
		select {
		case sig := <-signals:
			log.Infof("received %s, shutting down...", sig)
			// run callbacks in reverse order of registration
			for i := len(callbacks) - 1; i >= 0; i-- {
				callbacks[i]()
			}
			// signal the main goroutine to shutdown
			ShutdownChannel <- ErrInterrupted

		case handler := <-handlers:
			callbacks = append(callbacks, handler)
		}
	}
}

func start() {
	once.Do(func() {
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		go mainInterruptHandler()
	})
}

// AddInterruptHandler adds a handler to call when a SIGINT (Ctrl+C) or
// SIGTERM is received.
func AddInterruptHandler(handler func()) {
	start()
	handlers <- handler
}

// Interrupt simulates the reception of a SIGINT.
func Interrupt() {
	start()
	signals <- os.Interrupt
}
