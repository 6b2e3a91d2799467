// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// b64stream is a tool which base64 encodes files and streams without
// loading them into memory.
package main

import (
	"os"

	"github.com/mutecomm/b64stream/encengine"
	"github.com/mutecomm/b64stream/log"
	"github.com/mutecomm/b64stream/release"
	"github.com/mutecomm/b64stream/util"
	"github.com/mutecomm/b64stream/util/interrupt"
	"github.com/urfave/cli"
)

func init() {
	cli.VersionPrinter = release.PrintVersion
}

func b64streamMain() error {
	defer log.Flush()

	// create encoding engine
	ee := encengine.New()
	defer ee.Close()

	// add interrupt handler
	interrupt.AddInterruptHandler(func() {
		log.Infof("gracefully shutting down...")
	})

	// start encoding engine
	go func() {
		if err := ee.Start(os.Args); err != nil {
			interrupt.ShutdownChannel <- err
			return
		}
		interrupt.ShutdownChannel <- nil
	}()

	return <-interrupt.ShutdownChannel
}

func main() {
	// work around defer not working after os.Exit()
	if err := b64streamMain(); err != nil {
		util.Fatal(err)
	}
}
