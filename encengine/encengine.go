// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encengine implements the command engine for b64stream.
package encengine

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mutecomm/b64stream/def/version"
	"github.com/mutecomm/b64stream/log"
	"github.com/mutecomm/b64stream/util"
	"github.com/urfave/cli"
)

// DefaultBufSize is the default size of the encoded chunks read by encode.
const DefaultBufSize = 4096

// EncEngine abstracts a b64stream command engine.
type EncEngine struct {
	prepared bool
	input    io.Reader
	output   io.Writer
	status   io.Writer
	terminal bool
	files    []*os.File

	app *cli.App
	err error
}

func (ee *EncEngine) openFD(c *cli.Context, name string) *os.File {
	fp := os.NewFile(uintptr(c.GlobalInt(name)), name)
	ee.files = append(ee.files, fp)
	return fp
}

func (ee *EncEngine) prepare(c *cli.Context) error {
	if ee.prepared {
		return nil
	}
	// create the log directory if it doesn't already exist
	if err := util.CreateDirs(c.GlobalString("logdir")); err != nil {
		return err
	}
	// initialize logging framework
	err := log.Init(c.GlobalString("loglevel"), "b64st",
		c.GlobalString("logdir"), c.GlobalBool("logconsole"))
	if err != nil {
		return err
	}
	// file descriptors, unless set already
	if ee.input == nil {
		ee.input = ee.openFD(c, "input-fd")
	}
	if ee.output == nil {
		fp := ee.openFD(c, "output-fd")
		ee.output = fp
		ee.terminal = util.IsTerminal(fp)
	}
	if ee.status == nil {
		ee.status = ee.openFD(c, "status-fd")
	}
	ee.prepared = true
	return nil
}

func noArgs(c *cli.Context) error {
	if len(c.Args()) > 0 {
		return log.Errorf("superfluous argument(s): %s", strings.Join(c.Args(), " "))
	}
	return nil
}

func nArgs(c *cli.Context, n int) error {
	if len(c.Args()) < n {
		return log.Errorf("missing argument(s), %d expected", n)
	}
	if len(c.Args()) > n {
		return log.Errorf("superfluous argument(s): %s",
			strings.Join(c.Args()[n:], " "))
	}
	return nil
}

// New returns a new b64stream command engine.
func New() *EncEngine {
	var ee EncEngine
	ee.app = cli.NewApp()
	ee.app.Usage = "tool to base64 encode files and streams"
	ee.app.Version = version.Number
	ee.app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "input-fd",
			Value: 0,
			Usage: "input file descriptor",
		},
		cli.IntFlag{
			Name:  "output-fd",
			Value: 1,
			Usage: "output file descriptor",
		},
		cli.IntFlag{
			Name:  "status-fd",
			Value: 2,
			Usage: "status file descriptor",
		},
		cli.StringFlag{
			Name:  "loglevel",
			Value: "info",
			Usage: "logging level {trace, debug, info, warn, error, critical}",
		},
		cli.StringFlag{
			Name:  "logdir",
			Usage: "directory to log output",
		},
		cli.BoolFlag{
			Name:  "logconsole",
			Usage: "enable logging to console",
		},
	}
	ee.app.Before = func(c *cli.Context) error {
		return ee.prepare(c)
	}
	ee.app.Commands = []cli.Command{
		{
			Name:      "encode",
			Usage:     "base64 encode FILE (or input-fd) to output-fd",
			ArgsUsage: "[FILE]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "bufsize",
					Value: DefaultBufSize,
					Usage: "number of encoded bytes read at once",
				},
				cli.Int64Flag{
					Name:  "skip",
					Usage: "number of encoded bytes to skip",
				},
				cli.DurationFlag{
					Name:  "retry",
					Usage: "retry temporary input failures up to the given duration",
				},
				cli.BoolFlag{
					Name:  "stats",
					Usage: "write JSON statistics to status-fd",
				},
			},
			Before: func(c *cli.Context) error {
				if len(c.Args()) > 1 {
					return log.Errorf("superfluous argument(s): %s",
						strings.Join(c.Args()[1:], " "))
				}
				if c.Int("bufsize") < 1 {
					return log.Errorf("--bufsize must be positive: %d", c.Int("bufsize"))
				}
				if c.Int64("skip") < 0 {
					return log.Errorf("--skip must not be negative: %d", c.Int64("skip"))
				}
				return ee.prepare(c)
			},
			Action: func(c *cli.Context) {
				ee.err = ee.encodeCmd(c.Args().First(), &options{
					bufSize: c.Int("bufsize"),
					skip:    c.Int64("skip"),
					retry:   c.Duration("retry"),
					stats:   c.Bool("stats"),
				})
			},
		},
		{
			Name:      "batch",
			Usage:     "base64 encode every FILE to FILE.b64",
			ArgsUsage: "FILE...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "jobs",
					Value: runtime.NumCPU(),
					Usage: "maximum number of files encoded concurrently",
				},
			},
			Before: func(c *cli.Context) error {
				if len(c.Args()) == 0 {
					return log.Error("missing argument(s), FILE expected")
				}
				if c.Int("jobs") < 1 {
					return log.Errorf("--jobs must be positive: %d", c.Int("jobs"))
				}
				return ee.prepare(c)
			},
			Action: func(c *cli.Context) {
				ee.err = ee.batch(c.Args(), c.Int("jobs"))
			},
		},
		{
			Name:      "cat",
			Usage:     "write FILE to output-fd",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "base64",
					Usage: "base64 encode the content",
				},
			},
			Before: func(c *cli.Context) error {
				if err := nArgs(c, 1); err != nil {
					return err
				}
				return ee.prepare(c)
			},
			Action: func(c *cli.Context) {
				ee.err = ee.cat(c.Args().First(), c.Bool("base64"))
			},
		},
		{
			Name:      "copy",
			Usage:     "copy SRC to DEST",
			ArgsUsage: "SRC DEST",
			Before: func(c *cli.Context) error {
				if err := nArgs(c, 2); err != nil {
					return err
				}
				return ee.prepare(c)
			},
			Action: func(c *cli.Context) {
				ee.err = ee.copy(c.Args().Get(0), c.Args().Get(1))
			},
		},
		{
			Name:      "write",
			Usage:     "write input-fd to DEST",
			ArgsUsage: "DEST",
			Before: func(c *cli.Context) error {
				if err := nArgs(c, 1); err != nil {
					return err
				}
				return ee.prepare(c)
			},
			Action: func(c *cli.Context) {
				ee.err = ee.write(c.Args().First())
			},
		},
		{
			Name:  "version",
			Usage: "show version",
			Before: func(c *cli.Context) error {
				return noArgs(c)
			},
			Action: func(c *cli.Context) {
				cli.VersionPrinter(c)
			},
		},
	}
	return &ee
}

// Start the b64stream engine.
func (ee *EncEngine) Start(args []string) error {
	defer ee.Close()
	ee.app.Name = args[0]
	start := time.Now()
	if err := ee.app.Run(args); err != nil {
		return err
	}
	if ee.err != nil {
		return ee.err
	}
	log.Debugf("encengine: done in %s", time.Since(start))
	return nil
}

// Close the file descriptors opened by the engine.
func (ee *EncEngine) Close() error {
	var err error
	for _, fp := range ee.files {
		// never close the standard streams
		if fp.Fd() <= 2 {
			continue
		}
		if e := fp.Close(); e != nil && err == nil {
			err = e
		}
	}
	ee.files = nil
	return err
}
