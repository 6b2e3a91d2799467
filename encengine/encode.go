// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encengine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/structs"
	"github.com/mutecomm/b64stream/encode/base64"
	"github.com/mutecomm/b64stream/encode/base64/retry"
	"github.com/mutecomm/b64stream/log"
	"github.com/mutecomm/b64stream/util/fileio"
	"golang.org/x/sync/errgroup"
)

type options struct {
	bufSize int
	skip    int64
	retry   time.Duration
	stats   bool
}

// Stats describes a single encode run.
type Stats struct {
	Input   string `structs:"input"`
	Read    int64  `structs:"read"`
	Skipped int64  `structs:"skipped"`
	Written int64  `structs:"written"`
}

// JSON encodes stats as a JSON object with sorted keys.
func (stats *Stats) JSON() []byte {
	// convert the struct to map before the JSON encoding, because maps are
	// automatically sorted and structs are not
	jsn, err := json.Marshal(structs.Map(stats))
	if err != nil {
		panic(log.Critical(err))
	}
	return jsn
}

// countingReader counts the raw bytes pulled from the input.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// encode streams the base64 encoding of r to w.
func encode(w io.Writer, r io.Reader, opts *options, stats *Stats) error {
	cr := &countingReader{r: r}
	var src base64.Source = base64.NewSource(cr)
	if opts.retry > 0 {
		src = retry.NewSource(src, opts.retry)
	}
	enc := base64.NewReader(src)
	defer enc.Close()

	if opts.skip > 0 {
		n, err := enc.Skip(opts.skip)
		stats.Skipped = n
		if err != nil && err != io.EOF {
			return err
		}
		if n != opts.skip {
			log.Warnf("encengine: skipped %d instead of %d bytes", n, opts.skip)
		}
	}

	buf := make([]byte, opts.bufSize)
	for {
		n, err := enc.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				stats.Read = cr.n
				return log.Error(err)
			}
			stats.Written += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.Read = cr.n
			return err
		}
	}
	stats.Read = cr.n
	return nil
}

func (ee *EncEngine) encodeCmd(filename string, opts *options) error {
	stats := &Stats{Input: filename}
	r := ee.input
	if filename != "" {
		fp, err := os.Open(filename)
		if err != nil {
			return log.Error(err)
		}
		defer fp.Close()
		r = fp
	} else {
		stats.Input = "input-fd"
	}
	log.Infof("encengine: encode %s", stats.Input)
	if err := encode(ee.output, r, opts, stats); err != nil {
		return err
	}
	if ee.terminal && stats.Written > 0 {
		if _, err := fmt.Fprintln(ee.output); err != nil {
			return log.Error(err)
		}
	}
	log.Infof("encengine: encoded %d bytes to %d bytes", stats.Read, stats.Written)
	if opts.stats {
		if _, err := fmt.Fprintf(ee.status, "%s\n", stats.JSON()); err != nil {
			return log.Error(err)
		}
	}
	return nil
}

func (ee *EncEngine) batch(filenames []string, jobs int) error {
	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(jobs)
	for _, filename := range filenames {
		filename := filename
		g.Go(func() error {
			dest := filename + ".b64"
			n, err := fileio.EncodeFile(filename, dest)
			if err != nil {
				log.Errorf("encengine: %s: %s", filename, err)
				return err
			}
			log.Infof("encengine: encoded %s", filename)
			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintf(ee.status, "%s: %d bytes written to %s\n",
				filename, n, dest)
			return err
		})
	}
	return g.Wait()
}

func (ee *EncEngine) cat(filename string, encodeBase64 bool) error {
	data, err := fileio.ReadFile(filename, encodeBase64)
	if err != nil {
		return err
	}
	if _, err := ee.output.Write(data); err != nil {
		return log.Error(err)
	}
	if encodeBase64 && ee.terminal && len(data) > 0 {
		if _, err := fmt.Fprintln(ee.output); err != nil {
			return log.Error(err)
		}
	}
	return nil
}

func (ee *EncEngine) copy(srcFile, destFile string) error {
	log.Infof("encengine: copy %s to %s", srcFile, destFile)
	return fileio.Copy(srcFile, destFile)
}

func (ee *EncEngine) write(destFile string) error {
	log.Infof("encengine: write input-fd to %s", destFile)
	return fileio.WriteToFile(ee.input, destFile)
}
