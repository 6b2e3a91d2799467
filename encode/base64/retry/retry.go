// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package retry implements a base64.Source which retries temporary source
// failures with exponential backoff.
package retry

import (
	"time"

	"github.com/jpillora/backoff"
	"github.com/mutecomm/b64stream/encode/base64"
	"github.com/mutecomm/b64stream/log"
)

// DefaultMaxDuration defines the default maximum total time spent waiting
// for a temporary failure to go away.
var DefaultMaxDuration = 1 * time.Minute

type temporary interface {
	Temporary() bool
}

// IsTemporary reports whether err has a Temporary method which returns true.
func IsTemporary(err error) bool {
	t, ok := err.(temporary)
	return ok && t.Temporary()
}

// Source wraps a base64.Source and retries Read and Skip calls which failed
// with a temporary error and made no progress.
type Source struct {
	src   base64.Source
	max   time.Duration
	sleep func(time.Duration)
}

// NewSource returns a new Source which retries temporary failures of src
// until maxDuration of total waiting time is exceeded. If maxDuration is
// zero DefaultMaxDuration is used.
func NewSource(src base64.Source, maxDuration time.Duration) *Source {
	if maxDuration == 0 {
		maxDuration = DefaultMaxDuration
	}
	return &Source{
		src:   src,
		max:   maxDuration,
		sleep: time.Sleep,
	}
}

func (s *Source) retry(op string, f func() (int64, error)) (int64, error) {
	n, err := f()
	if n > 0 || err == nil || !IsTemporary(err) {
		return n, err
	}
	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 1.5,
		Jitter: false,
	}
	var total time.Duration
	for {
		log.Warnf("retry: %s: %s", op, err)
		d := b.Duration()
		s.sleep(d)
		total += d
		n, err = f()
		if n > 0 || err == nil || !IsTemporary(err) {
			return n, err
		}
		if total >= s.max {
			// total duration is larger than max duration -> stop trying
			return n, log.Errorf("retry: %s: giving up after %s: %s", op, total, err)
		}
	}
}

// Read reads from the wrapped source.
func (s *Source) Read(p []byte) (int, error) {
	n, err := s.retry("read", func() (int64, error) {
		n, err := s.src.Read(p)
		return int64(n), err
	})
	return int(n), err
}

// Skip skips n bytes on the wrapped source.
func (s *Source) Skip(n int64) (int64, error) {
	return s.retry("skip", func() (int64, error) {
		return s.src.Skip(n)
	})
}

// Close closes the wrapped source. Close is never retried.
func (s *Source) Close() error {
	return s.src.Close()
}
