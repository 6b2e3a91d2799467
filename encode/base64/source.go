// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package base64

import (
	"io"
	"io/ioutil"
)

// Skipper is the interface that wraps the Skip method.
//
// Skip discards up to n bytes and returns the number of bytes actually
// discarded. If fewer than n bytes were discarded, err explains why
// (io.EOF if the end was reached).
type Skipper interface {
	Skip(n int64) (int64, error)
}

// Source is a readable, skippable and closable byte source a Reader
// encodes from.
type Source interface {
	io.ReadCloser
	Skipper
}

type source struct {
	r io.Reader
}

// NewSource turns r into a Source. If r is already a Source it is returned
// as is. Otherwise Skip uses the Skip method of r, if it has one, and reads
// and discards the bytes if it has not. Close closes r if it is an
// io.Closer.
func NewSource(r io.Reader) Source {
	if s, ok := r.(Source); ok {
		return s
	}
	return &source{r: r}
}

func (s *source) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *source) Skip(n int64) (int64, error) {
	if sk, ok := s.r.(Skipper); ok {
		return sk.Skip(n)
	}
	if n <= 0 {
		return 0, nil
	}
	return io.CopyN(ioutil.Discard, s.r, n)
}

func (s *source) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
