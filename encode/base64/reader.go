// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package base64

import (
	"io"

	"github.com/mutecomm/b64stream/log"
	"github.com/mutecomm/b64stream/util/bzero"
)

// Reader is a streaming base64 encoder. Reading from it pulls raw bytes from
// its Source and returns their base64 encoding. The concatenation of all
// bytes returned by Read is the same as Encode applied to everything read
// from the source, however the reads are sized.
//
// A Reader is not safe for concurrent use. It cannot seek.
type Reader struct {
	src Source

	// encoded group which did not fit into the caller's buffer,
	// pending[pos:end] is still undelivered
	pending [encodedGroupSize]byte
	pos     int
	end     int

	// raw bytes pulled from src, the first carry bytes are an incomplete
	// group left over from the previous pull
	scratch []byte
	carry   int

	one    [1]byte
	eof    bool
	closed bool
}

// NewReader returns a new Reader which encodes the bytes of src.
func NewReader(src Source) *Reader {
	return &Reader{src: src}
}

// NewEncodeReader returns a new Reader which encodes the bytes of r.
// It is a shorthand for NewReader(NewSource(r)).
func NewEncodeReader(r io.Reader) *Reader {
	return NewReader(NewSource(r))
}

// rawLen returns the number of raw bytes to pull from the source to produce
// at least n encoded bytes, rounded up to full groups.
func rawLen(n int) int {
	raw := (n*rawGroupSize + encodedGroupSize - 1) / encodedGroupSize
	return (raw + rawGroupSize - 1) / rawGroupSize * rawGroupSize
}

// Read reads up to len(p) encoded bytes into p. It calls Read on the source
// at most once. Bytes written to p before a source error are counted in n.
// Read returns 0, io.EOF after the source reached its end and all encoded
// bytes have been delivered.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	// deliver pending bytes first
	if r.pos < r.end {
		n = copy(p, r.pending[r.pos:r.end])
		r.pos += n
		if n == len(p) {
			return n, nil
		}
	}
	r.pos, r.end = 0, 0
	if r.eof {
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	}

	// pull raw bytes
	need := rawLen(len(p) - n)
	if cap(r.scratch) < need {
		scratch := make([]byte, need)
		copy(scratch, r.scratch[:r.carry])
		bzero.Bytes(r.scratch)
		r.scratch = scratch
	}
	m, err := r.src.Read(r.scratch[r.carry:need])
	avail := r.carry + m
	if err == io.EOF {
		r.eof = true
		err = nil
	} else if err != nil {
		err = log.Error(err)
	}

	// only the final group of the stream may be incomplete
	enc := avail
	if !r.eof {
		enc = avail / rawGroupSize * rawGroupSize
	}
	for i := 0; i < enc; i += rawGroupSize {
		j := i + rawGroupSize
		if j > enc {
			j = enc
		}
		if len(p)-n >= encodedGroupSize {
			EncodeGroup(p[n:], r.scratch[i:j])
			n += encodedGroupSize
			continue
		}
		// split group, keep the tail for the next call
		EncodeGroup(r.pending[:], r.scratch[i:j])
		r.pos = copy(p[n:], r.pending[:])
		r.end = encodedGroupSize
		n += r.pos
	}
	r.carry = copy(r.scratch, r.scratch[enc:avail])

	if err != nil {
		return n, err
	}
	if n == 0 && r.eof {
		return 0, io.EOF
	}
	return n, nil
}

// maxEmptyReads is the number of consecutive Read calls without progress
// after which ReadByte gives up with io.ErrNoProgress.
const maxEmptyReads = 100

// ReadByte reads and returns the next encoded byte.
func (r *Reader) ReadByte() (byte, error) {
	for i := 0; i < maxEmptyReads; i++ {
		n, err := r.Read(r.one[:])
		if n == 1 {
			return r.one[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
	return 0, io.ErrNoProgress
}

// Skip skips up to n encoded bytes and returns the number of encoded bytes
// skipped.
//
// Pending bytes of a partially delivered group are skipped exactly. The
// rest is converted to floor(n*3/4) raw bytes which are skipped on the
// source, and the number of raw bytes skipped is converted back with
// floor(raw*4/3). If n is not a multiple of 4 the following reads no longer
// start on a group boundary of the full encoding. Keeping skips aligned is
// up to the caller. If the skip reaches the end of the source the final
// short group is counted as floor(raw*4/3) as well (Skip(4) over a single
// remaining byte returns 1), and the Reader is at end of stream afterwards.
func (r *Reader) Skip(n int64) (int64, error) {
	if r.closed {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, nil
	}

	var skipped int64
	if r.pos < r.end {
		k := int64(r.end - r.pos)
		if k > n {
			k = n
		}
		r.pos += int(k)
		skipped += k
		n -= k
		if n == 0 {
			return skipped, nil
		}
	}
	r.pos, r.end = 0, 0

	raw := n * rawGroupSize / encodedGroupSize
	var rawSkipped int64
	if r.carry > 0 && raw > 0 {
		k := int64(r.carry)
		if k > raw {
			k = raw
		}
		r.carry = copy(r.scratch, r.scratch[k:r.carry])
		rawSkipped += k
		raw -= k
	}
	if raw > 0 && !r.eof {
		k, err := r.src.Skip(raw)
		rawSkipped += k
		if err != nil {
			if err == io.EOF {
				r.eof = true
			} else {
				err = log.Error(err)
			}
			return skipped + rawSkipped*encodedGroupSize/rawGroupSize, err
		}
	}
	return skipped + rawSkipped*encodedGroupSize/rawGroupSize, nil
}

// Close wipes the internal buffers and closes the source. Calling Close
// again has no effect. All other operations fail with ErrClosed after
// Close.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	bzero.Bytes(r.pending[:])
	bzero.Bytes(r.scratch)
	r.scratch = nil
	r.pos, r.end, r.carry = 0, 0, 0
	if err := r.src.Close(); err != nil {
		return log.Error(err)
	}
	return nil
}
