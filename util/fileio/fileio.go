// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fileio implements file copy, read and write helpers, optionally
// base64 encoding the content on the fly.
package fileio

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/frankbraun/codechain/util/file"
	"github.com/mutecomm/b64stream/encode/base64"
	"github.com/mutecomm/b64stream/log"
)

// ErrFileExists is returned if a destination file exists already.
var ErrFileExists = errors.New("fileio: destination file exists already")

// BufferSize is the size of the buffers used to copy file content.
const BufferSize = 8192

func checkNotExists(destFile string) error {
	exists, err := file.Exists(destFile)
	if err != nil {
		return log.Error(err)
	}
	if exists {
		log.Errorf("fileio: '%s' exists already", destFile)
		return ErrFileExists
	}
	return nil
}

// Copy copies srcFile to destFile, keeping the permission bits.
// destFile must not exist.
func Copy(srcFile, destFile string) error {
	if err := checkNotExists(destFile); err != nil {
		return err
	}
	src, err := os.Open(srcFile)
	if err != nil {
		return log.Error(err)
	}
	defer src.Close()
	fi, err := src.Stat()
	if err != nil {
		return log.Error(err)
	}
	mode := fi.Mode() & os.ModePerm // only keep standard UNIX permission bits
	_, err = writeFile(src, destFile, mode)
	return err
}

// ReadFile reads the content of filename into memory. If encodeBase64 is
// true the returned content is base64 encoded.
func ReadFile(filename string, encodeBase64 bool) ([]byte, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, log.Error(err)
	}
	var (
		r    io.ReadCloser = fp
		size int64
	)
	if fi, err := fp.Stat(); err == nil {
		size = fi.Size()
	}
	if encodeBase64 {
		r = base64.NewEncodeReader(fp)
		size = int64(base64.EncodedLen(int(size)))
	}
	defer r.Close()
	var buf bytes.Buffer
	buf.Grow(int(size))
	if _, err := io.CopyBuffer(&buf, r, make([]byte, BufferSize)); err != nil {
		return nil, log.Error(err)
	}
	return buf.Bytes(), nil
}

// WriteToFile writes the content of r to destFile, which must not exist.
// If reading r fails destFile is removed.
func WriteToFile(r io.Reader, destFile string) error {
	if err := checkNotExists(destFile); err != nil {
		return err
	}
	_, err := writeFile(r, destFile, 0600)
	return err
}

// writeFile copies r to the new file destFile. On failure the partially
// written destFile is removed again.
func writeFile(r io.Reader, destFile string, mode os.FileMode) (int64, error) {
	dest, err := os.OpenFile(destFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return 0, log.Error(err)
	}
	n, err := io.CopyBuffer(dest, r, make([]byte, BufferSize))
	if err != nil {
		dest.Close()
		os.Remove(destFile)
		return n, log.Error(err)
	}
	if err := dest.Close(); err != nil {
		os.Remove(destFile)
		return n, log.Error(err)
	}
	return n, nil
}

// EncodeFile base64 encodes srcFile and writes the encoding to destFile,
// which must not exist. It returns the number of encoded bytes written.
// If encoding fails destFile is removed.
func EncodeFile(srcFile, destFile string) (int64, error) {
	if err := checkNotExists(destFile); err != nil {
		return 0, err
	}
	src, err := os.Open(srcFile)
	if err != nil {
		return 0, log.Error(err)
	}
	r := base64.NewEncodeReader(src)
	defer r.Close()
	return writeFile(r, destFile, 0600)
}
