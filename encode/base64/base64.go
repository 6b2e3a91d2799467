// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package base64 implements standard (RFC 4648) base64 encoding with '='
// padding and a streaming encoder that wraps arbitrary byte sources.
package base64

// Alphabet is the standard base64 alphabet.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Pad is the padding character.
const Pad = '='

const (
	rawGroupSize     = 3
	encodedGroupSize = 4
)

// EncodeGroup encodes the 1 to 3 bytes in src as exactly 4 base64 symbols
// and writes them to dst. Groups shorter than 3 bytes are padded.
// EncodeGroup panics if len(src) is not between 1 and 3 or len(dst) < 4.
func EncodeGroup(dst, src []byte) {
	if len(src) < 1 || len(src) > rawGroupSize {
		panic("base64: EncodeGroup(): len(src) not in [1, 3]")
	}
	if len(dst) < encodedGroupSize {
		panic("base64: EncodeGroup(): len(dst) < 4")
	}
	var v uint32
	switch len(src) {
	case 3:
		v = uint32(src[0])<<16 | uint32(src[1])<<8 | uint32(src[2])
	case 2:
		v = uint32(src[0])<<16 | uint32(src[1])<<8
	case 1:
		v = uint32(src[0]) << 16
	}
	dst[0] = Alphabet[v>>18&0x3f]
	dst[1] = Alphabet[v>>12&0x3f]
	dst[2] = Alphabet[v>>6&0x3f]
	dst[3] = Alphabet[v&0x3f]
	switch len(src) {
	case 2:
		dst[3] = Pad
	case 1:
		dst[2] = Pad
		dst[3] = Pad
	}
}

// EncodedLen returns the length in bytes of the base64 encoding of n bytes.
func EncodedLen(n int) int {
	return (n + rawGroupSize - 1) / rawGroupSize * encodedGroupSize
}

// Encode returns the base64 encoding of src.
func Encode(src []byte) string {
	dst := make([]byte, EncodedLen(len(src)))
	for i, j := 0, 0; i < len(src); i, j = i+rawGroupSize, j+encodedGroupSize {
		end := i + rawGroupSize
		if end > len(src) {
			end = len(src)
		}
		EncodeGroup(dst[j:], src[i:end])
	}
	return string(dst)
}
