// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package base64

import (
	"errors"
)

// ErrClosed is returned by all Reader operations after Close.
var ErrClosed = errors.New("base64: reader already closed")
