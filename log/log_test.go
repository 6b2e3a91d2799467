package log_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/cihub/seelog"
	"github.com/mutecomm/b64stream/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitInvalid(t *testing.T) {
	assert.Error(t, log.Init("verbose", "test ", "", false))
	assert.Error(t, log.Init("info", "test", "", false))
}

func TestErrorReturnsSameError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, log.SetLogWriter(&buf))
	defer log.UseLogger(seelog.Disabled)
	errSource := errors.New("source failed")
	err := log.Error(errSource)
	assert.True(t, err == errSource)
	log.Flush()
	assert.Contains(t, buf.String(), "source failed")
}

func TestSetLogWriterNil(t *testing.T) {
	assert.Error(t, log.SetLogWriter(nil))
}

// This example shows when and how to use the critical log level.
func Example_critical() {
	alwaysFalseCondition := false
	// ...
	if alwaysFalseCondition {
		panic(log.Critical("package name: this condition should never be true"))
	}
}

// This example shows when and how to use the error log level.
func Example_error() {
	open := func(name string) error {
		// calling external package which can produce an error
		f, err := os.Open(name)
		if err != nil {
			return log.Error(err)
		}
		return f.Close()
	}
	if err := open("filename"); err != nil {
		// already logged, just pass it on
		return
	}
}
