package interrupt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterrupt(t *testing.T) {
	var order []int
	AddInterruptHandler(func() { order = append(order, 1) })
	AddInterruptHandler(func() { order = append(order, 2) })
	Interrupt()
	err := <-ShutdownChannel
	assert.Equal(t, ErrInterrupted, err)
	assert.Equal(t, []int{2, 1}, order)
}
