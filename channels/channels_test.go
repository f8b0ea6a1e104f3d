package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnboundedPreservesOrder(t *testing.T) {
	t.Parallel()

	in, out := Unbounded[int]()

	const n = 1000

	// Send everything before reading anything; a plain channel would block.
	for i := 0; i < n; i++ {
		in <- i
	}

	close(in)

	var got []int
	for v := range out {
		got = append(got, v)
	}

	require.Len(t, got, n)

	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestUnboundedCloseDrains(t *testing.T) {
	t.Parallel()

	in, out := Unbounded[string]()

	in <- "a"
	in <- "b"
	close(in)

	assert.Equal(t, "a", <-out)
	assert.Equal(t, "b", <-out)

	_, ok := <-out
	assert.False(t, ok, "receive side should be closed after drain")
}

func TestCloseIgnorePanic(t *testing.T) {
	t.Parallel()

	ch := make(chan int)

	assert.NotPanics(t, func() {
		CloseIgnorePanic(chan<- int(ch))
		CloseIgnorePanic(chan<- int(ch)) // second close must not panic
		CloseIgnorePanic[int](nil)
	})
}
