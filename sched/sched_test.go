package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitWaits(t *testing.T) {
	t.Parallel()

	ran := false

	task := Submit(func() {
		ran = true
	})

	require.NoError(t, task.Wait())
	assert.True(t, ran)
}

func TestGoRunsAsync(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})

	require.NoError(t, Go(func() {
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}
