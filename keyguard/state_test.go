package keyguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateValid(t *testing.T) {
	t.Parallel()

	for _, s := range States() {
		assert.True(t, s.Valid(), "state %s should be valid", s)
	}

	assert.False(t, State("").Valid())
	assert.False(t, State("UNLOCKED").Valid())
	assert.False(t, State("lockscreen").Valid())
}

func TestStatesClosedSet(t *testing.T) {
	t.Parallel()

	seen := make(map[State]bool)

	for _, s := range States() {
		assert.False(t, seen[s], "duplicate state %s", s)
		seen[s] = true
	}

	assert.Len(t, seen, 7)
}

func TestTransitionStateTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, Started.Terminal())
	assert.False(t, Running.Terminal())
	assert.True(t, Finished.Terminal())
	assert.True(t, Canceled.Terminal())
}
