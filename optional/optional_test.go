package optional

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSomeAndNone(t *testing.T) {
	t.Parallel()

	some := Some(true)
	assert.True(t, some.NonEmpty())
	assert.False(t, some.Empty())

	val, ok := some.Get()
	assert.True(t, ok)
	assert.True(t, val)

	none := None[bool]()
	assert.True(t, none.Empty())

	val, ok = none.Get()
	assert.False(t, ok)
	assert.False(t, val) // zero value
}

func TestGetOrElse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, Some(7).GetOrElse(0))
	assert.Equal(t, 3, None[int]().GetOrElse(3))
}

func TestMap(t *testing.T) {
	t.Parallel()

	doubled := Map(Some(21), func(n int) int { return n * 2 })
	assert.Equal(t, 42, doubled.GetOrElse(0))

	absent := Map(None[int](), func(n int) int { return n * 2 })
	assert.True(t, absent.Empty())
}
