package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	t.Parallel()

	t.Run("empty input is the FNV offset basis", func(t *testing.T) {
		require.Equal(t, uint64(14695981039346656037), Hash(""))
	})

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, Hash("'x'+1"), Hash("'x'+1"))
	})

	t.Run("order dependent", func(t *testing.T) {
		require.NotEqual(t, Hash("ab"), Hash("ba"))
	})

	t.Run("ascii units are two bytes wide", func(t *testing.T) {
		// "a" as one UTF-16 unit is the byte sequence 0x61 0x00.
		const (
			offset = uint64(14695981039346656037)
			prime  = uint64(1099511628211)
		)
		want := offset
		for _, b := range []byte{0x61, 0x00} {
			want ^= uint64(b)
			want *= prime
		}
		require.Equal(t, want, Hash("a"))
	})

	t.Run("astral runes hash as surrogate pairs", func(t *testing.T) {
		require.NotEqual(t, Hash("\U0001F600"), Hash("�"))
		require.Equal(t, Hash("\U0001F600"), Hash(string([]rune{0x1F600})))
	})
}

func TestCache(t *testing.T) {
	t.Parallel()

	t.Run("miss then hit", func(t *testing.T) {
		c := New()
		src := "'x'+1"
		key := Hash(src)

		_, ok := c.Lookup(key, "<eval:0>", src)
		require.False(t, ok)

		c.Store(key, "<eval:0>", src, "artifact")
		got, ok := c.Lookup(key, "<eval:0>", src)
		require.True(t, ok)
		assert.Equal(t, "artifact", got)

		assert.Equal(t, Stats{Entries: 1, Hits: 1, Misses: 1}, c.Stats())
	})

	t.Run("store replaces", func(t *testing.T) {
		c := New()
		c.Store(7, "<eval:0>", "a", "first")
		c.Store(7, "<eval:0>", "a", "second")
		got, ok := c.Lookup(7, "<eval:0>", "a")
		require.True(t, ok)
		assert.Equal(t, "second", got)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("verification rejects a colliding source", func(t *testing.T) {
		c := New()
		c.Store(42, "<eval:0>", "first source", "artifact")

		_, ok := c.Lookup(42, "<eval:0>", "second source")
		require.False(t, ok)
		assert.Equal(t, uint64(1), c.Stats().Collisions)

		c.Store(42, "<eval:0>", "second source", "other")
		got, ok := c.Lookup(42, "<eval:0>", "second source")
		require.True(t, ok)
		assert.Equal(t, "other", got)
	})

	t.Run("without verification the key alone decides", func(t *testing.T) {
		c := New(WithVerification(false))
		c.Store(42, "<eval:0>", "first source", "artifact")

		got, ok := c.Lookup(42, "<eval:0>", "second source")
		require.True(t, ok)
		assert.Equal(t, "artifact", got)
	})

	t.Run("entries are bound to their resource name", func(t *testing.T) {
		c := New()
		src := "throw new Error('x')"
		key := Hash(src)
		c.Store(key, "<eval:0>", src, "compiled as 0")

		_, ok := c.Lookup(key, "<eval:1>", src)
		require.False(t, ok)

		c.Store(key, "<eval:1>", src, "compiled as 1")
		got, ok := c.Lookup(key, "<eval:0>", src)
		require.True(t, ok)
		assert.Equal(t, "compiled as 0", got)

		assert.Equal(t, Stats{Entries: 1, Hits: 1, Misses: 1}, c.Stats())
	})

	t.Run("clear", func(t *testing.T) {
		c := New()
		c.Store(1, "<eval:0>", "a", 1)
		c.Store(2, "<eval:0>", "b", 2)
		_, _ = c.Lookup(1, "<eval:0>", "a")
		c.Clear()

		assert.Equal(t, 0, c.Len())
		assert.Equal(t, Stats{}, c.Stats())
		_, ok := c.Lookup(1, "<eval:0>", "a")
		assert.False(t, ok)
	})
}
