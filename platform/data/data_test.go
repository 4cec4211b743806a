package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	input := map[string]any{"name": "x", "n": 1}
	p := NewStaticProvider(input)
	input["name"] = "changed"

	got, err := p.GetData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "x", "n": 1}, got)

	got["n"] = 2
	again, err := p.GetData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, again["n"])

	empty, err := NewStaticProvider(nil).GetData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)

	ctx := context.Background()
	same, err := p.AddDataToContext(ctx, map[string]any{"a": 1})
	require.ErrorIs(t, err, ErrNoRuntimeData)
	assert.Equal(t, ctx, same)
}

func TestContextProvider(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		p := NewContextProvider(BindingsKey)
		ctx, err := p.AddDataToContext(context.Background(), map[string]any{"a": 1, "b": 2})
		require.NoError(t, err)
		ctx, err = p.AddDataToContext(ctx, map[string]any{"b": 3}, nil)
		require.NoError(t, err)

		got, err := p.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 1, "b": 3}, got)
	})

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		got, err := NewContextProvider(BindingsKey).GetData(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty key entries", func(t *testing.T) {
		t.Parallel()
		p := NewContextProvider(BindingsKey)
		ctx, err := p.AddDataToContext(context.Background(), map[string]any{"": 1, "ok": true})
		require.ErrorIs(t, err, ErrEmptyKey)

		got, err := p.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"ok": true}, got)
	})

	t.Run("wrong value type", func(t *testing.T) {
		t.Parallel()
		ctx := context.WithValue(context.Background(), BindingsKey, "nope")
		_, err := NewContextProvider(BindingsKey).GetData(ctx)
		require.Error(t, err)
	})

	t.Run("no key", func(t *testing.T) {
		t.Parallel()
		p := NewContextProvider("")
		_, err := p.GetData(context.Background())
		require.ErrorIs(t, err, ErrInvalidDataKey)
		_, err = p.AddDataToContext(context.Background())
		require.ErrorIs(t, err, ErrInvalidDataKey)
	})
}

func TestCompositeProvider(t *testing.T) {
	t.Parallel()

	t.Run("later providers win", func(t *testing.T) {
		t.Parallel()
		ctxProvider := NewContextProvider(BindingsKey)
		p := NewCompositeProvider(
			NewStaticProvider(map[string]any{"who": "default", "lang": "js"}),
			nil,
			ctxProvider,
		)

		ctx, err := p.AddDataToContext(context.Background(), map[string]any{"who": "request"})
		require.NoError(t, err)

		got, err := p.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"who": "request", "lang": "js"}, got)
	})

	t.Run("only static providers", func(t *testing.T) {
		t.Parallel()
		p := NewCompositeProvider(NewStaticProvider(nil))
		_, err := p.AddDataToContext(context.Background(), map[string]any{"a": 1})
		require.ErrorIs(t, err, ErrNoRuntimeData)
	})

	t.Run("provider error", func(t *testing.T) {
		t.Parallel()
		p := NewCompositeProvider(NewContextProvider(""))
		_, err := p.GetData(context.Background())
		require.ErrorIs(t, err, ErrInvalidDataKey)
		_, err = p.AddDataToContext(context.Background(), map[string]any{"a": 1})
		require.ErrorIs(t, err, ErrInvalidDataKey)
	})
}
