package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, "user-plan", "plan:alice")
	require.ErrorIs(t, err, ErrNotFound)

	value := []byte(`{"a":1}`)
	require.NoError(t, m.Put(ctx, "user-plan", "plan:alice", value))
	value[0] = 'x'

	got, err := m.Get(ctx, "user-plan", "plan:alice")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got), "stored value must not alias the caller's slice")

	n, err := m.Delete(ctx, "user-plan", "plan:alice")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = m.Delete(ctx, "user-plan", "plan:alice")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemory_List(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "flows", "flow:alice:2", []byte("2")))
	require.NoError(t, m.Put(ctx, "flows", "flow:alice:1", []byte("1")))
	require.NoError(t, m.Put(ctx, "flows", "flow:bob:3", []byte("3")))

	got, err := m.List(ctx, "flows", "flow:alice:")
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("1"), []byte("2")}, got)

	got, err = m.List(ctx, "other", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
