package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackPushPop(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.Push(WordOne()))
	require.NoError(t, s.Push(WordFromUint64(2)))
	assert.Equal(t, 2, s.Len())

	top, err := s.Pop()
	require.NoError(t, err)
	assert.True(t, top.Eq(WordFromUint64(2)))
	assert.Equal(t, 1, s.Len())
}

func TestStackUnderflow(t *testing.T) {
	s := NewStack()
	_, err := s.Pop()
	require.Error(t, err)
	var underflow *ErrStackUnderflow
	require.ErrorAs(t, err, &underflow)
	assert.Equal(t, 1, underflow.Required)
	assert.Equal(t, 0, underflow.Available)
}

func TestStackOverflow(t *testing.T) {
	s := NewStack()
	for i := 0; i < StackCapacity; i++ {
		require.NoError(t, s.Push(WordFromUint64(uint64(i))))
	}
	err := s.Push(WordZero())
	require.Error(t, err)
	var overflow *ErrStackOverflow
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, StackCapacity, overflow.Max)
}

func TestStackDupSwap(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.Push(WordFromUint64(1)))
	require.NoError(t, s.Push(WordFromUint64(2)))
	require.NoError(t, s.Push(WordFromUint64(3)))

	require.NoError(t, s.Dup(1)) // duplicate the item one below top (2)
	top, _ := s.Peek(0)
	assert.True(t, top.Eq(WordFromUint64(2)))

	require.NoError(t, s.Swap(1))
	top, _ = s.Peek(0)
	second, _ := s.Peek(1)
	assert.True(t, top.Eq(WordFromUint64(3)))
	assert.True(t, second.Eq(WordFromUint64(2)))
}

func TestStackRestoreFrom(t *testing.T) {
	s := NewStack()
	s.Push(WordOne())
	snapshot := s.ToSlice()
	s.Push(WordFromUint64(2))
	s.RestoreFrom(snapshot)
	assert.Equal(t, 1, s.Len())
}
