package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageGetInsert(t *testing.T) {
	s := NewStorage()
	assert.True(t, s.Get(WordOne()).IsZero())
	assert.False(t, s.Contains(WordOne()))

	displaced := s.Insert(WordOne(), WordFromUint64(42))
	assert.True(t, displaced.IsZero())
	assert.True(t, s.Get(WordOne()).Eq(WordFromUint64(42)))
	assert.True(t, s.Contains(WordOne()))
}

func TestStorageInsertZeroDeletes(t *testing.T) {
	s := NewStorage()
	s.Insert(WordOne(), WordFromUint64(42))
	s.Insert(WordOne(), WordZero())
	assert.False(t, s.Contains(WordOne()))
}

func TestStorageOriginalTracking(t *testing.T) {
	s := NewStorage()
	s.Insert(WordOne(), WordFromUint64(1))
	assert.True(t, s.GetOriginal(WordOne()).IsZero())
	s.Insert(WordOne(), WordFromUint64(2))
	// original only records the value as of the first touch.
	assert.True(t, s.GetOriginal(WordOne()).IsZero())
}

func TestStorageSetBypassDoesNotTouchOriginal(t *testing.T) {
	s := NewStorage()
	s.Insert(WordOne(), WordFromUint64(42))
	assert.True(t, s.GetOriginal(WordOne()).IsZero())

	// Undo the write the way the reverse executor would.
	s.SetBypass(WordOne(), WordZero())
	assert.True(t, s.Get(WordOne()).IsZero())
	// original is unaffected by the bypass write.
	assert.True(t, s.GetOriginal(WordOne()).IsZero())
}

func TestStorageSnapshotRestore(t *testing.T) {
	s := NewStorage()
	s.Insert(WordOne(), WordFromUint64(1))
	snap := s.Snapshot()
	s.Insert(WordOne(), WordFromUint64(2))
	s.RestoreFrom(snap)
	assert.True(t, s.Get(WordOne()).Eq(WordFromUint64(1)))
}

func TestStorageCommitResetsOriginal(t *testing.T) {
	s := NewStorage()
	s.Insert(WordOne(), WordFromUint64(1))
	s.Commit()
	assert.True(t, s.GetOriginal(WordOne()).Eq(WordFromUint64(1)))
}
