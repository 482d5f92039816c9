package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreLoadWord(t *testing.T) {
	m := NewMemory()
	w := WordFromUint64(0x2a)
	m.StoreWord(0, w)
	assert.True(t, m.LoadWord(0).Eq(w))
	assert.Equal(t, uint64(32), m.Size())
}

func TestMemoryStoreByte(t *testing.T) {
	m := NewMemory()
	old := m.StoreByte(5, 0xFF)
	assert.Equal(t, byte(0), old)
	assert.Equal(t, byte(0xFF), m.PeekByte(5))
	assert.Equal(t, uint64(6), m.Size())
}

func TestMemoryPeekByteDoesNotGrow(t *testing.T) {
	m := NewMemory()
	_ = m.PeekByte(1000)
	assert.Equal(t, uint64(0), m.Size())
}

func TestMemoryPageBoundary(t *testing.T) {
	m := NewMemory()
	w := WordFromUint64(0x1122334455667788)
	m.StoreWord(memoryPageSize-16, w)
	assert.True(t, m.LoadWord(memoryPageSize-16).Eq(w))
}

func TestMemorySnapshotRestore(t *testing.T) {
	m := NewMemory()
	m.StoreWord(0, WordFromUint64(1))
	snap := m.Snapshot()
	m.StoreWord(0, WordFromUint64(2))
	m.RestoreFrom(snap)
	assert.True(t, m.LoadWord(0).Eq(WordFromUint64(1)))
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory()
	m.StoreWord(0, WordOne())
	m.Clear()
	assert.Equal(t, uint64(0), m.Size())
	assert.True(t, m.LoadWord(0).IsZero())
}

func TestMemoryStoreBytesInverse(t *testing.T) {
	m := NewMemory()
	w := WordFromUint64(42)
	old := m.StoreWord(0, w) // old is all zero, memory was empty
	overwritten := m.StoreBytes(0, old[:])
	assert.True(t, m.LoadWord(0).IsZero())
	assert.Equal(t, w.BigEndian(), toArray32(overwritten))
}

func toArray32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}
