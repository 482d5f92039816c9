// Copyright 2024 The chronovm Authors
// This file is part of chronovm.
//
// chronovm is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// chronovm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with chronovm. If not, see <http://www.gnu.org/licenses/>.

package vm

// memoryPageSize is the lazy allocation granularity. Pages are allocated on
// first touch so programs that only ever write to low offsets don't pay for
// the full addressable range.
const memoryPageSize = 4096

// Memory is byte-addressable, word- and byte-addressed working memory. It
// grows in page-sized increments and tracks a high-water mark `size`
// reflecting the largest offset ever touched, matching the EVM's MSIZE
// semantics: size only ever grows, even across a rewind's journaled writes
// (memory expansion is advisory-only and is not inverted — see the reverse
// executor).
type Memory struct {
	pages map[int][]byte
	size  uint64
}

// NewMemory returns empty memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[int][]byte)}
}

// Size returns the current high-water mark, in bytes.
func (m *Memory) Size() uint64 { return m.size }

func (m *Memory) page(idx int) []byte {
	p, ok := m.pages[idx]
	if !ok {
		p = make([]byte, memoryPageSize)
		m.pages[idx] = p
	}
	return p
}

func (m *Memory) growTo(offset uint64) {
	if offset > m.size {
		m.size = offset
	}
}

// readByte returns the byte at offset without growing size, substituting
// zero for untouched pages.
func (m *Memory) readByte(offset uint64) byte {
	pageIdx := int(offset / memoryPageSize)
	p, ok := m.pages[pageIdx]
	if !ok {
		return 0
	}
	return p[offset%memoryPageSize]
}

func (m *Memory) writeByte(offset uint64, b byte) {
	pageIdx := int(offset / memoryPageSize)
	p := m.page(pageIdx)
	p[offset%memoryPageSize] = b
}

// PeekByte reads a single byte without growing the high-water mark, used by
// callers that need to inspect memory speculatively.
func (m *Memory) PeekByte(offset uint64) byte {
	return m.readByte(offset)
}

// LoadWord reads the 32 bytes starting at offset, growing size if needed.
func (m *Memory) LoadWord(offset uint64) Word {
	m.growTo(offset + 32)
	var be [32]byte
	for i := uint64(0); i < 32; i++ {
		be[i] = m.readByte(offset + i)
	}
	return WordFromBigEndian(be)
}

// StoreWord writes w's 32 big-endian bytes starting at offset, returning the
// bytes that were overwritten so the caller can journal an inverse.
func (m *Memory) StoreWord(offset uint64, w Word) (old [32]byte) {
	m.growTo(offset + 32)
	be := w.BigEndian()
	for i := uint64(0); i < 32; i++ {
		old[i] = m.readByte(offset + i)
		m.writeByte(offset+i, be[i])
	}
	return old
}

// StoreByte writes a single byte at offset, returning the byte it replaced.
func (m *Memory) StoreByte(offset uint64, b byte) (old byte) {
	m.growTo(offset + 1)
	old = m.readByte(offset)
	m.writeByte(offset, b)
	return old
}

// StoreBytes writes raw bytes starting at offset, returning the bytes that
// were overwritten. Used by the reverse executor to undo a StoreWord or
// StoreByte in one call.
func (m *Memory) StoreBytes(offset uint64, data []byte) (old []byte) {
	m.growTo(offset + uint64(len(data)))
	old = make([]byte, len(data))
	for i, b := range data {
		old[i] = m.readByte(offset + uint64(i))
		m.writeByte(offset+uint64(i), b)
	}
	return old
}

// Clear discards all pages and resets the high-water mark to zero.
func (m *Memory) Clear() {
	m.pages = make(map[int][]byte)
	m.size = 0
}

// MemorySnapshot is an opaque, restorable copy of memory's full state.
type MemorySnapshot struct {
	pages map[int][]byte
	size  uint64
}

// Snapshot captures the full contents of memory for checkpointing.
func (m *Memory) Snapshot() *MemorySnapshot {
	pages := make(map[int][]byte, len(m.pages))
	for idx, p := range m.pages {
		cp := make([]byte, len(p))
		copy(cp, p)
		pages[idx] = cp
	}
	return &MemorySnapshot{pages: pages, size: m.size}
}

// RestoreFrom replaces memory's contents with a previously captured
// snapshot.
func (m *Memory) RestoreFrom(snap *MemorySnapshot) {
	pages := make(map[int][]byte, len(snap.pages))
	for idx, p := range snap.pages {
		cp := make([]byte, len(p))
		copy(cp, p)
		pages[idx] = cp
	}
	m.pages = pages
	m.size = snap.size
}

// Clone returns an independent deep copy of memory.
func (m *Memory) Clone() *Memory {
	c := &Memory{pages: make(map[int][]byte, len(m.pages)), size: m.size}
	for idx, p := range m.pages {
		cp := make([]byte, len(p))
		copy(cp, p)
		c.pages[idx] = cp
	}
	return c
}
