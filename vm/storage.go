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

// Storage is persistent key/value state, keyed and valued by Word. Alongside
// the live data it tracks each key's "original" value, the value in effect
// before the key's first write since the last Commit — the same
// bookkeeping go-ethereum's StateDB uses to compute SSTORE gas refunds.
//
// Reads never populate original (SLOAD is not journaled); only Insert does,
// and only on a key's first write. SetBypass, used exclusively by the
// reverse executor to undo an SSTORE, deliberately does not touch original:
// un-doing a write must not look like a fresh write for gas-accounting
// purposes.
type Storage struct {
	data     map[Word]Word
	original map[Word]Word
}

// NewStorage returns empty storage.
func NewStorage() *Storage {
	return &Storage{data: make(map[Word]Word), original: make(map[Word]Word)}
}

// Get returns the value at key, or zero if unset.
func (s *Storage) Get(key Word) Word {
	if v, ok := s.data[key]; ok {
		return v
	}
	return WordZero()
}

// Contains reports whether key currently holds a non-zero value.
func (s *Storage) Contains(key Word) bool {
	return !s.Get(key).IsZero()
}

// GetOriginal returns the value key held before it was first written in the
// current commit epoch, or its current value if it has not been touched.
func (s *Storage) GetOriginal(key Word) Word {
	if v, ok := s.original[key]; ok {
		return v
	}
	return s.Get(key)
}

// Insert writes value at key, recording key's pre-write value in original on
// first touch, and returns the value it displaced (for journaling a forward
// SSTORE's inverse).
func (s *Storage) Insert(key, value Word) (displaced Word) {
	displaced = s.Get(key)
	if _, touched := s.original[key]; !touched {
		s.original[key] = displaced
	}
	if value.IsZero() {
		delete(s.data, key)
	} else {
		s.data[key] = value
	}
	return displaced
}

// SetBypass writes value at key without touching original. The reverse
// executor uses this to restore a pre-SSTORE value so that undoing a write
// doesn't itself register as a new original-value checkpoint.
func (s *Storage) SetBypass(key, value Word) {
	if value.IsZero() {
		delete(s.data, key)
	} else {
		s.data[key] = value
	}
}

// Commit clears the original-value tracking, starting a new gas-accounting
// epoch. Not exercised by the core step loop today, but mirrors
// StateDB.Finalise's role for a future multi-transaction host.
func (s *Storage) Commit() {
	s.original = make(map[Word]Word)
}

// StorageSnapshot is an opaque, restorable copy of storage's full state.
type StorageSnapshot struct {
	data     map[Word]Word
	original map[Word]Word
}

// Snapshot captures storage's full contents for checkpointing.
func (s *Storage) Snapshot() *StorageSnapshot {
	data := make(map[Word]Word, len(s.data))
	for k, v := range s.data {
		data[k] = v
	}
	original := make(map[Word]Word, len(s.original))
	for k, v := range s.original {
		original[k] = v
	}
	return &StorageSnapshot{data: data, original: original}
}

// RestoreFrom replaces storage's contents with a previously captured
// snapshot.
func (s *Storage) RestoreFrom(snap *StorageSnapshot) {
	data := make(map[Word]Word, len(snap.data))
	for k, v := range snap.data {
		data[k] = v
	}
	original := make(map[Word]Word, len(snap.original))
	for k, v := range snap.original {
		original[k] = v
	}
	s.data = data
	s.original = original
}

// Clone returns an independent deep copy of storage.
func (s *Storage) Clone() *Storage {
	snap := s.Snapshot()
	return &Storage{data: snap.data, original: snap.original}
}
