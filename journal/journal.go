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

package journal

import "github.com/chronovm/chronovm/vm"

// DefaultCheckpointInterval matches spec: a full state snapshot every 1000
// instructions bounds the cost of an arbitrary rewind to O(interval).
const DefaultCheckpointInterval = 1000

// InstructionJournal is the header and delta sequence for one executed
// instruction: enough to both display what happened and invert it exactly.
type InstructionJournal struct {
	PCBefore       uint64
	Opcode         byte
	GasBefore      uint64
	GasAfter       uint64
	StateHashAfter uint64
	Deltas         []Delta
}

// Journal is the ordered record of instructions executed so far, plus the
// checkpoints taken along the way. It holds no reference to a live Vm;
// callers capture and pass snapshots explicitly.
type Journal struct {
	entries            []*InstructionJournal
	checkpoints        []Checkpoint
	checkpointInterval int
	softCap            int
}

// New returns an empty journal. softCap <= 0 disables the drop-oldest
// behavior entirely.
func New(checkpointInterval, softCap int) *Journal {
	if checkpointInterval <= 0 {
		checkpointInterval = DefaultCheckpointInterval
	}
	return &Journal{checkpointInterval: checkpointInterval, softCap: softCap}
}

// Len reports the number of recorded instructions.
func (j *Journal) Len() int { return len(j.entries) }

// IsEmpty reports whether no instructions have been recorded.
func (j *Journal) IsEmpty() bool { return len(j.entries) == 0 }

// CheckpointInterval returns the configured checkpoint period.
func (j *Journal) CheckpointInterval() int { return j.checkpointInterval }

// Record appends a fully-built instruction journal, then enforces the soft
// size cap if one is configured.
func (j *Journal) Record(entry *InstructionJournal) {
	j.entries = append(j.entries, entry)
	j.enforceSoftCap()
}

// ShouldCheckpoint reports whether the journal's current length is a
// multiple of the checkpoint interval, i.e. whether the executor should
// call AddCheckpoint after this Record.
func (j *Journal) ShouldCheckpoint() bool {
	n := len(j.entries)
	return n > 0 && n%j.checkpointInterval == 0
}

// AddCheckpoint records snap as the state at the journal's current length.
func (j *Journal) AddCheckpoint(snap *StateSnapshot) {
	j.checkpoints = append(j.checkpoints, Checkpoint{InstructionIndex: len(j.entries), Snapshot: snap})
}

// Peek returns the most recently recorded instruction journal without
// removing it.
func (j *Journal) Peek() (*InstructionJournal, error) {
	if len(j.entries) == 0 {
		return nil, vm.ErrJournalExhausted
	}
	return j.entries[len(j.entries)-1], nil
}

// Pop removes and returns the most recently recorded instruction journal,
// for the reverse executor to invert.
func (j *Journal) Pop() (*InstructionJournal, error) {
	if len(j.entries) == 0 {
		return nil, vm.ErrJournalExhausted
	}
	n := len(j.entries) - 1
	entry := j.entries[n]
	j.entries = j.entries[:n]
	j.dropCheckpointsAbove(n)
	return entry, nil
}

// TruncateTo discards entries at or above length, and checkpoints above it
// (a checkpoint at exactly length is kept), without reverting anything, for callers that have already restored state by
// other means (e.g. RewindTo's checkpoint-plus-replay path) and only need
// the journal's bookkeeping brought back in sync.
func (j *Journal) TruncateTo(length int) {
	if length < len(j.entries) {
		j.entries = j.entries[:length]
	}
	j.dropCheckpointsAbove(length)
}

// Get returns the instruction journal at index.
func (j *Journal) Get(index int) (*InstructionJournal, error) {
	if index < 0 || index >= len(j.entries) {
		return nil, &vm.ErrCheckpointNotFound{Index: index}
	}
	return j.entries[index], nil
}

// FindCheckpointBefore returns the checkpoint with the largest
// InstructionIndex <= index, if any.
func (j *Journal) FindCheckpointBefore(index int) (Checkpoint, bool) {
	var best Checkpoint
	found := false
	for _, cp := range j.checkpoints {
		if cp.InstructionIndex <= index && (!found || cp.InstructionIndex > best.InstructionIndex) {
			best = cp
			found = true
		}
	}
	return best, found
}

// Clear discards all entries and checkpoints.
func (j *Journal) Clear() {
	j.entries = nil
	j.checkpoints = nil
}

// dropCheckpointsAbove removes checkpoints whose InstructionIndex now
// exceeds the journal's current length, called after Pop shortens it.
func (j *Journal) dropCheckpointsAbove(length int) {
	kept := j.checkpoints[:0]
	for _, cp := range j.checkpoints {
		if cp.InstructionIndex <= length {
			kept = append(kept, cp)
		}
	}
	j.checkpoints = kept
}

// enforceSoftCap drops the oldest tenth of entries once the journal
// exceeds softCap, reindexing the remaining entries' implicit positions
// and dropping (or shifting) checkpoints accordingly. Checkpoints that
// fall below the new zero point are discarded since the state they
// describe is no longer reachable by index.
func (j *Journal) enforceSoftCap() {
	if j.softCap <= 0 || len(j.entries) <= j.softCap {
		return
	}
	drop := j.softCap / 10
	if drop <= 0 {
		drop = 1
	}
	if drop > len(j.entries) {
		drop = len(j.entries)
	}
	j.entries = append([]*InstructionJournal(nil), j.entries[drop:]...)

	var kept []Checkpoint
	for _, cp := range j.checkpoints {
		if cp.InstructionIndex < drop {
			continue
		}
		cp.InstructionIndex -= drop
		kept = append(kept, cp)
	}
	j.checkpoints = kept
}
