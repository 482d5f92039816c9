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

package executor

import (
	"github.com/chronovm/chronovm/journal"
	"github.com/chronovm/chronovm/vm"
)

// StepBackward undoes the most recently recorded instruction: it pops the
// newest InstructionJournal and applies the inverse of each of its deltas
// in reverse emission order. Returns vm.ErrJournalExhausted if there is
// nothing left to undo.
func StepBackward(v *vm.Vm, j *journal.Journal) error {
	entry, err := j.Pop()
	if err != nil {
		return err
	}
	state := v.State()
	for i := len(entry.Deltas) - 1; i >= 0; i-- {
		entry.Deltas[i].Revert(state)
	}
	return nil
}

// Rewind calls StepBackward up to n times, stopping early (without error)
// once the journal is exhausted.
func Rewind(v *vm.Vm, j *journal.Journal, n int) int {
	undone := 0
	for i := 0; i < n; i++ {
		if err := StepBackward(v, j); err != nil {
			break
		}
		undone++
	}
	return undone
}

// RewindTo restores execution to the state after the first targetIndex
// recorded instructions, leaving targetIndex entries in the journal (the
// point that len(journal)-targetIndex calls to StepBackward reach). When a
// checkpoint at or before targetIndex exists it restores that snapshot and
// replays forward from it; otherwise it inverts step by step. Both paths
// give the same pc, gas, stack, storage contents, return data and call
// stack. Memory size differs: the checkpoint path takes it from the
// snapshot, while step-by-step inversion leaves the high-water mark as is.
func RewindTo(v *vm.Vm, j *journal.Journal, targetIndex int) error {
	if targetIndex < 0 || targetIndex > j.Len() {
		return &vm.ErrCheckpointNotFound{Index: targetIndex}
	}
	if targetIndex == j.Len() {
		return nil
	}

	cp, ok := j.FindCheckpointBefore(targetIndex)
	if !ok {
		for j.Len() > targetIndex {
			if err := StepBackward(v, j); err != nil {
				return err
			}
		}
		return nil
	}

	cp.Snapshot.Restore(v.State())
	// Truncate the journal back to the checkpoint and replay forward from
	// there. Replay is deterministic, so the regenerated entries are
	// identical to the ones being discarded.
	j.TruncateTo(cp.InstructionIndex)
	for idx := cp.InstructionIndex; idx < targetIndex; idx++ {
		if _, err := StepForward(v, j); err != nil {
			return err
		}
	}
	return nil
}
