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

// Package journal records, per instruction, the sequence of state mutations
// an executor applied, so the reverse executor can undo them one at a time
// without re-deriving what changed.
package journal

import "github.com/chronovm/chronovm/vm"

// Delta is one state mutation recorded during a forward step. Reverting a
// delta must restore the exact prior value, not merely a plausible one —
// deltas carry the displaced value rather than recomputing it.
type Delta interface {
	// Revert undoes the mutation against state, in place.
	Revert(state *vm.VmState)

	// Kind names the delta variant for display and testing.
	Kind() string
}

// StackPush records that a value was pushed; reverting pops it.
type StackPush struct{ Value vm.Word }

func (d StackPush) Revert(state *vm.VmState) { state.Stack.Pop() }
func (d StackPush) Kind() string             { return "StackPush" }

// StackPop records that a value was popped; reverting pushes it back.
type StackPop struct{ Value vm.Word }

func (d StackPop) Revert(state *vm.VmState) { state.Stack.Push(d.Value) }
func (d StackPop) Kind() string             { return "StackPop" }

// MemoryWrite records bytes overwritten starting at Offset; reverting
// writes Old back in place. It does not shrink Memory's high-water mark —
// memory expansion is advisory-only and is never inverted.
type MemoryWrite struct {
	Offset uint64
	Old    []byte
}

func (d MemoryWrite) Revert(state *vm.VmState) { state.Memory.StoreBytes(d.Offset, d.Old) }
func (d MemoryWrite) Kind() string             { return "MemoryWrite" }

// MemoryExpansion records that Memory's high-water mark grew from OldSize.
// It is advisory only: reverting it is a no-op, so the high-water mark does
// not shrink on rewind, and MSIZE (and StateHash, which covers memory size)
// after such a rewind report the grown size rather than the historical one.
type MemoryExpansion struct{ OldSize uint64 }

func (d MemoryExpansion) Revert(state *vm.VmState) {}
func (d MemoryExpansion) Kind() string             { return "MemoryExpansion" }

// StorageWrite records a key's displaced value; reverting writes it back
// via Storage.SetBypass, which does not disturb the original-value
// tracking used for gas accounting.
type StorageWrite struct {
	Key      vm.Word
	OldValue vm.Word
}

func (d StorageWrite) Revert(state *vm.VmState) { state.Storage.SetBypass(d.Key, d.OldValue) }
func (d StorageWrite) Kind() string             { return "StorageWrite" }

// PcChange records the program counter's prior value.
type PcChange struct{ OldPC uint64 }

func (d PcChange) Revert(state *vm.VmState) { state.PC = d.OldPC }
func (d PcChange) Kind() string             { return "PcChange" }

// GasChange records gas remaining before the instruction's deduction.
type GasChange struct{ OldGas uint64 }

func (d GasChange) Revert(state *vm.VmState) { state.Gas = d.OldGas }
func (d GasChange) Kind() string             { return "GasChange" }

// CallEnter records a frame pushed onto the call stack.
type CallEnter struct{ Frame vm.CallFrameSnapshot }

func (d CallEnter) Revert(state *vm.VmState) {
	if n := len(state.CallStack); n > 0 {
		state.CallStack = state.CallStack[:n-1]
	}
}
func (d CallEnter) Kind() string { return "CallEnter" }

// CallExit records a frame popped off the call stack; reverting pushes it
// back.
type CallExit struct{ Frame vm.CallFrameSnapshot }

func (d CallExit) Revert(state *vm.VmState) {
	state.CallStack = append(state.CallStack, d.Frame.Restore())
}
func (d CallExit) Kind() string { return "CallExit" }

// ReturnDataSet records the prior contents of ReturnData.
type ReturnDataSet struct{ OldData []byte }

func (d ReturnDataSet) Revert(state *vm.VmState) {
	state.ReturnData = append([]byte(nil), d.OldData...)
}
func (d ReturnDataSet) Kind() string { return "ReturnDataSet" }
