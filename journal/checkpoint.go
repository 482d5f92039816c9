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

// StateSnapshot is a full, independent copy of a VmState, captured at a
// checkpoint so RewindTo can restore to it directly instead of inverting
// every intervening instruction.
type StateSnapshot struct {
	PC         uint64
	Gas        uint64
	Stack      []vm.Word
	Memory     *vm.MemorySnapshot
	Storage    *vm.StorageSnapshot
	ReturnData []byte
	CallStack  []vm.CallFrame
}

// CaptureState builds a StateSnapshot from the live state.
func CaptureState(state *vm.VmState) *StateSnapshot {
	callStack := make([]vm.CallFrame, len(state.CallStack))
	copy(callStack, state.CallStack)
	returnData := make([]byte, len(state.ReturnData))
	copy(returnData, state.ReturnData)
	return &StateSnapshot{
		PC:         state.PC,
		Gas:        state.Gas,
		Stack:      state.Stack.ToSlice(),
		Memory:     state.Memory.Snapshot(),
		Storage:    state.Storage.Snapshot(),
		ReturnData: returnData,
		CallStack:  callStack,
	}
}

// Restore overwrites state in place with the snapshot's contents.
func (s *StateSnapshot) Restore(state *vm.VmState) {
	state.PC = s.PC
	state.Gas = s.Gas
	state.Stack.RestoreFrom(s.Stack)
	state.Memory.RestoreFrom(s.Memory)
	state.Storage.RestoreFrom(s.Storage)
	state.ReturnData = append([]byte(nil), s.ReturnData...)
	state.CallStack = append([]vm.CallFrame(nil), s.CallStack...)
}

// Checkpoint pairs a full state snapshot with the instruction index (the
// journal length) at which it was captured, so rewinds can find the
// nearest checkpoint at or before a target index.
type Checkpoint struct {
	InstructionIndex int
	Snapshot         *StateSnapshot
}
