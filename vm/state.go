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

// VmState is the full mutable state of one execution: program counter,
// remaining gas, the three state containers, pending return data, and an
// (unused in practice, see CallFrame) call stack.
type VmState struct {
	PC         uint64
	Gas        uint64
	Stack      *Stack
	Memory     *Memory
	Storage    *Storage
	ReturnData []byte
	CallStack  []CallFrame
}

// NewVmState returns a fresh state with the given initial gas, empty
// containers, and an empty call stack.
func NewVmState(gas uint64) *VmState {
	return &VmState{
		Gas:     gas,
		Stack:   NewStack(),
		Memory:  NewMemory(),
		Storage: NewStorage(),
	}
}

// Clone returns an independent deep copy of the state, used by Vm.Clone for
// replica-based parallel exploration.
func (s *VmState) Clone() *VmState {
	callStack := make([]CallFrame, len(s.CallStack))
	copy(callStack, s.CallStack)
	returnData := make([]byte, len(s.ReturnData))
	copy(returnData, s.ReturnData)
	return &VmState{
		PC:         s.PC,
		Gas:        s.Gas,
		Stack:      s.Stack.Clone(),
		Memory:     s.Memory.Clone(),
		Storage:    s.Storage.Clone(),
		ReturnData: returnData,
		CallStack:  callStack,
	}
}
