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

// MaxCallDepth bounds the call stack. The core interpreter treats call
// opcodes as no-ops today, so this is never reached in practice, but the
// constant and frame type exist so CallEnter/CallExit journal entries carry
// real data rather than placeholders.
const MaxCallDepth = 1024

// CallFrame describes one level of an (unimplemented) call stack: the
// caller's return address, the callee's address, and the gas stipend it was
// handed.
type CallFrame struct {
	Caller     Address
	Callee     Address
	ReturnPC   uint64
	GasStipend uint64
}

// CallFrameSnapshot is an immutable copy of a CallFrame, stored in
// CallEnter/CallExit journal deltas so undoing them doesn't alias live
// frame state.
type CallFrameSnapshot struct {
	Caller     Address
	Callee     Address
	ReturnPC   uint64
	GasStipend uint64
}

// Snapshot copies f into a CallFrameSnapshot.
func (f CallFrame) Snapshot() CallFrameSnapshot {
	return CallFrameSnapshot{
		Caller:     f.Caller,
		Callee:     f.Callee,
		ReturnPC:   f.ReturnPC,
		GasStipend: f.GasStipend,
	}
}

// Restore copies a CallFrameSnapshot back into a CallFrame.
func (snap CallFrameSnapshot) Restore() CallFrame {
	return CallFrame{
		Caller:     snap.Caller,
		Callee:     snap.Callee,
		ReturnPC:   snap.ReturnPC,
		GasStipend: snap.GasStipend,
	}
}
