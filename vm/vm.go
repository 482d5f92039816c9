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

import "hash/fnv"

// Vm is the facade over one execution: immutable bytecode and block
// context, precomputed jump-dest validity, and the single mutable VmState
// the executor package steps forward and backward through. Vm carries no
// journal of its own — that lives alongside it in the journal package — so
// a Vm is fully self-contained and safe to Clone for replica-based
// exploration.
type Vm struct {
	bytecode   []byte
	context    BlockContext
	jumpDests  []bool
	initialGas uint64
	state      *VmState
}

// New constructs a Vm over bytecode with initialGas and a fixed block
// context, precomputing the valid-jumpdest bitmap once up front.
func New(bytecode []byte, initialGas uint64, context BlockContext) *Vm {
	v := &Vm{
		bytecode:   append([]byte(nil), bytecode...),
		context:    context,
		initialGas: initialGas,
	}
	v.jumpDests = computeJumpDests(v.bytecode)
	v.state = NewVmState(initialGas)
	return v
}

// computeJumpDests scans code once, marking each JUMPDEST byte reached as
// an actual instruction (never inside a PUSHn's immediate window) as a
// valid jump target.
func computeJumpDests(code []byte) []bool {
	dests := make([]bool, len(code))
	for pc := 0; pc < len(code); {
		op := Opcode(code[pc])
		if op == JUMPDEST {
			dests[pc] = true
		}
		if op.IsPush() {
			pc += 1 + op.ImmediateSize()
			continue
		}
		pc++
	}
	return dests
}

// Bytecode returns the program this Vm executes. The returned slice must
// not be mutated.
func (v *Vm) Bytecode() []byte { return v.bytecode }

// Context returns the immutable block context.
func (v *Vm) Context() BlockContext { return v.context }

// State returns the live, mutable execution state.
func (v *Vm) State() *VmState { return v.state }

// InitialGas returns the gas the Vm was constructed (or last Reset) with.
func (v *Vm) InitialGas() uint64 { return v.initialGas }

// IsValidJump reports whether dest is a JUMPDEST reached as an instruction
// boundary, not inside a PUSH immediate.
func (v *Vm) IsValidJump(dest uint64) bool {
	if dest >= uint64(len(v.jumpDests)) {
		return false
	}
	return v.jumpDests[dest]
}

// Reset reinitializes execution state to pc=0 with fresh gas, clearing the
// stack, memory, storage and call stack. Bytecode and the jump-dest cache
// are retained; callers own clearing any associated journal separately.
func (v *Vm) Reset(gas uint64) {
	v.initialGas = gas
	v.state = NewVmState(gas)
}

// Clone returns an independent deep copy of the Vm, sharing the immutable
// bytecode and jump-dest bitmap but with fully independent mutable state.
func (v *Vm) Clone() *Vm {
	return &Vm{
		bytecode:   v.bytecode,
		context:    v.context,
		jumpDests:  v.jumpDests,
		initialGas: v.initialGas,
		state:      v.state.Clone(),
	}
}

// StateHash computes a fast, non-cryptographic, reproducible digest of the
// execution state (pc, gas, stack contents, memory size) suitable for the
// per-instruction journal header and for distinguishing live state against
// a restored checkpoint in tests. It is not a commitment and must not be
// used for anything security-sensitive.
func (v *Vm) StateHash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putUint64(&buf, v.state.PC)
	h.Write(buf[:])
	putUint64(&buf, v.state.Gas)
	h.Write(buf[:])
	putUint64(&buf, v.state.Memory.Size())
	h.Write(buf[:])
	for _, w := range v.state.Stack.ToSlice() {
		be := w.BigEndian()
		h.Write(be[:])
	}
	return h.Sum64()
}

func putUint64(buf *[8]byte, x uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(x >> (8 * uint(i)))
	}
}
