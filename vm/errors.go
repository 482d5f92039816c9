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

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that carry no structured detail.
var (
	// ErrJournalExhausted is returned by StepBackward when no instruction
	// remains to undo.
	ErrJournalExhausted = errors.New("journal exhausted: cannot rewind further")

	// ErrWriteProtectedStorage is reserved for static-call gating; the core
	// does not implement static calls so this is never returned today.
	ErrWriteProtectedStorage = errors.New("write to protected storage")
)

// ErrStackUnderflow is returned when an operation needs more stack items
// than are present.
type ErrStackUnderflow struct {
	Required  int
	Available int
}

func (e *ErrStackUnderflow) Error() string {
	return fmt.Sprintf("stack underflow: need %d, have %d", e.Required, e.Available)
}

// ErrStackOverflow is returned by Stack.Push when the stack is at capacity.
type ErrStackOverflow struct {
	Max int
}

func (e *ErrStackOverflow) Error() string {
	return fmt.Sprintf("stack overflow: max size is %d", e.Max)
}

// ErrOutOfGas is returned when an opcode's base cost exceeds remaining gas.
type ErrOutOfGas struct {
	Required  uint64
	Available uint64
}

func (e *ErrOutOfGas) Error() string {
	return fmt.Sprintf("out of gas: need %d, have %d", e.Required, e.Available)
}

// ErrInvalidJump is returned when a JUMP/JUMPI target is not a valid
// jump destination.
type ErrInvalidJump struct {
	Destination uint64
}

func (e *ErrInvalidJump) Error() string {
	return fmt.Sprintf("invalid jump to %#x", e.Destination)
}

// ErrInvalidOpcode is returned when a byte does not decode to a known
// opcode.
type ErrInvalidOpcode struct {
	Opcode byte
}

func (e *ErrInvalidOpcode) Error() string {
	return fmt.Sprintf("invalid opcode: %#02x", e.Opcode)
}

// ErrOutOfBoundsMemory is reserved for caller-driven sizes that cannot be
// represented; memory itself autogrows and never raises this on its own.
type ErrOutOfBoundsMemory struct {
	Offset uint64
	Size   uint64
}

func (e *ErrOutOfBoundsMemory) Error() string {
	return fmt.Sprintf("memory access out of bounds: offset=%d, size=%d", e.Offset, e.Size)
}

// ErrCallDepthExceeded is reserved for a future call-depth gate.
type ErrCallDepthExceeded struct {
	Max int
}

func (e *ErrCallDepthExceeded) Error() string {
	return fmt.Sprintf("call depth exceeded: max is %d", e.Max)
}

// ErrCheckpointNotFound is returned by checkpoint lookups that miss.
type ErrCheckpointNotFound struct {
	Index int
}

func (e *ErrCheckpointNotFound) Error() string {
	return fmt.Sprintf("checkpoint not found at index %d", e.Index)
}
