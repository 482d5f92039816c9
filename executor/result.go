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

// Package executor drives a vm.Vm forward and backward through its
// bytecode, recording and inverting journal.Delta sequences as it goes.
package executor

import "fmt"

// HaltKind distinguishes why execution stopped.
type HaltKind int

const (
	HaltStop HaltKind = iota
	HaltReturn
	HaltRevert
	HaltInvalidOpcode
)

func (k HaltKind) String() string {
	switch k {
	case HaltStop:
		return "Stop"
	case HaltReturn:
		return "Return"
	case HaltRevert:
		return "Revert"
	case HaltInvalidOpcode:
		return "InvalidOpcode"
	default:
		return "Unknown"
	}
}

// HaltInfo describes a halted execution.
type HaltInfo struct {
	Kind   HaltKind
	Opcode byte // populated only when Kind == HaltInvalidOpcode
}

func (h HaltInfo) String() string {
	if h.Kind == HaltInvalidOpcode {
		return fmt.Sprintf("Halt InvalidOpcode(%#02x)", h.Opcode)
	}
	return "Halt " + h.Kind.String()
}

// StepResult is returned by StepForward on success (i.e. no error): either
// an ordinary instruction executed and the Vm can keep stepping, or
// execution halted.
type StepResult struct {
	Halted bool
	Halt   HaltInfo
}

// ExecutionResult summarizes a full Run to completion.
type ExecutionResult struct {
	Success    bool
	Halt       HaltInfo
	ReturnData []byte
	GasUsed    uint64
	Err        error
}
