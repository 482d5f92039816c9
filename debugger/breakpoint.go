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

package debugger

import (
	"errors"
	"fmt"

	"github.com/chronovm/chronovm/vm"
)

// ErrReachedBeginning is returned by RunBackward when the journal empties
// before maxSteps or a breakpoint is hit.
var ErrReachedBeginning = errors.New("reached beginning of journal")

// BreakpointID identifies a registered breakpoint for later removal.
type BreakpointID uint64

// BreakpointKind discriminates the Breakpoint variants.
type BreakpointKind int

const (
	// BreakOnPC fires when the program counter equals PC before the next
	// instruction executes.
	BreakOnPC BreakpointKind = iota
	// BreakOnOpcode fires when the next instruction to execute is Opcode.
	BreakOnOpcode
	// BreakOnStorageAccess is reserved: the core executor has no concept
	// of "accessing" a storage slot independent of SLOAD/SSTORE dispatch,
	// so this variant is declared for API completeness but never matches.
	BreakOnStorageAccess
	// BreakOnMemoryAccess is reserved for the same reason as
	// BreakOnStorageAccess.
	BreakOnMemoryAccess
	// BreakOnGasBelow fires when remaining gas drops below GasThreshold.
	BreakOnGasBelow
	// BreakOnAfterInstructions fires once the instruction counter reaches
	// AfterCount.
	BreakOnAfterInstructions
)

// Breakpoint is a condition checked before each step, forward or backward.
type Breakpoint struct {
	Kind         BreakpointKind
	PC           uint64
	Opcode       vm.Opcode
	GasThreshold uint64
	AfterCount   uint64
}

// StopReason explains why RunForward returned early without a halt.
type StopReason struct {
	BreakpointID BreakpointID
	Breakpoint   Breakpoint
}

func (r StopReason) String() string {
	return fmt.Sprintf("breakpoint %d hit", r.BreakpointID)
}

// breakpointHit is returned as the error from RunForward when a breakpoint
// stops execution, distinguishing "stopped on purpose" from a real
// execution error.
type breakpointHit struct {
	reason StopReason
}

func (e *breakpointHit) Error() string { return e.reason.String() }

// AsStopReason extracts the StopReason from an error returned by
// RunForward, if it was caused by a breakpoint.
func AsStopReason(err error) (StopReason, bool) {
	bh, ok := err.(*breakpointHit)
	if !ok {
		return StopReason{}, false
	}
	return bh.reason, true
}

// AddBreakpoint registers bp and returns an ID that can later be passed to
// RemoveBreakpoint.
func (d *TimeTravel) AddBreakpoint(bp Breakpoint) BreakpointID {
	d.nextBreakpointID++
	id := d.nextBreakpointID
	d.breakpoints[id] = bp
	return id
}

// RemoveBreakpoint unregisters the breakpoint with the given ID, if any.
func (d *TimeTravel) RemoveBreakpoint(id BreakpointID) {
	delete(d.breakpoints, id)
}

// ClearBreakpoints removes every registered breakpoint.
func (d *TimeTravel) ClearBreakpoints() {
	d.breakpoints = make(map[BreakpointID]Breakpoint)
}

// Breakpoints returns a snapshot of the currently registered breakpoints.
func (d *TimeTravel) Breakpoints() map[BreakpointID]Breakpoint {
	out := make(map[BreakpointID]Breakpoint, len(d.breakpoints))
	for id, bp := range d.breakpoints {
		out[id] = bp
	}
	return out
}

// checkBreakpoints reports whether the instruction about to execute (at
// the current PC) matches any registered breakpoint. StorageAccess and
// MemoryAccess breakpoints never match, per their documented limitation.
func (d *TimeTravel) checkBreakpoints() (StopReason, bool) {
	state := d.vm.State()
	code := d.vm.Bytecode()
	var nextOp vm.Opcode
	if state.PC < uint64(len(code)) {
		nextOp, _ = vm.OpcodeFromByte(code[state.PC])
	}
	for id, bp := range d.breakpoints {
		switch bp.Kind {
		case BreakOnPC:
			if state.PC == bp.PC {
				return StopReason{BreakpointID: id, Breakpoint: bp}, true
			}
		case BreakOnOpcode:
			if nextOp == bp.Opcode {
				return StopReason{BreakpointID: id, Breakpoint: bp}, true
			}
		case BreakOnGasBelow:
			if state.Gas < bp.GasThreshold {
				return StopReason{BreakpointID: id, Breakpoint: bp}, true
			}
		case BreakOnAfterInstructions:
			if d.instructionCount >= bp.AfterCount {
				return StopReason{BreakpointID: id, Breakpoint: bp}, true
			}
		case BreakOnStorageAccess, BreakOnMemoryAccess:
			// never matches
		}
	}
	return StopReason{}, false
}
