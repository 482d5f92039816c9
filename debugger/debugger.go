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

// Package debugger wraps the executor's forward/backward stepping in a
// session-oriented API with breakpoints, matching the narrow surface
// original_source's Rust prototype exposed to its own CLI front end.
package debugger

import (
	"github.com/chronovm/chronovm/executor"
	"github.com/chronovm/chronovm/journal"
	"github.com/chronovm/chronovm/vm"
)

// Debugger is the interface a front end programs against, so alternate
// front ends (a TUI, an RPC server) can be written without depending on
// TimeTravel's concrete type.
type Debugger interface {
	StepForward() (executor.StepResult, error)
	StepBackward() error
	Rewind(n int) int
	RunForward(maxSteps int) (executor.ExecutionResult, error)
	RunBackward(maxSteps int) (int, error)
	AddBreakpoint(bp Breakpoint) BreakpointID
	RemoveBreakpoint(id BreakpointID)
	ClearBreakpoints()
	State() *vm.VmState
	InstructionCount() uint64
}

// TimeTravel is the reference Debugger implementation: one Vm, one
// Journal, a monotonically increasing (saturating) instruction counter,
// and a set of breakpoints consulted before each step of RunForward and
// RunBackward.
type TimeTravel struct {
	vm               *vm.Vm
	journal          *journal.Journal
	breakpoints      map[BreakpointID]Breakpoint
	nextBreakpointID BreakpointID
	instructionCount uint64
}

// New wraps v with a fresh journal using the given checkpoint interval and
// soft size cap (0 disables the cap).
func New(v *vm.Vm, checkpointInterval, softCap int) *TimeTravel {
	return &TimeTravel{
		vm:          v,
		journal:     journal.New(checkpointInterval, softCap),
		breakpoints: make(map[BreakpointID]Breakpoint),
	}
}

// Vm exposes the underlying Vm for inspection.
func (d *TimeTravel) Vm() *vm.Vm { return d.vm }

// Journal exposes the underlying journal for inspection.
func (d *TimeTravel) Journal() *journal.Journal { return d.journal }

// State returns the live execution state.
func (d *TimeTravel) State() *vm.VmState { return d.vm.State() }

// InstructionCount returns the number of forward steps taken so far,
// saturating at the maximum uint64 rather than wrapping.
func (d *TimeTravel) InstructionCount() uint64 { return d.instructionCount }

// StepForward advances execution by one instruction.
func (d *TimeTravel) StepForward() (executor.StepResult, error) {
	result, err := executor.StepForward(d.vm, d.journal)
	if err == nil && d.instructionCount != ^uint64(0) {
		d.instructionCount++
	}
	return result, err
}

// StepBackward undoes the most recently executed instruction.
func (d *TimeTravel) StepBackward() error {
	err := executor.StepBackward(d.vm, d.journal)
	if err == nil && d.instructionCount > 0 {
		d.instructionCount--
	}
	return err
}

// Rewind undoes up to n instructions, stopping early if the journal is
// exhausted.
func (d *TimeTravel) Rewind(n int) int {
	undone := executor.Rewind(d.vm, d.journal, n)
	if uint64(undone) > d.instructionCount {
		d.instructionCount = 0
	} else {
		d.instructionCount -= uint64(undone)
	}
	return undone
}

// RewindTo restores execution to the state after the first targetIndex
// recorded instructions, leaving targetIndex entries in the journal.
func (d *TimeTravel) RewindTo(targetIndex int) error {
	if err := executor.RewindTo(d.vm, d.journal, targetIndex); err != nil {
		return err
	}
	d.instructionCount = uint64(targetIndex)
	return nil
}

// RunForward steps forward until a halt, an error, a breakpoint, or
// maxSteps is reached (maxSteps <= 0 means unbounded).
func (d *TimeTravel) RunForward(maxSteps int) (executor.ExecutionResult, error) {
	steps := 0
	for {
		if maxSteps > 0 && steps >= maxSteps {
			return executor.ExecutionResult{}, nil
		}
		if reason, hit := d.checkBreakpoints(); hit {
			return executor.ExecutionResult{
				Success: false,
				Halt:    executor.HaltInfo{},
				Err:     nil,
			}, &breakpointHit{reason: reason}
		}
		result, err := d.StepForward()
		if err != nil {
			return executor.ExecutionResult{Err: err}, err
		}
		steps++
		if result.Halted {
			success := result.Halt.Kind == executor.HaltStop || result.Halt.Kind == executor.HaltReturn
			return executor.ExecutionResult{
				Success:    success,
				Halt:       result.Halt,
				ReturnData: d.vm.State().ReturnData,
				GasUsed:    d.vm.InitialGas() - d.vm.State().Gas,
			}, nil
		}
	}
}

// RunBackward steps backward until the journal is exhausted, a breakpoint
// matches, or maxSteps is reached (maxSteps <= 0 means unbounded), mirroring
// RunForward's check-then-step ordering. It returns ErrReachedBeginning when
// the journal empties before a breakpoint or maxSteps stops it.
func (d *TimeTravel) RunBackward(maxSteps int) (int, error) {
	steps := 0
	for {
		if maxSteps > 0 && steps >= maxSteps {
			return steps, nil
		}
		if d.journal.IsEmpty() {
			return steps, ErrReachedBeginning
		}
		if reason, hit := d.checkBreakpoints(); hit {
			return steps, &breakpointHit{reason: reason}
		}
		if err := d.StepBackward(); err != nil {
			return steps, err
		}
		steps++
	}
}
