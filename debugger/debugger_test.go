package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronovm/chronovm/executor"
	"github.com/chronovm/chronovm/vm"
)

func newTestDebugger(code []byte, gas uint64) *TimeTravel {
	v := vm.New(code, gas, vm.DefaultBlockContext())
	return New(v, 0, 0)
}

func TestStepForwardIncrementsInstructionCount(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x00}, 100000) // PUSH1 1, STOP
	assert.Equal(t, uint64(0), d.InstructionCount())

	_, err := d.StepForward()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), d.InstructionCount())

	_, err = d.StepForward()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), d.InstructionCount())
}

func TestStepBackwardDecrementsInstructionCount(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x00}, 100000)
	_, err := d.StepForward()
	require.NoError(t, err)
	_, err = d.StepForward()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), d.InstructionCount())

	require.NoError(t, d.StepBackward())
	assert.Equal(t, uint64(1), d.InstructionCount())
}

func TestInstructionCountNeverUnderflows(t *testing.T) {
	d := newTestDebugger([]byte{0x00}, 100000)
	err := d.StepBackward()
	assert.Error(t, err)
	assert.Equal(t, uint64(0), d.InstructionCount())
}

func TestRunForwardHaltsOnStop(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	result, err := d.RunForward(0)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, executor.HaltStop, result.Halt.Kind)
}

func TestRunForwardRespectsMaxSteps(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	result, err := d.RunForward(1)
	require.NoError(t, err)
	assert.Equal(t, executor.ExecutionResult{}, result)
	assert.Equal(t, uint64(1), d.InstructionCount())
}

func TestRunForwardStopsOnPCBreakpoint(t *testing.T) {
	// PUSH1 1, PUSH1 2, ADD, STOP. The ADD opcode sits at PC 4.
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	id := d.AddBreakpoint(Breakpoint{Kind: BreakOnPC, PC: 4})

	_, err := d.RunForward(0)
	require.Error(t, err)
	reason, ok := AsStopReason(err)
	require.True(t, ok)
	assert.Equal(t, id, reason.BreakpointID)
	assert.Equal(t, uint64(4), d.State().PC)
}

func TestRunForwardStopsOnOpcodeBreakpoint(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	d.AddBreakpoint(Breakpoint{Kind: BreakOnOpcode, Opcode: vm.ADD})

	_, err := d.RunForward(0)
	require.Error(t, err)
	_, ok := AsStopReason(err)
	require.True(t, ok)
	assert.Equal(t, uint64(4), d.State().PC)
}

func TestStorageAndMemoryBreakpointsNeverMatch(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x2A, 0x60, 0x01, 0x55, 0x00}, 100000)
	d.AddBreakpoint(Breakpoint{Kind: BreakOnStorageAccess})
	d.AddBreakpoint(Breakpoint{Kind: BreakOnMemoryAccess})

	result, err := d.RunForward(0)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestRunForwardStopsOnGasBelowBreakpoint(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	state := d.State()
	d.AddBreakpoint(Breakpoint{Kind: BreakOnGasBelow, GasThreshold: state.Gas})

	_, err := d.RunForward(0)
	require.Error(t, err)
	reason, ok := AsStopReason(err)
	require.True(t, ok)
	assert.Equal(t, BreakOnGasBelow, reason.Breakpoint.Kind)
	// Gas equal to the threshold is not below it, so the first PUSH1 runs
	// and the breakpoint fires before the second instruction.
	assert.Equal(t, uint64(1), d.InstructionCount())
}

func TestRunForwardStopsAfterInstructionsBreakpoint(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	d.AddBreakpoint(Breakpoint{Kind: BreakOnAfterInstructions, AfterCount: 2})

	_, err := d.RunForward(0)
	require.Error(t, err)
	reason, ok := AsStopReason(err)
	require.True(t, ok)
	assert.Equal(t, BreakOnAfterInstructions, reason.Breakpoint.Kind)
	assert.Equal(t, uint64(2), d.InstructionCount())
}

func TestRunForwardStopsImmediatelyOnPCBreakpointAtCurrentPC(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x00}, 100000)
	d.AddBreakpoint(Breakpoint{Kind: BreakOnPC, PC: 0})

	_, err := d.RunForward(0)
	require.Error(t, err)
	_, ok := AsStopReason(err)
	require.True(t, ok)
	assert.Equal(t, uint64(0), d.InstructionCount())
}

func TestRemoveAndClearBreakpoints(t *testing.T) {
	d := newTestDebugger([]byte{0x00}, 100000)
	id := d.AddBreakpoint(Breakpoint{Kind: BreakOnPC, PC: 0})
	assert.Len(t, d.Breakpoints(), 1)

	d.RemoveBreakpoint(id)
	assert.Len(t, d.Breakpoints(), 0)

	d.AddBreakpoint(Breakpoint{Kind: BreakOnPC, PC: 0})
	d.AddBreakpoint(Breakpoint{Kind: BreakOnOpcode, Opcode: vm.STOP})
	d.ClearBreakpoints()
	assert.Len(t, d.Breakpoints(), 0)
}

func TestRewindToResetsInstructionCount(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	_, err := d.RunForward(0)
	require.NoError(t, err)
	full := d.InstructionCount()
	require.Greater(t, full, uint64(1))

	require.NoError(t, d.RewindTo(1))
	assert.Equal(t, uint64(1), d.InstructionCount())
}

func TestRewindClampsInstructionCountAtZero(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x00}, 100000)
	_, err := d.StepForward()
	require.NoError(t, err)

	undone := d.Rewind(100)
	assert.Equal(t, 1, undone)
	assert.Equal(t, uint64(0), d.InstructionCount())
}

func TestRunBackwardReachesBeginning(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	_, err := d.RunForward(0)
	require.NoError(t, err)

	steps, err := d.RunBackward(0)
	require.ErrorIs(t, err, ErrReachedBeginning)
	assert.Equal(t, 4, steps)
	assert.Equal(t, uint64(0), d.InstructionCount())
}

func TestRunBackwardRespectsMaxSteps(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	_, err := d.RunForward(0)
	require.NoError(t, err)

	steps, err := d.RunBackward(2)
	require.NoError(t, err)
	assert.Equal(t, 2, steps)
	assert.Equal(t, uint64(2), d.InstructionCount())
}

func TestRunBackwardStopsOnBreakpoint(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x60, 0x02, 0x01, 0x00}, 100000)
	_, err := d.RunForward(0)
	require.NoError(t, err)

	d.AddBreakpoint(Breakpoint{Kind: BreakOnPC, PC: 2})
	steps, err := d.RunBackward(0)
	require.Error(t, err)
	_, ok := AsStopReason(err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), d.State().PC)
	assert.Greater(t, steps, 0)
}

func TestRunBackwardOnEmptyJournalReturnsImmediately(t *testing.T) {
	d := newTestDebugger([]byte{0x60, 0x01, 0x00}, 100000)
	steps, err := d.RunBackward(0)
	require.ErrorIs(t, err, ErrReachedBeginning)
	assert.Equal(t, 0, steps)
}
