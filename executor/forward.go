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

package executor

import (
	"github.com/chronovm/chronovm/journal"
	"github.com/chronovm/chronovm/vm"
)

// StepForward executes exactly one instruction against v, recording its
// effects into j. Preconditions are checked in a fixed order — bytecode
// exhaustion, opcode recognition, stack arity, gas, then opcode-specific
// constraints — and a failure at any stage returns before any journal
// entry is appended or any state is mutated.
func StepForward(v *vm.Vm, j *journal.Journal) (StepResult, error) {
	state := v.State()
	code := v.Bytecode()
	pc := state.PC

	if pc >= uint64(len(code)) {
		return StepResult{Halted: true, Halt: HaltInfo{Kind: HaltStop}}, nil
	}

	opByte := code[pc]
	op, ok := vm.OpcodeFromByte(opByte)
	if !ok {
		return StepResult{}, &vm.ErrInvalidOpcode{Opcode: opByte}
	}

	inputs := op.StackInputs()
	if state.Stack.Len() < inputs {
		return StepResult{}, &vm.ErrStackUnderflow{Required: inputs, Available: state.Stack.Len()}
	}

	gasCost := op.BaseGas()
	if state.Gas < gasCost {
		return StepResult{}, &vm.ErrOutOfGas{Required: gasCost, Available: state.Gas}
	}

	if netPush := op.StackOutputs() - inputs; netPush > 0 && state.Stack.Len()+netPush > vm.StackCapacity {
		return StepResult{}, &vm.ErrStackOverflow{Max: vm.StackCapacity}
	}

	if err := checkJumpPrecondition(v, state, op); err != nil {
		return StepResult{}, err
	}

	gasBefore := state.Gas
	ij := &journal.InstructionJournal{PCBefore: pc, Opcode: opByte, GasBefore: gasBefore}
	ctx := &stepContext{state: state, vm: v, code: code}

	halt, pcOverride := dispatch(op, ctx)
	ij.Deltas = append(ij.Deltas, ctx.deltas...)

	state.Gas -= gasCost
	ij.Deltas = append(ij.Deltas, journal.GasChange{OldGas: gasBefore})
	ij.GasAfter = state.Gas

	oldPC := pc
	var newPC uint64
	if pcOverride != nil {
		newPC = *pcOverride
	} else {
		newPC = pc + 1 + uint64(op.ImmediateSize())
	}
	state.PC = newPC
	ij.Deltas = append(ij.Deltas, journal.PcChange{OldPC: oldPC})

	ij.StateHashAfter = v.StateHash()
	j.Record(ij)
	if j.ShouldCheckpoint() {
		j.AddCheckpoint(journal.CaptureState(state))
	}

	if halt != nil {
		return StepResult{Halted: true, Halt: *halt}, nil
	}
	return StepResult{}, nil
}

// checkJumpPrecondition validates a JUMP/JUMPI's destination before any
// mutation occurs. JUMPI only requires a valid destination when its
// condition is truthy, matching go-ethereum's own jump-table behavior.
func checkJumpPrecondition(v *vm.Vm, state *vm.VmState, op vm.Opcode) error {
	switch op {
	case vm.JUMP:
		dest, _ := state.Stack.Peek(0)
		if !v.IsValidJump(dest.Uint64()) {
			return &vm.ErrInvalidJump{Destination: dest.Uint64()}
		}
	case vm.JUMPI:
		dest, _ := state.Stack.Peek(0)
		cond, _ := state.Stack.Peek(1)
		if !cond.IsZero() && !v.IsValidJump(dest.Uint64()) {
			return &vm.ErrInvalidJump{Destination: dest.Uint64()}
		}
	}
	return nil
}

// stepContext accumulates the deltas one instruction's dispatch produces
// and provides stack helpers that journal themselves automatically.
type stepContext struct {
	state  *vm.VmState
	vm     *vm.Vm
	code   []byte
	deltas []journal.Delta
}

func (c *stepContext) push(w vm.Word) {
	c.state.Stack.Push(w)
	c.deltas = append(c.deltas, journal.StackPush{Value: w})
}

func (c *stepContext) pop() vm.Word {
	w, _ := c.state.Stack.Pop()
	c.deltas = append(c.deltas, journal.StackPop{Value: w})
	return w
}

func (c *stepContext) storeWord(offset uint64, w vm.Word) {
	oldSize := c.state.Memory.Size()
	old := c.state.Memory.StoreWord(offset, w)
	c.recordMemoryGrowth(oldSize)
	c.deltas = append(c.deltas, journal.MemoryWrite{Offset: offset, Old: old[:]})
}

func (c *stepContext) storeByte(offset uint64, b byte) {
	oldSize := c.state.Memory.Size()
	old := c.state.Memory.StoreByte(offset, b)
	c.recordMemoryGrowth(oldSize)
	c.deltas = append(c.deltas, journal.MemoryWrite{Offset: offset, Old: []byte{old}})
}

func (c *stepContext) recordMemoryGrowth(oldSize uint64) {
	if c.state.Memory.Size() > oldSize {
		c.deltas = append(c.deltas, journal.MemoryExpansion{OldSize: oldSize})
	}
}

func (c *stepContext) sstore(key, value vm.Word) {
	old := c.state.Storage.Insert(key, value)
	c.deltas = append(c.deltas, journal.StorageWrite{Key: key, OldValue: old})
}

func (c *stepContext) setReturnData(data []byte) {
	old := c.state.ReturnData
	c.state.ReturnData = append([]byte(nil), data...)
	c.deltas = append(c.deltas, journal.ReturnDataSet{OldData: old})
}

// dispatch executes op's semantics against ctx, returning a non-nil
// HaltInfo if execution should stop, and a non-nil pcOverride if the
// opcode sets the program counter itself (JUMP/JUMPI) rather than letting
// the caller advance it by 1+immediate size.
func dispatch(op vm.Opcode, ctx *stepContext) (*HaltInfo, *uint64) {
	switch {
	case op.IsPush():
		return dispatchPush(op, ctx), nil
	case op.IsDup():
		depth := int(op - vm.DUP1)
		w, _ := ctx.state.Stack.Peek(depth)
		ctx.push(w)
		return nil, nil
	case op.IsSwap():
		dispatchSwap(op, ctx)
		return nil, nil
	case op.IsLog():
		dispatchLog(op, ctx)
		return nil, nil
	}

	switch op {
	case vm.STOP:
		return &HaltInfo{Kind: HaltStop}, nil

	case vm.ADD:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.WrappingAdd(b))
	case vm.MUL:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.WrappingMul(b))
	case vm.SUB:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.WrappingSub(b))
	case vm.DIV:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.Div(b))
	case vm.SDIV:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.SDiv(b))
	case vm.MOD:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.Mod(b))
	case vm.SMOD:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.SMod(b))
	case vm.ADDMOD:
		a, b, m := ctx.pop(), ctx.pop(), ctx.pop()
		ctx.push(a.AddMod(b, m))
	case vm.MULMOD:
		a, b, m := ctx.pop(), ctx.pop(), ctx.pop()
		ctx.push(a.MulMod(b, m))
	case vm.EXP:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.Exp(b))
	case vm.SIGNEXTEND:
		n, x := ctx.pop(), ctx.pop()
		ctx.push(x.SignExtend(n))

	case vm.LT:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(boolWord(a.Lt(b)))
	case vm.GT:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(boolWord(a.Gt(b)))
	case vm.SLT:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(boolWord(a.SLt(b)))
	case vm.SGT:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(boolWord(a.SGt(b)))
	case vm.EQ:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(boolWord(a.Eq(b)))
	case vm.ISZERO:
		a := ctx.pop()
		ctx.push(boolWord(a.IsZero()))
	case vm.AND:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.And(b))
	case vm.OR:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.Or(b))
	case vm.XOR:
		a, b := ctx.pop(), ctx.pop()
		ctx.push(a.Xor(b))
	case vm.NOT:
		a := ctx.pop()
		ctx.push(a.Not())
	case vm.BYTE:
		i, x := ctx.pop(), ctx.pop()
		ctx.push(x.Byte(i))
	case vm.SHL:
		shift, x := ctx.pop(), ctx.pop()
		ctx.push(x.Shl(uint(shift.Index())))
	case vm.SHR:
		shift, x := ctx.pop(), ctx.pop()
		ctx.push(x.Shr(uint(shift.Index())))
	case vm.SAR:
		shift, x := ctx.pop(), ctx.pop()
		ctx.push(x.Sar(uint(shift.Index())))

	case vm.KECCAK256:
		ctx.pop() // offset
		ctx.pop() // size
		ctx.push(vm.WordZero()) // digest stub: hashing is out of scope

	case vm.POP:
		ctx.pop()
	case vm.MLOAD:
		offset := ctx.pop()
		ctx.push(ctx.state.Memory.LoadWord(uint64(offset.Index())))
	case vm.MSTORE:
		offset, value := ctx.pop(), ctx.pop()
		ctx.storeWord(uint64(offset.Index()), value)
	case vm.MSTORE8:
		offset, value := ctx.pop(), ctx.pop()
		be := value.BigEndian()
		ctx.storeByte(uint64(offset.Index()), be[31])
	case vm.SLOAD:
		key := ctx.pop()
		ctx.push(ctx.state.Storage.Get(key))
	case vm.SSTORE:
		key, value := ctx.pop(), ctx.pop()
		ctx.sstore(key, value)

	case vm.JUMP:
		dest := ctx.pop()
		target := dest.Uint64()
		return nil, &target
	case vm.JUMPI:
		dest, cond := ctx.pop(), ctx.pop()
		if !cond.IsZero() {
			target := dest.Uint64()
			return nil, &target
		}
	case vm.PC:
		ctx.push(vm.WordFromUint64(ctx.state.PC))
	case vm.MSIZE:
		ctx.push(vm.WordFromUint64(ctx.state.Memory.Size()))
	case vm.GAS:
		ctx.push(vm.WordFromUint64(ctx.state.Gas))
	case vm.JUMPDEST:
		// no-op marker

	case vm.RETURN:
		offset, size := ctx.pop(), ctx.pop()
		data := readMemoryRange(ctx.state.Memory, offset, size)
		ctx.setReturnData(data)
		return &HaltInfo{Kind: HaltReturn}, nil
	case vm.REVERT:
		offset, size := ctx.pop(), ctx.pop()
		data := readMemoryRange(ctx.state.Memory, offset, size)
		ctx.setReturnData(data)
		return &HaltInfo{Kind: HaltRevert}, nil
	case vm.INVALID:
		return &HaltInfo{Kind: HaltInvalidOpcode, Opcode: byte(vm.INVALID)}, nil

	default:
		dispatchNoOp(op, ctx)
	}
	return nil, nil
}

// dispatchNoOp handles the environmental, call, create and self-destruct
// opcodes, none of which are implemented against a real host: they consume
// their declared stack inputs and push zeroed outputs, but the base gas
// deduction, stack discipline, and journaling are still fully real.
func dispatchNoOp(op vm.Opcode, ctx *stepContext) {
	for i := 0; i < op.StackInputs(); i++ {
		ctx.pop()
	}
	for i := 0; i < op.StackOutputs(); i++ {
		ctx.push(vm.WordZero())
	}
}

func dispatchPush(op vm.Opcode, ctx *stepContext) *HaltInfo {
	n := op.ImmediateSize()
	start := int(ctx.state.PC) + 1
	var buf [32]byte
	for i := 0; i < n; i++ {
		idx := start + i
		if idx < len(ctx.code) {
			buf[32-n+i] = ctx.code[idx]
		}
	}
	ctx.push(vm.WordFromBigEndian(buf))
	return nil
}

func dispatchSwap(op vm.Opcode, ctx *stepContext) {
	depth := int(op-vm.SWAP1) + 1
	swapInPlace(ctx, depth)
}

// swapInPlace exchanges the top item with the item `depth` items below it,
// recording one StackPop for each of the depth+1 items it lifts off and one
// StackPush for each it puts back (four deltas for SWAP1), so reverting is
// just inverting each delta in turn rather than needing a dedicated
// self-inverse delta type.
func swapInPlace(ctx *stepContext, depth int) {
	top, _ := ctx.state.Stack.Pop()
	ctx.deltas = append(ctx.deltas, journal.StackPop{Value: top})

	// Pop down to (and including) the swap target, remembering each value.
	between := make([]vm.Word, 0, depth-1)
	for i := 0; i < depth-1; i++ {
		w, _ := ctx.state.Stack.Pop()
		ctx.deltas = append(ctx.deltas, journal.StackPop{Value: w})
		between = append(between, w)
	}
	target, _ := ctx.state.Stack.Pop()
	ctx.deltas = append(ctx.deltas, journal.StackPop{Value: target})

	ctx.state.Stack.Push(top)
	ctx.deltas = append(ctx.deltas, journal.StackPush{Value: top})
	for i := len(between) - 1; i >= 0; i-- {
		ctx.state.Stack.Push(between[i])
		ctx.deltas = append(ctx.deltas, journal.StackPush{Value: between[i]})
	}
	ctx.state.Stack.Push(target)
	ctx.deltas = append(ctx.deltas, journal.StackPush{Value: target})
}

func dispatchLog(op vm.Opcode, ctx *stepContext) {
	ctx.pop() // offset
	ctx.pop() // size
	topics := int(op - vm.LOG0)
	for i := 0; i < topics; i++ {
		ctx.pop()
	}
}

func readMemoryRange(mem *vm.Memory, offset, size vm.Word) []byte {
	n := size.Index()
	if n == 0 {
		return nil
	}
	start := uint64(offset.Index())
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = mem.PeekByte(start + uint64(i))
	}
	return out
}

func boolWord(b bool) vm.Word {
	if b {
		return vm.WordOne()
	}
	return vm.WordZero()
}
