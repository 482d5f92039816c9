package bytecode

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronovm/chronovm/vm"
)

// dumpInstructions renders the full decoded listing for failure output,
// since a mismatched mnemonic or immediate is otherwise hard to spot from
// testify's default diff of a struct slice.
func dumpInstructions(t *testing.T, ins []DecodedInstruction) {
	t.Helper()
	t.Log(spew.Sdump(ins))
}

func TestDecodeInstructionPlain(t *testing.T) {
	code := []byte{0x01} // ADD
	ins, next := DecodeInstruction(code, 0)
	assert.Equal(t, vm.ADD, ins.Opcode)
	assert.Empty(t, ins.Immediate)
	assert.Equal(t, 1, next)
}

func TestDecodeInstructionPush(t *testing.T) {
	code := []byte{0x60, 0x2A} // PUSH1 0x2A
	ins, next := DecodeInstruction(code, 0)
	assert.Equal(t, vm.PUSH1, ins.Opcode)
	assert.Equal(t, []byte{0x2A}, ins.Immediate)
	assert.Equal(t, 2, next)
	assert.Equal(t, "0000: PUSH1 0x2a", ins.String())
}

func TestDecodeInstructionPushTruncatedAtEnd(t *testing.T) {
	code := []byte{0x7F, 0x01, 0x02} // PUSH32 with only 2 bytes available
	ins, next := DecodeInstruction(code, 0)
	assert.Equal(t, vm.PUSH32, ins.Opcode)
	assert.Equal(t, []byte{0x01, 0x02}, ins.Immediate)
	assert.Equal(t, 3, next)
}

func TestDecodeInstructionUnknownByte(t *testing.T) {
	code := []byte{0x0C} // gap byte, not a recognized opcode
	ins, next := DecodeInstruction(code, 0)
	assert.Equal(t, byte(0x0C), ins.Raw)
	assert.Equal(t, 1, next)
}

func TestDecodeInstructionOutOfRange(t *testing.T) {
	code := []byte{0x00}
	ins, next := DecodeInstruction(code, 5)
	assert.Equal(t, DecodedInstruction{}, ins)
	assert.Equal(t, 5, next)
}

func TestDisassembleFullProgram(t *testing.T) {
	// PUSH1 10, PUSH1 20, ADD, STOP
	code := []byte{0x60, 0x0A, 0x60, 0x14, 0x01, 0x00}
	ins := Disassemble(code)
	dumpInstructions(t, ins)
	require.Len(t, ins, 4)
	assert.Equal(t, vm.PUSH1, ins[0].Opcode)
	assert.Equal(t, 0, ins[0].PC)
	assert.Equal(t, vm.PUSH1, ins[1].Opcode)
	assert.Equal(t, 2, ins[1].PC)
	assert.Equal(t, vm.ADD, ins[2].Opcode)
	assert.Equal(t, 4, ins[2].PC)
	assert.Equal(t, vm.STOP, ins[3].Opcode)
	assert.Equal(t, 5, ins[3].PC)
}

func TestDisassembleToStringFormatsEachLine(t *testing.T) {
	code := []byte{0x60, 0x01, 0x00}
	out := DisassembleToString(code)
	assert.Equal(t, "0000: PUSH1 0x01\n0002: STOP", out)
}

func TestDisassembleMnemonicNaming(t *testing.T) {
	code := []byte{0x80, 0x8F, 0x90, 0x9F, 0xA0, 0xA4}
	ins := Disassemble(code)
	require.Len(t, ins, 6)
	assert.Equal(t, "DUP1", ins[0].Opcode.Mnemonic())
	assert.Equal(t, "DUP16", ins[1].Opcode.Mnemonic())
	assert.Equal(t, "SWAP1", ins[2].Opcode.Mnemonic())
	assert.Equal(t, "SWAP16", ins[3].Opcode.Mnemonic())
	assert.Equal(t, "LOG0", ins[4].Opcode.Mnemonic())
	assert.Equal(t, "LOG4", ins[5].Opcode.Mnemonic())
}

func TestDisassemblerCachesDecodedInstructions(t *testing.T) {
	code := []byte{0x60, 0x2A, 0x00}
	d := NewDisassembler(code)

	first := d.DecodeAt(0)
	second := d.DecodeAt(0) // should be served from cache, not redecoded
	assert.Equal(t, first, second)
	assert.Equal(t, vm.PUSH1, first.Opcode)
}

func TestDisassemblerCurrentOpcode(t *testing.T) {
	code := []byte{0x60, 0x2A, 0x00}
	d := NewDisassembler(code)
	assert.Equal(t, vm.PUSH1, d.CurrentOpcode(0))
	assert.Equal(t, vm.STOP, d.CurrentOpcode(2))
}
