package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeFromByteRecognizesKnownRanges(t *testing.T) {
	cases := []byte{0x00, 0x01, 0x0B, 0x10, 0x1D, 0x20, 0x30, 0x48, 0x50, 0x5B, 0x60, 0x7F, 0x80, 0x8F, 0x90, 0x9F, 0xA0, 0xA4, 0xF0, 0xF3, 0xFA, 0xFD, 0xFE, 0xFF}
	for _, b := range cases {
		_, ok := OpcodeFromByte(b)
		assert.True(t, ok, "byte %#02x should be recognized", b)
	}
}

func TestOpcodeFromByteRejectsGaps(t *testing.T) {
	gaps := []byte{0x0C, 0x1E, 0x21, 0x49, 0x5C, 0xA5, 0xF6, 0xFB}
	for _, b := range gaps {
		_, ok := OpcodeFromByte(b)
		assert.False(t, ok, "byte %#02x should not be recognized", b)
	}
}

func TestOpcodeGasTable(t *testing.T) {
	assert.Equal(t, uint64(3), ADD.BaseGas())
	assert.Equal(t, uint64(5), MUL.BaseGas())
	assert.Equal(t, uint64(8), ADDMOD.BaseGas())
	assert.Equal(t, uint64(8), JUMP.BaseGas())
	assert.Equal(t, uint64(10), JUMPI.BaseGas())
	assert.Equal(t, uint64(1), JUMPDEST.BaseGas())
	assert.Equal(t, uint64(100), SLOAD.BaseGas())
	assert.Equal(t, uint64(100), SSTORE.BaseGas())
	assert.Equal(t, uint64(375), LOG0.BaseGas())
	assert.Equal(t, uint64(375*5), LOG4.BaseGas())
	assert.Equal(t, uint64(32000), CREATE.BaseGas())
	assert.Equal(t, uint64(32000), CREATE2.BaseGas())
	assert.Equal(t, uint64(5000), SELFDESTRUCT.BaseGas())
	assert.Equal(t, uint64(0), STOP.BaseGas())
	assert.Equal(t, uint64(0), RETURN.BaseGas())
	assert.Equal(t, uint64(3), PUSH1.BaseGas())
	assert.Equal(t, uint64(3), DUP1.BaseGas())
	assert.Equal(t, uint64(3), SWAP1.BaseGas())
}

func TestOpcodeImmediateSize(t *testing.T) {
	assert.Equal(t, 1, PUSH1.ImmediateSize())
	assert.Equal(t, 32, PUSH32.ImmediateSize())
	assert.Equal(t, 0, ADD.ImmediateSize())
}

func TestOpcodeMnemonics(t *testing.T) {
	assert.Equal(t, "PUSH1", PUSH1.Mnemonic())
	assert.Equal(t, "PUSH32", PUSH32.Mnemonic())
	assert.Equal(t, "DUP1", DUP1.Mnemonic())
	assert.Equal(t, "DUP16", DUP16.Mnemonic())
	assert.Equal(t, "SWAP1", SWAP1.Mnemonic())
	assert.Equal(t, "LOG0", LOG0.Mnemonic())
	assert.Equal(t, "LOG4", LOG4.Mnemonic())
	assert.Equal(t, "ADD", ADD.Mnemonic())
	assert.Equal(t, "JUMPDEST", JUMPDEST.Mnemonic())
}

func TestOpcodeStackArity(t *testing.T) {
	assert.Equal(t, 0, PUSH1.StackInputs())
	assert.Equal(t, 1, PUSH1.StackOutputs())
	assert.Equal(t, 2, ADD.StackInputs())
	assert.Equal(t, 1, ADD.StackOutputs())
	assert.Equal(t, 2, SWAP1.StackInputs())
	assert.Equal(t, 2, SWAP1.StackOutputs())
	assert.Equal(t, 3, ADDMOD.StackInputs())
	assert.Equal(t, 2, KECCAK256.StackInputs())
}
