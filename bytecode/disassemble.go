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

// Package bytecode decodes raw code into inspectable instructions. It has
// no bearing on the reversibility invariants the vm/journal/executor
// triad upholds; it exists so a program can be displayed to a human.
package bytecode

import (
	"encoding/hex"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/chronovm/chronovm/vm"
)

// DecodedInstruction is one decoded instruction: its offset, opcode, and
// (for PUSHn) the immediate bytes that follow it.
type DecodedInstruction struct {
	PC        int
	Opcode    vm.Opcode
	Raw       byte
	Immediate []byte
}

// String renders one instruction the way a disassembly listing would:
// offset, mnemonic, and for PUSHn its hex immediate.
func (d DecodedInstruction) String() string {
	if len(d.Immediate) > 0 {
		return fmt.Sprintf("%04x: %s 0x%s", d.PC, d.Opcode.Mnemonic(), hex.EncodeToString(d.Immediate))
	}
	return fmt.Sprintf("%04x: %s", d.PC, d.Opcode.Mnemonic())
}

// DecodeInstruction decodes the instruction at pc, returning it along with
// the offset of the next instruction. An unrecognized byte still decodes
// (mnemonic "UNKNOWN"), since disassembly is best-effort display, not
// execution.
func DecodeInstruction(code []byte, pc int) (DecodedInstruction, int) {
	if pc < 0 || pc >= len(code) {
		return DecodedInstruction{}, pc
	}
	raw := code[pc]
	op, ok := vm.OpcodeFromByte(raw)
	if !ok {
		op = vm.Opcode(raw)
	}
	ins := DecodedInstruction{PC: pc, Opcode: op, Raw: raw}
	next := pc + 1
	if ok && op.IsPush() {
		n := op.ImmediateSize()
		end := pc + 1 + n
		if end > len(code) {
			end = len(code)
		}
		ins.Immediate = append([]byte(nil), code[pc+1:end]...)
		next = end
	}
	return ins, next
}

// Disassemble decodes code start to finish into a flat instruction list.
func Disassemble(code []byte) []DecodedInstruction {
	var out []DecodedInstruction
	for pc := 0; pc < len(code); {
		ins, next := DecodeInstruction(code, pc)
		out = append(out, ins)
		if next <= pc {
			break
		}
		pc = next
	}
	return out
}

// DisassembleToString renders code as a newline-separated listing.
func DisassembleToString(code []byte) string {
	lines := make([]string, 0, len(code))
	for _, ins := range Disassemble(code) {
		lines = append(lines, ins.String())
	}
	return strings.Join(lines, "\n")
}

// cacheSize bounds the per-Disassembler LRU so long rewind sessions that
// keep re-inspecting a small working set of offsets don't redecode them,
// without holding every offset of a large program forever.
const cacheSize = 512

// Disassembler decodes one fixed program, caching decoded instructions by
// offset so a debugger's inspection path (which re-reads the same few
// offsets over and over during a rewind session) doesn't redecode on every
// call.
type Disassembler struct {
	code  []byte
	cache *lru.Cache
}

// NewDisassembler wraps code with an LRU-backed decode cache.
func NewDisassembler(code []byte) *Disassembler {
	cache, err := lru.New(cacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which cacheSize
		// never is.
		panic(err)
	}
	return &Disassembler{code: code, cache: cache}
}

// DecodeAt decodes (or returns the cached decoding of) the instruction at
// pc.
func (d *Disassembler) DecodeAt(pc int) DecodedInstruction {
	if cached, ok := d.cache.Get(pc); ok {
		return cached.(DecodedInstruction)
	}
	ins, _ := DecodeInstruction(d.code, pc)
	d.cache.Add(pc, ins)
	return ins
}

// CurrentOpcode decodes just the opcode at pc, for a debugger's
// per-step display.
func (d *Disassembler) CurrentOpcode(pc uint64) vm.Opcode {
	return d.DecodeAt(int(pc)).Opcode
}
