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
	"encoding/hex"
	"math"
	"strings"

	"github.com/holiman/uint256"
)

// Word is the 256-bit value that flows through the stack, memory and
// storage. It is backed by holiman/uint256.Int, the same representation
// go-ethereum's own interpreter uses for stack values, so Word inherits
// full 256-bit wrapping arithmetic instead of the low-limb-only shortcuts
// some reference VMs take.
//
// Word is comparable (uint256.Int is a fixed [4]uint64 array) and is used
// directly as a map key by Storage.
type Word struct {
	v uint256.Int
}

// WordZero is the additive identity.
func WordZero() Word { return Word{} }

// WordOne is the multiplicative identity.
func WordOne() Word { return WordFromUint64(1) }

// WordMax is the all-ones value, 2^256 - 1.
func WordMax() Word {
	var w Word
	w.v.Not(&uint256.Int{})
	return w
}

// WordFromUint64 builds a Word from a machine-word value.
func WordFromUint64(x uint64) Word {
	var w Word
	w.v.SetUint64(x)
	return w
}

// WordFromBigEndian decodes a 32-byte big-endian buffer into a Word.
func WordFromBigEndian(b [32]byte) Word {
	var w Word
	w.v.SetBytes32(b[:])
	return w
}

// BigEndian encodes the Word as a 32-byte big-endian buffer.
func (w Word) BigEndian() [32]byte {
	return w.v.Bytes32()
}

// IsZero reports whether w is the zero value.
func (w Word) IsZero() bool { return w.v.IsZero() }

// Cmp gives a total order over Words, matching an unsigned comparison by
// limb.
func (w Word) Cmp(o Word) int { return w.v.Cmp(&o.v) }

// Eq reports bitwise equality.
func (w Word) Eq(o Word) bool { return w.v.Eq(&o.v) }

// Lt reports whether w < o as unsigned 256-bit integers.
func (w Word) Lt(o Word) bool { return w.v.Lt(&o.v) }

// Gt reports whether w > o as unsigned 256-bit integers.
func (w Word) Gt(o Word) bool { return w.v.Gt(&o.v) }

// WrappingAdd returns w + o mod 2^256.
func (w Word) WrappingAdd(o Word) Word {
	var r Word
	r.v.Add(&w.v, &o.v)
	return r
}

// WrappingSub returns w - o mod 2^256.
func (w Word) WrappingSub(o Word) Word {
	var r Word
	r.v.Sub(&w.v, &o.v)
	return r
}

// WrappingMul returns w * o mod 2^256.
func (w Word) WrappingMul(o Word) Word {
	var r Word
	r.v.Mul(&w.v, &o.v)
	return r
}

// Div returns w / o, or zero if o is zero (EVM DIV semantics).
func (w Word) Div(o Word) Word {
	if o.IsZero() {
		return WordZero()
	}
	var r Word
	r.v.Div(&w.v, &o.v)
	return r
}

// Mod returns w % o, or zero if o is zero (EVM MOD semantics).
func (w Word) Mod(o Word) Word {
	if o.IsZero() {
		return WordZero()
	}
	var r Word
	r.v.Mod(&w.v, &o.v)
	return r
}

// AddMod returns (w + o) % m, or zero if m is zero.
func (w Word) AddMod(o, m Word) Word {
	if m.IsZero() {
		return WordZero()
	}
	var r Word
	r.v.AddMod(&w.v, &o.v, &m.v)
	return r
}

// MulMod returns (w * o) % m, or zero if m is zero.
func (w Word) MulMod(o, m Word) Word {
	if m.IsZero() {
		return WordZero()
	}
	var r Word
	r.v.MulMod(&w.v, &o.v, &m.v)
	return r
}

// Exp returns w ** o mod 2^256.
func (w Word) Exp(o Word) Word {
	var r Word
	r.v.Exp(&w.v, &o.v)
	return r
}

// And, Or, Xor, Not implement the bitwise family limb-by-limb.
func (w Word) And(o Word) Word {
	var r Word
	r.v.And(&w.v, &o.v)
	return r
}

func (w Word) Or(o Word) Word {
	var r Word
	r.v.Or(&w.v, &o.v)
	return r
}

func (w Word) Xor(o Word) Word {
	var r Word
	r.v.Xor(&w.v, &o.v)
	return r
}

func (w Word) Not() Word {
	var r Word
	r.v.Not(&w.v)
	return r
}

// Uint64 truncates w to its low 64 bits.
func (w Word) Uint64() uint64 { return w.v.Uint64() }

// Index truncates w to a platform-sized index, saturating at math.MaxInt32
// rather than wrapping, since callers use it to size slices and offsets.
func (w Word) Index() int {
	u := w.v.Uint64()
	if !w.v.IsUint64() || u > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(u)
}

// isNegative reports whether w's top bit is set, i.e. whether w would be
// negative under a two's-complement signed interpretation.
func (w Word) isNegative() bool {
	be := w.BigEndian()
	return be[0]&0x80 != 0
}

// negate returns the two's-complement negation of w.
func (w Word) negate() Word {
	return w.Not().WrappingAdd(WordOne())
}

func (w Word) abs() Word {
	if w.isNegative() {
		return w.negate()
	}
	return w
}

// SLt reports whether w < o under two's-complement signed interpretation.
func (w Word) SLt(o Word) bool {
	negW, negO := w.isNegative(), o.isNegative()
	if negW != negO {
		return negW
	}
	return w.Cmp(o) < 0
}

// SGt reports whether w > o under two's-complement signed interpretation.
func (w Word) SGt(o Word) bool { return o.SLt(w) }

// SDiv returns w / o under two's-complement signed interpretation,
// truncating toward zero; division by zero yields zero.
func (w Word) SDiv(o Word) Word {
	if o.IsZero() {
		return WordZero()
	}
	negW, negO := w.isNegative(), o.isNegative()
	q := w.abs().Div(o.abs())
	if negW != negO {
		q = q.negate()
	}
	return q
}

// SMod returns w % o under two's-complement signed interpretation, taking
// the sign of the dividend; division by zero yields zero.
func (w Word) SMod(o Word) Word {
	if o.IsZero() {
		return WordZero()
	}
	r := w.abs().Mod(o.abs())
	if w.isNegative() {
		r = r.negate()
	}
	return r
}

// getByte returns the byte at big-endian index idx, or 0 when idx falls
// outside [0, 32).
func getByte(be [32]byte, idx int) byte {
	if idx < 0 || idx >= 32 {
		return 0
	}
	return be[idx]
}

// Shl returns w << n, shifting zeros in from the low end.
func (w Word) Shl(n uint) Word {
	if n >= 256 {
		return WordZero()
	}
	be := w.BigEndian()
	byteShift, bitShift := int(n/8), n%8
	var out [32]byte
	for i := 0; i < 32; i++ {
		hi := getByte(be, i+byteShift)
		if bitShift == 0 {
			out[i] = hi
			continue
		}
		lo := getByte(be, i+byteShift+1)
		out[i] = (hi << bitShift) | (lo >> (8 - bitShift))
	}
	return WordFromBigEndian(out)
}

// Shr returns w >> n, a logical (zero-filling) shift.
func (w Word) Shr(n uint) Word {
	if n >= 256 {
		return WordZero()
	}
	be := w.BigEndian()
	byteShift, bitShift := int(n/8), n%8
	var out [32]byte
	for i := 0; i < 32; i++ {
		lo := getByte(be, i-byteShift)
		if bitShift == 0 {
			out[i] = lo
			continue
		}
		hi := getByte(be, i-byteShift-1)
		out[i] = (lo >> bitShift) | (hi << (8 - bitShift))
	}
	return WordFromBigEndian(out)
}

// Sar returns w >> n, an arithmetic (sign-extending) shift.
func (w Word) Sar(n uint) Word {
	if n == 0 {
		return w
	}
	if n >= 256 {
		if w.isNegative() {
			return WordMax()
		}
		return WordZero()
	}
	shifted := w.Shr(n)
	if w.isNegative() {
		mask := WordMax().Shl(256 - n)
		shifted = shifted.Or(mask)
	}
	return shifted
}

// Byte returns the idx-th byte of w, counting from the most significant
// byte, or zero if idx is out of range (the EVM BYTE opcode's semantics).
func (w Word) Byte(idx Word) Word {
	if idx.Cmp(WordFromUint64(31)) > 0 {
		return WordZero()
	}
	be := w.BigEndian()
	return WordFromUint64(uint64(be[idx.Uint64()]))
}

// SignExtend treats w as a signed integer of (byteNum+1) bytes and extends
// its sign to the full 256 bits. byteNum >= 31 is a no-op (already full
// width), matching the EVM SIGNEXTEND opcode.
func (w Word) SignExtend(byteNum Word) Word {
	if byteNum.Cmp(WordFromUint64(31)) >= 0 {
		return w
	}
	b := int(byteNum.Uint64())
	be := w.BigEndian()
	signByteIdx := 31 - b
	signed := be[signByteIdx]&0x80 != 0
	var out [32]byte
	for i := 0; i < 32; i++ {
		if i < signByteIdx {
			if signed {
				out[i] = 0xFF
			}
		} else {
			out[i] = be[i]
		}
	}
	return WordFromBigEndian(out)
}

// String renders w as a 0x-prefixed hex string with leading zero bytes
// trimmed, for logging.
func (w Word) String() string {
	be := w.BigEndian()
	trimmed := strings.TrimLeft(hex.EncodeToString(be[:]), "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return "0x" + trimmed
}
