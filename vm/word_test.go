package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordBigEndianRoundTrip(t *testing.T) {
	var be [32]byte
	be[30] = 0x01
	be[31] = 0x2c
	w := WordFromBigEndian(be)
	assert.Equal(t, be, w.BigEndian())
	assert.Equal(t, uint64(300), w.Uint64())
}

func TestWordWrappingArithmetic(t *testing.T) {
	max := WordMax()
	one := WordOne()
	assert.True(t, max.WrappingAdd(one).IsZero())
	assert.True(t, WordZero().WrappingSub(one).Eq(max))
}

func TestWordDivModByZero(t *testing.T) {
	a := WordFromUint64(10)
	z := WordZero()
	assert.True(t, a.Div(z).IsZero())
	assert.True(t, a.Mod(z).IsZero())
}

func TestWordComparisons(t *testing.T) {
	a := WordFromUint64(5)
	b := WordFromUint64(10)
	assert.True(t, a.Lt(b))
	assert.True(t, b.Gt(a))
	assert.True(t, a.Eq(WordFromUint64(5)))
}

func TestWordSignedDivMod(t *testing.T) {
	negOne := WordZero().WrappingSub(WordOne())
	two := WordFromUint64(2)
	// -1 / 2 == 0, truncating toward zero
	assert.True(t, negOne.SDiv(two).IsZero())
	// -1 % 2 == -1
	assert.True(t, negOne.SMod(two).Eq(negOne))
}

func TestWordSignedCompare(t *testing.T) {
	negOne := WordZero().WrappingSub(WordOne())
	one := WordOne()
	assert.True(t, negOne.SLt(one))
	assert.True(t, one.SGt(negOne))
	// unsigned comparison disagrees: negOne is WordMax, so it's Gt one.
	assert.True(t, negOne.Gt(one))
}

func TestWordShifts(t *testing.T) {
	one := WordOne()
	assert.True(t, one.Shl(8).Eq(WordFromUint64(256)))
	assert.True(t, WordFromUint64(256).Shr(8).Eq(one))

	negOne := WordZero().WrappingSub(WordOne())
	assert.True(t, negOne.Sar(1).Eq(negOne)) // sign-extends, stays all-ones
}

func TestWordByte(t *testing.T) {
	w := WordFromUint64(0x0102)
	assert.Equal(t, uint64(0x01), w.Byte(WordFromUint64(30)).Uint64())
	assert.Equal(t, uint64(0x02), w.Byte(WordFromUint64(31)).Uint64())
	assert.True(t, w.Byte(WordFromUint64(32)).IsZero())
}

func TestWordSignExtend(t *testing.T) {
	// 0xFF as a 1-byte signed value is -1; sign-extended to 256 bits it's
	// all-ones.
	w := WordFromUint64(0xFF)
	ext := w.SignExtend(WordZero())
	assert.True(t, ext.Eq(WordZero().WrappingSub(WordOne())))
}

func TestWordString(t *testing.T) {
	assert.Equal(t, "0x0", WordZero().String())
	assert.Equal(t, "0x2a", WordFromUint64(0x2a).String())
}
