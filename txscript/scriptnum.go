// Copyright (c) 2015-2017 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"math"
	"math/big"
)

const (
	maxInt32 = 1<<31 - 1
	minInt32 = -1 << 31

	// MaxScriptNumLen is the maximum number of bytes data being interpreted
	// as an integer may be under the legacy numeric rules.
	MaxScriptNumLen = 4

	// MaxScriptNumLen64Bit is the maximum number of bytes data being
	// interpreted as an integer may be once 64-bit integers are enabled.
	MaxScriptNumLen64Bit = 8

	// DefaultBigIntScriptNumLen is the default operand width, in bytes, of
	// the big integer numeric rules.
	DefaultBigIntScriptNumLen = 258

	// lockTimeScriptNumLen is the operand width accepted by the lock time
	// opcodes.  Lock times are unsigned 32-bit fields, so a 5-byte operand
	// is needed to express the full range.
	lockTimeScriptNumLen = 5
)

var (
	// bigZero is a shared zero value.  It must never be modified.
	bigZero = new(big.Int)

	// maxInt64Magnitude is the largest magnitude allowed by the 64-bit
	// numeric rules.  The minimum int64 value is excluded so the range is
	// symmetric.
	maxInt64Magnitude = big.NewInt(math.MaxInt64)
)

// ScriptNum represents a numeric value used in the scripting engine with
// special handling to deal with the subtle semantics required by consensus.
//
// All numbers are stored on the data and alternate stacks encoded as little
// endian with a sign bit.  All numeric opcodes such as OP_ADD, OP_SUB, and
// OP_MUL are only allowed to operate on operands whose encoded width fits the
// active numeric rules, however the results of numeric operations may exceed
// that width under the legacy rules.  The consequence is that such results can
// still be reinterpreted as byte arrays but can not be used as operands of
// further numeric operations.
//
// The value is backed by an arbitrary precision integer so that every numeric
// regime, including the big integer one, is handled by the same code.  A
// ScriptNum is immutable: every operation returns a new value.  The zero value
// is a valid zero.
type ScriptNum struct {
	v *big.Int
}

// NewScriptNum returns a ScriptNum for the provided integer.
func NewScriptNum(v int64) ScriptNum {
	return ScriptNum{v: big.NewInt(v)}
}

// NewScriptNumFromBig returns a ScriptNum for a copy of the provided integer.
func NewScriptNumFromBig(v *big.Int) ScriptNum {
	return ScriptNum{v: new(big.Int).Set(v)}
}

// bigInt returns the backing integer.  The result must not be modified.
func (n ScriptNum) bigInt() *big.Int {
	if n.v == nil {
		return bigZero
	}
	return n.v
}

// Big returns a copy of the number as a big integer.
func (n ScriptNum) Big() *big.Int {
	return new(big.Int).Set(n.bigInt())
}

// checkMinimalDataEncoding returns whether or not the passed byte array adheres
// to the minimal encoding requirements.
func checkMinimalDataEncoding(v []byte) error {
	if len(v) == 0 {
		return nil
	}

	// Check that the number is encoded with the minimum possible
	// number of bytes.
	//
	// If the most-significant-byte - excluding the sign bit - is zero
	// then we're not minimal.  Note how this test also rejects the
	// negative-zero encoding, [0x80].
	if v[len(v)-1]&0x7f == 0 {
		// One exception: if there's more than one byte and the most
		// significant bit of the second-most-significant-byte is set
		// it would conflict with the sign bit.  An example of this case
		// is +-255, which encode to 0xff00 and 0xff80 respectively.
		// (big-endian).
		if len(v) == 1 || v[len(v)-2]&0x80 == 0 {
			str := fmt.Sprintf("numeric value encoded as %x is "+
				"not minimally encoded", v)
			return scriptError(ErrMinimalNum, str)
		}
	}

	return nil
}

// IsMinimallyEncoded returns whether the passed byte array is the minimal
// encoding of a number that fits in maxLen bytes.
func IsMinimallyEncoded(v []byte, maxLen int) bool {
	if len(v) > maxLen {
		return false
	}
	return checkMinimalDataEncoding(v) == nil
}

// MinimallyEncode returns the minimal encoding of the number represented by
// the passed little endian sign-magnitude bytes.  Any encoding is accepted,
// including padded and negative zero forms.  The passed slice is not
// modified.
func MinimallyEncode(v []byte) []byte {
	if len(v) == 0 {
		return nil
	}

	// If the last byte is not 0x00 or 0x80, the encoding is already
	// minimal.
	last := v[len(v)-1]
	if last&0x7f != 0 {
		return v
	}

	// A single 0x00 or 0x80 byte is a zero.
	if len(v) == 1 {
		return nil
	}

	// If the next byte has its sign bit set, the padding byte is needed.
	if v[len(v)-2]&0x80 != 0 {
		return v
	}

	// Find the most significant non-zero byte and fold the sign into it,
	// adding a byte if its high bit is already in use.
	for i := len(v) - 1; i > 0; i-- {
		if v[i-1] == 0 {
			continue
		}
		if v[i-1]&0x80 != 0 {
			result := make([]byte, i+1)
			copy(result, v[:i])
			result[i] = last
			return result
		}
		result := make([]byte, i)
		copy(result, v[:i])
		result[i-1] |= last
		return result
	}

	// Every byte is zero so the number is zero.
	return nil
}

// Bytes returns the number serialized as a little endian with a sign bit.
//
// Example encodings:
//
//	   127 -> [0x7f]
//	  -127 -> [0xff]
//	   128 -> [0x80 0x00]
//	  -128 -> [0x80 0x80]
//	   129 -> [0x81 0x00]
//	  -129 -> [0x81 0x80]
//	   256 -> [0x00 0x01]
//	  -256 -> [0x00 0x81]
//	 32767 -> [0xff 0x7f]
//	-32767 -> [0xff 0xff]
//	 32768 -> [0x00 0x80 0x00]
//	-32768 -> [0x00 0x80 0x80]
func (n ScriptNum) Bytes() []byte {
	b := n.bigInt()

	// Zero encodes as an empty byte slice.
	if b.Sign() == 0 {
		return nil
	}

	// Take the absolute value and keep track of whether it was originally
	// negative.
	isNegative := b.Sign() < 0
	magnitude := new(big.Int).Abs(b).Bytes()

	// Encode to little endian.  The maximum number of encoded bytes is the
	// magnitude length plus one for a possible sign byte.
	result := make([]byte, len(magnitude), len(magnitude)+1)
	for i, c := range magnitude {
		result[len(magnitude)-1-i] = c
	}

	// When the most significant byte already has the high bit set, an
	// additional high byte is required to indicate whether the number is
	// negative or positive.  The additional byte is removed when converting
	// back to an integral and its high bit is used to denote the sign.
	//
	// Otherwise, when the most significant byte does not already have the
	// high bit set, use it to indicate the value is negative, if needed.
	if result[len(result)-1]&0x80 != 0 {
		extraByte := byte(0x00)
		if isNegative {
			extraByte = 0x80
		}
		result = append(result, extraByte)

	} else if isNegative {
		result[len(result)-1] |= 0x80
	}

	return result
}

// Int64 returns the script number clamped to a valid int64.  That is to say
// when the script number is higher than the max allowed int64, the max int64
// value is returned and vice versa for the minimum value.
func (n ScriptNum) Int64() int64 {
	b := n.bigInt()
	if b.IsInt64() {
		return b.Int64()
	}
	if b.Sign() > 0 {
		return math.MaxInt64
	}
	return math.MinInt64
}

// Int32 returns the script number clamped to a valid int32.  That is to say
// when the script number is higher than the max allowed int32, the max int32
// value is returned and vice versa for the minimum value.  Note that this
// behavior is different from a simple int32 cast because that truncates
// and the consensus rules dictate numbers which are directly cast to ints
// provide this behavior.
func (n ScriptNum) Int32() int32 {
	v := n.Int64()
	if v > maxInt32 {
		return maxInt32
	}
	if v < minInt32 {
		return minInt32
	}
	return int32(v)
}

// String returns the number in base 10.
func (n ScriptNum) String() string {
	return n.bigInt().String()
}

// Sign returns -1, 0 or +1 depending on the sign of the number.
func (n ScriptNum) Sign() int {
	return n.bigInt().Sign()
}

// IsZero returns whether the number is zero.
func (n ScriptNum) IsZero() bool {
	return n.bigInt().Sign() == 0
}

// Cmp compares n and o and returns -1, 0 or +1 when n is respectively less
// than, equal to or greater than o.
func (n ScriptNum) Cmp(o ScriptNum) int {
	return n.bigInt().Cmp(o.bigInt())
}

// Add returns n + o.
func (n ScriptNum) Add(o ScriptNum) ScriptNum {
	return ScriptNum{v: new(big.Int).Add(n.bigInt(), o.bigInt())}
}

// Sub returns n - o.
func (n ScriptNum) Sub(o ScriptNum) ScriptNum {
	return ScriptNum{v: new(big.Int).Sub(n.bigInt(), o.bigInt())}
}

// Mul returns n * o.
func (n ScriptNum) Mul(o ScriptNum) ScriptNum {
	return ScriptNum{v: new(big.Int).Mul(n.bigInt(), o.bigInt())}
}

// Div returns n / o truncated toward zero.  The divisor must not be zero.
func (n ScriptNum) Div(o ScriptNum) ScriptNum {
	return ScriptNum{v: new(big.Int).Quo(n.bigInt(), o.bigInt())}
}

// Mod returns the remainder of n / o truncated toward zero, so the result has
// the sign of n.  The divisor must not be zero.
func (n ScriptNum) Mod(o ScriptNum) ScriptNum {
	return ScriptNum{v: new(big.Int).Rem(n.bigInt(), o.bigInt())}
}

// Negate returns -n.
func (n ScriptNum) Negate() ScriptNum {
	return ScriptNum{v: new(big.Int).Neg(n.bigInt())}
}

// Abs returns |n|.
func (n ScriptNum) Abs() ScriptNum {
	return ScriptNum{v: new(big.Int).Abs(n.bigInt())}
}

// And returns the bitwise and of n and o using two's complement semantics.
func (n ScriptNum) And(o ScriptNum) ScriptNum {
	return ScriptNum{v: new(big.Int).And(n.bigInt(), o.bigInt())}
}

// Or returns the bitwise or of n and o using two's complement semantics.
func (n ScriptNum) Or(o ScriptNum) ScriptNum {
	return ScriptNum{v: new(big.Int).Or(n.bigInt(), o.bigInt())}
}

// Xor returns the bitwise exclusive or of n and o using two's complement
// semantics.
func (n ScriptNum) Xor(o ScriptNum) ScriptNum {
	return ScriptNum{v: new(big.Int).Xor(n.bigInt(), o.bigInt())}
}

// MakeScriptNum interprets the passed serialized bytes as an encoded integer
// and returns the result as a script number.
//
// Since the consensus rules dictate that serialized bytes interpreted as ints
// are only allowed to be in a range determined by the active numeric rules,
// an error will be returned when the provided bytes would result in a number
// outside of that range.  In particular, the range for the vast majority of
// opcodes dealing with numeric values is limited to 4 bytes and therefore
// will pass MaxScriptNumLen to this function.
//
// The requireMinimal flag causes an error to be returned if additional checks
// on the encoding determine it is not represented with the smallest possible
// number of bytes or is the negative 0 encoding, [0x80].  For example,
// consider the number 127.  It could be encoded as [0x7f], [0x7f 0x00],
// [0x7f 0x00 0x00 ...], etc.  All forms except [0x7f] will return an error
// with requireMinimal enabled.
//
// The scriptNumLen is the maximum number of bytes the encoded value can be
// before an ErrInvalidNumberRange is returned.
func MakeScriptNum(v []byte, requireMinimal bool, scriptNumLen int) (ScriptNum, error) {
	return makeScriptNum(v, requireMinimal, scriptNumLen, ErrInvalidNumberRange)
}

// makeScriptNum is MakeScriptNum with a caller-selected error code for
// encodings that are too wide.
func makeScriptNum(v []byte, requireMinimal bool, scriptNumLen int,
	rangeErr ErrorCode) (ScriptNum, error) {

	// Interpreting data requires that it is not larger than the passed
	// scriptNumLen value.
	if len(v) > scriptNumLen {
		str := fmt.Sprintf("numeric value encoded as %x is %d bytes "+
			"which exceeds the max allowed of %d", v, len(v),
			scriptNumLen)
		return ScriptNum{}, scriptError(rangeErr, str)
	}

	// Enforce minimal encoded if requested.
	if requireMinimal {
		if err := checkMinimalDataEncoding(v); err != nil {
			return ScriptNum{}, err
		}
	}

	// Zero is encoded as an empty byte slice.
	if len(v) == 0 {
		return ScriptNum{}, nil
	}

	// Values that fit in 8 bytes have a magnitude below 2^63 once the sign
	// bit is removed, so they are decoded without a big integer detour.
	if len(v) <= 8 {
		var result uint64
		for i, val := range v {
			result |= uint64(val) << uint8(8*i)
		}

		// When the most significant byte of the input bytes has the
		// sign bit set, the result is negative.  So, remove the sign bit
		// from the result and make it negative.
		if v[len(v)-1]&0x80 != 0 {
			result &^= uint64(0x80) << uint8(8*(len(v)-1))
			return NewScriptNum(-int64(result)), nil
		}
		return NewScriptNum(int64(result)), nil
	}

	// Reverse into big endian, dropping the sign bit.
	magnitude := make([]byte, len(v))
	for i, val := range v {
		magnitude[len(v)-1-i] = val
	}
	isNegative := magnitude[0]&0x80 != 0
	magnitude[0] &= 0x7f

	result := new(big.Int).SetBytes(magnitude)
	if isNegative {
		result.Neg(result)
	}
	return ScriptNum{v: result}, nil
}

// numericRegime captures the operand width and result range enforced by the
// numeric opcodes under a given set of flags.
type numericRegime struct {
	// operandLen is the maximum encoded width of numeric operands.
	operandLen int

	// maxMagnitude bounds the absolute value of arithmetic results.
	maxMagnitude *big.Int

	// operandErr is returned for operands wider than operandLen.
	operandErr ErrorCode

	// resultErr is returned for arithmetic results beyond maxMagnitude.
	resultErr ErrorCode

	// encodeErr is returned by OP_BIN2NUM when the result does not fit the
	// operand width.
	encodeErr ErrorCode
}

// newNumericRegime returns the numeric rules selected by the flags.  The
// bigIntLen is only used when big integers are enabled.
func newNumericRegime(flags ScriptFlags, bigIntLen int) *numericRegime {
	switch {
	case flags.HasFlag(ScriptVerifyBigIntegers):
		// The largest magnitude that can be encoded in bigIntLen bytes is
		// 2^(8*bigIntLen-1) - 1.
		maxMagnitude := new(big.Int).Lsh(big.NewInt(1), uint(8*bigIntLen-1))
		maxMagnitude.Sub(maxMagnitude, big.NewInt(1))
		return &numericRegime{
			operandLen:   bigIntLen,
			maxMagnitude: maxMagnitude,
			operandErr:   ErrInvalidNumberRangeBigInt,
			resultErr:    ErrInvalidNumberRangeBigInt,
			encodeErr:    ErrInvalidNumberRangeBigInt,
		}

	case flags.HasFlag(ScriptVerify64BitIntegers):
		return &numericRegime{
			operandLen:   MaxScriptNumLen64Bit,
			maxMagnitude: maxInt64Magnitude,
			operandErr:   ErrInvalidNumberRange,
			resultErr:    ErrInvalidNumberRange64Bit,
			encodeErr:    ErrInvalidNumberRange64Bit,
		}
	}

	return &numericRegime{
		operandLen:   MaxScriptNumLen,
		maxMagnitude: maxInt64Magnitude,
		operandErr:   ErrInvalidNumberRange,
		resultErr:    ErrInvalidNumberRange64Bit,
		encodeErr:    ErrInvalidNumberRange,
	}
}

// decode interprets v as a numeric operand.
func (r *numericRegime) decode(v []byte, requireMinimal bool) (ScriptNum, error) {
	return makeScriptNum(v, requireMinimal, r.operandLen, r.operandErr)
}

// checkResult returns n when its magnitude is within the range of the regime
// and a range error otherwise.
func (r *numericRegime) checkResult(n ScriptNum) (ScriptNum, error) {
	b := n.bigInt()
	if b.CmpAbs(r.maxMagnitude) > 0 {
		str := fmt.Sprintf("numeric result %v is out of range", b)
		return ScriptNum{}, scriptError(r.resultErr, str)
	}
	return n, nil
}

// checkEncoded returns an error when the minimally encoded v does not fit the
// operand width of the regime.
func (r *numericRegime) checkEncoded(v []byte) error {
	if !IsMinimallyEncoded(v, r.operandLen) {
		str := fmt.Sprintf("numeric value encoded as %x exceeds the max "+
			"allowed width of %d", v, r.operandLen)
		return scriptError(r.encodeErr, str)
	}
	return nil
}

// maxScriptNum returns the largest value allowed by the regime.
func (r *numericRegime) maxScriptNum() ScriptNum {
	return NewScriptNumFromBig(r.maxMagnitude)
}
