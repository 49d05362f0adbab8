package vessel

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"strings"
)

const wordBits = 64

// Signature is a fixed-length bit vector: bit i reports whether an item
// passed anchor i at a given threshold. The zero value has length 0.
type Signature struct {
	words []uint64
	n     int
}

// NewSignature returns an all-zero signature of length n.
func NewSignature(n int) Signature {
	if n < 0 {
		n = 0
	}
	return Signature{words: make([]uint64, (n+wordBits-1)/wordBits), n: n}
}

// Compute derives a fresh signature for one expression vector:
// bit i = 1 iff expression[i] >= threshold (inclusive). NaN values never pass.
func Compute(expression []float64, threshold float64) Signature {
	s := NewSignature(len(expression))
	for i, v := range expression {
		if v >= threshold { // NaN compares false
			s.words[i/wordBits] |= 1 << (uint(i) % wordBits)
		}
	}
	return s
}

// ParseSignature reads a "0101"-style string, bit 0 first.
func ParseSignature(str string) (Signature, error) {
	s := NewSignature(len(str))
	for i, r := range str {
		switch r {
		case '1':
			s.words[i/wordBits] |= 1 << (uint(i) % wordBits)
		case '0':
		default:
			return Signature{}, fmt.Errorf("vessel: bad signature digit %q at %d", r, i)
		}
	}
	return s, nil
}

// Len returns the number of bits (anchors).
func (s Signature) Len() int { return s.n }

// Has reports bit i. Out-of-range positions report false.
func (s Signature) Has(i int) bool {
	if i < 0 || i >= s.n {
		return false
	}
	return s.words[i/wordBits]&(1<<(uint(i)%wordBits)) != 0
}

// Count returns the number of set bits.
func (s Signature) Count() int {
	c := 0
	for _, w := range s.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// Ones returns the positions of set bits in ascending order.
func (s Signature) Ones() []int {
	out := make([]int, 0, s.Count())
	for i := 0; i < s.n; i++ {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// Key returns a compact string usable as a map key.
// Signatures of different lengths never share a key.
func (s Signature) Key() string {
	buf := make([]byte, 0, 8+8*len(s.words))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.n))
	for _, w := range s.words {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	return string(buf)
}

// Equal reports whether s and o have the same length and bits.
func (s Signature) Equal(o Signature) bool {
	if s.n != o.n {
		return false
	}
	for i := range s.words {
		if s.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// And returns the bitwise AND of two signatures of equal length.
// Mismatched lengths yield the AND over the shorter length.
func (s Signature) And(o Signature) Signature {
	out := NewSignature(min(s.n, o.n))
	for i := range out.words {
		out.words[i] = s.words[i] & o.words[i]
	}
	if r := out.n % wordBits; r != 0 {
		out.words[len(out.words)-1] &= 1<<uint(r) - 1
	}
	return out
}

// SubsetOf reports whether every set bit of s is also set in o,
// i.e. s AND o == s.
func (s Signature) SubsetOf(o Signature) bool {
	if s.n != o.n {
		return false
	}
	for i := range s.words {
		if s.words[i]&^o.words[i] != 0 {
			return false
		}
	}
	return true
}

// String renders the bits as '0'/'1', anchor 0 first.
func (s Signature) String() string {
	var b strings.Builder
	b.Grow(s.n)
	for i := 0; i < s.n; i++ {
		if s.Has(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// validThreshold rejects NaN; ±Inf are legal (everything / nothing passes).
func validThreshold(t float64) bool { return !math.IsNaN(t) }
