package engine

import (
	"fmt"
	"math/big"
)

const (
	// PatternCount is the number of glyph classes tested around the agent.
	PatternCount = 7
	// neighborhood is the 3x3 block: 8 neighbors plus the tile beneath.
	neighborhood = 9
	// StateBits is the width of an encoded state.
	StateBits = (PatternCount + 1) * neighborhood
)

// State is a 72-bit encoded observation. The zero value is the Unknown
// sentinel, used when there is no usable observation.
type State struct {
	hi    uint8
	lo    uint64
	known bool
}

// Unknown is the sentinel for "no usable encoded state".
var Unknown = State{}

func stateFromBits(bits []bool) State {
	s := State{known: true}
	for _, b := range bits {
		s.hi = s.hi<<1 | uint8(s.lo>>63)
		s.lo <<= 1
		if b {
			s.lo |= 1
		}
	}
	return s
}

// Known reports whether s carries an encoding.
func (s State) Known() bool { return s.known }

// Bit returns bit i counted from the most significant end.
func (s State) Bit(i int) bool {
	if i < 0 || i >= StateBits {
		return false
	}
	if i < 8 {
		return s.hi>>(7-i)&1 == 1
	}
	return s.lo>>(StateBits-1-i)&1 == 1
}

// Bits expands s into StateBits values of 0 or 1, most significant first.
func (s State) Bits() []float64 {
	out := make([]float64, StateBits)
	for i := range out {
		if s.Bit(i) {
			out[i] = 1
		}
	}
	return out
}

// Int returns the encoding as an integer, or nil for Unknown.
func (s State) Int() *big.Int {
	if !s.known {
		return nil
	}
	v := new(big.Int).SetUint64(uint64(s.hi))
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(s.lo))
}

func (s State) String() string {
	if !s.known {
		return "unknown"
	}
	return fmt.Sprintf("%02x%016x", s.hi, s.lo)
}
