package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBits(s State) []int {
	var out []int
	for i := 0; i < StateBits; i++ {
		if s.Bit(i) {
			out = append(out, i)
		}
	}
	return out
}

func TestEncodeFirstSnapshotIsUnknown(t *testing.T) {
	enc := NewStateEncoder()
	grid := []string{"...", ".@.", "..."}

	s := enc.Encode(grid, nil)
	assert.False(t, s.Known())
	assert.Equal(t, Unknown, s)
	assert.True(t, enc.Discovered())
	assert.Equal(t, []string{"...", "...", "..."}, enc.Snapshot())
}

func TestEncodeWithoutSelfIsUnknown(t *testing.T) {
	enc := NewStateEncoder()
	enc.Encode([]string{".@."}, nil)

	s := enc.Encode([]string{"..."}, nil)
	assert.False(t, s.Known())
	assert.Equal(t, []string{"..."}, enc.Snapshot())
}

func TestEncodeBitLayout(t *testing.T) {
	grid := []string{
		"-+-",
		"|@>",
		"#a ",
	}
	enc := NewStateEncoder()
	require.False(t, enc.Encode(grid, nil).Known())

	s := enc.Encode(grid, &VisitHistory{})
	require.True(t, s.Known())
	assert.Equal(t, []int{4, 12, 24, 27, 32, 37, 52, 56}, setBits(s))

	g, ok := enc.Beneath()
	require.True(t, ok)
	assert.Equal(t, byte('.'), g)

	var history VisitHistory
	history.Append(Position{Row: 1, Col: 1})
	history.Append(Position{Row: 0, Col: 0})
	s = enc.Encode(grid, &history)
	assert.Equal(t, []int{4, 12, 24, 27, 32, 37, 52, 56, 63, 67}, setBits(s))
}

func TestEncodeOutOfBoundsNeighborsAreBlank(t *testing.T) {
	enc := NewStateEncoder()
	enc.Encode([]string{"@"}, nil)

	s := enc.Encode([]string{"@"}, nil)
	require.True(t, s.Known())
	assert.Equal(t, []int{45, 46, 47, 48, 49, 50, 51, 52}, setBits(s))
}

func TestEncodeBeneathComesFromPreviousSnapshot(t *testing.T) {
	enc := NewStateEncoder()
	enc.Encode([]string{"@>."}, nil)
	assert.Equal(t, []string{".>."}, enc.Snapshot())

	s := enc.Encode([]string{".@."}, nil)
	require.True(t, s.Known())
	g, _ := enc.Beneath()
	assert.Equal(t, byte('>'), g)
	assert.True(t, s.Bit(2*neighborhood+8), "stairs flag for the tile beneath")
	assert.Equal(t, []string{".>."}, enc.Snapshot())
}

func TestEncodeDiscoveryFlag(t *testing.T) {
	enc := NewStateEncoder()
	enc.Encode([]string{"@>."}, nil)
	assert.True(t, enc.TakeDiscovered())
	assert.False(t, enc.TakeDiscovered())

	enc.Encode([]string{"@>."}, nil)
	assert.False(t, enc.Discovered(), "same terrain is not a discovery")

	enc.Encode([]string{"@>#"}, nil)
	assert.True(t, enc.Discovered())
}

func TestEncodeIsDeterministic(t *testing.T) {
	frames := [][]string{
		{"----- ", "|.@.| ", "|...+#", "-----  "},
		{"----- ", "|..@| ", "|...+#", "-----  "},
		{"----- ", "|...| ", "|..@+#", "-----  "},
		{"----- ", "|...| ", "|...@#", "-----  "},
	}
	run := func() []State {
		enc := NewStateEncoder()
		var history VisitHistory
		var out []State
		for _, f := range frames {
			out = append(out, enc.Encode(f, &history))
			if pos, ok := FindSelf(f); ok {
				history.Append(pos)
			}
		}
		return out
	}

	first, second := run(), run()
	assert.Equal(t, first, second)
	for _, s := range first[1:] {
		require.True(t, s.Known())
		assert.LessOrEqual(t, s.Int().BitLen(), StateBits)
		assert.GreaterOrEqual(t, s.Int().Sign(), 0)
	}
}

func TestStateBitsRoundTrip(t *testing.T) {
	bits := make([]bool, StateBits)
	bits[0] = true
	bits[7] = true
	bits[8] = true
	bits[71] = true
	s := stateFromBits(bits)

	assert.Equal(t, "818000000000000001", s.String())
	for i, want := range bits {
		assert.Equal(t, want, s.Bit(i), "bit %d", i)
	}
	assert.Equal(t, StateBits, s.Int().BitLen())
	assert.Equal(t, "unknown", Unknown.String())
}
