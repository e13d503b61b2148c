package engine

const (
	blankGlyph        = ' '
	unknownFloorGlyph = '.'
)

// patterns are tested most significant first.
var patterns = [PatternCount]func(byte) bool{
	isLetter,
	glyphIs('+'),
	glyphIs('>'),
	glyphIs('-'),
	glyphIs('|'),
	glyphIs(' '),
	glyphIs('#'),
}

func isLetter(g byte) bool {
	return (g >= 'a' && g <= 'z') || (g >= 'A' && g <= 'Z')
}

func glyphIs(want byte) func(byte) bool {
	return func(g byte) bool { return g == want }
}

// StateEncoder turns consecutive map snapshots into encoded states. It keeps
// the previous snapshot with the agent glyph replaced by the terrain under it.
type StateEncoder struct {
	prevMap    [][]byte
	beneath    byte
	discovered bool
}

func NewStateEncoder() *StateEncoder {
	return &StateEncoder{}
}

// Encode returns the encoded state for grid given the positions occupied at
// earlier steps. It returns Unknown when the agent is not on the map or on
// the first snapshot of an episode. The stored snapshot always advances.
func (e *StateEncoder) Encode(grid []string, history *VisitHistory) State {
	state := Unknown
	if pos, ok := FindSelf(grid); ok && e.prevMap != nil {
		e.beneath = glyphAtBytes(e.prevMap, pos.Row, pos.Col, unknownFloorGlyph)
		state = e.encodeAt(grid, pos, history)
	}
	e.advance(grid)
	return state
}

func (e *StateEncoder) encodeAt(grid []string, pos Position, history *VisitHistory) State {
	var cells [neighborhood]byte
	n := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			cells[n] = glyphAt(grid, pos.Row+dy, pos.Col+dx)
			n++
		}
	}
	cells[n] = e.beneath

	bits := make([]bool, 0, StateBits)
	for _, match := range patterns {
		for _, g := range cells {
			bits = append(bits, match(g))
		}
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			near := Position{Row: pos.Row + dy, Col: pos.Col + dx}
			bits = append(bits, history != nil && history.Visited(near))
		}
	}
	return stateFromBits(bits)
}

func (e *StateEncoder) advance(grid []string) {
	old := e.prevMap
	next := make([][]byte, len(grid))
	for i, line := range grid {
		next[i] = []byte(line)
	}
	if pos, ok := FindSelf(grid); ok {
		under := byte(unknownFloorGlyph)
		if old != nil {
			under = glyphAtBytes(old, pos.Row, pos.Col, unknownFloorGlyph)
		}
		row := next[pos.Row]
		for i := range row {
			if row[i] == selfGlyph {
				row[i] = under
			}
		}
	}
	e.prevMap = next
	if old == nil || !sameSnapshot(old, next) {
		e.discovered = true
	}
}

// Beneath returns the terrain the agent stood on at the last known encode.
func (e *StateEncoder) Beneath() (byte, bool) {
	return e.beneath, e.beneath != 0
}

// Discovered reports whether terrain changed since the flag was last taken.
func (e *StateEncoder) Discovered() bool { return e.discovered }

// TakeDiscovered returns the discovery flag and clears it.
func (e *StateEncoder) TakeDiscovered() bool {
	d := e.discovered
	e.discovered = false
	return d
}

// Snapshot returns a copy of the stored previous map.
func (e *StateEncoder) Snapshot() []string {
	if e.prevMap == nil {
		return nil
	}
	out := make([]string, len(e.prevMap))
	for i, row := range e.prevMap {
		out[i] = string(row)
	}
	return out
}

func (e *StateEncoder) Reset() {
	e.prevMap = nil
	e.beneath = 0
	e.discovered = false
}

func glyphAt(grid []string, row, col int) byte {
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return blankGlyph
	}
	return grid[row][col]
}

func glyphAtBytes(grid [][]byte, row, col int, fallback byte) byte {
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return fallback
	}
	return grid[row][col]
}

func sameSnapshot(a, b [][]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if string(a[i]) != string(b[i]) {
			return false
		}
	}
	return true
}
