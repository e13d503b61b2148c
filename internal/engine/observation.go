package engine

import "strings"

const selfGlyph = '@'

// Position is a cell on the rendered map.
type Position struct {
	Row int
	Col int
}

// Add returns p shifted by d.
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Message is the game's top-line prompt state.
type Message struct {
	IsMore bool   `json:"isMore"`
	IsYN   bool   `json:"isYN"`
	Text   string `json:"text"`
}

// Depth is the dungeon level, when the status line shows one.
type Depth struct {
	Level int  `json:"level"`
	Known bool `json:"known"`
}

// KnownDepth is a convenience constructor for a known Depth.
func KnownDepth(level int) Depth { return Depth{Level: level, Known: true} }

// Observation is everything the game interface reports for one turn.
type Observation struct {
	Map     []string `json:"map"`
	Message Message  `json:"message"`
	Reward  float64  `json:"reward"`
	Depth   Depth    `json:"depth"`
}

// FindSelf returns the first agent glyph in row-major order.
func FindSelf(grid []string) (Position, bool) {
	for row, line := range grid {
		if col := strings.IndexByte(line, selfGlyph); col >= 0 {
			return Position{Row: row, Col: col}, true
		}
	}
	return Position{}, false
}

// VisitHistory records the positions occupied during an episode.
type VisitHistory struct {
	order []Position
	seen  map[Position]int
}

// Append records p as occupied for the current step.
func (h *VisitHistory) Append(p Position) {
	if h.seen == nil {
		h.seen = make(map[Position]int)
	}
	h.order = append(h.order, p)
	h.seen[p]++
}

// Visited reports whether p was occupied at any recorded step.
func (h *VisitHistory) Visited(p Position) bool {
	return h.seen[p] > 0
}

// Visits returns how many recorded steps were spent on p.
func (h *VisitHistory) Visits(p Position) int {
	return h.seen[p]
}

func (h *VisitHistory) Len() int {
	return len(h.order)
}

// Positions returns a copy of the recorded positions in order.
func (h *VisitHistory) Positions() []Position {
	if len(h.order) == 0 {
		return nil
	}
	out := make([]Position, len(h.order))
	copy(out, h.order)
	return out
}

func (h *VisitHistory) Reset() {
	h.order = nil
	h.seen = nil
}
