package engine

// Action is one keystroke-level command sent to the game.
type Action int

const (
	MoveNorth Action = iota
	MoveNorthEast
	MoveEast
	MoveSouthEast
	MoveSouth
	MoveSouthWest
	MoveWest
	MoveNorthWest
	ActionMore
	ActionYes
	ActionNo
)

// MoveActions is the subset of actions usable for exploration. The order
// fixes the weight block layout of the linear estimator.
var MoveActions = []Action{
	MoveNorth,
	MoveNorthEast,
	MoveEast,
	MoveSouthEast,
	MoveSouth,
	MoveSouthWest,
	MoveWest,
	MoveNorthWest,
}

var actionNames = [...]string{
	MoveNorth:     "MoveNorth",
	MoveNorthEast: "MoveNorthEast",
	MoveEast:      "MoveEast",
	MoveSouthEast: "MoveSouthEast",
	MoveSouth:     "MoveSouth",
	MoveSouthWest: "MoveSouthWest",
	MoveWest:      "MoveWest",
	MoveNorthWest: "MoveNorthWest",
	ActionMore:    "More",
	ActionYes:     "Yes",
	ActionNo:      "No",
}

var actionKeys = [...]byte{
	MoveNorth:     'k',
	MoveNorthEast: 'u',
	MoveEast:      'l',
	MoveSouthEast: 'n',
	MoveSouth:     'j',
	MoveSouthWest: 'b',
	MoveWest:      'h',
	MoveNorthWest: 'y',
	ActionMore:    '\r',
	ActionYes:     'y',
	ActionNo:      'n',
}

var moveDeltas = [...]Position{
	MoveNorth:     {Row: -1, Col: 0},
	MoveNorthEast: {Row: -1, Col: 1},
	MoveEast:      {Row: 0, Col: 1},
	MoveSouthEast: {Row: 1, Col: 1},
	MoveSouth:     {Row: 1, Col: 0},
	MoveSouthWest: {Row: 1, Col: -1},
	MoveWest:      {Row: 0, Col: -1},
	MoveNorthWest: {Row: -1, Col: -1},
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// Key returns the keystroke a game interface should send for the action.
func (a Action) Key() byte {
	if a < 0 || int(a) >= len(actionKeys) {
		return 0
	}
	return actionKeys[a]
}

// IsMove reports whether a is one of MoveActions.
func (a Action) IsMove() bool {
	return a >= MoveNorth && a <= MoveNorthWest
}

// Delta returns the row/column offset of a move action and false for
// anything else.
func (a Action) Delta() (Position, bool) {
	if !a.IsMove() {
		return Position{}, false
	}
	return moveDeltas[a], true
}

// moveIndex is the position of a within MoveActions, or -1.
func moveIndex(a Action) int {
	if !a.IsMove() {
		return -1
	}
	return int(a - MoveNorth)
}
