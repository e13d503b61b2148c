package engine

import (
	"fmt"
	"math/rand"
	"sort"
)

const (
	glyphRock     = ' '
	glyphFloor    = '.'
	glyphCorridor = '#'
	glyphHWall    = '-'
	glyphVWall    = '|'
	glyphDoor     = '+'
	glyphStairs   = '>'
	glyphGold     = '$'
	glyphTrap     = '^'
)

const (
	goldReward  = 1.0
	killReward  = 2.0
	trapPenalty = 5.0
)

var monsterNames = map[byte]string{
	'd': "jackal",
	'r': "sewer rat",
	'k': "kobold",
	'F': "lichen",
	'x': "grid bug",
}

var monsterGlyphs = []byte{'d', 'r', 'k', 'F', 'x'}

// room is a rectangle whose border is wall.
type room struct {
	top, left, bottom, right int
}

func (r room) contains(p Position) bool {
	return p.Row >= r.top && p.Row <= r.bottom && p.Col >= r.left && p.Col <= r.right
}

func (r room) overlaps(o room) bool {
	return r.left-1 <= o.right && o.left-1 <= r.right && r.top-1 <= o.bottom && o.top-1 <= r.bottom
}

func (r room) center() Position {
	return Position{Row: (r.top + r.bottom) / 2, Col: (r.left + r.right) / 2}
}

type promptKind int

const (
	promptNone promptKind = iota
	promptMore
	promptAttack
	promptTrap
)

// dungeonEnv is a small procedural rogue-like level used to drive the agent
// without a real game process. It renders the map as the game would.
type dungeonEnv struct {
	rows, cols int
	levelRows  int
	levelCols  int
	roomCount  int
	maxSteps   int
	maxDepth   int
	stepsTaken int
	depth      int
	terrain    [][]byte
	seen       [][]bool
	rooms      []room
	monsters   map[Position]byte
	traps      map[Position]bool
	gold       map[Position]bool
	pos        Position
	prompt     promptKind
	pending    Position
	message    Message
	rng        *rand.Rand
}

func newDungeonEnv(rows, cols, rooms, overrideMaxSteps, maxDepth int, rng *rand.Rand) *dungeonEnv {
	if rows < 10 {
		rows = 10
	}
	if cols < 20 {
		cols = 20
	}
	if rooms <= 0 {
		rooms = 1
	}
	if maxDepth <= 1 {
		maxDepth = 2
	}
	baseSteps := rows * cols / 2
	minSteps := rows + cols
	if baseSteps < minSteps {
		baseSteps = minSteps
	}
	maxSteps := baseSteps
	if overrideMaxSteps > 0 {
		maxSteps = overrideMaxSteps
	}
	if maxSteps < 10 {
		maxSteps = 10
	}
	return &dungeonEnv{
		rows:      rows,
		cols:      cols,
		levelRows: rows,
		levelCols: cols,
		roomCount: rooms,
		maxSteps:  maxSteps,
		maxDepth:  maxDepth,
		rng:       rng,
	}
}

func (d *dungeonEnv) reset() {
	d.stepsTaken = 0
	d.depth = 1
	d.generate()
}

func (d *dungeonEnv) clearLevel() {
	d.terrain = make([][]byte, d.rows)
	d.seen = make([][]bool, d.rows)
	for r := range d.terrain {
		d.terrain[r] = make([]byte, d.cols)
		for c := range d.terrain[r] {
			d.terrain[r][c] = glyphRock
		}
		d.seen[r] = make([]bool, d.cols)
	}
	d.rooms = nil
	d.monsters = make(map[Position]byte)
	d.traps = make(map[Position]bool)
	d.gold = make(map[Position]bool)
	d.prompt = promptNone
	d.message = Message{}
}

func (d *dungeonEnv) generate() {
	d.rows, d.cols = d.levelRows, d.levelCols
	d.clearLevel()
	for attempt := 0; len(d.rooms) < d.roomCount && attempt < d.roomCount*30; attempt++ {
		h := 3 + d.rng.Intn(3)
		w := 4 + d.rng.Intn(6)
		if h+2 > d.rows || w+2 > d.cols {
			continue
		}
		top := d.rng.Intn(d.rows - h - 1)
		left := d.rng.Intn(d.cols - w - 1)
		candidate := room{top: top, left: left, bottom: top + h + 1, right: left + w + 1}
		clash := false
		for _, r := range d.rooms {
			if r.overlaps(candidate) {
				clash = true
				break
			}
		}
		if !clash {
			d.rooms = append(d.rooms, candidate)
		}
	}
	if len(d.rooms) == 0 {
		d.rooms = append(d.rooms, room{top: 1, left: 1, bottom: 5, right: 7})
	}
	sort.Slice(d.rooms, func(i, j int) bool { return d.rooms[i].left < d.rooms[j].left })
	for _, r := range d.rooms {
		d.carveRoom(r)
	}
	for i := 1; i < len(d.rooms); i++ {
		d.connect(d.rooms[i-1].center(), d.rooms[i].center())
	}

	first, last := d.rooms[0], d.rooms[len(d.rooms)-1]
	d.pos = d.freeCell(first)
	stairs := d.freeCell(last)
	d.terrain[stairs.Row][stairs.Col] = glyphStairs
	for _, r := range d.rooms[1:] {
		if d.rng.Float64() < 0.5 {
			d.monsters[d.freeCell(r)] = monsterGlyphs[d.rng.Intn(len(monsterGlyphs))]
		}
		if d.rng.Float64() < 0.5 {
			d.gold[d.freeCell(r)] = true
		}
		if d.rng.Float64() < 0.25 {
			d.traps[d.freeCell(r)] = true
		}
	}
	d.reveal()
}

func (d *dungeonEnv) carveRoom(r room) {
	for row := r.top; row <= r.bottom; row++ {
		for col := r.left; col <= r.right; col++ {
			switch {
			case row == r.top || row == r.bottom:
				d.terrain[row][col] = glyphHWall
			case col == r.left || col == r.right:
				d.terrain[row][col] = glyphVWall
			default:
				d.terrain[row][col] = glyphFloor
			}
		}
	}
}

// connect digs an L-shaped corridor, turning crossed walls into doors.
func (d *dungeonEnv) connect(from, to Position) {
	dig := func(row, col int) {
		switch d.terrain[row][col] {
		case glyphRock:
			d.terrain[row][col] = glyphCorridor
		case glyphHWall, glyphVWall:
			d.terrain[row][col] = glyphDoor
		}
	}
	for col := from.Col; col != to.Col; col += sign(to.Col - from.Col) {
		dig(from.Row, col)
	}
	for row := from.Row; row != to.Row; row += sign(to.Row - from.Row) {
		dig(row, to.Col)
	}
	dig(to.Row, to.Col)
}

// freeCell picks an empty floor cell inside r, falling back to its center.
func (d *dungeonEnv) freeCell(r room) Position {
	for attempt := 0; attempt < 20; attempt++ {
		p := Position{
			Row: r.top + 1 + d.rng.Intn(r.bottom-r.top-1),
			Col: r.left + 1 + d.rng.Intn(r.right-r.left-1),
		}
		if d.occupied(p) {
			continue
		}
		return p
	}
	return r.center()
}

func (d *dungeonEnv) occupied(p Position) bool {
	if p == d.pos || d.gold[p] || d.traps[p] {
		return true
	}
	if _, ok := d.monsters[p]; ok {
		return true
	}
	return d.terrain[p.Row][p.Col] != glyphFloor
}

func (d *dungeonEnv) inBounds(p Position) bool {
	return p.Row >= 0 && p.Row < d.rows && p.Col >= 0 && p.Col < d.cols
}

func (d *dungeonEnv) walkable(p Position) bool {
	if !d.inBounds(p) {
		return false
	}
	switch d.terrain[p.Row][p.Col] {
	case glyphFloor, glyphCorridor, glyphDoor, glyphStairs:
		return true
	}
	return false
}

// reveal marks the cells around the agent as seen, and the whole room when
// the agent is in one.
func (d *dungeonEnv) reveal() {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			p := Position{Row: d.pos.Row + dr, Col: d.pos.Col + dc}
			if d.inBounds(p) {
				d.seen[p.Row][p.Col] = true
			}
		}
	}
	for _, r := range d.rooms {
		if !r.contains(d.pos) {
			continue
		}
		for row := r.top; row <= r.bottom; row++ {
			for col := r.left; col <= r.right; col++ {
				d.seen[row][col] = true
			}
		}
	}
}

func (d *dungeonEnv) timedOut() bool {
	return d.stepsTaken >= d.maxSteps
}

// step applies action and returns the raw reward and whether the episode is
// over.
func (d *dungeonEnv) step(action Action) (float64, bool) {
	if d.timedOut() {
		return 0, true
	}
	d.stepsTaken++
	switch d.prompt {
	case promptMore:
		if action == ActionMore {
			d.prompt = promptNone
			d.message = Message{}
		}
		return 0, d.timedOut()
	case promptAttack:
		target := d.pending
		d.prompt = promptNone
		d.message = Message{}
		if action != ActionYes {
			return 0, d.timedOut()
		}
		name := monsterNames[d.monsters[target]]
		delete(d.monsters, target)
		d.message = Message{Text: fmt.Sprintf("You kill the %s!", name)}
		return killReward, d.timedOut()
	case promptTrap:
		target := d.pending
		d.prompt = promptNone
		d.message = Message{}
		if action != ActionYes {
			return 0, d.timedOut()
		}
		d.message = Message{Text: "A dart shoots out at you!"}
		reward, done := d.moveTo(target)
		return reward - trapPenalty, done
	}

	d.message = Message{}
	delta, ok := action.Delta()
	if !ok {
		return 0, d.timedOut()
	}
	next := d.pos.Add(delta)
	if !d.walkable(next) {
		return 0, d.timedOut()
	}
	if m, ok := d.monsters[next]; ok {
		d.prompt = promptAttack
		d.pending = next
		d.message = Message{IsYN: true, Text: fmt.Sprintf("Really attack the %s?", monsterNames[m])}
		return 0, d.timedOut()
	}
	if d.traps[next] {
		d.prompt = promptTrap
		d.pending = next
		d.message = Message{IsYN: true, Text: "Beware, there is a trap here. Step onto it?"}
		return 0, d.timedOut()
	}
	return d.moveTo(next)
}

func (d *dungeonEnv) moveTo(next Position) (float64, bool) {
	d.pos = next
	reward := 0.0
	if d.gold[next] {
		delete(d.gold, next)
		reward += goldReward
	}
	if d.terrain[next.Row][next.Col] == glyphStairs {
		d.depth++
		if d.depth >= d.maxDepth {
			return reward, true
		}
		d.generate()
		d.prompt = promptMore
		d.message = Message{IsMore: true, Text: fmt.Sprintf("You descend to level %d.", d.depth)}
		return reward, d.timedOut()
	}
	d.reveal()
	return reward, d.timedOut()
}

// render draws the seen part of the level with the agent on top.
func (d *dungeonEnv) render() []string {
	out := make([]string, d.rows)
	line := make([]byte, d.cols)
	for r := 0; r < d.rows; r++ {
		for c := 0; c < d.cols; c++ {
			p := Position{Row: r, Col: c}
			line[c] = d.glyph(p)
		}
		out[r] = string(line)
	}
	return out
}

func (d *dungeonEnv) glyph(p Position) byte {
	if p == d.pos {
		return selfGlyph
	}
	if !d.seen[p.Row][p.Col] {
		return glyphRock
	}
	if m, ok := d.monsters[p]; ok {
		return m
	}
	if d.gold[p] {
		return glyphGold
	}
	if d.traps[p] {
		return glyphTrap
	}
	return d.terrain[p.Row][p.Col]
}

func (d *dungeonEnv) observe(reward float64) Observation {
	return Observation{
		Map:     d.render(),
		Message: d.message,
		Reward:  reward,
		Depth:   KnownDepth(d.depth),
	}
}

// loadLayout replaces the level with a fixed, fully seen layout. Monsters
// are letters, '$' is gold on floor, '^' a trap on floor, '@' the agent.
func (d *dungeonEnv) loadLayout(layout []string) {
	d.rows = len(layout)
	d.cols = 0
	for _, line := range layout {
		if len(line) > d.cols {
			d.cols = len(line)
		}
	}
	d.clearLevel()
	for r, line := range layout {
		for c := 0; c < d.cols; c++ {
			p := Position{Row: r, Col: c}
			d.seen[r][c] = true
			g := byte(glyphRock)
			if c < len(line) {
				g = line[c]
			}
			switch {
			case g == selfGlyph:
				d.pos = p
				g = glyphFloor
			case g == glyphGold:
				d.gold[p] = true
				g = glyphFloor
			case g == glyphTrap:
				d.traps[p] = true
				g = glyphFloor
			case isLetter(g):
				d.monsters[p] = g
				g = glyphFloor
			}
			d.terrain[r][c] = g
		}
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
