package model

import (
	"fmt"
	"strconv"
)

// Position is a cell coordinate in the maze grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Orientation is one of the four facing directions, in fixed cyclic
// order north → east → south → west.
type Orientation string

const (
	North Orientation = "north"
	East  Orientation = "east"
	South Orientation = "south"
	West  Orientation = "west"
)

var orientationRing = [4]Orientation{North, East, South, West}

// Orientations returns the four facing directions in ring order.
func Orientations() [4]Orientation {
	return orientationRing
}

func orientationIndex(o Orientation) int {
	for i, v := range orientationRing {
		if v == o {
			return i
		}
	}
	return 0
}

// TurnLeft rotates one step counter-clockwise in the ring.
func (o Orientation) TurnLeft() Orientation {
	return orientationRing[(orientationIndex(o)+3)%4]
}

// TurnRight rotates one step clockwise in the ring.
func (o Orientation) TurnRight() Orientation {
	return orientationRing[(orientationIndex(o)+1)%4]
}

// Offset returns the unit grid offset for the orientation. Y grows
// southward, so north is (0,-1).
func (o Orientation) Offset() (dx, dy int) {
	switch o {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// Move is a requested movement action.
type Move string

const (
	MoveForward Move = "forward"
	MoveLeft    Move = "left"
	MoveRight   Move = "right"
)

// Cell is one square of the maze grid.
type Cell struct {
	Accessible bool `json:"accessible"`
}

// Maze is a rectangular grid of cells, row-major (maze[y][x]). It is
// read-only at runtime; a snapshot is stored per session.
type Maze [][]Cell

// IsAccessible reports whether (x,y) is inside the grid and open.
// Out-of-bounds is always inaccessible.
func (m Maze) IsAccessible(x, y int) bool {
	return y >= 0 && y < len(m) &&
		x >= 0 && x < len(m[0]) &&
		m[y][x].Accessible
}

// ValidMoves is the set of legal moves from a position and orientation.
type ValidMoves struct {
	CanMoveForward bool `json:"canMoveForward"`
	CanMoveLeft    bool `json:"canMoveLeft"`
	CanMoveRight   bool `json:"canMoveRight"`
}

// ComputeValidMoves checks the three candidate destination cells.
// Turning is only legal when the destination cell in the new facing is
// itself accessible; turning in place is not a modeled action.
func (m Maze) ComputeValidMoves(pos Position, o Orientation) ValidMoves {
	check := func(dir Orientation) bool {
		dx, dy := dir.Offset()
		return m.IsAccessible(pos.X+dx, pos.Y+dy)
	}
	return ValidMoves{
		CanMoveForward: check(o),
		CanMoveLeft:    check(o.TurnLeft()),
		CanMoveRight:   check(o.TurnRight()),
	}
}

// MoveOutcome reports whether a move was applied.
type MoveOutcome struct {
	Success bool
	Reason  string
}

// ApplyMove mutates the player's position (and orientation for turns)
// if the destination cell is accessible. Left and right rotate then
// advance into the new facing, the rotate-and-advance semantic that
// the minimap snippet is built around.
func (m Maze) ApplyMove(p *Player, move Move) MoveOutcome {
	switch move {
	case MoveForward:
		dx, dy := p.Orientation.Offset()
		nx, ny := p.Position.X+dx, p.Position.Y+dy
		if !m.IsAccessible(nx, ny) {
			return MoveOutcome{Reason: "Chemin bloqué"}
		}
		p.Position.X, p.Position.Y = nx, ny
		return MoveOutcome{Success: true}
	case MoveLeft, MoveRight:
		next := p.Orientation.TurnLeft()
		if move == MoveRight {
			next = p.Orientation.TurnRight()
		}
		dx, dy := next.Offset()
		nx, ny := p.Position.X+dx, p.Position.Y+dy
		if !m.IsAccessible(nx, ny) {
			return MoveOutcome{Reason: "Chemin bloqué lors du tournant"}
		}
		p.Orientation = next
		p.Position.X, p.Position.Y = nx, ny
		return MoveOutcome{Success: true}
	}
	return MoveOutcome{Reason: "Mouvement invalide"}
}

// Snippet cell encoding for the client minimap.
const (
	SnippetOpen    = 0
	SnippetBlocked = 1
	SnippetOOB     = -1
)

// Snippet is a fixed 5-cell perception window around a player: self,
// two cells ahead, one to each side.
type Snippet struct {
	Me    int `json:"me"`
	F1    int `json:"f1"`
	F2    int `json:"f2"`
	Left  int `json:"left"`
	Right int `json:"right"`
}

// LocalSnippet computes the perception window fresh for a position and
// orientation. Cells are 0 open, 1 blocked, -1 out of bounds.
func (m Maze) LocalSnippet(x, y int, o Orientation) Snippet {
	encode := func(cx, cy int) int {
		if cy < 0 || cy >= len(m) || cx < 0 || cx >= len(m[0]) {
			return SnippetOOB
		}
		if m[cy][cx].Accessible {
			return SnippetOpen
		}
		return SnippetBlocked
	}
	fdx, fdy := o.Offset()
	ldx, ldy := o.TurnLeft().Offset()
	rdx, rdy := o.TurnRight().Offset()
	return Snippet{
		Me:    encode(x, y),
		F1:    encode(x+fdx, y+fdy),
		F2:    encode(x+2*fdx, y+2*fdy),
		Left:  encode(x+ldx, y+ldy),
		Right: encode(x+rdx, y+rdy),
	}
}

// GridLabel encodes (x,y) as a letter+number board label: column letter
// 'A'+x, row number y+1.
func GridLabel(x, y int) string {
	return fmt.Sprintf("%c%d", rune('A'+x), y+1)
}

// ParseGridLabel decodes a board label back to coordinates.
func ParseGridLabel(label string) (x, y int, err error) {
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("invalid grid label %q", label)
	}
	col := label[0]
	if col < 'A' || col > 'Z' {
		return 0, 0, fmt.Errorf("invalid grid label %q", label)
	}
	row, err := strconv.Atoi(label[1:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid grid label %q", label)
	}
	return int(col - 'A'), row - 1, nil
}
