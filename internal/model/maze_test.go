package model

import "testing"

// openCross is a 3x3 grid with only the center row and column open:
//
//	# . #
//	. . .
//	# . #
func openCross() Maze {
	m := make(Maze, 3)
	for y := range m {
		m[y] = make([]Cell, 3)
	}
	m[0][1].Accessible = true
	m[1][0].Accessible = true
	m[1][1].Accessible = true
	m[1][2].Accessible = true
	m[2][1].Accessible = true
	return m
}

func TestOrientationRing(t *testing.T) {
	cases := []struct {
		start       Orientation
		left, right Orientation
	}{
		{North, West, East},
		{East, North, South},
		{South, East, West},
		{West, South, North},
	}
	for _, c := range cases {
		if got := c.start.TurnLeft(); got != c.left {
			t.Errorf("%s.TurnLeft() = %s, want %s", c.start, got, c.left)
		}
		if got := c.start.TurnRight(); got != c.right {
			t.Errorf("%s.TurnRight() = %s, want %s", c.start, got, c.right)
		}
	}
}

func TestOrientationFullCircle(t *testing.T) {
	o := North
	for i := 0; i < 4; i++ {
		o = o.TurnRight()
	}
	if o != North {
		t.Errorf("four right turns from north = %s, want north", o)
	}
	o = East
	for i := 0; i < 4; i++ {
		o = o.TurnLeft()
	}
	if o != East {
		t.Errorf("four left turns from east = %s, want east", o)
	}
}

func TestComputeValidMoves(t *testing.T) {
	m := openCross()
	// Center facing north: forward (1,0) open, left=west (0,1) open,
	// right=east (2,1) open.
	v := m.ComputeValidMoves(Position{X: 1, Y: 1}, North)
	if !v.CanMoveForward || !v.CanMoveLeft || !v.CanMoveRight {
		t.Errorf("center should allow all moves, got %+v", v)
	}

	// Top of the cross facing north: forward leaves the grid, left and
	// right are blocked corners.
	v = m.ComputeValidMoves(Position{X: 1, Y: 0}, North)
	if v.CanMoveForward || v.CanMoveLeft || v.CanMoveRight {
		t.Errorf("top cell facing north should allow nothing, got %+v", v)
	}
}

func TestApplyMoveForward(t *testing.T) {
	m := openCross()
	p := &Player{Position: Position{X: 1, Y: 1}, Orientation: North}

	out := m.ApplyMove(p, MoveForward)
	if !out.Success {
		t.Fatalf("forward from center failed: %s", out.Reason)
	}
	if p.Position != (Position{X: 1, Y: 0}) {
		t.Errorf("position = %+v, want (1,0)", p.Position)
	}
	if p.Orientation != North {
		t.Errorf("forward must not change orientation, got %s", p.Orientation)
	}

	// Now facing north at the top edge: blocked.
	out = m.ApplyMove(p, MoveForward)
	if out.Success {
		t.Fatal("forward off the grid should fail")
	}
	if out.Reason != "Chemin bloqué" {
		t.Errorf("reason = %q", out.Reason)
	}
	if p.Position != (Position{X: 1, Y: 0}) {
		t.Errorf("failed move must not change position, got %+v", p.Position)
	}
}

func TestApplyMoveRotatesAndAdvances(t *testing.T) {
	m := openCross()
	p := &Player{Position: Position{X: 1, Y: 1}, Orientation: North}

	out := m.ApplyMove(p, MoveLeft)
	if !out.Success {
		t.Fatalf("left from center failed: %s", out.Reason)
	}
	if p.Orientation != West {
		t.Errorf("orientation = %s, want west", p.Orientation)
	}
	if p.Position != (Position{X: 0, Y: 1}) {
		t.Errorf("position = %+v, want (0,1)", p.Position)
	}
}

func TestApplyMoveBlockedTurnKeepsState(t *testing.T) {
	m := openCross()
	// Top of the cross facing east: right would advance south into the
	// center (open), left would advance north off the grid.
	p := &Player{Position: Position{X: 1, Y: 0}, Orientation: East}

	out := m.ApplyMove(p, MoveLeft)
	if out.Success {
		t.Fatal("left into out-of-bounds should fail")
	}
	if out.Reason != "Chemin bloqué lors du tournant" {
		t.Errorf("reason = %q", out.Reason)
	}
	if p.Orientation != East || p.Position != (Position{X: 1, Y: 0}) {
		t.Errorf("failed turn must not mutate player, got %+v %s", p.Position, p.Orientation)
	}

	out = m.ApplyMove(p, MoveRight)
	if !out.Success {
		t.Fatalf("right into open cell failed: %s", out.Reason)
	}
	if p.Orientation != South || p.Position != (Position{X: 1, Y: 1}) {
		t.Errorf("after right: %+v %s, want (1,1) south", p.Position, p.Orientation)
	}
}

func TestApplyMoveUnknown(t *testing.T) {
	m := openCross()
	p := &Player{Position: Position{X: 1, Y: 1}, Orientation: North}
	out := m.ApplyMove(p, Move("jump"))
	if out.Success || out.Reason != "Mouvement invalide" {
		t.Errorf("unknown move: %+v", out)
	}
}

func TestValidMovesAgreeWithApplyMove(t *testing.T) {
	m := DefaultMaze()
	moves := []Move{MoveForward, MoveLeft, MoveRight}
	for _, spawn := range CentralSpawns {
		for _, o := range Orientations() {
			v := m.ComputeValidMoves(spawn, o)
			allowed := map[Move]bool{
				MoveForward: v.CanMoveForward,
				MoveLeft:    v.CanMoveLeft,
				MoveRight:   v.CanMoveRight,
			}
			for _, mv := range moves {
				p := &Player{Position: spawn, Orientation: o}
				out := m.ApplyMove(p, mv)
				if out.Success != allowed[mv] {
					t.Errorf("at %+v facing %s, %s: valid=%v applied=%v",
						spawn, o, mv, allowed[mv], out.Success)
				}
			}
		}
	}
}

func TestLocalSnippet(t *testing.T) {
	m := openCross()
	// Center facing north: f1 open, f2 out of bounds, sides open.
	s := m.LocalSnippet(1, 1, North)
	want := Snippet{Me: SnippetOpen, F1: SnippetOpen, F2: SnippetOOB, Left: SnippetOpen, Right: SnippetOpen}
	if s != want {
		t.Errorf("snippet = %+v, want %+v", s, want)
	}

	// Corner cell facing east: standing on a blocked corner.
	s = m.LocalSnippet(0, 0, East)
	if s.Me != SnippetBlocked {
		t.Errorf("me = %d, want blocked", s.Me)
	}
	if s.Left != SnippetOOB {
		t.Errorf("left (north of corner) = %d, want out of bounds", s.Left)
	}
	if s.F1 != SnippetOpen {
		t.Errorf("f1 (top of the cross) = %d, want open", s.F1)
	}
}

func TestGridLabelRoundTrip(t *testing.T) {
	for _, p := range []Position{{0, 0}, {4, 5}, {11, 13}, {13, 15}} {
		label := GridLabel(p.X, p.Y)
		x, y, err := ParseGridLabel(label)
		if err != nil {
			t.Fatalf("parse %q: %v", label, err)
		}
		if x != p.X || y != p.Y {
			t.Errorf("round trip %+v via %q = (%d,%d)", p, label, x, y)
		}
	}
	if GridLabel(4, 5) != "E6" {
		t.Errorf("GridLabel(4,5) = %q, want E6", GridLabel(4, 5))
	}
	for _, bad := range []string{"", "6", "e6", "A0", "AX"} {
		if _, _, err := ParseGridLabel(bad); err == nil {
			t.Errorf("ParseGridLabel(%q) should fail", bad)
		}
	}
}

func TestDefaultMazeLayout(t *testing.T) {
	m := DefaultMaze()
	if len(m) != 16 {
		t.Fatalf("rows = %d, want 16", len(m))
	}
	if len(m[0]) != 14 {
		t.Fatalf("cols = %d, want 14", len(m[0]))
	}

	// Known cells around the E6 junction.
	if !m.IsAccessible(4, 5) {
		t.Error("(4,5) should be open")
	}
	if m.IsAccessible(4, 4) {
		t.Error("(4,4) should be blocked")
	}
	if !m.IsAccessible(5, 5) {
		t.Error("(5,5) should be open")
	}

	// Every designated spawn must be an open cell.
	for _, p := range CentralSpawns {
		if !m.IsAccessible(p.X, p.Y) {
			t.Errorf("spawn %+v is not accessible", p)
		}
	}

	// The border is fully walled.
	for x := 0; x < 14; x++ {
		if m.IsAccessible(x, 0) || m.IsAccessible(x, 15) {
			t.Errorf("border cell open at x=%d", x)
		}
	}
	for y := 0; y < 16; y++ {
		if m.IsAccessible(0, y) || m.IsAccessible(13, y) {
			t.Errorf("border cell open at y=%d", y)
		}
	}
}
