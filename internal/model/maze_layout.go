package model

// defaultLayout is the stock board. '.' is an open cell, '#' a wall.
// Rows are indexed by y (north at the top), columns by x.
var defaultLayout = []string{
	"##############",
	"##############",
	"##############",
	"##############",
	"##############",
	"####..##.#.###",
	"#####.......##",
	"####.##.##.###",
	"####....##..##",
	"#####.#....###",
	"####..####..##",
	"#####.####.###",
	"#####.##....##",
	"#####....##.##",
	"####..#.######",
	"##############",
}

// CentralSpawns lists the open cells of the board's central area where
// new players may start.
var CentralSpawns = []Position{
	{X: 4, Y: 5}, {X: 4, Y: 7}, {X: 4, Y: 8}, {X: 4, Y: 10}, {X: 4, Y: 14},
	{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 5, Y: 8}, {X: 5, Y: 9}, {X: 5, Y: 10},
	{X: 5, Y: 11}, {X: 5, Y: 12}, {X: 5, Y: 13}, {X: 5, Y: 14},
	{X: 6, Y: 6}, {X: 6, Y: 8}, {X: 6, Y: 13},
	{X: 7, Y: 6}, {X: 7, Y: 7}, {X: 7, Y: 8}, {X: 7, Y: 9}, {X: 7, Y: 13}, {X: 7, Y: 14},
	{X: 8, Y: 5}, {X: 8, Y: 6}, {X: 8, Y: 9}, {X: 8, Y: 12}, {X: 8, Y: 13},
	{X: 9, Y: 6}, {X: 9, Y: 9}, {X: 9, Y: 12},
	{X: 10, Y: 5}, {X: 10, Y: 6}, {X: 10, Y: 7}, {X: 10, Y: 8}, {X: 10, Y: 9},
	{X: 10, Y: 10}, {X: 10, Y: 11}, {X: 10, Y: 12},
	{X: 11, Y: 6}, {X: 11, Y: 8}, {X: 11, Y: 10}, {X: 11, Y: 12}, {X: 11, Y: 13},
}

// DefaultMaze builds a fresh Maze from the stock layout. Each session
// stores its own snapshot, so per-game variation stays possible.
func DefaultMaze() Maze {
	maze := make(Maze, len(defaultLayout))
	for y, row := range defaultLayout {
		maze[y] = make([]Cell, len(row))
		for x, c := range row {
			maze[y][x] = Cell{Accessible: c == '.'}
		}
	}
	return maze
}
