// Package piece holds tetromino geometry shared by the rules engine and the
// move search: kinds, rotation states, SRS cell offsets and kick tables.
package piece

// Kind identifies a tetromino. The zero value is None (no piece).
type Kind uint8

const (
	None Kind = iota
	I
	O
	T
	L
	J
	S
	Z
)

// Kinds lists every playable kind in bag order.
var Kinds = [7]Kind{I, O, T, L, J, S, Z}

// String returns the single-letter piece name.
func (k Kind) String() string {
	switch k {
	case I:
		return "I"
	case O:
		return "O"
	case T:
		return "T"
	case L:
		return "L"
	case J:
		return "J"
	case S:
		return "S"
	case Z:
		return "Z"
	default:
		return "-"
	}
}

// Rotation is one of the four SRS rotation states.
type Rotation uint8

const (
	North Rotation = iota
	East
	South
	West
)

// CW returns the state after a clockwise rotation.
func (r Rotation) CW() Rotation { return (r + 1) % 4 }

// CCW returns the state after a counter-clockwise rotation.
func (r Rotation) CCW() Rotation { return (r + 3) % 4 }

// Flip returns the state after a half turn.
func (r Rotation) Flip() Rotation { return (r + 2) % 4 }

func (r Rotation) String() string {
	switch r {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	default:
		return "W"
	}
}

// Point is a cell offset or board coordinate. Y grows upwards; row 0 is the floor.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// north holds spawn-orientation cells relative to the rotation center.
var north = map[Kind][4]Point{
	I: {{-1, 0}, {0, 0}, {1, 0}, {2, 0}},
	O: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	T: {{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
	L: {{-1, 0}, {0, 0}, {1, 0}, {1, 1}},
	J: {{-1, 0}, {0, 0}, {1, 0}, {-1, 1}},
	S: {{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
	Z: {{-1, 1}, {0, 1}, {0, 0}, {1, 0}},
}

var cellTable [8][4][4]Point

func init() {
	for _, k := range Kinds {
		cells := north[k]
		for r := North; r <= West; r++ {
			cellTable[k][r] = cells
			for i, c := range cells {
				cells[i] = Point{X: c.Y, Y: -c.X}
			}
		}
	}
	buildKicks()
}

// Cells returns the four cells of k in rotation r, relative to its center.
func Cells(k Kind, r Rotation) [4]Point {
	return cellTable[k][r]
}
