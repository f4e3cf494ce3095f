package piece

// SRS offset data. A kick for a rotation from a to b is offset[a][i] - offset[b][i].
var (
	offsetsJLSTZ = [4][5]Point{
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	}
	offsetsI = [4][5]Point{
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 0}, {2, 0}},
		{{-1, 0}, {0, 0}, {0, 0}, {0, 1}, {0, -2}},
		{{-1, 1}, {1, 1}, {-2, 1}, {1, 0}, {-2, 0}},
		{{0, 1}, {0, 1}, {0, 1}, {0, -1}, {0, 2}},
	}
	offsetsO = [4]Point{{0, 0}, {0, -1}, {-1, -1}, {-1, 0}}

	// extra tests tried after the in-place half turn
	flipExtras = []Point{{0, 1}, {1, 0}, {-1, 0}, {0, -1}}
)

var kickTable [8][4][4][]Point

func buildKicks() {
	for _, k := range Kinds {
		for from := North; from <= West; from++ {
			for _, to := range []Rotation{from.CW(), from.CCW(), from.Flip()} {
				kickTable[k][from][to] = computeKicks(k, from, to)
			}
		}
	}
}

func computeKicks(k Kind, from, to Rotation) []Point {
	if k == O {
		a, b := offsetsO[from], offsetsO[to]
		return []Point{{X: a.X - b.X, Y: a.Y - b.Y}}
	}

	offsets := offsetsJLSTZ
	if k == I {
		offsets = offsetsI
	}

	if to == from.Flip() {
		a, b := offsets[from][0], offsets[to][0]
		base := Point{X: a.X - b.X, Y: a.Y - b.Y}
		kicks := []Point{base}
		for _, e := range flipExtras {
			kicks = append(kicks, base.Add(e))
		}
		return kicks
	}

	kicks := make([]Point, 0, 5)
	for i := range 5 {
		a, b := offsets[from][i], offsets[to][i]
		kicks = append(kicks, Point{X: a.X - b.X, Y: a.Y - b.Y})
	}
	return kicks
}

// Kicks returns the ordered translation tests for rotating k from one state
// to another. The slice is shared and must not be modified.
func Kicks(k Kind, from, to Rotation) []Point {
	return kickTable[k][from][to]
}
