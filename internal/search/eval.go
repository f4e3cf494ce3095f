package search

import "math/bits"

// Eval holds the weights of the board evaluation. Positive weights reward a
// feature, negative ones penalise it.
type Eval struct {
	Height       float64 `yaml:"height"`
	Bumpiness    float64 `yaml:"bumpiness"`
	BumpinessSq  float64 `yaml:"bumpiness_sq"`
	Holes        float64 `yaml:"holes"`
	WellDepth    float64 `yaml:"well_depth"`
	CoveredCells float64 `yaml:"covered_cells"`
	HoleRows     float64 `yaml:"hole_rows"`
	TSlots       float64 `yaml:"t_slots"`
	Tetris       float64 `yaml:"tetris"`
	SpinClear    float64 `yaml:"spin_clear"`
	MultiClear   float64 `yaml:"multi_clear"`
	Single       float64 `yaml:"single"`
	Overflow     float64 `yaml:"overflow"`
	BackToBack   float64 `yaml:"back_to_back"`
}

// NewEval builds an evaluator from weights in field order.
func NewEval(w [14]float64) *Eval {
	return &Eval{
		Height:       w[0],
		Bumpiness:    w[1],
		BumpinessSq:  w[2],
		Holes:        w[3],
		WellDepth:    w[4],
		CoveredCells: w[5],
		HoleRows:     w[6],
		TSlots:       w[7],
		Tetris:       w[8],
		SpinClear:    w[9],
		MultiClear:   w[10],
		Single:       w[11],
		Overflow:     w[12],
		BackToBack:   w[13],
	}
}

// DefaultEval returns the tuned default weights.
func DefaultEval() *Eval {
	return NewEval([14]float64{
		-79.400375,
		-55.564907,
		-125.680145,
		-170.41902,
		10.167948,
		-172.78625,
		-478.7291,
		86.84883,
		368.89203,
		272.57874,
		28.938646,
		-104.59018,
		-496.8832,
		458.29822,
	})
}

// Board scores the static shape of b. Higher is better.
func (e *Eval) Board(b *Board) float64 {
	var heights [Width]int
	maxHeight := 0
	for x := range Width {
		heights[x] = b.ColumnHeight(x)
		maxHeight = max(maxHeight, heights[x])
	}

	bump, bumpSq := 0, 0
	for x := 0; x < Width-1; x++ {
		d := heights[x] - heights[x+1]
		if d < 0 {
			d = -d
		}
		bump += d
		bumpSq += d * d
	}

	holes, covered := 0, 0
	var holeRows uint64
	for x, col := range b.Cols {
		below := uint64(1)<<uint(heights[x]) - 1
		holeMask := ^col & below
		holes += bits.OnesCount64(holeMask)
		holeRows |= holeMask
		if holeMask != 0 {
			lowest := bits.TrailingZeros64(holeMask)
			covered += bits.OnesCount64(col >> uint(lowest))
		}
	}

	overflow := 0
	for _, col := range b.Cols {
		overflow += bits.OnesCount64(col >> VisibleHeight)
	}

	return e.Height*float64(maxHeight) +
		e.Bumpiness*float64(bump) +
		e.BumpinessSq*float64(bumpSq)/10 +
		e.Holes*float64(holes) +
		e.WellDepth*float64(wellDepth(heights)) +
		e.CoveredCells*float64(covered) +
		e.HoleRows*float64(bits.OnesCount64(holeRows)) +
		e.TSlots*float64(tSlots(b, maxHeight)) +
		e.Overflow*float64(overflow)
}

// Clear scores the outcome of one placement. b2b is set when the clear
// continued a back-to-back chain.
func (e *Eval) Clear(info PlacementInfo, b2b bool) float64 {
	if info.LinesCleared == 0 {
		return 0
	}

	var v float64
	switch {
	case info.Spin:
		v = e.SpinClear * float64(info.LinesCleared)
		if info.Mini {
			v /= 2
		}
	case info.LinesCleared == 4:
		v = e.Tetris
	case info.LinesCleared == 1:
		v = e.Single
	default:
		v = e.MultiClear * float64(info.LinesCleared)
	}
	if b2b {
		v += e.BackToBack
	}
	return v
}

// wellDepth measures the deepest single-column well, capped so a tall stack
// next to an empty column is not over-rewarded.
func wellDepth(heights [Width]int) int {
	lowest := 0
	for x := 1; x < Width; x++ {
		if heights[x] < heights[lowest] {
			lowest = x
		}
	}

	side := 64
	if lowest > 0 {
		side = heights[lowest-1]
	}
	if lowest < Width-1 {
		side = min(side, heights[lowest+1])
	}
	return min(max(side-heights[lowest], 0), 15)
}

// tSlots counts spots where a T in South orientation would be held by three corners.
func tSlots(b *Board, maxHeight int) int {
	n := 0
	for y := 1; y < maxHeight; y++ {
		for x := 1; x < Width-1; x++ {
			if b.Occupied(x-1, y) || b.Occupied(x, y) || b.Occupied(x+1, y) || b.Occupied(x, y-1) {
				continue
			}
			if !b.Occupied(x-1, y-1) || !b.Occupied(x+1, y-1) {
				continue
			}
			if b.Occupied(x-1, y+1) || b.Occupied(x+1, y+1) {
				n++
			}
		}
	}
	return n
}
