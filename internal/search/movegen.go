package search

import (
	"sort"

	"github.com/yaahc/tetris/internal/piece"
)

// Placement is a resting position for a piece. Spun is set when the last
// action that brought the piece there was a rotation.
type Placement struct {
	Kind piece.Kind
	Rot  piece.Rotation
	X, Y int
	Spun bool
}

// Cells returns the absolute board cells covered by the placement.
func (p Placement) Cells() [4]piece.Point {
	cells := piece.Cells(p.Kind, p.Rot)
	for i := range cells {
		cells[i] = cells[i].Add(piece.Point{X: p.X, Y: p.Y})
	}
	return cells
}

type position struct {
	rot  piece.Rotation
	x, y int
	spun bool
}

func (p position) key() int {
	k := (int(p.rot)*16+p.x+3)*64 + p.y
	k *= 2
	if p.spun {
		k++
	}
	return k
}

type footprint struct {
	cells [4]piece.Point
	spun  bool
}

// Movegen finds every distinct resting placement of k reachable from the spawn
// position by shifting, rotating (with kicks) and soft dropping. Placements that
// cover the same cells are reported once per spun flag.
func Movegen(st State, k piece.Kind) []Placement {
	b := &st.Board
	start := position{rot: piece.North, x: SpawnX, y: SpawnY}
	if b.Collides(k, start.rot, start.x, start.y) {
		return nil
	}

	visited := map[int]bool{start.key(): true}
	queue := []position{start}
	found := make(map[footprint]bool)
	var out []Placement

	push := func(p position) {
		if key := p.key(); !visited[key] {
			visited[key] = true
			queue = append(queue, p)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if b.Collides(k, cur.rot, cur.x, cur.y-1) {
			p := Placement{Kind: k, Rot: cur.rot, X: cur.x, Y: cur.y, Spun: cur.spun}
			fp := footprint{cells: sortedCells(p.Cells()), spun: cur.spun}
			if !found[fp] {
				found[fp] = true
				out = append(out, p)
			}
		}

		for _, dx := range [2]int{-1, 1} {
			if !b.Collides(k, cur.rot, cur.x+dx, cur.y) {
				push(position{rot: cur.rot, x: cur.x + dx, y: cur.y})
			}
		}

		if d := b.DropDistance(k, cur.rot, cur.x, cur.y); d > 0 {
			push(position{rot: cur.rot, x: cur.x, y: cur.y - d})
		}

		for _, to := range [3]piece.Rotation{cur.rot.CW(), cur.rot.CCW(), cur.rot.Flip()} {
			if x, y, ok := Rotate(b, k, cur.rot, to, cur.x, cur.y); ok {
				push(position{rot: to, x: x, y: y, spun: true})
			}
		}
	}
	return out
}

// Rotate tries each kick for the rotation in order and returns the first
// position where the rotated piece fits.
func Rotate(b *Board, k piece.Kind, from, to piece.Rotation, x, y int) (int, int, bool) {
	for _, kick := range piece.Kicks(k, from, to) {
		nx, ny := x+kick.X, y+kick.Y
		if !b.Collides(k, to, nx, ny) {
			return nx, ny, true
		}
	}
	return 0, 0, false
}

func sortedCells(cells [4]piece.Point) [4]piece.Point {
	s := cells[:]
	sort.Slice(s, func(i, j int) bool {
		if s[i].Y != s[j].Y {
			return s[i].Y < s[j].Y
		}
		return s[i].X < s[j].X
	})
	return cells
}
