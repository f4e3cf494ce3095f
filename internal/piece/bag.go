package piece

import "math/rand"

// Bag is a seeded 7-bag randomizer: every run of seven draws contains each kind once.
type Bag struct {
	rng     *rand.Rand
	pending []Kind
}

// NewBag creates a randomizer seeded for reproducible sequences.
func NewBag(seed int64) *Bag {
	return &Bag{rng: rand.New(rand.NewSource(seed))}
}

// Next draws the next piece, refilling and shuffling the bag when it runs out.
func (b *Bag) Next() Kind {
	if len(b.pending) == 0 {
		b.pending = append(b.pending[:0], Kinds[:]...)
		b.rng.Shuffle(len(b.pending), func(i, j int) {
			b.pending[i], b.pending[j] = b.pending[j], b.pending[i]
		})
	}
	k := b.pending[0]
	b.pending = b.pending[1:]
	return k
}
