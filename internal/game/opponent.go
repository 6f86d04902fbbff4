package game

import (
	"math/rand/v2"
	"sync"

	"github.com/ayusman/handrps/internal/gesture"
)

// Opponent picks the computer's throw for a round.
type Opponent interface {
	Choose() gesture.Gesture
}

// RandomOpponent draws uniformly from rock, paper and scissors.
type RandomOpponent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomOpponent returns an opponent seeded with seed. A zero seed draws
// a fresh seed, so every session differs.
func NewRandomOpponent(seed uint64) *RandomOpponent {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomOpponent{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Choose returns the next random throw.
func (o *RandomOpponent) Choose() gesture.Gesture {
	playable := gesture.Playable()

	o.mu.Lock()
	defer o.mu.Unlock()
	return playable[o.rng.IntN(len(playable))]
}

// SequenceOpponent replays a fixed list of throws, wrapping around at the end.
type SequenceOpponent struct {
	mu     sync.Mutex
	throws []gesture.Gesture
	next   int
}

// NewSequenceOpponent creates an opponent that plays throws in order.
func NewSequenceOpponent(throws ...gesture.Gesture) *SequenceOpponent {
	return &SequenceOpponent{throws: throws}
}

// Choose returns the next throw in the sequence, or rock if it is empty.
func (o *SequenceOpponent) Choose() gesture.Gesture {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.throws) == 0 {
		return gesture.Rock
	}
	g := o.throws[o.next%len(o.throws)]
	o.next++
	return g
}
