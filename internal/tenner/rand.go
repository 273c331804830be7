package tenner

import (
	"hash/maphash"
	"math/rand/v2"
	"sync"
)

// Rand is the single source of randomness for the generator. Every draw
// (target sums, candidate shuffles, removal order) goes through it, so a
// seeded implementation reproduces a puzzle bit for bit.
type Rand interface {
	Uint64() uint64
}

// lcg is the Numerical Recipes 64-bit linear congruential generator. The
// multiplier and increment are load-bearing: changing them, or the order of
// draws in the generator, breaks seeded reproducibility across versions.
type lcg struct {
	state uint64
}

func NewSeeded(seed uint64) Rand {
	return &lcg{state: seed}
}

func (l *lcg) Uint64() uint64 {
	l.state = l.state*6364136223846793005 + 1442695040888963407
	return l.state
}

type pcgRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns an unseeded source for callers that do not need
// reproducibility. Unlike the seeded source it is safe for concurrent use:
// a single instance is shared across request handlers.
func NewRand() Rand {
	return &pcgRand{r: rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))}
}

func (p *pcgRand) Uint64() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Uint64()
}

func randIntN(r Rand, n int) int {
	return int(r.Uint64() % uint64(n))
}

// randRange draws uniformly from [lo, hi] inclusive.
func randRange(r Rand, lo, hi int) int {
	return lo + randIntN(r, hi-lo+1)
}

func shuffle[T any](r Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := randIntN(r, i+1)
		s[i], s[j] = s[j], s[i]
	}
}
