package randutil

import (
	rand "math/rand/v2"
	"sync"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. Both PCG words
// are derived from the one seed so a configured seed replays the same draws.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns the configured seed, or a time-based one when none is set.
func Seed(configured *int64) int64 {
	if configured != nil {
		return *configured
	}
	return time.Now().UnixNano()
}

// Locked wraps a *rand.Rand for use from several goroutines.
type Locked struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocked returns a goroutine-safe source seeded with seed.
func NewLocked(seed int64) *Locked {
	return &Locked{rng: New(seed)}
}

// IntRange returns a uniformly distributed integer in [lo, hi].
func (l *Locked) IntRange(lo, hi int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return lo + l.rng.IntN(hi-lo+1)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
