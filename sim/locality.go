package sim

import (
	"math"
	"math/rand"
)

// Locality drives the program counter and memory pointer across the address
// space. Positions are fractions of the virtual size: the PC lives mostly in
// the lower three quarters (code), the MP in the upper quarter (data).
type Locality struct {
	jumpProbability float64
	freeProbability float64
	relocationScale float64 // relocation spread expressed in page-size units
	rng             *rand.Rand
}

// NewLocality creates a locality walk from the configured probabilities.
func NewLocality(cfg *Config, rng *rand.Rand) *Locality {
	return &Locality{
		jumpProbability: cfg.ProbabilityMemoryJump,
		freeProbability: cfg.ProbabilityFreePage,
		relocationScale: cfg.MemoryPointerRelocationSpread / float64(cfg.PageSize),
		rng:             rng,
	}
}

// NextPC returns the next program counter position. A position of 0 always
// jumps; otherwise it jumps with the configured probability or drifts forward
// by a Gaussian relocation, re-jumping if the result goes negative.
func (l *Locality) NextPC(current float64) float64 {
	if l.rng.Float64() < l.jumpProbability || current == 0 {
		return l.pcJump()
	}
	current += l.relocationScale * (1 + l.rng.NormFloat64())
	if current < 0 {
		current = l.pcJump()
	}
	return current
}

// NextMP returns the next memory pointer position, with the same rules as
// NextPC but a zero-mean relocation.
func (l *Locality) NextMP(current float64) float64 {
	if l.rng.Float64() < l.jumpProbability || current == 0 {
		return l.mpJump()
	}
	current += l.relocationScale * l.rng.NormFloat64()
	if current < 0 {
		current = l.mpJump()
	}
	return current
}

// FreeOldPage rolls whether the page left behind by a long MP move is freed.
func (l *Locality) FreeOldPage() bool {
	return l.rng.Float64() < l.freeProbability
}

// FreeLeftPage reports whether the page under oldMP is freed after the MP
// moved to newMP. Moves in either direction count; the roll is only drawn
// for moves longer than FreeJumpDistance.
func (l *Locality) FreeLeftPage(oldMP, newMP float64) bool {
	return math.Abs(oldMP-newMP) > FreeJumpDistance && l.FreeOldPage()
}

func (l *Locality) pcJump() float64 {
	return 0.75 * l.rng.Float64()
}

func (l *Locality) mpJump() float64 {
	return 0.75 + 0.25*l.rng.Float64()
}
