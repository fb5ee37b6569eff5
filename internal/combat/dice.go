package combat

import "github.com/playperu/cyberfront/internal/random"

// Dice produces six-sided die rolls.
type Dice interface {
	Roll() int
}

// RandomDice rolls uniformly from a shared source.
type RandomDice struct {
	src *random.Source
}

func NewRandomDice(src *random.Source) *RandomDice {
	return &RandomDice{src: src}
}

func (d *RandomDice) Roll() int { return d.src.Intn(6) + 1 }

// FixedDice always rolls the same face.
type FixedDice int

func (d FixedDice) Roll() int { return int(d) }
