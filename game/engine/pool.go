package engine

import (
	"fmt"
	"math/rand"
	"slices"
)

// NumberPool is the ordered set of values a player may be handed.
// Values are kept sorted so membership is a binary search and a uniform
// pick is a single index draw.
type NumberPool struct {
	values []int
}

// NewNumberPool creates a pool seeded with the given values
func NewNumberPool(values ...int) (*NumberPool, error) {
	p := &NumberPool{}
	if err := p.Insert(values...); err != nil {
		return nil, err
	}
	return p, nil
}

// Contains reports whether v was ever inserted
func (p *NumberPool) Contains(v int) bool {
	_, found := slices.BinarySearch(p.values, v)
	return found
}

// Insert adds every value not already present. Either all values are
// accepted or none are.
func (p *NumberPool) Insert(values ...int) error {
	for _, v := range values {
		if v <= 0 {
			return fmt.Errorf("%w: got %d", ErrNonPositiveValue, v)
		}
	}
	for _, v := range values {
		i, found := slices.BinarySearch(p.values, v)
		if found {
			continue
		}
		p.values = slices.Insert(p.values, i, v)
	}
	return nil
}

// Max returns the greatest value in the pool
func (p *NumberPool) Max() (int, error) {
	if len(p.values) == 0 {
		return 0, ErrEmptyPool
	}
	return p.values[len(p.values)-1], nil
}

// Len returns the number of distinct values
func (p *NumberPool) Len() int {
	return len(p.values)
}

// Values returns the pool contents in ascending order
func (p *NumberPool) Values() []int {
	return slices.Clone(p.values)
}

// PickRandom returns a contained value chosen uniformly at random
func (p *NumberPool) PickRandom(rng *rand.Rand) (int, error) {
	if len(p.values) == 0 {
		return 0, ErrEmptyPool
	}
	return p.values[rng.Intn(len(p.values))], nil
}

// PickDistinctPair returns two different contained values. The second is
// drawn uniformly from the values other than the first.
func (p *NumberPool) PickDistinctPair(rng *rand.Rand) (int, int, error) {
	n := len(p.values)
	if n < 2 {
		return 0, 0, ErrPoolTooSmall
	}

	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return p.values[i], p.values[j], nil
}
