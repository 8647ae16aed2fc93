package sim

import "math/rand/v2"

// entity is one element of the population the fork-join loop iterates.
// Each tick exactly one worker visits an entity, so its fields need no
// locking: single-writer per entity per invocation, same as the buckets.
type entity struct {
	id       int
	value    float64
	alerting bool
}

// step advances the entity's reading one tick: a random walk with mild
// mean reversion toward 50 so readings hover mid-scale and cross the
// alert threshold in bursts rather than constantly.
func (e *entity) step(rng *rand.Rand) {
	e.value += rng.NormFloat64()*3 - (e.value-50)*0.02

	if e.value < 0 {
		e.value = 0
	}
	if e.value > 100 {
		e.value = 100
	}
}
