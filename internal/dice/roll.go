package dice

import (
	"fmt"
	"math/rand"
	"slices"
)

// Result is the outcome of rolling a Spec.
type Result struct {
	// Rolls holds every die after its local modifier, in roll order.
	Rolls []int
	// Kept holds the dice that survived the drop rules, sorted ascending.
	Kept []int
	// Dropped holds the discarded dice: the lowest first, then the highest.
	Dropped []int
	// Summed reports whether the result is a single total.
	Summed bool
	// Total is the sum of Kept plus the global modifier.
	Total int
}

// Value returns the total for a summed result and the kept dice otherwise.
func (r Result) Value() any {
	if r.Summed {
		return r.Total
	}
	return r.Kept
}

// String formats the result as "13" when summed and "[3 4 6]" otherwise.
func (r Result) String() string {
	return fmt.Sprint(r.Value())
}

// Roll evaluates the spec with rng.
//
// # Determinism
//
// Roll draws exactly Number values from rng and nothing else, so two calls
// with generators built from the same seed return the same Result.
//
// # Clamping
//
// A numeric die is drawn from [1, Size], adjusted by LocalMod and clamped
// at zero. A fate die is drawn from {-1, 0, 1}, adjusted by LocalMod and
// never clamped.
//
// # Summation
//
// The result is summed when the spec has a global modifier or forceSum is
// set. Kept is filled in either case.
//
// rng is not safe for concurrent use; callers sharing a generator must
// serialize access to it.
func (s Spec) Roll(rng *rand.Rand, forceSum bool) Result {
	rolls := make([]int, s.Number)
	for i := range rolls {
		if s.Kind == KindFate {
			rolls[i] = rollFate(rng) + s.LocalMod
		} else {
			rolls[i] = clamp(rollDie(rng, s.Size) + s.LocalMod)
		}
	}

	sorted := slices.Clone(rolls)
	slices.Sort(sorted)
	kept := sorted[s.DropLow : len(sorted)-s.DropHigh]

	dropped := make([]int, 0, s.DropLow+s.DropHigh)
	dropped = append(dropped, sorted[:s.DropLow]...)
	dropped = append(dropped, sorted[len(sorted)-s.DropHigh:]...)

	total := s.GlobalMod
	for _, value := range kept {
		total += value
	}

	return Result{
		Rolls:   rolls,
		Kept:    slices.Clip(kept),
		Dropped: dropped,
		Summed:  s.Sum || forceSum,
		Total:   total,
	}
}

// RollSeed evaluates the spec with a generator seeded by seed.
func (s Spec) RollSeed(seed int64, forceSum bool) Result {
	return s.Roll(rand.New(rand.NewSource(seed)), forceSum)
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	return rng.Intn(sides) + 1
}

// rollFate rolls a single fate die.
func rollFate(rng *rand.Rand) int {
	return rng.Intn(3) - 1
}

func clamp(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
