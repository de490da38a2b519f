// Package xoshiro256 implements the xoshiro256++ PRNG with its jump
// functions, based on the xoshiro256plusplus.c reference implementation by
// David Blackman and Sebastiano Vigna: prng.di.unimi.it.
//
// A Gen is not safe for concurrent use. Parallel consumers should each own a
// Gen seeded from the same value and separated with Jump or LongJump.
package xoshiro256

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/subrand/subrand/pkg/entropy"
	"github.com/subrand/subrand/pkg/mix"
)

// Min and Max bound the output range. Every value returned by Uint64 lies in
// [Min, Max].
const (
	Min uint64 = 0
	Max uint64 = 1<<64 - 1
)

// jumpTable advances a Gen by 2^128 steps, longJumpTable by 2^192. The words
// are the coefficients of the step transition matrix raised to those powers,
// expressed as a GF(2) polynomial scanned bit by bit.
var (
	jumpTable = [4]uint64{
		0x180ec6d33cfd0aba, 0xd5a61266f0c9392c,
		0xa9582618e03fc9aa, 0x39abdc4529b1661c,
	}
	longJumpTable = [4]uint64{
		0x76e15d3efefdcbbf, 0xc5004e441c522fb3,
		0x77710069854ee241, 0x39109bb02acbe635,
	}
)

// ErrZeroState is returned by Restore for the all-zero state, the one fixed
// point of the recurrence.
var ErrZeroState = errors.New("xoshiro256: all-zero state")

// Gen holds the 256-bit state of a xoshiro256++ generator.
type Gen struct {
	state [4]uint64
}

// New returns a Gen seeded from a single 64-bit seed via the splitmix
// expansion. Any seed, including 0, yields a usable non-zero state.
func New(seed uint64) *Gen {
	g := &Gen{}
	g.Seed(seed)
	return g
}

// Seed reinitializes g from seed. Each lane is derived by advancing the seed
// by the golden ratio increment and passing it through the Mix13 avalanche
// function, so the full state diffuses from every seed bit.
func (g *Gen) Seed(seed uint64) {
	for i := range g.state {
		seed += mix.Golden64
		g.state[i] = mix.Mix13(seed)
	}
}

// Uint64 returns the next output word and advances the state by one step.
func (g *Gen) Uint64() uint64 {
	r := bits.RotateLeft64(g.state[0]+g.state[3], 23) + g.state[0]

	t := g.state[1] << 17

	g.state[2] ^= g.state[0]
	g.state[3] ^= g.state[1]
	g.state[1] ^= g.state[2]
	g.state[0] ^= g.state[3]

	g.state[2] ^= t
	g.state[3] = bits.RotateLeft64(g.state[3], 45)

	return r
}

// Jump advances g by 2^128 steps. Generators separated by Jump emit
// non-overlapping sub-streams within the generator's period of 2^256 - 1.
func (g *Gen) Jump() { g.jump(&jumpTable) }

// LongJump advances g by 2^192 steps. Composing LongJump with Jump separates
// more sub-streams than Jump alone can.
func (g *Gen) LongJump() { g.jump(&longJumpTable) }

// jump folds the evolving state into an accumulator wherever the coefficient
// bit is set, stepping once per bit. Bits are scanned least significant
// first; the accumulator replaces the state afterwards.
func (g *Gen) jump(table *[4]uint64) {
	var acc [4]uint64
	for _, coeff := range table {
		for b := 0; b < 64; b++ {
			if coeff&(1<<uint(b)) != 0 {
				acc[0] ^= g.state[0]
				acc[1] ^= g.state[1]
				acc[2] ^= g.state[2]
				acc[3] ^= g.state[3]
			}
			g.Uint64()
		}
	}
	g.state = acc
}

// FromSource returns a Gen whose state is filled directly from src. A source
// at least 64 bits wide fills each lane with one draw. A narrower source
// fills each lane from two draws, the first in the low bits and the second
// shifted above it.
func FromSource(src entropy.Source) (*Gen, error) {
	g := &Gen{}
	for i := range g.state {
		lane, err := entropy.Lane(src, 64)
		if err != nil {
			return nil, errors.Wrap(err, "xoshiro256: filling state")
		}
		g.state[i] = lane
	}
	return g, nil
}

// State returns a copy of the current state, for callers that persist a
// generator across runs.
func (g *Gen) State() [4]uint64 {
	return g.state
}

// Restore replaces the state with one previously obtained from State. The
// all-zero state is rejected: the recurrence never leaves it.
func (g *Gen) Restore(state [4]uint64) error {
	if state[0]|state[1]|state[2]|state[3] == 0 {
		return ErrZeroState
	}
	g.state = state
	return nil
}
