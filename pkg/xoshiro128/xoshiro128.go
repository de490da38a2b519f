// Package xoshiro128 implements the xoshiro128++ PRNG with its jump
// functions, based on the xoshiro128plusplus.c reference implementation by
// David Blackman and Sebastiano Vigna: prng.di.unimi.it.
//
// It is the 32-bit-lane sibling of package xoshiro256 and carries the same
// contract: a Gen is not safe for concurrent use, and parallel consumers
// separate their streams with Jump or LongJump.
package xoshiro128

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/subrand/subrand/pkg/entropy"
	"github.com/subrand/subrand/pkg/mix"
)

// Min and Max bound the output range of Uint32.
const (
	Min uint32 = 0
	Max uint32 = 1<<32 - 1
)

// jumpTable advances a Gen by 2^64 steps, longJumpTable by 2^96.
var (
	jumpTable     = [4]uint32{0x8764000b, 0xf542d2d3, 0x6fa035c3, 0x77f2db5b}
	longJumpTable = [4]uint32{0xb523952e, 0x0b6f099f, 0xccf5a0ef, 0x1c580662}
)

// ErrZeroState is returned by Restore for the all-zero state.
var ErrZeroState = errors.New("xoshiro128: all-zero state")

// Gen holds the 128-bit state of a xoshiro128++ generator.
type Gen struct {
	state [4]uint32
}

// New returns a Gen seeded from a single 32-bit seed via the splitmix
// expansion. Any seed, including 0, yields a usable non-zero state.
func New(seed uint32) *Gen {
	g := &Gen{}
	g.Seed(seed)
	return g
}

// Seed reinitializes g from seed, deriving each lane by advancing the seed by
// the golden ratio increment and scrambling it with the triple32 avalanche
// function.
func (g *Gen) Seed(seed uint32) {
	for i := range g.state {
		seed += mix.Golden32
		g.state[i] = mix.Triple32(seed)
	}
}

// Uint32 returns the next output word and advances the state by one step.
func (g *Gen) Uint32() uint32 {
	r := bits.RotateLeft32(g.state[0]+g.state[3], 7) + g.state[0]

	t := g.state[1] << 9

	g.state[2] ^= g.state[0]
	g.state[3] ^= g.state[1]
	g.state[1] ^= g.state[2]
	g.state[0] ^= g.state[3]

	g.state[2] ^= t
	g.state[3] = bits.RotateLeft32(g.state[3], 11)

	return r
}

// Jump advances g by 2^64 steps.
func (g *Gen) Jump() { g.jump(&jumpTable) }

// LongJump advances g by 2^96 steps.
func (g *Gen) LongJump() { g.jump(&longJumpTable) }

func (g *Gen) jump(table *[4]uint32) {
	var acc [4]uint32
	for _, coeff := range table {
		for b := 0; b < 32; b++ {
			if coeff&(1<<uint(b)) != 0 {
				acc[0] ^= g.state[0]
				acc[1] ^= g.state[1]
				acc[2] ^= g.state[2]
				acc[3] ^= g.state[3]
			}
			g.Uint32()
		}
	}
	g.state = acc
}

// FromSource returns a Gen whose state is filled directly from src. A source
// at least 32 bits wide fills each lane with one masked draw; a narrower
// source fills each lane from two draws, low half first.
func FromSource(src entropy.Source) (*Gen, error) {
	g := &Gen{}
	for i := range g.state {
		lane, err := entropy.Lane(src, 32)
		if err != nil {
			return nil, errors.Wrap(err, "xoshiro128: filling state")
		}
		g.state[i] = uint32(lane)
	}
	return g, nil
}

// State returns a copy of the current state.
func (g *Gen) State() [4]uint32 {
	return g.state
}

// Restore replaces the state with one previously obtained from State,
// rejecting the all-zero state.
func (g *Gen) Restore(state [4]uint32) error {
	if state[0]|state[1]|state[2]|state[3] == 0 {
		return ErrZeroState
	}
	g.state = state
	return nil
}
