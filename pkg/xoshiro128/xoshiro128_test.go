package xoshiro128

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/subrand/subrand/pkg/entropy"
)

// Reference outputs of xoshiro128++ under the splitmix expansion of seed 0.
var seedZeroOutputs = []uint32{
	0x0a997c92, 0xb66f301f, 0xe86c61b6, 0xb6d86c94,
	0x2dcecb8b, 0x76ffe66f, 0xb52c46b6, 0x7ecd3bfc,
}

// Reference outputs for the raw state {1, 2, 3, 4}.
var rawStateOutputs = []uint32{
	0x00000281, 0x00180387, 0xc0183387, 0xd1ae3b02,
	0x31e2310a, 0xfd275ab0, 0xe67f7cec, 0x50d07f0f,
}

func TestKnownAnswerSeedZero(t *testing.T) {
	g := New(0)
	require.Equal(t, [4]uint32{
		0xfd42f46a, 0xc87eee8a, 0xc1faee18, 0x52d7b8a6,
	}, g.State(), "splitmix expansion of seed 0")

	for i, want := range seedZeroOutputs {
		require.Equal(t, want, g.Uint32(), "output %d", i)
	}
}

func TestKnownAnswerRawState(t *testing.T) {
	g := New(0)
	require.NoError(t, g.Restore([4]uint32{1, 2, 3, 4}))
	for i, want := range rawStateOutputs {
		require.Equal(t, want, g.Uint32(), "output %d", i)
	}
}

func TestDeterminism(t *testing.T) {
	a, b := New(0xcafe), New(0xcafe)
	for i := 0; i < 10000; i++ {
		require.Equal(t, a.Uint32(), b.Uint32(), "diverged at call %d", i)
	}
}

func TestSeededStateNeverZero(t *testing.T) {
	g := &Gen{}
	for seed := uint32(0); seed < 10000; seed++ {
		g.Seed(seed)
		require.NotEqual(t, [4]uint32{}, g.State(), "seed %d", seed)
	}
}

func TestJumpKnownAnswer(t *testing.T) {
	g := New(0)
	g.Jump()
	require.Equal(t, [4]uint32{
		0xaa6d3227, 0x8beb83bc, 0xd1d845f1, 0x78a83f61,
	}, g.State())

	g.Seed(0)
	g.LongJump()
	require.Equal(t, [4]uint32{
		0x02e3ecb8, 0x657495a4, 0xad4c1c10, 0xa5a3b2fc,
	}, g.State())
}

func TestJumpCommutesWithStep(t *testing.T) {
	for _, steps := range []int{1, 7, 100} {
		a, b := New(42), New(42)

		for i := 0; i < steps; i++ {
			a.Uint32()
		}
		a.Jump()

		b.Jump()
		for i := 0; i < steps; i++ {
			b.Uint32()
		}

		require.Equal(t, a.State(), b.State(), "steps=%d", steps)
	}
}

func TestJumpPreservesDistinctness(t *testing.T) {
	a, b := New(1), New(2)
	require.NotEqual(t, a.State(), b.State())

	a.Jump()
	b.Jump()
	require.NotEqual(t, a.State(), b.State())

	a.LongJump()
	b.LongJump()
	require.NotEqual(t, a.State(), b.State())
}

func TestOutputBitBalance(t *testing.T) {
	g := New(0)
	ones := 0
	for i := 0; i < 10000; i++ {
		ones += bits.OnesCount32(g.Uint32())
	}
	require.InDelta(t, 160000, ones, 4000)
}

func TestJumpedStreamDoesNotOverlap(t *testing.T) {
	const window = 4096

	a := New(0)
	b := New(0)
	b.Jump()

	seen := make(map[[4]uint32]struct{}, window)
	for i := 0; i < window; i++ {
		seen[a.State()] = struct{}{}
		a.Uint32()
	}
	for i := 0; i < window; i++ {
		_, ok := seen[b.State()]
		require.False(t, ok, "jumped stream revisited the root window at call %d", i)
		b.Uint32()
	}
}

// The documented narrow-source concatenation: draws 0x1234 then 0x5678 from a
// 16-bit source form the lane 0x56781234.
func TestFromSourceNarrowWords(t *testing.T) {
	src := entropy.NewFixed(16,
		0x1234, 0x5678,
		0x1111, 0x2222,
		0x3333, 0x4444,
		0x5555, 0x6666,
	)
	g, err := FromSource(src)
	require.NoError(t, err)
	require.Equal(t, [4]uint32{
		0x56781234, 0x22221111, 0x44443333, 0x66665555,
	}, g.State())
}

func TestFromSourceWideWords(t *testing.T) {
	// A 64-bit source is truncated into each lane.
	src := entropy.NewFixed(64,
		0xdeadbeef00000001, 0xdeadbeef00000002,
		0xdeadbeef00000003, 0xdeadbeef00000004,
	)
	g, err := FromSource(src)
	require.NoError(t, err)
	require.Equal(t, [4]uint32{1, 2, 3, 4}, g.State())
}

func TestRestoreRejectsZeroState(t *testing.T) {
	g := New(7)
	before := g.State()
	require.Equal(t, ErrZeroState, g.Restore([4]uint32{}))
	require.Equal(t, before, g.State(), "state must be unmodified")
}

func BenchmarkUint32(b *testing.B) {
	g := New(0)
	var k uint32
	for i := 0; i < b.N; i++ {
		k = g.Uint32()
	}
	_ = k
}

func BenchmarkJump(b *testing.B) {
	g := New(0)
	for i := 0; i < b.N; i++ {
		g.Jump()
	}
}
