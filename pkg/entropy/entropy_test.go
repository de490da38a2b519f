package entropy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLaneWideSource(t *testing.T) {
	src := NewFixed(64, 0xffffffffffffffff)
	lane, err := Lane(src, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(0xffffffff), lane, "wide draws are masked to the lane width")
}

func TestLaneNarrowSource(t *testing.T) {
	src := NewFixed(16, 0x1234, 0x5678)
	lane, err := Lane(src, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(0x56781234), lane, "low half from the first draw, high half from the second")
}

func TestLaneQuarterWidthSource(t *testing.T) {
	src := NewFixed(16, 0x1111, 0x2222, 0x3333, 0x4444)
	lane, err := Lane(src, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(0x4444333322221111), lane, "draws keep stacking until the high bits are filled")
}

func TestLaneUnevenWidthSource(t *testing.T) {
	// 24-bit draws overshoot a 64-bit lane; the last draw is truncated.
	src := NewFixed(24, 0xaaaaaa, 0xbbbbbb, 0xcccccc)
	lane, err := Lane(src, 64)
	require.NoError(t, err)
	require.Equal(t, uint64(0xccccbbbbbbaaaaaa), lane)
}

func TestLaneExhaustedMidFill(t *testing.T) {
	src := NewFixed(16, 0x1111)
	_, err := Lane(src, 64)
	require.Equal(t, ErrExhausted, err)
}

func TestLaneEqualWidth(t *testing.T) {
	src := NewFixed(32, 0xcafebabe)
	lane, err := Lane(src, 32)
	require.NoError(t, err)
	require.Equal(t, uint64(0xcafebabe), lane)
}

func TestFixedMasksAndExhausts(t *testing.T) {
	src := NewFixed(8, 0x1ff, 0x2)

	w, err := src.Word()
	require.NoError(t, err)
	require.Equal(t, uint64(0xff), w, "recorded words are masked to the declared width")

	w, err = src.Word()
	require.NoError(t, err)
	require.Equal(t, uint64(0x2), w)

	_, err = src.Word()
	require.Equal(t, ErrExhausted, err)
}

func TestLabelKnownAnswer(t *testing.T) {
	l := NewLabel([]byte("alpha"))

	want := []uint64{
		0x8ed3f6ad685b959e, 0xad7022518e1af76c,
		0xd816f8e8ec7ccdda, 0x1ed4018e8f2223f8,
		// Fifth word comes from rehashing the digest.
		0xaa86be763e41db7e,
	}
	for i, w := range want {
		got, err := l.Word()
		require.NoError(t, err)
		require.Equal(t, w, got, "word %d", i)
	}
}

func TestLabelDeterminism(t *testing.T) {
	a := NewLabel([]byte("workers/7"))
	b := NewLabel([]byte("workers/7"))
	for i := 0; i < 100; i++ {
		wa, err := a.Word()
		require.NoError(t, err)
		wb, err := b.Word()
		require.NoError(t, err)
		require.Equal(t, wa, wb, "word %d", i)
	}

	c := NewLabel([]byte("workers/8"))
	wa, _ := NewLabel([]byte("workers/7")).Word()
	wc, err := c.Word()
	require.NoError(t, err)
	require.NotEqual(t, wa, wc, "distinct labels must diverge")
}

func TestDeviceYieldsWords(t *testing.T) {
	d := NewDevice()
	require.Equal(t, uint(64), d.Width())

	// 16 consecutive device words being identical means the platform source
	// is broken, not unlucky.
	first, err := d.Word()
	require.NoError(t, err)
	same := true
	for i := 0; i < 15; i++ {
		w, err := d.Word()
		require.NoError(t, err)
		if w != first {
			same = false
		}
	}
	require.False(t, same)
}
