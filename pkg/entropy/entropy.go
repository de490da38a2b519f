// Package entropy models external sources of uniformly distributed words and
// the width adaptation needed to fill generator lanes from them.
package entropy

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// A Source yields uniformly distributed unsigned words on demand. Width
// reports the native word width in bits, between 1 and 64; every word is
// uniform on [0, 1<<Width()). Failure semantics are the source's own: the
// generator packages only propagate errors, they never retry.
type Source interface {
	Word() (uint64, error)
	Width() uint
}

// Lane assembles one uniform lane of width bits from src. A source at least
// as wide as the lane contributes one draw, masked down. A narrower source
// contributes as many draws as it takes to fill the lane: the first masked
// into the low bits, each further draw shifted up past the bits already
// placed. A source of half the lane width therefore pairs exactly two draws.
func Lane(src Source, width uint) (uint64, error) {
	w := src.Width()
	if w >= width {
		u, err := src.Word()
		return u & maskOf(width), err
	}

	var lane uint64
	for filled := uint(0); filled < width; filled += w {
		u, err := src.Word()
		if err != nil {
			return 0, err
		}
		lane |= (u & maskOf(w)) << filled
	}
	return lane & maskOf(width), nil
}

func maskOf(width uint) uint64 {
	if width >= 64 {
		return 1<<64 - 1
	}
	return 1<<width - 1
}

// Device is a Source backed by the platform entropy device (crypto/rand),
// yielding 64-bit words. Reads are buffered; a Device is safe for concurrent
// use.
type Device struct {
	mu sync.Mutex
	r  *bufio.Reader
}

// NewDevice returns a Device reading from crypto/rand.
func NewDevice() *Device {
	return &Device{r: bufio.NewReader(rand.Reader)}
}

// Word returns the next 64 bits from the entropy device.
func (d *Device) Word() (uint64, error) {
	var buf [8]byte
	d.mu.Lock()
	_, err := io.ReadFull(d.r, buf[:])
	d.mu.Unlock()
	if err != nil {
		return 0, errors.Wrap(err, "entropy: reading device")
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// Width implements Source.
func (d *Device) Width() uint { return 64 }

// Fixed is a Source replaying a recorded sequence of words of a declared
// width. It is intended for tests and for reproducing imports from recorded
// draws.
type Fixed struct {
	words []uint64
	width uint
	next  int
}

// ErrExhausted is returned by a Fixed source once every recorded word has
// been drawn.
var ErrExhausted = errors.New("entropy: fixed source exhausted")

// NewFixed returns a Fixed source yielding words in order, each masked to
// width bits.
func NewFixed(width uint, words ...uint64) *Fixed {
	return &Fixed{words: words, width: width}
}

// Word returns the next recorded word, or ErrExhausted.
func (f *Fixed) Word() (uint64, error) {
	if f.next >= len(f.words) {
		return 0, ErrExhausted
	}
	u := f.words[f.next] & maskOf(f.width)
	f.next++
	return u, nil
}

// Width implements Source.
func (f *Fixed) Width() uint { return f.width }
