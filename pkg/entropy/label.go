package entropy

import (
	"encoding/binary"

	sha256 "github.com/minio/sha256-simd"
)

// Label is a deterministic Source derived from a byte label. The label is
// hashed with SHA-256 and the digest is consumed as four big-endian 64-bit
// words; when those run out the digest is rehashed. Two Labels built from the
// same bytes yield the same word sequence forever.
//
// A Label provides named, reproducible seed material. It makes no
// cryptographic claims about the streams seeded from it.
type Label struct {
	digest [sha256.Size]byte
	next   int
}

// NewLabel returns a Label source for the given bytes.
func NewLabel(label []byte) *Label {
	return &Label{digest: sha256.Sum256(label)}
}

// Word returns the next 64 bits of the label's digest chain.
func (l *Label) Word() (uint64, error) {
	if l.next >= sha256.Size/8 {
		l.digest = sha256.Sum256(l.digest[:])
		l.next = 0
	}
	u := binary.BigEndian.Uint64(l.digest[l.next*8:])
	l.next++
	return u, nil
}

// Width implements Source.
func (l *Label) Width() uint { return 64 }
