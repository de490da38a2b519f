// Package substream places generators on distinct non-overlapping
// sub-streams for parallel use.
//
// Locking a shared generator is never the answer here: each worker owns an
// independent generator seeded from the same root, and Advance separates the
// streams structurally. Jump alone distinguishes 2^64 workers; the group
// coordinate composes LongJump on top for hierarchies beyond that.
package substream

// Stream is the jump capability shared by both generator widths.
type Stream interface {
	Jump()
	LongJump()
}

// Advance positions s at sub-stream (group, index): LongJump applied group
// times, then Jump applied index times. Advance(s, 0, 0) leaves s at the root
// stream. Jumps commute with stepping, so a worker may draw words before or
// after placement checks without changing its stream identity.
func Advance(s Stream, group, index uint64) {
	for i := uint64(0); i < group; i++ {
		s.LongJump()
	}
	for i := uint64(0); i < index; i++ {
		s.Jump()
	}
}
