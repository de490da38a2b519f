// Package stop implements a pattern for shutting down a group of long-lived
// processes.
package stop

// Channel is used to return zero or more errors asynchronously. Call Done
// exactly once to pass errors to the Channel.
type Channel chan []error

// Result is the receive-only side of a Channel. Call Wait exactly once to
// receive any returned errors.
type Result <-chan []error

// Done adds zero or more errors to the Channel and closes it, indicating the
// caller has finished stopping.
func (ch Channel) Done(errs ...error) {
	if len(errs) > 0 && errs[0] != nil {
		ch <- errs
	}
	close(ch)
}

// Result converts a Channel to a Result.
func (ch Channel) Result() Result {
	return Result((chan []error)(ch))
}

// Wait blocks until Done is called on the underlying Channel and returns any
// errors.
func (r Result) Wait() []error {
	return <-r
}

// AlreadyStopped is a closed Result for Stoppers that were already stopped.
var AlreadyStopped Result

func init() {
	ch := make(Channel)
	close(ch)
	AlreadyStopped = ch.Result()
}

// Stopper is anything that can be shut down cleanly.
//
// Stop should return immediately and perform the actual shutdown in a
// separate goroutine, closing the Result (possibly with errors) when the
// shutdown finishes.
type Stopper interface {
	Stop() Result
}
