package main

import (
	"bufio"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/subrand/subrand/pkg/entropy"
	"github.com/subrand/subrand/pkg/substream"
	"github.com/subrand/subrand/pkg/xoshiro128"
	"github.com/subrand/subrand/pkg/xoshiro256"
)

// newEmitCommand builds the emit subcommand, which writes one sub-stream to
// stdout in decimal, one word per line, for piping into statistical test
// harnesses.
func newEmitCommand() *cobra.Command {
	var width uint
	var seed uint64
	var label string
	var group, index uint64
	var count uint64

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Write one sub-stream to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := makeStream(width, seed, label, group, index)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()

			buf := make([]byte, 0, 21)
			for i := uint64(0); i < count; i++ {
				buf = strconv.AppendUint(buf[:0], next(), 10)
				buf = append(buf, '\n')
				if _, err := w.Write(buf); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().UintVar(&width, "width", 64, "lane width in bits, 32 or 64")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "root seed")
	cmd.Flags().StringVar(&label, "label", "", "root label, overrides --seed")
	cmd.Flags().Uint64Var(&group, "group", 0, "long-jump group of the sub-stream")
	cmd.Flags().Uint64Var(&index, "index", 0, "jump index within the group")
	cmd.Flags().Uint64Var(&count, "count", 1, "number of words to emit")

	return cmd
}

// makeStream seeds and places a generator of the requested width, returning
// its step function.
func makeStream(width uint, seed uint64, label string, group, index uint64) (func() uint64, error) {
	switch width {
	case 64:
		var gen *xoshiro256.Gen
		if label != "" {
			var err error
			gen, err = xoshiro256.FromSource(entropy.NewLabel([]byte(label)))
			if err != nil {
				return nil, err
			}
		} else {
			gen = xoshiro256.New(seed)
		}
		substream.Advance(gen, group, index)
		return gen.Uint64, nil

	case 32:
		if label == "" && seed > uint64(xoshiro128.Max) {
			return nil, errors.New("seed exceeds 32 bits")
		}
		var gen *xoshiro128.Gen
		if label != "" {
			var err error
			gen, err = xoshiro128.FromSource(entropy.NewLabel([]byte(label)))
			if err != nil {
				return nil, err
			}
		} else {
			gen = xoshiro128.New(uint32(seed))
		}
		substream.Advance(gen, group, index)
		return func() uint64 { return uint64(gen.Uint32()) }, nil

	default:
		return nil, errors.Errorf("unsupported width %d", width)
	}
}
