package http

import (
	"net/http"
	"strconv"
)

// ParseOptions is the configuration used to parse a stream request.
//
// MaxGroup and MaxIndex bound the placement coordinates. Every jump in a
// placement costs generator work on the server, so an unbounded coordinate
// would let one request compute for an arbitrarily long time.
type ParseOptions struct {
	MaxCount uint64 `yaml:"max_count"`
	MaxGroup uint64 `yaml:"max_group"`
	MaxIndex uint64 `yaml:"max_index"`
}

// Default parameter limits used when the config leaves them zero.
const (
	defaultMaxCount uint64 = 4096
	defaultMaxGroup uint64 = 1 << 16
	defaultMaxIndex uint64 = 1 << 16
)

// ClientError is an error caused by a malformed request. It is reported to
// the client verbatim with a 400 status; every other error is internal.
type ClientError string

// Error implements the error interface for ClientError.
func (c ClientError) Error() string { return string(c) }

// StreamRequest is a parsed request for a window of one sub-stream.
type StreamRequest struct {
	Width uint64

	// Seed and Label select the root state. Exactly one is set.
	Seed  uint64
	Label string

	// Group and Index place the generator on a sub-stream.
	Group uint64
	Index uint64

	Count uint64
}

// ParseStream parses the query parameters of r into a StreamRequest for the
// given word width, bounding count, group, and index by opts.
func ParseStream(r *http.Request, width uint64, opts ParseOptions) (*StreamRequest, error) {
	q := r.URL.Query()

	req := &StreamRequest{
		Width: width,
		Label: q.Get("label"),
	}

	seedStr := q.Get("seed")
	if seedStr != "" && req.Label != "" {
		return nil, ClientError("seed and label are mutually exclusive")
	}
	if seedStr == "" && req.Label == "" {
		return nil, ClientError("missing seed or label")
	}

	if seedStr != "" {
		seed, err := strconv.ParseUint(seedStr, 10, 64)
		if err != nil {
			return nil, ClientError("invalid seed")
		}
		if width == 32 && seed > 1<<32-1 {
			return nil, ClientError("seed exceeds 32 bits")
		}
		req.Seed = seed
	}

	var err error
	if req.Group, err = parseCount(q.Get("group"), 0); err != nil {
		return nil, ClientError("invalid group")
	}
	if req.Group > opts.MaxGroup {
		return nil, ClientError("group out of range")
	}
	if req.Index, err = parseCount(q.Get("index"), 0); err != nil {
		return nil, ClientError("invalid index")
	}
	if req.Index > opts.MaxIndex {
		return nil, ClientError("index out of range")
	}
	if req.Count, err = parseCount(q.Get("count"), 1); err != nil {
		return nil, ClientError("invalid count")
	}
	if req.Count == 0 || req.Count > opts.MaxCount {
		return nil, ClientError("count out of range")
	}

	return req, nil
}

func parseCount(s string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
