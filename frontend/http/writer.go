package http

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// streamResponse is the JSON shape of a successful stream response. Words
// are rendered as decimal strings: 64-bit values do not survive the float64
// round-trip some JSON decoders apply to numbers.
type streamResponse struct {
	Width uint64   `json:"width"`
	Group uint64   `json:"group"`
	Index uint64   `json:"index"`
	Words []string `json:"words"`
}

type leaseResponse struct {
	Group uint64 `json:"group"`
	Index uint64 `json:"index"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// WriteLease writes a successful lease response.
func WriteLease(w http.ResponseWriter, group, index uint64) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(leaseResponse{Group: group, Index: index})
}

// WriteWords writes a successful stream response for req.
func WriteWords(w http.ResponseWriter, req *StreamRequest, words []uint64) error {
	resp := streamResponse{
		Width: req.Width,
		Group: req.Group,
		Index: req.Index,
		Words: make([]string, len(words)),
	}
	for i, u := range words {
		resp.Words[i] = strconv.FormatUint(u, 10)
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// WriteError writes err as a JSON error response: 400 for a ClientError,
// 500 otherwise.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if _, ok := err.(ClientError); ok {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: "internal error"})
}
