// Package http implements an HTTP frontend serving reproducible random word
// streams. Every response is a pure function of the request parameters, so
// any worker can re-derive its stream from the same seed and placement.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/subrand/subrand/pkg/entropy"
	"github.com/subrand/subrand/pkg/log"
	"github.com/subrand/subrand/pkg/stop"
	"github.com/subrand/subrand/pkg/substream"
	"github.com/subrand/subrand/pkg/xoshiro128"
	"github.com/subrand/subrand/pkg/xoshiro256"
)

func init() {
	prometheus.MustRegister(promResponseDurationMilliseconds)
}

var promResponseDurationMilliseconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "subrand_http_response_duration_milliseconds",
		Help:    "The duration of time it takes to receive and write a response to a stream request",
		Buckets: prometheus.ExponentialBuckets(9.375, 2, 10),
	},
	[]string{"action", "error"},
)

// recordResponseDuration records the duration of time to respond to a stream
// request in milliseconds.
func recordResponseDuration(action string, err error, duration time.Duration) {
	var errString string
	if err != nil {
		if _, ok := err.(ClientError); ok {
			errString = err.Error()
		} else {
			errString = "internal error"
		}
	}

	promResponseDurationMilliseconds.
		WithLabelValues(action, errString).
		Observe(float64(duration.Nanoseconds()) / float64(time.Millisecond))
}

// Config represents all of the configurable options for the HTTP frontend.
type Config struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ParseOptions `yaml:",inline"`
}

// LogFields renders the current config as a set of Logrus fields.
func (cfg Config) LogFields() log.Fields {
	return log.Fields{
		"addr":         cfg.Addr,
		"readTimeout":  cfg.ReadTimeout,
		"writeTimeout": cfg.WriteTimeout,
		"maxCount":     cfg.MaxCount,
		"maxGroup":     cfg.MaxGroup,
		"maxIndex":     cfg.MaxIndex,
	}
}

// A Leaser hands out sub-stream placements never handed out before for a
// given root. storage/redis provides the production implementation.
type Leaser interface {
	Acquire(root string) (group, index uint64, err error)
}

// Frontend holds the state of the stream HTTP frontend.
type Frontend struct {
	srv    *http.Server
	leases Leaser

	Config
}

// NewFrontend builds a Frontend from the provided config and begins serving
// requests on cfg.Addr. leases may be nil, disabling the lease route.
func NewFrontend(cfg Config, leases Leaser) *Frontend {
	if cfg.MaxCount == 0 {
		cfg.MaxCount = defaultMaxCount
	}
	if cfg.MaxGroup == 0 {
		cfg.MaxGroup = defaultMaxGroup
	}
	if cfg.MaxIndex == 0 {
		cfg.MaxIndex = defaultMaxIndex
	}

	f := &Frontend{Config: cfg, leases: leases}
	f.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      f.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		if err := f.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("failed while serving http", log.Err(err))
		}
	}()

	return f
}

// Stop provides a thread-safe way to shut down a currently running Frontend.
func (f *Frontend) Stop() stop.Result {
	c := make(stop.Channel)
	go func() {
		c.Done(f.srv.Shutdown(context.Background()))
	}()

	return c.Result()
}

// Handler returns the router used by the Frontend. It is exported so tests
// can drive it through httptest without binding a socket.
func (f *Frontend) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/streams/u64", f.u64Route)
	router.GET("/streams/u32", f.u32Route)
	router.POST("/leases/:root", f.leaseRoute)
	return router
}

// leaseRoute claims the next unused sub-stream placement for a root.
func (f *Frontend) leaseRoute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var err error
	start := time.Now()
	defer func() { recordResponseDuration("lease", err, time.Since(start)) }()

	if f.leases == nil {
		err = ClientError("leasing is not configured")
		WriteError(w, err)
		return
	}

	group, index, err := f.leases.Acquire(ps.ByName("root"))
	if err != nil {
		log.Error("http: failed to acquire lease", log.Err(err))
		WriteError(w, err)
		return
	}

	err = WriteLease(w, group, index)
	if err != nil {
		log.Error("http: failed to write lease response", log.Err(err))
	}
}

// u64Route serves a window of a 64-bit sub-stream.
func (f *Frontend) u64Route(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var err error
	start := time.Now()
	defer func() { recordResponseDuration("u64", err, time.Since(start)) }()

	req, err := ParseStream(r, 64, f.ParseOptions)
	if err != nil {
		WriteError(w, err)
		return
	}

	var gen *xoshiro256.Gen
	if req.Label != "" {
		gen, err = xoshiro256.FromSource(entropy.NewLabel([]byte(req.Label)))
		if err != nil {
			WriteError(w, err)
			return
		}
	} else {
		gen = xoshiro256.New(req.Seed)
	}
	substream.Advance(gen, req.Group, req.Index)

	words := make([]uint64, req.Count)
	for i := range words {
		words[i] = gen.Uint64()
	}

	err = WriteWords(w, req, words)
	if err != nil {
		log.Error("http: failed to write u64 response", log.Err(err))
	}
}

// u32Route serves a window of a 32-bit sub-stream.
func (f *Frontend) u32Route(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var err error
	start := time.Now()
	defer func() { recordResponseDuration("u32", err, time.Since(start)) }()

	req, err := ParseStream(r, 32, f.ParseOptions)
	if err != nil {
		WriteError(w, err)
		return
	}

	var gen *xoshiro128.Gen
	if req.Label != "" {
		gen, err = xoshiro128.FromSource(entropy.NewLabel([]byte(req.Label)))
		if err != nil {
			WriteError(w, err)
			return
		}
	} else {
		gen = xoshiro128.New(uint32(req.Seed))
	}
	substream.Advance(gen, req.Group, req.Index)

	words := make([]uint64, req.Count)
	for i := range words {
		words[i] = uint64(gen.Uint32())
	}

	err = WriteWords(w, req, words)
	if err != nil {
		log.Error("http: failed to write u32 response", log.Err(err))
	}
}
