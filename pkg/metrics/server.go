// Package metrics implements the operational HTTP server of a subrand
// process: the Prometheus registry, plus the pprof handlers for profiling
// stream serving under load.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/subrand/subrand/pkg/log"
	"github.com/subrand/subrand/pkg/stop"
)

// Config holds the configuration of the operational server.
type Config struct {
	Addr            string `yaml:"addr"`
	EnableProfiling bool   `yaml:"enable_profiling"`
}

// LogFields renders the current config as a set of Logrus fields.
func (cfg Config) LogFields() log.Fields {
	return log.Fields{
		"addr":            cfg.Addr,
		"enableProfiling": cfg.EnableProfiling,
	}
}

// Handler returns the routes served by the operational server. The pprof
// handlers expose process internals, so they are mounted only when the config
// enables profiling.
func Handler(cfg Config) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.EnableProfiling {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	return mux
}

// Server is a standalone HTTP server for the operational endpoints, kept off
// the stream listener so scraping and profiling never contend with request
// traffic.
type Server struct {
	srv *http.Server
}

// Stop shuts down the server.
func (s *Server) Stop() stop.Result {
	c := make(stop.Channel)
	go func() {
		c.Done(s.srv.Shutdown(context.Background()))
	}()

	return c.Result()
}

// NewServer creates an operational server that asynchronously serves requests
// on cfg.Addr.
func NewServer(cfg Config) *Server {
	s := &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           Handler(cfg),
			ReadHeaderTimeout: time.Second * 60,
		},
	}

	go func() {
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed while serving metrics", log.Err(err))
		}
	}()

	return s
}
