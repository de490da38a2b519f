package main

import (
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	httpfrontend "github.com/subrand/subrand/frontend/http"
	"github.com/subrand/subrand/pkg/log"
	"github.com/subrand/subrand/pkg/metrics"
	"github.com/subrand/subrand/pkg/stop"
	"github.com/subrand/subrand/storage/redis"
)

func rootRun(configFilePath string) error {
	configFile, err := ParseConfigFile(configFilePath)
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}
	cfg := configFile.Subrand

	var stoppers []stop.Stopper

	if cfg.MetricsConfig.Addr != "" {
		log.Info("started serving metrics", cfg.MetricsConfig)
		stoppers = append(stoppers, metrics.NewServer(cfg.MetricsConfig))
	}

	var leases httpfrontend.Leaser
	if cfg.LeaseConfig.RedisBroker != "" {
		store, err := redis.New(cfg.LeaseConfig)
		if err != nil {
			return errors.Wrap(err, "failed to create lease store")
		}
		log.Info("lease store enabled", cfg.LeaseConfig)
		leases = store
		stoppers = append(stoppers, store)
	}

	log.Info("started serving streams", cfg.HTTPConfig)
	frontend := httpfrontend.NewFrontend(cfg.HTTPConfig, leases)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	// Stop the frontend first so nothing touches the stores mid-shutdown.
	stoppers = append([]stop.Stopper{frontend}, stoppers...)

	var firstErr error
	for _, s := range stoppers {
		for _, err := range s.Stop().Wait() {
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func main() {
	var configFilePath string
	var cpuProfilePath string
	var debugLog bool
	var jsonLog bool

	rootCmd := &cobra.Command{
		Use:   "subrand",
		Short: "Reproducible random stream server",
		Long:  "A server handing out reproducible, non-overlapping xoshiro++ random streams for parallel simulation workers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugLog {
				log.SetDebug(true)
				log.Debug("debug logging enabled")
			}
			if jsonLog {
				log.SetFormatter(&logrus.JSONFormatter{})
				log.Info("enabled json logging")
			}

			if cpuProfilePath != "" {
				log.Info("enabled CPU profiling", log.Fields{"path": cpuProfilePath})
				f, err := os.Create(cpuProfilePath)
				if err != nil {
					return err
				}
				pprof.StartCPUProfile(f)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootRun(configFilePath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			// StopCPUProfile() noops when not profiling.
			pprof.StopCPUProfile()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFilePath, "config", "/etc/subrand.yaml", "location of configuration file")
	rootCmd.PersistentFlags().StringVar(&cpuProfilePath, "cpuprofile", "", "location to save a CPU profile")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json", false, "enable json logging")

	rootCmd.AddCommand(newEmitCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal("failed to run", log.Err(err))
	}
}
