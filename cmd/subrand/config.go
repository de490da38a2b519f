package main

import (
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	httpfrontend "github.com/subrand/subrand/frontend/http"
	"github.com/subrand/subrand/pkg/metrics"
	"github.com/subrand/subrand/storage/redis"
)

// Config represents the configuration used for executing subrand.
type Config struct {
	MetricsConfig metrics.Config      `yaml:"metrics"`
	HTTPConfig    httpfrontend.Config `yaml:"http"`
	LeaseConfig   redis.Config        `yaml:"lease"`
}

// ConfigFile represents a namespaced YAML configuration file.
type ConfigFile struct {
	Subrand Config `yaml:"subrand"`
}

// ParseConfigFile returns a new ConfigFile given the path to a YAML
// configuration file.
//
// It supports relative and absolute paths and environment variables.
func ParseConfigFile(path string) (*ConfigFile, error) {
	if path == "" {
		return nil, errors.New("no config path specified")
	}

	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	contents, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var cfgFile ConfigFile
	err = yaml.Unmarshal(contents, &cfgFile)
	if err != nil {
		return nil, err
	}

	return &cfgFile, nil
}
