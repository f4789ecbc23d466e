// Package config loads the tool-level options the core analyzer and
// cache consume from a YAML file.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the recognized analyzer/cache option set.
type Config struct {
	Workers            string `yaml:"workers"` // "auto" or a positive integer, stringly-typed to distinguish unset from 0
	CacheDir           string `yaml:"cache_dir"`
	CacheMaxMB         int    `yaml:"cache_max_mb"`
	Incremental        bool   `yaml:"incremental"`
	MaxErrorsPerModule int    `yaml:"max_errors_per_module"`
	Strict             bool   `yaml:"strict"`
}

// Default returns the defaults: workers=auto, cache_max_mb=100,
// incremental=true, max_errors_per_module=100, strict=false.
func Default() Config {
	return Config{
		Workers:            "auto",
		CacheMaxMB:         100,
		Incremental:        true,
		MaxErrorsPerModule: 100,
		Strict:             false,
	}
}

// Load reads a YAML config file, starting from Default() so any field
// the file omits keeps its default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveWorkers turns the "auto" sentinel into runtime.NumCPU(), and
// parses any other value as a positive integer worker count.
func (c Config) ResolveWorkers() int {
	if c.Workers == "" || c.Workers == "auto" {
		return runtime.NumCPU()
	}
	n := 0
	for _, r := range c.Workers {
		if r < '0' || r > '9' {
			return runtime.NumCPU()
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
