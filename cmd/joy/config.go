package main

import (
	"os"

	"github.com/goccy/go-yaml"
)

// rcConfig is the optional joyrc.yaml startup file's shape: persisted
// REPL preferences the CLI flags can still override. Nothing in the
// teacher carries a config file (ngaro is flag-only), so this is
// grounded on CWBudde-go-dws's use of goccy/go-yaml instead, which is
// carried into the ambient stack per SPEC_FULL.md's CLI section.
type rcConfig struct {
	Echo    int    `yaml:"echo"`
	Autoput int    `yaml:"autoput"`
	GCTrace bool   `yaml:"gctrace"`
	Library string `yaml:"library"`
}

// loadRC reads path if it exists, returning a zero rcConfig (not an
// error) when the file is simply absent.
func loadRC(path string) (rcConfig, error) {
	var rc rcConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rc, nil
		}
		return rc, err
	}
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return rc, err
	}
	return rc, nil
}
