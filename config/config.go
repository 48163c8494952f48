// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides declarative yaml configuration for building
// delaynet networks: population sizes, intrinsic dynamics and threshold
// parameters, connectivity pattern, and weight / delay distributions.
package config

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"

	"github.com/delaysim/delaynet/delaynet"
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/prjn"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Name   string       `yaml:"name"`
	Dt     float32      `yaml:"dt"`     // step size in simulated time units
	Seed   int64        `yaml:"seed"`   // random seed for weight / delay generation
	Source SourceConfig `yaml:"source"`
	Target TargetConfig `yaml:"target"`
	Conn   ConnConfig   `yaml:"conn"`
}

// SourceConfig specifies the source population and its dynamics.
type SourceConfig struct {
	N     int     `yaml:"n"`     // number of source units
	Slope float32 `yaml:"slope"` // linear drive: V += Slope * dt per step
	Thr   float32 `yaml:"thr"`   // threshold on V; crossing is V >= Thr
	Reset float32 `yaml:"reset"` // value V is reset to after crossing
	InitV float32 `yaml:"init_v"`
}

// TargetConfig specifies the target population.
type TargetConfig struct {
	N int `yaml:"n"` // number of target units
}

// ConnConfig specifies connectivity and the weight / delay distributions.
type ConnConfig struct {
	Pattern string          `yaml:"pattern"` // full | one-to-one | uniform-random
	PCon    float32         `yaml:"pcon"`    // connection probability for uniform-random
	Wt      DistConfig      `yaml:"wt"`      // weight distribution
	Delay   DelayDistConfig `yaml:"delay"`   // delay-steps distribution
	List    []ConnListEntry `yaml:"list"`    // explicit connections -- overrides Pattern when non-empty
}

// DistConfig is a mean / var random distribution: var 0 means the fixed
// mean value, otherwise uniform in [mean-var, mean+var].
type DistConfig struct {
	Mean float64 `yaml:"mean"`
	Var  float64 `yaml:"var"`
}

// DelayDistConfig is an integer range for delay steps, sampled uniformly.
type DelayDistConfig struct {
	Min int `yaml:"min"` // minimum delay steps, >= 1
	Max int `yaml:"max"` // maximum delay steps, >= Min
}

// ConnListEntry is one explicit connection in yaml form.
type ConnListEntry struct {
	Si    int     `yaml:"si"`
	Ri    int     `yaml:"ri"`
	Wt    float32 `yaml:"wt"`
	Delay int     `yaml:"delay"`
}

// Default returns a Config populated from the embedded defaults.yaml
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load returns a Config from the embedded defaults overlaid with the given
// yaml file.  An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for construction errors: non-positive
// sizes or dt, unknown pattern, delays below 1, or out-of-range explicit
// connection indexes.  All are fatal at construction.
func (cfg *Config) Validate() error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("config: dt must be > 0, got: %g", cfg.Dt)
	}
	if cfg.Source.N < 1 {
		return fmt.Errorf("config: source.n must be >= 1, got: %d", cfg.Source.N)
	}
	if cfg.Target.N < 1 {
		return fmt.Errorf("config: target.n must be >= 1, got: %d", cfg.Target.N)
	}
	if len(cfg.Conn.List) > 0 {
		return delaynet.ValidateConns(cfg.connList(), cfg.Source.N, cfg.Target.N)
	}
	switch cfg.Conn.Pattern {
	case "full", "one-to-one":
	case "uniform-random":
		if cfg.Conn.PCon <= 0 || cfg.Conn.PCon > 1 {
			return fmt.Errorf("config: conn.pcon must be in (0, 1] for uniform-random, got: %g", cfg.Conn.PCon)
		}
	default:
		return fmt.Errorf("config: unknown conn.pattern: %q", cfg.Conn.Pattern)
	}
	if cfg.Conn.Delay.Min < 1 {
		return fmt.Errorf("config: conn.delay.min must be >= 1, got: %d", cfg.Conn.Delay.Min)
	}
	if cfg.Conn.Delay.Max < cfg.Conn.Delay.Min {
		return fmt.Errorf("config: conn.delay.max %d < min %d", cfg.Conn.Delay.Max, cfg.Conn.Delay.Min)
	}
	return nil
}

func (cfg *Config) connList() []delaynet.Conn {
	list := make([]delaynet.Conn, len(cfg.Conn.List))
	for i, e := range cfg.Conn.List {
		list[i] = delaynet.Conn{Si: e.Si, Ri: e.Ri, Wt: e.Wt, DSteps: int32(e.Delay)}
	}
	return list
}

func (cfg *Config) pattern() prjn.Pattern {
	switch cfg.Conn.Pattern {
	case "one-to-one":
		return prjn.NewOneToOne()
	case "uniform-random":
		pat := prjn.NewUnifRnd()
		pat.PCon = cfg.Conn.PCon
		return pat
	default:
		return prjn.NewFull()
	}
}

// Network builds, validates, and initializes a delaynet.Network from the
// configuration.  The random seed is applied first so weight and delay
// generation is reproducible.
func (cfg *Config) Network() (*delaynet.Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rand.Seed(cfg.Seed)

	nt := delaynet.NewNetwork(cfg.Name)
	nt.Time.Dt = cfg.Dt

	src := nt.AddLayer("Source", []int{cfg.Source.N}, delaynet.Source)
	src.Drive.Slope = cfg.Source.Slope
	src.Spike.Thr = cfg.Source.Thr
	src.Spike.Reset = cfg.Source.Reset
	src.InitV = cfg.Source.InitV

	tgt := nt.AddLayer("Target", []int{cfg.Target.N}, delaynet.Target)

	if len(cfg.Conn.List) > 0 {
		if _, err := delaynet.ConnectFromList(nt, src, tgt, cfg.connList()); err != nil {
			return nil, err
		}
	} else {
		pj := nt.ConnectLayers(src, tgt, cfg.pattern())
		if cfg.Conn.Wt.Var == 0 {
			pj.WtInit.Dist = erand.Mean
		} else {
			pj.WtInit.Dist = erand.Uniform
		}
		pj.WtInit.Mean = cfg.Conn.Wt.Mean
		pj.WtInit.Var = cfg.Conn.Wt.Var
		pj.Delay.Min = cfg.Conn.Delay.Min
		if cfg.Conn.Delay.Max == cfg.Conn.Delay.Min {
			pj.Delay.Dist = erand.Mean
			pj.Delay.Mean = float64(cfg.Conn.Delay.Min)
			pj.Delay.Var = 0
		} else {
			pj.Delay.Dist = erand.Uniform
			pj.Delay.Mean = float64(cfg.Conn.Delay.Min+cfg.Conn.Delay.Max) / 2
			pj.Delay.Var = float64(cfg.Conn.Delay.Max-cfg.Conn.Delay.Min) / 2
		}
	}
	if err := nt.Build(); err != nil {
		return nil, err
	}
	return nt, nil
}
