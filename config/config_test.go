// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/delaysim/delaynet/delaynet"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "delaynet" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Dt != 1 {
		t.Errorf("dt = %v, want 1", cfg.Dt)
	}
	if cfg.Source.N != 600 || cfg.Target.N != 600 {
		t.Errorf("sizes = %d, %d, want 600, 600", cfg.Source.N, cfg.Target.N)
	}
	if cfg.Conn.Delay.Min != 1 || cfg.Conn.Delay.Max != 10 {
		t.Errorf("delay range = %d..%d, want 1..10", cfg.Conn.Delay.Min, cfg.Conn.Delay.Max)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	overlay := []byte("dt: 0.5\nsource:\n  n: 10\n  slope: 0.4\n  thr: 4.0\n  reset: 0.0\ntarget:\n  n: 3\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != 0.5 {
		t.Errorf("dt = %v, want 0.5", cfg.Dt)
	}
	if cfg.Source.N != 10 || cfg.Target.N != 3 {
		t.Errorf("sizes = %d, %d, want 10, 3", cfg.Source.N, cfg.Target.N)
	}
	// fields absent from the overlay keep their defaults
	if cfg.Conn.Pattern != "full" {
		t.Errorf("pattern = %q, want default full", cfg.Conn.Pattern)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestValidateErrors(t *testing.T) {
	mod := func(f func(cfg *Config)) *Config {
		cfg, err := Default()
		if err != nil {
			t.Fatal(err)
		}
		f(cfg)
		return cfg
	}
	cases := map[string]*Config{
		"zero dt":        mod(func(c *Config) { c.Dt = 0 }),
		"zero source":    mod(func(c *Config) { c.Source.N = 0 }),
		"zero target":    mod(func(c *Config) { c.Target.N = 0 }),
		"bad pattern":    mod(func(c *Config) { c.Conn.Pattern = "ring" }),
		"bad pcon":       mod(func(c *Config) { c.Conn.Pattern = "uniform-random"; c.Conn.PCon = 0 }),
		"zero delay min": mod(func(c *Config) { c.Conn.Delay.Min = 0 }),
		"max below min":  mod(func(c *Config) { c.Conn.Delay.Max = 0 }),
		"dangling list":  mod(func(c *Config) { c.Conn.List = []ConnListEntry{{Si: 9999, Ri: 0, Wt: 1, Delay: 1}} }),
	}
	for nm, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%v: expected validation error", nm)
		}
	}
}

func TestNetwork(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Source.N = 20
	cfg.Target.N = 15
	nt, err := cfg.Network()
	if err != nil {
		t.Fatal(err)
	}
	src := nt.LayerByName("Source")
	tgt := nt.LayerByName("Target")
	if src.NUnits() != 20 || tgt.NUnits() != 15 {
		t.Fatalf("layer sizes = %d, %d", src.NUnits(), tgt.NUnits())
	}
	pj := tgt.RcvPrjns[0]
	if pj.NCons() != 20*15 {
		t.Errorf("full connectivity: %d cons, want %d", pj.NCons(), 20*15)
	}
	for si := range pj.Syns {
		sy := &pj.Syns[si]
		if sy.Wt != 1 {
			t.Errorf("syn %d: wt = %v, want fixed 1", si, sy.Wt)
		}
		if sy.DSteps < 1 || sy.DSteps > 10 {
			t.Errorf("syn %d: delay %d outside 1..10", si, sy.DSteps)
		}
	}
	if src.Buf == nil || src.Buf.Size != int(1+pj.MaxDelay()) {
		t.Errorf("buffer not sized to 1 + max delay")
	}
	nt.Run(5)
	if nt.Time.StepCnt != 5 {
		t.Errorf("StepCnt = %d, want 5", nt.Time.StepCnt)
	}
}

func TestNetworkExplicitList(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Source.N = 4
	cfg.Target.N = 3
	cfg.Conn.List = []ConnListEntry{
		{Si: 0, Ri: 0, Wt: 0.5, Delay: 2},
		{Si: 3, Ri: 2, Wt: -1, Delay: 7},
	}
	nt, err := cfg.Network()
	if err != nil {
		t.Fatal(err)
	}
	src := nt.LayerByName("Source")
	tgt := nt.LayerByName("Target")
	pj := tgt.RcvPrjns[0]
	if pj.NCons() != 2 {
		t.Fatalf("NCons = %d, want 2", pj.NCons())
	}
	sy := pj.Syn(0, 0)
	if sy == nil || sy.Wt != 0.5 || sy.DSteps != 2 {
		t.Errorf("syn 0->0 not set from list: %+v", sy)
	}
	sy = pj.Syn(3, 2)
	if sy == nil || sy.Wt != -1 || sy.DSteps != 7 {
		t.Errorf("syn 3->2 not set from list: %+v", sy)
	}
	if src.Buf.Size != 8 {
		t.Errorf("buffer size = %d, want 8", src.Buf.Size)
	}
}

func TestNetworkSeedDeterminism(t *testing.T) {
	build := func() *delaynet.Network {
		cfg, err := Default()
		if err != nil {
			t.Fatal(err)
		}
		cfg.Source.N = 12
		cfg.Target.N = 9
		cfg.Seed = 99
		nt, err := cfg.Network()
		if err != nil {
			t.Fatal(err)
		}
		return nt
	}
	nt1 := build()
	nt2 := build()
	pj1 := nt1.LayerByName("Target").RcvPrjns[0]
	pj2 := nt2.LayerByName("Target").RcvPrjns[0]
	if len(pj1.Syns) != len(pj2.Syns) {
		t.Fatalf("syn counts differ: %d vs %d", len(pj1.Syns), len(pj2.Syns))
	}
	for si := range pj1.Syns {
		if pj1.Syns[si] != pj2.Syns[si] {
			t.Fatalf("syn %d differs: %+v vs %+v", si, pj1.Syns[si], pj2.Syns[si])
		}
	}
}
