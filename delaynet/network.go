// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import (
	"fmt"
	"log"

	"github.com/emer/emergent/prjn"
)

// delaynet.Network owns the layers, projections, and clock, and drives the
// fixed per-step phase sequence.  Execution is single-threaded and
// synchronous: each phase completes for all layers before the next begins,
// so delayed reads in phase 3 always see the buffer state after this step's
// write in phase 2, and the threshold reset in phase 4 never affects the
// value already recorded this step.
type Network struct {
	Nm     string            `desc:"overall name of network -- helps discriminate if there are multiple"`
	Layers []*Layer          `desc:"list of layers, in added order"`
	LayMap map[string]*Layer `view:"-" desc:"map of name to layer -- layer names must be unique"`
	Prjns  []*Prjn           `desc:"list of all projections, in connected order"`
	Time   Time              `desc:"the simulation clock -- owned and advanced exclusively here"`
}

// NewNetwork returns a new network with given name, with default parameters
func NewNetwork(name string) *Network {
	nt := &Network{Nm: name}
	nt.LayMap = make(map[string]*Layer)
	nt.Time.Defaults()
	return nt
}

// Defaults sets all the default parameters for all layers and projections
func (nt *Network) Defaults() {
	nt.Time.Defaults()
	for li, ly := range nt.Layers {
		ly.Defaults()
		ly.Idx = li
	}
	for _, pj := range nt.Prjns {
		pj.Defaults()
	}
}

// UpdateParams updates all the derived parameters if any have changed, for
// all layers and projections
func (nt *Network) UpdateParams() {
	for _, ly := range nt.Layers {
		ly.UpdateParams()
	}
	for _, pj := range nt.Prjns {
		pj.UpdateParams()
	}
}

// AddLayer adds a new layer with given name, shape, and type to the network.
// Layer names must be unique -- a duplicate is logged and replaces the
// existing map entry.
func (nt *Network) AddLayer(name string, shape []int, typ LayerTypes) *Layer {
	if _, ok := nt.LayMap[name]; ok {
		log.Printf("delaynet.Network: %v layer name: %v is not unique -- replacing existing map entry\n", nt.Nm, name)
	}
	ly := &Layer{Network: nt, Nm: name, Typ: typ, Idx: len(nt.Layers)}
	ly.Defaults()
	ly.SetShape(shape)
	nt.Layers = append(nt.Layers, ly)
	nt.LayMap[name] = ly
	return ly
}

// LayerByNameTry returns a layer by looking it up by name, with error if
// not found
func (nt *Network) LayerByNameTry(name string) (*Layer, error) {
	ly, ok := nt.LayMap[name]
	if !ok {
		return nil, fmt.Errorf("delaynet.Network: %v layer name: %v not found", nt.Nm, name)
	}
	return ly, nil
}

// LayerByName returns a layer by looking it up by name -- nil if not found
func (nt *Network) LayerByName(name string) *Layer {
	ly := nt.LayMap[name]
	return ly
}

// ConnectLayers establishes a projection from send to recv layer using the
// given pattern of connectivity.  The projection is built (synapses
// allocated, weights and delays sampled) during network Build.
func (nt *Network) ConnectLayers(send, recv *Layer, pat prjn.Pattern) *Prjn {
	pj := &Prjn{Send: send, Recv: recv, Pat: pat}
	pj.Defaults()
	send.SndPrjns = append(send.SndPrjns, pj)
	recv.RcvPrjns = append(recv.RcvPrjns, pj)
	nt.Prjns = append(nt.Prjns, pj)
	return pj
}

// Build constructs the complete network: allocates all layer and synapse
// state, samples weights and delays, derives the per-source-layer delay
// buffer sizes (1 + max delay), and initializes everything.  All
// configuration errors are detected here and returned -- they are fatal,
// never retried at run time.
func (nt *Network) Build() error {
	if nt.Time.Dt <= 0 {
		return fmt.Errorf("delaynet.Network: %v Time.Dt must be > 0, got: %g", nt.Nm, nt.Time.Dt)
	}
	for li, ly := range nt.Layers {
		ly.Idx = li
		if ly.Off {
			continue
		}
		if err := ly.Build(); err != nil {
			return err
		}
	}
	ncon := 0
	for _, pj := range nt.Prjns {
		if pj.Off {
			continue
		}
		if err := pj.Build(); err != nil {
			return err
		}
		ncon += pj.NCons()
	}
	if ncon == 0 {
		return fmt.Errorf("delaynet.Network: %v has no connections -- nothing to simulate", nt.Nm)
	}
	if err := nt.BuildBufs(); err != nil {
		return err
	}
	nt.Init()
	return nil
}

// BuildBufs (re)constructs the delay buffers for all source layers, sized
// from the current maximum sending delay per layer.  It is called by Build,
// and must be called again if delays are changed afterwards (SetDelaysFunc).
// Buffers come back zero-initialized, so pre-start reads return 0.
func (nt *Network) BuildBufs() error {
	for _, ly := range nt.Layers {
		if ly.Off || ly.Typ != Source {
			continue
		}
		if err := ly.BuildBuf(); err != nil {
			return err
		}
	}
	return nil
}

// Init resets the clock and initializes all unit state and delay-line
// history.  Weights and delays are preserved -- use InitWts to re-sample
// weights.
func (nt *Network) Init() {
	nt.Time.Reset()
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		ly.InitActs()
	}
}

// InitWts re-initializes all projection weights from their WtInit params
func (nt *Network) InitWts() {
	for _, pj := range nt.Prjns {
		if pj.Off {
			continue
		}
		pj.InitWts()
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Step -- the per-step state machine
//
//  The phase order is fixed and load-bearing:
//  1. VFmDrive:   next V from intrinsic dynamics -- buffer untouched
//  2. BufWrite:   record V into the delay line at the advanced pointer
//  3. IFmDelayed: delayed weighted sums into target I, reading the buffer
//                 state after the write, so delay 1 = "one step ago"
//  4. SpikeFmV:   threshold / reset for the next step -- after the write,
//                 so history keeps the pre-reset value at crossing
//  Swapping 2 and 3 would let delay 1 alias the current value; swapping
//  1 and 4 would reset before the crossing value is recorded.

// Step runs one complete step of the simulation, advancing the clock at the
// end, so that after t calls the snapshots are v(t) and I(t).
func (nt *Network) Step() {
	for _, ly := range nt.Layers {
		if !ly.Off {
			ly.VFmDrive(&nt.Time)
		}
	}
	for _, ly := range nt.Layers {
		if !ly.Off {
			ly.BufWrite()
		}
	}
	for _, ly := range nt.Layers {
		if !ly.Off {
			ly.IFmDelayed()
		}
	}
	for _, ly := range nt.Layers {
		if !ly.Off {
			ly.SpikeFmV()
		}
	}
	nt.Time.StepInc()
}

// Run runs the given number of steps.  A run can only be stopped between
// steps; there is no mid-step cancellation.
func (nt *Network) Run(nsteps int) {
	for i := 0; i < nsteps; i++ {
		nt.Step()
	}
}
