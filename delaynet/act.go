// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import (
	"math/rand"

	"github.com/emer/emergent/erand"
	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the intrinsic drive and threshold / reset params
//  for source units, and the randomness params for synapse init

// UpdateFunc computes the next value of the state variable for unit i from
// its current value and the step size dt.  It must be a pure function of its
// arguments for runs to be reproducible.
type UpdateFunc func(i int, v, dt float32) float32

// delaynet.DriveParams specifies the intrinsic per-step dynamics of the
// state variable V in a source layer.  The default rule is the linear drive
// V += Slope * dt; any other integration rule can be injected via Fun.
type DriveParams struct {
	Slope float32    `def:"0.4" desc:"rate of increase of V per unit of simulated time, for the default linear drive"`
	Fun   UpdateFunc `view:"-" json:"-" desc:"custom per-step update rule -- when nil, the linear drive is used"`
}

func (dr *DriveParams) Update() {
}

func (dr *DriveParams) Defaults() {
	dr.Slope = 0.4
}

// VFmV returns the next value of V for unit i, applying the injected update
// rule if set, else the linear drive.  It does not mutate any state.
func (dr *DriveParams) VFmV(i int, v, dt float32) float32 {
	if dr.Fun != nil {
		return dr.Fun(i, v, dt)
	}
	return v + dr.Slope*dt
}

//////////////////////////////////////////////////////////////////////////////////////
//  SpikeParams

// delaynet.SpikeParams specifies the threshold / reset rule for source
// units: when V reaches Thr, the unit spikes and V is set to Reset for the
// next step.  The reset is applied only after the current V has been
// recorded into the delay buffer, so history always holds the pre-reset
// value at the step of crossing.
type SpikeParams struct {
	On    bool    `desc:"enable threshold / reset -- off for source units with unbounded dynamics"`
	Thr   float32 `viewif:"On" def:"4" desc:"threshold on V -- crossing is V >= Thr"`
	Reset float32 `viewif:"On" def:"0" desc:"value V is set to after crossing threshold"`
}

func (sk *SpikeParams) Update() {
}

func (sk *SpikeParams) Defaults() {
	sk.On = true
	sk.Thr = 4
	sk.Reset = 0
}

// ShouldSpike returns true if given V value crosses the threshold
func (sk *SpikeParams) ShouldSpike(v float32) bool {
	return sk.On && v >= sk.Thr
}

//////////////////////////////////////////////////////////////////////////////////////
//  WtInitParams

// WtInitParams are weight initialization parameters -- the random
// distribution parameters for per-synapse weight values
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 1
	wp.Var = 0
	wp.Dist = erand.Mean
}

//////////////////////////////////////////////////////////////////////////////////////
//  DelayParams

// DelayParams are delay initialization parameters: a random distribution
// over delay steps, rounded to integers and clamped to at least Min.
// Delays below 1 step are never valid -- a delay of 0 would alias the
// just-written current value rather than the previous step.
type DelayParams struct {
	erand.RndParams
	Min int `min:"1" def:"1" desc:"minimum delay in steps -- generated delays are clamped to at least this"`
}

func (dp *DelayParams) Defaults() {
	dp.Min = 1
	dp.Dist = erand.Uniform
	dp.Mean = 5.5 // uniform integers 1..10
	dp.Var = 4.5
}

// Gen generates one delay-steps value from the distribution, clamped to Min.
// For the Uniform case, integers are sampled directly over
// [Mean-Var, Mean+Var] so every value has equal mass, including the
// endpoints -- rounding a continuous draw would give the endpoints only
// half the interior mass.  Other distributions are rounded to the nearest
// integer.
func (dp *DelayParams) Gen() int32 {
	if dp.Min < 1 {
		dp.Min = 1
	}
	var d int32
	if dp.Dist == erand.Uniform {
		lo := int32(mat32.Round(float32(dp.Mean - dp.Var)))
		hi := int32(mat32.Round(float32(dp.Mean + dp.Var)))
		if hi < lo {
			hi = lo
		}
		d = lo + int32(rand.Intn(int(hi-lo)+1))
	} else {
		d = int32(mat32.Round(float32(dp.RndParams.Gen(-1))))
	}
	if d < int32(dp.Min) {
		d = int32(dp.Min)
	}
	return d
}
