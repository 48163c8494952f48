// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

// delaynet.Time contains the timing state and parameters for running a model.
// It is the single authority for "now" -- every other component is stateless
// with respect to time except through the values it is handed per step.
type Time struct {
	Time    float32 `desc:"accumulated amount of simulated time, = StepCnt * Dt"`
	StepCnt int     `desc:"number of steps completed since last Reset -- increments by one per step"`
	Dt      float32 `def:"0.001" desc:"amount of simulated time incremented per step"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.Dt = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.StepCnt = 0
	if tm.Dt == 0 {
		tm.Defaults()
	}
}

// StepInc increments the step counter and recomputes elapsed time as
// StepCnt * Dt, so Time carries no accumulated rounding error over long runs
func (tm *Time) StepInc() {
	tm.StepCnt++
	tm.Time = float32(tm.StepCnt) * tm.Dt
}
