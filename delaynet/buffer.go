// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import (
	"fmt"

	"github.com/emer/etable/etensor"
)

// delaynet.DelayBuffer is a fixed-size circular history store for the state
// variable V of one source layer: one row per historical step, one column per
// unit, plus a single shared write pointer advanced by one (mod Size) each
// step.  Size must be 1 + the maximum delay of any synapse reading from it:
// a value written at step t is overwritten no earlier than step t + Size,
// and the furthest reader needs it at step t + Size - 1.
//
// The buffer is the only surface through which its storage or pointer can be
// touched: Write is called exactly once per step by the Network, before any
// Read for that step, and Reads only ever see fully-written rows.
type DelayBuffer struct {
	Size int             `inactive:"+" desc:"number of history rows, = 1 + max delay steps over reading synapses"`
	N    int             `inactive:"+" desc:"number of units (columns) per row"`
	Ptr  int             `inactive:"+" desc:"current write row -- wraps around at Size"`
	Buf  etensor.Float32 `view:"-" desc:"the history values, shape (Size, N), zero-initialized"`
}

// NewDelayBuffer returns a new buffer with given history size and number of
// units, zero-initialized so that pre-start reads are defined to return 0.
func NewDelayBuffer(size, n int) (*DelayBuffer, error) {
	if size < 2 {
		return nil, fmt.Errorf("delaynet.DelayBuffer: size must be >= 2 (1 + max delay of 1), got: %d", size)
	}
	if n < 1 {
		return nil, fmt.Errorf("delaynet.DelayBuffer: number of units must be >= 1, got: %d", n)
	}
	db := &DelayBuffer{Size: size, N: n}
	db.Buf.SetShape([]int{size, n}, nil, []string{"Step", "Unit"})
	return db, nil
}

// Init zeros all history rows and resets the write pointer.
func (db *DelayBuffer) Init() {
	db.Ptr = 0
	for i := range db.Buf.Values {
		db.Buf.Values[i] = 0
	}
}

// Seed overwrites the current row with vals without advancing the pointer,
// recording the initial state as the step-0 history row.  A delay-d read
// first resolves to this row at step d, and the row is not overwritten
// until step Size, after its furthest reader has consumed it.
func (db *DelayBuffer) Seed(vals []float32) {
	copy(db.Buf.Values[db.Ptr*db.N:(db.Ptr+1)*db.N], vals)
}

// Write advances the pointer by one row, wrapping at Size, then overwrites
// that row with vals, which must have one value per unit.
// Must be called exactly once per step, before any Read for that step.
func (db *DelayBuffer) Write(vals []float32) {
	db.Ptr = (db.Ptr + 1) % db.Size
	copy(db.Buf.Values[db.Ptr*db.N:(db.Ptr+1)*db.N], vals)
}

// Read returns the value of unit i from dsteps steps ago, i.e., the row
// written dsteps Write calls before the current pointer.  dsteps must be in
// [1, Size-1]; this is enforced structurally at network Build time, not here.
// Before dsteps steps have elapsed since Init, the row still holds the
// initialization value of 0, which is the defined pre-start result.
func (db *DelayBuffer) Read(i, dsteps int) float32 {
	row := db.Ptr - dsteps
	if row < 0 {
		row += db.Size
	}
	return db.Buf.Values[row*db.N+i]
}

// Cur returns the value of unit i in the row written this step.
// It is a snapshot accessor for the just-recorded (pre-reset) values, not a
// delayed read -- delayed reads always have dsteps >= 1.
func (db *DelayBuffer) Cur(i int) float32 {
	return db.Buf.Values[db.Ptr*db.N+i]
}
