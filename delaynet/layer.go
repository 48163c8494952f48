// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import (
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// delaynet.Layer is an ordered, fixed-size population of units, either a
// Source layer (owns V, intrinsic drive, threshold / reset, and a delay
// buffer recording its history) or a Target layer (owns the delayed summed
// input I).  Units are identified by their stable flat index 0..N-1.
type Layer struct {
	Network  *Network      `copy:"-" json:"-" view:"-" desc:"our parent network, set when added by network"`
	Nm       string        `desc:"name of the layer -- must be unique within the network"`
	Off      bool          `desc:"inactivate this layer -- allows for easy experimentation"`
	Shp      etensor.Shape `desc:"shape of the layer -- typically 1D or 2D, row major"`
	Typ      LayerTypes    `desc:"role of the layer: Source or Target"`
	Idx      int           `desc:"index of the layer within the network's layer list"`
	Drive    DriveParams   `view:"inline" desc:"intrinsic per-step dynamics of V (source layers)"`
	Spike    SpikeParams   `view:"inline" desc:"threshold / reset rule for V (source layers)"`
	InitV    float32       `def:"0" desc:"initial value of V at Init"`
	Neurons  []Neuron      `desc:"slice of neuron state for this layer -- flat list of len = Shp.Len()"`
	Buf      *DelayBuffer  `view:"-" desc:"delay-line history of V (source layers with sending projections) -- owned here, written once per step by the network"`
	RcvPrjns []*Prjn       `desc:"list of receiving projections into this layer"`
	SndPrjns []*Prjn       `desc:"list of sending projections from this layer"`

	vals []float32 // scratch row of current V values for the buffer write
}

func (ly *Layer) Name() string          { return ly.Nm }
func (ly *Layer) Label() string         { return ly.Nm }
func (ly *Layer) Type() LayerTypes      { return ly.Typ }
func (ly *Layer) Shape() *etensor.Shape { return &ly.Shp }
func (ly *Layer) NUnits() int           { return ly.Shp.Len() }

func (ly *Layer) Defaults() {
	ly.Drive.Defaults()
	ly.Spike.Defaults()
	ly.InitV = 0
}

// UpdateParams updates all params given any changes that might have been made
// to individual values
func (ly *Layer) UpdateParams() {
	ly.Drive.Update()
	ly.Spike.Update()
}

// SetShape sets the layer shape, and number of units from it
func (ly *Layer) SetShape(shape []int) {
	ly.Shp.SetShape(shape, nil, nil)
}

// Build constructs the layer state, alloc'ing the neurons according to the
// layer shape.  The delay buffer is built separately by the network, after
// all projections exist, because its size derives from the maximum delay.
func (ly *Layer) Build() error {
	nu := ly.Shp.Len()
	if nu == 0 {
		return fmt.Errorf("delaynet.Layer: %v has no units specified -- set shape", ly.Nm)
	}
	ly.Neurons = make([]Neuron, nu)
	ly.vals = make([]float32, nu)
	return nil
}

// BuildBuf constructs the delay buffer for a source layer, sized as
// 1 + the maximum delay steps over all sending projections.  That size is
// necessary and sufficient: the oldest value any synapse will ever read is
// still present when requested, and no larger buffer is needed because the
// pointer cannot wrap onto a row before its furthest reader has consumed it.
func (ly *Layer) BuildBuf() error {
	maxd := int32(0)
	for _, pj := range ly.SndPrjns {
		if pj.Off {
			continue
		}
		for si := range pj.Syns {
			d := pj.Syns[si].DSteps
			if d < 1 {
				return fmt.Errorf("delaynet.Layer: %v sending prjn %v has delay step %d < 1", ly.Nm, pj.String(), d)
			}
			if d > maxd {
				maxd = d
			}
		}
	}
	if maxd == 0 { // no sending connections -- no history needed
		ly.Buf = nil
		return nil
	}
	buf, err := NewDelayBuffer(int(1+maxd), len(ly.Neurons))
	if err != nil {
		return err
	}
	ly.Buf = buf
	return nil
}

// InitActs initializes all unit state and zeros the delay-line history,
// then records the initial V values as the step-0 row, so a delay-d read
// at step d returns v(0).  Only reads further back than the elapsed step
// count see the zero fill.
func (ly *Layer) InitActs() {
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		nrn.V = ly.InitV
		nrn.Spike = 0
		nrn.I = 0
	}
	if ly.Buf != nil {
		ly.Buf.Init()
		for ni := range ly.Neurons {
			ly.vals[ni] = ly.Neurons[ni].V
		}
		ly.Buf.Seed(ly.vals)
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Step phases

// VFmDrive computes the next V for every unit from the intrinsic drive
// (step phase 1).  It does not touch the delay buffer -- the freshly
// computed values are recorded there in the following BufWrite phase.
func (ly *Layer) VFmDrive(tm *Time) {
	if ly.Typ != Source {
		return
	}
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		nrn.Spike = 0
		nrn.V = ly.Drive.VFmV(ni, nrn.V, tm.Dt)
	}
}

// BufWrite records the just-computed V values into the delay buffer at the
// newly advanced pointer row (step phase 2).  These are the pre-reset
// values -- the threshold reset happens only after aggregation.
func (ly *Layer) BufWrite() {
	if ly.Buf == nil {
		return
	}
	for ni := range ly.Neurons {
		ly.vals[ni] = ly.Neurons[ni].V
	}
	ly.Buf.Write(ly.vals)
}

// IFmDelayed recomputes the delayed summed input I for every unit from
// scratch (step phase 3): each receiving projection resolves its delayed
// weighted sum, and the per-unit results overwrite I.  Full recomputation
// every step keeps floating-point error from accumulating across steps, and
// the fixed projection / connection order keeps summation deterministic.
func (ly *Layer) IFmDelayed() {
	if ly.Typ != Target {
		return
	}
	for ni := range ly.Neurons {
		ly.Neurons[ni].I = 0
	}
	for _, pj := range ly.RcvPrjns {
		if pj.Off {
			continue
		}
		pj.GFmBuf()
		for ni := range ly.Neurons {
			ly.Neurons[ni].I += pj.GInc[ni]
		}
	}
}

// SpikeFmV applies the threshold / reset rule (step phase 4): units whose V
// crossed threshold are flagged and reset for the next step.  Coming after
// BufWrite, the reset never affects the value already recorded this step.
func (ly *Layer) SpikeFmV() {
	if ly.Typ != Source || !ly.Spike.On {
		return
	}
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if ly.Spike.ShouldSpike(nrn.V) {
			nrn.Spike = 1
			nrn.V = ly.Spike.Reset
		}
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Unit variable access

// UnitValueTry returns value of given variable name on given unit,
// using flat unit index, or error for access errors.
func (ly *Layer) UnitValueTry(varNm string, idx int) (float32, error) {
	if idx < 0 || idx >= len(ly.Neurons) {
		return 0, fmt.Errorf("delaynet.Layer: %v unit index %d out of range 0..%d", ly.Nm, idx, len(ly.Neurons)-1)
	}
	return ly.Neurons[idx].VarByName(varNm)
}

// UnitValue returns value of given variable name on given unit,
// using flat unit index.  Returns NaN on access errors -- see UnitValueTry
// for error messages.
func (ly *Layer) UnitValue(varNm string, idx int) float32 {
	vl, err := ly.UnitValueTry(varNm, idx)
	if err != nil {
		return mat32.NaN()
	}
	return vl
}

// UnitValues fills in values of given variable name on all units,
// into given float32 slice (only resized if not big enough).
// Returns error on invalid var name.
func (ly *Layer) UnitValues(vals *[]float32, varNm string) error {
	vidx, err := NeuronVarByName(varNm)
	if err != nil {
		return err
	}
	nu := len(ly.Neurons)
	if *vals == nil || cap(*vals) < nu {
		*vals = make([]float32, nu)
	} else if len(*vals) < nu {
		*vals = (*vals)[0:nu]
	}
	for i := range ly.Neurons {
		(*vals)[i] = ly.Neurons[i].VarByIndex(vidx)
	}
	return nil
}
