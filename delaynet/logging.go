// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import (
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// delaynet.Trace is an opt-in per-step recorder of network state into an
// etable.Table: one row per recorded step, with scalar Step / Time columns
// and one tensor column per layer variable (V and Spike for source layers,
// I for target layers).  The engine never retains or writes the table on
// its own -- the caller owns it, calls Record when it wants a row, and can
// use the standard etable CSV / tensor tooling on the result.
type Trace struct {
	Table *etable.Table `desc:"the recorded rows -- owned by the caller"`

	vals []float32 // scratch for per-layer unit values
}

// LayerTraceVars returns the variables recorded for a layer of given type
func LayerTraceVars(typ LayerTypes) []string {
	if typ == Source {
		return []string{"V", "Spike"}
	}
	return []string{"I"}
}

// TraceColName returns the trace column name for given layer and variable
func TraceColName(lnm, vnm string) string {
	return lnm + "_" + vnm
}

// NewTrace returns a new trace configured for the given built network,
// with an empty table ready for Record calls.
func NewTrace(nt *Network) *Trace {
	tr := &Trace{}
	sch := etable.Schema{
		{Name: "Step", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Time", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		for _, vnm := range LayerTraceVars(ly.Typ) {
			sch = append(sch, etable.Column{Name: TraceColName(ly.Nm, vnm), Type: etensor.FLOAT32, CellShape: []int{ly.NUnits()}, DimNames: nil})
		}
	}
	tr.Table = &etable.Table{}
	tr.Table.SetFromSchema(sch, 0)
	return tr
}

// Record appends one row with the network's current post-step state.
// Called after Network.Step, so row t holds v(t), Spike(t), I(t)
// (V is the post-reset value -- the pre-reset history lives in the buffer).
func (tr *Trace) Record(nt *Network) {
	row := tr.Table.Rows
	tr.Table.AddRows(1)
	tr.Table.SetCellFloat("Step", row, float64(nt.Time.StepCnt))
	tr.Table.SetCellFloat("Time", row, float64(nt.Time.Time))
	for _, ly := range nt.Layers {
		if ly.Off {
			continue
		}
		for _, vnm := range LayerTraceVars(ly.Typ) {
			if err := ly.UnitValues(&tr.vals, vnm); err != nil {
				continue
			}
			tsr := etensor.NewFloat32([]int{ly.NUnits()}, nil, nil)
			copy(tsr.Values, tr.vals)
			tr.Table.SetCellTensor(TraceColName(ly.Nm, vnm), row, tsr)
		}
	}
}
