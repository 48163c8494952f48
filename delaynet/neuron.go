// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import (
	"fmt"
	"reflect"
)

// delaynet.Neuron holds the state variables for one unit.  All state is
// flat float32 fields so the generic VarByIndex / VarByName accessors work
// for snapshots and trace recording.  Source layers use V and Spike; target
// layers use I.
type Neuron struct {
	V     float32 `desc:"scalar state variable for source units, updated every step by the layer's intrinsic drive and recorded into the delay buffer before any threshold reset"`
	Spike float32 `desc:"1 if the unit crossed threshold this step (and V was reset for the next step), else 0"`
	I     float32 `desc:"delayed summed input for target units -- the weighted sum of delayed source V values, fully recomputed every step"`
}

// NeuronVars are the names of the neuron variables, in field order
var NeuronVars = []string{"V", "Spike", "I"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarByName returns the index of the variable in the Neuron, or error
func NeuronVarByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	v := reflect.ValueOf(*nrn)
	return v.Field(idx).Interface().(float32)
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return nrn.VarByIndex(i), nil
}
