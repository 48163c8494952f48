// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import "fmt"

// delaynet.Synapse holds state for one connection between a source and a
// target unit: the connection weight and the transmission delay in steps.
// Both are constant for the duration of a run once the network is built.
type Synapse struct {
	Wt     float32 `desc:"connection weight -- multiplies the delayed source value in the target sum"`
	DSteps int32   `desc:"transmission delay in steps -- the target reads the source V from this many steps ago; always >= 1"`
}

var SynapseVars = []string{"Wt", "DSteps"}

var SynapseVarsMap map[string]int

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// SynapseVarByName returns the index of the variable in the Synapse, or error
func SynapseVarByName(varNm string) (int, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	switch idx {
	case 0:
		return sy.Wt
	case 1:
		return float32(sy.DSteps)
	}
	return 0
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return sy.VarByIndex(i), nil
}
