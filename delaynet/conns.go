// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import (
	"fmt"

	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
)

// delaynet.Conn specifies one explicit connection: source unit index,
// target unit index, weight, and delay in steps.
type Conn struct {
	Si     int     `desc:"flat index of the sending (source) unit"`
	Ri     int     `desc:"flat index of the receiving (target) unit"`
	Wt     float32 `desc:"connection weight"`
	DSteps int32   `desc:"transmission delay in steps, >= 1"`
}

// ConnsPattern is a prjn.Pattern generated from an explicit connection
// list, for callers that specify connectivity as (source, target, weight,
// delay) tuples rather than a generative pattern.
type ConnsPattern struct {
	List []Conn `desc:"the explicit connections"`
}

func (cp *ConnsPattern) Name() string {
	return "Conns"
}

func (cp *ConnsPattern) Connect(send, recv *etensor.Shape, same bool) (sendn, recvn *etensor.Int32, cons *etensor.Bits) {
	sendn, recvn, cons = prjn.NewTensors(send, recv)
	slen := send.Len()
	snv := sendn.Values
	rnv := recvn.Values
	for _, c := range cp.List {
		off := c.Ri*slen + c.Si
		if cons.Values.Index(off) { // duplicate -- rejected earlier in ConnectFromList
			continue
		}
		cons.Values.Set(off, true)
		snv[c.Si]++
		rnv[c.Ri]++
	}
	return
}

// ValidateConns checks an explicit connection list against the given layer
// sizes: indexes must be in range, delays >= 1, no duplicate (Si, Ri)
// pairs, and the list must be non-empty.
func ValidateConns(list []Conn, nsend, nrecv int) error {
	if len(list) == 0 {
		return fmt.Errorf("delaynet: explicit connection list is empty")
	}
	seen := make(map[[2]int]bool, len(list))
	for i, c := range list {
		if c.Si < 0 || c.Si >= nsend {
			return fmt.Errorf("delaynet: connection %d: source index %d out of range 0..%d", i, c.Si, nsend-1)
		}
		if c.Ri < 0 || c.Ri >= nrecv {
			return fmt.Errorf("delaynet: connection %d: target index %d out of range 0..%d", i, c.Ri, nrecv-1)
		}
		if c.DSteps < 1 {
			return fmt.Errorf("delaynet: connection %d: delay step %d < 1", i, c.DSteps)
		}
		key := [2]int{c.Si, c.Ri}
		if seen[key] {
			return fmt.Errorf("delaynet: connection %d: duplicate connection %d -> %d", i, c.Si, c.Ri)
		}
		seen[key] = true
	}
	return nil
}

// ConnectFromList establishes a projection from send to recv layer with the
// given explicit connection list, validating it against the layer sizes.
// Weights and delays come from the list instead of the random init params.
func ConnectFromList(nt *Network, send, recv *Layer, list []Conn) (*Prjn, error) {
	if err := ValidateConns(list, send.NUnits(), recv.NUnits()); err != nil {
		return nil, err
	}
	pj := nt.ConnectLayers(send, recv, &ConnsPattern{List: list})
	pj.Explicit = list
	return pj, nil
}
