// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import (
	"fmt"
	"log"

	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// delaynet.Prjn is a projection from a Source layer to a Target layer: the
// static table of connections, each carrying a weight and an integer-step
// transmission delay.  Connectivity is generated by an emergent prjn.Pattern
// and stored in the standard send / recv index structure: synapses are
// ordered by the sending unit that owns them, with receiver-side index
// arrays for the recv-major aggregation pass.
type Prjn struct {
	Off      bool         `desc:"inactivate this projection -- allows for easy experimentation"`
	Send     *Layer       `desc:"sending (source) layer for this projection"`
	Recv     *Layer       `desc:"receiving (target) layer for this projection"`
	Pat      prjn.Pattern `desc:"pattern of connectivity"`
	WtInit   WtInitParams `view:"inline" desc:"initial random weight distribution"`
	Delay    DelayParams  `view:"inline" desc:"random distribution of per-synapse delay steps"`
	Explicit []Conn       `view:"-" desc:"explicit per-connection weights and delays -- when set (via ConnectFromList), used instead of the random init params"`

	SConN     []int32   `view:"-" desc:"number of connections sent by each sending unit"`
	SConIdxSt []int32   `view:"-" desc:"starting offset into Syns for each sending unit's connections"`
	SConIdx   []int32   `view:"-" desc:"recv unit index for each synapse, in sending order"`
	RConN     []int32   `view:"-" desc:"number of connections received by each recv unit"`
	RConIdxSt []int32   `view:"-" desc:"starting offset into RConIdx for each recv unit's connections"`
	RConIdx   []int32   `view:"-" desc:"send unit index for each recv connection, in recv order"`
	RSynIdx   []int32   `view:"-" desc:"index into Syns for each recv connection, in recv order -- fixed, so summation order is deterministic across runs"`
	Syns      []Synapse `desc:"synapse state, ordered by sending unit"`

	GInc []float32 `view:"-" desc:"per-recv-unit delayed weighted sum for this projection -- overwritten, not accumulated, every step"`
}

func (pj *Prjn) String() string {
	if pj.Send == nil || pj.Recv == nil {
		return "delaynet.Prjn (unconnected)"
	}
	return pj.Send.Nm + " -> " + pj.Recv.Nm
}

func (pj *Prjn) Defaults() {
	pj.WtInit.Defaults()
	pj.Delay.Defaults()
}

// UpdateParams updates all params given any changes that might have been made
// to individual values
func (pj *Prjn) UpdateParams() {
}

// Validate returns an error if the projection is not usable
func (pj *Prjn) Validate() error {
	if pj.Pat == nil {
		return fmt.Errorf("delaynet.Prjn: %v no Pat pattern set", pj.String())
	}
	if pj.Send == nil || pj.Recv == nil {
		return fmt.Errorf("delaynet.Prjn: %v Send or Recv layer is nil", pj.String())
	}
	if pj.Send.Typ != Source {
		return fmt.Errorf("delaynet.Prjn: %v sending layer %v must be a Source layer", pj.String(), pj.Send.Nm)
	}
	if pj.Recv.Typ != Target {
		return fmt.Errorf("delaynet.Prjn: %v receiving layer %v must be a Target layer", pj.String(), pj.Recv.Nm)
	}
	return nil
}

// setNIdxSt sets the *ConN and *ConIdxSt arrays from the tensor of
// per-unit connection counts returned by the pattern, returning the total
// number of connections.
func (pj *Prjn) setNIdxSt(n *[]int32, idxst *[]int32, tn *etensor.Int32) int32 {
	ln := tn.Len()
	*n = make([]int32, ln)
	*idxst = make([]int32, ln)
	idx := int32(0)
	for i := 0; i < ln; i++ {
		nv := tn.Values[i]
		(*n)[i] = nv
		(*idxst)[i] = idx
		idx += nv
	}
	return idx
}

// Build constructs the full connectivity for this projection as specified by
// the pattern, allocates the synapses, and samples their initial weight and
// delay values.  Calls Validate and returns error if invalid.
func (pj *Prjn) Build() error {
	if pj.Off {
		return nil
	}
	if err := pj.Validate(); err != nil {
		return err
	}
	ssh := pj.Send.Shape()
	rsh := pj.Recv.Shape()
	sendn, recvn, cons := pj.Pat.Connect(ssh, rsh, false)
	slen := ssh.Len()
	rlen := rsh.Len()
	tcons := pj.setNIdxSt(&pj.SConN, &pj.SConIdxSt, sendn)
	tconr := pj.setNIdxSt(&pj.RConN, &pj.RConIdxSt, recvn)
	if tconr != tcons {
		log.Printf("%v programmer error: total recv cons %v != total send cons %v\n", pj.String(), tconr, tcons)
	}
	pj.RConIdx = make([]int32, tconr)
	pj.RSynIdx = make([]int32, tconr)
	pj.SConIdx = make([]int32, tcons)

	sconN := make([]int32, slen) // temporary mem needed to tracks cur n of sending cons

	cbits := cons.Values
	for ri := 0; ri < rlen; ri++ {
		rbi := ri * slen     // recv bit index
		rtcn := pj.RConN[ri] // number of cons
		rst := pj.RConIdxSt[ri]
		rci := int32(0)
		for si := 0; si < slen; si++ {
			if !cbits.Index(rbi + si) { // no connection
				continue
			}
			sst := pj.SConIdxSt[si]
			if rci >= rtcn {
				log.Printf("%v programmer error: recv target total con number: %v exceeded at recv idx: %v, send idx: %v\n", pj.String(), rtcn, ri, si)
				break
			}
			pj.RConIdx[rst+rci] = int32(si)

			sci := sconN[si]
			stcn := pj.SConN[si]
			if sci >= stcn {
				log.Printf("%v programmer error: send target total con number: %v exceeded at recv idx: %v, send idx: %v\n", pj.String(), stcn, ri, si)
				break
			}
			pj.SConIdx[sst+sci] = int32(ri)
			pj.RSynIdx[rst+rci] = sst + sci
			(sconN[si])++
			rci++
		}
	}
	pj.Syns = make([]Synapse, len(pj.SConIdx))
	pj.GInc = make([]float32, rlen)
	if pj.Explicit != nil {
		for _, c := range pj.Explicit {
			sy := pj.Syn(c.Si, c.Ri)
			if sy == nil { // list was validated in ConnectFromList
				return fmt.Errorf("delaynet.Prjn: %v explicit connection %d -> %d not in built pattern", pj.String(), c.Si, c.Ri)
			}
			sy.Wt = c.Wt
			sy.DSteps = c.DSteps
		}
	} else {
		pj.InitWts()
		pj.InitDelays()
	}
	return nil
}

// NCons returns the total number of synapses in this projection
func (pj *Prjn) NCons() int {
	return len(pj.Syns)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init methods

// InitWts initializes weight values according to the WtInit random params,
// or re-applies the explicit list values if this projection was built from
// one.  Weights can be re-initialized at any time without rebuilding.
func (pj *Prjn) InitWts() {
	if pj.Explicit != nil {
		for _, c := range pj.Explicit {
			if sy := pj.Syn(c.Si, c.Ri); sy != nil {
				sy.Wt = c.Wt
			}
		}
		return
	}
	for si := range pj.Syns {
		pj.Syns[si].Wt = float32(pj.WtInit.Gen(-1))
	}
}

// InitDelays samples the per-synapse delay steps from the Delay random
// params.  Delays are structural: the sending layer's buffer size derives
// from them, so after changing delays the network's BuildBufs must be
// called again (Build does this automatically).
func (pj *Prjn) InitDelays() {
	for si := range pj.Syns {
		pj.Syns[si].DSteps = pj.Delay.Gen()
	}
}

// SetWtsFunc initializes synaptic Wt values using given function
// based on sending and receiving unit indexes.
func (pj *Prjn) SetWtsFunc(wtFun func(si, ri int, send, recv *etensor.Shape) float32) {
	rsh := pj.Recv.Shape()
	rn := rsh.Len()
	ssh := pj.Send.Shape()

	for ri := 0; ri < rn; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		for ci := 0; ci < nc; ci++ {
			si := int(pj.RConIdx[st+ci])
			rsi := pj.RSynIdx[st+ci]
			pj.Syns[rsi].Wt = wtFun(si, ri, ssh, rsh)
		}
	}
}

// SetDelaysFunc initializes synaptic DSteps values using given function
// based on sending and receiving unit indexes.  The caller must rebuild the
// network buffers afterwards (Network.BuildBufs) so buffer sizes track the
// new maximum delay.
func (pj *Prjn) SetDelaysFunc(dFun func(si, ri int, send, recv *etensor.Shape) int32) {
	rsh := pj.Recv.Shape()
	rn := rsh.Len()
	ssh := pj.Send.Shape()

	for ri := 0; ri < rn; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		for ci := 0; ci < nc; ci++ {
			si := int(pj.RConIdx[st+ci])
			rsi := pj.RSynIdx[st+ci]
			pj.Syns[rsi].DSteps = dFun(si, ri, ssh, rsh)
		}
	}
}

// MaxDelay returns the maximum delay steps over all synapses, 0 if none
func (pj *Prjn) MaxDelay() int32 {
	maxd := int32(0)
	for si := range pj.Syns {
		if pj.Syns[si].DSteps > maxd {
			maxd = pj.Syns[si].DSteps
		}
	}
	return maxd
}

//////////////////////////////////////////////////////////////////////////////////////
//  Step methods

// GFmBuf resolves the delayed weighted sum for every receiving unit from
// the sending layer's delay buffer (step phase 3).  For each connection the
// read index is pointer - delay with delay >= 1, referencing the buffer
// state after this step's write, so a delay of 1 always yields "one step
// ago," never "this step."  The sum for each recv unit is recomputed in
// full, in fixed RSynIdx order.
func (pj *Prjn) GFmBuf() {
	buf := pj.Send.Buf
	if buf == nil {
		return
	}
	for ri := range pj.GInc {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		sum := float32(0)
		for ci := 0; ci < nc; ci++ {
			si := int(pj.RConIdx[st+ci])
			sy := &pj.Syns[pj.RSynIdx[st+ci]]
			sum += sy.Wt * buf.Read(si, int(sy.DSteps))
		}
		pj.GInc[ri] = sum
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Synapse access

// Syn returns the synapse between given send, recv unit indexes (1D, flat
// indexes).  Returns nil for access errors (see SynTry for errors).
func (pj *Prjn) Syn(sidx, ridx int) *Synapse {
	if ridx >= len(pj.RConN) {
		return nil
	}
	nc := int(pj.RConN[ridx])
	st := int(pj.RConIdxSt[ridx])
	for ci := 0; ci < nc; ci++ {
		si := int(pj.RConIdx[st+ci])
		if si != sidx {
			continue
		}
		return &pj.Syns[pj.RSynIdx[st+ci]]
	}
	return nil
}

// SynTry returns the synapse between given send, recv unit indexes (1D, flat
// indexes).  Returns error for access errors.
func (pj *Prjn) SynTry(sidx, ridx int) (*Synapse, error) {
	nr := len(pj.Recv.Neurons)
	ns := len(pj.Send.Neurons)
	if ridx >= nr {
		return nil, fmt.Errorf("delaynet.Prjn.SynTry: recv unit index %v is > size of recv layer: %v", ridx, nr)
	}
	if sidx >= ns {
		return nil, fmt.Errorf("delaynet.Prjn.SynTry: send unit index %v is > size of send layer: %v", sidx, ns)
	}
	sy := pj.Syn(sidx, ridx)
	if sy == nil {
		return nil, fmt.Errorf("delaynet.Prjn.SynTry: recv unit index %v does not recv from send unit index %v", ridx, sidx)
	}
	return sy, nil
}

// SynValue returns value of given variable name on the synapse between given
// send, recv unit indexes (1D, flat indexes).  Returns NaN for access errors.
func (pj *Prjn) SynValue(varNm string, sidx, ridx int) float32 {
	vidx, err := SynapseVarByName(varNm)
	if err != nil {
		return mat32.NaN()
	}
	sy := pj.Syn(sidx, ridx)
	if sy == nil {
		return mat32.NaN()
	}
	return sy.VarByIndex(vidx)
}
