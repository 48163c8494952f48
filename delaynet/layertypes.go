// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import "github.com/goki/ki/kit"

// LayerTypes is the role of a layer in the network: source layers own the
// state variable V that is transmitted with delay; target layers own the
// delayed summed input I.
type LayerTypes int

//go:generate stringer -type=LayerTypes

var KiT_LayerTypes = kit.Enums.AddEnum(LayerTypesN, kit.NotBitFlag, nil)

func (ev LayerTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *LayerTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The layer types
const (
	// Source is a layer whose per-unit state variable V evolves by the
	// intrinsic drive, is recorded into the delay buffer every step, and is
	// subject to the threshold / reset rule.
	Source LayerTypes = iota

	// Target is a layer whose per-unit input I is the weighted sum of
	// delayed source values, fully recomputed every step.
	Target

	LayerTypesN
)
