// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import (
	"math/rand"
	"testing"

	"github.com/emer/emergent/erand"
)

func TestDelayGen(t *testing.T) {
	rand.Seed(3)
	dp := DelayParams{}
	dp.Defaults() // uniform integers 1..10
	n := 5000
	counts := make(map[int32]int)
	for i := 0; i < n; i++ {
		d := dp.Gen()
		if d < 1 || d > 10 {
			t.Fatalf("delay %d outside 1..10", d)
		}
		counts[d]++
	}
	// every value including the endpoints carries full mass -- rounding a
	// continuous draw would leave 1 and 10 at half the interior counts
	for d := int32(1); d <= 10; d++ {
		c := counts[d]
		if c == 0 {
			t.Fatalf("delay %d never sampled", d)
		}
		if c < n/20 { // expected n/10
			t.Errorf("delay %d sampled %d of %d -- mass too low", d, c, n)
		}
	}
}

func TestDelayGenFixed(t *testing.T) {
	dp := DelayParams{}
	dp.Defaults()
	dp.Dist = erand.Mean
	dp.Mean = 4
	dp.Var = 0
	for i := 0; i < 10; i++ {
		if d := dp.Gen(); d != 4 {
			t.Errorf("fixed delay = %d, want 4", d)
		}
	}
	dp.Mean = 0 // below Min -- clamped
	if d := dp.Gen(); d != 1 {
		t.Errorf("clamped delay = %d, want 1", d)
	}
}
