// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import "testing"

func TestTimeStepInc(t *testing.T) {
	tm := NewTime()
	tm.Dt = 0.1
	for i := 0; i < 10000; i++ {
		tm.StepInc()
	}
	if tm.StepCnt != 10000 {
		t.Errorf("StepCnt = %d, want 10000", tm.StepCnt)
	}
	// elapsed time is StepCnt * Dt exactly, never a running sum of Dt
	if want := float32(10000) * tm.Dt; tm.Time != want {
		t.Errorf("Time = %v, want %v", tm.Time, want)
	}
	tm.Reset()
	if tm.Time != 0 || tm.StepCnt != 0 {
		t.Errorf("after Reset: Time = %v, StepCnt = %d", tm.Time, tm.StepCnt)
	}
	if tm.Dt != 0.1 {
		t.Errorf("Reset should preserve Dt, got %v", tm.Dt)
	}
}
