// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package delaynet

import "testing"

func TestDelayBufferReadWrite(t *testing.T) {
	db, err := NewDelayBuffer(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	// before any write, all reads return the init value
	for d := 1; d < 4; d++ {
		if v := db.Read(0, d); v != 0 {
			t.Errorf("pre-start read at delay %d: got %v, want 0", d, v)
		}
	}
	// write values 1, 2, 3, ... per step for unit 0, negated for unit 1
	for step := 1; step <= 3; step++ {
		db.Write([]float32{float32(step), -float32(step)})
	}
	// after 3 writes: delay d reads the value from d writes ago
	for d := 1; d <= 3; d++ {
		want := float32(3 - d)
		if d == 3 { // 3 steps ago is the pre-start init row
			want = 0
		}
		if v := db.Read(0, d); v != want {
			t.Errorf("unit 0 delay %d: got %v, want %v", d, v, want)
		}
		if v := db.Read(1, d); v != -want {
			t.Errorf("unit 1 delay %d: got %v, want %v", d, v, -want)
		}
	}
	if v := db.Cur(0); v != 3 {
		t.Errorf("Cur: got %v, want 3", v)
	}
}

func TestDelayBufferWrap(t *testing.T) {
	size := 5
	db, err := NewDelayBuffer(size, 1)
	if err != nil {
		t.Fatal(err)
	}
	// run many multiples of the buffer size past the largest delay:
	// modulo reuse must never corrupt lookups
	nsteps := 7 * size
	for step := 1; step <= nsteps; step++ {
		db.Write([]float32{float32(step)})
		for d := 1; d < size; d++ {
			want := float32(step - d)
			if step-d < 1 {
				want = 0
			}
			if v := db.Read(0, d); v != want {
				t.Fatalf("step %d delay %d: got %v, want %v", step, d, v, want)
			}
		}
	}
}

func TestDelayBufferSeed(t *testing.T) {
	db, err := NewDelayBuffer(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	db.Seed([]float32{2, -2})
	// the seeded row is read at delay d = step count exactly
	for step := 1; step <= 3; step++ {
		db.Write([]float32{float32(step), -float32(step)})
		if v := db.Read(0, step); v != 2 {
			t.Errorf("step %d delay %d: got %v, want seeded 2", step, step, v)
		}
		if v := db.Read(1, step); v != -2 {
			t.Errorf("step %d delay %d: got %v, want seeded -2", step, step, v)
		}
	}
	// the next write wraps onto the seeded row, after its last consumer
	db.Write([]float32{9, -9})
	if v := db.Read(0, 3); v != 1 {
		t.Errorf("after wrap, delay 3: got %v, want 1", v)
	}
}

func TestDelayBufferInit(t *testing.T) {
	db, err := NewDelayBuffer(3, 1)
	if err != nil {
		t.Fatal(err)
	}
	db.Write([]float32{42})
	db.Init()
	if v := db.Read(0, 1); v != 0 {
		t.Errorf("after Init: got %v, want 0", v)
	}
	if db.Ptr != 0 {
		t.Errorf("after Init: Ptr = %d, want 0", db.Ptr)
	}
}

func TestDelayBufferErrors(t *testing.T) {
	if _, err := NewDelayBuffer(1, 1); err == nil {
		t.Errorf("size 1 buffer should be an error")
	}
	if _, err := NewDelayBuffer(2, 0); err == nil {
		t.Errorf("0-unit buffer should be an error")
	}
}
