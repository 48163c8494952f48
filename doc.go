// Copyright (c) 2025, The Delaynet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package delaynet is the repository for the delaynet discrete-time simulation
engine, which propagates a scalar state variable from source to target
populations through weighted connections with per-connection integer-step
transmission delays.

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* delaynet: the core engine -- the circular delay-line buffer, source and
target populations, pattern-built connectivity with per-synapse weights and
delays, and the fixed-phase step engine that drives them.

* config: yaml-based declarative configuration for building and seeding
networks without writing construction code.
*/
package delaynet
