// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// bits.go wraps the handful of bit-twiddling primitives the rest of the
// package needs. The original repo carried platform-specific popcnt/bsf
// implementations; math/bits compiles to the same hardware instructions
// on every platform Go supports, so there is no third-party alternative
// to reach for here.

package engine

import "math/bits"

func popcnt(x uint64) int {
	return bits.OnesCount64(x)
}

// logN returns the index of the lowest set bit of x. Undefined for x == 0.
func logN(x uint64) uint64 {
	return uint64(bits.TrailingZeros64(x))
}
