// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package floatcmp

import (
	"math"
	"testing"

	"github.com/twpayne/go-geom"
)

func TestEqualApprox(t *testing.T) {
	testCases := []struct {
		name             string
		expected, actual interface{}
		fraction, margin float64
		want             bool
	}{
		{name: "NaNs", expected: math.NaN(), actual: math.NaN(), want: true},
		{name: "NaN and zero", expected: 0.0, actual: math.NaN(), want: false},
		{name: "infinities", expected: math.Inf(-1), actual: math.Inf(-1), want: true},
		{
			name:     "within close margin of zero",
			expected: 0.0, actual: math.Nextafter(CloseMargin, 0),
			fraction: CloseFraction, margin: CloseMargin, want: true,
		},
		{
			name:     "beyond close margin of zero",
			expected: 0.0, actual: math.Nextafter(CloseMargin, 1),
			fraction: CloseFraction, margin: CloseMargin, want: false,
		},
		{
			name:     "relative to the antimeridian",
			expected: 180.0, actual: 180 * (1 + 1e-12),
			fraction: 1e-11, want: true,
		},
		{
			name:     "latitudes at coordinate margin",
			expected: geom.Coord{-180, 12.5}, actual: geom.Coord{-180, 12.5 + CoordMargin/2},
			margin: CoordMargin, want: true,
		},
		{
			name:     "longitudes beyond coordinate margin",
			expected: geom.Coord{179.9999, 0}, actual: geom.Coord{180, 0},
			margin: CoordMargin, want: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EqualApprox(tc.expected, tc.actual, tc.fraction, tc.margin); got != tc.want {
				t.Errorf("EqualApprox(%v, %v) = %v, want %v", tc.expected, tc.actual, got, tc.want)
			}
		})
	}
}

func TestCoordsEqual(t *testing.T) {
	ring := []geom.Coord{{179, 10}, {180, 10}, {180, -10}, {179, -10}, {179, 10}}
	shifted := []geom.Coord{{179, 10 + 1e-10}, {180, 10}, {180, -10}, {179, -10}, {179, 10}}
	far := []geom.Coord{{179, 10.0001}, {180, 10}, {180, -10}, {179, -10}, {179, 10}}
	if !CoordsEqual(ring, shifted) {
		t.Errorf("expected rings within margin to be equal:\n%s", Diff(ring, shifted, 0, CoordMargin))
	}
	if CoordsEqual(ring, far) {
		t.Errorf("expected rings differing at the 4th decimal to differ")
	}
	if CoordsEqual(ring, ring[:4]) {
		t.Errorf("expected rings of different length to differ")
	}
	if Diff(ring, far, 0, CoordMargin) == "" {
		t.Errorf("expected a diff between rings differing at the 4th decimal")
	}
}
