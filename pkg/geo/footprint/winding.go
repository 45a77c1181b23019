// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package footprint

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Winding is the traversal direction of a ring.
type Winding int

const (
	// Undetermined means the ring could not be classified, either because no
	// segment contributed to the signed area or because it summed to zero.
	Undetermined Winding = iota
	// Clockwise rings have their interior on the right.
	Clockwise
	// CounterClockwise rings have their interior on the left. This is the
	// orientation GeoJSON and STAC require for exterior rings.
	CounterClockwise
)

func (w Winding) String() string {
	switch w {
	case Clockwise:
		return "CW"
	case CounterClockwise:
		return "CCW"
	default:
		return "undetermined"
	}
}

// Classify determines the winding of r with the shoelace formula. Segments
// whose longitude jump exceeds maxDeltaLon are assumed to wrap around the
// antimeridian and are left out of the sum, so they cannot flip its sign.
//
// The exclusion is a heuristic: it is tuned per product through maxDeltaLon
// and is not guaranteed to be correct for every footprint.
func Classify(r Ring, maxDeltaLon float64) (Winding, error) {
	if n := r.numVertices(); n < 3 {
		return Undetermined, malformedf("cannot classify a ring with %d vertices", n)
	}
	var sum float64
	var contributing int
	r.forEachSegment(func(a, b geom.Coord) {
		dLon := b[0] - a[0]
		if math.Abs(dLon) > maxDeltaLon {
			return
		}
		contributing++
		sum += dLon * (b[1] + a[1])
	})
	switch {
	case contributing == 0 || sum == 0:
		return Undetermined, nil
	case sum < 0:
		return CounterClockwise, nil
	default:
		return Clockwise, nil
	}
}

// Normalize returns r in counter-clockwise order given its classification.
// Clockwise rings are reversed; counter-clockwise and undetermined rings are
// returned unchanged. The result never aliases r.
func Normalize(r Ring, w Winding) Ring {
	if w == Clockwise {
		return r.Reverse()
	}
	return r.Clone()
}

// NormalizeRing classifies r and normalizes it in one step.
func NormalizeRing(r Ring, maxDeltaLon float64) (Ring, Winding, error) {
	w, err := Classify(r, maxDeltaLon)
	if err != nil {
		return nil, Undetermined, err
	}
	return Normalize(r, w), w, nil
}
