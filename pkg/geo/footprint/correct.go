// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package footprint

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/varisht-tathya/stac-sentinel3/pkg/geo/geovalid"
	"github.com/varisht-tathya/stac-sentinel3/pkg/util/log"
)

const (
	// DefaultMaxDeltaLon is the wraparound threshold used for most products.
	DefaultMaxDeltaLon = 120
	// DefaultPrecision is the number of decimal digits kept in output
	// coordinates.
	DefaultPrecision = 4
)

// Options configures Correct.
type Options struct {
	// MaxDeltaLon is the wraparound threshold used to classify winding: edges
	// jumping by more longitude are left out of the classification. Crossing
	// detection does not depend on it. Zero means DefaultMaxDeltaLon.
	MaxDeltaLon float64
	// ForceNorthPole and ForceSouthPole select the pole enclosed by a ring
	// that encircles one. At most one may be set.
	ForceNorthPole bool
	ForceSouthPole bool
	// Precision is the number of decimal digits to round to. Zero means
	// DefaultPrecision and a negative value disables rounding.
	Precision int
}

// DefaultOptions returns the options used for products without a dedicated
// profile.
func DefaultOptions() Options {
	return Options{MaxDeltaLon: DefaultMaxDeltaLon, Precision: DefaultPrecision}
}

func (o Options) withDefaults() Options {
	if o.MaxDeltaLon == 0 {
		o.MaxDeltaLon = DefaultMaxDeltaLon
	}
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	return o
}

// Result is a corrected footprint.
type Result struct {
	// Geometry is a *geom.Polygon or *geom.MultiPolygon with counter-clockwise
	// exterior rings and no edge crossing the antimeridian.
	Geometry geom.T
	// BBox is [minLon, minLat, maxLon, maxLat] of Geometry.
	BBox []float64
	// Winding is the classification of the input ring.
	Winding Winding
}

// Correct turns a raw footprint ring into a valid STAC geometry. The ring is
// classified and normalized to counter-clockwise order, then repaired across
// the antimeridian and rounded. The rounded geometry is validated again. A
// ring whose winding cannot be determined is logged and repaired as given.
func Correct(ctx context.Context, coords []geom.Coord, opts Options) (Result, error) {
	opts = opts.withDefaults()
	ring, err := NewRing(coords)
	if err != nil {
		return Result{}, err
	}
	ring, w, err := NormalizeRing(ring, opts.MaxDeltaLon)
	if err != nil {
		return Result{}, err
	}
	if w == Undetermined {
		log.Warningf(ctx, "could not determine winding order of footprint with %d vertices", ring.numVertices())
	}
	g, err := Repair(ring, RepairOptions{
		ForceNorthPole: opts.ForceNorthPole,
		ForceSouthPole: opts.ForceSouthPole,
	})
	if err != nil {
		return Result{}, err
	}
	if opts.Precision > 0 {
		if g, err = roundValid(g, opts.Precision); err != nil {
			return Result{}, err
		}
	}
	return Result{Geometry: g, BBox: BBox(g), Winding: w}, nil
}

// roundValid rounds g and checks that the result is still valid. Rounding can
// collapse a thin piece next to the antimeridian; such pieces are removed by a
// zero-width buffer and the buffer is rounded in turn.
func roundValid(g geom.T, precision int) (geom.T, error) {
	rounded, err := Round(g, precision)
	if err != nil {
		return nil, errors.Wrap(err, "rounding footprint")
	}
	if geovalid.Validate(rounded) == nil {
		return rounded, nil
	}
	fixed, err := geovalid.Fix(rounded)
	if err != nil {
		return nil, repairFailure(err, "rounded footprint is invalid")
	}
	if rounded, err = Round(fixed, precision); err != nil {
		return nil, errors.Wrap(err, "rounding footprint")
	}
	if err := geovalid.Validate(rounded); err != nil {
		return nil, repairFailure(err, "rounded footprint is invalid")
	}
	return rounded, nil
}
