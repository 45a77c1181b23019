// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package geovalid checks polygonal geometries against the OGC simple
// features validity rules that GeoJSON consumers rely on, and repairs invalid
// ones with a zero-width buffer. Both are computed by libgeos.
package geovalid

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
)

// ErrInvalidGeometry is the mark carried by every validation failure.
var ErrInvalidGeometry = errors.New("invalid geometry")

func invalidf(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrInvalidGeometry)
}

// Validate returns nil if g is a valid Polygon or MultiPolygon.
//
// Rings that libgeos cannot even construct (unclosed, fewer than four points,
// non-finite coordinates) are reported without calling it. Everything else,
// including self-intersections, spikes, collapsed rings, holes outside their
// shell and overlapping parts, is decided by GEOSisValid.
func Validate(g geom.T) error {
	polys, err := polygons(g)
	if err != nil {
		return err
	}
	if len(polys) == 0 {
		return invalidf("empty multipolygon")
	}
	for i, rings := range polys {
		if err := checkStructure(rings); err != nil {
			if _, ok := g.(*geom.MultiPolygon); ok {
				return errors.Wrapf(err, "polygon %d", i)
			}
			return err
		}
	}
	gg, err := toGEOS(g)
	if err != nil {
		return err
	}
	if !gg.IsValid() {
		return invalidf("%s", gg.IsValidReason())
	}
	return nil
}

// Fix returns g unchanged if it is valid. Otherwise it returns the zero-width
// buffer of g, provided that is valid. Exterior rings of the buffer are
// counter-clockwise and interior rings clockwise; every ring starts at its
// lowest (longitude, latitude) vertex.
func Fix(g geom.T) (geom.T, error) {
	err := Validate(g)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, ErrInvalidGeometry) {
		return nil, err
	}
	buffered, bufErr := zeroBuffer(g)
	if bufErr != nil {
		return nil, errors.CombineErrors(err, bufErr)
	}
	if bufErr = Validate(buffered); bufErr != nil {
		return nil, errors.WithSecondaryError(
			errors.Wrap(bufErr, "zero-width buffer did not produce a valid geometry"), err)
	}
	return buffered, nil
}

func checkStructure(rings [][]geom.Coord) error {
	if len(rings) == 0 {
		return invalidf("polygon has no rings")
	}
	for i, ring := range rings {
		if err := checkRing(ring); err != nil {
			return errors.Wrapf(err, "ring %d", i)
		}
	}
	return nil
}

func checkRing(ring []geom.Coord) error {
	if len(ring) < 4 {
		return invalidf("ring has %d points, need at least 4", len(ring))
	}
	for _, c := range ring {
		if math.IsNaN(c[0]) || math.IsNaN(c[1]) || math.IsInf(c[0], 0) || math.IsInf(c[1], 0) {
			return invalidf("ring has a non-finite coordinate")
		}
	}
	if first, last := ring[0], ring[len(ring)-1]; first[0] != last[0] || first[1] != last[1] {
		return invalidf("ring is not closed")
	}
	return nil
}

// polygons returns the rings of every polygon in g.
func polygons(g geom.T) ([][][]geom.Coord, error) {
	switch g := g.(type) {
	case *geom.Polygon:
		return [][][]geom.Coord{g.Coords()}, nil
	case *geom.MultiPolygon:
		return g.Coords(), nil
	default:
		return nil, errors.Newf("unsupported geometry type %T", g)
	}
}
