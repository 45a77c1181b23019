// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package footprint

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
)

// Round returns a copy of g with every ordinate rounded to precision decimal
// digits. Only polygonal geometries are supported.
func Round(g geom.T, precision int) (geom.T, error) {
	scale := math.Pow10(precision)
	switch g := g.(type) {
	case *geom.Polygon:
		return geom.NewPolygon(geom.XY).SetCoords(roundRings(g.Coords(), scale))
	case *geom.MultiPolygon:
		polys := g.Coords()
		out := make([][][]geom.Coord, len(polys))
		for i, rings := range polys {
			out[i] = roundRings(rings, scale)
		}
		return geom.NewMultiPolygon(geom.XY).SetCoords(out)
	default:
		return nil, errors.AssertionFailedf("cannot round geometry of type %T", g)
	}
}

func roundRings(rings [][]geom.Coord, scale float64) [][]geom.Coord {
	out := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		out[i] = make([]geom.Coord, len(ring))
		for j, c := range ring {
			out[i][j] = geom.Coord{roundTo(c[0], scale), roundTo(c[1], scale)}
		}
	}
	return out
}

func roundTo(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}

// BBox returns [minLon, minLat, maxLon, maxLat] for g.
func BBox(g geom.T) []float64 {
	b := g.Bounds()
	return []float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)}
}
