// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package geovalid

import (
	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geos"
)

// bufferQuadSegs is the number of segments per quarter circle. A zero-width
// buffer creates no arcs, so it only matters for the call signature.
const bufferQuadSegs = 8

// toGEOS converts g to a libgeos geometry through GeoJSON.
func toGEOS(g geom.T) (*geos.Geom, error) {
	b, err := geojson.Marshal(g)
	if err != nil {
		return nil, errors.Wrap(err, "encoding geometry for geos")
	}
	gg, err := geos.NewGeomFromGeoJSON(string(b))
	if err != nil {
		return nil, errors.Wrap(err, "decoding geometry in geos")
	}
	return gg, nil
}

// fromGEOS converts a polygonal libgeos geometry back to go-geom.
func fromGEOS(gg *geos.Geom) (geom.T, error) {
	var g geom.T
	if err := geojson.Unmarshal([]byte(gg.ToGeoJSON(-1)), &g); err != nil {
		return nil, errors.Wrap(err, "decoding geos geometry")
	}
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return g, nil
	default:
		return nil, errors.Newf("zero-width buffer is a %T, not a polygon", g)
	}
}

// zeroBuffer computes buffer(g, 0) with libgeos, which dissolves
// self-intersections, spikes and collapsed rings, and orients the result.
func zeroBuffer(g geom.T) (geom.T, error) {
	gg, err := toGEOS(g)
	if err != nil {
		return nil, err
	}
	buffered := gg.Buffer(0, bufferQuadSegs)
	if buffered.IsEmpty() {
		return nil, errors.New("zero-width buffer is empty")
	}
	out, err := fromGEOS(buffered)
	if err != nil {
		return nil, err
	}
	return orient(out)
}

// orient makes exterior rings counter-clockwise and interior rings clockwise,
// and rotates every ring to start at its lowest vertex.
func orient(g geom.T) (geom.T, error) {
	switch g := g.(type) {
	case *geom.Polygon:
		return geom.NewPolygon(geom.XY).SetCoords(orientRings(g.Coords()))
	case *geom.MultiPolygon:
		polys := g.Coords()
		for i, rings := range polys {
			polys[i] = orientRings(rings)
		}
		return geom.NewMultiPolygon(geom.XY).SetCoords(polys)
	default:
		return nil, errors.Newf("unsupported geometry type %T", g)
	}
}

func orientRings(rings [][]geom.Coord) [][]geom.Coord {
	out := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		open := ring[:len(ring)-1]
		if ccw := signedArea(open) > 0; ccw != (i == 0) {
			open = reversed(open)
		}
		start := 0
		for j, c := range open {
			if s := open[start]; c[0] < s[0] || (c[0] == s[0] && c[1] < s[1]) {
				start = j
			}
		}
		r := make([]geom.Coord, 0, len(ring))
		for j := range open {
			c := open[(start+j)%len(open)]
			r = append(r, geom.Coord{c[0], c[1]})
		}
		out[i] = append(r, geom.Coord{r[0][0], r[0][1]})
	}
	return out
}

// signedArea returns twice the signed area of an open ring, positive when
// counter-clockwise.
func signedArea(open []geom.Coord) float64 {
	var sum float64
	for i := range open {
		a, b := open[i], open[(i+1)%len(open)]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return sum
}

func reversed(coords []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(coords))
	for i, c := range coords {
		out[len(coords)-1-i] = c
	}
	return out
}
