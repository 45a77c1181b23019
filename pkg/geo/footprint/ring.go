// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package footprint

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/twpayne/go-geom"
)

// Ring is an ordered sequence of (longitude, latitude) vertices describing one
// polygon boundary. Rings built with NewRing are closed (first == last).
type Ring []geom.Coord

// NewRing validates coords and returns a closed copy of them. Longitudes must
// be within [-180, 180] and latitudes within [-90, 90]; at least three distinct
// vertices are required.
func NewRing(coords []geom.Coord) (Ring, error) {
	r := make(Ring, 0, len(coords)+1)
	for i, c := range coords {
		if err := checkVertex(i, c); err != nil {
			return nil, err
		}
		r = append(r, geom.Coord{c[0], c[1]})
	}
	if r.numVertices() < 3 {
		return nil, malformedf("ring has %d vertices, need at least 3", r.numVertices())
	}
	if !r.Closed() {
		r = append(r, geom.Coord{r[0][0], r[0][1]})
	}
	return r, nil
}

func checkVertex(i int, c geom.Coord) error {
	if len(c) < 2 {
		return malformedf("vertex %d has %d ordinates, expected 2", i, len(c))
	}
	lon, lat := c[0], c[1]
	if math.IsNaN(lon) || math.IsNaN(lat) {
		return malformedf("vertex %d has a NaN ordinate", i)
	}
	if !s2.LatLngFromDegrees(lat, lon).IsValid() {
		return malformedf("vertex %d (%g %g) is out of range", i, lon, lat)
	}
	return nil
}

// check validates every vertex of a ring that may not come from NewRing.
func (r Ring) check() error {
	for i, c := range r {
		if err := checkVertex(i, c); err != nil {
			return err
		}
	}
	return nil
}

// Closed returns whether the last vertex repeats the first.
func (r Ring) Closed() bool {
	return len(r) > 1 && sameVertex(r[0], r[len(r)-1])
}

// Reverse returns a copy of r with the vertex order flipped.
func (r Ring) Reverse() Ring {
	out := make(Ring, len(r))
	for i, c := range r {
		out[len(r)-1-i] = geom.Coord{c[0], c[1]}
	}
	return out
}

// Clone returns a deep copy of r.
func (r Ring) Clone() Ring {
	out := make(Ring, len(r))
	for i, c := range r {
		out[i] = geom.Coord{c[0], c[1]}
	}
	return out
}

// numVertices returns the vertex count, not counting a closing duplicate.
func (r Ring) numVertices() int {
	if r.Closed() {
		return len(r) - 1
	}
	return len(r)
}

// vertices returns a copy of the distinct vertices, without the closing
// duplicate.
func (r Ring) vertices() []geom.Coord {
	n := r.numVertices()
	out := make([]geom.Coord, n)
	for i := 0; i < n; i++ {
		out[i] = geom.Coord{r[i][0], r[i][1]}
	}
	return out
}

// forEachSegment calls fn for every edge of the ring, including the closing
// edge of an unclosed ring.
func (r Ring) forEachSegment(fn func(a, b geom.Coord)) {
	for i := 0; i+1 < len(r); i++ {
		fn(r[i], r[i+1])
	}
	if len(r) > 1 && !r.Closed() {
		fn(r[len(r)-1], r[0])
	}
}

func sameVertex(a, b geom.Coord) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// closeCoords returns verts followed by a copy of its first vertex.
func closeCoords(verts []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, 0, len(verts)+1)
	out = append(out, verts...)
	if len(verts) > 0 && !sameVertex(verts[0], verts[len(verts)-1]) {
		out = append(out, geom.Coord{verts[0][0], verts[0][1]})
	}
	return out
}

func reverseCoords(verts []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(verts))
	for i, c := range verts {
		out[len(verts)-1-i] = c
	}
	return out
}

// shoelace returns the sum of (x2-x1)*(y2+y1) over the edges of the closed
// ring. Positive sums are clockwise, negative sums counter-clockwise.
func shoelace(ring []geom.Coord) float64 {
	var sum float64
	for i := 0; i+1 < len(ring); i++ {
		sum += (ring[i+1][0] - ring[i][0]) * (ring[i+1][1] + ring[i][1])
	}
	return sum
}
