// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package footprint

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/varisht-tathya/stac-sentinel3/pkg/geo/geovalid"
)

// crossingThreshold is the longitude jump above which an edge is taken to
// wrap around the antimeridian. No edge spans more than half the globe.
const crossingThreshold = 180

// RepairOptions controls how Repair treats rings that encircle a pole.
type RepairOptions struct {
	// ForceNorthPole makes a pole-encircling ring enclose the north pole,
	// whatever its direction of travel.
	ForceNorthPole bool
	// ForceSouthPole makes a pole-encircling ring enclose the south pole.
	ForceSouthPole bool
}

// Repair returns a GeoJSON-valid geometry for r. Every edge whose longitude
// jumps by more than 180 degrees crosses the antimeridian. A ring that does not
// cross it comes back as a single counter-clockwise polygon. A ring
// that does is split along the ±180° meridian and each piece closed along it,
// producing a MultiPolygon when more than one piece results. A ring that
// crosses an odd number of times encircles a pole, and the pole cap is added
// to the piece that contains it.
//
// The result is checked for validity, and invalid geometries are fixed with a
// zero-width buffer. If that does not help either, the returned error is
// marked with ErrGeometryRepairFailure.
func Repair(r Ring, opts RepairOptions) (geom.T, error) {
	if opts.ForceNorthPole && opts.ForceSouthPole {
		return nil, malformedf("cannot force both the north and the south pole")
	}
	if err := r.check(); err != nil {
		return nil, err
	}
	if n := r.numVertices(); n < 3 {
		return nil, malformedf("cannot repair a ring with %d vertices", n)
	}
	threshold := float64(crossingThreshold)
	verts := r.vertices()

	var rings [][]geom.Coord
	switch n := countCrossings(verts, threshold); {
	case n == 0:
		ring := closeCoords(verts)
		if shoelace(ring) > 0 {
			ring = reverseCoords(ring)
		}
		rings = [][]geom.Coord{ring}

	default:
		if n%2 == 0 {
			// Orientation is only meaningful on the unwrapped ring; the raw
			// one has edges spanning the whole map.
			if shoelace(closeCoords(unwrap(verts, threshold))) > 0 {
				verts = reverseCoords(verts)
			}
		} else {
			eastward := netLongitude(verts, threshold) > 0
			if (opts.ForceNorthPole && !eastward) || (opts.ForceSouthPole && eastward) {
				verts = reverseCoords(verts)
			}
		}
		var err error
		if rings, err = stitch(split(verts, threshold)); err != nil {
			return nil, err
		}
	}

	g, err := assemble(rings)
	if err != nil {
		return nil, repairFailure(err, "assembling repaired footprint")
	}
	fixed, err := geovalid.Fix(g)
	if err != nil {
		return nil, repairFailure(err, "repaired footprint is invalid")
	}
	return fixed, nil
}

// crosses returns whether the edge a-b wraps around the antimeridian. Edges
// running along the ±180° meridian itself never do.
func crosses(a, b geom.Coord, threshold float64) bool {
	if math.Abs(b[0]-a[0]) <= threshold {
		return false
	}
	return !(onAntimeridian(a) && onAntimeridian(b))
}

func onAntimeridian(c geom.Coord) bool {
	return c[0] == 180 || c[0] == -180
}

func countCrossings(verts []geom.Coord, threshold float64) int {
	var n int
	for i := range verts {
		if crosses(verts[i], verts[(i+1)%len(verts)], threshold) {
			n++
		}
	}
	return n
}

// unwrap returns verts with longitudes shifted by multiples of 360 so that no
// edge crosses the antimeridian.
func unwrap(verts []geom.Coord, threshold float64) []geom.Coord {
	out := make([]geom.Coord, len(verts))
	out[0] = geom.Coord{verts[0][0], verts[0][1]}
	var offset float64
	for i := 1; i < len(verts); i++ {
		if crosses(verts[i-1], verts[i], threshold) {
			if verts[i][0] < verts[i-1][0] {
				offset += 360
			} else {
				offset -= 360
			}
		}
		out[i] = geom.Coord{verts[i][0] + offset, verts[i][1]}
	}
	return out
}

// netLongitude returns the total longitude travelled around the ring, taking
// the short way across the antimeridian. It is ±360 for a ring that encircles
// a pole once; positive when travelling east.
func netLongitude(verts []geom.Coord, threshold float64) float64 {
	var sum float64
	for i := range verts {
		a, b := verts[i], verts[(i+1)%len(verts)]
		d := b[0] - a[0]
		if crosses(a, b, threshold) {
			if d < 0 {
				d += 360
			} else {
				d -= 360
			}
		}
		sum += d
	}
	return sum
}

// crossingPoints returns where the edge a-b meets the antimeridian: the point
// on the side of a where the edge leaves, and the matching point on the other
// side where it comes back in. Latitude is interpolated linearly.
func crossingPoints(a, b geom.Coord) (out, in geom.Coord) {
	if a[0] > 0 {
		lat := interpolateLat(a, geom.Coord{b[0] + 360, b[1]}, 180)
		return geom.Coord{180, lat}, geom.Coord{-180, lat}
	}
	lat := interpolateLat(a, geom.Coord{b[0] - 360, b[1]}, -180)
	return geom.Coord{-180, lat}, geom.Coord{180, lat}
}

func interpolateLat(a, b geom.Coord, lon float64) float64 {
	t := (lon - a[0]) / (b[0] - a[0])
	return a[1] + t*(b[1]-a[1])
}

func appendVertex(coords []geom.Coord, c geom.Coord) []geom.Coord {
	if len(coords) > 0 && sameVertex(coords[len(coords)-1], c) {
		return coords
	}
	return append(coords, geom.Coord{c[0], c[1]})
}

// split cuts the ring at each antimeridian crossing. Every returned piece
// starts and ends on the ±180° meridian. verts must cross at least once.
func split(verts []geom.Coord, threshold float64) [][]geom.Coord {
	n := len(verts)
	first := -1
	for i := 0; i < n; i++ {
		if crosses(verts[i], verts[(i+1)%n], threshold) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil
	}
	_, in := crossingPoints(verts[first], verts[(first+1)%n])
	cur := []geom.Coord{in}
	var pieces [][]geom.Coord
	for k := 1; k <= n; k++ {
		a, b := verts[(first+k)%n], verts[(first+k+1)%n]
		cur = appendVertex(cur, a)
		if crosses(a, b, threshold) {
			out, next := crossingPoints(a, b)
			pieces = append(pieces, appendVertex(cur, out))
			cur = []geom.Coord{next}
		}
	}
	return pieces
}

// stitch joins pieces produced by split into closed rings. A piece ending on
// the +180° meridian continues northward along it to the nearest piece start;
// one ending on -180° continues southward. When no start remains in that
// direction the boundary goes round the pole and carries on from the other
// side of the map.
func stitch(pieces [][]geom.Coord) ([][]geom.Coord, error) {
	used := make([]bool, len(pieces))
	var rings [][]geom.Coord
	for i := range pieces {
		if used[i] {
			continue
		}
		used[i] = true
		ring := append([]geom.Coord(nil), pieces[i]...)
		for steps := 0; ; steps++ {
			if steps > 2*len(pieces)+2 {
				return nil, repairFailure(
					errors.AssertionFailedf("stitching did not terminate after %d steps", steps),
					"stitching antimeridian pieces",
				)
			}
			end := ring[len(ring)-1]
			j := nextPiece(pieces, used, i, end)
			switch {
			case j == i:
				ring = append(ring, geom.Coord{ring[0][0], ring[0][1]})
			case j >= 0:
				used[j] = true
				for _, c := range pieces[j] {
					ring = appendVertex(ring, c)
				}
				continue
			case end[0] == 180:
				ring = appendVertex(ring, geom.Coord{180, 90})
				ring = appendVertex(ring, geom.Coord{-180, 90})
				continue
			default:
				ring = appendVertex(ring, geom.Coord{-180, -90})
				ring = appendVertex(ring, geom.Coord{180, -90})
				continue
			}
			break
		}
		rings = append(rings, ring)
	}
	return rings, nil
}

// nextPiece returns the index of the piece whose start is reached first when
// walking along the meridian from end, or -1 if there is none. The piece the
// ring started with (self) is always a candidate, so the walk can close.
func nextPiece(pieces [][]geom.Coord, used []bool, self int, end geom.Coord) int {
	best := -1
	for j, p := range pieces {
		if used[j] && j != self {
			continue
		}
		s := p[0]
		if s[0] != end[0] {
			continue
		}
		if end[0] == 180 {
			if s[1] >= end[1] && (best < 0 || s[1] < pieces[best][0][1]) {
				best = j
			}
		} else {
			if s[1] <= end[1] && (best < 0 || s[1] > pieces[best][0][1]) {
				best = j
			}
		}
	}
	return best
}

// assemble turns closed rings into a Polygon, or a MultiPolygon when there is
// more than one.
func assemble(rings [][]geom.Coord) (geom.T, error) {
	switch len(rings) {
	case 0:
		return nil, errors.New("no rings")
	case 1:
		return geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{rings[0]})
	}
	coords := make([][][]geom.Coord, len(rings))
	for i, ring := range rings {
		coords[i] = [][]geom.Coord{ring}
	}
	return geom.NewMultiPolygon(geom.XY).SetCoords(coords)
}
