// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package footprint

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/golang/geo/s2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/varisht-tathya/stac-sentinel3/pkg/geo/geovalid"
	"github.com/varisht-tathya/stac-sentinel3/pkg/testutils/floatcmp"
)

func TestCrossingPoints(t *testing.T) {
	testCases := []struct {
		name    string
		a, b    geom.Coord
		out, in geom.Coord
	}{
		{
			name: "eastward",
			a:    geom.Coord{175, 0},
			b:    geom.Coord{-175, 10},
			out:  geom.Coord{180, 5},
			in:   geom.Coord{-180, 5},
		},
		{
			name: "westward",
			a:    geom.Coord{-179, 10},
			b:    geom.Coord{177, 14},
			out:  geom.Coord{-180, 11},
			in:   geom.Coord{180, 11},
		},
		{
			name: "starting on the antimeridian",
			a:    geom.Coord{180, 3},
			b:    geom.Coord{-170, 8},
			out:  geom.Coord{180, 3},
			in:   geom.Coord{-180, 3},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, in := crossingPoints(tc.a, tc.b)
			require.True(t, floatcmp.CoordsEqual([]geom.Coord{tc.out, tc.in}, []geom.Coord{out, in}),
				floatcmp.Diff([]geom.Coord{tc.out, tc.in}, []geom.Coord{out, in}, 0, floatcmp.CoordMargin))
		})
	}
}

func TestCrosses(t *testing.T) {
	require.True(t, crosses(geom.Coord{179, 0}, geom.Coord{-179, 0}, crossingThreshold))
	require.True(t, crosses(geom.Coord{-120, 0}, geom.Coord{120, 0}, crossingThreshold))
	require.False(t, crosses(geom.Coord{10, 0}, geom.Coord{-10, 0}, crossingThreshold))
	// Edges along the meridian itself, such as the sides of a global box.
	require.False(t, crosses(geom.Coord{180, 90}, geom.Coord{-180, 90}, crossingThreshold))
}

func TestRepairRejectsMalformedInput(t *testing.T) {
	_, err := Repair(Ring{{0, 0}, {1, 1}}, RepairOptions{})
	require.True(t, errors.Is(err, ErrMalformedGeometry))

	box := Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	_, err = Repair(box, RepairOptions{ForceNorthPole: true, ForceSouthPole: true})
	require.True(t, errors.Is(err, ErrMalformedGeometry))

	for _, r := range []Ring{
		{{0, 0}, {200, 0}, {1, 1}, {0, 0}},
		{{0, 0}, {1, 95}, {1, 1}, {0, 0}},
		{{0, 0}, {1, math.NaN()}, {1, 1}, {0, 0}},
		{{0, 0}, {1}, {1, 1}, {0, 0}},
	} {
		_, err := Repair(r, RepairOptions{})
		require.True(t, errors.Is(err, ErrMalformedGeometry), "%v: %v", r, err)
	}
}

func TestRepairSplitsWideSwaths(t *testing.T) {
	// 230 degrees of longitude one way is 130 the other way round.
	g, err := Repair(Ring{{170, 10}, {-60, 10}, {-60, -10}, {170, -10}, {170, 10}}, RepairOptions{})
	require.NoError(t, err)
	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok, "expected a multipolygon, got %T", g)
	require.Equal(t, 2, mp.NumPolygons())
	require.InDelta(t, 130*20, mp.Area(), 1e-9)
	b := mp.Bounds()
	require.Equal(t, []float64{-180, -10, 180, 10}, []float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)})
}

func TestRepairSelfIntersectingRing(t *testing.T) {
	g, err := Repair(Ring{{0, 0}, {2, 2}, {2, 0}, {0, 1}, {0, 0}}, RepairOptions{})
	require.NoError(t, err)
	require.NoError(t, geovalid.Validate(g))
	p, ok := g.(*geom.Polygon)
	require.True(t, ok, "expected a polygon, got %T", g)
	require.InDelta(t, 4.0/3, p.Area(), 1e-9)
	require.Less(t, shoelace(p.LinearRing(0).Coords()), 0.0)
}

// s2Area returns the area in steradians of the geodesic loop through coords,
// treated as counter-clockwise.
func s2Area(coords []geom.Coord) float64 {
	pts := make([]s2.Point, 0, len(coords))
	for _, c := range coords {
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(c[1], c[0]))
		if len(pts) > 0 && (pts[len(pts)-1] == p || pts[0] == p) {
			continue
		}
		pts = append(pts, p)
	}
	return s2.LoopFromPoints(pts).Area()
}

// The split halves of a footprint straddling the antimeridian cover the same
// part of the sphere as the input ring.
func TestRepairPreservesSphericalArea(t *testing.T) {
	ring, err := NewRing([]geom.Coord{{179, 10}, {-179, 10}, {-179, -10}, {179, -10}})
	require.NoError(t, err)
	g, err := Repair(ring, RepairOptions{})
	require.NoError(t, err)

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok, "expected a multipolygon, got %T", g)
	require.Equal(t, 2, mp.NumPolygons())

	var parts float64
	for i := 0; i < mp.NumPolygons(); i++ {
		parts += s2Area(mp.Polygon(i).LinearRing(0).Coords())
	}
	whole := s2Area([]geom.Coord{{179, -10}, {-179, -10}, {-179, 10}, {179, 10}})
	require.InEpsilon(t, whole, parts, 1e-3)
}

// genStraddlingBox generates boxes reaching a degrees west and b degrees east
// of the antimeridian, in either winding.
func genStraddlingBox() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(0.5, 20),
		gen.Float64Range(0.5, 20),
		gen.Float64Range(-60, 50),
		gen.Float64Range(0.5, 10),
		gen.Bool(),
	).Map(func(vals []interface{}) []float64 {
		rev := 0.0
		if vals[4].(bool) {
			rev = 1
		}
		return []float64{vals[0].(float64), vals[1].(float64), vals[2].(float64), vals[3].(float64), rev}
	})
}

func straddlingRing(v []float64) Ring {
	a, b, lat, h := v[0], v[1], v[2], v[3]
	r := Ring{{180 - a, lat}, {-180 + b, lat}, {-180 + b, lat + h}, {180 - a, lat + h}, {180 - a, lat}}
	if v[4] == 1 {
		return r.Reverse()
	}
	return r
}

func TestRepairProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("straddling boxes split into two valid counter-clockwise parts", prop.ForAll(
		func(v []float64) bool {
			g, err := Repair(straddlingRing(v), RepairOptions{})
			if err != nil {
				return false
			}
			mp, ok := g.(*geom.MultiPolygon)
			if !ok || mp.NumPolygons() != 2 || geovalid.Validate(mp) != nil {
				return false
			}
			for i := 0; i < mp.NumPolygons(); i++ {
				if mp.Polygon(i).Area() <= 0 {
					return false
				}
			}
			a, b, h := v[0], v[1], v[3]
			return math.Abs(mp.Area()-(a+b)*h) < 1e-6
		},
		genStraddlingBox(),
	))

	properties.Property("no output edge crosses the antimeridian", prop.ForAll(
		func(v []float64) bool {
			g, err := Repair(straddlingRing(v), RepairOptions{})
			if err != nil {
				return false
			}
			for _, rings := range g.(*geom.MultiPolygon).Coords() {
				for _, ring := range rings {
					for i := 0; i+1 < len(ring); i++ {
						if math.Abs(ring[i+1][0]-ring[i][0]) > 180 {
							return false
						}
					}
				}
			}
			return true
		},
		genStraddlingBox(),
	))

	properties.Property("non-crossing counter-clockwise rings round-trip", prop.ForAll(
		func(r Ring) bool {
			n := Normalize(r, CounterClockwise)
			if shoelace(n) > 0 {
				n = n.Reverse()
			}
			g, err := Repair(n, RepairOptions{})
			if err != nil {
				return false
			}
			p, ok := g.(*geom.Polygon)
			return ok && floatcmp.CoordsEqual([]geom.Coord(n), p.LinearRing(0).Coords())
		},
		genBox(),
	))

	properties.TestingRun(t)
}

func TestRepairPolarRing(t *testing.T) {
	westward := Ring{{120, 75}, {0, 78}, {-120, 75}, {120, 75}}
	eastward := westward.Reverse()

	for _, tc := range []struct {
		name  string
		ring  Ring
		opts  RepairOptions
		north bool
	}{
		{name: "eastward encloses north", ring: eastward, north: true},
		{name: "westward encloses south", ring: westward, north: false},
		{name: "forced north", ring: westward, opts: RepairOptions{ForceNorthPole: true}, north: true},
		{name: "forced south", ring: eastward, opts: RepairOptions{ForceSouthPole: true}, north: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Repair(tc.ring, tc.opts)
			require.NoError(t, err)
			p, ok := g.(*geom.Polygon)
			require.True(t, ok, "expected a polygon, got %T", g)
			require.Greater(t, p.Area(), 0.0)

			pole := -90.0
			if tc.north {
				pole = 90
			}
			b := p.Bounds()
			require.Equal(t, -180.0, b.Min(0))
			require.Equal(t, 180.0, b.Max(0))
			if tc.north {
				require.Equal(t, pole, b.Max(1))
				require.Equal(t, 75.0, b.Min(1))
			} else {
				require.Equal(t, pole, b.Min(1))
				require.Equal(t, 78.0, b.Max(1))
			}
		})
	}
}
