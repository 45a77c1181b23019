// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package footprint

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/varisht-tathya/stac-sentinel3/pkg/geo/geovalid"
	"github.com/varisht-tathya/stac-sentinel3/pkg/util/log"
)

func TestCorrectErrors(t *testing.T) {
	ctx := context.Background()
	for _, coords := range [][]geom.Coord{
		nil,
		{{0, 0}, {1, 1}},
		{{0, 0}, {1, math.NaN()}, {2, 2}},
		{{0, 0}, {-180.5, 0}, {2, 2}},
	} {
		_, err := Correct(ctx, coords, DefaultOptions())
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrMalformedGeometry), "%v", err)
		require.False(t, errors.Is(err, ErrGeometryRepairFailure))
	}
}

func TestCorrectUndeterminedWindingIsLogged(t *testing.T) {
	defer log.SetOutput(io.Discard)()
	var entries []log.Entry
	defer log.Intercept(func(e log.Entry) { entries = append(entries, e) })()

	ctx := logtags.AddTag(context.Background(), "item", "S3A_SL_2_LST")
	res, err := Correct(ctx, []geom.Coord{{179, 10}, {-179, 10}, {-179, -10}, {179, -10}}, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, Undetermined, res.Winding)
	require.Equal(t, []float64{-180, -10, 180, 10}, res.BBox)

	require.Len(t, entries, 1)
	require.Equal(t, log.WarningLog, entries[0].Severity)
	require.Equal(t, "item=S3A_SL_2_LST", entries[0].Tags)
	require.Contains(t, entries[0].Message, "could not determine winding order")
}

func TestCorrectRounding(t *testing.T) {
	coords := []geom.Coord{
		{-179.123456789, 12.987654321},
		{178.55555555, 12.111111111},
		{178.44444444, 14.999999999},
		{-179.000049999, 15.00005},
	}
	for _, tc := range []struct {
		precision int
		maxDigits int
	}{
		{precision: 0, maxDigits: DefaultPrecision},
		{precision: 2, maxDigits: 2},
		{precision: 6, maxDigits: 6},
	} {
		opts := DefaultOptions()
		opts.Precision = tc.precision
		res, err := Correct(context.Background(), coords, opts)
		require.NoError(t, err)

		mp, ok := res.Geometry.(*geom.MultiPolygon)
		require.True(t, ok, "expected a multipolygon, got %T", res.Geometry)
		for _, rings := range mp.Coords() {
			for _, ring := range rings {
				for _, c := range ring {
					for _, v := range c {
						s := strconv.FormatFloat(v, 'f', -1, 64)
						if i := strings.IndexByte(s, '.'); i >= 0 {
							require.LessOrEqual(t, len(s)-i-1, tc.maxDigits, "%s has too many digits", s)
						}
					}
				}
			}
		}
	}
}

func TestCorrectDropsPartsCollapsedByRounding(t *testing.T) {
	defer log.SetOutput(io.Discard)()
	coords := []geom.Coord{{179.99999, 10}, {-170, 10}, {-170, -10}, {179.99999, -10}}

	opts := DefaultOptions()
	opts.Precision = -1
	res, err := Correct(context.Background(), coords, opts)
	require.NoError(t, err)
	require.Equal(t, 2, res.Geometry.(*geom.MultiPolygon).NumPolygons())

	res, err = Correct(context.Background(), coords, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, geovalid.Validate(res.Geometry))
	p, ok := res.Geometry.(*geom.Polygon)
	require.True(t, ok, "expected a polygon, got %T", res.Geometry)
	require.Equal(t, [][]geom.Coord{{{-180, -10}, {-170, -10}, {-170, 10}, {-180, 10}, {-180, -10}}}, p.Coords())
	require.Equal(t, []float64{-180, -10, -170, 10}, res.BBox)
}

func TestCorrectWideSwathWithLargeThreshold(t *testing.T) {
	coords := []geom.Coord{{170, 10}, {-60, 10}, {-60, -10}, {170, -10}}
	res, err := Correct(context.Background(), coords, Options{MaxDeltaLon: 300})
	require.NoError(t, err)
	mp, ok := res.Geometry.(*geom.MultiPolygon)
	require.True(t, ok, "expected a multipolygon, got %T", res.Geometry)
	require.InDelta(t, 130*20, mp.Area(), 1e-9)
	require.NoError(t, geovalid.Validate(mp))
}

func TestCorrectSelfIntersectingFootprint(t *testing.T) {
	res, err := Correct(context.Background(), []geom.Coord{{0, 0}, {2, 2}, {2, 0}, {0, 1}, {0, 0}}, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, geovalid.Validate(res.Geometry))
	require.Equal(t, [][]geom.Coord{{{0.6667, 0.6667}, {2, 0}, {2, 2}, {0.6667, 0.6667}}},
		res.Geometry.(*geom.Polygon).Coords())
}

func TestCorrectWithoutRounding(t *testing.T) {
	coords := []geom.Coord{{0.123456789, 0}, {1, 0}, {1, 1}, {0, 1}}
	opts := DefaultOptions()
	opts.Precision = -1
	res, err := Correct(context.Background(), coords, opts)
	require.NoError(t, err)
	require.Equal(t, 0.123456789, res.Geometry.(*geom.Polygon).LinearRing(0).Coord(0)[0])
}
