// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package geo contains the encodings of footprint geometries. Subpackages
// implement the geometry operations:
//   - geo/footprint corrects the winding order of footprints and splits them
//     at the antimeridian.
//   - geo/geovalid validates polygons and repairs invalid ones.
package geo

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// DefaultGeoJSONDecimalDigits is the default number of digits coordinates in GeoJSON.
const DefaultGeoJSONDecimalDigits = 9

// GeoJSONFlag maps to the GeoJSONOptions for encoding geometries.
type GeoJSONFlag int

const (
	GeoJSONFlagIncludeBBox GeoJSONFlag = 1 << (iota)

	GeoJSONFlagZero = 0
)

// GeometryToGeoJSON encodes a geometry as a GeoJSON geometry object with at
// most maxDecimalDigits digits after the decimal point.
func GeometryToGeoJSON(
	t geom.T, maxDecimalDigits int, flag GeoJSONFlag,
) (*geojson.Geometry, error) {
	options := []geojson.EncodeGeometryOption{
		geojson.EncodeGeometryWithMaxDecimalDigits(maxDecimalDigits),
	}
	if flag&GeoJSONFlagIncludeBBox != 0 {
		options = append(options, geojson.EncodeGeometryWithBBox())
	}
	return geojson.Encode(t, options...)
}

// GeometryToWKT encodes a geometry as WKT.
func GeometryToWKT(t geom.T, maxDecimalDigits int) (string, error) {
	return wkt.Marshal(t, wkt.EncodeOptionWithMaxDecimalDigits(maxDecimalDigits))
}

// CoordsToWKT renders unvalidated coordinates as a WKT linestring, for error
// details. Coordinates that do not form a linestring are printed as is.
func CoordsToWKT(coords []geom.Coord) string {
	ls, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err == nil {
		if s, err := GeometryToWKT(ls, -1); err == nil {
			return s
		}
	}
	return fmt.Sprintf("%v", coords)
}
