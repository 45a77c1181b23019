// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package stacitem

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestItemMarshalJSON(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		b, err := json.Marshal(&Item{ID: "x"})
		require.NoError(t, err)
		require.JSONEq(t, `{
			"type": "Feature",
			"stac_version": "1.0.0",
			"stac_extensions": [],
			"id": "x",
			"geometry": null,
			"properties": {},
			"links": [],
			"assets": {}
		}`, string(b))
	})

	t.Run("multipolygon", func(t *testing.T) {
		mp := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
			{{{179.123456, 0}, {180, 0}, {180, 1}, {179.123456, 0}}},
			{{{-180, 0}, {-179.5, 0}, {-180, 1}, {-180, 0}}},
		})
		it := &Item{
			ID:         "x",
			Collection: "sentinel-3-olci-l1-efr",
			Geometry:   mp,
			BBox:       []float64{-180, 0, 180, 1},
			Links:      []Link{{Rel: "license", Href: "https://sentinel.esa.int/documents/247904/690755/Sentinel_Data_Legal_Notice"}},
			Assets: map[string]*Asset{
				"a": {Href: "a.nc", Title: "A", Fields: map[string]interface{}{"file:size": 3}},
			},
			Precision: 2,
		}
		b, err := json.Marshal(it)
		require.NoError(t, err)
		require.JSONEq(t, `{
			"type": "Feature",
			"stac_version": "1.0.0",
			"stac_extensions": [],
			"id": "x",
			"collection": "sentinel-3-olci-l1-efr",
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [
					[[[179.12, 0], [180, 0], [180, 1], [179.12, 0]]],
					[[[-180, 0], [-179.5, 0], [-180, 1], [-180, 0]]]
				]
			},
			"bbox": [-180, 0, 180, 1],
			"properties": {},
			"links": [{"rel": "license", "href": "https://sentinel.esa.int/documents/247904/690755/Sentinel_Data_Legal_Notice"}],
			"assets": {"a": {"href": "a.nc", "title": "A", "file:size": 3}}
		}`, string(b))
	})
}

func TestAssetFieldsDoNotOverrideCoreFields(t *testing.T) {
	a := &Asset{Href: "a.nc", Fields: map[string]interface{}{"href": "b.nc", "s3:shape": []int{1, 2}}}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	require.JSONEq(t, `{"href": "a.nc", "s3:shape": [1, 2]}`, string(b))
}
