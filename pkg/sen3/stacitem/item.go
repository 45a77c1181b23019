// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package stacitem

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/varisht-tathya/stac-sentinel3/pkg/geo"
)

// Version is the STAC version of the items produced.
const Version = "1.0.0"

// Extension schemas.
const (
	FileExtension = "https://stac-extensions.github.io/file/v2.1.0/schema.json"
	SatExtension  = "https://stac-extensions.github.io/sat/v1.0.0/schema.json"
	EOExtension   = "https://stac-extensions.github.io/eo/v1.1.0/schema.json"
)

// Link is a STAC link object.
type Link struct {
	Rel   string `json:"rel"`
	Href  string `json:"href"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// Asset is a STAC asset. Fields holds extension fields such as s3:shape,
// eo:bands or file:size, and is emitted alongside the core fields.
type Asset struct {
	Href        string
	Title       string
	Description string
	Type        string
	Roles       []string
	Fields      map[string]interface{}
}

// MarshalJSON implements json.Marshaler.
func (a *Asset) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(a.Fields)+5)
	for k, v := range a.Fields {
		m[k] = v
	}
	m["href"] = a.Href
	if a.Title != "" {
		m["title"] = a.Title
	}
	if a.Description != "" {
		m["description"] = a.Description
	}
	if a.Type != "" {
		m["type"] = a.Type
	}
	if len(a.Roles) > 0 {
		m["roles"] = a.Roles
	}
	return json.Marshal(m)
}

// Item is a STAC item describing one Sentinel-3 product.
type Item struct {
	ID         string
	Collection string
	Geometry   geom.T
	BBox       []float64
	Properties map[string]interface{}
	Assets     map[string]*Asset
	Links      []Link
	Extensions []string

	// Precision limits the decimals of the encoded geometry. Zero leaves
	// coordinates as they are.
	Precision int
}

type itemJSON struct {
	Type           string                 `json:"type"`
	StacVersion    string                 `json:"stac_version"`
	StacExtensions []string               `json:"stac_extensions"`
	ID             string                 `json:"id"`
	Geometry       *geojson.Geometry      `json:"geometry"`
	BBox           []float64              `json:"bbox,omitempty"`
	Properties     map[string]interface{} `json:"properties"`
	Links          []Link                 `json:"links"`
	Assets         map[string]*Asset      `json:"assets"`
	Collection     string                 `json:"collection,omitempty"`
}

// MarshalJSON encodes the item as a GeoJSON Feature.
func (it *Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		Type:           "Feature",
		StacVersion:    Version,
		StacExtensions: it.Extensions,
		ID:             it.ID,
		BBox:           it.BBox,
		Properties:     it.Properties,
		Links:          it.Links,
		Assets:         it.Assets,
		Collection:     it.Collection,
	}
	if out.StacExtensions == nil {
		out.StacExtensions = []string{}
	}
	if out.Properties == nil {
		out.Properties = map[string]interface{}{}
	}
	if out.Links == nil {
		out.Links = []Link{}
	}
	if out.Assets == nil {
		out.Assets = map[string]*Asset{}
	}
	if it.Geometry != nil {
		digits := -1
		if it.Precision > 0 {
			digits = it.Precision
		}
		g, err := geo.GeometryToGeoJSON(it.Geometry, digits, geo.GeoJSONFlagZero)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding geometry of %s", it.ID)
		}
		out.Geometry = g
	}
	return json.Marshal(out)
}
