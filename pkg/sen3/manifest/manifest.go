// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package manifest extracts the footprint of a Sentinel-3 product from its
// xfdumanifest.xml. XML decoding itself is left to a Reader.
package manifest

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/twpayne/go-geom"
	"github.com/varisht-tathya/stac-sentinel3/pkg/geo/footprint"
)

// FileName is the name of the manifest inside a SEN3 directory.
const FileName = "xfdumanifest.xml"

// FootprintXPath locates the footprint of the measurement frame set.
const FootprintXPath = "metadataSection/metadataObject[@ID='measurementFrameSet']" +
	"/metadataWrap/xmlData/sentinel-safe:frameSet/sentinel-safe:footPrint/gml:posList"

// ErrNotFound is returned by a Reader when an xpath has no match or no text.
var ErrNotFound = errors.New("xpath not found")

// Reader gives access to the text of manifest elements.
type Reader interface {
	// FindText returns the text of the first element matching xpath. It
	// returns an error marked with ErrNotFound if there is none.
	FindText(xpath string) (string, error)
}

// Footprint reads the footprint ring of a manifest.
func Footprint(r Reader) ([]geom.Coord, error) {
	text, err := r.FindText(FootprintXPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading footprint")
	}
	coords, err := ParsePosList(text)
	if err != nil {
		return nil, errors.Wrap(err, "reading footprint")
	}
	return coords, nil
}

// ParsePosList parses a GML posList of whitespace separated "lat lon" pairs
// into lon/lat coordinates. The ring is closed if it is not already.
// Coordinate ranges are checked by footprint.NewRing.
func ParsePosList(text string) ([]geom.Coord, error) {
	fields := strings.Fields(text)
	if len(fields)%2 != 0 {
		return nil, errors.Newf("posList has an odd number of values (%d)", len(fields))
	}
	coords := make([]geom.Coord, 0, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		lat, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "latitude of point %d", i/2)
		}
		lon, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "longitude of point %d", i/2)
		}
		coords = append(coords, geom.Coord{lon, lat})
	}
	if n := len(coords); n > 0 && (coords[0][0] != coords[n-1][0] || coords[0][1] != coords[n-1][1]) {
		coords = append(coords, geom.Coord{coords[0][0], coords[0][1]})
	}
	return coords, nil
}

// Ring reads the footprint of a manifest as a footprint ring.
func Ring(r Reader) (footprint.Ring, error) {
	coords, err := Footprint(r)
	if err != nil {
		return nil, err
	}
	return footprint.NewRing(coords)
}

// Texts is a Reader over pre-extracted element texts keyed by xpath.
type Texts map[string]string

// FindText implements Reader.
func (t Texts) FindText(xpath string) (string, error) {
	s, ok := t[xpath]
	if !ok || strings.TrimSpace(s) == "" {
		return "", errors.Mark(errors.Newf("could not find xpath %s", xpath), ErrNotFound)
	}
	return s, nil
}
