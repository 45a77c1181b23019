// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package bands rewrites the band objects of Sentinel-3 assets into STAC
// units. Conversions go through decimal arithmetic so that e.g. 400 nm is
// exactly 0.4 µm rather than 0.39999999999999997.
package bands

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

// Field names of asset band lists.
const (
	EOBandsKey        = "eo:bands"
	SRALBandsKey      = "sral:bands"
	AltimetryBandsKey = "s3:altimetry_bands"
)

var (
	decimalCtx = apd.BaseContext.WithPrecision(34)
	thousand   = apd.New(1, 3)
	billion    = apd.New(1, 9)
)

// NanoToMicro converts nanometres to micrometres.
func NanoToMicro(v float64) (float64, error) {
	return scaleDown(v, thousand)
}

// HzToGHz converts hertz to gigahertz.
func HzToGHz(v float64) (float64, error) {
	return scaleDown(v, billion)
}

// scaleDown divides the shortest decimal representation of v by div.
func scaleDown(v float64, div *apd.Decimal) (float64, error) {
	d, _, err := apd.NewFromString(strconv.FormatFloat(v, 'g', -1, 64))
	if err != nil {
		return 0, errors.Wrapf(err, "converting %g", v)
	}
	var q apd.Decimal
	if _, err := decimalCtx.Quo(&q, d, div); err != nil {
		return 0, errors.Wrapf(err, "dividing %g by %s", v, div)
	}
	return q.Float64()
}

// FixEOBands rewrites the eo:bands of an asset, if any: center_wavelength is
// converted to micrometres and band_width is replaced by full_width_half_max
// in micrometres.
func FixEOBands(fields map[string]interface{}) error {
	list, ok := fields[EOBandsKey]
	if !ok {
		return nil
	}
	bands, err := bandList(EOBandsKey, list)
	if err != nil {
		return err
	}
	for i, band := range bands {
		if err := convert(band, "center_wavelength", "center_wavelength", NanoToMicro); err != nil {
			return errors.Wrapf(err, "%s[%d]", EOBandsKey, i)
		}
		if err := convert(band, "band_width", "full_width_half_max", NanoToMicro); err != nil {
			return errors.Wrapf(err, "%s[%d]", EOBandsKey, i)
		}
	}
	return nil
}

// FixAltimetryBands moves sral:bands to s3:altimetry_bands, naming and
// scaling the fields the way the SAR extension does: name becomes
// frequency_band, and the frequencies are given in gigahertz.
func FixAltimetryBands(fields map[string]interface{}) error {
	list, ok := fields[SRALBandsKey]
	if !ok {
		return nil
	}
	bands, err := bandList(SRALBandsKey, list)
	if err != nil {
		return err
	}
	for i, band := range bands {
		name, ok := band["name"]
		if !ok {
			return errors.Newf("%s[%d]: missing name", SRALBandsKey, i)
		}
		delete(band, "name")
		band["frequency_band"] = name
		if err := convert(band, "central_frequency", "center_frequency", HzToGHz); err != nil {
			return errors.Wrapf(err, "%s[%d]", SRALBandsKey, i)
		}
		if err := convert(band, "band_width_in_Hz", "band_width", HzToGHz); err != nil {
			return errors.Wrapf(err, "%s[%d]", SRALBandsKey, i)
		}
	}
	delete(fields, SRALBandsKey)
	fields[AltimetryBandsKey] = list
	return nil
}

// convert replaces band[from] with band[to] = fn(band[from]).
func convert(
	band map[string]interface{}, from, to string, fn func(float64) (float64, error),
) error {
	raw, ok := band[from]
	if !ok {
		return errors.Newf("missing %s", from)
	}
	v, err := toFloat(raw)
	if err != nil {
		return errors.Wrapf(err, "%s", from)
	}
	out, err := fn(v)
	if err != nil {
		return errors.Wrapf(err, "%s", from)
	}
	delete(band, from)
	band[to] = out
	return nil
}

// bandList accepts both decoded JSON arrays and typed band slices.
func bandList(key string, v interface{}) ([]map[string]interface{}, error) {
	switch l := v.(type) {
	case []map[string]interface{}:
		return l, nil
	case []interface{}:
		out := make([]map[string]interface{}, len(l))
		for i, b := range l {
			m, ok := b.(map[string]interface{})
			if !ok {
				return nil, errors.Newf("%s[%d] is a %T, not an object", key, i, b)
			}
			out[i] = m
		}
		return out, nil
	default:
		return nil, errors.Newf("%s is a %T, not a list", key, v)
	}
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, errors.Newf("unexpected %T value %v", v, v)
	}
}
