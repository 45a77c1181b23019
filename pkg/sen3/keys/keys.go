// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package keys normalizes the asset and property keys found in Sentinel-3
// manifests into the forms used by STAC items.
package keys

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// specialAssetKeys maps keys that the generic conversion would mangle.
var specialAssetKeys = map[string]string{
	"eopmetadata": "eop-metadata",
}

// AssetKey converts a manifest data object id into a kebab-case asset key,
// e.g. Oa01_radianceData becomes oa01-radiance and tiePointGrids becomes
// tie-point-grids. Every "_Data" and then the first remaining "Data" are
// removed before conversion.
func AssetKey(key string) string {
	if k, ok := specialAssetKeys[key]; ok {
		return k
	}
	key = strings.ReplaceAll(key, "_Data", "")
	key = strings.Replace(key, "Data", "", 1)

	var b strings.Builder
	b.Grow(len(key) + 4)
	prev := utf8.RuneError
	for i, r := range key {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		if r == '_' {
			b.WriteByte('-')
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
		prev = r
	}
	return b.String()
}

// percentageSuffixes are stripped from property keys, in order, so that
// e.g. s3:salineWaterPixelsPercentage becomes s3:saline_water in line with
// eo:cloud_cover. The misspelt form occurs in real manifests.
var percentageSuffixes = []string{
	"_pixels_percentage",
	"_pixelss_percentage",
	"_percentage",
}

// PropertyKey converts a camel-case property key into snake case, dropping
// percentage suffixes. The namespace prefix is kept.
func PropertyKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 8)
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	k := b.String()
	for _, suffix := range percentageSuffixes {
		if strings.HasSuffix(k, suffix) {
			return strings.TrimSuffix(k, suffix)
		}
	}
	return k
}
