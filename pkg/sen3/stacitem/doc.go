// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package stacitem assembles STAC items for Sentinel-3 products from their
// name, manifest metadata and data file assets.
//
// The footprint from the manifest is corrected with pkg/geo/footprint using
// the product's profile, so that items have counter-clockwise outer rings
// split at the antimeridian. Property and asset keys are normalized with
// pkg/sen3/keys and band objects are converted to STAC units with
// pkg/sen3/bands.
package stacitem
