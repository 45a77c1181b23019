// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package floatcmp provides functions for determining float values to be equal
// if they are within a tolerance. It is designed to be used in tests.
package floatcmp

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const (
	// CloseFraction can be used to set a "close" tolerance for the fraction
	// argument of functions in this package. It should typically be used with
	// the CloseMargin constant for the margin argument. Its value is taken from
	// the close tolerances in go's math package.
	CloseFraction float64 = 4e-16

	// CloseMargin can be used to set a "close" tolerance for the margin
	// argument of functions in this package. It should typically be used with
	// the CloseFraction constant for the fraction argument.
	CloseMargin float64 = CloseFraction * CloseFraction

	// CoordMargin is the absolute tolerance used when comparing interpolated
	// longitude/latitude values, far below the 4-decimal output precision.
	CoordMargin float64 = 1e-9
)

// EqualApprox reports whether expected and actual are deeply equal with the
// following modifications for float64 and float32 types:
//
// • If both expected and actual are not NaN or infinate, they are equal within
// the larger of the relative fraction or absolute margin calculated as:
//
//	|expected-actual| <= max(fraction*min(|expected|, |actual|), margin)
//
// • If both expected and actual are NaN, they are equal.
//
// Both fraction and margin must be non-negative.
//
// fraction is used to calculate the tolerance as a relative fraction of the
// smaller magnitude of expected and actual.
//
// margin specifies the tolerance as an absolute value.
func EqualApprox(expected interface{}, actual interface{}, fraction float64, margin float64) bool {
	return cmp.Equal(expected, actual, cmpopts.EquateApprox(fraction, margin), cmpopts.EquateNaNs())
}

// CoordsEqual reports whether two (possibly nested) coordinate slices match
// within CoordMargin.
func CoordsEqual(expected interface{}, actual interface{}) bool {
	return EqualApprox(expected, actual, 0, CoordMargin)
}

// Diff returns a human readable report of the differences between expected and
// actual under the same approximate comparison as EqualApprox.
func Diff(expected interface{}, actual interface{}, fraction float64, margin float64) string {
	return cmp.Diff(expected, actual, cmpopts.EquateApprox(fraction, margin), cmpopts.EquateNaNs())
}
