// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package footprint

import "github.com/cockroachdb/errors"

var (
	// ErrMalformedGeometry marks input rings that cannot be corrected: too few
	// vertices, NaN or out-of-range coordinates, or contradictory options.
	ErrMalformedGeometry = errors.New("malformed geometry")

	// ErrGeometryRepairFailure marks footprints for which no valid geometry
	// could be produced, even after the zero-width buffer fallback.
	ErrGeometryRepairFailure = errors.New("geometry repair failure")
)

func malformedf(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrMalformedGeometry)
}

func repairFailure(err error, msg string) error {
	return errors.Mark(errors.WrapWithDepth(1, err, msg), ErrGeometryRepairFailure)
}
