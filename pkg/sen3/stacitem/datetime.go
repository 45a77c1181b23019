// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package stacitem

import (
	"time"

	"github.com/cockroachdb/errors"
)

// inputLayouts are the timestamp forms found in product metadata. Times
// without a zone are UTC.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Newf("cannot parse %q as a timestamp", s)
}

// formatTime renders t in UTC the way STAC tools do: microseconds only when
// non-zero, and a Z suffix.
func formatTime(t time.Time) string {
	t = t.UTC().Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05Z")
	}
	return t.Format("2006-01-02T15:04:05.000000Z")
}

// normalizeTime re-renders a timestamp property.
func normalizeTime(v interface{}) (string, time.Time, error) {
	switch x := v.(type) {
	case string:
		t, err := parseTime(x)
		if err != nil {
			return "", time.Time{}, err
		}
		return formatTime(t), t, nil
	case time.Time:
		return formatTime(x), x.UTC(), nil
	default:
		return "", time.Time{}, errors.Newf("unexpected %T timestamp %v", v, v)
	}
}
