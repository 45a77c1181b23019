// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package stacitem

import (
	"encoding/json"
	"math"

	"github.com/cockroachdb/errors"
)

// shapeAxes lists the named dimension pairs recognized in asset shapes, in
// order of preference.
var shapeAxes = [][2]string{
	{"latitude", "longitude"},
	{"rows", "columns"},
	{"rows", "removed_pixels"},
}

// ArrayShape returns the array shape of an asset. assetShape is the asset's
// own s3:shape, a list of single-entry objects such as
// [{"rows": 4091}, {"columns": 4865}]. When it is absent or empty, itemShape
// is returned instead.
func ArrayShape(assetShape interface{}, itemShape []int) ([]int, error) {
	dims, err := shapeList(assetShape)
	if err != nil {
		return nil, err
	}
	if len(dims) == 0 {
		if len(itemShape) == 0 {
			return nil, errors.New("neither the asset nor the item has a shape")
		}
		return append([]int(nil), itemShape...), nil
	}

	named := make(map[string]int, len(dims))
	for _, d := range dims {
		if len(d) != 1 {
			named = nil
			break
		}
		for k, v := range d {
			n, ok := toInt(v)
			if !ok {
				named = nil
				break
			}
			named[k] = n
		}
		if named == nil {
			break
		}
	}
	for _, axes := range shapeAxes {
		a, okA := named[axes[0]]
		b, okB := named[axes[1]]
		if okA && okB {
			return []int{a, b}, nil
		}
	}
	if len(dims) == 1 && len(dims[0]) == 1 {
		for _, v := range dims[0] {
			if n, ok := toInt(v); ok {
				return []int{n}, nil
			}
		}
	}
	return nil, errors.Newf("unrecognized asset shape %v", assetShape)
}

// shapeList normalizes the decoded forms of an asset shape.
func shapeList(v interface{}) ([]map[string]interface{}, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []map[string]interface{}:
		return l, nil
	case []map[string]int:
		out := make([]map[string]interface{}, len(l))
		for i, d := range l {
			out[i] = make(map[string]interface{}, len(d))
			for k, n := range d {
				out[i][k] = n
			}
		}
		return out, nil
	case []interface{}:
		out := make([]map[string]interface{}, len(l))
		for i, d := range l {
			m, ok := d.(map[string]interface{})
			if !ok {
				return nil, errors.Newf("unrecognized asset shape %v", v)
			}
			out[i] = m
		}
		return out, nil
	default:
		return nil, errors.Newf("unrecognized asset shape %v", v)
	}
}

// intList converts a decoded item shape such as [4091, 4865].
func intList(v interface{}) ([]int, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case []int:
		return l, nil
	case []interface{}:
		out := make([]int, len(l))
		for i, x := range l {
			n, ok := toInt(x)
			if !ok {
				return nil, errors.Newf("unrecognized item shape %v", v)
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, errors.Newf("unrecognized item shape %v", v)
	}
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}
