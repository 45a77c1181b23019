// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package stacitem

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"github.com/varisht-tathya/stac-sentinel3/pkg/geo"
	"github.com/varisht-tathya/stac-sentinel3/pkg/geo/footprint"
	"github.com/varisht-tathya/stac-sentinel3/pkg/sen3/bands"
	"github.com/varisht-tathya/stac-sentinel3/pkg/sen3/filename"
	"github.com/varisht-tathya/stac-sentinel3/pkg/sen3/keys"
	"github.com/varisht-tathya/stac-sentinel3/pkg/sen3/manifest"
	"github.com/varisht-tathya/stac-sentinel3/pkg/sen3/profile"
	"github.com/varisht-tathya/stac-sentinel3/pkg/util/log"
	"golang.org/x/sync/errgroup"
)

const (
	// ManifestAssetKey is the key of the SAFE manifest asset.
	ManifestAssetKey = "safe-manifest"
	// Constellation is the STAC constellation of all items.
	Constellation = "Sentinel-3"

	shapeKey     = "s3:shape"
	localPathKey = "file:local_path"
)

// Input is what is known about a product before its item is built.
type Input struct {
	// Href locates the SEN3 directory. Its last element is the product name.
	Href string
	// Manifest reads the product's xfdumanifest.xml.
	Manifest manifest.Reader
	// Properties holds the item properties read from the manifest, including
	// start_datetime, end_datetime, instruments and the s3:* metadata.
	Properties map[string]interface{}
	// ManifestAsset describes the manifest file. A default is used if nil.
	ManifestAsset *Asset
	// Assets holds the data file assets keyed by manifest data object id.
	Assets map[string]*Asset
}

// Build assembles the STAC item of a product. Inputs are not modified.
func Build(ctx context.Context, in Input, reg *profile.Registry) (*Item, error) {
	if reg == nil {
		reg = profile.DefaultRegistry()
	}
	fn, err := filename.Parse(in.Href)
	if err != nil {
		return nil, err
	}
	id, err := fn.SceneID()
	if err != nil {
		return nil, err
	}
	product, err := fn.ProductName()
	if err != nil {
		return nil, err
	}
	ctx = logtags.AddTag(ctx, "item", id)

	it := &Item{
		ID:         id,
		Extensions: []string{FileExtension, SatExtension},
		Properties: make(map[string]interface{}, len(in.Properties)+4),
		Assets:     make(map[string]*Asset, len(in.Assets)+1),
	}
	withEO := fn.DataType != "WAT" && fn.DataType != "LAN"
	if withEO {
		it.Extensions = append(it.Extensions, EOExtension)
	}

	itemShape, err := buildProperties(it, fn, product, in.Properties, withEO)
	if err != nil {
		return nil, errors.Wrapf(err, "building properties of %s", id)
	}
	if err := buildAssets(it, in, itemShape); err != nil {
		return nil, errors.Wrapf(err, "building assets of %s", id)
	}

	coords, err := manifest.Footprint(in.Manifest)
	if err != nil {
		return nil, errors.Wrapf(err, "building geometry of %s", id)
	}
	opts, err := reg.Options(fn)
	if err != nil {
		return nil, err
	}
	res, err := footprint.Correct(ctx, coords, opts)
	if err != nil {
		err = errors.WithDetailf(err, "footprint: %s", geo.CoordsToWKT(coords))
		return nil, errors.Wrapf(err, "building geometry of %s", id)
	}
	it.Geometry = res.Geometry
	it.BBox = res.BBox
	it.Precision = opts.Precision
	if it.Precision == 0 {
		it.Precision = footprint.DefaultPrecision
	}
	return it, nil
}

// buildProperties fills the item properties and returns the item-level
// array shape, which belongs on the assets.
func buildProperties(
	it *Item, fn filename.FileName, product string, props map[string]interface{}, withEO bool,
) ([]int, error) {
	var itemShape []int
	for k, v := range props {
		switch {
		case k == "providers" || k == "s3:mode":
			// Providers belong to the collection; the mode is always EO.
		case k == shapeKey:
			s, err := intList(v)
			if err != nil {
				return nil, err
			}
			itemShape = s
		case strings.HasPrefix(k, "eo:") && !withEO:
			// Dropped along with the EO extension.
		case strings.HasPrefix(k, "s3:"):
			it.Properties[keys.PropertyKey(k)] = v
		default:
			it.Properties[k] = v
		}
	}

	if isInstrumentList(it.Properties["instruments"], "SYNERGY") {
		it.Properties["instruments"] = []string{"OLCI", "SLSTR"}
	}
	it.Properties["platform"] = "sentinel-" + strings.ToLower(strings.TrimPrefix(fn.Mission, "S"))
	it.Properties["constellation"] = Constellation
	it.Properties["s3:processing_timeliness"] = fn.Timeliness
	it.Properties["s3:product_name"] = product

	start, end := fn.SensingStart, fn.SensingStop
	for _, k := range []string{"start_datetime", "end_datetime"} {
		v, ok := it.Properties[k]
		if !ok {
			continue
		}
		s, t, err := normalizeTime(v)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", k)
		}
		it.Properties[k] = s
		if k == "start_datetime" {
			start = t
		} else {
			end = t
		}
	}
	if end.Before(start) {
		return nil, errors.Newf("end_datetime %s is before start_datetime %s",
			formatTime(end), formatTime(start))
	}
	it.Properties["start_datetime"] = formatTime(start)
	it.Properties["end_datetime"] = formatTime(end)
	if _, ok := it.Properties["datetime"]; !ok {
		it.Properties["datetime"] = formatTime(start.Add(end.Sub(start) / 2))
	}
	return itemShape, nil
}

func isInstrumentList(v interface{}, name string) bool {
	switch l := v.(type) {
	case []string:
		return len(l) == 1 && l[0] == name
	case []interface{}:
		return len(l) == 1 && l[0] == name
	default:
		return false
	}
}

// buildAssets copies the input assets under their STAC keys and applies the
// asset fixups.
func buildAssets(it *Item, in Input, itemShape []int) error {
	ma := in.ManifestAsset
	if ma == nil {
		ma = &Asset{
			Href:  strings.TrimRight(in.Href, "/") + "/" + manifest.FileName,
			Type:  "application/xml",
			Roles: []string{"metadata"},
		}
	}
	ma = ma.clone()
	ma.Description = "SAFE product manifest"
	it.Assets[ManifestAssetKey] = ma

	sources := map[string]string{ManifestAssetKey: "manifest"}
	for _, rawKey := range sortedKeys(in.Assets) {
		a := in.Assets[rawKey]
		if a == nil {
			return errors.Newf("asset %s is nil", rawKey)
		}
		key := keys.AssetKey(rawKey)
		if prev, ok := sources[key]; ok {
			return errors.Newf("assets %s and %s both map to key %s", prev, rawKey, key)
		}
		sources[key] = rawKey
		it.Assets[key] = a.clone()
	}

	for _, key := range sortedKeys(it.Assets) {
		a := it.Assets[key]
		delete(a.Fields, localPathKey)

		assetShape := a.Fields[shapeKey]
		if dims, err := shapeList(assetShape); err != nil || len(dims) > 0 ||
			(len(itemShape) > 0 && key != ManifestAssetKey) {
			s, err := ArrayShape(assetShape, itemShape)
			if err != nil {
				return errors.Wrapf(err, "asset %s", key)
			}
			a.Fields[shapeKey] = s
		}
		if err := bands.FixEOBands(a.Fields); err != nil {
			return errors.Wrapf(err, "asset %s", key)
		}
		if err := bands.FixAltimetryBands(a.Fields); err != nil {
			return errors.Wrapf(err, "asset %s", key)
		}
	}
	return nil
}

// clone copies the asset deeply enough that fixups do not reach the input.
func (a *Asset) clone() *Asset {
	c := *a
	c.Roles = append([]string(nil), a.Roles...)
	c.Fields = make(map[string]interface{}, len(a.Fields))
	for k, v := range a.Fields {
		c.Fields[k] = deepCopy(v)
	}
	return &c
}

func deepCopy(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, e := range x {
			m[k] = deepCopy(e)
		}
		return m
	case []interface{}:
		l := make([]interface{}, len(x))
		for i, e := range x {
			l[i] = deepCopy(e)
		}
		return l
	case []map[string]interface{}:
		l := make([]map[string]interface{}, len(x))
		for i, e := range x {
			l[i] = deepCopy(e).(map[string]interface{})
		}
		return l
	default:
		return v
	}
}

// BuildAll builds the items of many products, at most limit at a time. The
// first error cancels the remaining work and is returned. A limit below one
// means no limit.
func BuildAll(
	ctx context.Context, inputs []Input, reg *profile.Registry, limit int,
) ([]*Item, error) {
	if reg == nil {
		reg = profile.DefaultRegistry()
	}
	items := make([]*Item, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	var done atomic.Int64
	every := log.Every(10 * time.Second)
	for i := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			it, err := Build(ctx, inputs[i], reg)
			if err != nil {
				return errors.Wrapf(err, "%s", path.Base(strings.TrimRight(inputs[i].Href, "/")))
			}
			items[i] = it
			if n := done.Add(1); every.ShouldLog() {
				log.Infof(ctx, "built %d of %d items", n, len(inputs))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
