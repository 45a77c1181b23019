// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package profile holds the per-product parameters of footprint correction.
// The built-in registry reproduces the behaviour expected for the
// operational Sentinel-3 products and can be overridden from YAML:
//
//	default:
//	  max_delta_lon: 120
//	products:
//	  synergy-v10:
//	    max_delta_lon: 300
//	  slstr-lst:
//	    force_pole: north
//	    strips_only: true
package profile

import (
	"bytes"
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/varisht-tathya/stac-sentinel3/pkg/geo/footprint"
	"github.com/varisht-tathya/stac-sentinel3/pkg/sen3/filename"
	"gopkg.in/yaml.v3"
)

// Pole names a pole that footprints are forced to enclose.
type Pole int

const (
	// PoleNone leaves the enclosed pole to the footprint's direction.
	PoleNone Pole = iota
	PoleNorth
	PoleSouth
)

var poleNames = [...]string{PoleNone: "none", PoleNorth: "north", PoleSouth: "south"}

func (p Pole) String() string {
	if p < 0 || int(p) >= len(poleNames) {
		return "unknown"
	}
	return poleNames[p]
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Pole) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	for i, name := range poleNames {
		if s == name {
			*p = Pole(i)
			return nil
		}
	}
	return errors.Newf("unknown pole %q, expected none, north or south", s)
}

// MarshalYAML implements yaml.Marshaler.
func (p Pole) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// Profile is the footprint correction setup of one product type.
type Profile struct {
	// MaxDeltaLon is the largest longitude step between consecutive
	// footprint vertices that is not treated as an antimeridian crossing.
	MaxDeltaLon float64 `yaml:"max_delta_lon"`
	// ForcePole forces polar footprints to enclose the given pole.
	ForcePole Pole `yaml:"force_pole"`
	// StripsOnly restricts ForcePole to stripe products.
	StripsOnly bool `yaml:"strips_only"`
	// Precision is the number of decimals kept in coordinates.
	Precision int `yaml:"precision"`
}

func (p Profile) validate() error {
	if p.MaxDeltaLon <= 0 || p.MaxDeltaLon > 360 {
		return errors.Newf("max_delta_lon must be in (0, 360], found %g", p.MaxDeltaLon)
	}
	if p.Precision < 0 {
		return errors.Newf("precision must not be negative, found %d", p.Precision)
	}
	return nil
}

// Registry maps product names such as olci-efr to their profile.
type Registry struct {
	Default  Profile
	Products map[string]Profile
}

// DefaultRegistry returns the built-in profiles. SYNERGY VGT-like products
// cover continents in a single footprint and use a wide threshold. SLSTR LST
// stripes are polar footprints whose direction is unreliable.
func DefaultRegistry() *Registry {
	return &Registry{
		Default: Profile{
			MaxDeltaLon: footprint.DefaultMaxDeltaLon,
			Precision:   footprint.DefaultPrecision,
		},
		Products: map[string]Profile{
			"synergy-v10": {MaxDeltaLon: 300, Precision: footprint.DefaultPrecision},
			"synergy-vg1": {MaxDeltaLon: 300, Precision: footprint.DefaultPrecision},
			"slstr-lst": {
				MaxDeltaLon: footprint.DefaultMaxDeltaLon,
				ForcePole:   PoleNorth,
				StripsOnly:  true,
				Precision:   footprint.DefaultPrecision,
			},
		},
	}
}

type registryFile struct {
	Default  yaml.Node            `yaml:"default"`
	Products map[string]yaml.Node `yaml:"products"`
}

// LoadRegistry layers the YAML document in data over DefaultRegistry.
// Settings of the default profile carry over to the built-in product
// profiles unless those set the field to a value of their own. A product
// entry starts from the resulting profile of the product, or from the
// default profile for new products, and overrides only the fields it sets.
// Unknown fields are rejected.
func LoadRegistry(data []byte) (*Registry, error) {
	reg := DefaultRegistry()

	var f registryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return reg, nil
		}
		return nil, errors.Wrap(err, "parsing product profiles")
	}

	base := reg.Default
	if err := decodeStrict(&f.Default, &reg.Default); err != nil {
		return nil, errors.Wrap(err, "default profile")
	}
	for name, p := range reg.Products {
		reg.Products[name] = rebase(p, base, reg.Default)
	}

	for _, name := range sortedKeys(f.Products) {
		node := f.Products[name]
		p, ok := reg.Products[name]
		if !ok {
			p = reg.Default
		}
		if err := decodeStrict(&node, &p); err != nil {
			return nil, errors.Wrapf(err, "profile %s", name)
		}
		reg.Products[name] = p
	}

	if err := reg.Default.validate(); err != nil {
		return nil, errors.Wrap(err, "default profile")
	}
	for _, name := range sortedKeys(reg.Products) {
		if err := reg.Products[name].validate(); err != nil {
			return nil, errors.Wrapf(err, "profile %s", name)
		}
	}
	return reg, nil
}

// rebase moves the fields that p shares with the old default profile to
// the new one.
func rebase(p, old, cur Profile) Profile {
	if p.MaxDeltaLon == old.MaxDeltaLon {
		p.MaxDeltaLon = cur.MaxDeltaLon
	}
	if p.ForcePole == old.ForcePole {
		p.ForcePole = cur.ForcePole
	}
	if p.StripsOnly == old.StripsOnly {
		p.StripsOnly = cur.StripsOnly
	}
	if p.Precision == old.Precision {
		p.Precision = cur.Precision
	}
	return p
}

// decodeStrict decodes node into v, rejecting unknown fields. An absent node
// leaves v unchanged.
func decodeStrict(node *yaml.Node, v *Profile) error {
	if node.Kind == 0 {
		return nil
	}
	// Node.Decode does not honour KnownFields, so re-encode the node.
	b, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the profile of a product name, or the default profile.
func (r *Registry) Lookup(product string) Profile {
	if p, ok := r.Products[product]; ok {
		return p
	}
	return r.Default
}

// Options returns the footprint correction options for a product.
func (r *Registry) Options(fn filename.FileName) (footprint.Options, error) {
	product, err := fn.ProductName()
	if err != nil {
		return footprint.Options{}, err
	}
	p := r.Lookup(product)
	opts := footprint.Options{
		MaxDeltaLon: p.MaxDeltaLon,
		Precision:   p.Precision,
	}
	if !p.StripsOnly || fn.IsStrip() {
		switch p.ForcePole {
		case PoleNorth:
			opts.ForceNorthPole = true
		case PoleSouth:
			opts.ForceSouthPole = true
		}
	}
	return opts, nil
}
