// Copyright 2025 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package filename parses Sentinel-3 SAFE product names such as
//
//	S3A_OL_1_EFR____20211021T073827_20211021T074112_20211021T091357_0164_077_334_4320_LN1_O_NR_002.SEN3
//
// The naming convention is fixed-width, so fields are read by position and
// each one is validated on its own. Errors say which field is wrong.
package filename

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInvalidFileName marks every error returned by Parse.
var ErrInvalidFileName = errors.New("invalid SEN3 file name")

// ParseError describes the field of a product name that failed validation.
type ParseError struct {
	Name   string
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s in %q: %s", e.Field, e.Name, e.Reason)
}

// Extension is the directory suffix of a SAFE product.
const Extension = ".SEN3"

// Length is the length of a product name without its extension.
const Length = 94

const timeLayout = "20060102T150405"

// separators holds the offsets of the fixed '_' separators.
var separators = [...]int{3, 6, 8, 15, 31, 47, 63, 81, 85, 87, 90}

// Frame is the instance id of a product cut into frames along the orbit.
type Frame struct {
	// Duration is the sensing duration in seconds.
	Duration      int
	Cycle         int
	RelativeOrbit int
	// Along is the frame's along-track coordinate.
	Along int
}

// FileName is a parsed product name.
type FileName struct {
	// Raw is the name without directories and extension.
	Raw string

	// Mission is S3A, S3B, or S3 for products from both satellites.
	Mission    string
	DataSource string
	// ProcessingLevel is 0, 1, or 2, and -1 when the name carries none.
	ProcessingLevel int
	// DataType is the data type id without padding, e.g. EFR or LST.
	DataType     string
	SensingStart time.Time
	SensingStop  time.Time
	Created      time.Time
	// InstanceID is the instance id without padding.
	InstanceID string
	// RawInstanceID keeps the padding, which distinguishes stripes from
	// frames and tiles.
	RawInstanceID string
	// Frame is set for frame instance ids.
	Frame *Frame

	Centre     string
	Platform   string
	Timeliness string
	Collection string
}

// Parse parses a product name. The name may be a path and may carry the
// .SEN3 extension or a trailing slash.
func Parse(name string) (FileName, error) {
	base := path.Base(strings.TrimRight(strings.ReplaceAll(name, `\`, "/"), "/"))
	base = strings.TrimSuffix(base, Extension)

	p := parser{name: base}
	if len(base) < Length {
		return FileName{}, p.fail("name", "has %d characters, expected %d", len(base), Length)
	}
	if len(base) > Length {
		return FileName{}, p.fail("name", "unexpected suffix %q", base[Length:])
	}
	for _, off := range separators {
		if base[off] != '_' {
			return FileName{}, p.fail("separator", "expected '_' at offset %d, found %q", off, base[off])
		}
	}

	fn := FileName{Raw: base}
	fn.Mission = strings.TrimRight(p.field("mission", 0, 3, isUpperOrDigitOrUnderscore), "_")
	if p.err == nil && !strings.HasPrefix(fn.Mission, "S3") {
		p.setErr("mission", "%q is not a Sentinel-3 mission", fn.Mission)
	}
	fn.DataSource = p.field("data source", 4, 6, isUpper)
	fn.ProcessingLevel = p.level(7)
	fn.DataType = strings.Trim(p.field("data type", 9, 15, isUpperOrDigitOrUnderscore), "_")
	fn.SensingStart = p.timestamp("sensing start", 16)
	fn.SensingStop = p.timestamp("sensing stop", 32)
	fn.Created = p.timestamp("creation date", 48)
	fn.RawInstanceID = p.field("instance id", 64, 81, isAlnumOrUnderscore)
	fn.InstanceID = strings.Trim(fn.RawInstanceID, "_")
	fn.Centre = p.field("centre", 82, 85, isUpperOrDigitOrUnderscore)
	fn.Platform = p.field("platform", 86, 87, func(r byte) bool { return strings.IndexByte("OFDR", r) >= 0 })
	fn.Timeliness = p.field("timeliness", 88, 90, isUpper)
	fn.Collection = p.field("collection", 91, 94, isUpperOrDigitOrUnderscore)
	if p.err != nil {
		return FileName{}, p.err
	}
	if fn.DataType == "" {
		return FileName{}, p.fail("data type", "is empty")
	}
	if fn.SensingStop.Before(fn.SensingStart) {
		return FileName{}, p.fail("sensing stop", "%s is before sensing start %s",
			fn.SensingStop.Format(timeLayout), fn.SensingStart.Format(timeLayout))
	}
	fn.Frame = parseFrame(fn.RawInstanceID)
	return fn, nil
}

// MustParse is like Parse but panics on error.
func MustParse(name string) FileName {
	fn, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return fn
}

// SceneID returns the id used for the STAC item: the name without creation
// date, centre, platform, timeliness, collection, or padding.
func (fn FileName) SceneID() (string, error) {
	if fn.ProcessingLevel < 0 {
		return "", errors.Mark(
			errors.Newf("cannot create a scene id for %q without a processing level", fn.Raw),
			ErrInvalidFileName)
	}
	return fmt.Sprintf("%s_%s_%d_%s_%s_%s_%s",
		fn.Mission, fn.DataSource, fn.ProcessingLevel, fn.DataType,
		fn.SensingStart.Format(timeLayout), fn.SensingStop.Format(timeLayout),
		fn.InstanceID), nil
}

var instrumentNames = map[string]string{
	"OL": "olci",
	"SL": "slstr",
	"SR": "sral",
	"SY": "synergy",
}

// ProductName returns the short product name, e.g. olci-efr or slstr-lst.
func (fn FileName) ProductName() (string, error) {
	instrument, ok := instrumentNames[fn.DataSource]
	if !ok {
		return "", errors.Mark(
			errors.Newf("no product name for data source %q", fn.DataSource),
			ErrInvalidFileName)
	}
	return instrument + "-" + strings.ToLower(fn.DataType), nil
}

// IsStrip returns whether the product is a stripe, i.e. a whole half orbit
// rather than a frame or tile. Stripe instance ids are padded at the end.
func (fn FileName) IsStrip() bool {
	return strings.HasSuffix(fn.RawInstanceID, "_____")
}

type parser struct {
	name string
	err  error
}

func (p *parser) fail(field, format string, args ...interface{}) error {
	return errors.Mark(&ParseError{Name: p.name, Field: field, Reason: fmt.Sprintf(format, args...)},
		ErrInvalidFileName)
}

func (p *parser) setErr(field, format string, args ...interface{}) {
	if p.err == nil {
		p.err = p.fail(field, format, args...)
	}
}

func (p *parser) field(field string, start, end int, valid func(byte) bool) string {
	s := p.name[start:end]
	for i := 0; i < len(s); i++ {
		if !valid(s[i]) {
			p.setErr(field, "unexpected character %q in %q", s[i], s)
			break
		}
	}
	return s
}

func (p *parser) level(off int) int {
	switch c := p.name[off]; c {
	case '_':
		return -1
	case '0', '1', '2':
		return int(c - '0')
	default:
		p.setErr("processing level", "%q is not one of 0, 1, 2 or _", c)
		return -1
	}
}

func (p *parser) timestamp(field string, start int) time.Time {
	s := p.name[start : start+len(timeLayout)]
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		p.setErr(field, "%q is not a YYYYMMDDThhmmss timestamp", s)
	}
	return t
}

// parseFrame parses DDDD_CCC_LLL_FFFF instance ids.
func parseFrame(id string) *Frame {
	parts := strings.Split(id, "_")
	if len(parts) != 4 || len(parts[0]) != 4 || len(parts[1]) != 3 || len(parts[2]) != 3 || len(parts[3]) != 4 {
		return nil
	}
	var vals [4]int
	for i, s := range parts {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		vals[i] = v
	}
	return &Frame{Duration: vals[0], Cycle: vals[1], RelativeOrbit: vals[2], Along: vals[3]}
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isUpperOrDigitOrUnderscore(c byte) bool { return isUpper(c) || isDigit(c) || c == '_' }

func isAlnumOrUnderscore(c byte) bool {
	return isUpperOrDigitOrUnderscore(c) || (c >= 'a' && c <= 'z')
}
