// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coord implements the coordinate-system vocabulary used by
// Geometry fields: the Generic/Named/Geodetic/Utm/Geocentric tagged
// variants, the reference-ellipsoid table, and the registry-driven
// conversion-path planner the CoordTransform filter uses (spec §4, §9).
package coord

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/errs"
)

// Generic is the trivial coordinate system: no parameters, and the
// universal conversion target (every system can be forced into Generic,
// which performs no numeric transformation).
type Generic struct{}

func (Generic) Name() string                    { return "Generic" }
func (Generic) Parameters() []string            { return nil }
func (Generic) FitsSystemName(code string) bool { return strings.EqualFold(code, "Generic") }
func (g Generic) Equal(other api.CoordinateSystem) bool {
	_, ok := other.(Generic)
	return ok
}

// Named tags coordinates with an opaque identifier string taken directly
// from a reader (e.g. a projection name the reader itself cannot
// interpret further), with no conversion semantics of its own.
type Named struct {
	Identifier string
}

func (n Named) Name() string         { return "Named" }
func (n Named) Parameters() []string { return filterEmpty(n.Identifier) }
func (n Named) FitsSystemName(code string) bool {
	return strings.EqualFold(code, n.Identifier)
}
func (n Named) Equal(other api.CoordinateSystem) bool {
	o, ok := other.(Named)
	return ok && o.Identifier == n.Identifier
}

func filterEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// Geodetic is longitude/latitude(/height) on a given reference
// ellipsoid.
type Geodetic struct {
	Ellipsoid Ellipsoid
}

func DefaultGeodetic() Geodetic { return Geodetic{Ellipsoid: Wgs84{}} }

func (g Geodetic) Name() string         { return "Geodetic" }
func (g Geodetic) Parameters() []string { return []string{g.Ellipsoid.Name()} }
func (g Geodetic) FitsSystemName(code string) bool {
	return strings.EqualFold(code, "Geodetic") || strings.EqualFold(code, g.Ellipsoid.Name())
}
func (g Geodetic) Equal(other api.CoordinateSystem) bool {
	o, ok := other.(Geodetic)
	return ok && o.Ellipsoid.Name() == g.Ellipsoid.Name()
}

// Utm is Universal Transverse Mercator, tagged with a zone number and a
// latitude-band letter (or "N"/"M" hemisphere fallback when the source
// only knows the hemisphere, not the exact band).
type Utm struct {
	ZoneNumber int
	ZoneLetter string
}

// MakeUtm parses a zone string such as "33N" or "60S" the way the
// original does: the zone number is every leading numeric rune, and the
// remainder is the letter suffix. A multi-character suffix (a bare
// hemisphere indicator rather than a real latitude band) collapses to
// "N" or "M" depending on whether it starts with "N" (spec §9 Open
// Question: keep this fallback rule as-is).
func MakeUtm(zone string) (Utm, error) {
	i := len(zone)
	for idx, r := range zone {
		if !unicode.IsDigit(r) {
			i = idx
			break
		}
	}
	if i == 0 || i == len(zone) {
		return Utm{}, errs.New(errs.DataFormatError, "coord.MakeUtm", "invalid UTM zone string %q", zone)
	}
	number, err := strconv.Atoi(zone[:i])
	if err != nil {
		return Utm{}, errs.New(errs.DataFormatError, "coord.MakeUtm", "invalid UTM zone number in %q", zone)
	}
	letter := strings.ToUpper(zone[i:])
	if len(letter) > 1 {
		if strings.HasPrefix(letter, "N") {
			letter = "N"
		} else {
			letter = "M"
		}
	}
	return Utm{ZoneNumber: number, ZoneLetter: letter}, nil
}

func (u Utm) Name() string { return "UTM" }
func (u Utm) Parameters() []string {
	return []string{strconv.Itoa(u.ZoneNumber), u.ZoneLetter}
}
func (u Utm) FitsSystemName(code string) bool {
	name, _, found := strings.Cut(code, ":")
	if !found {
		name = code
	}
	return strings.EqualFold(name, "UTM")
}
func (u Utm) Equal(other api.CoordinateSystem) bool {
	o, ok := other.(Utm)
	return ok && o.ZoneNumber == u.ZoneNumber && o.ZoneLetter == u.ZoneLetter
}

// Northern reports whether this zone lies in the northern hemisphere, by
// comparing the zone letter lexically against "N" as the original does
// (so "N".."X" count as northern, "C".."M" as southern).
func (u Utm) Northern() bool { return u.ZoneLetter >= "N" }

// Geocentric is earth-centered cartesian xyz.
type Geocentric struct{}

func (Geocentric) Name() string                    { return "Geocentric" }
func (Geocentric) Parameters() []string            { return nil }
func (Geocentric) FitsSystemName(code string) bool { return strings.EqualFold(code, "Geocentric") }
func (g Geocentric) Equal(other api.CoordinateSystem) bool {
	_, ok := other.(Geocentric)
	return ok
}

// FindSystem parses a "--in-coords"-style code of the form
// "Name[:param[:param...]]" into a concrete CoordinateSystem. An
// unrecognized system name falls back to Named, exactly matching the
// original's find_system (spec §6).
func FindSystem(code string) (api.CoordinateSystem, error) {
	parts := strings.Split(code, ":")
	name, params := parts[0], parts[1:]
	switch name {
	case "Generic":
		if len(params) != 0 {
			return nil, errs.New(errs.DataFormatError, "coord.FindSystem", "Generic takes no parameters")
		}
		return Generic{}, nil
	case "Named":
		if len(params) != 1 {
			return nil, errs.New(errs.DataFormatError, "coord.FindSystem", "Named takes exactly one parameter")
		}
		return Named{Identifier: params[0]}, nil
	case "Geodetic":
		if len(params) > 1 {
			return nil, errs.New(errs.DataFormatError, "coord.FindSystem", "Geodetic takes at most one parameter")
		}
		if len(params) == 1 {
			e, ok := FindEllipsoid(params[0])
			if !ok {
				return nil, errs.New(errs.DataFormatError, "coord.FindSystem", "unknown ellipsoid %q", params[0])
			}
			return Geodetic{Ellipsoid: e}, nil
		}
		return DefaultGeodetic(), nil
	case "UTM":
		if len(params) != 1 {
			return nil, errs.New(errs.DataFormatError, "coord.FindSystem", "UTM takes exactly one parameter")
		}
		return MakeUtm(params[0])
	case "Geocentric":
		if len(params) != 0 {
			return nil, errs.New(errs.DataFormatError, "coord.FindSystem", "Geocentric takes no parameters")
		}
		return Geocentric{}, nil
	default:
		return Named{Identifier: code}, nil
	}
}
