// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coord

// Ellipsoid describes a reference ellipsoid used by Geodetic coordinate
// systems and the Geodetic<->UTM/Geocentric converters.
type Ellipsoid interface {
	Name() string
	SemiMajorAxis() float64
	Flattening() float64
}

// Sphere is a spherical-earth approximation, useful for sources whose
// coordinates are not tied to a real geodetic datum.
type Sphere struct{}

func (Sphere) Name() string          { return "Sphere" }
func (Sphere) SemiMajorAxis() float64 { return 6_371_008.8 }
func (Sphere) Flattening() float64    { return 0.0 }

// Wgs84 is the WGS84 reference ellipsoid, the default for Geodetic.
type Wgs84 struct{}

func (Wgs84) Name() string          { return "WGS84" }
func (Wgs84) SemiMajorAxis() float64 { return 6_378_137.0 }
func (Wgs84) Flattening() float64    { return 1.0 / 298.257223563 }

// Grs80 is the GRS80 reference ellipsoid.
type Grs80 struct{}

func (Grs80) Name() string          { return "GRS80" }
func (Grs80) SemiMajorAxis() float64 { return 6_378_137.0 }
func (Grs80) Flattening() float64    { return 1.0 / 298.257222101 }

// Wgs72 is the WGS72 reference ellipsoid.
type Wgs72 struct{}

func (Wgs72) Name() string          { return "WGS72" }
func (Wgs72) SemiMajorAxis() float64 { return 6_378_135.0 }
func (Wgs72) Flattening() float64    { return 1.0 / 298.26 }

var ellipsoidRegistry = map[string]func() Ellipsoid{
	"Sphere": func() Ellipsoid { return Sphere{} },
	"WGS84":  func() Ellipsoid { return Wgs84{} },
	"GRS80":  func() Ellipsoid { return Grs80{} },
	"WGS72":  func() Ellipsoid { return Wgs72{} },
}

// FindEllipsoid looks up a registered ellipsoid by name.
func FindEllipsoid(name string) (Ellipsoid, bool) {
	ctor, ok := ellipsoidRegistry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}
