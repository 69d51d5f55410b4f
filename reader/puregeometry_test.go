// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reader

import "testing"

func unitSquareBlob() string {
	return "# BSPLINE degree=1,1\n" +
		"0 0 1 1\n" +
		"0 0 1 1\n" +
		"controlpoints rows=4 cols=2\n" +
		"0 0\n1 0\n0 1\n1 1\n"
}

func TestNewPureGeometrySingleZone(t *testing.T) {
	g, err := NewPureGeometry([]byte(unitSquareBlob()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.Properties().Instantaneous || !g.Properties().GloballyKeyed || !g.Properties().SingleBasis {
		t.Errorf("expected Instantaneous, GloballyKeyed, and SingleBasis to all be set")
	}
	if len(g.Zones()) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(g.Zones()))
	}
	geoms := g.Geometries(g.Bases()[0])
	if len(geoms) != 1 || geoms[0].Name != "Geometry" {
		t.Fatalf("expected a single Geometry field, got %v", geoms)
	}
	if len(g.Fields(g.Bases()[0])) != 0 {
		t.Errorf("expected no time-varying fields")
	}
}

func TestNewPureGeometryMultiZone(t *testing.T) {
	blob := unitSquareBlob() + "\n---\n" + unitSquareBlob()
	g, err := NewPureGeometry([]byte(blob))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	zones := g.Zones()
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
	if zones[0].LocalKey == zones[1].LocalKey {
		t.Errorf("expected distinct local keys, got %q twice", zones[0].LocalKey)
	}

	step := g.Steps()[0]
	field := g.Geometries(g.Bases()[0])[0]
	data, err := g.FieldData(step, field, zones[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.NumRows != 4 || data.NumComps != 2 {
		t.Errorf("unexpected field data shape %dx%d", data.NumRows, data.NumComps)
	}
}

func TestNewPureGeometryRejectsEmptyBlob(t *testing.T) {
	if _, err := NewPureGeometry([]byte("   \n\n")); err == nil {
		t.Fatalf("expected an error for an empty blob")
	}
}

func TestPureGeometryReaderApplicable(t *testing.T) {
	r := PureGeometryReader{}
	if !r.Applicable("mesh.puregeom") {
		t.Errorf("expected .puregeom to be applicable")
	}
	if r.Applicable("mesh.vtu") {
		t.Errorf("expected .vtu to not be applicable")
	}
}
