// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fielddata

import (
	"math"
	"testing"
)

func TestConcatThenSliceRecoversInput(t *testing.T) {
	a := New([]float64{1, 2, 3, 4}, 2, 2)  // rows: {1,2}, {3,4}
	b := New([]float64{5, 6}, 2, 1)        // rows: {5}, {6}
	c := New([]float64{7, 8, 9, 10}, 2, 2) // rows: {7,8}, {9,10}

	joined, err := Concat(a, b, c)
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	if joined.NumComps != 5 || joined.NumRows != 2 {
		t.Fatalf("unexpected shape: rows=%d comps=%d", joined.NumRows, joined.NumComps)
	}

	// slice out b's column (component index 2) and compare to b
	sliced, err := joined.Slice([]int{2})
	if err != nil {
		t.Fatalf("slice: %v", err)
	}
	for i := 0; i < 2; i++ {
		if sliced.Row(i)[0] != b.Row(i)[0] {
			t.Errorf("row %d: got %v want %v", i, sliced.Row(i), b.Row(i))
		}
	}

	// slice out a's two columns (indices 0,1) and compare to a
	slicedA, err := joined.Slice([]int{0, 1})
	if err != nil {
		t.Fatalf("slice a: %v", err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if slicedA.Row(i)[j] != a.Row(i)[j] {
				t.Errorf("row %d comp %d: got %v want %v", i, j, slicedA.Row(i)[j], a.Row(i)[j])
			}
		}
	}
}

func TestJoinPreservesTotalRowCount(t *testing.T) {
	a := New([]float64{1, 2}, 2, 1)
	b := New([]float64{3, 4, 5}, 3, 1)
	joined, err := Join(a, b)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.NumRows != 5 {
		t.Fatalf("expected 5 rows, got %d", joined.NumRows)
	}
	if joined.NumComps != 1 {
		t.Fatalf("expected 1 comp, got %d", joined.NumComps)
	}
	want := []float64{1, 2, 3, 4, 5}
	for i, w := range want {
		if joined.Data[i] != w {
			t.Errorf("index %d: got %v want %v", i, joined.Data[i], w)
		}
	}
}

func TestConcatRejectsRowMismatch(t *testing.T) {
	a := New([]float64{1, 2}, 2, 1)
	b := New([]float64{1, 2, 3}, 3, 1)
	if _, err := Concat(a, b); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestJoinRejectsComponentMismatch(t *testing.T) {
	a := New([]float64{1, 2}, 2, 1)
	b := New([]float64{1, 2, 3, 4}, 2, 2)
	if _, err := Join(a, b); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestCornersOfUnitSquare(t *testing.T) {
	// a 2x2 grid of points (dims = [2,2]) laid out row-major, fastest axis first
	pts := New([]float64{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
	}, 4, 2)
	c, err := Corners(pts, []int{2, 2})
	if err != nil {
		t.Fatalf("corners: %v", err)
	}
	if c.NumRows != 4 {
		t.Fatalf("expected 4 corners, got %d", c.NumRows)
	}
	// corner 0 (no bits set) should be (0,0); corner 3 (both bits set) should be (1,1)
	if c.Row(0)[0] != 0 || c.Row(0)[1] != 0 {
		t.Errorf("corner 0: got %v", c.Row(0))
	}
	if c.Row(3)[0] != 1 || c.Row(3)[1] != 1 {
		t.Errorf("corner 3: got %v", c.Row(3))
	}
}

func TestSphericalCartesianRoundTripVectorField(t *testing.T) {
	coords := New([]float64{10.75, 59.91}, 1, 2)
	vec := New([]float64{1.0, 2.0, 0.5}, 1, 3) // east, north, up

	cart, err := SphericalToCartesianVectorField(vec, coords)
	if err != nil {
		t.Fatalf("to cartesian: %v", err)
	}
	back, err := CartesianToSphericalVectorField(cart, coords)
	if err != nil {
		t.Fatalf("to spherical: %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(back.Data[i]-vec.Data[i]) > 1e-9 {
			t.Errorf("component %d: got %v want %v", i, back.Data[i], vec.Data[i])
		}
	}
}

func TestSphericalToCartesianDefaultRadius(t *testing.T) {
	pts := New([]float64{0, 0}, 1, 2) // lon=0, lat=0 -> (1,0,0)
	out, err := SphericalToCartesian(pts)
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	if math.Abs(out.Data[0]-1) > 1e-12 || math.Abs(out.Data[1]) > 1e-12 || math.Abs(out.Data[2]) > 1e-12 {
		t.Errorf("expected (1,0,0), got %v", out.Data)
	}
}
