// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"testing"

	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/fielddata"
)

func TestDecomposeEmitsComponentFieldsMatchingSlices(t *testing.T) {
	inner := newFakeSource()
	basis := api.Basis{Name: "b"}
	z := oneZone()
	inner.basisList = []api.Basis{basis}
	inner.zoneList = []api.Zone{z}
	inner.fieldsOf[basis.Name] = []api.Field{
		{Name: "velocity", Type: api.Vector{Ncomps_: 3}, Splittable: true},
	}
	step := api.Step{Index: 0}
	velocity := fielddata.New[float64]([]float64{1, 2, 3}, 1, 3)
	inner.setData(step, inner.fieldsOf[basis.Name][0], z, velocity)

	f := NewDecompose(inner)
	out := f.Fields(basis)
	if len(out) != 4 {
		t.Fatalf("expected 4 fields (velocity, _x, _y, _z), got %d: %v", len(out), out)
	}
	names := []string{"velocity", "velocity_x", "velocity_y", "velocity_z"}
	for i, n := range names {
		if out[i].Name != n {
			t.Errorf("field %d: expected name %q, got %q", i, n, out[i].Name)
		}
	}

	for i, comp := range []float64{1, 2, 3} {
		field := out[i+1]
		if field.Ncomps() != 1 {
			t.Errorf("%s: expected ncomps=1, got %d", field.Name, field.Ncomps())
		}
		data, err := f.FieldData(step, field, z)
		if err != nil {
			t.Fatalf("%s: FieldData: %v", field.Name, err)
		}
		if data.NumComps != 1 || data.Data[0] != comp {
			t.Errorf("%s: expected single value %v, got %v", field.Name, comp, data.Data)
		}
	}
}

func TestSplitDestroyRemovesOriginal(t *testing.T) {
	inner := newFakeSource()
	basis := api.Basis{Name: "b"}
	z := oneZone()
	inner.basisList = []api.Basis{basis}
	inner.zoneList = []api.Zone{z}
	orig := api.Field{Name: "stress", Type: api.Vector{Ncomps_: 3}}
	inner.fieldsOf[basis.Name] = []api.Field{orig}
	step := api.Step{Index: 0}
	inner.setData(step, orig, z, fielddata.New[float64]([]float64{10, 20, 30}, 1, 3))

	specs := []api.SplitFieldSpec{
		{SourceName: "stress", NewName: "pressure", Components: []int{0}, Destroy: true},
	}
	f := NewSplit(inner, specs)
	out := f.Fields(basis)
	if len(out) != 1 || out[0].Name != "pressure" {
		t.Fatalf("expected only the derived field (original destroyed), got %v", out)
	}

	data, err := f.FieldData(step, out[0], z)
	if err != nil {
		t.Fatalf("FieldData: %v", err)
	}
	if data.NumComps != 1 || data.Data[0] != 10 {
		t.Errorf("expected [10], got %v", data.Data)
	}
}

func TestSplitWithoutDestroyKeepsOriginal(t *testing.T) {
	inner := newFakeSource()
	basis := api.Basis{Name: "b"}
	orig := api.Field{Name: "stress", Type: api.Vector{Ncomps_: 3}}
	inner.basisList = []api.Basis{basis}
	inner.fieldsOf[basis.Name] = []api.Field{orig}

	specs := []api.SplitFieldSpec{
		{SourceName: "stress", NewName: "pressure", Components: []int{0}},
	}
	f := NewSplit(inner, specs)
	out := f.Fields(basis)
	if len(out) != 2 {
		t.Fatalf("expected original plus derived field, got %v", out)
	}

	props := f.Properties()
	if props.SplitFields != nil {
		t.Errorf("Split should clear SplitFields hint, got %v", props.SplitFields)
	}
}

func TestRecombineConcatenatesComponentsAndMatchesAdvertisedNcomps(t *testing.T) {
	inner := newFakeSource()
	basis := api.Basis{Name: "b"}
	z := oneZone()
	inner.basisList = []api.Basis{basis}
	inner.zoneList = []api.Zone{z}
	fx := api.Field{Name: "vx", Type: api.Scalar{}}
	fy := api.Field{Name: "vy", Type: api.Scalar{}}
	inner.fieldsOf[basis.Name] = []api.Field{fx, fy}
	step := api.Step{Index: 0}
	inner.setData(step, fx, z, fielddata.New[float64]([]float64{1}, 1, 1))
	inner.setData(step, fy, z, fielddata.New[float64]([]float64{2}, 1, 1))

	specs := []api.RecombineFieldSpec{
		{SourceNames: []string{"vx", "vy"}, NewName: "velocity"},
	}
	f := NewRecombine(inner, specs)
	out := f.Fields(basis)

	var recombined *api.Field
	for i := range out {
		if out[i].Name == "velocity" {
			recombined = &out[i]
		}
	}
	if recombined == nil {
		t.Fatalf("expected a recombined %q field, got %v", "velocity", out)
	}

	data, err := f.FieldData(step, *recombined, z)
	if err != nil {
		t.Fatalf("FieldData: %v", err)
	}

	// The advertised Ncomps() must match what FieldData actually
	// returns, or a consumer trusting Fields() (e.g. Strict, or a
	// writer) would mis-describe the buffer.
	if recombined.Ncomps() != data.NumComps {
		t.Fatalf("advertised ncomps=%d but FieldData returned ncomps=%d", recombined.Ncomps(), data.NumComps)
	}
	if data.NumComps != 2 || data.Data[0] != 1 || data.Data[1] != 2 {
		t.Errorf("expected concatenated [1 2], got %v", data.Data)
	}
}

func TestRecombineRejectsSpecOnCellwiseMismatch(t *testing.T) {
	inner := newFakeSource()
	basis := api.Basis{Name: "b"}
	nodal := api.Field{Name: "vx", Type: api.Scalar{}, Cellwise: false}
	cellwise := api.Field{Name: "vy", Type: api.Scalar{}, Cellwise: true}
	inner.basisList = []api.Basis{basis}
	inner.fieldsOf[basis.Name] = []api.Field{nodal, cellwise}

	specs := []api.RecombineFieldSpec{
		{SourceNames: []string{"vx", "vy"}, NewName: "mixed"},
	}
	f := NewRecombine(inner, specs)
	out := f.Fields(basis)

	for _, field := range out {
		if field.Name == "mixed" {
			t.Fatalf("expected the whole spec to be rejected on a Cellwise mismatch, got %v", out)
		}
	}
	if len(f.sources) != 0 {
		t.Errorf("rejected spec must not be registered in r.sources, got %v", f.sources)
	}
}

func TestSplitThenRecombineIsIdentityOnEmittedData(t *testing.T) {
	inner := newFakeSource()
	basis := api.Basis{Name: "b"}
	z := oneZone()
	inner.basisList = []api.Basis{basis}
	inner.zoneList = []api.Zone{z}
	orig := api.Field{Name: "velocity", Type: api.Vector{Ncomps_: 2}}
	inner.fieldsOf[basis.Name] = []api.Field{orig}
	step := api.Step{Index: 0}
	inner.setData(step, orig, z, fielddata.New[float64]([]float64{3, 4}, 1, 2))

	split := NewSplit(inner, []api.SplitFieldSpec{
		{SourceName: "velocity", NewName: "vx", Components: []int{0}},
		{SourceName: "velocity", NewName: "vy", Components: []int{1}},
	})
	recombine := NewRecombine(split, []api.RecombineFieldSpec{
		{SourceNames: []string{"vx", "vy"}, NewName: "velocity2"},
	})

	_ = recombine.Fields(basis) // populate recombine.sources

	data, err := recombine.FieldData(step, api.Field{Name: "velocity2"}, z)
	if err != nil {
		t.Fatalf("FieldData: %v", err)
	}
	if data.NumComps != 2 || data.Data[0] != 3 || data.Data[1] != 4 {
		t.Errorf("split+recombine should reproduce the original data, got %v", data.Data)
	}
}
