// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multisource

import (
	"testing"

	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
)

// fakeSource exposes a fixed run of n steps, each carrying its local
// step index as the scalar field value so tests can verify routing.
type fakeSource struct {
	n      int
	props  api.SourceProperties
	closed bool
}

func newFakeSource(n int) *fakeSource {
	return &fakeSource{n: n}
}

func (f *fakeSource) Properties() api.SourceProperties { return f.props }
func (f *fakeSource) Configure(api.ReaderSettings)      {}
func (f *fakeSource) UseGeometry(api.Field)             {}
func (f *fakeSource) Bases() []api.Basis                { return []api.Basis{{Name: "mesh"}} }
func (f *fakeSource) BasisOf(api.Field) api.Basis        { return api.Basis{Name: "mesh"} }
func (f *fakeSource) Fields(api.Basis) []api.Field {
	return []api.Field{{Name: "v", Type: api.Scalar{}}}
}
func (f *fakeSource) Geometries(api.Basis) []api.Field { return nil }
func (f *fakeSource) Zones() []api.Zone                { return nil }

func (f *fakeSource) Steps() []api.Step {
	out := make([]api.Step, f.n)
	for i := range out {
		v := float64(i)
		out[i] = api.Step{Index: i, Value: &v}
	}
	return out
}

func (f *fakeSource) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	return topology.StructuredTopology{CellShape: []int{1}}, nil
}

func (f *fakeSource) TopologyUpdates(step api.Step, basis api.Basis) bool { return step.Index == 0 }

func (f *fakeSource) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	return fielddata.New([]float64{float64(step.Index)}, 1, 1), nil
}

func (f *fakeSource) FieldUpdates(step api.Step, field api.Field) bool { return true }

func (f *fakeSource) Close() error { f.closed = true; return nil }

var _ api.Source = (*fakeSource)(nil)

func TestMultiSourceConcatenatesStepCounts(t *testing.T) {
	a := newFakeSource(3)
	b := newFakeSource(4)
	m, err := New([]api.Source{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	steps := m.Steps()
	if len(steps) != 7 {
		t.Fatalf("expected 7 combined steps, got %d", len(steps))
	}
	for i, s := range steps {
		if s.Index != i {
			t.Errorf("step %d: expected global index %d, got %d", i, i, s.Index)
		}
	}
}

func TestMultiSourceForcesNotInstantaneous(t *testing.T) {
	a := newFakeSource(1)
	a.props.Instantaneous = true
	m, err := New([]api.Source{a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Properties().Instantaneous {
		t.Errorf("expected MultiSource to force Instantaneous=false")
	}
}

func TestMultiSourceRoutesFieldDataToOwningSource(t *testing.T) {
	a := newFakeSource(3)
	b := newFakeSource(4)
	m, err := New([]api.Source{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	steps := m.Steps()
	field := api.Field{Name: "v", Type: api.Scalar{}}

	// global step 4 is local step 1 of source b (prefix: a covers
	// [0,3), b covers [3,7)).
	data, err := m.FieldData(steps[4], field, api.Zone{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Data[0] != 1 {
		t.Errorf("expected local step index 1 routed to source b, got field value %v", data.Data[0])
	}
}

func TestMultiSourceRejectsEmptySourceList(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected an error constructing MultiSource with no sources")
	}
}

func TestMultiSourceCloseClosesEverySource(t *testing.T) {
	a := newFakeSource(1)
	b := newFakeSource(1)
	m, err := New([]api.Source{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.closed || !b.closed {
		t.Errorf("expected both inner sources closed")
	}
}
