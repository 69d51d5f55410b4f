// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package writer

import (
	"fmt"

	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
	"github.com/TheBB/CICO/zone"
)

type fakeSource struct {
	fields []api.Field
	geom   api.Field
	data   map[string]fielddata.FieldData[float64]
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		fields: []api.Field{{Name: "pressure", Type: api.Scalar{}}},
		geom:   api.Field{Name: "Geometry", Type: api.Geometry{Ncomps_: 2}},
		data:   make(map[string]fielddata.FieldData[float64]),
	}
}

func key(step api.Step, field api.Field, z api.Zone) string {
	return fmt.Sprintf("%d|%s|%s", step.Index, field.Name, z.LocalKey)
}

func (f *fakeSource) set(step api.Step, field api.Field, z api.Zone, d fielddata.FieldData[float64]) {
	f.data[key(step, field, z)] = d
}

func (f *fakeSource) Properties() api.SourceProperties { return api.SourceProperties{} }
func (f *fakeSource) Configure(api.ReaderSettings)      {}
func (f *fakeSource) UseGeometry(api.Field)             {}
func (f *fakeSource) Bases() []api.Basis                { return []api.Basis{{Name: "mesh0"}} }
func (f *fakeSource) BasisOf(api.Field) api.Basis        { return api.Basis{Name: "mesh0"} }
func (f *fakeSource) Fields(api.Basis) []api.Field       { return f.fields }
func (f *fakeSource) Geometries(api.Basis) []api.Field   { return []api.Field{f.geom} }
func (f *fakeSource) Steps() []api.Step                  { return []api.Step{{Index: 0}, {Index: 1}} }
func (f *fakeSource) Zones() []api.Zone {
	return []api.Zone{zone.Zone{Shape: zone.Line, Corners: [][]float64{{0}, {1}}, LocalKey: "z0"}}
}

func (f *fakeSource) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	return topology.StructuredTopology{CellShape: []int{1}}, nil
}

func (f *fakeSource) TopologyUpdates(step api.Step, basis api.Basis) bool { return step.Index == 0 }

func (f *fakeSource) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	d, ok := f.data[key(step, field, z)]
	if !ok {
		return fielddata.FieldData[float64]{}, fmt.Errorf("no data for %s", key(step, field, z))
	}
	return d, nil
}

func (f *fakeSource) FieldUpdates(step api.Step, field api.Field) bool { return step.Index == 0 }

func (f *fakeSource) Close() error { return nil }

var _ api.Source = (*fakeSource)(nil)
