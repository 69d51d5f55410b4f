// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"fmt"

	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
	"github.com/TheBB/CICO/zone"
)

// fakeSource is a minimal in-memory api.Source used across filter
// tests. It holds one basis' worth of fields/geometries, a fixed zone
// list, a structured topology shared by every zone, and a data table
// keyed by (step, field, zone).
type fakeSource struct {
	props      api.SourceProperties
	basisList  []api.Basis
	fieldsOf   map[string][]api.Field
	geomsOf    map[string][]api.Field
	stepList   []api.Step
	zoneList   []api.Zone
	topo       topology.Topology
	data       map[string]fielddata.FieldData[float64]
	usedGeom   api.Field
	closed     bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		fieldsOf: make(map[string][]api.Field),
		geomsOf:  make(map[string][]api.Field),
		topo:     topology.StructuredTopology{CellShape: []int{1}},
		data:     make(map[string]fielddata.FieldData[float64]),
	}
}

func dataKey(step api.Step, field api.Field, z api.Zone) string {
	return fmt.Sprintf("%d|%s|%s", step.Index, field.Name, z.LocalKey)
}

func (f *fakeSource) setData(step api.Step, field api.Field, z api.Zone, d fielddata.FieldData[float64]) {
	f.data[dataKey(step, field, z)] = d
}

func (f *fakeSource) Properties() api.SourceProperties  { return f.props }
func (f *fakeSource) Configure(api.ReaderSettings)      {}
func (f *fakeSource) UseGeometry(geometry api.Field)    { f.usedGeom = geometry }
func (f *fakeSource) Bases() []api.Basis                { return f.basisList }
func (f *fakeSource) BasisOf(field api.Field) api.Basis { return f.basisList[0] }
func (f *fakeSource) Fields(basis api.Basis) []api.Field {
	return f.fieldsOf[basis.Name]
}
func (f *fakeSource) Geometries(basis api.Basis) []api.Field {
	return f.geomsOf[basis.Name]
}
func (f *fakeSource) Steps() []api.Step { return f.stepList }
func (f *fakeSource) Zones() []api.Zone { return f.zoneList }

func (f *fakeSource) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	return f.topo, nil
}

func (f *fakeSource) TopologyUpdates(step api.Step, basis api.Basis) bool { return step.Index == 0 }

func (f *fakeSource) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	d, ok := f.data[dataKey(step, field, z)]
	if !ok {
		return fielddata.FieldData[float64]{}, fmt.Errorf("no data for %s", dataKey(step, field, z))
	}
	return d, nil
}

func (f *fakeSource) FieldUpdates(step api.Step, field api.Field) bool { return step.Index == 0 }

func (f *fakeSource) Close() error { f.closed = true; return nil }

var _ api.Source = (*fakeSource)(nil)

func oneZone() api.Zone {
	return zone.Zone{Shape: zone.Line, Corners: [][]float64{{0}, {1}}, LocalKey: "z0"}
}
