// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
	"github.com/TheBB/CICO/zone"
)

var mergedZone = api.Zone{Shape: zone.Hexahedron, LocalKey: "__merged__"}

// ZoneMerge fuses every zone the inner source exposes into one, joining
// node arrays row-wise and renumbering cell connectivity by the
// cumulative node offset of each source zone (spec §4.6). Sets
// SingleZoned. The inner source must already be discrete (cells +
// uniform celltype), since structured/parametric topologies have no
// stable node ordering to offset against.
type ZoneMerge struct {
	Passthrough
}

func NewZoneMerge(source api.Source) *ZoneMerge {
	return &ZoneMerge{Passthrough{Inner: source}}
}

func (m *ZoneMerge) Properties() api.SourceProperties {
	return m.Inner.Properties().Update(func(p *api.SourceProperties) {
		p.SingleZoned = true
	})
}

func (m *ZoneMerge) Zones() []api.Zone { return []api.Zone{mergedZone} }

func (m *ZoneMerge) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	innerZones := m.Inner.Zones()
	var cellType topology.CellType
	totalNodes := 0
	var cellRows [][]int
	for i, iz := range innerZones {
		t, err := m.Inner.Topology(step, basis, iz)
		if err != nil {
			return nil, err
		}
		disc, ok := t.(topology.DiscreteTopology)
		if !ok {
			return nil, errs.New(errs.CapabilityMismatch, "ZoneMerge.Topology",
				"zone %q is not discrete; ZoneMerge requires Discretize(1) first", iz.LocalKey)
		}
		if i == 0 {
			cellType = disc.CellType()
		} else if disc.CellType() != cellType {
			return nil, errs.New(errs.ShapeMismatch, "ZoneMerge.Topology",
				"zone %q has a different cell type than zone %q", iz.LocalKey, innerZones[0].LocalKey)
		}
		cells := disc.Cells()
		for r := 0; r < cells.NumRows; r++ {
			row := append([]int(nil), cells.Row(r)...)
			for j := range row {
				row[j] += totalNodes
			}
			cellRows = append(cellRows, row)
		}
		totalNodes += disc.NumNodes()
	}

	nodesPerCell := 0
	if len(cellRows) > 0 {
		nodesPerCell = len(cellRows[0])
	}
	cells := fielddata.Zeros[int](len(cellRows), nodesPerCell)
	for i, row := range cellRows {
		copy(cells.Row(i), row)
	}

	return topology.UnstructuredTopology{
		NumNodes_: totalNodes,
		Cells_:    cells,
		CellType_: cellType,
	}, nil
}

func (m *ZoneMerge) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	var parts []fielddata.FieldData[float64]
	for _, iz := range m.Inner.Zones() {
		d, err := m.Inner.FieldData(step, field, iz)
		if err != nil {
			return fielddata.FieldData[float64]{}, err
		}
		parts = append(parts, d)
	}
	return fielddata.Join(parts...)
}
