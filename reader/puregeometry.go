// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reader

import (
	"os"
	"strconv"
	"strings"

	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/coord"
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
	"github.com/TheBB/CICO/zone"
)

// PureGeometry is a stub Source exposing one or more zones' worth of
// pure geometry (no time-varying fields): a single instantaneous,
// globally-keyed, single-basis step whose only field is a Geometry
// field per zone, sourced from a sequence of topology blobs separated
// by a line of three dashes. This mirrors the original's
// `reader/puregeometry.py`, used there to let the rest of the pipeline
// and the writers be exercised without a real mesh-format reader.
type PureGeometry struct {
	corners       []fielddata.FieldData[float64]
	topologies    []topology.Topology
	controlpoints []fielddata.FieldData[float64]
}

const pureGeometryExt = ".puregeom"

// PureGeometryReader implements Reader for the .puregeom stub format.
type PureGeometryReader struct{}

func (PureGeometryReader) Applicable(path string) bool {
	return strings.HasSuffix(path, pureGeometryExt)
}

func (PureGeometryReader) Open(path string) (api.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.SourceUnrecognized, "reader.PureGeometryReader.Open", "reading %q", path).Wrap(err)
	}
	return NewPureGeometry(data)
}

// NewPureGeometry parses a multi-zone blob (each zone's topology blob
// separated by a line containing only "---") into a PureGeometry source.
func NewPureGeometry(data []byte) (*PureGeometry, error) {
	g := &PureGeometry{}
	for i, chunk := range strings.Split(string(data), "\n---\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		corners, topo, cps, err := topology.ParseTopologyBlob([]byte(chunk))
		if err != nil {
			return nil, errs.New(errs.DataFormatError, "reader.NewPureGeometry", "zone %d", i).Wrap(err)
		}
		g.corners = append(g.corners, corners)
		g.topologies = append(g.topologies, topo)
		g.controlpoints = append(g.controlpoints, cps)
	}
	if len(g.topologies) == 0 {
		return nil, errs.New(errs.DataFormatError, "reader.NewPureGeometry", "no zones found in blob")
	}
	return g, nil
}

func (g *PureGeometry) Properties() api.SourceProperties {
	return api.SourceProperties{
		Instantaneous: true,
		GloballyKeyed: true,
		SingleBasis:   true,
	}
}

func (g *PureGeometry) Configure(api.ReaderSettings) {}
func (g *PureGeometry) UseGeometry(api.Field)         {}

func (g *PureGeometry) Bases() []api.Basis { return []api.Basis{{Name: "mesh"}} }
func (g *PureGeometry) BasisOf(api.Field) api.Basis { return api.Basis{Name: "mesh"} }

func (g *PureGeometry) Fields(api.Basis) []api.Field { return nil }

func (g *PureGeometry) Geometries(api.Basis) []api.Field {
	return []api.Field{{
		Name: "Geometry",
		Type: api.Geometry{Ncomps_: g.controlpoints[0].NumComps, Coords: coord.Generic{}},
	}}
}

func (g *PureGeometry) Steps() []api.Step { return []api.Step{{Index: 0}} }

func (g *PureGeometry) Zones() []api.Zone {
	out := make([]api.Zone, len(g.topologies))
	for i, t := range g.topologies {
		shape, err := zoneShapeOf(t.Pardim())
		if err != nil {
			shape = zone.Hexahedron
		}
		var corners [][]float64
		for r := 0; r < g.corners[i].NumRows; r++ {
			corners = append(corners, append([]float64(nil), g.corners[i].Row(r)...))
		}
		out[i] = zone.Zone{Shape: shape, Corners: corners, LocalKey: zoneLocalKey(i)}
	}
	return out
}

func zoneShapeOf(pardim int) (zone.Shape, error) {
	switch pardim {
	case 1:
		return zone.Line, nil
	case 2:
		return zone.Quadrilateral, nil
	case 3:
		return zone.Hexahedron, nil
	default:
		return 0, errs.New(errs.ShapeMismatch, "reader.zoneShapeOf", "unsupported pardim %d", pardim)
	}
}

func zoneLocalKey(i int) string {
	return "zone" + strconv.Itoa(i)
}

func (g *PureGeometry) zoneIndex(z api.Zone) (int, error) {
	for i := range g.topologies {
		if z.LocalKey == zoneLocalKey(i) {
			return i, nil
		}
	}
	return 0, errs.New(errs.Missing, "reader.PureGeometry", "unknown zone %q", z.LocalKey)
}

func (g *PureGeometry) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	i, err := g.zoneIndex(z)
	if err != nil {
		return nil, err
	}
	return g.topologies[i], nil
}

func (g *PureGeometry) TopologyUpdates(step api.Step, basis api.Basis) bool { return step.Index == 0 }

func (g *PureGeometry) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	i, err := g.zoneIndex(z)
	if err != nil {
		return fielddata.FieldData[float64]{}, err
	}
	return g.controlpoints[i], nil
}

func (g *PureGeometry) FieldUpdates(step api.Step, field api.Field) bool { return step.Index == 0 }

func (g *PureGeometry) Close() error { return nil }

var _ api.Source = (*PureGeometry)(nil)
var _ Reader = PureGeometryReader{}
