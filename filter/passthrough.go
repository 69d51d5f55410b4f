// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filter implements the eleven-plus composable source-to-source
// adapters that bridge a reader's capabilities to a writer's
// requirements (spec §4.6). The fixed-order assembler that wires them
// together (spec §4.7) lives in package pipeline.
package filter

import (
	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
)

// Passthrough forwards every api.Source method to an embedded inner
// source. Concrete filters embed it by value and shadow only the
// methods they need to change, the Go analogue of the original's
// Passthrough decorator base class.
type Passthrough struct {
	Inner api.Source
}

func (p Passthrough) Properties() api.SourceProperties { return p.Inner.Properties() }
func (p Passthrough) Configure(settings api.ReaderSettings) { p.Inner.Configure(settings) }
func (p Passthrough) UseGeometry(geometry api.Field) { p.Inner.UseGeometry(geometry) }
func (p Passthrough) Bases() []api.Basis { return p.Inner.Bases() }
func (p Passthrough) BasisOf(field api.Field) api.Basis { return p.Inner.BasisOf(field) }
func (p Passthrough) Fields(basis api.Basis) []api.Field { return p.Inner.Fields(basis) }
func (p Passthrough) Geometries(basis api.Basis) []api.Field { return p.Inner.Geometries(basis) }
func (p Passthrough) Steps() []api.Step { return p.Inner.Steps() }
func (p Passthrough) Zones() []api.Zone { return p.Inner.Zones() }

func (p Passthrough) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	return p.Inner.Topology(step, basis, z)
}

func (p Passthrough) TopologyUpdates(step api.Step, basis api.Basis) bool {
	return p.Inner.TopologyUpdates(step, basis)
}

func (p Passthrough) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	return p.Inner.FieldData(step, field, z)
}

func (p Passthrough) FieldUpdates(step api.Step, field api.Field) bool {
	return p.Inner.FieldUpdates(step, field)
}

func (p Passthrough) Close() error { return p.Inner.Close() }
