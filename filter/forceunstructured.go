// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/topology"
)

// ForceUnstructured rebuilds a structured topology as an
// UnstructuredTopology, preserving NumNodes, cell connectivity, and
// CellType (spec §4.6). The source must already be tessellated
// (discrete).
type ForceUnstructured struct {
	Passthrough
}

func NewForceUnstructured(source api.Source) *ForceUnstructured {
	if !source.Properties().DiscreteTopology {
		panic(errs.New(errs.CapabilityMismatch, "ForceUnstructured", "source is not discrete"))
	}
	return &ForceUnstructured{Passthrough{Inner: source}}
}

func (f *ForceUnstructured) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	t, err := f.Inner.Topology(step, basis, z)
	if err != nil {
		return nil, err
	}
	disc, ok := t.(topology.DiscreteTopology)
	if !ok {
		return nil, errs.New(errs.CapabilityMismatch, "ForceUnstructured.Topology",
			"topology for basis %q is not discrete", basis.Name)
	}
	if u, ok := disc.(topology.UnstructuredTopology); ok {
		return u, nil
	}
	return topology.UnstructuredTopology{
		NumNodes_: disc.NumNodes(),
		Cells_:    disc.Cells(),
		CellType_: disc.CellType(),
	}, nil
}
