// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
)

type basisZoneKey struct {
	basis string
	zone  string
}

// Discretize lowers a parametric topology to a sampled mesh by calling
// topology.Discretize(nvis), caching the returned mapper keyed by
// (basis, zone) and using it to resample field_data calls for the
// matching step/zone (spec §4.6). Sets DiscreteTopology.
type Discretize struct {
	Passthrough
	Nvis    int
	mappers map[basisZoneKey]topology.Mapper
}

func NewDiscretize(source api.Source, nvis int) *Discretize {
	return &Discretize{Passthrough{Inner: source}, nvis, make(map[basisZoneKey]topology.Mapper)}
}

func (d *Discretize) Properties() api.SourceProperties {
	return d.Inner.Properties().Update(func(p *api.SourceProperties) {
		p.DiscreteTopology = true
	})
}

func (d *Discretize) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	t, err := d.Inner.Topology(step, basis, z)
	if err != nil {
		return nil, err
	}
	discretizable, ok := t.(topology.Discretizable)
	if !ok {
		return nil, errs.New(errs.CapabilityMismatch, "Discretize.Topology",
			"topology for basis %q does not support discretization", basis.Name)
	}
	discrete, mapper, err := discretizable.Discretize(d.Nvis)
	if err != nil {
		return nil, err
	}
	d.mappers[basisZoneKey{basis.Name, z.LocalKey}] = mapper
	return discrete, nil
}

func (d *Discretize) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	data, err := d.Inner.FieldData(step, field, z)
	if err != nil {
		return data, err
	}
	basis := d.Inner.BasisOf(field)
	mapper, ok := d.mappers[basisZoneKey{basis.Name, z.LocalKey}]
	if !ok {
		return fielddata.FieldData[float64]{}, errs.New(errs.Missing, "Discretize.FieldData",
			"no mapper cached for basis %q zone %q; topology() must be called before field_data()",
			basis.Name, z.LocalKey)
	}
	return mapper(field, data)
}
