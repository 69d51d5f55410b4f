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

var mergedBasis = api.Basis{Name: "mesh"}

// BasisMerge collapses every basis the inner source exposes into a
// single synthetic basis named "mesh" (spec §4.6). It remembers the
// *master basis*, the basis the chosen geometry lives on, and per zone
// uses the master topology's merger to map every other basis' field
// data onto the merged topology. Sets SingleBasis.
type BasisMerge struct {
	Passthrough
	masterBasis api.Basis
	mergers     map[string]topology.Merger
}

func NewBasisMerge(source api.Source) *BasisMerge {
	return &BasisMerge{Passthrough{Inner: source}, api.Basis{}, make(map[string]topology.Merger)}
}

func (b *BasisMerge) Properties() api.SourceProperties {
	return b.Inner.Properties().Update(func(p *api.SourceProperties) {
		p.SingleBasis = true
	})
}

func (b *BasisMerge) Bases() []api.Basis { return []api.Basis{mergedBasis} }
func (b *BasisMerge) BasisOf(field api.Field) api.Basis { return mergedBasis }

func (b *BasisMerge) Fields(basis api.Basis) []api.Field {
	var out []api.Field
	for _, inner := range b.Inner.Bases() {
		out = append(out, b.Inner.Fields(inner)...)
	}
	return out
}

func (b *BasisMerge) Geometries(basis api.Basis) []api.Field {
	var out []api.Field
	for _, inner := range b.Inner.Bases() {
		out = append(out, b.Inner.Geometries(inner)...)
	}
	return out
}

func (b *BasisMerge) UseGeometry(geometry api.Field) {
	b.Inner.UseGeometry(geometry)
	b.masterBasis = b.Inner.BasisOf(geometry)
}

// Topology is only called once per step and zone, since BasisMerge
// exposes a single synthetic basis: it fetches the master topology, asks
// it for a merger, remembers the merger for this zone, and returns the
// merged topology (discarding the identity mapper the call also
// produces, since the master basis itself needs no remapping).
func (b *BasisMerge) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	t, err := b.Inner.Topology(step, b.masterBasis, z)
	if err != nil {
		return nil, err
	}
	mergeable, ok := t.(topology.Mergeable)
	if !ok {
		return nil, errs.New(errs.CapabilityMismatch, "BasisMerge.Topology",
			"master topology for zone %q does not support merging", z.LocalKey)
	}
	merger := mergeable.CreateMerger()
	b.mergers[z.LocalKey] = merger
	merged, _, err := merger(t)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

func (b *BasisMerge) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	basis := b.Inner.BasisOf(field)
	t, err := b.Inner.Topology(step, basis, z)
	if err != nil {
		return fielddata.FieldData[float64]{}, err
	}
	merger, ok := b.mergers[z.LocalKey]
	if !ok {
		return fielddata.FieldData[float64]{}, errs.New(errs.Missing, "BasisMerge.FieldData",
			"no merger cached for zone %q; topology() must be called before field_data()", z.LocalKey)
	}
	_, mapper, err := merger(t)
	if err != nil {
		return fielddata.FieldData[float64]{}, err
	}
	data, err := b.Inner.FieldData(step, field, z)
	if err != nil {
		return data, err
	}
	return mapper(field, data)
}
