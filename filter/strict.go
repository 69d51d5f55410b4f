// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"math"

	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
	"github.com/cpmech/gosl/chk"
)

// Strict wraps a source with invariant checks on the data it yields:
// shape, row-count, and value-finiteness. It performs no property
// change (spec §4.6). Exactly which assertions to run is
// under-specified by design (spec §9); this implements at least shape
// and row-count checks against the field's declared component count
// and the zone's topology, plus a finiteness sweep, which spec §9
// calls out as the minimum bar.
type Strict struct {
	Passthrough
}

// NewStrict wraps source with strict invariant checking.
func NewStrict(source api.Source) *Strict {
	return &Strict{Passthrough{Inner: source}}
}

func (s *Strict) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	data, err := s.Inner.FieldData(step, field, z)
	if err != nil {
		return data, err
	}
	if data.NumComps != field.Ncomps() {
		return data, errs.New(errs.CapabilityMismatch, "Strict.FieldData",
			"field %q declares %d components, data has %d", field.Name, field.Ncomps(), data.NumComps).
			WithField(field.Name).WithZone(z.LocalKey)
	}
	t, err := s.Inner.Topology(step, s.Inner.BasisOf(field), z)
	if err == nil {
		want := t.NumNodes()
		if field.Cellwise {
			want = t.NumCells()
		}
		if data.NumRows != want {
			return data, errs.New(errs.CapabilityMismatch, "Strict.FieldData",
				"field %q expected %d rows, got %d", field.Name, want, data.NumRows).
				WithField(field.Name).WithZone(z.LocalKey)
		}
	}
	for _, v := range data.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return data, errs.New(errs.CapabilityMismatch, "Strict.FieldData",
				"field %q contains a non-finite value", field.Name).
				WithField(field.Name).WithZone(z.LocalKey)
		}
	}
	return data, nil
}

func (s *Strict) Zones() []api.Zone {
	zones := s.Inner.Zones()
	for _, z := range zones {
		if err := z.Validate(); err != nil {
			chk.Panic("Strict.Zones: %v", err)
		}
	}
	return zones
}
