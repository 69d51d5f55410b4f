// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
)

// StepSlice groups the inner source's steps into consecutive slabs of
// size Step (a Python-style slice over the step index list: Start/Stop
// bound the range of source step indices that is cut into slabs,
// starting at Start, nil meaning the open end), emitting one
// output step per slab that carries the *last* member's value. A
// field's updates flag for an output step is the logical OR of every
// slab member's updates flag (spec §4.6). Empty or out-of-range bounds
// yield no steps at all, matching Python slice semantics.
type StepSlice struct {
	Passthrough
	Start, Stop, Step *int
	ForceInstantaneous bool

	groups   [][]api.Step
	computed bool
}

// NewStepSlice wraps source, grouping its steps per the given
// Python-slice-style (start, stop, step) triple; a nil pointer means
// that slot is open (Python's None).
func NewStepSlice(source api.Source, start, stop, step *int) *StepSlice {
	return &StepSlice{Passthrough: Passthrough{Inner: source}, Start: start, Stop: stop, Step: step}
}

// NewLastTime wraps source, collapsing every one of its steps into a
// single output step carrying the last one, and sets Instantaneous
// (spec §4.6: "LastTime is a StepSlice that collects all source steps
// into one group").
func NewLastTime(source api.Source) *StepSlice {
	s := NewStepSlice(source, nil, nil, nil)
	s.ForceInstantaneous = true
	return s
}

func (s *StepSlice) ensureGroups() {
	if s.computed {
		return
	}
	s.computed = true
	inner := s.Inner.Steps()
	n := len(inner)

	step := 1
	if s.Step != nil {
		step = *s.Step
	}
	if s.ForceInstantaneous {
		step = n
		if step == 0 {
			step = 1
		}
	}
	if step <= 0 {
		step = 1
	}

	start := 0
	if s.Start != nil {
		start = *s.Start
		if start < 0 {
			start += n
		}
		if start < 0 {
			start = 0
		}
	}
	stop := n
	if s.Stop != nil {
		stop = *s.Stop
		if stop < 0 {
			stop += n
		}
		if stop > n {
			stop = n
		}
	}

	for i := start; i < stop; i += step {
		end := i + step
		if end > n {
			end = n
		}
		if i >= end {
			continue
		}
		s.groups = append(s.groups, inner[i:end])
	}
}

func (s *StepSlice) Properties() api.SourceProperties {
	return s.Inner.Properties().Update(func(p *api.SourceProperties) {
		if s.ForceInstantaneous {
			p.Instantaneous = true
		}
	})
}

func (s *StepSlice) Steps() []api.Step {
	s.ensureGroups()
	out := make([]api.Step, len(s.groups))
	for i, group := range s.groups {
		last := group[len(group)-1]
		out[i] = api.Step{Index: i, Value: last.Value}
	}
	return out
}

// Members returns the inner source's original steps belonging to the
// slab that produced output step index i, e.g. for inspecting how many
// source steps a LastTime collapse swallowed (spec §8 scenario 6).
func (s *StepSlice) Members(i int) []api.Step {
	s.ensureGroups()
	return append([]api.Step(nil), s.groups[i]...)
}

func (s *StepSlice) last(i int) api.Step {
	s.ensureGroups()
	group := s.groups[i]
	return group[len(group)-1]
}

func (s *StepSlice) Topology(step api.Step, basis api.Basis, z api.Zone) (topology.Topology, error) {
	return s.Inner.Topology(s.last(step.Index), basis, z)
}

func (s *StepSlice) TopologyUpdates(step api.Step, basis api.Basis) bool {
	s.ensureGroups()
	for _, orig := range s.groups[step.Index] {
		if s.Inner.TopologyUpdates(orig, basis) {
			return true
		}
	}
	return false
}

func (s *StepSlice) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	return s.Inner.FieldData(s.last(step.Index), field, z)
}

func (s *StepSlice) FieldUpdates(step api.Step, field api.Field) bool {
	s.ensureGroups()
	for _, orig := range s.groups[step.Index] {
		if s.Inner.FieldUpdates(orig, field) {
			return true
		}
	}
	return false
}
