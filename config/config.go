// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config implements the conversion job settings read from a
// JSON file, mirroring the way inp.Simulation is read from a .sim file
// in the teacher codebase: a plain struct with json tags, defaults
// applied before unmarshalling, and light post-processing afterward.
package config

import (
	"encoding/json"

	"github.com/cpmech/gosl/io"
)

// Steps selects a subset of timesteps to convert (spec §4.6's
// StepSlice/LastTime filters); a nil pointer means "use the source's
// default" for that bound.
type Steps struct {
	Start    *int `json:"start"`
	Stop     *int `json:"stop"`
	Step     *int `json:"step"`
	LastTime bool `json:"lasttime"`
}

// Settings is the full set of user-facing knobs for one conversion
// job: which bases/fields to keep, how many geometric sample points to
// use for spline discretization, whether to force an unstructured
// topology, whether to decompose vectors, and which coordinate systems
// to convert between.
type Settings struct {
	Basis             []string `json:"basis"`             // basis names to keep; empty means all
	Fields            []string `json:"fields"`            // field names to keep; empty means all
	Nvis              int      `json:"nvis"`              // sample points per knot span for spline discretization
	Strict            bool     `json:"strict"`             // wrap the conversion chain in Strict invariant checks (shape, row count, finiteness)
	ForceUnstructured bool     `json:"force_unstructured"` // always discretize, even if the writer accepts structured grids
	Decompose         bool     `json:"decompose"`          // split vector fields into per-component scalars
	EigenDisp         bool     `json:"eigendisp"`          // retype eigenvalue-analysis displacement vectors
	Steps             Steps    `json:"steps"`
	InCoords          string   `json:"in_coords"`  // coordinate system code to select among ambiguous geometries
	OutCoords         string   `json:"out_coords"` // coordinate system code to convert to; empty means no conversion
	OutputMode        string   `json:"output_mode"`
}

// SetDefault fills in the values a zero Settings would otherwise leave
// unusable.
func (s *Settings) SetDefault() {
	if s.Nvis == 0 {
		s.Nvis = 11
	}
}

// Read loads a Settings from a JSON file at path, applying defaults
// before unmarshalling so omitted fields still get sane values.
func Read(path string) (*Settings, error) {
	s := new(Settings)
	s.SetDefault()
	if path == "" {
		return s, nil
	}
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}
