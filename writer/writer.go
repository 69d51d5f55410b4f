// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package writer defines the Sink contract an external visualization
// writer implements (spec §6) and ships Raw, a minimal in-repo stub
// sink that dumps the canonical iteration order to a text stream --
// standing in for the VTK-family/PVD writers spec.md §1 names as out
// of scope, so the pipeline has a runnable consumer to exercise end to
// end without vendoring a writer dependency this repo never calls.
package writer

import (
	"fmt"
	"io"

	"github.com/TheBB/CICO/api"
)

// Sink is the contract an external writer implements (spec §6):
// Properties reports the source shape it requires (driving the
// assembler's filter insertion), Configure applies writer settings,
// and Consume pulls topology and field data from source in the
// canonical order -- steps monotonically, zones in source order
// within a step, fields in basis order within a zone (spec §5).
type Sink interface {
	Properties() api.Requirements
	Configure(settings api.WriterSettings)
	Consume(source api.Source, geometry api.Field) error
	Close() error
}

// Raw is a stub Sink that writes one line per (step, zone, field)
// triple to an underlying stream: entity counts and a checksum-free
// dump of the data shape, useful for smoke-testing a pipeline
// assembly without a real mesh-format writer on hand.
type Raw struct {
	w      io.Writer
	reqs   api.Requirements
	closer io.Closer
}

// NewRaw wraps w with the given requirement flags; if w also
// implements io.Closer, Close forwards to it.
func NewRaw(w io.Writer, reqs api.Requirements) *Raw {
	closer, _ := w.(io.Closer)
	return &Raw{w: w, reqs: reqs, closer: closer}
}

func (r *Raw) Properties() api.Requirements { return r.reqs }

func (r *Raw) Configure(settings api.WriterSettings) {}

func (r *Raw) Consume(source api.Source, geometry api.Field) error {
	for _, step := range source.Steps() {
		for _, z := range source.Zones() {
			for _, basis := range source.Bases() {
				t, err := source.Topology(step, basis, z)
				if err != nil {
					return err
				}
				fmt.Fprintf(r.w, "step=%d zone=%s basis=%s nodes=%d cells=%d\n",
					step.Index, z.LocalKey, basis.Name, t.NumNodes(), t.NumCells())

				for _, field := range source.Fields(basis) {
					data, err := source.FieldData(step, field, z)
					if err != nil {
						return err
					}
					fmt.Fprintf(r.w, "  field=%s rows=%d comps=%d\n", field.Name, data.NumRows, data.NumComps)
				}
				if geometry.Name != "" {
					data, err := source.FieldData(step, geometry, z)
					if err != nil {
						return err
					}
					fmt.Fprintf(r.w, "  geometry=%s rows=%d comps=%d\n", geometry.Name, data.NumRows, data.NumComps)
				}
			}
		}
	}
	return nil
}

func (r *Raw) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

var _ Sink = (*Raw)(nil)
