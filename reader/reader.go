// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reader defines the Reader contract an external file-format
// adapter implements (spec §6) plus a registry for picking the right
// one, and ships PureGeometry, a minimal in-repo stub reader that
// exposes a fixed mesh with no time-varying fields -- the same role
// the original's puregeometry reader plays: a source for testing the
// pipeline and writers against pure geometry, without needing a real
// HDF5/NetCDF/G2 reader on hand.
package reader

import (
	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/errs"
)

// Reader is the contract an external file-format adapter implements
// (spec §6): Applicable sniffs whether it can handle path (extension,
// magic bytes), and Open acquires a scoped Source.
type Reader interface {
	Applicable(path string) bool
	Open(path string) (api.Source, error)
}

// Registry holds every known Reader and finds the first one that
// claims a given path, mirroring the original's reader-dispatch loop
// in `__main__.py` (try each registered reader's `applicable` in
// order, use the first match).
type Registry struct {
	readers []Reader
}

func NewRegistry(readers ...Reader) *Registry {
	return &Registry{readers: readers}
}

// Detect returns the first registered reader applicable to path.
func (r *Registry) Detect(path string) (Reader, bool) {
	for _, rd := range r.readers {
		if rd.Applicable(path) {
			return rd, true
		}
	}
	return nil, false
}

// Open detects and opens path in one step, returning a SourceUnrecognized
// error (spec §7, exit code 2) if no registered reader claims it.
func (r *Registry) Open(path string) (api.Source, error) {
	rd, ok := r.Detect(path)
	if !ok {
		return nil, errs.New(errs.SourceUnrecognized, "reader.Registry.Open", "no registered reader is applicable to %q", path)
	}
	return rd.Open(path)
}
