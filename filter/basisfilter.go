// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import "github.com/TheBB/CICO/api"

// BasisFilter restricts Bases() to those whose name case-foldingly
// matches one of Allowed (spec §4.6).
type BasisFilter struct {
	Passthrough
	Allowed []string
}

func NewBasisFilter(source api.Source, allowed []string) *BasisFilter {
	return &BasisFilter{Passthrough{Inner: source}, allowed}
}

func (f *BasisFilter) Bases() []api.Basis {
	var out []api.Basis
	for _, b := range f.Inner.Bases() {
		for _, name := range f.Allowed {
			if api.CaseFoldEqual(b.Name, name) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// FieldFilter restricts Fields() to those whose name case-foldingly
// matches one of Allowed. Geometry fields always pass through
// unfiltered (spec §4.6).
type FieldFilter struct {
	Passthrough
	Allowed []string
}

func NewFieldFilter(source api.Source, allowed []string) *FieldFilter {
	return &FieldFilter{Passthrough{Inner: source}, allowed}
}

func (f *FieldFilter) Fields(basis api.Basis) []api.Field {
	var out []api.Field
	for _, field := range f.Inner.Fields(basis) {
		for _, name := range f.Allowed {
			if api.CaseFoldEqual(field.Name, name) {
				out = append(out, field)
				break
			}
		}
	}
	return out
}
