// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import "github.com/TheBB/CICO/api"

// EigenDisp rewrites every vector field whose interpretation is
// Eigenmode to Displacement, so that writers which only understand
// displacement fields can still render modal-analysis output (spec
// §4.6). Scalar Eigenmode fields are left unchanged.
type EigenDisp struct {
	Passthrough
}

func NewEigenDisp(source api.Source) *EigenDisp {
	return &EigenDisp{Passthrough{Inner: source}}
}

func (e *EigenDisp) Fields(basis api.Basis) []api.Field {
	in := e.Inner.Fields(basis)
	out := make([]api.Field, len(in))
	for i, f := range in {
		out[i] = retypeEigenmode(f)
	}
	return out
}

func (e *EigenDisp) Geometries(basis api.Basis) []api.Field {
	in := e.Inner.Geometries(basis)
	out := make([]api.Field, len(in))
	for i, f := range in {
		out[i] = retypeEigenmode(f)
	}
	return out
}

func retypeEigenmode(f api.Field) api.Field {
	v, ok := f.Type.(api.Vector)
	if !ok || v.Interpretation != api.VectorEigenmode {
		return f
	}
	f.Type = api.Vector{Ncomps_: v.Ncomps_, Interpretation: api.VectorDisplacement}
	return f
}
