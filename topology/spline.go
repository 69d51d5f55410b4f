// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topology

import (
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
)

// SplineTopology is a tensor-product B-spline (or NURBS, when Weights is
// non-nil) patch: one open knot vector and polynomial degree per
// parametric direction (spec §4.2). Its control net has
// prod(len(Knots[d])-Degree[d]-1) rows, one per basis function.
type SplineTopology struct {
	Degree  []int
	Knots   [][]float64
	Weights []float64 // nil for a non-rational (plain B-spline) patch
}

func (s SplineTopology) numBasis() []int {
	dims := make([]int, len(s.Degree))
	for d := range dims {
		dims[d] = len(s.Knots[d]) - s.Degree[d] - 1
	}
	return dims
}

func (s SplineTopology) Pardim() int { return len(s.Degree) }

func (s SplineTopology) NumNodes() int {
	n := 1
	for _, b := range s.numBasis() {
		n *= b
	}
	return n
}

func (s SplineTopology) NumCells() int {
	n := 1
	for d := range s.Degree {
		n *= len(spanBreakpoints(s.Knots[d], s.Degree[d])) - 1
	}
	return n
}

// evalMatrix evaluates the tensor-product basis at every point of a
// dense parametric grid built from one parameter slice per direction,
// returning one dense row (length NumNodes()) per grid point in
// forEachGridIndex order.
func (s SplineTopology) evalMatrix(paramsPerDir [][]float64) [][]float64 {
	dims := make([]int, len(paramsPerDir))
	for d, p := range paramsPerDir {
		dims[d] = len(p)
	}
	total := 1
	for _, d := range dims {
		total *= d
	}
	rows := make([][]float64, total)
	forEachGridIndex(dims, func(idx []int, flat int) {
		params := make([]float64, len(idx))
		for d, i := range idx {
			params[d] = paramsPerDir[d][i]
		}
		rows[flat] = tensorProductEval(s.Knots, s.Degree, params)
	})
	return rows
}

// applyEval maps control-point data through a dense evaluation matrix
// (one row per sample point, one column per control point), optionally
// weighting by NURBS weights (spec §4.2: the mapper is pure with respect
// to the captured evaluation matrix).
func applyEval(rows [][]float64, weights []float64, data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error) {
	if len(rows) == 0 {
		return fielddata.FieldData[float64]{}, errs.New(errs.ShapeMismatch, "topology.applyEval", "empty evaluation matrix")
	}
	if len(rows[0]) != data.NumRows {
		return fielddata.FieldData[float64]{}, errs.New(errs.ShapeMismatch, "topology.applyEval",
			"evaluation matrix has %d columns, control data has %d rows", len(rows[0]), data.NumRows)
	}
	out := fielddata.Zeros[float64](len(rows), data.NumComps)
	for r, row := range rows {
		denom := 0.0
		for i, w := range row {
			ww := 1.0
			if weights != nil {
				ww = weights[i]
			}
			denom += w * ww
		}
		if denom == 0 {
			continue
		}
		dst := out.Row(r)
		for i, w := range row {
			if w == 0 {
				continue
			}
			ww := 1.0
			if weights != nil {
				ww = weights[i]
			}
			coef := w * ww / denom
			src := data.Row(i)
			for k := range dst {
				dst[k] += coef * src[k]
			}
		}
	}
	return out, nil
}

// cellCentroidParams returns, per direction, the midpoints between
// consecutive sample points of a nodal param slice -- the parameter
// value at which a cellwise field is evaluated (spec §4.2: "or
// cell-centroids if cellwise").
func cellCentroidParams(nodal []float64) []float64 {
	out := make([]float64, len(nodal)-1)
	for i := range out {
		out[i] = (nodal[i] + nodal[i+1]) / 2
	}
	return out
}

// Discretize subdivides every element nvis ways per direction, building
// an UnstructuredTopology of the resulting sample grid plus a Mapper
// that resamples a source field's control-point data at either the
// nodal grid or its cell centroids, depending on field.IsCellwise()
// (spec §4.2, §4.6 Discretize).
func (s SplineTopology) Discretize(nvis int) (DiscreteTopology, Mapper, error) {
	if nvis < 1 {
		return nil, nil, errs.New(errs.CapabilityMismatch, "SplineTopology.Discretize", "nvis must be >= 1, got %d", nvis)
	}
	nodalParams := make([][]float64, len(s.Degree))
	cellParams := make([][]float64, len(s.Degree))
	cellShape := make([]int, len(s.Degree))
	for d := range s.Degree {
		nodalParams[d] = sampleParams(s.Knots[d], s.Degree[d], nvis)
		cellParams[d] = cellCentroidParams(nodalParams[d])
		cellShape[d] = len(cellParams[d])
	}

	nodalEval := s.evalMatrix(nodalParams)
	cellEval := s.evalMatrix(cellParams)

	ctype, err := structuredCellType(s.Pardim())
	if err != nil {
		return nil, nil, err
	}
	cells := enumerateStructuredCells(cellShape)

	mapper := func(field FieldInfo, data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error) {
		if field.IsCellwise() {
			return applyEval(cellEval, s.Weights, data)
		}
		return applyEval(nodalEval, s.Weights, data)
	}

	return UnstructuredTopology{
		NumNodes_: len(nodalEval),
		Cells_:    cells,
		CellType_: ctype,
	}, mapper, nil
}
