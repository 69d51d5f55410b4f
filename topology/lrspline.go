// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topology

import (
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
)

// LrFunction is one locally-refined B-spline basis function: a local
// open knot vector per direction (length Degree[d]+2, since a single
// function's own support is exactly one element wide in the reduced
// sense used here) plus the row of the global control-point table it
// corresponds to.
type LrFunction struct {
	Degree       []int
	LocalKnots   [][]float64
	ControlIndex int
	Weight       float64 // 0 means "unweighted" (treated as 1)
}

func (f LrFunction) weight() float64 {
	if f.Weight == 0 {
		return 1
	}
	return f.Weight
}

// evaluate returns this function's scalar value at a parametric point,
// the tensor product of its per-direction univariate value (each
// direction's bsplineBasisAll on a length-(degree+2) local knot vector
// collapses to exactly one nonzero entry).
func (f LrFunction) evaluate(params []float64) float64 {
	v := 1.0
	for d, t := range params {
		vals := bsplineBasisAll(f.LocalKnots[d], f.Degree[d], t)
		if len(vals) == 0 {
			return 0
		}
		v *= vals[0]
	}
	return v
}

// LrElement is one leaf of the locally-refined mesh: a parametric
// bounding box plus the indices (into the owning LrTopology.Functions
// slice) of every basis function with support overlapping it.
type LrElement struct {
	Lo, Hi    []float64
	Functions []int
}

// LrTopology is a locally-refined (LR) spline topology: unlike
// SplineTopology's single tensor-product knot vector per direction,
// each element carries its own active function set, allowing local mesh
// refinement (spec §4.2 "SplineTopology / LrTopology"). Per spec §9's
// acknowledgment that true LR-spline numerics are delegated to an
// external evaluator, elements here do not share nodes across their
// boundaries once discretized -- each element is tessellated
// independently, which is a conforming but non-welded mesh; concrete
// writers are expected to weld coincident points the way KeyZones welds
// zone corners.
type LrTopology struct {
	Dim       int
	Functions []LrFunction
	Elements  []LrElement
}

func (t LrTopology) Pardim() int    { return t.Dim }
func (t LrTopology) NumNodes() int  { return len(t.Functions) }
func (t LrTopology) NumCells() int  { return len(t.Elements) }

// Discretize tessellates every element independently into an nvis^Dim
// grid of sub-cells, evaluating each element's active functions at every
// sample point. The resulting UnstructuredTopology's nodes are the union
// (unwelded) of every element's local sample grid.
func (t LrTopology) Discretize(nvis int) (DiscreteTopology, Mapper, error) {
	if nvis < 1 {
		return nil, nil, errs.New(errs.CapabilityMismatch, "LrTopology.Discretize", "nvis must be >= 1, got %d", nvis)
	}
	ctype, err := structuredCellType(t.Dim)
	if err != nil {
		return nil, nil, err
	}

	type elementSample struct {
		activeFns  []int
		nodalRows  [][]float64
		cellRows   [][]float64
		cellShape  []int
		nodeOffset int
	}
	samples := make([]elementSample, len(t.Elements))

	totalNodes := 0
	var allCells [][]int
	for ei, el := range t.Elements {
		paramsPerDir := make([][]float64, t.Dim)
		cellParamsPerDir := make([][]float64, t.Dim)
		cellShape := make([]int, t.Dim)
		for d := 0; d < t.Dim; d++ {
			lo, hi := el.Lo[d], el.Hi[d]
			pts := make([]float64, nvis+1)
			for j := 0; j <= nvis; j++ {
				pts[j] = lo + (hi-lo)*float64(j)/float64(nvis)
			}
			paramsPerDir[d] = pts
			cellParamsPerDir[d] = cellCentroidParams(pts)
			cellShape[d] = len(cellParamsPerDir[d])
		}

		evalAt := func(paramGrid [][]float64) [][]float64 {
			dims := make([]int, t.Dim)
			for d, p := range paramGrid {
				dims[d] = len(p)
			}
			total := 1
			for _, d := range dims {
				total *= d
			}
			rows := make([][]float64, total)
			forEachGridIndex(dims, func(idx []int, flat int) {
				params := make([]float64, t.Dim)
				for d, i := range idx {
					params[d] = paramGrid[d][i]
				}
				row := make([]float64, len(el.Functions))
				for k, fnIdx := range el.Functions {
					row[k] = t.Functions[fnIdx].evaluate(params) * t.Functions[fnIdx].weight()
				}
				rows[flat] = row
			})
			return rows
		}

		nodal := evalAt(paramsPerDir)
		cellRows := evalAt(cellParamsPerDir)

		localCells := enumerateStructuredCells(cellShape)
		for r := 0; r < localCells.NumRows; r++ {
			row := append([]int(nil), localCells.Row(r)...)
			for j := range row {
				row[j] += totalNodes
			}
			allCells = append(allCells, row)
		}

		samples[ei] = elementSample{
			activeFns:  el.Functions,
			nodalRows:  nodal,
			cellRows:   cellRows,
			cellShape:  cellShape,
			nodeOffset: totalNodes,
		}
		totalNodes += len(nodal)
	}

	nodesPerCell := 0
	if len(allCells) > 0 {
		nodesPerCell = len(allCells[0])
	}
	cells := fielddata.Zeros[int](len(allCells), nodesPerCell)
	for i, row := range allCells {
		copy(cells.Row(i), row)
	}

	weights := make([]float64, len(t.Functions))
	for i, f := range t.Functions {
		weights[i] = f.weight()
	}

	buildFor := func(useCells bool) func(data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error) {
		return func(data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error) {
			rows := 0
			for _, s := range samples {
				if useCells {
					rows += len(s.cellRows)
				} else {
					rows += len(s.nodalRows)
				}
			}
			out := fielddata.Zeros[float64](rows, data.NumComps)
			pos := 0
			for _, s := range samples {
				src := s.nodalRows
				if useCells {
					src = s.cellRows
				}
				for _, row := range src {
					denom := 0.0
					for _, w := range row {
						denom += w
					}
					if denom != 0 {
						dst := out.Row(pos)
						for k, w := range row {
							if w == 0 {
								continue
							}
							coef := w / denom
							fn := t.Functions[s.activeFns[k]]
							ctrl := data.Row(fn.ControlIndex)
							for c := range dst {
								dst[c] += coef * ctrl[c]
							}
						}
					}
					pos++
				}
			}
			return out, nil
		}
	}
	nodalBuilder := buildFor(false)
	cellBuilder := buildFor(true)

	mapper := func(field FieldInfo, data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error) {
		if field.IsCellwise() {
			return cellBuilder(data)
		}
		return nodalBuilder(data)
	}

	return UnstructuredTopology{
		NumNodes_: totalNodes,
		Cells_:    cells,
		CellType_: ctype,
	}, mapper, nil
}
