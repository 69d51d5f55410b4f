// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package topology implements the mesh representation hierarchy: plain
// structured and unstructured meshes, and the parametric spline/LR-spline
// topologies that must be discretized before a visualization writer can
// consume them (spec §4.2).
package topology

import (
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
)

// CellType names the discrete cell shape a DiscreteTopology is made of.
type CellType int

const (
	CellLine CellType = iota
	CellQuadrilateral
	CellHexahedron
)

// Topology is implemented by every mesh representation.
type Topology interface {
	Pardim() int
	NumNodes() int
	NumCells() int
}

// DiscreteTopology additionally exposes connectivity, for topologies that
// are already sampled meshes (as opposed to parametric ones).
type DiscreteTopology interface {
	Topology
	CellType() CellType
	Cells() fielddata.FieldData[int]
}

// FieldInfo is the minimal view of a Field a discretization mapper
// needs. api.Field satisfies this without topology importing api (which
// would create an import cycle, since api imports topology for the
// Source contract).
type FieldInfo interface {
	IsCellwise() bool
}

// Mapper rewrites a field's control-point data onto a discretized
// topology's sample points (or cell centroids, for cellwise fields). It
// is pure with respect to the evaluation matrix captured when it was
// created (spec §4.2).
type Mapper func(field FieldInfo, data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error)

// Discretizable is implemented by parametric topologies (spline,
// LR-spline) that must be tessellated before a visualization writer can
// consume them.
type Discretizable interface {
	Topology
	Discretize(nvis int) (DiscreteTopology, Mapper, error)
}

// ---------------------------------------------------------------------
// StructuredTopology

// StructuredTopology is a cartesian structured grid of cellshape
// dimensions: num_nodes = prod(s+1), num_cells = prod(s).
type StructuredTopology struct {
	CellShape []int
}

func (s StructuredTopology) Pardim() int { return len(s.CellShape) }

func (s StructuredTopology) NumNodes() int {
	n := 1
	for _, c := range s.CellShape {
		n *= c + 1
	}
	return n
}

func (s StructuredTopology) NumCells() int {
	n := 1
	for _, c := range s.CellShape {
		n *= c
	}
	return n
}

// Discretize with nvis=1 returns an equivalent UnstructuredTopology with
// an identity mapper (spec §4.7 step 6, spec §8 invariant: "Discretize(1)
// composed with a structured topology preserves num_nodes and num_cells").
// nvis>1 is rejected: refining a structured grid is not meaningful
// without also knowing its node coordinates, which this package does not
// hold (StructuredTopology, as defined by spec §4.2, carries only cell
// shape); a reader that wants sub-sampling of a structured grid should
// discretize itself and expose an UnstructuredTopology.
func (s StructuredTopology) Discretize(nvis int) (DiscreteTopology, Mapper, error) {
	if nvis != 1 {
		return nil, nil, errs.New(errs.CapabilityMismatch, "StructuredTopology.Discretize",
			"nvis=%d requires node coordinates StructuredTopology does not carry", nvis)
	}
	ctype, err := structuredCellType(s.Pardim())
	if err != nil {
		return nil, nil, err
	}
	cells := enumerateStructuredCells(s.CellShape)
	identity := func(field FieldInfo, data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error) {
		return data, nil
	}
	return UnstructuredTopology{
		NumNodes_: s.NumNodes(),
		Cells_:    cells,
		CellType_: ctype,
	}, identity, nil
}

func structuredCellType(pardim int) (CellType, error) {
	switch pardim {
	case 1:
		return CellLine, nil
	case 2:
		return CellQuadrilateral, nil
	case 3:
		return CellHexahedron, nil
	default:
		return 0, errs.New(errs.ShapeMismatch, "StructuredTopology", "unsupported pardim %d", pardim)
	}
}

// enumerateStructuredCells builds the node-index connectivity array for
// a cartesian structured grid in lexicographic cell order, corners in
// the same binary-counting order as fielddata.Corners.
func enumerateStructuredCells(shape []int) fielddata.FieldData[int] {
	ndim := len(shape)
	nodeDims := make([]int, ndim)
	for i, s := range shape {
		nodeDims[i] = s + 1
	}
	nodeStride := make([]int, ndim)
	stride := 1
	for i := 0; i < ndim; i++ {
		nodeStride[i] = stride
		stride *= nodeDims[i]
	}

	numCells := 1
	for _, s := range shape {
		numCells *= s
	}
	nodesPerCell := 1 << ndim

	out := fielddata.Zeros[int](numCells, nodesPerCell)
	cellIdx := make([]int, ndim)
	for c := 0; c < numCells; c++ {
		// unravel c into per-axis cell indices, fastest axis first
		rem := c
		for axis := 0; axis < ndim; axis++ {
			cellIdx[axis] = rem % shape[axis]
			rem /= shape[axis]
		}
		row := out.Row(c)
		for corner := 0; corner < nodesPerCell; corner++ {
			nodeIdx := 0
			for axis := 0; axis < ndim; axis++ {
				bit := 0
				if corner&(1<<axis) != 0 {
					bit = 1
				}
				nodeIdx += (cellIdx[axis] + bit) * nodeStride[axis]
			}
			row[corner] = nodeIdx
		}
	}
	return out
}

// ---------------------------------------------------------------------
// UnstructuredTopology

// UnstructuredTopology is an explicit mesh: a cells connectivity array
// (rows = cells, cols = nodes-per-cell), a uniform cell type, and a
// polynomial degree (1 for linear elements; higher for serendipity-style
// elements with mid-side nodes, which readers may emit but which this
// package treats opaquely).
type UnstructuredTopology struct {
	NumNodes_ int
	Cells_    fielddata.FieldData[int]
	CellType_ CellType
	Degree    int
}

func (u UnstructuredTopology) Pardim() int {
	switch u.CellType_ {
	case CellLine:
		return 1
	case CellQuadrilateral:
		return 2
	default:
		return 3
	}
}

func (u UnstructuredTopology) NumNodes() int    { return u.NumNodes_ }
func (u UnstructuredTopology) NumCells() int    { return u.Cells_.NumRows }
func (u UnstructuredTopology) CellType() CellType { return u.CellType_ }
func (u UnstructuredTopology) Cells() fielddata.FieldData[int] { return u.Cells_ }

// Discretize on an already-discrete topology is the identity (nvis is
// ignored, matching PassthroughBFSZ semantics for sources that are
// already tessellated in the original).
func (u UnstructuredTopology) Discretize(nvis int) (DiscreteTopology, Mapper, error) {
	identity := func(field FieldInfo, data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error) {
		return data, nil
	}
	return u, identity, nil
}

// CreateMerger returns a merger suitable for BasisMerge: merging an
// already-unstructured topology with itself is the identity, since there
// is nothing left to unify (a single basis already).
func (u UnstructuredTopology) CreateMerger() Merger {
	return func(t Topology) (Topology, Mapper, error) {
		identity := func(field FieldInfo, data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error) {
			return data, nil
		}
		return t, identity, nil
	}
}

// Mergeable is implemented by topologies that know how to produce a
// Merger (currently only UnstructuredTopology; BasisMerge requires its
// master topology support this).
type Mergeable interface {
	Topology
	CreateMerger() Merger
}

// Merger is returned by create_merger (spec §4.6 BasisMerge): given a
// topology defined on some basis, it returns the shared merged topology
// and a per-field mapper from that basis onto it. A merger is cached per
// zone by the BasisMerge filter and reused for every basis/field seen
// in that zone during one step.
type Merger func(t Topology) (Topology, Mapper, error)
