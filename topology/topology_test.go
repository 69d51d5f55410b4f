// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topology

import "testing"

func TestStructuredNodeAndCellCounts(t *testing.T) {
	s := StructuredTopology{CellShape: []int{2, 3}}
	if s.NumNodes() != 3*4 {
		t.Fatalf("expected 12 nodes, got %d", s.NumNodes())
	}
	if s.NumCells() != 2*3 {
		t.Fatalf("expected 6 cells, got %d", s.NumCells())
	}
	if s.Pardim() != 2 {
		t.Fatalf("expected pardim 2, got %d", s.Pardim())
	}
}

// TestDiscretizeOnePreservesCounts mirrors spec §8's invariant:
// Discretize(1) composed with a structured topology preserves num_nodes
// and num_cells.
func TestDiscretizeOnePreservesCounts(t *testing.T) {
	s := StructuredTopology{CellShape: []int{2, 2}}
	disc, mapper, err := s.Discretize(1)
	if err != nil {
		t.Fatalf("discretize: %v", err)
	}
	if disc.NumNodes() != s.NumNodes() {
		t.Fatalf("node count changed: got %d want %d", disc.NumNodes(), s.NumNodes())
	}
	if disc.NumCells() != s.NumCells() {
		t.Fatalf("cell count changed: got %d want %d", disc.NumCells(), s.NumCells())
	}
	if disc.CellType() != CellQuadrilateral {
		t.Fatalf("expected quadrilateral cells, got %v", disc.CellType())
	}
	if mapper == nil {
		t.Fatal("expected non-nil mapper")
	}
}

func TestDiscretizeRejectsNvisGreaterThanOne(t *testing.T) {
	s := StructuredTopology{CellShape: []int{2}}
	if _, _, err := s.Discretize(2); err == nil {
		t.Fatal("expected error for nvis > 1 on a structured topology")
	}
}

func TestUnstructuredDiscretizeIsIdentity(t *testing.T) {
	u := UnstructuredTopology{NumNodes_: 4, CellType_: CellQuadrilateral,
		Cells_: enumerateStructuredCells([]int{1, 1})}
	disc, _, err := u.Discretize(5)
	if err != nil {
		t.Fatalf("discretize: %v", err)
	}
	if disc.NumCells() != u.NumCells() || disc.NumNodes() != u.NumNodes() {
		t.Fatalf("identity discretize changed counts")
	}
}

func TestEnumerateStructuredCellsSingleCell(t *testing.T) {
	cells := enumerateStructuredCells([]int{1, 1})
	if cells.NumRows != 1 || cells.NumComps != 4 {
		t.Fatalf("expected 1x4, got %dx%d", cells.NumRows, cells.NumComps)
	}
	want := []int{0, 1, 2, 3}
	row := cells.Row(0)
	for i, w := range want {
		if row[i] != w {
			t.Errorf("corner %d: got %d want %d", i, row[i], w)
		}
	}
}
