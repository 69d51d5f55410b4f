// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topology

import (
	"testing"

	"github.com/TheBB/CICO/fielddata"
)

func singleElementLr() LrTopology {
	fn := LrFunction{
		Degree:       []int{0, 0},
		LocalKnots:   [][]float64{{0, 1}, {0, 1}},
		ControlIndex: 0,
	}
	el := LrElement{Lo: []float64{0, 0}, Hi: []float64{1, 1}, Functions: []int{0}}
	return LrTopology{Dim: 2, Functions: []LrFunction{fn}, Elements: []LrElement{el}}
}

func TestLrNodeAndCellCounts(t *testing.T) {
	lr := singleElementLr()
	if lr.NumNodes() != 1 {
		t.Fatalf("expected 1 function, got %d", lr.NumNodes())
	}
	if lr.NumCells() != 1 {
		t.Fatalf("expected 1 element, got %d", lr.NumCells())
	}
}

// TestLrConstantFunctionIsReproducedEverywhere: a single degree-0
// function spanning the whole element evaluates to 1 everywhere in its
// support, so the mapper should reproduce its control value at every
// sample point regardless of nvis.
func TestLrConstantFunctionIsReproducedEverywhere(t *testing.T) {
	lr := singleElementLr()
	data := fielddata.New([]float64{5, 6, 7}, 1, 3)

	disc, mapper, err := lr.Discretize(2)
	if err != nil {
		t.Fatalf("discretize: %v", err)
	}
	if disc.NumCells() != 4 {
		t.Fatalf("expected 4 refined cells, got %d", disc.NumCells())
	}
	if disc.NumNodes() != 9 {
		t.Fatalf("expected 9 refined nodes, got %d", disc.NumNodes())
	}

	out, err := mapper(nodalField{}, data)
	if err != nil {
		t.Fatalf("mapper: %v", err)
	}
	for i := 0; i < out.NumRows; i++ {
		row := out.Row(i)
		if row[0] != 5 || row[1] != 6 || row[2] != 7 {
			t.Fatalf("row %d: expected constant (5,6,7), got %v", i, row)
		}
	}
}

func TestLrDiscretizeRejectsNvisZero(t *testing.T) {
	lr := singleElementLr()
	if _, _, err := lr.Discretize(0); err == nil {
		t.Fatal("expected error for nvis=0")
	}
}
