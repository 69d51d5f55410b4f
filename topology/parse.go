// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topology

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
)

// ParseTopologyBlob dispatches on a topology blob's header tag and
// returns its corner points, the parsed Topology, and its control-point
// (or node-coordinate) data, matching spec §4.2's "topologies created
// from binary/text blobs" contract. The concrete wire formats this
// package reads are a compact line-oriented stand-in for the real
// G2/LR/HDF5 encodings those formats use in practice: parsing the actual
// byte-for-byte G2/LR grammars is a concrete-reader concern, explicitly
// out of scope per spec §1 ("concrete file-format readers... are
// external collaborators"). This function's contract -- tag dispatch in,
// (corners, topology, control points) out -- is what readers plug into.
func ParseTopologyBlob(data []byte) (fielddata.FieldData[float64], Topology, fielddata.FieldData[float64], error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	if !scanner.Scan() {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.DataFormatError, "topology.ParseTopologyBlob", "empty blob").WithOffset(0)
	}
	header := strings.TrimSpace(scanner.Text())
	switch {
	case header == "# LAGRANGIAN":
		return parseLagrangian(scanner)
	case header == "# LRSPLINE":
		return parseLrBlob(scanner)
	default:
		return parseBSpline(header, scanner)
	}
}

func nextLine(s *bufio.Scanner) (string, bool) {
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		return line, true
	}
	return "", false
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func keyedInts(line, key string) ([]int, error) {
	val, ok := keyedValue(line, key)
	if !ok {
		return nil, errs.New(errs.DataFormatError, "topology.parse", "missing key %q in %q", key, line)
	}
	return parseInts(strings.Split(val, ","))
}

func keyedValue(line, key string) (string, bool) {
	for _, tok := range strings.Fields(line) {
		name, val, found := strings.Cut(tok, "=")
		if found && name == key {
			return val, true
		}
	}
	return "", false
}

// parseControlPoints reads a "controlpoints rows=R cols=C" header line
// followed by R lines of C floats.
func parseControlPoints(s *bufio.Scanner) (fielddata.FieldData[float64], error) {
	line, ok := nextLine(s)
	if !ok || !strings.HasPrefix(line, "controlpoints") {
		return fielddata.FieldData[float64]{}, errs.New(errs.DataFormatError, "topology.parseControlPoints", "expected controlpoints header, got %q", line)
	}
	rc, err := keyedInts(line, "rows")
	if err != nil {
		return fielddata.FieldData[float64]{}, errs.New(errs.DataFormatError, "topology.parseControlPoints", "bad rows: %v", err)
	}
	cc, err := keyedInts(line, "cols")
	if err != nil {
		return fielddata.FieldData[float64]{}, errs.New(errs.DataFormatError, "topology.parseControlPoints", "bad cols: %v", err)
	}
	rows, cols := rc[0], cc[0]
	out := fielddata.Zeros[float64](rows, cols)
	for r := 0; r < rows; r++ {
		rowLine, ok := nextLine(s)
		if !ok {
			return fielddata.FieldData[float64]{}, errs.New(errs.DataFormatError, "topology.parseControlPoints", "truncated control point block at row %d", r)
		}
		vals, err := parseFloats(strings.Fields(rowLine))
		if err != nil || len(vals) != cols {
			return fielddata.FieldData[float64]{}, errs.New(errs.DataFormatError, "topology.parseControlPoints", "malformed control point row %d", r)
		}
		copy(out.Row(r), vals)
	}
	return out, nil
}

func parseBSpline(header string, s *bufio.Scanner) (fielddata.FieldData[float64], Topology, fielddata.FieldData[float64], error) {
	if !strings.HasPrefix(header, "# BSPLINE") {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.DataFormatError, "topology.parseBSpline", "unrecognized header %q", header)
	}
	degree, err := keyedInts(header, "degree")
	if err != nil {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.DataFormatError, "topology.parseBSpline", "bad degree: %v", err)
	}
	knots := make([][]float64, len(degree))
	for d := range degree {
		line, ok := nextLine(s)
		if !ok {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseBSpline", "missing knot vector for direction %d", d)
		}
		kv, err := parseFloats(strings.Fields(line))
		if err != nil {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseBSpline", "bad knot vector for direction %d: %v", d, err)
		}
		knots[d] = kv
	}
	cps, err := parseControlPoints(s)
	if err != nil {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{}, err
	}
	topo := SplineTopology{Degree: degree, Knots: knots}
	if topo.NumNodes() != cps.NumRows {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.ShapeMismatch, "topology.parseBSpline", "expected %d control points, got %d", topo.NumNodes(), cps.NumRows)
	}
	dims := make([]int, len(degree))
	for d := range degree {
		dims[d] = topo.numBasis()[d]
	}
	corners, err := fielddata.Corners(cps, dims)
	if err != nil {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{}, err
	}
	return corners, topo, cps, nil
}

func parseLagrangian(s *bufio.Scanner) (fielddata.FieldData[float64], Topology, fielddata.FieldData[float64], error) {
	line, ok := nextLine(s)
	if !ok || !strings.HasPrefix(line, "cellshape") {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.DataFormatError, "topology.parseLagrangian", "expected cellshape header, got %q", line)
	}
	shape, err := keyedInts(line, "cellshape")
	if err != nil {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.DataFormatError, "topology.parseLagrangian", "bad cellshape: %v", err)
	}
	cps, err := parseControlPoints(s)
	if err != nil {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{}, err
	}
	topo := StructuredTopology{CellShape: shape}
	if topo.NumNodes() != cps.NumRows {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.ShapeMismatch, "topology.parseLagrangian", "expected %d nodes, got %d", topo.NumNodes(), cps.NumRows)
	}
	dims := make([]int, len(shape))
	for i, c := range shape {
		dims[i] = c + 1
	}
	corners, err := fielddata.Corners(cps, dims)
	if err != nil {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{}, err
	}
	return corners, topo, cps, nil
}

func parseLrBlob(s *bufio.Scanner) (fielddata.FieldData[float64], Topology, fielddata.FieldData[float64], error) {
	fnHeader, ok := nextLine(s)
	if !ok || !strings.HasPrefix(fnHeader, "functions") {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.DataFormatError, "topology.parseLrBlob", "expected functions header, got %q", fnHeader)
	}
	nf, err := keyedInts(fnHeader, "functions")
	if err != nil {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.DataFormatError, "topology.parseLrBlob", "bad functions count: %v", err)
	}

	functions := make([]LrFunction, nf[0])
	dim := 0
	for i := range functions {
		line, ok := nextLine(s)
		if !ok {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseLrBlob", "truncated function block at %d", i)
		}
		degree, err := keyedInts(line, "degree")
		if err != nil {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseLrBlob", "bad degree in function %d: %v", i, err)
		}
		knotsVal, found := keyedValue(line, "knots")
		if !found {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseLrBlob", "missing knots in function %d", i)
		}
		var localKnots [][]float64
		for _, dirStr := range strings.Split(knotsVal, ";") {
			vals, err := parseFloats(strings.Split(dirStr, ","))
			if err != nil {
				return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
					errs.New(errs.DataFormatError, "topology.parseLrBlob", "bad knots in function %d: %v", i, err)
			}
			localKnots = append(localKnots, vals)
		}
		ctrl, err := keyedInts(line, "controlindex")
		if err != nil {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseLrBlob", "bad controlindex in function %d: %v", i, err)
		}
		weight := 1.0
		if wv, found := keyedValue(line, "weight"); found {
			weight, err = strconv.ParseFloat(wv, 64)
			if err != nil {
				return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
					errs.New(errs.DataFormatError, "topology.parseLrBlob", "bad weight in function %d: %v", i, err)
			}
		}
		dim = len(degree)
		functions[i] = LrFunction{Degree: degree, LocalKnots: localKnots, ControlIndex: ctrl[0], Weight: weight}
	}

	elHeader, ok := nextLine(s)
	if !ok || !strings.HasPrefix(elHeader, "elements") {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.DataFormatError, "topology.parseLrBlob", "expected elements header, got %q", elHeader)
	}
	ne, err := keyedInts(elHeader, "elements")
	if err != nil {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.DataFormatError, "topology.parseLrBlob", "bad elements count: %v", err)
	}
	elements := make([]LrElement, ne[0])
	lo := make([]float64, dim)
	hi := make([]float64, dim)
	first := true
	for i := range elements {
		line, ok := nextLine(s)
		if !ok {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseLrBlob", "truncated element block at %d", i)
		}
		loVal, _ := keyedValue(line, "lo")
		hiVal, _ := keyedValue(line, "hi")
		elo, err := parseFloats(strings.Split(loVal, ","))
		if err != nil {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseLrBlob", "bad lo in element %d: %v", i, err)
		}
		ehi, err := parseFloats(strings.Split(hiVal, ","))
		if err != nil {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseLrBlob", "bad hi in element %d: %v", i, err)
		}
		fns, err := keyedInts(line, "functions")
		if err != nil {
			return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
				errs.New(errs.DataFormatError, "topology.parseLrBlob", "bad functions in element %d: %v", i, err)
		}
		elements[i] = LrElement{Lo: elo, Hi: ehi, Functions: fns}
		for d := 0; d < dim; d++ {
			if first || elo[d] < lo[d] {
				lo[d] = elo[d]
			}
			if first || ehi[d] > hi[d] {
				hi[d] = ehi[d]
			}
		}
		first = false
	}

	topo := LrTopology{Dim: dim, Functions: functions, Elements: elements}

	maxCtrl := 0
	for _, f := range functions {
		if f.ControlIndex+1 > maxCtrl {
			maxCtrl = f.ControlIndex + 1
		}
	}
	cps, err := parseControlPoints(s)
	if err != nil {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{}, err
	}
	if cps.NumRows != maxCtrl {
		return fielddata.FieldData[float64]{}, nil, fielddata.FieldData[float64]{},
			errs.New(errs.ShapeMismatch, "topology.parseLrBlob", "expected %d control points, got %d", maxCtrl, cps.NumRows)
	}

	nc := 1 << dim
	corners := fielddata.Zeros[float64](nc, dim)
	for c := 0; c < nc; c++ {
		row := corners.Row(c)
		for axis := 0; axis < dim; axis++ {
			if c&(1<<axis) != 0 {
				row[axis] = hi[axis]
			} else {
				row[axis] = lo[axis]
			}
		}
	}
	return corners, topo, cps, nil
}
