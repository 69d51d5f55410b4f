// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fielddata implements FieldData, the common numeric carrier that
// flows between filter stages: a 2-D array of scalars with num_rows
// entities (nodes or cells) and num_comps components per entity.
package fielddata

import (
	"math"

	"github.com/TheBB/CICO/errs"
	"github.com/cpmech/gosl/chk"
)

// Number is the set of element types FieldData can hold.
type Number interface {
	~float64 | ~float32 | ~int
}

// FieldData is a value-semantic row-major 2-D numeric buffer. Data is laid
// out entity-major: row i's components occupy Data[i*NumComps:(i+1)*NumComps].
type FieldData[T Number] struct {
	Data      []T
	NumRows   int
	NumComps  int
}

// New builds a FieldData from a flat row-major slice. It panics (a
// programmer error, not a data error) if the slice length doesn't match
// rows*comps, since that can only happen from miswired caller code.
func New[T Number](data []T, rows, comps int) FieldData[T] {
	if comps < 1 {
		chk.Panic("fielddata: num_comps must be >= 1, got %d", comps)
	}
	if len(data) != rows*comps {
		chk.Panic("fielddata: data length %d does not match rows=%d comps=%d", len(data), rows, comps)
	}
	return FieldData[T]{Data: data, NumRows: rows, NumComps: comps}
}

// Zeros allocates a zero-filled FieldData of the given shape.
func Zeros[T Number](rows, comps int) FieldData[T] {
	return New(make([]T, rows*comps), rows, comps)
}

// Row returns the component slice for entity i. The returned slice aliases
// the underlying buffer; callers must not retain it across a mutation of f.
func (f FieldData[T]) Row(i int) []T {
	return f.Data[i*f.NumComps : (i+1)*f.NumComps]
}

// Component returns a column (a single component across all rows) as a
// freshly allocated slice.
func (f FieldData[T]) Component(c int) []T {
	out := make([]T, f.NumRows)
	for i := 0; i < f.NumRows; i++ {
		out[i] = f.Data[i*f.NumComps+c]
	}
	return out
}

// Concat joins inputs along the component axis: every input must have the
// same NumRows; the result has the summed NumComps.
func Concat[T Number](inputs ...FieldData[T]) (FieldData[T], error) {
	if len(inputs) == 0 {
		return FieldData[T]{}, errs.New(errs.ShapeMismatch, "FieldData.concat", "no inputs given")
	}
	rows := inputs[0].NumRows
	totalComps := 0
	for _, in := range inputs {
		if in.NumRows != rows {
			return FieldData[T]{}, errs.New(errs.ShapeMismatch, "FieldData.concat",
				"row count mismatch: %d vs %d", in.NumRows, rows)
		}
		totalComps += in.NumComps
	}
	out := Zeros[T](rows, totalComps)
	for row := 0; row < rows; row++ {
		off := 0
		for _, in := range inputs {
			copy(out.Row(row)[off:off+in.NumComps], in.Row(row))
			off += in.NumComps
		}
	}
	return out, nil
}

// Join concatenates inputs along the row axis: every input must have the
// same NumComps; the result rows are the inputs' rows, in order.
func Join[T Number](inputs ...FieldData[T]) (FieldData[T], error) {
	if len(inputs) == 0 {
		return FieldData[T]{}, errs.New(errs.ShapeMismatch, "FieldData.join", "no inputs given")
	}
	comps := inputs[0].NumComps
	totalRows := 0
	for _, in := range inputs {
		if in.NumComps != comps {
			return FieldData[T]{}, errs.New(errs.ShapeMismatch, "FieldData.join",
				"component count mismatch: %d vs %d", in.NumComps, comps)
		}
		totalRows += in.NumRows
	}
	data := make([]T, 0, totalRows*comps)
	for _, in := range inputs {
		data = append(data, in.Data...)
	}
	return New(data, totalRows, comps), nil
}

// Slice selects component columns by index, preserving row count.
func (f FieldData[T]) Slice(idxs []int) (FieldData[T], error) {
	if len(idxs) == 0 {
		return FieldData[T]{}, errs.New(errs.ShapeMismatch, "FieldData.slice", "no component indices given")
	}
	for _, idx := range idxs {
		if idx < 0 || idx >= f.NumComps {
			return FieldData[T]{}, errs.New(errs.ShapeMismatch, "FieldData.slice",
				"component index %d out of range [0,%d)", idx, f.NumComps)
		}
	}
	out := Zeros[T](f.NumRows, len(idxs))
	for row := 0; row < f.NumRows; row++ {
		src := f.Row(row)
		dst := out.Row(row)
		for j, idx := range idxs {
			dst[j] = src[idx]
		}
	}
	return out, nil
}

// Reshape reinterprets the buffer with a different component count,
// keeping the flat data untouched. rows*comps must equal len(Data).
func (f FieldData[T]) Reshape(rows, comps int) (FieldData[T], error) {
	if rows*comps != len(f.Data) {
		return FieldData[T]{}, errs.New(errs.ShapeMismatch, "FieldData.reshape",
			"cannot reshape %d elements into rows=%d comps=%d", len(f.Data), rows, comps)
	}
	return New(append([]T(nil), f.Data...), rows, comps), nil
}

// corners returns the number of corners for an N-dimensional structured
// grid (2^N), used by Corners below.
func corners(ndim int) int {
	n := 1
	for i := 0; i < ndim; i++ {
		n *= 2
	}
	return n
}

// Corners extracts the 2^ndim corner points of a structured N-D point
// grid stored row-major with shape dims (length ndim), in the canonical
// order: binary counting over the axes, fastest axis first.
func Corners(points FieldData[float64], dims []int) (FieldData[float64], error) {
	ndim := len(dims)
	nc := corners(ndim)
	out := Zeros[float64](nc, points.NumComps)
	strides := make([]int, ndim)
	stride := 1
	for i := 0; i < ndim; i++ {
		strides[i] = stride
		stride *= dims[i]
	}
	for c := 0; c < nc; c++ {
		idx := 0
		for axis := 0; axis < ndim; axis++ {
			if c&(1<<axis) != 0 {
				idx += (dims[axis] - 1) * strides[axis]
			}
		}
		if idx >= points.NumRows {
			return FieldData[float64]{}, errs.New(errs.ShapeMismatch, "FieldData.corners",
				"corner index %d out of range for %d rows", idx, points.NumRows)
		}
		copy(out.Row(c), points.Row(idx))
	}
	return out, nil
}

// Add returns the elementwise sum of two equally-shaped FieldData.
func Add[T Number](a, b FieldData[T]) (FieldData[T], error) {
	if a.NumRows != b.NumRows || a.NumComps != b.NumComps {
		return FieldData[T]{}, errs.New(errs.ShapeMismatch, "FieldData.add", "shape mismatch")
	}
	out := Zeros[T](a.NumRows, a.NumComps)
	for i := range a.Data {
		out.Data[i] = a.Data[i] + b.Data[i]
	}
	return out, nil
}

// Scale multiplies every element by a scalar.
func (f FieldData[T]) Scale(s T) FieldData[T] {
	out := Zeros[T](f.NumRows, f.NumComps)
	for i, v := range f.Data {
		out.Data[i] = v * s
	}
	return out
}

// Rotate applies a 3x3 rotation matrix (row-major, 9 elements) to a
// FieldData[float64] with exactly 3 components per row.
func Rotate(f FieldData[float64], m [9]float64) (FieldData[float64], error) {
	if f.NumComps != 3 {
		return FieldData[float64]{}, errs.New(errs.ShapeMismatch, "FieldData.rotate", "rotate requires 3 components, got %d", f.NumComps)
	}
	out := Zeros[float64](f.NumRows, 3)
	for i := 0; i < f.NumRows; i++ {
		x, y, z := f.Data[i*3], f.Data[i*3+1], f.Data[i*3+2]
		out.Data[i*3+0] = m[0]*x + m[1]*y + m[2]*z
		out.Data[i*3+1] = m[3]*x + m[4]*y + m[5]*z
		out.Data[i*3+2] = m[6]*x + m[7]*y + m[8]*z
	}
	return out, nil
}

// SphericalToCartesian converts rows of (lon degrees, lat degrees[, r]) to
// (x, y, z). When a row has only 2 components, r defaults to 1.
func SphericalToCartesian(f FieldData[float64]) (FieldData[float64], error) {
	if f.NumComps != 2 && f.NumComps != 3 {
		return FieldData[float64]{}, errs.New(errs.ShapeMismatch, "FieldData.spherical_to_cartesian",
			"expected 2 or 3 components, got %d", f.NumComps)
	}
	out := Zeros[float64](f.NumRows, 3)
	for i := 0; i < f.NumRows; i++ {
		row := f.Row(i)
		lon := row[0] * math.Pi / 180
		lat := row[1] * math.Pi / 180
		r := 1.0
		if f.NumComps == 3 {
			r = row[2]
		}
		out.Data[i*3+0] = r * math.Cos(lat) * math.Cos(lon)
		out.Data[i*3+1] = r * math.Cos(lat) * math.Sin(lon)
		out.Data[i*3+2] = r * math.Sin(lat)
	}
	return out, nil
}

// SphericalToCartesianVectorField converts a vector field expressed in
// local east-north-up frames at each point in coords (lon, lat[, r]
// degrees) into cartesian vectors. data and coords must have the same
// NumRows; data must have exactly 3 components (east, north, up).
func SphericalToCartesianVectorField(data, coords FieldData[float64]) (FieldData[float64], error) {
	if data.NumComps != 3 {
		return FieldData[float64]{}, errs.New(errs.ShapeMismatch, "FieldData.spherical_to_cartesian_vector_field",
			"expected 3 data components, got %d", data.NumComps)
	}
	if data.NumRows != coords.NumRows {
		return FieldData[float64]{}, errs.New(errs.ShapeMismatch, "FieldData.spherical_to_cartesian_vector_field",
			"row count mismatch: data=%d coords=%d", data.NumRows, coords.NumRows)
	}
	out := Zeros[float64](data.NumRows, 3)
	for i := 0; i < data.NumRows; i++ {
		c := coords.Row(i)
		lon := c[0] * math.Pi / 180
		lat := c[1] * math.Pi / 180
		sLon, cLon := math.Sincos(lon)
		sLat, cLat := math.Sincos(lat)

		// local east-north-up basis vectors expressed in cartesian xyz
		east := [3]float64{-sLon, cLon, 0}
		north := [3]float64{-sLat * cLon, -sLat * sLon, cLat}
		up := [3]float64{cLat * cLon, cLat * sLon, sLat}

		v := data.Row(i)
		for k := 0; k < 3; k++ {
			out.Data[i*3+k] = v[0]*east[k] + v[1]*north[k] + v[2]*up[k]
		}
	}
	return out, nil
}

// CartesianToSphericalVectorField is the inverse of
// SphericalToCartesianVectorField: given cartesian vectors and the
// (lon, lat[, r]) coordinates they live at, returns the local
// east-north-up representation.
func CartesianToSphericalVectorField(data, coords FieldData[float64]) (FieldData[float64], error) {
	if data.NumComps != 3 {
		return FieldData[float64]{}, errs.New(errs.ShapeMismatch, "FieldData.cartesian_to_spherical_vector_field",
			"expected 3 data components, got %d", data.NumComps)
	}
	if data.NumRows != coords.NumRows {
		return FieldData[float64]{}, errs.New(errs.ShapeMismatch, "FieldData.cartesian_to_spherical_vector_field",
			"row count mismatch: data=%d coords=%d", data.NumRows, coords.NumRows)
	}
	out := Zeros[float64](data.NumRows, 3)
	for i := 0; i < data.NumRows; i++ {
		c := coords.Row(i)
		lon := c[0] * math.Pi / 180
		lat := c[1] * math.Pi / 180
		sLon, cLon := math.Sincos(lon)
		sLat, cLat := math.Sincos(lat)

		east := [3]float64{-sLon, cLon, 0}
		north := [3]float64{-sLat * cLon, -sLat * sLon, cLat}
		up := [3]float64{cLat * cLon, cLat * sLon, sLat}

		v := data.Row(i)
		out.Data[i*3+0] = v[0]*east[0] + v[1]*east[1] + v[2]*east[2]
		out.Data[i*3+1] = v[0]*north[0] + v[1]*north[1] + v[2]*north[2]
		out.Data[i*3+2] = v[0]*up[0] + v[1]*up[1] + v[2]*up[2]
	}
	return out, nil
}
