// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package api defines the vocabulary the conversion pipeline is built from:
// the Source contract a reader exposes, the capability flags that drive
// filter insertion, and the field/basis/step/zone value types that flow
// through every stage.
package api

import (
	"strings"

	"github.com/TheBB/CICO/fielddata"
	"github.com/TheBB/CICO/topology"
	"github.com/TheBB/CICO/zone"
)

// Endianness selects the byte order a binary reader should assume.
type Endianness int

const (
	Native Endianness = iota
	Little
	Big
)

// Dimensionality tells a structured-grid reader how to interpret its axes.
type Dimensionality int

const (
	Volumetric Dimensionality = iota
	Planar
	Extrude
)

// OutIsVolumetric reports whether the output mesh should be treated as a
// fully volumetric (3-D) mesh.
func (d Dimensionality) OutIsVolumetric() bool { return d != Planar }

// InAllowsPlanar reports whether the input's grid may legitimately be 2-D.
func (d Dimensionality) InAllowsPlanar() bool { return d != Volumetric }

// Staggering selects whether a gridded field lives on cell interiors
// (Inner) or cell faces (Outer).
type Staggering int

const (
	Inner Staggering = iota
	Outer
)

// Rationality controls whether a spline basis is read as rational
// (NURBS), non-rational, or left as found in the source.
type Rationality int

const (
	RationalityNone Rationality = iota
	RationalityAlways
	RationalityNever
)

// ReaderSettings configures a Source before iteration begins. See spec §6.
type ReaderSettings struct {
	Endianness      Endianness
	Dimensionality  Dimensionality
	Staggering      Staggering
	Periodic        bool
	MeshFilename    string
	Rationality     Rationality
}

// OutputMode is a writer-specific hint (e.g. ascii vs binary VTU); its
// valid values are defined by the concrete writer, so it is left opaque
// here.
type OutputMode string

// WriterSettings configures a Sink before consume begins. See spec §6.
type WriterSettings struct {
	OutputMode OutputMode
	Endianness Endianness
}

// SplitFieldSpec describes one derived field to emit from an existing
// field's components (see the Split filter).
type SplitFieldSpec struct {
	SourceName string
	NewName    string
	Components []int
	Destroy    bool
}

// RecombineFieldSpec describes one field to synthesize by concatenating
// several existing fields' components (see the Recombine filter).
type RecombineFieldSpec struct {
	SourceNames []string
	NewName     string
}

// SourceProperties are the boolean capability flags a Source advertises;
// the pipeline assembler reads them to decide which filters to insert.
type SourceProperties struct {
	Instantaneous     bool
	GloballyKeyed     bool
	DiscreteTopology  bool
	SingleBasis       bool
	SingleZoned       bool
	SplitFields       []SplitFieldSpec
	RecombineFields   []RecombineFieldSpec
	StepInterpretation string
}

// Update returns a copy of p with the given mutator applied; this mirrors
// attrs' structural-update pattern used throughout the original
// (SourceProperties.update(**kwargs)) without requiring a kwargs map in Go.
func (p SourceProperties) Update(mutate func(*SourceProperties)) SourceProperties {
	mutate(&p)
	return p
}

// Requirements are the symmetric flags a sink exposes describing what
// shape of source it needs (spec §4.5).
type Requirements struct {
	RequireSingleBasis      bool
	RequireDiscreteTopology bool
	RequireSingleZone       bool
	RequireInstantaneous    bool
}

// ScalarInterpretation distinguishes ordinary scalar fields from
// modal-analysis eigenvalue output.
type ScalarInterpretation int

const (
	ScalarGeneric ScalarInterpretation = iota
	ScalarEigenmode
)

// ToVector promotes a scalar interpretation to the corresponding vector
// interpretation, used when two scalars are concatenated into a vector.
func (s ScalarInterpretation) ToVector() VectorInterpretation {
	if s == ScalarEigenmode {
		return VectorEigenmode
	}
	return VectorGeneric
}

// VectorInterpretation further classifies a vector field's physical
// meaning, used by EigenDisp and by field-type concatenation.
type VectorInterpretation int

const (
	VectorGeneric VectorInterpretation = iota
	VectorDisplacement
	VectorEigenmode
	VectorFlow
)

// Join combines two vector interpretations the way the original's
// VectorInterpretation.join does: Generic is absorbing, two equal
// interpretations are kept, and two differing ones join to Generic.
func (v VectorInterpretation) Join(other VectorInterpretation) VectorInterpretation {
	if v == VectorGeneric || other == VectorGeneric {
		return VectorGeneric
	}
	if v != other {
		// Mismatched non-generic interpretations indicate a filter
		// wired two incompatible fields together; this is a
		// programming error, not a data error.
		return VectorGeneric
	}
	return v
}

// ToScalar demotes a vector interpretation to its scalar counterpart,
// used when a vector field is sliced down to one component.
func (v VectorInterpretation) ToScalar() ScalarInterpretation {
	if v == VectorEigenmode {
		return ScalarEigenmode
	}
	return ScalarGeneric
}

// CoordinateSystem is implemented by every coordinate-system variant; see
// package coord for the concrete types (Generic, Named, Geodetic, Utm,
// Geocentric).
type CoordinateSystem interface {
	// Name is the stable tag used as a graph node key, e.g. "Generic",
	// "UTM".
	Name() string
	// Parameters returns the display parameter tuple, e.g. ("33", "N").
	Parameters() []string
	// FitsSystemName reports whether this system matches a
	// case-folded --in-coords style code.
	FitsSystemName(code string) bool
	// Equal reports structural equality with another system (used by
	// conversion_path's src==tgt shortcut).
	Equal(CoordinateSystem) bool
}

// FieldType tags a field as Scalar, Vector, or Geometry, matching spec §3.
type FieldType interface {
	// Ncomps returns the number of components this type carries.
	Ncomps() int
	// Slice returns the type of a single component sliced out of this
	// type (a Scalar for Vector/Scalar, undefined for Geometry).
	Slice() FieldType
	// Concat returns the type that results from concatenating this
	// type's data with other's (used by Recombine).
	Concat(other FieldType) FieldType
}

// Scalar is a one-component field, optionally tagged Eigenmode.
type Scalar struct {
	Interpretation ScalarInterpretation
}

func (s Scalar) Ncomps() int        { return 1 }
func (s Scalar) Slice() FieldType   { return s }
func (s Scalar) Concat(other FieldType) FieldType {
	switch o := other.(type) {
	case Scalar:
		return Vector{Ncomps_: 2, Interpretation: s.Interpretation.ToVector().Join(o.Interpretation.ToVector())}
	case Vector:
		return Vector{Ncomps_: o.Ncomps_ + 1, Interpretation: s.Interpretation.ToVector().Join(o.Interpretation)}
	default:
		return s
	}
}

// Vector is a multi-component field.
type Vector struct {
	Ncomps_        int
	Interpretation VectorInterpretation
}

func (v Vector) Ncomps() int      { return v.Ncomps_ }
func (v Vector) Slice() FieldType { return Scalar{Interpretation: v.Interpretation.ToScalar()} }
func (v Vector) Concat(other FieldType) FieldType {
	switch o := other.(type) {
	case Scalar:
		return Vector{Ncomps_: v.Ncomps_ + 1, Interpretation: v.Interpretation.Join(o.Interpretation.ToVector())}
	case Vector:
		return Vector{Ncomps_: v.Ncomps_ + o.Ncomps_, Interpretation: v.Interpretation.Join(o.Interpretation)}
	default:
		return v
	}
}

// WithNcomps returns a copy of v with a different component count,
// mirroring the original's Vector.update used by Decompose.
func (v Vector) WithNcomps(n int) Vector {
	v.Ncomps_ = n
	return v
}

// Geometry is a coordinate-carrying field: ncomps matching the
// coordinate system's dimensionality, plus the system itself.
type Geometry struct {
	Ncomps_ int
	Coords  CoordinateSystem
}

func (g Geometry) Ncomps() int                  { return g.Ncomps_ }
func (g Geometry) Slice() FieldType              { panic("geometry fields cannot be sliced") }
func (g Geometry) Concat(other FieldType) FieldType { panic("geometry fields cannot be concatenated") }

// FitsSystemName reports whether this geometry's coordinate system
// matches the given code; a nil/empty code always matches.
func (g Geometry) FitsSystemName(name string) bool {
	if name == "" {
		return true
	}
	return g.Coords.FitsSystemName(name)
}

// Basis is a named abstract function space; equality is by name.
type Basis struct {
	Name string
}

func (b Basis) Equal(other Basis) bool {
	return b.Name == other.Name
}

// CaseFoldEqual reports whether two names match under Unicode
// case-folding, used by BasisFilter/FieldFilter membership checks.
func CaseFoldEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Step identifies one timestep (or eigenfrequency) in a source.
type Step struct {
	Index int
	Value *float64 // nil if the source has no associated time/frequency
}

// Field describes one named quantity a Source can produce field_data for.
type Field struct {
	Name       string
	Type       FieldType
	Cellwise   bool
	Splittable bool
}

func (f Field) Ncomps() int { return f.Type.Ncomps() }

func (f Field) IsScalar() bool { _, ok := f.Type.(Scalar); return ok }
func (f Field) IsVector() bool { _, ok := f.Type.(Vector); return ok }
func (f Field) IsGeometry() bool { _, ok := f.Type.(Geometry); return ok }

func (f Field) IsEigenmode() bool {
	switch t := f.Type.(type) {
	case Scalar:
		return t.Interpretation == ScalarEigenmode
	case Vector:
		return t.Interpretation == VectorEigenmode
	}
	return false
}

func (f Field) IsDisplacement() bool {
	t, ok := f.Type.(Vector)
	return ok && t.Interpretation == VectorDisplacement
}

// Coords returns the coordinate system of a geometry field; callers must
// check IsGeometry first.
func (f Field) Coords() CoordinateSystem {
	return f.Type.(Geometry).Coords
}

// FitsSystemName reports whether a geometry field matches a
// --in-coords-style code; non-geometry fields never match.
func (f Field) FitsSystemName(code string) bool {
	g, ok := f.Type.(Geometry)
	if !ok {
		return false
	}
	return g.FitsSystemName(code)
}

// Zone, ZoneShape, and the zone manager live in package zone (a sibling
// leaf package, see spec §4.3); api re-exports the type name so that
// Source implementations only need to import api.
type Zone = zone.Zone

// IsCellwise satisfies topology.FieldInfo, letting the topology package's
// discretization mappers operate on an api.Field without importing api
// (which would create an import cycle, since api imports topology for
// the Source contract below).
func (f Field) IsCellwise() bool { return f.Cellwise }

// Source is the contract an external reader (out of scope: concrete HDF5,
// NetCDF/WRF, G2, LR readers) must implement for the pipeline to consume
// it. Every filter stage also implements Source, wrapping an inner one.
type Source interface {
	// Properties reports this source's capability flags.
	Properties() SourceProperties

	// Configure applies reader settings; a no-op default is fine for
	// sources with nothing to configure.
	Configure(settings ReaderSettings)

	// UseGeometry tells the source which geometry field subsequent
	// topology/field_data calls should be consistent with.
	UseGeometry(geometry Field)

	Bases() []Basis
	BasisOf(field Field) Basis
	Fields(basis Basis) []Field
	Geometries(basis Basis) []Field
	Steps() []Step
	Zones() []Zone

	Topology(step Step, basis Basis, z Zone) (topology.Topology, error)
	TopologyUpdates(step Step, basis Basis) bool

	FieldData(step Step, field Field, z Zone) (fielddata.FieldData[float64], error)
	FieldUpdates(step Step, field Field) bool

	// Close releases any scoped resources (file handles) the source
	// acquired; it must be safe to call exactly once and is the Go
	// realization of spec §6's "scoped acquisition" contract.
	Close() error
}
