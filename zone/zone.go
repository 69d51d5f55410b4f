// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zone implements patch identity: the Zone value type, and the
// VertexDict/ZoneManager pair that assigns a stable global key to each
// patch by matching corner vertices across patches within a floating
// point tolerance (spec §4.3).
package zone

import (
	"fmt"
	"math"

	"github.com/TheBB/CICO/errs"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm"
)

// Shape enumerates the supported patch shapes; the corner count is fixed
// by the shape (spec §3: Zone invariant).
type Shape int

const (
	Line Shape = iota
	Quadrilateral
	Hexahedron
)

// ExpectedCorners returns the corner count a shape must have.
func (s Shape) ExpectedCorners() int {
	switch s {
	case Line:
		return 2
	case Quadrilateral:
		return 4
	case Hexahedron:
		return 8
	default:
		return 0
	}
}

func (s Shape) String() string {
	switch s {
	case Line:
		return "Line"
	case Quadrilateral:
		return "Quadrilateral"
	case Hexahedron:
		return "Hexahedron"
	default:
		return "Unknown"
	}
}

// Zone is a patch: a region of the domain described by an ordered list
// of corner points, a shape tag, a local key unique within its source,
// and an optional global key assigned by a ZoneManager.
type Zone struct {
	Shape     Shape
	Corners   [][]float64
	LocalKey  string
	GlobalKey *int
}

// Validate checks the corner-count invariant implied by Shape. Callers
// that construct zones directly (readers) should call this; filters may
// assume it already holds.
func (z Zone) Validate() error {
	if len(z.Corners) != z.Shape.ExpectedCorners() {
		return errs.New(errs.ShapeMismatch, "Zone.Validate",
			"shape %s expects %d corners, got %d", z.Shape, z.Shape.ExpectedCorners(), len(z.Corners))
	}
	return nil
}

// WithGlobalKey returns a copy of z with GlobalKey set.
func (z Zone) WithGlobalKey(key int) Zone {
	z.GlobalKey = &key
	return z
}

// Point is a coordinate tuple used as a VertexDict key.
type Point []float64

// VertexDict maps N-D points to values V, tolerant of floating-point
// noise: two points are equal if componentwise |a-b| <= atol + rtol *
// max(|a|,|b|). Candidate points are located through a gm.Bins spatial
// index -- the same bucketed point-proximity structure
// PaddySchmidt-gofem's own out package builds (NodBins/IpsBins in
// out/out.go) to answer "is there already a point here" during result
// filtering (out/filtering.go's Bins.Find/FindAlongLine) -- rather than
// a hand-rolled per-axis structure. Bins only narrows candidates to a
// grid cell; the exact tolerance window (the three-branch rule below)
// is still checked against the candidate's stored coordinates, so the
// documented matching semantics are unaffected by Bins' own internal
// bucket tolerance.
type VertexDict[V any] struct {
	Rtol, Atol float64

	bins    gm.Bins
	dim     int
	lo, hi  []float64
	started bool

	keys   []*Point
	values []*V
}

// binsNdiv is the number of bins per axis Bins.Init is given, matching
// the teacher's own out.Ndiv default (out/out.go).
const binsNdiv = 20

// NewVertexDict builds a VertexDict with the given tolerances. Passing
// rtol=0, atol=0 selects the documented defaults (1e-5, 1e-8).
func NewVertexDict[V any](rtol, atol float64) *VertexDict[V] {
	if rtol == 0 {
		rtol = 1e-5
	}
	if atol == 0 {
		atol = 1e-8
	}
	return &VertexDict[V]{Rtol: rtol, Atol: atol}
}

// bounds computes the [min,max] window a stored value must fall in to be
// considered a match for key, under the three-branch rule in the
// original implementation. Per spec §9's Open Questions, the near-zero
// branch is asymmetric (both divisors are 1-rtol) and must not be
// silently symmetrized.
func (d *VertexDict[V]) bounds(key float64) (float64, float64) {
	if key >= d.Atol {
		return (key - d.Atol) / (1 + d.Rtol), (key + d.Atol) / (1 - d.Rtol)
	}
	if key <= -d.Atol {
		return (key - d.Atol) / (1 - d.Rtol), (key + d.Atol) / (1 + d.Rtol)
	}
	return (key - d.Atol) / (1 - d.Rtol), (key + d.Atol) / (1 - d.Rtol)
}

// pad returns the half-width of the bounding-box slack to keep around
// component v of a point added to the bins, wide enough to comfortably
// contain the tolerance window bounds() would compute for it.
func (d *VertexDict[V]) pad(v float64) float64 {
	return d.Atol + d.Rtol*math.Abs(v) + 1
}

// growBins expands the bins' bounding box to cover key (initializing it
// on the first insertion) and rebuilds the index, re-appending every
// live point, whenever key falls outside the current box. Bins has no
// incremental resize, so growth means a full re-Init + re-Append; this
// mirrors the one-shot Bins.Init PaddySchmidt-gofem's out.Start performs
// from a precomputed mesh bounding box, just computed lazily here since
// a Source's corner extent is not known in advance.
func (d *VertexDict[V]) growBins(key Point) {
	if !d.started {
		d.dim = len(key)
		d.lo = make([]float64, d.dim)
		d.hi = make([]float64, d.dim)
		for i, v := range key {
			p := d.pad(v)
			d.lo[i] = v - p
			d.hi[i] = v + p
		}
		d.started = true
		d.rebuild()
		return
	}

	grew := false
	for i, v := range key {
		p := d.pad(v)
		if v-p < d.lo[i] {
			d.lo[i] = v - p
			grew = true
		}
		if v+p > d.hi[i] {
			d.hi[i] = v + p
			grew = true
		}
	}
	if grew {
		d.rebuild()
	}
}

func (d *VertexDict[V]) rebuild() {
	if err := d.bins.Init(d.lo, d.hi, binsNdiv); err != nil {
		chk.Panic("zone: cannot initialise vertex bins: %v", err)
	}
	for idx, k := range d.keys {
		if k == nil {
			continue
		}
		if err := d.bins.Append([]float64(*k), idx); err != nil {
			chk.Panic("zone: cannot append point to vertex bins: %v", err)
		}
	}
}

// candidate finds the index of a live entry matching key, or -1. Bins
// narrows the search to whichever point, if any, shares key's grid
// cell; bounds() then confirms the match against the documented
// tolerance rule rather than trusting Bins' own internal notion of
// proximity.
func (d *VertexDict[V]) candidate(key Point) int {
	if !d.started {
		return -1
	}
	id := d.bins.Find([]float64(key))
	if id < 0 || id >= len(d.keys) || d.keys[id] == nil {
		return -1
	}
	stored := *d.keys[id]
	if len(stored) != len(key) {
		return -1
	}
	for i, v := range key {
		lo, hi := d.bounds(v)
		if stored[i] < lo || stored[i] > hi {
			return -1
		}
	}
	return id
}

func (d *VertexDict[V]) insert(key Point, value V) {
	d.growBins(key)
	idx := len(d.values)
	if err := d.bins.Append([]float64(key), idx); err != nil {
		chk.Panic("zone: cannot append point to vertex bins: %v", err)
	}
	k := key
	d.keys = append(d.keys, &k)
	d.values = append(d.values, &value)
}

// Set associates key with value, tolerant of existing near-duplicate
// keys: if a live matching entry already exists its value is overwritten
// in place, otherwise a new entry is appended.
func (d *VertexDict[V]) Set(key Point, value V) {
	if c := d.candidate(key); c >= 0 {
		d.values[c] = &value
		return
	}
	d.insert(key, value)
}

// Get returns the value associated with the nearest live key within
// tolerance, and whether one was found.
func (d *VertexDict[V]) Get(key Point) (V, bool) {
	c := d.candidate(key)
	if c < 0 {
		var zero V
		return zero, false
	}
	return *d.values[c], true
}

// Delete tombstones the entry matching key, if any; it is a no-op if no
// matching live entry exists.
func (d *VertexDict[V]) Delete(key Point) {
	c := d.candidate(key)
	if c < 0 {
		return
	}
	d.keys[c] = nil
	d.values[c] = nil
}

// ZoneManager assigns stable global keys to zones by matching their
// corner vertices against previously seen zones, within tolerance.
type ZoneManager struct {
	lut    *VertexDict[map[int]bool]
	shapes map[int]Shape
}

// NewZoneManager builds an empty manager using the VertexDict defaults.
func NewZoneManager() *ZoneManager {
	return &ZoneManager{
		lut:    NewVertexDict[map[int]bool](0, 0),
		shapes: make(map[int]Shape),
	}
}

// Lookup assigns (or confirms) the global key for zone, returning a copy
// of zone with GlobalKey populated. If zone already carries a global
// key, Lookup asserts that it was assigned the same shape and returns it
// unchanged; this makes KeyZones idempotent (spec §8).
func (m *ZoneManager) Lookup(z Zone) (Zone, error) {
	if z.GlobalKey != nil {
		if shape, ok := m.shapes[*z.GlobalKey]; ok && shape != z.Shape {
			chk.Panic("zone: global key %d was assigned shape %s, got %s", *z.GlobalKey, shape, z.Shape)
		}
		m.shapes[*z.GlobalKey] = z.Shape
		return z, nil
	}

	var keys map[int]bool
	for _, pt := range z.Corners {
		found, _ := m.lut.Get(Point(pt))
		if keys == nil {
			keys = cloneSet(found)
		} else {
			keys = intersect(keys, found)
		}
	}
	if len(keys) > 1 {
		// The spec's VertexDict failure mode says "return any one",
		// but ZoneManager's own invariant (spec §4.3) is that the
		// intersection across all corners contains at most one key;
		// more than one indicates corrupted input geometry (two
		// unrelated zones whose corners coincide pairwise), which is
		// a programming/data wiring error, not a recoverable one.
		chk.Panic("zone: ambiguous global key candidates %v for zone %q", setKeys(keys), z.LocalKey)
	}

	var key int
	if len(keys) == 1 {
		for k := range keys {
			key = k
		}
	} else {
		key = len(m.shapes)
		m.shapes[key] = z.Shape
		for _, pt := range z.Corners {
			existing, ok := m.lut.Get(Point(pt))
			if !ok {
				existing = make(map[int]bool)
			}
			existing[key] = true
			m.lut.Set(Point(pt), existing)
		}
	}

	return z.WithGlobalKey(key), nil
}

// NumZones returns the number of distinct global keys minted so far.
func (m *ZoneManager) NumZones() int { return len(m.shapes) }

func cloneSet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func intersect(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func setKeys(s map[int]bool) []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}

// String implements fmt.Stringer for debug logging of a zone's identity.
func (z Zone) String() string {
	if z.GlobalKey != nil {
		return fmt.Sprintf("%s[local=%s,global=%d]", z.Shape, z.LocalKey, *z.GlobalKey)
	}
	return fmt.Sprintf("%s[local=%s]", z.Shape, z.LocalKey)
}
