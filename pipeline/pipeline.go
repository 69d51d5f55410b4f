// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline implements the assembler that wraps a raw Source in
// the fixed sequence of filter stages a sink's requirements call for
// (spec §4.7). Insertion order is significant: later filters observe
// the SourceProperties left behind by every filter inserted before
// them.
package pipeline

import (
	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/coord"
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/filter"
)

// StepSelection picks one of the two mutually exclusive time-selection
// stages (spec §4.6 step 13): either an explicit (start, stop, step)
// slice, or the LastTime collapse. The zero value selects neither.
type StepSelection struct {
	Start, Stop, Step *int
	LastTime          bool
}

func (s StepSelection) requested() bool {
	return s.LastTime || s.Start != nil || s.Stop != nil || s.Step != nil
}

// Options carries every user-facing knob the assembler consults beyond
// the source's own advertised properties and the sink's requirements
// (spec §4.7): which bases/fields to keep, how finely to tessellate,
// whether to force an unstructured mesh or eigenmode relabeling, the
// time selection, and the desired output coordinate system.
type Options struct {
	Strict bool

	BasisNames []string // nil: step 3 (BasisFilter) is skipped

	Nvis int // 0: step 4 (Discretize(nvis)) is skipped

	ForceUnstructured bool

	Decompose bool

	EigenDisp bool

	Steps StepSelection

	FieldNames           []string
	FieldFilterRequested bool

	InCoords  string
	OutCoords api.CoordinateSystem
}

// Assemble builds the full filter chain around source per the fixed
// insertion order of spec §4.7, stopping short only at steps the
// source's own properties, the sink's requirements, or opts say are
// unnecessary.
func Assemble(source api.Source, reqs api.Requirements, opts Options) (api.Source, error) {
	cur := source

	// 1. Optionally Strict.
	if opts.Strict {
		cur = filter.NewStrict(cur)
	}

	// 2. If not globally keyed: KeyZones.
	if !cur.Properties().GloballyKeyed {
		cur = filter.NewKeyZones(cur)
	}

	// 3. If basis_filter set: BasisFilter.
	if opts.BasisNames != nil {
		cur = filter.NewBasisFilter(cur, opts.BasisNames)
	}

	// 4. If nvis > 1: Discretize(nvis).
	if opts.Nvis > 1 {
		cur = filter.NewDiscretize(cur, opts.Nvis)
	}

	// 5. If require_single_basis and not single_basis: BasisMerge.
	if reqs.RequireSingleBasis && !cur.Properties().SingleBasis {
		cur = filter.NewBasisMerge(cur)
	}

	// 6. If not discrete_topology and (require_discrete_topology or
	// require_single_zone or user forced unstructured): Discretize(1).
	if !cur.Properties().DiscreteTopology &&
		(reqs.RequireDiscreteTopology || reqs.RequireSingleZone || opts.ForceUnstructured) {
		cur = filter.NewDiscretize(cur, 1)
	}

	// 7. If require_single_zone and not single_zoned: ZoneMerge.
	if reqs.RequireSingleZone && !cur.Properties().SingleZoned {
		cur = filter.NewZoneMerge(cur)
	}

	// 8. If split_fields non-empty: Split.
	if props := cur.Properties(); len(props.SplitFields) > 0 {
		cur = filter.NewSplit(cur, props.SplitFields)
	}

	// 9. If recombine_fields non-empty: Recombine.
	if props := cur.Properties(); len(props.RecombineFields) > 0 {
		cur = filter.NewRecombine(cur, props.RecombineFields)
	}

	// 10. If decomposition requested: Decompose.
	if opts.Decompose {
		cur = filter.NewDecompose(cur)
	}

	// 11. If unstructured forced: ForceUnstructured.
	if opts.ForceUnstructured {
		cur = filter.NewForceUnstructured(cur)
	}

	// 12. If eigenmodes-as-displacement: EigenDisp.
	if opts.EigenDisp {
		cur = filter.NewEigenDisp(cur)
	}

	// 13. Time selection: StepSlice or LastTime (exclusive).
	if opts.Steps.requested() {
		if opts.Steps.LastTime {
			cur = filter.NewLastTime(cur)
		} else {
			cur = filter.NewStepSlice(cur, opts.Steps.Start, opts.Steps.Stop, opts.Steps.Step)
		}
	}

	// 14. FieldFilter if requested or "no fields".
	if opts.FieldFilterRequested || len(opts.FieldNames) > 0 {
		cur = filter.NewFieldFilter(cur, opts.FieldNames)
	}

	// 15. Optionally final Strict.
	if opts.Strict {
		cur = filter.NewStrict(cur)
	}

	// 16. Planner: pick a geometry whose coordinate system can reach
	// OutCoords at minimal cost, select it via use_geometry, and wrap in
	// CoordTransform if any conversion hops are required.
	if opts.OutCoords != nil {
		wrapped, err := planCoordinates(cur, opts.InCoords, opts.OutCoords)
		if err != nil {
			return nil, err
		}
		cur = wrapped
	}

	return cur, nil
}

// planCoordinates enumerates every geometry field across every basis,
// drops those that don't match opts.InCoords (when given), and asks
// coord.OptimalSystem for the cheapest path to outCoords. The winning
// geometry is selected via UseGeometry; if its path is non-empty the
// source is wrapped in CoordTransform.
func planCoordinates(source api.Source, inCoords string, outCoords api.CoordinateSystem) (api.Source, error) {
	var candidates []api.Field
	var systems []api.CoordinateSystem
	for _, basis := range source.Bases() {
		for _, g := range source.Geometries(basis) {
			if !g.IsGeometry() {
				continue
			}
			if !g.FitsSystemName(inCoords) {
				continue
			}
			candidates = append(candidates, g)
			systems = append(systems, g.Coords())
		}
	}
	if len(candidates) == 0 {
		return nil, errs.New(errs.SourceUnrecognized, "pipeline.planCoordinates",
			"no geometry field matches --in-coords %q", inCoords)
	}

	idx, path, found := coord.OptimalSystem(systems, outCoords)
	if !found {
		return nil, errs.New(errs.ConversionUnavailable, "pipeline.planCoordinates",
			"no registered conversion path from any candidate geometry to %s", outCoords.Name())
	}

	chosen := candidates[idx]
	source.UseGeometry(chosen)
	if len(path) == 0 {
		return source, nil
	}
	return filter.NewCoordTransform(source, path), nil
}
