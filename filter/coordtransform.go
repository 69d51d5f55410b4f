// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/coord"
	"github.com/TheBB/CICO/errs"
	"github.com/TheBB/CICO/fielddata"
)

type pointCacheKey struct {
	system string
	zone   string
}

// CoordTransform converts a Geometry field (and any Vector field
// anchored at it) along a pre-planned coord.ConversionPath (spec §4.6,
// §4.4). Scalars pass through untouched. The path is the sequence
// returned by coord.Path: it names every intermediate and the final
// target system but, following coord.Path's own convention, not the
// source system -- the source is read off the geometry field's own
// declared CoordinateSystem at conversion time.
type CoordTransform struct {
	Passthrough
	Path     coord.ConversionPath
	geometry api.Field
	cache    map[pointCacheKey]fielddata.FieldData[float64]
}

func NewCoordTransform(source api.Source, path coord.ConversionPath) *CoordTransform {
	return &CoordTransform{Passthrough{Inner: source}, path, api.Field{}, make(map[pointCacheKey]fielddata.FieldData[float64])}
}

func (c *CoordTransform) UseGeometry(geometry api.Field) {
	c.Inner.UseGeometry(geometry)
	c.geometry = geometry
}

func (c *CoordTransform) FieldData(step api.Step, field api.Field, z api.Zone) (fielddata.FieldData[float64], error) {
	data, err := c.Inner.FieldData(step, field, z)
	if err != nil {
		return data, err
	}
	if field.IsGeometry() {
		out, _, err := c.convertGeometry(field, z, data)
		return out, err
	}
	if field.IsVector() && field.Name != c.geometry.Name {
		return c.convertVector(step, z, data)
	}
	return data, nil
}

// convertGeometry walks data through every hop of the path, caching the
// point coordinates in effect immediately before each hop, keyed by
// (system name, zone), for later use by convertVector.
func (c *CoordTransform) convertGeometry(field api.Field, z api.Zone, data fielddata.FieldData[float64]) (fielddata.FieldData[float64], api.CoordinateSystem, error) {
	cur := field.Coords()
	curData := data
	for _, tgt := range c.Path {
		c.cache[pointCacheKey{cur.Name(), z.LocalKey}] = curData
		converted, err := coord.ConvertCoords(cur, tgt, curData)
		if err != nil {
			return fielddata.FieldData[float64]{}, nil, errs.New(errs.ConversionUnavailable, "CoordTransform.FieldData",
				"converting geometry %q in zone %q from %s to %s", field.Name, z.LocalKey, cur.Name(), tgt.Name()).Wrap(err)
		}
		curData = converted
		cur = tgt
	}
	return curData, cur, nil
}

func (c *CoordTransform) convertVector(step api.Step, z api.Zone, data fielddata.FieldData[float64]) (fielddata.FieldData[float64], error) {
	if c.geometry.Name == "" {
		return fielddata.FieldData[float64]{}, errs.New(errs.CapabilityMismatch, "CoordTransform.FieldData",
			"no geometry selected via UseGeometry; cannot convert a vector field")
	}
	geomData, err := c.Inner.FieldData(step, c.geometry, z)
	if err != nil {
		return fielddata.FieldData[float64]{}, err
	}
	if _, _, err := c.convertGeometry(c.geometry, z, geomData); err != nil {
		return fielddata.FieldData[float64]{}, err
	}

	cur := c.geometry.Coords()
	curData := data
	for _, tgt := range c.Path {
		coords, ok := c.cache[pointCacheKey{cur.Name(), z.LocalKey}]
		if !ok {
			return fielddata.FieldData[float64]{}, errs.New(errs.Missing, "CoordTransform.FieldData",
				"no cached point data for system %q zone %q", cur.Name(), z.LocalKey)
		}
		converted, err := coord.ConvertVectors(cur, tgt, curData, coords)
		if err != nil {
			return fielddata.FieldData[float64]{}, errs.New(errs.ConversionUnavailable, "CoordTransform.FieldData",
				"converting vector in zone %q from %s to %s", z.LocalKey, cur.Name(), tgt.Name()).Wrap(err)
		}
		curData = converted
		cur = tgt
	}
	return curData, nil
}
