// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"github.com/TheBB/CICO/api"
	"github.com/TheBB/CICO/zone"
	"github.com/cpmech/gosl/chk"
)

// KeyZones feeds every zone yielded by the inner source through a
// zone.ZoneManager, assigning (or confirming) a stable global key by
// corner-vertex coincidence, and sets GloballyKeyed (spec §4.6).
type KeyZones struct {
	Passthrough
	manager *zone.ZoneManager
}

// NewKeyZones wraps source, which must not already be globally keyed.
func NewKeyZones(source api.Source) *KeyZones {
	if source.Properties().GloballyKeyed {
		chk.Panic("KeyZones: source is already globally keyed")
	}
	return &KeyZones{Passthrough{Inner: source}, zone.NewZoneManager()}
}

func (k *KeyZones) Properties() api.SourceProperties {
	return k.Inner.Properties().Update(func(p *api.SourceProperties) {
		p.GloballyKeyed = true
	})
}

func (k *KeyZones) Zones() []api.Zone {
	in := k.Inner.Zones()
	out := make([]api.Zone, len(in))
	for i, z := range in {
		keyed, err := k.manager.Lookup(z)
		if err != nil {
			chk.Panic("KeyZones.Zones: %v", err)
		}
		out[i] = keyed
	}
	return out
}
