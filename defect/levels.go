// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package defect

import "math"

// Point holds a vertex of the formation energy profile
type Point struct {
	E  float64 `json:"e" yaml:"e"`   // Fermi energy [eV]
	Ef float64 `json:"ef" yaml:"ef"` // formation energy [eV]
}

// Transition holds a thermodynamic transition level ε(q1/q2)
type Transition struct {
	Q1 int     `json:"q1" yaml:"q1"` // charge stable below E
	Q2 int     `json:"q2" yaml:"q2"` // charge stable above E
	E  float64 `json:"e" yaml:"e"`   // Fermi energy at the transition [eV]
}

// TransitionLevelProfile computes the lower envelope of the formation energies of all
// charge states with free concentration within [emin, emax]. The first and last points
// correspond to emin and emax; the other points are the transition levels
//  Note: returns nil if there are no free charge states or emax < emin
func (o Species) TransitionLevelProfile(emin, emax float64) (pts []Point) {
	pts, _ = o.envelope(emin, emax)
	return
}

// TransitionLevels returns the transition levels within (emin, emax)
func (o Species) TransitionLevels(emin, emax float64) (levels []Transition) {
	_, levels = o.envelope(emin, emax)
	return
}

// envelope walks the lower envelope from emin to emax
func (o Species) envelope(emin, emax float64) (pts []Point, levels []Transition) {

	// charge states in descending order of charge (slope)
	states := o.VariableChargeStates()
	if len(states) == 0 || emax < emin {
		return
	}

	// lowest state @ emin. Ties: smallest charge, since it remains lower for E > emin
	cur := states[0]
	for _, cs := range states[1:] {
		if cs.FormationEnergy(emin) <= cur.FormationEnergy(emin) {
			cur = cs
		}
	}
	e := emin
	pts = append(pts, Point{e, cur.FormationEnergy(e)})

	// walk through crossings with states of smaller charge
	for {
		var next *ChargeState
		ex := math.Inf(1)
		for _, cs := range states {
			if cs.charge >= cur.charge {
				continue
			}
			x := (cs.energy - cur.energy) / float64(cur.charge-cs.charge)
			if x < e {
				x = e
			}
			if x < ex || (x == ex && cs.charge < next.charge) {
				next, ex = cs, x
			}
		}
		if next == nil || ex >= emax {
			break
		}
		if ex > e {
			pts = append(pts, Point{ex, cur.FormationEnergy(ex)})
		}
		levels = append(levels, Transition{cur.charge, next.charge, ex})
		cur, e = next, ex
	}
	pts = append(pts, Point{emax, cur.FormationEnergy(emax)})
	return
}
