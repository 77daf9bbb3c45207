// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fermi

import (
	"github.com/cpmech/gofermi/defect"
	"github.com/cpmech/gofermi/phys"
)

// ResultOptions controls how concentrations are reported
type ResultOptions struct {
	PerVolume  bool `json:"per_volume" yaml:"per_volume"` // report in cm⁻³ instead of per cell
	Decomposed bool `json:"decomposed" yaml:"decomposed"` // report each charge state separately
}

// ChargeStateResult holds the concentration of one charge state
type ChargeStateResult struct {
	Charge        int     `json:"charge" yaml:"charge"`
	Concentration float64 `json:"concentration" yaml:"concentration"`
	Fixed         bool    `json:"fixed" yaml:"fixed"`
}

// SpeciesResult holds the concentration of one species
type SpeciesResult struct {
	Name          string              `json:"name" yaml:"name"`
	Concentration float64             `json:"concentration" yaml:"concentration"`
	Fixed         bool                `json:"fixed" yaml:"fixed"`
	ChargeStates  []ChargeStateResult `json:"charge_states,omitempty" yaml:"charge_states,omitempty"`
}

// Results collects the solution and all concentrations evaluated at the Fermi energy
type Results struct {
	Solution    `yaml:",inline"`
	Temperature float64         `json:"temperature" yaml:"temperature"`
	Volume      float64         `json:"volume" yaml:"volume"`
	Units       string          `json:"units" yaml:"units"`
	P0          float64         `json:"p0" yaml:"p0"`
	N0          float64         `json:"n0" yaml:"n0"`
	Species     []SpeciesResult `json:"species" yaml:"species"`
}

// units names
const (
	UnitsPerCell = "per cell"
	UnitsPerCm3  = "cm^-3"
)

// Results solves for the Fermi energy and collects all concentrations
func (o System) Results(opts ResultOptions) (res *Results, err error) {
	sol, err := o.Solve()
	if err != nil {
		return
	}
	return o.ResultsAt(sol, opts), nil
}

// ResultsAt collects all concentrations at the Fermi energy of a given solution
func (o System) ResultsAt(sol Solution, opts ResultOptions) (res *Results) {

	// scale factor
	scale := 1.0
	res = &Results{Solution: sol, Temperature: o.temperature, Volume: o.volume, Units: UnitsPerCell}
	if opts.PerVolume {
		scale = phys.PerVolume(o.volume)
		res.Units = UnitsPerCm3
	}

	// carriers
	p0, n0 := o.CarrierConcentrations(sol.EFermi)
	res.P0 = p0 * scale
	res.N0 = n0 * scale

	// species
	for _, sp := range o.species {
		_, fixed := sp.Fixed()
		r := SpeciesResult{
			Name:          sp.Name(),
			Concentration: sp.Concentration(sol.EFermi, o.temperature) * scale,
			Fixed:         fixed,
		}
		if opts.Decomposed {
			concs := sp.ChargeStateConcentrations(sol.EFermi, o.temperature)
			for _, q := range sp.Charges() {
				_, csfixed := sp.ChargeState(q).FixedConcentration()
				r.ChargeStates = append(r.ChargeStates, ChargeStateResult{
					Charge:        q,
					Concentration: concs[q] * scale,
					Fixed:         csfixed,
				})
			}
		}
		res.Species = append(res.Species, r)
	}
	return
}

// SpeciesConcentrations returns the concentration per cell of each species
func (o System) SpeciesConcentrations(eFermi float64) (res map[string]float64) {
	res = make(map[string]float64)
	for _, sp := range o.species {
		res[sp.Name()] = sp.Concentration(eFermi, o.temperature)
	}
	return
}

// ChargeStateConcentrations returns the concentration per cell of each charge state of each species
func (o System) ChargeStateConcentrations(eFermi float64) (res map[string]map[int]float64) {
	res = make(map[string]map[int]float64)
	for _, sp := range o.species {
		res[sp.Name()] = sp.ChargeStateConcentrations(eFermi, o.temperature)
	}
	return
}

// TransitionLevels returns the lowest-formation-energy profile of each species over the DOS range
func (o System) TransitionLevels() (res map[string][]defect.Point) {
	res = make(map[string][]defect.Point)
	for _, sp := range o.species {
		res[sp.Name()] = sp.TransitionLevelProfile(o.dos.Emin(), o.dos.Emax())
	}
	return
}

// ThermodynamicLevels returns the thermodynamic transition levels of each species over the DOS range
func (o System) ThermodynamicLevels() (res map[string][]defect.Transition) {
	res = make(map[string][]defect.Transition)
	for _, sp := range o.species {
		res[sp.Name()] = sp.TransitionLevels(o.dos.Emin(), o.dos.Emax())
	}
	return
}
