// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fermi implements the self-consistent Fermi energy solver for defective materials
package fermi

import (
	"bytes"
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gofermi/defect"
	"github.com/cpmech/gofermi/dos"
)

// Params holds solver parameters
type Params struct {
	Tol    float64 `json:"tol" yaml:"tol"`       // tolerance on the absolute net charge
	NmaxIt int     `json:"nmaxit" yaml:"nmaxit"` // max number of trial steps
}

// SetDefault sets default values
func (o *Params) SetDefault() {
	o.Tol = 1e-18
	o.NmaxIt = 1500
}

// System holds a defective material: the defect species, the density-of-states of the host
// and the conditions under which charge neutrality is enforced
//  Note: the volume must be the volume of the cell used to compute the DOS
type System struct {
	species     []*defect.Species // all species
	dos         *dos.DOS          // density-of-states of the host
	volume      float64           // cell volume [Å³]
	temperature float64           // temperature [K]
	prms        Params            // solver parameters
}

// New returns a new System
//  Input:
//   species     -- defect species (unique names)
//   d           -- density-of-states
//   volume      -- cell volume [Å³] of the cell used to compute d
//   temperature -- temperature [K]
//   prms        -- solver parameters; nil means use defaults
func New(species []*defect.Species, d *dos.DOS, volume, temperature float64, prms *Params) (o *System, err error) {

	// new object
	o = new(System)
	o.species = species
	o.dos = d
	o.volume = volume
	o.temperature = temperature
	o.prms.SetDefault()
	if prms != nil {
		o.prms = *prms
	}

	// check
	err = o.Validate()
	if err != nil {
		return nil, err
	}
	return
}

// Validate checks the consistency of this system
func (o System) Validate() (err error) {
	if o.dos == nil {
		return chk.Err("density-of-states is required")
	}
	if o.volume <= 0 {
		return chk.Err("volume must be positive; %g is invalid", o.volume)
	}
	if o.temperature <= 0 {
		return chk.Err("temperature must be positive; %g is invalid", o.temperature)
	}
	if o.prms.Tol <= 0 {
		return chk.Err("convergence tolerance must be positive; %g is invalid", o.prms.Tol)
	}
	if o.prms.NmaxIt < 1 {
		return chk.Err("max number of trial steps must be positive; %d is invalid", o.prms.NmaxIt)
	}
	names := make(map[string]bool)
	for _, sp := range o.species {
		if sp == nil {
			return chk.Err("defect species must not be nil")
		}
		if names[sp.Name()] {
			return fmt.Errorf("%w: %q is duplicated", ErrDuplicateSpecies, sp.Name())
		}
		names[sp.Name()] = true
		err = sp.Validate()
		if err != nil {
			return
		}
	}
	return
}

// Species returns all defect species
func (o System) Species() []*defect.Species { return o.species }

// Dos returns the density-of-states
func (o System) Dos() *dos.DOS { return o.dos }

// Volume returns the cell volume [Å³]
func (o System) Volume() float64 { return o.volume }

// Temperature returns the temperature [K]
func (o System) Temperature() float64 { return o.temperature }

// Params returns the solver parameters
func (o System) Params() Params { return o.prms }

// SetTemperature sets the temperature used by subsequent calculations
//  Note: must not be called while Solve is running
func (o *System) SetTemperature(temperature float64) (err error) {
	if temperature <= 0 {
		return chk.Err("temperature must be positive; %g is invalid", temperature)
	}
	o.temperature = temperature
	return
}

// SpeciesNames returns the names of all species
func (o System) SpeciesNames() (names []string) {
	for _, sp := range o.species {
		names = append(names, sp.Name())
	}
	return
}

// SpeciesByName returns the species with the given name
func (o System) SpeciesByName(name string) (sp *defect.Species, found bool) {
	for _, sp = range o.species {
		if sp.Name() == name {
			return sp, true
		}
	}
	return nil, false
}

// String returns a summary of this system
func (o System) String() string {
	var buf bytes.Buffer
	io.Ff(&buf, "System\n")
	io.Ff(&buf, "  nelect: %d e\n", o.dos.Nelect())
	io.Ff(&buf, "  bandgap: %g eV\n", o.dos.Bandgap())
	io.Ff(&buf, "  volume: %g A^3\n", o.volume)
	io.Ff(&buf, "  temperature: %g K\n", o.temperature)
	io.Ff(&buf, "\nContains defect species:\n")
	for _, sp := range o.species {
		io.Ff(&buf, "%v", sp)
	}
	return buf.String()
}

// charge balance ////////////////////////////////////////////////////////////////////////////////

// CarrierConcentrations computes the concentrations of holes and electrons per cell
func (o System) CarrierConcentrations(eFermi float64) (p0, n0 float64) {
	return o.dos.CarrierConcentrations(eFermi, o.temperature)
}

// TotalDefectChargeContributions sums the positive and negative charge densities of all species
func (o System) TotalDefectChargeContributions(eFermi float64) (pos, neg float64) {
	for _, sp := range o.species {
		p, n := sp.ChargeContributions(eFermi, o.temperature)
		pos += p
		neg += n
	}
	return
}

// NetCharge computes the net charge density per cell: all negative charge (electrons
// included) minus all positive charge (holes included). Neutrality means NetCharge = 0
func (o System) NetCharge(eFermi float64) float64 {
	p0, n0 := o.CarrierConcentrations(eFermi)
	pos, neg := o.TotalDefectChargeContributions(eFermi)
	lhs := p0 + pos
	rhs := n0 + neg
	return rhs - lhs
}
