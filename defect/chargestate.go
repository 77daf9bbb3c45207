// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package defect implements point defects: charge states and defect species in the dilute limit
package defect

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gofermi/phys"
)

// ChargeState holds a single charge state of a defect
type ChargeState struct {
	charge     int        // q
	energy     float64    // formation energy at eFermi = 0 [eV]
	degeneracy int        // spin or configurational multiplicity
	occ        Occupation // Free or Fixed
}

// NewChargeState returns a new charge state with a free concentration
func NewChargeState(charge int, energy float64, degeneracy int) *ChargeState {
	return &ChargeState{charge, energy, degeneracy, Free{}}
}

// NewFixedChargeState returns a charge state with a fixed concentration (per reference cell).
// The formation energy is set to zero and the degeneracy to one
func NewFixedChargeState(charge int, concentration float64) *ChargeState {
	return &ChargeState{charge, 0, 1, Fixed{concentration}}
}

// Charge returns q
func (o ChargeState) Charge() int { return o.charge }

// Energy returns the formation energy at eFermi = 0
func (o ChargeState) Energy() float64 { return o.energy }

// Degeneracy returns the degeneracy
func (o ChargeState) Degeneracy() int { return o.degeneracy }

// Occupation returns Free or Fixed
func (o ChargeState) Occupation() Occupation { return o.occ }

// FixedConcentration returns the fixed concentration, if any
func (o ChargeState) FixedConcentration() (value float64, fixed bool) {
	return fixedValue(o.occ)
}

// FixConcentration sets (or overrides) a fixed concentration
func (o *ChargeState) FixConcentration(concentration float64) {
	o.occ = Fixed{concentration}
}

// Validate checks the data of this charge state
func (o ChargeState) Validate() (err error) {
	if o.degeneracy < 1 {
		return chk.Err("charge state q=%d: degeneracy must be positive; %d is invalid", o.charge, o.degeneracy)
	}
	if c, fixed := o.FixedConcentration(); fixed && c < 0 {
		return chk.Err("charge state q=%d: fixed concentration must not be negative; %g is invalid", o.charge, c)
	}
	return
}

// FormationEnergy computes E_f(eFermi) = E_f(0) + q·eFermi
func (o ChargeState) FormationEnergy(eFermi float64) float64 {
	return o.energy + float64(o.charge)*eFermi
}

// Concentration computes the concentration of this charge state per site in the dilute limit
//  c = g·exp(-E_f(eFermi)/kT)
//  Note: a fixed concentration is returned as is
func (o ChargeState) Concentration(eFermi, temperature float64) float64 {
	switch occ := o.occ.(type) {
	case Fixed:
		return occ.Concentration
	default:
		return phys.Boltzmann(float64(o.degeneracy), o.FormationEnergy(eFermi), phys.KT(temperature))
	}
}

// String returns a short description
func (o ChargeState) String() string {
	if c, fixed := o.FixedConcentration(); fixed {
		return io.Sf("q=%+d  [fixed] c=%g", o.charge, c)
	}
	return io.Sf("q=%+d  E=%g  g=%d", o.charge, o.energy, o.degeneracy)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// logWeight returns ln(g) - E_f/kT
func (o ChargeState) logWeight(eFermi, kT float64) float64 {
	return phys.LogBoltzmann(float64(o.degeneracy), o.FormationEnergy(eFermi), kT)
}
