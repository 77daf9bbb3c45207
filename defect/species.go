// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package defect

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"

	"github.com/cpmech/gofermi/phys"
)

// ErrFixedConflict indicates a species with a fixed total and, simultaneously,
// charge states with fixed concentrations
var ErrFixedConflict = errors.New("species-level and charge-state-level fixed concentrations cannot be combined")

// Species holds all charge states of a defect sharing the same sites
//  Note: if the total concentration of the species is fixed, it is distributed over the charge
//        states according to their Boltzmann weights
type Species struct {
	name   string               // unique name; e.g. "V_O"
	nsites int                  // number of sites per reference cell
	states map[int]*ChargeState // charge => charge state
	occ    Occupation           // Free or Fixed total
}

// NewSpecies returns a new defect species
func NewSpecies(name string, nsites int, states ...*ChargeState) (o *Species, err error) {
	o = &Species{name: name, nsites: nsites, states: make(map[int]*ChargeState), occ: Free{}}
	for _, cs := range states {
		err = o.AddChargeState(cs)
		if err != nil {
			return nil, err
		}
	}
	return
}

// Name returns the name of this species
func (o Species) Name() string { return o.name }

// Nsites returns the number of sites per reference cell
func (o Species) Nsites() int { return o.nsites }

// Occupation returns Free or Fixed
func (o Species) Occupation() Occupation { return o.occ }

// Fixed returns the fixed total concentration, if any
func (o Species) Fixed() (value float64, fixed bool) {
	return fixedValue(o.occ)
}

// Charges returns all charges in descending order
func (o Species) Charges() (charges []int) {
	for q := range o.states {
		charges = append(charges, q)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(charges)))
	return
}

// ChargeState returns the charge state with charge q or nil if not found
func (o Species) ChargeState(q int) *ChargeState {
	return o.states[q]
}

// ChargeStates returns all charge states in descending order of charge
func (o Species) ChargeStates() (states []*ChargeState) {
	for _, q := range o.Charges() {
		states = append(states, o.states[q])
	}
	return
}

// FixedChargeStates returns the charge states with fixed concentration
func (o Species) FixedChargeStates() (states []*ChargeState) {
	for _, cs := range o.ChargeStates() {
		if _, fixed := cs.FixedConcentration(); fixed {
			states = append(states, cs)
		}
	}
	return
}

// VariableChargeStates returns the charge states with free concentration
func (o Species) VariableChargeStates() (states []*ChargeState) {
	for _, cs := range o.ChargeStates() {
		if _, fixed := cs.FixedConcentration(); !fixed {
			states = append(states, cs)
		}
	}
	return
}

// AddChargeState adds a new charge state
func (o *Species) AddChargeState(cs *ChargeState) (err error) {
	if cs == nil {
		return chk.Err("species %q: charge state must not be nil", o.name)
	}
	if _, ok := o.states[cs.charge]; ok {
		return chk.Err("species %q: charge state q=%d already exists", o.name, cs.charge)
	}
	if _, fixed := cs.FixedConcentration(); fixed {
		if _, sfixed := o.Fixed(); sfixed {
			return fmt.Errorf("species %q, q=%d: %w", o.name, cs.charge, ErrFixedConflict)
		}
	}
	o.states[cs.charge] = cs
	return
}

// SetChargeState adds or replaces the charge state with the same charge
func (o *Species) SetChargeState(cs *ChargeState) (err error) {
	if cs == nil {
		return chk.Err("species %q: charge state must not be nil", o.name)
	}
	old, found := o.states[cs.charge]
	delete(o.states, cs.charge)
	err = o.AddChargeState(cs)
	if err != nil && found {
		o.states[cs.charge] = old
	}
	return
}

// FixConcentration fixes the total concentration (per reference cell) of this species
func (o *Species) FixConcentration(concentration float64) (err error) {
	if len(o.FixedChargeStates()) > 0 {
		return fmt.Errorf("species %q: %w", o.name, ErrFixedConflict)
	}
	o.occ = Fixed{concentration}
	return
}

// FixChargeState fixes the concentration (per site) of the charge state with charge q
func (o *Species) FixChargeState(q int, concentration float64) (err error) {
	cs, ok := o.states[q]
	if !ok {
		return chk.Err("species %q: cannot find charge state q=%d", o.name, q)
	}
	if _, fixed := o.Fixed(); fixed {
		return fmt.Errorf("species %q, q=%d: %w", o.name, q, ErrFixedConflict)
	}
	cs.FixConcentration(concentration)
	return
}

// Validate checks the consistency of this species
func (o Species) Validate() (err error) {
	if o.name == "" {
		return chk.Err("species name must not be empty")
	}
	if o.nsites < 1 {
		return chk.Err("species %q: number of sites must be positive; %d is invalid", o.name, o.nsites)
	}
	if c, fixed := o.Fixed(); fixed {
		if c < 0 {
			return chk.Err("species %q: fixed concentration must not be negative; %g is invalid", o.name, c)
		}
		if len(o.FixedChargeStates()) > 0 {
			return fmt.Errorf("species %q: %w", o.name, ErrFixedConflict)
		}
	}
	for _, cs := range o.ChargeStates() {
		err = cs.Validate()
		if err != nil {
			return chk.Err("species %q: %v", o.name, err)
		}
	}
	return
}

// Concentration computes the total concentration of this species per reference cell
func (o Species) Concentration(eFermi, temperature float64) (c float64) {
	switch occ := o.occ.(type) {
	case Fixed:
		return occ.Concentration
	default:
		for _, q := range o.Charges() {
			c += o.states[q].Concentration(eFermi, temperature)
		}
		return float64(o.nsites) * c
	}
}

// ChargeStateConcentrations computes the concentration of each charge state per reference cell
//  Note: if the total is fixed, it is shared among the charge states in proportion to their
//        Boltzmann weights; thus the results add up to the fixed total
func (o Species) ChargeStateConcentrations(eFermi, temperature float64) (res map[int]float64) {
	res = make(map[int]float64, len(o.states))
	switch occ := o.occ.(type) {
	case Fixed:
		if len(o.states) == 0 {
			return
		}
		kT := phys.KT(temperature)
		charges := o.Charges()
		lw := make([]float64, len(charges))
		for i, q := range charges {
			lw[i] = o.states[q].logWeight(eFermi, kT)
		}
		lse := floats.LogSumExp(lw)
		for i, q := range charges {
			res[q] = occ.Concentration * math.Exp(lw[i]-lse)
		}
	default:
		n := float64(o.nsites)
		for q, cs := range o.states {
			res[q] = n * cs.Concentration(eFermi, temperature)
		}
	}
	return
}

// ChargeContributions computes the total positive and negative charge densities
// of this species; i.e. Σ|q|·c over q > 0 and over q < 0, respectively
func (o Species) ChargeContributions(eFermi, temperature float64) (pos, neg float64) {
	concs := o.ChargeStateConcentrations(eFermi, temperature)
	for _, q := range o.Charges() {
		c := concs[q]
		switch {
		case q > 0:
			pos += float64(q) * c
		case q < 0:
			neg += float64(-q) * c
		}
	}
	return
}

// String returns a summary of this species
func (o Species) String() string {
	var buf bytes.Buffer
	io.Ff(&buf, "%s, nsites=%d", o.name, o.nsites)
	if c, fixed := o.Fixed(); fixed {
		io.Ff(&buf, ", [fixed] c=%g", c)
	}
	io.Ff(&buf, "\n")
	for _, cs := range o.ChargeStates() {
		io.Ff(&buf, "  %v\n", cs)
	}
	return buf.String()
}
