// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"math"

	"github.com/cpmech/gofermi/phys"
)

// ParabolicBands implements the non-degenerate (Boltzmann) limit of free carriers in
// square-root bands with the valence band maximum at E = 0
//
//   g(E) = A·sqrt(-E)         -W <= E <= 0   (valence band)
//   g(E) = A·sqrt(E - Eg)     E >= Eg        (conduction band)
//
//   p0 = Nc·exp(-eF/kT)        n0 = Nc·exp(-(Eg-eF)/kT)        Nc = A·Γ(3/2)·(kT)^(3/2)
//
//  Note: valid when eF is a few kT inside the gap
type ParabolicBands struct {
	A  float64 // prefactor of the density-of-states
	Eg float64 // bandgap [eV]
}

// NewParabolicBands returns the bands with nelect electrons in a valence band of given width
func NewParabolicBands(nelect, width, gap float64) *ParabolicBands {
	return &ParabolicBands{
		A:  nelect / (2.0 / 3.0 * math.Pow(width, 1.5)),
		Eg: gap,
	}
}

// Neff returns the effective density of states of each band
func (o ParabolicBands) Neff(temperature float64) float64 {
	kT := phys.KT(temperature)
	return o.A * math.Gamma(1.5) * math.Pow(kT, 1.5)
}

// Holes returns the concentration of holes
func (o ParabolicBands) Holes(eFermi, temperature float64) float64 {
	return o.Neff(temperature) * math.Exp(-eFermi/phys.KT(temperature))
}

// Electrons returns the concentration of electrons
func (o ParabolicBands) Electrons(eFermi, temperature float64) float64 {
	return o.Neff(temperature) * math.Exp(-(o.Eg-eFermi)/phys.KT(temperature))
}

// ElectronLevel returns the Fermi energy at which n0 = c
func (o ParabolicBands) ElectronLevel(c, temperature float64) float64 {
	return o.Eg + phys.KT(temperature)*math.Log(c/o.Neff(temperature))
}

// HoleLevel returns the Fermi energy at which p0 = c
func (o ParabolicBands) HoleLevel(c, temperature float64) float64 {
	return -phys.KT(temperature) * math.Log(c/o.Neff(temperature))
}
