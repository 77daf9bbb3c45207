// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package phys implements physical constants and statistical factors
package phys

import "math"

// constants
const (
	KBoltz = 8.617333262e-5 // Boltzmann constant [eV/K] (CODATA 2018)
	MaxExp = 700.0          // largest argument passed to math.Exp
	Cm3    = 1e24           // Å³ per cm³
)

// KT returns kB·T [eV]
func KT(temperature float64) float64 {
	return KBoltz * temperature
}

// Exp computes exp(x) with x limited to MaxExp from above. Very negative arguments
// underflow gracefully to zero
func Exp(x float64) float64 {
	if x > MaxExp {
		x = MaxExp
	}
	return math.Exp(x)
}

// FermiDirac computes 1 / (1 + exp(x)) for any finite x
//  Note: x = (E - μ) / kT gives the occupation of a state with energy E
func FermiDirac(x float64) float64 {
	if x > 0 {
		e := math.Exp(-x)
		return e / (1.0 + e)
	}
	return 1.0 / (1.0 + math.Exp(x))
}

// Boltzmann computes g·exp(-ΔE/kT)
//  g  -- degeneracy
//  ΔE -- formation energy [eV]
//  kT -- thermal energy [eV]
func Boltzmann(g, ΔE, kT float64) float64 {
	return g * Exp(-ΔE/kT)
}

// LogBoltzmann computes ln(g) - ΔE/kT; i.e. the natural logarithm of Boltzmann(g, ΔE, kT)
func LogBoltzmann(g, ΔE, kT float64) float64 {
	return math.Log(g) - ΔE/kT
}

// PerVolume returns the factor converting concentrations given per cell into cm⁻³
//  volume -- cell volume [Å³]
func PerVolume(volume float64) float64 {
	return Cm3 / volume
}
