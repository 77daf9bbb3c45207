// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements reports and results files for defect systems
package out

import (
	"bytes"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gofermi/fermi"
	"github.com/cpmech/gofermi/phys"
)

// Report returns a summary of the self-consistent solution with concentrations in cm⁻³
func Report(sys *fermi.System, sol fermi.Solution) string {
	var buf bytes.Buffer
	scale := phys.PerVolume(sys.Volume())
	ef := sol.EFermi
	T := sys.Temperature()

	// Fermi level
	io.Ff(&buf, "SC Fermi level :      %v  (eV)\n", ef)
	if !sol.Converged {
		io.Ff(&buf, "Not converged  :      residual = %g after %d steps\n", sol.Residual, sol.Iterations)
	}

	// totals
	p0, n0 := sys.CarrierConcentrations(ef)
	io.Ff(&buf, "Concentrations:\n")
	io.Ff(&buf, "n (electrons)  : %v cm^-3\n", n0*scale)
	io.Ff(&buf, "p (holes)      : %v cm^-3\n", p0*scale)
	for _, sp := range sys.Species() {
		c := sp.Concentration(ef, T) * scale
		if _, fixed := sp.Fixed(); fixed {
			io.Ff(&buf, "%-9s      : %v cm^-3 [fixed]\n", sp.Name(), c)
		} else {
			io.Ff(&buf, "%-9s      : %v cm^-3\n", sp.Name(), c)
		}
	}

	// breakdown
	io.Ff(&buf, "\nBreakdown of concentrations for each defect charge state:\n")
	for _, sp := range sys.Species() {
		io.Ff(&buf, "---------------------------------------------------------\n")
		total := sp.Concentration(ef, T)
		if total == 0 {
			io.Ff(&buf, "%-11s: Zero total - cannot give breakdown\n", sp.Name())
			continue
		}
		io.Ff(&buf, "%-11s: Charge Concentration(cm^-3) Total\n", sp.Name())
		concs := sp.ChargeStateConcentrations(ef, T)
		for _, q := range sp.Charges() {
			fix := ""
			if _, fixed := sp.ChargeState(q).FixedConcentration(); fixed {
				fix = " [fixed]"
			}
			io.Ff(&buf, "           : % d  %e          %.2f%s\n", q, concs[q]*scale, concs[q]*100/total, fix)
		}
	}
	return buf.String()
}

// LevelsTable returns the thermodynamic transition levels and the lowest formation energy
// profile of each species over the energy range of the density-of-states
func LevelsTable(sys *fermi.System) string {
	var buf bytes.Buffer
	profiles := sys.TransitionLevels()
	levels := sys.ThermodynamicLevels()
	for _, name := range sys.SpeciesNames() {
		io.Ff(&buf, "%s\n", name)
		if len(levels[name]) == 0 {
			io.Ff(&buf, "  no transitions in [%g, %g]\n", sys.Dos().Emin(), sys.Dos().Emax())
		}
		for _, t := range levels[name] {
			io.Ff(&buf, "  ε(%+d/%+d) = %g eV\n", t.Q1, t.Q2, t.E)
		}
		io.Ff(&buf, "  %12s %12s\n", "E", "Ef")
		for _, p := range profiles[name] {
			io.Ff(&buf, "  %12.6f %12.6f\n", p.E, p.Ef)
		}
	}
	return buf.String()
}
