// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fermi

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Solution holds the outcome of the self-consistent search
type Solution struct {
	EFermi     float64 `json:"e_fermi" yaml:"e_fermi"`       // Fermi energy [eV] (best trial level when not converged)
	Residual   float64 `json:"residual" yaml:"residual"`     // absolute net charge at EFermi
	Converged  bool    `json:"converged" yaml:"converged"`   // |net charge| fell below the tolerance
	Iterations int     `json:"iterations" yaml:"iterations"` // number of trial steps taken
}

// Solve finds the Fermi energy at which the net charge vanishes
//
//  The search starts at the middle of the DOS energy range with a unit step moving upwards.
//  Each time the net charge indicates that the root was passed, the step is divided by four
//  and the direction is reversed. Leaving the range on one side reverses the direction;
//  leaving it again (on either side) afterwards is an error.
//
//  When the number of trial steps is exhausted, the best in-range trial level (smallest
//  absolute net charge) is returned with Converged = false.
//
//  Note: the system is not modified
func (o System) Solve() (sol Solution, err error) {

	// auxiliary
	emin := o.dos.Emin()
	emax := o.dos.Emax()
	tol := o.prms.Tol
	step := 1.0
	direction := 1.0
	reachedEmin := false
	reachedEmax := false

	// initial trial level
	ef := (emin + emax) / 2.0
	sol.EFermi = ef
	sol.Residual = math.Inf(1)

	// trial steps
	for it := 0; it < o.prms.NmaxIt; it++ {

		// net charge
		qtot := o.NetCharge(ef)
		res := math.Abs(qtot)
		sol.Iterations = it + 1

		// record best trial level within range
		if ef >= emin && ef <= emax && res < sol.Residual {
			sol.EFermi = ef
			sol.Residual = res
		}

		// range control
		if ef > emax {
			if reachedEmin || reachedEmax {
				err = &BoundsError{Emin: emin, Emax: emax, Iterations: sol.Iterations}
				return
			}
			reachedEmax = true
			direction = -1.0
		}
		if ef < emin {
			if reachedEmax || reachedEmin {
				err = &BoundsError{Emin: emin, Emax: emax, Iterations: sol.Iterations}
				return
			}
			reachedEmin = true
			direction = 1.0
		}

		// converged
		if res < tol {
			sol.EFermi = ef
			sol.Residual = res
			sol.Converged = true
			logrus.WithFields(logrus.Fields{
				"e_fermi":    ef,
				"residual":   res,
				"iterations": sol.Iterations,
			}).Debug("self-consistent Fermi energy found")
			return
		}

		// passed the root: reduce step and turn around
		if qtot > 0 && direction > 0 {
			step *= 0.25
			direction = -1.0
		}
		if qtot < 0 && direction < 0 {
			step *= 0.25
			direction = 1.0
		}

		// next trial level
		ef += step * direction
	}

	// not converged
	logrus.WithFields(logrus.Fields{
		"e_fermi":    sol.EFermi,
		"residual":   sol.Residual,
		"tolerance":  tol,
		"iterations": sol.Iterations,
	}).Warn("self-consistent Fermi energy not converged; returning best trial level")
	return
}
