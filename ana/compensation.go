// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gofermi/phys"
)

// State holds a single charge state of a defect in the dilute limit
type State struct {
	Q int     // charge
	E float64 // formation energy at eF = 0 [eV]
	W float64 // weight: number of sites times degeneracy
}

// Compensation returns the Fermi energy at which a positive state (donor) balances a negative
// state (acceptor) when free carriers are negligible:
//
//   qD·WD·exp(-(ED+qD·eF)/kT) = |qA|·WA·exp(-(EA+qA·eF)/kT)
//
//   eF = (ED - EA + kT·ln(|qA|·WA / (qD·WD))) / (qA - qD)
func Compensation(donor, acceptor State, temperature float64) float64 {
	if donor.Q <= 0 || acceptor.Q >= 0 {
		chk.Panic("donor charge must be positive and acceptor charge negative. qD=%d, qA=%d", donor.Q, acceptor.Q)
	}
	kT := phys.KT(temperature)
	ratio := float64(-acceptor.Q) * acceptor.W / (float64(donor.Q) * donor.W)
	return (donor.E - acceptor.E + kT*math.Log(ratio)) / float64(acceptor.Q-donor.Q)
}
