// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package defect

import "github.com/cpmech/gosl/io"

// Occupation tells how a concentration is obtained: Free (computed from the Boltzmann
// distribution) or Fixed (given)
type Occupation interface {
	isOccupation()
	String() string
}

// Free indicates a concentration computed at each Fermi energy and temperature
type Free struct{}

// Fixed indicates a concentration held constant
type Fixed struct {
	Concentration float64 // concentration per reference cell
}

func (Free) isOccupation()  {}
func (Fixed) isOccupation() {}

func (Free) String() string    { return "free" }
func (o Fixed) String() string { return io.Sf("fixed(%g)", o.Concentration) }

// fixedValue returns the concentration of a Fixed occupation
func fixedValue(occ Occupation) (value float64, fixed bool) {
	switch o := occ.(type) {
	case Fixed:
		return o.Concentration, true
	case Free, nil:
		return 0, false
	}
	return 0, false
}
