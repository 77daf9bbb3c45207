// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fermi

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

var (
	// ErrBoundsExhausted indicates that the search left the energy range on both sides
	ErrBoundsExhausted = errors.New("no solution found within the energy range of the density-of-states")

	// ErrDuplicateSpecies indicates two species with the same name
	ErrDuplicateSpecies = errors.New("defect species names must be unique")
)

// BoundsError holds the searched range when the search fails
type BoundsError struct {
	Emin       float64 // lower bound of the search
	Emax       float64 // upper bound of the search
	Iterations int     // trial steps taken
}

func (e *BoundsError) Error() string {
	return io.Sf("%v: [%g, %g] after %d trial steps", ErrBoundsExhausted, e.Emin, e.Emax, e.Iterations)
}

func (e *BoundsError) Unwrap() error {
	return ErrBoundsExhausted
}
