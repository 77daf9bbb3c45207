// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dos

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// ParabolicBands generates a model density-of-states with square-root band edges
//
//   g(E) = sqrt(-E)         E <= 0      (valence band)
//   g(E) = 0                0 < E < Eg  (gap)
//   g(E) = sqrt(E - Eg)     E >= Eg     (conduction band)
//
//  Note: with emax - gap == -emin, the two bands are mirror images about Eg/2
func ParabolicBands(emin, emax, gap float64, npts int) (channels [][]float64, edos []float64) {
	edos = utl.LinSpace(emin, emax, npts)
	g := make([]float64, npts)
	for i, e := range edos {
		switch {
		case e <= 0:
			g[i] = math.Sqrt(-e)
		case e >= gap:
			g[i] = math.Sqrt(e - gap)
		}
	}
	return [][]float64{g}, edos
}

// NewParabolic returns a DOS with parabolic bands. It panics on errors
func NewParabolic(emin, emax, gap float64, npts, nelect int) *DOS {
	channels, edos := ParabolicBands(emin, emax, gap, npts)
	o, err := New(channels, edos, gap, nelect, false)
	if err != nil {
		chk.Panic("cannot allocate parabolic DOS:\n%v", err)
	}
	return o
}

// CheckNormalisation checks that integrating up to the VBM recovers the number of electrons
func CheckNormalisation(tst *testing.T, o *DOS, tol float64) {
	ne := o.IntegratedElectrons()
	if math.Abs(ne-float64(o.Nelect())) > tol {
		tst.Errorf("normalisation failed: ∫dos = %v != nelect = %d", ne, o.Nelect())
	}
}
