// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dos implements the electronic density-of-states and the integration of
// free-carrier concentrations
package dos

import (
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/cpmech/gofermi/phys"
)

// ErrBandGap indicates a band gap larger than the maximum tabulated energy
var ErrBandGap = errors.New("band gap exceeds the maximum energy of the density-of-states grid")

// DOS holds density-of-states data normalised with respect to the number of electrons
//  Note: energies are referred to the valence band maximum; i.e. E = 0 is the VBM
type DOS struct {

	// input
	edos    []float64 // energies [npts]
	dos     []float64 // density-of-states (spin channels summed) [npts]
	bandgap float64   // band gap [eV]
	nelect  int       // number of electrons in the reference cell
	spinPol bool      // input data had two spin channels

	// derived
	ivbm int // index of valence band maximum: last index with E <= 0
	icbm int // index of conduction band minimum: first index with E >= bandgap
	nneg int // number of negative density values found in input data
}

// New returns a new DOS
//  Input:
//   channels -- density-of-states data: one channel or, if spinPol, two channels [nchan][npts]
//   edos     -- energies, in ascending order [npts]
//   bandgap  -- band gap
//   nelect   -- number of electrons used for the normalisation
//   spinPol  -- the data is spin-polarised
//  Note: channels are not modified
func New(channels [][]float64, edos []float64, bandgap float64, nelect int, spinPol bool) (o *DOS, err error) {

	// check channels
	nchan := 1
	if spinPol {
		nchan = 2
	}
	if len(channels) != nchan {
		return nil, chk.Err("number of density-of-states channels is incorrect: %d != %d (spinPol = %v)", len(channels), nchan, spinPol)
	}

	// check grid
	npts := len(edos)
	if npts < 2 {
		return nil, chk.Err("density-of-states grid needs at least 2 points; %d given", npts)
	}
	for i, e := range edos {
		if !isFinite(e) {
			return nil, chk.Err("energies must be finite: edos[%d]=%g", i, e)
		}
	}
	for i := 1; i < npts; i++ {
		if edos[i] < edos[i-1] {
			return nil, chk.Err("energies must be in ascending order: edos[%d]=%g < edos[%d]=%g", i, edos[i], i-1, edos[i-1])
		}
	}
	for k, ch := range channels {
		if len(ch) != npts {
			return nil, chk.Err("channel %d has %d values but the energy grid has %d points", k, len(ch), npts)
		}
		for i, v := range ch {
			if !isFinite(v) {
				return nil, chk.Err("density-of-states must be finite: channel %d, dos[%d]=%g", k, i, v)
			}
		}
	}
	if !isFinite(bandgap) {
		return nil, chk.Err("band gap must be finite; %g is invalid", bandgap)
	}
	if bandgap > edos[npts-1] {
		return nil, fmt.Errorf("%w: bandgap=%g > max(edos)=%g. Please check the band gap and the energy range", ErrBandGap, bandgap, edos[npts-1])
	}

	// new object
	o = new(DOS)
	o.edos = make([]float64, npts)
	copy(o.edos, edos)
	o.bandgap = bandgap
	o.nelect = nelect
	o.spinPol = spinPol

	// sum channels
	o.dos = make([]float64, npts)
	for _, ch := range channels {
		floats.Add(o.dos, ch)
		for _, v := range ch {
			if v < 0 {
				o.nneg++
			}
		}
	}
	if o.nneg > 0 {
		logrus.WithFields(logrus.Fields{
			"count":   o.nneg,
			"npoints": npts,
		}).Warn("found negative value(s) of density-of-states; these may cause serious problems")
	}

	// band edges
	o.ivbm = -1
	for i, e := range o.edos {
		if e <= 0 {
			o.ivbm = i
		}
	}
	if o.ivbm < 0 {
		return nil, chk.Err("energy grid has no point at or below the valence band maximum (E=0); emin=%g", o.edos[0])
	}
	o.icbm = -1
	for i, e := range o.edos {
		if e >= bandgap {
			o.icbm = i
			break
		}
	}
	if o.icbm < 0 {
		return nil, chk.Err("energy grid has no point at or above the conduction band minimum (E=%g); emax=%g", bandgap, o.edos[npts-1])
	}

	// normalise
	sum := o.sumValence()
	if sum <= 0 {
		return nil, chk.Err("integrated density-of-states up to the valence band maximum is not positive: %g", sum)
	}
	floats.Scale(float64(nelect)/sum, o.dos)
	return
}

// Emin returns the minimum energy of the grid
func (o DOS) Emin() float64 { return o.edos[0] }

// Emax returns the maximum energy of the grid
func (o DOS) Emax() float64 { return o.edos[len(o.edos)-1] }

// Bandgap returns the band gap
func (o DOS) Bandgap() float64 { return o.bandgap }

// Nelect returns the number of electrons used in the normalisation
func (o DOS) Nelect() int { return o.nelect }

// SpinPolarised tells whether the input data had two spin channels
func (o DOS) SpinPolarised() bool { return o.spinPol }

// NegativeCount returns the number of negative density values found in the input data
func (o DOS) NegativeCount() int { return o.nneg }

// VbmIndex returns the index of the valence band maximum
func (o DOS) VbmIndex() int { return o.ivbm }

// CbmIndex returns the index of the conduction band minimum
func (o DOS) CbmIndex() int { return o.icbm }

// Energies returns a copy of the energy grid
func (o DOS) Energies() []float64 {
	return append([]float64{}, o.edos...)
}

// Densities returns a copy of the normalised density-of-states
func (o DOS) Densities() []float64 {
	return append([]float64{}, o.dos...)
}

// IntegratedElectrons integrates the normalised density-of-states up to the
// valence band maximum. The result equals Nelect within round-off
func (o DOS) IntegratedElectrons() float64 {
	return o.sumValence()
}

// CarrierConcentrations computes the concentrations of holes (p0) and electrons (n0)
// in the reference cell from the Fermi-Dirac distribution
//  eFermi      -- Fermi energy [eV]
//  temperature -- temperature [K]
func (o DOS) CarrierConcentrations(eFermi, temperature float64) (p0, n0 float64) {
	kT := phys.KT(temperature)

	// holes: valence band up to and including the VBM
	nv := o.ivbm + 1
	fv := make([]float64, nv)
	for i := 0; i < nv; i++ {
		fv[i] = o.dos[i] * phys.FermiDirac((eFermi-o.edos[i])/kT)
	}
	p0 = trapz(o.edos[:nv], fv)

	// electrons: conduction band from the CBM
	nc := len(o.edos) - o.icbm
	fc := make([]float64, nc)
	for i := 0; i < nc; i++ {
		j := o.icbm + i
		fc[i] = o.dos[j] * phys.FermiDirac((o.edos[j]-eFermi)/kT)
	}
	n0 = trapz(o.edos[o.icbm:], fc)
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// sumValence integrates dos from emin to the VBM
func (o DOS) sumValence() float64 {
	return trapz(o.edos[:o.ivbm+1], o.dos[:o.ivbm+1])
}

// trapz applies the trapezoidal rule; zero is returned for less than two points
func trapz(x, f []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return integrate.Trapezoidal(x, f)
}

// isFinite tells whether x is neither NaN nor ±Inf
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
