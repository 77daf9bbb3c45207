// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dos

// Data holds the plain representation of a DOS for interchange
//  Note: Dos holds one channel or, if SpinPol, two channels
type Data struct {
	Nelect  int         `json:"nelect" yaml:"nelect"`
	Bandgap float64     `json:"bandgap" yaml:"bandgap"`
	Edos    []float64   `json:"edos" yaml:"edos"`
	Dos     [][]float64 `json:"dos" yaml:"dos"`
	SpinPol bool        `json:"spin_pol" yaml:"spin_pol"`
}

// FromData returns a new DOS from plain data
func FromData(d Data) (*DOS, error) {
	return New(d.Dos, d.Edos, d.Bandgap, d.Nelect, d.SpinPol)
}

// Data returns the plain representation of this DOS
//  Note: the spin channels are returned already summed and normalised; thus SpinPol is
//        always false. Building a new DOS from the result reproduces this one
func (o DOS) Data() Data {
	return Data{
		Nelect:  o.nelect,
		Bandgap: o.bandgap,
		Edos:    o.Energies(),
		Dos:     [][]float64{o.Densities()},
		SpinPol: false,
	}
}
