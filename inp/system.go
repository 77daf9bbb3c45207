// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data reader for defect systems and run configurations
package inp

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cpmech/gofermi/defect"
	"github.com/cpmech/gofermi/dos"
	"github.com/cpmech/gofermi/fermi"
	"github.com/cpmech/gofermi/phys"
)

// ChargeStateData holds input data of one charge state
type ChargeStateData struct {
	Charge     int      `json:"charge" yaml:"charge"`                     // charge q
	Energy     float64  `json:"energy" yaml:"energy"`                     // formation energy at eF = 0 [eV]
	Degeneracy int      `json:"degeneracy" yaml:"degeneracy"`             // degeneracy; 0 means 1
	Fixed      *float64 `json:"fixed,omitempty" yaml:"fixed,omitempty"` // fixed concentration [cm⁻³]
}

// SpeciesData holds input data of one defect species
type SpeciesData struct {
	Name         string            `json:"name" yaml:"name"`                       // unique name
	Nsites       int               `json:"nsites" yaml:"nsites"`                   // sites per cell; 0 means 1
	Fixed        *float64          `json:"fixed,omitempty" yaml:"fixed,omitempty"` // fixed total concentration [cm⁻³]
	ChargeStates []ChargeStateData `json:"charge_states" yaml:"charge_states"`     // charge states
}

// SystemData holds the description of a defect system
//  Note: paths are relative to the directory of the system file
type SystemData struct {
	Desc        string        `json:"desc,omitempty" yaml:"desc,omitempty"`         // description
	Volume      float64       `json:"volume,omitempty" yaml:"volume,omitempty"`     // cell volume [Å³]
	Unitcell    string        `json:"unitcell,omitempty" yaml:"unitcell,omitempty"` // unitcell.dat file; used if volume is zero
	Temperature float64       `json:"temperature" yaml:"temperature"`               // [K]
	Nelect      int           `json:"nelect" yaml:"nelect"`                         // number of electrons in the cell
	Bandgap     float64       `json:"bandgap" yaml:"bandgap"`                       // [eV]
	SpinPol     bool          `json:"spin_pol,omitempty" yaml:"spin_pol,omitempty"` // two channels in dos
	Edos        []float64     `json:"edos,omitempty" yaml:"edos,omitempty"`         // energies [eV]
	Dos         [][]float64   `json:"dos,omitempty" yaml:"dos,omitempty"`           // densities per channel
	Totdos      string        `json:"totdos,omitempty" yaml:"totdos,omitempty"`     // totdos.dat file; used if edos is empty
	Species     []SpeciesData `json:"species" yaml:"species"`                       // defect species

	// derived
	DirIn string `json:"-" yaml:"-"` // directory of the system file
}

// ReadSystem reads a system file (.yaml, .yml or .json)
func ReadSystem(fn string) (o *SystemData, err error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot read system file %q", fn)
	}
	o, err = DecodeSystem(bytes.NewReader(b), filepath.Ext(fn))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot decode system file %q", fn)
	}
	o.DirIn = os.ExpandEnv(filepath.Dir(fn))
	return
}

// DecodeSystem decodes a system description
//  format -- "yaml", "yml" or "json"; a leading dot is ignored
func DecodeSystem(r io.Reader, format string) (o *SystemData, err error) {
	o = new(SystemData)
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(o)
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(o)
	default:
		return nil, pkgerrors.Errorf("unknown system format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return
}

// EncodeSystem encodes a system description
//  format -- "yaml", "yml" or "json"; a leading dot is ignored
func EncodeSystem(w io.Writer, o *SystemData, format string) (err error) {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(o)
		if err == nil {
			err = enc.Close()
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(o)
	default:
		return pkgerrors.Errorf("unknown system format %q", format)
	}
	return
}

// GetVolume returns the cell volume, reading the unitcell file if needed
func (o SystemData) GetVolume() (volume float64, err error) {
	if o.Volume > 0 {
		return o.Volume, nil
	}
	if o.Unitcell == "" {
		return 0, pkgerrors.New("either volume or unitcell must be given")
	}
	return ReadUnitcell(o.path(o.Unitcell))
}

// GetDos returns the density-of-states, reading the totdos file if needed
func (o SystemData) GetDos() (d *dos.DOS, err error) {
	if len(o.Edos) > 0 {
		d, err = dos.FromData(dos.Data{Nelect: o.Nelect, Bandgap: o.Bandgap, Edos: o.Edos, Dos: o.Dos, SpinPol: o.SpinPol})
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "invalid density-of-states")
		}
		return
	}
	if o.Totdos == "" {
		return nil, pkgerrors.New("either edos/dos or totdos must be given")
	}
	edos, channels, err := ReadTotdos(o.path(o.Totdos))
	if err != nil {
		return
	}
	d, err = dos.New(channels, edos, o.Bandgap, o.Nelect, len(channels) == 2)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid density-of-states in %q", o.Totdos)
	}
	return
}

// GetSpecies returns the defect species. Fixed concentrations are converted from cm⁻³ to per cell
func (o SystemData) GetSpecies(volume float64) (species []*defect.Species, err error) {
	toCell := 1.0 / phys.PerVolume(volume)
	for _, sd := range o.Species {
		nsites := sd.Nsites
		if nsites == 0 {
			nsites = 1
		}
		sp, err := defect.NewSpecies(sd.Name, nsites)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "species %q", sd.Name)
		}
		for _, csd := range sd.ChargeStates {
			var cs *defect.ChargeState
			if csd.Fixed != nil {
				cs = defect.NewFixedChargeState(csd.Charge, *csd.Fixed*toCell)
			} else {
				g := csd.Degeneracy
				if g == 0 {
					g = 1
				}
				cs = defect.NewChargeState(csd.Charge, csd.Energy, g)
			}
			err = sp.AddChargeState(cs)
			if err != nil {
				return nil, pkgerrors.Wrapf(err, "species %q", sd.Name)
			}
		}
		if sd.Fixed != nil {
			err = sp.FixConcentration(*sd.Fixed * toCell)
			if err != nil {
				return nil, pkgerrors.Wrapf(err, "species %q", sd.Name)
			}
		}
		species = append(species, sp)
	}
	return
}

// Build allocates the defect system
//  cfg -- configuration; its temperature, if positive, overrides the one in the system data
func (o SystemData) Build(cfg *Config) (sys *fermi.System, err error) {
	volume, err := o.GetVolume()
	if err != nil {
		return
	}
	d, err := o.GetDos()
	if err != nil {
		return
	}
	species, err := o.GetSpecies(volume)
	if err != nil {
		return
	}
	temperature := o.Temperature
	var prms *fermi.Params
	if cfg != nil {
		if cfg.Temperature > 0 {
			temperature = cfg.Temperature
		}
		prms = cfg.Params()
	}
	sys, err = fermi.New(species, d, volume, temperature, prms)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid defect system")
	}
	return
}

// NewSystemData returns the description of an existing system with an inline density-of-states
func NewSystemData(sys *fermi.System) (o *SystemData) {
	scale := phys.PerVolume(sys.Volume())
	d := sys.Dos().Data()
	o = &SystemData{
		Volume:      sys.Volume(),
		Temperature: sys.Temperature(),
		Nelect:      d.Nelect,
		Bandgap:     d.Bandgap,
		SpinPol:     d.SpinPol,
		Edos:        d.Edos,
		Dos:         d.Dos,
	}
	for _, sp := range sys.Species() {
		sd := SpeciesData{Name: sp.Name(), Nsites: sp.Nsites()}
		if c, fixed := sp.Fixed(); fixed {
			v := c * scale
			sd.Fixed = &v
		}
		for _, cs := range sp.ChargeStates() {
			csd := ChargeStateData{Charge: cs.Charge(), Energy: cs.Energy(), Degeneracy: cs.Degeneracy()}
			if c, fixed := cs.FixedConcentration(); fixed {
				v := c * scale
				csd.Fixed = &v
			}
			sd.ChargeStates = append(sd.ChargeStates, csd)
		}
		o.Species = append(o.Species, sd)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// path returns the path of a file relative to the input directory
func (o SystemData) path(fn string) string {
	fn = os.ExpandEnv(fn)
	if filepath.IsAbs(fn) || o.DirIn == "" {
		return fn
	}
	return filepath.Join(o.DirIn, fn)
}
