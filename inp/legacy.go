// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bufio"
	"bytes"
	goio "io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/gofermi/defect"
	"github.com/cpmech/gofermi/dos"
	"github.com/cpmech/gofermi/fermi"
	"github.com/cpmech/gofermi/phys"
)

// default names of legacy files
const (
	UnitcellFile   = "unitcell.dat"
	TotdosFile     = "totdos.dat"
	InputFermiFile = "input-fermi.dat"
)

// InputFermi holds the data in an input-fermi.dat file
type InputFermi struct {
	Nspin       int               // spin flag as written in the file
	Nelect      int               // number of electrons
	Bandgap     float64           // [eV]
	Temperature float64           // [K]
	Species     []*defect.Species // free species updated with frozen data
}

// ReadUnitcell reads a unitcell.dat file and returns the cell volume [Å³]
//  Format: a scale factor followed by three lattice vectors (one per line); lines starting with # are ignored
func ReadUnitcell(fn string) (volume float64, err error) {
	lines, err := readLegacyLines(fn)
	if err != nil {
		return
	}
	if len(lines) < 4 {
		return 0, pkgerrors.Errorf("%s: scale factor and three lattice vectors are required", fn)
	}
	factor, err := strconv.ParseFloat(lines[0][0], 64)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "%s: invalid scale factor", fn)
	}
	vecs := make([]float64, 0, 9)
	for i := 1; i < 4; i++ {
		if len(lines[i]) < 3 {
			return 0, pkgerrors.Errorf("%s: lattice vector %d must have three components", fn, i)
		}
		for j := 0; j < 3; j++ {
			x, err := strconv.ParseFloat(lines[i][j], 64)
			if err != nil {
				return 0, pkgerrors.Wrapf(err, "%s: invalid lattice vector %d", fn, i)
			}
			vecs = append(vecs, x*factor)
		}
	}
	volume = math.Abs(mat.Det(mat.NewDense(3, 3, vecs)))
	return
}

// ReadTotdos reads a totdos.dat file
//  Format: energy followed by one or two (spin-polarised) density columns; lines starting with # are ignored
func ReadTotdos(fn string) (edos []float64, channels [][]float64, err error) {
	lines, err := readLegacyLines(fn)
	if err != nil {
		return
	}
	if len(lines) == 0 {
		return nil, nil, pkgerrors.Errorf("%s: no data", fn)
	}
	ncols := len(lines[0])
	if ncols != 2 && ncols != 3 {
		return nil, nil, pkgerrors.Errorf("%s: two or three columns are required; %d found", fn, ncols)
	}
	channels = make([][]float64, ncols-1)
	for i, fields := range lines {
		if len(fields) != ncols {
			return nil, nil, pkgerrors.Errorf("%s: data line %d has %d columns; %d expected", fn, i+1, len(fields), ncols)
		}
		vals := make([]float64, ncols)
		for j, s := range fields {
			vals[j], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, pkgerrors.Wrapf(err, "%s: data line %d", fn, i+1)
			}
		}
		edos = append(edos, vals[0])
		for k := range channels {
			channels[k] = append(channels[k], vals[1+k])
		}
	}
	return
}

// ReadInputFermi reads an input-fermi.dat file
//  Input:
//   fn     -- filename
//   volume -- cell volume [Å³] to convert frozen concentrations from cm⁻³ to per cell
//   frozen -- the file has the frozen species and frozen charge states sections
//  Note: frozen charge states of unknown species create new species with one site
func ReadInputFermi(fn string, volume float64, frozen bool) (o *InputFermi, err error) {
	lines, err := readLegacyLines(fn)
	if err != nil {
		return
	}
	r := &legacyReader{fn: fn, lines: lines}

	// header
	o = new(InputFermi)
	o.Nspin = r.readInt()
	o.Nelect = r.readInt()
	o.Bandgap = r.readFloat()
	o.Temperature = r.readFloat()

	// free species
	ndefects := r.readInt()
	for i := 0; i < ndefects && r.err == nil; i++ {
		f := r.next(3)
		name := f[0]
		ncharge := r.atoi(f[1])
		nsites := r.atoi(f[2])
		sp, e := defect.NewSpecies(name, nsites)
		if e != nil {
			return nil, pkgerrors.Wrapf(e, "%s", fn)
		}
		for j := 0; j < ncharge && r.err == nil; j++ {
			g := r.next(3)
			cs := defect.NewChargeState(r.atoi(g[0]), r.atof(g[1]), r.atoi(g[2]))
			if r.err != nil {
				break
			}
			if e = sp.AddChargeState(cs); e != nil {
				return nil, pkgerrors.Wrapf(e, "%s", fn)
			}
		}
		o.Species = append(o.Species, sp)
	}
	if r.err != nil {
		return nil, r.err
	}
	if !frozen {
		return
	}
	if volume <= 0 {
		return nil, pkgerrors.Errorf("%s: volume must be positive to read frozen concentrations", fn)
	}
	toCell := 1.0 / phys.PerVolume(volume)

	// frozen species
	nfrozen := r.readInt()
	for i := 0; i < nfrozen && r.err == nil; i++ {
		f := r.next(2)
		c := r.atof(f[1])
		if r.err != nil {
			break
		}
		sp := findSpecies(o.Species, f[0])
		if sp == nil {
			logrus.WithFields(logrus.Fields{"file": fn, "species": f[0]}).Warn("frozen species not found; ignored")
			continue
		}
		if e := sp.FixConcentration(c * toCell); e != nil {
			return nil, pkgerrors.Wrapf(e, "%s", fn)
		}
	}

	// frozen charge states
	nfrozenq := r.readInt()
	for i := 0; i < nfrozenq && r.err == nil; i++ {
		f := r.next(3)
		q := r.atoi(f[1])
		c := r.atof(f[2])
		if r.err != nil {
			break
		}
		cs := defect.NewFixedChargeState(q, c*toCell)
		sp := findSpecies(o.Species, f[0])
		if sp == nil {
			sp, err = defect.NewSpecies(f[0], 1, cs)
			if err != nil {
				return nil, pkgerrors.Wrapf(err, "%s", fn)
			}
			o.Species = append(o.Species, sp)
			continue
		}
		if e := sp.SetChargeState(cs); e != nil {
			return nil, pkgerrors.Wrapf(e, "%s", fn)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return
}

// FromLegacyFiles reads unitcell.dat, totdos.dat and input-fermi.dat from a directory
// and allocates the defect system
func FromLegacyFiles(dir string, frozen bool, prms *fermi.Params) (sys *fermi.System, err error) {
	volume, err := ReadUnitcell(filepath.Join(dir, UnitcellFile))
	if err != nil {
		return
	}
	data, err := ReadInputFermi(filepath.Join(dir, InputFermiFile), volume, frozen)
	if err != nil {
		return
	}
	edos, channels, err := ReadTotdos(filepath.Join(dir, TotdosFile))
	if err != nil {
		return
	}
	d, err := dos.New(channels, edos, data.Bandgap, data.Nelect, len(channels) == 2)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid density-of-states in %q", TotdosFile)
	}
	if spinPol := data.Nspin == 2; spinPol != d.SpinPolarised() {
		logrus.WithFields(logrus.Fields{"nspin": data.Nspin, "channels": len(channels)}).Warn("spin flag does not match the number of DOS channels")
	}
	sys, err = fermi.New(data.Species, d, volume, data.Temperature, prms)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid defect system")
	}
	return
}

// WriteInputFermi writes an input-fermi.dat file (with frozen sections) describing a system
//  Note: species made only of fixed charge states are recovered with one site
func WriteInputFermi(w goio.Writer, sys *fermi.System) (err error) {
	var buf bytes.Buffer
	scale := phys.PerVolume(sys.Volume())

	// header
	nspin := 1
	if sys.Dos().SpinPolarised() {
		nspin = 2
	}
	io.Ff(&buf, "%d\n", nspin)
	io.Ff(&buf, "%d\n", sys.Dos().Nelect())
	io.Ff(&buf, "%s\n", fmtFloat(sys.Dos().Bandgap()))
	io.Ff(&buf, "%s\n", fmtFloat(sys.Temperature()))

	// free species
	var free []*defect.Species
	for _, sp := range sys.Species() {
		if len(sp.VariableChargeStates()) > 0 {
			free = append(free, sp)
		}
	}
	io.Ff(&buf, "%d\n", len(free))
	for _, sp := range free {
		states := sp.VariableChargeStates()
		io.Ff(&buf, "%s %d %d\n", sp.Name(), len(states), sp.Nsites())
		for _, cs := range states {
			io.Ff(&buf, " %d %s %d\n", cs.Charge(), fmtFloat(cs.Energy()), cs.Degeneracy())
		}
	}

	// frozen species
	var nfixed int
	var fixed bytes.Buffer
	for _, sp := range sys.Species() {
		if c, ok := sp.Fixed(); ok {
			io.Ff(&fixed, "%s %s\n", sp.Name(), fmtFloat(c*scale))
			nfixed++
		}
	}
	io.Ff(&buf, "%d\n%s", nfixed, fixed.String())

	// frozen charge states
	var nfixedq int
	fixed.Reset()
	for _, sp := range sys.Species() {
		for _, cs := range sp.FixedChargeStates() {
			c, _ := cs.FixedConcentration()
			io.Ff(&fixed, "%s %d %s\n", sp.Name(), cs.Charge(), fmtFloat(c*scale))
			nfixedq++
		}
	}
	io.Ff(&buf, "%d\n%s", nfixedq, fixed.String())

	_, err = w.Write(buf.Bytes())
	return pkgerrors.Wrap(err, "cannot write input-fermi data")
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// readLegacyLines reads the fields of all non-empty lines not starting with #
func readLegacyLines(fn string) (lines [][]string, err error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot read %q", fn)
	}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		lines = append(lines, fields)
	}
	err = pkgerrors.Wrapf(scanner.Err(), "cannot scan %q", fn)
	return
}

// legacyReader consumes lines keeping the first error
type legacyReader struct {
	fn    string
	lines [][]string
	pos   int
	err   error
}

func (o *legacyReader) next(nfields int) []string {
	if o.err != nil {
		return make([]string, nfields)
	}
	if o.pos >= len(o.lines) {
		o.err = pkgerrors.Errorf("%s: unexpected end of file", o.fn)
		return make([]string, nfields)
	}
	fields := o.lines[o.pos]
	o.pos++
	if len(fields) < nfields {
		o.err = pkgerrors.Errorf("%s: line %q must have at least %d fields", o.fn, strings.Join(fields, " "), nfields)
		return make([]string, nfields)
	}
	return fields
}

func (o *legacyReader) readInt() int       { return o.atoi(o.next(1)[0]) }
func (o *legacyReader) readFloat() float64 { return o.atof(o.next(1)[0]) }

func (o *legacyReader) atoi(s string) int {
	if o.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// charges may be written as floats; e.g. "-1.0"
		x, e := strconv.ParseFloat(s, 64)
		if e != nil || x != float64(int(x)) {
			o.err = pkgerrors.Wrapf(err, "%s: invalid integer", o.fn)
			return 0
		}
		n = int(x)
	}
	return n
}

func (o *legacyReader) atof(s string) float64 {
	if o.err != nil {
		return 0
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		o.err = pkgerrors.Wrapf(err, "%s: invalid number", o.fn)
	}
	return x
}

// findSpecies finds species by name
func findSpecies(species []*defect.Species, name string) *defect.Species {
	for _, sp := range species {
		if sp.Name() == name {
			return sp
		}
	}
	return nil
}

// fmtFloat formats a float with the shortest representation that reads back exactly
func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
