// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpmech/gofermi/defect"
	"github.com/cpmech/gofermi/dos"
	"github.com/cpmech/gofermi/fermi"
)

const systemYaml = `desc: donor doped
unitcell: unitcell.dat
totdos: totdos.dat
temperature: 300
nelect: 8
bandgap: 3.0
species:
  - name: V_O
    nsites: 2
    charge_states:
      - {charge: 2, energy: 1.0, degeneracy: 1}
      - {charge: 1, energy: 1.5, degeneracy: 2}
      - {charge: 0, energy: 2.5}
  - name: D
    fixed: 1.0e+18
    charge_states:
      - {charge: 1, energy: 0.0}
  - name: A
    charge_states:
      - {charge: -1, fixed: 1.0e+17}
`

func Test_system01(tst *testing.T) {
	dir := tst.TempDir()
	writeFile(tst, dir, UnitcellFile, "1.0\n4 0 0\n0 5 0\n0 0 5\n")
	writeTotdos(tst, dir, true)
	fn := writeFile(tst, dir, "system.yaml", systemYaml)

	data, err := ReadSystem(fn)
	require.NoError(tst, err)
	assert.Equal(tst, "donor doped", data.Desc)
	assert.Equal(tst, dir, data.DirIn)
	require.Len(tst, data.Species, 3)

	volume, err := data.GetVolume()
	require.NoError(tst, err)
	assert.InDelta(tst, 100.0, volume, 1e-12)

	d, err := data.GetDos()
	require.NoError(tst, err)
	assert.True(tst, d.SpinPolarised())
	assert.InDelta(tst, 8.0, d.IntegratedElectrons(), 1e-12)

	species, err := data.GetSpecies(volume)
	require.NoError(tst, err)
	require.Len(tst, species, 3)
	assert.Equal(tst, 2, species[0].Nsites())
	assert.Equal(tst, 1, species[0].ChargeState(0).Degeneracy())
	assert.Equal(tst, 1, species[1].Nsites())
	c, fixed := species[1].Fixed()
	require.True(tst, fixed)
	assert.InDelta(tst, 1e-4, c, 1e-16)
	c, fixed = species[2].ChargeState(-1).FixedConcentration()
	require.True(tst, fixed)
	assert.InDelta(tst, 1e-5, c, 1e-17)

	// configuration temperature takes precedence
	sys, err := data.Build(nil)
	require.NoError(tst, err)
	assert.Equal(tst, 300.0, sys.Temperature())
	cfg, err := ReadConfig(nil, "")
	require.NoError(tst, err)
	cfg.Temperature = 1000
	cfg.Tolerance = 1e-15
	sys, err = data.Build(cfg)
	require.NoError(tst, err)
	assert.Equal(tst, 1000.0, sys.Temperature())
	assert.Equal(tst, 1e-15, sys.Params().Tol)

	sol, err := sys.Solve()
	require.NoError(tst, err)
	assert.True(tst, sol.Converged)
}

func Test_system02(tst *testing.T) {
	d := dos.NewParabolic(-4, 7, 3, 1409, 8)
	v, err := defect.NewSpecies("V", 2, defect.NewChargeState(1, 0.5, 2), defect.NewChargeState(0, 1.25, 1))
	require.NoError(tst, err)
	a, err := defect.NewSpecies("A", 1, defect.NewChargeState(-1, 0.2, 1))
	require.NoError(tst, err)
	require.NoError(tst, a.FixConcentration(1e-6))
	sys, err := fermi.New([]*defect.Species{v, a}, d, 50, 450, nil)
	require.NoError(tst, err)
	sol, err := sys.Solve()
	require.NoError(tst, err)

	// the description of a system rebuilds an equivalent system
	for _, format := range []string{"json", ".yaml"} {
		var buf bytes.Buffer
		require.NoError(tst, EncodeSystem(&buf, NewSystemData(sys), format))
		data, err := DecodeSystem(&buf, format)
		require.NoError(tst, err)
		again, err := data.Build(nil)
		require.NoError(tst, err)
		assert.Equal(tst, sys.SpeciesNames(), again.SpeciesNames())
		assert.Equal(tst, sys.Temperature(), again.Temperature())
		sol2, err := again.Solve()
		require.NoError(tst, err)
		assert.InDelta(tst, sol.EFermi, sol2.EFermi, 1e-12, format)
	}
}

func Test_system03(tst *testing.T) {
	tests := []struct {
		name    string
		format  string
		content string
	}{
		{"unknown format", "xml", "<system/>"},
		{"unknown json field", "json", `{"temperature": 300, "colour": "red"}`},
		{"bad yaml", "yaml", "species: [\n"},
		{"unknown yaml field", "yaml", "species:\n  - name: V\n    nsite: 4\n"},
	}
	for _, tc := range tests {
		tst.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSystem(strings.NewReader(tc.content), tc.format)
			assert.Error(t, err)
		})
	}

	// missing volume and dos
	data, err := DecodeSystem(strings.NewReader("temperature: 300\nnelect: 8\nbandgap: 3\n"), "yaml")
	require.NoError(tst, err)
	_, err = data.Build(nil)
	assert.Error(tst, err)
	data.Volume = 100
	_, err = data.Build(nil)
	assert.Error(tst, err)

	// missing files
	dir := tst.TempDir()
	assert.NotPanics(tst, func() {
		_, err = ReadSystem(filepath.Join(dir, "missing.yaml"))
	})
	assert.Error(tst, err)
	assert.NotPanics(tst, func() {
		_, _, err = ReadTotdos(filepath.Join(dir, TotdosFile))
	})
	assert.Error(tst, err)
	assert.NotPanics(tst, func() {
		_, err = ReadInputFermi(filepath.Join(dir, InputFermiFile), 100, false)
	})
	assert.Error(tst, err)
}
