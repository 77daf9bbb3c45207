// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpmech/gofermi/defect"
	"github.com/cpmech/gofermi/dos"
	"github.com/cpmech/gofermi/fermi"
)

// doped returns a system with a free vacancy and a fixed donor
func doped(tst *testing.T) *fermi.System {
	v, err := defect.NewSpecies("V_O", 2,
		defect.NewChargeState(2, 1.0, 1),
		defect.NewChargeState(1, 1.5, 2),
		defect.NewChargeState(0, 2.5, 1),
	)
	require.NoError(tst, err)
	d, err := defect.NewSpecies("D", 1, defect.NewChargeState(1, 0, 1))
	require.NoError(tst, err)
	require.NoError(tst, d.FixConcentration(1e-6))
	z, err := defect.NewSpecies("Z", 1, defect.NewFixedChargeState(-1, 0))
	require.NoError(tst, err)
	sys, err := fermi.New([]*defect.Species{v, d, z}, dos.NewParabolic(-4, 7, 3, 1409, 8), 100, 300, nil)
	require.NoError(tst, err)
	return sys
}

func Test_fileio01(tst *testing.T) {
	sys := doped(tst)
	res, err := sys.Results(fermi.ResultOptions{PerVolume: true, Decomposed: true})
	require.NoError(tst, err)

	for _, enctype := range []string{"gob", "json", "yaml"} {
		tst.Run(enctype, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "results")
			fn, err := SaveResults(dir, "doped", enctype, res, false)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "doped_results."+enctype), fn)

			again, err := ReadResults(dir, "doped", enctype)
			require.NoError(t, err)
			assert.Equal(t, res.EFermi, again.EFermi)
			assert.Equal(t, res.Converged, again.Converged)
			assert.Equal(t, res.Iterations, again.Iterations)
			assert.Equal(t, res.Units, again.Units)
			assert.Equal(t, res.N0, again.N0)
			require.Len(t, again.Species, 3)
			for i, sp := range res.Species {
				assert.Equal(t, sp.Name, again.Species[i].Name)
				assert.Equal(t, sp.Fixed, again.Species[i].Fixed)
				assert.Equal(t, sp.Concentration, again.Species[i].Concentration)
				assert.Equal(t, len(sp.ChargeStates), len(again.Species[i].ChargeStates))
			}
		})
	}

	_, err = ReadResults(tst.TempDir(), "missing", "json")
	assert.Error(tst, err)
}

func Test_report01(tst *testing.T) {
	sys := doped(tst)
	sol, err := sys.Solve()
	require.NoError(tst, err)

	rep := Report(sys, sol)
	lines := strings.Split(rep, "\n")
	assert.True(tst, strings.HasPrefix(lines[0], "SC Fermi level :"))
	assert.Contains(tst, rep, "n (electrons)  : ")
	assert.Contains(tst, rep, "p (holes)      : ")
	assert.Contains(tst, rep, "D              : ")
	assert.Contains(tst, rep, "cm^-3 [fixed]")
	assert.Contains(tst, rep, "Breakdown of concentrations for each defect charge state:")
	assert.Contains(tst, rep, "V_O        : Charge Concentration(cm^-3) Total")
	assert.Contains(tst, rep, "Z          : Zero total - cannot give breakdown")
	if sol.Converged {
		assert.NotContains(tst, rep, "Not converged")
	}

	// not converged
	sol.Converged = false
	rep = Report(sys, sol)
	assert.Contains(tst, rep, "Not converged")
}

func Test_levels01(tst *testing.T) {
	sys := doped(tst)
	table := LevelsTable(sys)
	assert.Contains(tst, table, "V_O\n")
	assert.Contains(tst, table, "ε(+2/+1) = 0.5 eV")
	assert.Contains(tst, table, "ε(+1/+0) = 1 eV")
	assert.Contains(tst, table, "D\n  no transitions in [-4, 7]")
}
