// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package defect

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func checkProfile(tst *testing.T, pts []Point, E, Ef []float64) {
	chk.Int(tst, "npts", len(pts), len(E))
	if len(pts) != len(E) {
		return
	}
	for i, p := range pts {
		chk.Float64(tst, io.Sf("E[%d]", i), 1e-14, p.E, E[i])
		chk.Float64(tst, io.Sf("Ef[%d]", i), 1e-14, p.Ef, Ef[i])
	}
}

func Test_levels01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("levels01")

	sp := vacancy(tst)
	pts := sp.TransitionLevelProfile(0, 3)
	io.Pforan("pts = %v\n", pts)
	checkProfile(tst, pts,
		[]float64{0, 0.5, 1.0, 1.5, 3},
		[]float64{1, 2.0, 2.5, 2.5, 1})

	levels := sp.TransitionLevels(0, 3)
	chk.Int(tst, "nlevels", len(levels), 3)
	chk.Ints(tst, "q1", []int{levels[0].Q1, levels[1].Q1, levels[2].Q1}, []int{2, 1, 0})
	chk.Ints(tst, "q2", []int{levels[0].Q2, levels[1].Q2, levels[2].Q2}, []int{1, 0, -1})
	chk.Array(tst, "E", 1e-14, []float64{levels[0].E, levels[1].E, levels[2].E}, []float64{0.5, 1, 1.5})

	// envelope is the minimum over all charge states
	for _, p := range pts {
		for _, cs := range sp.ChargeStates() {
			if cs.FormationEnergy(p.E) < p.Ef-1e-14 {
				tst.Errorf("q=%d is below the envelope at E=%g", cs.Charge(), p.E)
				return
			}
		}
	}
}

func Test_levels02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("levels02. negative-U")

	sp, _ := NewSpecies("X_i", 1,
		NewChargeState(2, 1.0, 1),
		NewChargeState(1, 3.0, 1),
		NewChargeState(0, 1.5, 1),
	)
	checkProfile(tst, sp.TransitionLevelProfile(0, 3),
		[]float64{0, 0.25, 3},
		[]float64{1, 1.5, 1.5})
	levels := sp.TransitionLevels(0, 3)
	chk.Int(tst, "nlevels", len(levels), 1)
	chk.Int(tst, "q1", levels[0].Q1, 2)
	chk.Int(tst, "q2", levels[0].Q2, 0)

	// range with a single stable state
	checkProfile(tst, sp.TransitionLevelProfile(1, 2),
		[]float64{1, 2},
		[]float64{1.5, 1.5})
}

func Test_levels03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("levels03. fixed and empty")

	sp, _ := NewSpecies("Y", 1, NewFixedChargeState(1, 1e-3))
	if pts := sp.TransitionLevelProfile(0, 1); pts != nil {
		tst.Errorf("fixed charge states have no profile: %v", pts)
		return
	}
	sp = vacancy(tst)
	if pts := sp.TransitionLevelProfile(2, 1); pts != nil {
		tst.Errorf("emax < emin should give no profile: %v", pts)
		return
	}

	// fixed charge states are skipped
	sp.FixChargeState(1, 1e-8)
	checkProfile(tst, sp.TransitionLevelProfile(0, 3),
		[]float64{0, 0.75, 1.5, 3},
		[]float64{1, 2.5, 2.5, 1})
}
