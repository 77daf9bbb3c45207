// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cpmech/gosl/io"
	"github.com/fatih/color"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cpmech/gofermi/fermi"
	"github.com/cpmech/gofermi/inp"
	"github.com/cpmech/gofermi/out"
	"github.com/cpmech/gofermi/server"
)

func solveCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "solve [system-file]",
		Short: "Solve a system described in a yaml or json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, sys, err := loadSystem(args[0])
			if err != nil {
				return err
			}
			return runSolve(cfg, sys, io.FnKey(filepath.Base(args[0])), save)
		},
	}
	cmd.Flags().BoolVarP(&save, "save", "s", false, "save results to dirout")
	return cmd
}

func legacyCmd() *cobra.Command {
	var frozen, save bool
	var export string
	cmd := &cobra.Command{
		Use:   "legacy [directory]",
		Short: "Solve a system given by unitcell.dat, totdos.dat and input-fermi.dat",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := readConfig()
			if err != nil {
				return err
			}
			sys, err := inp.FromLegacyFiles(args[0], frozen, cfg.Params())
			if err != nil {
				return err
			}
			if cfg.Temperature > 0 {
				if err = sys.SetTemperature(cfg.Temperature); err != nil {
					return err
				}
			}
			if export != "" {
				if err = exportSystem(sys, export); err != nil {
					return err
				}
			}
			return runSolve(cfg, sys, filepath.Base(filepath.Clean(args[0])), save)
		},
	}
	cmd.Flags().BoolVarP(&frozen, "frozen", "f", false, "input-fermi.dat has frozen species and charge states")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "save results to dirout")
	cmd.Flags().StringVarP(&export, "export", "e", "", "write the system to a yaml or json file")
	return cmd
}

func levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels [system-file]",
		Short: "Show the transition levels of all defect species",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, sys, err := loadSystem(args[0])
			if err != nil {
				return err
			}
			io.Pf("%s", out.LevelsTable(sys))
			return nil
		},
	}
}

func writeInputsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "write-inputs [system-file]",
		Short: "Write the input-fermi.dat file of a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, sys, err := loadSystem(args[0])
			if err != nil {
				return err
			}
			if output == "-" {
				return inp.WriteInputFermi(os.Stdout, sys)
			}
			var buf bytes.Buffer
			if err = inp.WriteInputFermi(&buf, sys); err != nil {
				return err
			}
			if err = os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return pkgerrors.Wrapf(err, "cannot write %q", output)
			}
			if verbose {
				io.Pfblue2("file <%s> written\n", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", inp.InputFermiFile, "output file; - means stdout")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := readConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, addr, cfg)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "127.0.0.1:8080", "address to listen on")
	return cmd
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// loadSystem reads the configuration and the system file
func loadSystem(fn string) (cfg *inp.Config, sys *fermi.System, err error) {
	cfg, err = readConfig()
	if err != nil {
		return
	}
	data, err := inp.ReadSystem(fn)
	if err != nil {
		return
	}
	sys, err = data.Build(cfg)
	return
}

// runSolve solves, prints the report and saves the results
func runSolve(cfg *inp.Config, sys *fermi.System, fnkey string, save bool) (err error) {
	if verbose {
		io.Pf("%v\n", sys)
	}
	sol, err := sys.Solve()
	if err != nil {
		return
	}
	io.Pf("%s", out.Report(sys, sol))
	if sol.Converged {
		color.New(color.FgGreen, color.Bold).Printf("\nconverged after %d steps\n", sol.Iterations)
	} else {
		color.New(color.FgRed, color.Bold).Printf("\nnot converged after %d steps; residual = %g\n", sol.Iterations, sol.Residual)
	}
	if save {
		_, err = out.SaveResults(cfg.DirOut, fnkey, cfg.Encoder, sys.ResultsAt(sol, cfg.Options()), verbose)
	}
	return
}

// exportSystem writes the description of a system; the format follows the extension
func exportSystem(sys *fermi.System, fn string) (err error) {
	var buf bytes.Buffer
	err = inp.EncodeSystem(&buf, inp.NewSystemData(sys), filepath.Ext(fn))
	if err != nil {
		return
	}
	err = os.WriteFile(fn, buf.Bytes(), 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "cannot write %q", fn)
	}
	if verbose {
		io.Pfblue2("file <%s> written\n", fn)
	}
	return
}
