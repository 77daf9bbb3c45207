// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cpmech/gofermi/inp"
)

// command line state shared by all commands
var (
	vip     = inp.NewViper()
	cfgFile string
	verbose bool
)

func setupLogger(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		FullTimestamp:   true,
	})
}

// readConfig reads the configuration and sets the logger up
func readConfig() (cfg *inp.Config, err error) {
	cfg, err = inp.ReadConfig(vip, cfgFile)
	if err != nil {
		return
	}
	setupLogger(cfg.LogLevel)
	logrus.WithFields(logrus.Fields{
		"temperature":    cfg.Temperature,
		"tolerance":      cfg.Tolerance,
		"max_iterations": cfg.MaxIterations,
		"encoder":        cfg.Encoder,
	}).Debug("config loaded")
	return
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gofermi",
		Short:         "Self-consistent Fermi energy and defect concentrations under charge neutrality",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// settings; names of flags match configuration keys with dashes
	f := cmd.PersistentFlags()
	f.StringVarP(&cfgFile, "config", "c", "", "configuration file (yaml, json or toml)")
	f.BoolVarP(&verbose, "verbose", "v", false, "show messages")
	f.Float64P("temperature", "T", 0, "temperature [K]; overrides the value in the system file")
	f.Float64("tolerance", 1e-18, "tolerance on the absolute net charge per cell")
	f.Int("max-iterations", 1500, "max number of trial steps")
	f.Bool("per-volume", true, "report concentrations in cm^-3")
	f.Bool("decomposed", false, "report each charge state")
	f.String("encoder", "json", "encoder of saved results: json, gob or yaml")
	f.String("dirout", "/tmp/gofermi", "directory for saved results")
	f.String("log-level", "info", "log level")
	bindFlag(vip, inp.KeyTemperature, cmd, "temperature")
	bindFlag(vip, inp.KeyTolerance, cmd, "tolerance")
	bindFlag(vip, inp.KeyMaxIterations, cmd, "max-iterations")
	bindFlag(vip, inp.KeyPerVolume, cmd, "per-volume")
	bindFlag(vip, inp.KeyDecomposed, cmd, "decomposed")
	bindFlag(vip, inp.KeyEncoder, cmd, "encoder")
	bindFlag(vip, inp.KeyDirOut, cmd, "dirout")
	bindFlag(vip, inp.KeyLogLevel, cmd, "log-level")

	cmd.AddCommand(solveCmd())
	cmd.AddCommand(legacyCmd())
	cmd.AddCommand(levelsCmd())
	cmd.AddCommand(writeInputsCmd())
	cmd.AddCommand(serveCmd())
	return cmd
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(name))
	if err != nil {
		chk.Panic("cannot bind flag %q: %v", name, err)
	}
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(2)
		}
	}()

	// run
	if err := rootCmd().Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}
