// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/cpmech/gofermi/fermi"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys;
// e.g. GOFERMI_TEMPERATURE=600
const EnvPrefix = "GOFERMI"

// configuration keys
const (
	KeyTemperature   = "temperature"
	KeyTolerance     = "tolerance"
	KeyMaxIterations = "max_iterations"
	KeyPerVolume     = "per_volume"
	KeyDecomposed    = "decomposed"
	KeyEncoder       = "encoder"
	KeyDirOut        = "dirout"
	KeyLogLevel      = "log_level"
)

// Config holds the settings of a run
type Config struct {
	Temperature   float64 `mapstructure:"temperature"`    // [K]; zero means use the value in the system file
	Tolerance     float64 `mapstructure:"tolerance"`      // tolerance on the absolute net charge per cell
	MaxIterations int     `mapstructure:"max_iterations"` // max number of trial steps
	PerVolume     bool    `mapstructure:"per_volume"`     // report concentrations in cm⁻³
	Decomposed    bool    `mapstructure:"decomposed"`     // report each charge state
	Encoder       string  `mapstructure:"encoder"`        // encoder of saved results: "json", "gob" or "yaml"
	DirOut        string  `mapstructure:"dirout"`         // directory for saved results
	LogLevel      string  `mapstructure:"log_level"`      // logrus level
}

// SetDefault sets default values
func (o *Config) SetDefault() {
	var prms fermi.Params
	prms.SetDefault()
	o.Temperature = 0
	o.Tolerance = prms.Tol
	o.MaxIterations = prms.NmaxIt
	o.PerVolume = true
	o.Decomposed = false
	o.Encoder = "json"
	o.DirOut = "/tmp/gofermi"
	o.LogLevel = "info"
}

// PostProcess checks and fixes values after reading
func (o *Config) PostProcess() (err error) {
	o.Encoder = strings.ToLower(o.Encoder)
	if o.Encoder != "gob" && o.Encoder != "json" && o.Encoder != "yaml" {
		return pkgerrors.Errorf("encoder must be gob, json or yaml; %q is invalid", o.Encoder)
	}
	if _, err = logrus.ParseLevel(o.LogLevel); err != nil {
		return pkgerrors.Wrapf(err, "invalid log level")
	}
	if o.Temperature < 0 {
		return pkgerrors.Errorf("temperature must not be negative; %g is invalid", o.Temperature)
	}
	if o.Tolerance <= 0 {
		return pkgerrors.Errorf("tolerance must be positive; %g is invalid", o.Tolerance)
	}
	if o.MaxIterations < 1 {
		return pkgerrors.Errorf("max_iterations must be positive; %d is invalid", o.MaxIterations)
	}
	return
}

// Params returns the solver parameters
func (o Config) Params() *fermi.Params {
	return &fermi.Params{Tol: o.Tolerance, NmaxIt: o.MaxIterations}
}

// Options returns the reporting options
func (o Config) Options() fermi.ResultOptions {
	return fermi.ResultOptions{PerVolume: o.PerVolume, Decomposed: o.Decomposed}
}

// NewViper returns a viper instance with defaults and environment overrides set
func NewViper() *viper.Viper {
	var def Config
	def.SetDefault()
	v := viper.New()
	v.SetDefault(KeyTemperature, def.Temperature)
	v.SetDefault(KeyTolerance, def.Tolerance)
	v.SetDefault(KeyMaxIterations, def.MaxIterations)
	v.SetDefault(KeyPerVolume, def.PerVolume)
	v.SetDefault(KeyDecomposed, def.Decomposed)
	v.SetDefault(KeyEncoder, def.Encoder)
	v.SetDefault(KeyDirOut, def.DirOut)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadConfig reads the configuration
//  Input:
//   v  -- viper instance (e.g. from NewViper with flags bound); nil means NewViper()
//   fn -- optional configuration file (.yaml, .yml, .json, .toml); "" means none
func ReadConfig(v *viper.Viper, fn string) (o *Config, err error) {
	if v == nil {
		v = NewViper()
	}
	if fn != "" {
		v.SetConfigFile(fn)
		err = v.ReadInConfig()
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "cannot read configuration file %q", fn)
		}
	}
	o = new(Config)
	o.SetDefault()
	err = v.Unmarshal(o)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot decode configuration")
	}
	err = o.PostProcess()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid configuration")
	}
	return
}
