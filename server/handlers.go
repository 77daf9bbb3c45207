// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cpmech/gofermi/defect"
	"github.com/cpmech/gofermi/fermi"
	"github.com/cpmech/gofermi/inp"
)

type handler struct {
	cfg *inp.Config
}

// errorResponse is the body of failed requests
type errorResponse struct {
	Error string   `json:"error"`
	Emin  *float64 `json:"emin,omitempty"`
	Emax  *float64 `json:"emax,omitempty"`
}

// levelsResponse is the body of /levels
type levelsResponse struct {
	Emin     float64                        `json:"emin"`
	Emax     float64                        `json:"emax"`
	Levels   map[string][]defect.Transition `json:"levels"`
	Profiles map[string][]defect.Point      `json:"profiles"`
}

func (o *handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (o *handler) solve(c *gin.Context) {
	sys, ok := o.system(c)
	if !ok {
		return
	}

	// options
	opts := o.cfg.Options()
	var err error
	if opts.PerVolume, err = queryBool(c, "per_volume", opts.PerVolume); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if opts.Decomposed, err = queryBool(c, "decomposed", opts.Decomposed); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	// solve
	res, err := sys.Results(opts)
	if err != nil {
		var berr *fermi.BoundsError
		if errors.As(err, &berr) {
			c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Emin: &berr.Emin, Emax: &berr.Emax})
			_ = c.Error(err)
			c.Abort()
			return
		}
		abort(c, http.StatusInternalServerError, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"e_fermi":   res.EFermi,
		"converged": res.Converged,
		"species":   len(res.Species),
	}).Info("system solved")
	c.JSON(http.StatusOK, res)
}

func (o *handler) levels(c *gin.Context) {
	sys, ok := o.system(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, levelsResponse{
		Emin:     sys.Dos().Emin(),
		Emax:     sys.Dos().Emax(),
		Levels:   sys.ThermodynamicLevels(),
		Profiles: sys.TransitionLevels(),
	})
}

// system decodes the request body and allocates the defect system
func (o *handler) system(c *gin.Context) (sys *fermi.System, ok bool) {

	// decode
	format := "json"
	if strings.Contains(c.ContentType(), "yaml") || c.Query("format") == "yaml" {
		format = "yaml"
	}
	data, err := inp.DecodeSystem(io.LimitReader(c.Request.Body, MaxBodySize), format)
	if err != nil {
		abort(c, http.StatusBadRequest, pkgerrors.Wrap(err, "cannot decode system"))
		return nil, false
	}

	// files on the server are not accessible
	if data.Totdos != "" || data.Unitcell != "" {
		abort(c, http.StatusBadRequest, pkgerrors.New("totdos and unitcell files are not accepted; use volume, edos and dos"))
		return nil, false
	}

	// settings
	cfg := *o.cfg
	if s := c.Query("temperature"); s != "" {
		cfg.Temperature, err = strconv.ParseFloat(s, 64)
		if err != nil || cfg.Temperature <= 0 {
			abort(c, http.StatusBadRequest, pkgerrors.Errorf("invalid temperature %q", s))
			return nil, false
		}
	}

	// allocate
	sys, err = data.Build(&cfg)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return nil, false
	}
	return sys, true
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func abort(c *gin.Context, code int, err error) {
	c.JSON(code, errorResponse{Error: err.Error()})
	_ = c.AbortWithError(code, err)
}

func queryBool(c *gin.Context, key string, def bool) (bool, error) {
	s, found := c.GetQuery(key)
	if !found || s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def, pkgerrors.Errorf("invalid value %q for %s", s, key)
	}
	return v, nil
}
