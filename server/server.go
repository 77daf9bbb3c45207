// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package server implements an HTTP interface to the self-consistent Fermi energy solver
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cpmech/gofermi/inp"
)

// MaxBodySize is the largest accepted system description [bytes]
const MaxBodySize = 64 << 20

// NewRouter returns the router with all routes
//  cfg -- default settings; nil means use defaults
func NewRouter(cfg *inp.Config) *gin.Engine {
	if cfg == nil {
		cfg = new(inp.Config)
		cfg.SetDefault()
	}
	h := &handler{cfg: cfg}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/healthz", h.healthz)
	router.POST("/solve", h.solve)
	router.POST("/levels", h.levels)
	return router
}

// Run serves HTTP on addr until ctx is cancelled
func Run(ctx context.Context, addr string, cfg *inp.Config) (err error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		errc <- srv.Serve(l)
	}()

	select {
	case err = <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down http server")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
