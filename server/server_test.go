// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cpmech/gofermi/defect"
	"github.com/cpmech/gofermi/dos"
	"github.com/cpmech/gofermi/fermi"
	"github.com/cpmech/gofermi/inp"
)

// systemBody returns the description of a doped system
func systemBody(format string, donors float64) *bytes.Buffer {
	v, err := defect.NewSpecies("V_O", 2,
		defect.NewChargeState(2, 1.0, 1),
		defect.NewChargeState(1, 1.5, 2),
		defect.NewChargeState(0, 2.5, 1),
	)
	Expect(err).NotTo(HaveOccurred())
	d, err := defect.NewSpecies("D", 1, defect.NewChargeState(1, 0, 1))
	Expect(err).NotTo(HaveOccurred())
	Expect(d.FixConcentration(donors)).To(Succeed())
	sys, err := fermi.New([]*defect.Species{v, d}, dos.NewParabolic(-4, 7, 3, 1409, 8), 100, 300, nil)
	Expect(err).NotTo(HaveOccurred())
	var buf bytes.Buffer
	Expect(inp.EncodeSystem(&buf, inp.NewSystemData(sys), format)).To(Succeed())
	return &buf
}

var _ = Describe("Router", func() {
	var (
		router *gin.Engine
		rec    *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		cfg := new(inp.Config)
		cfg.SetDefault()
		cfg.Tolerance = 1e-15
		router = NewRouter(cfg)
		rec = httptest.NewRecorder()
	})

	Context("GET /healthz", func() {
		It("should report ok", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"ok"`))
		})
	})

	Context("POST /solve", func() {
		It("should solve a JSON system", func() {
			req := httptest.NewRequest(http.MethodPost, "/solve?per_volume=false", systemBody("json", 1e-6))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var res fermi.Results
			Expect(json.Unmarshal(rec.Body.Bytes(), &res)).To(Succeed())
			Expect(res.Converged).To(BeTrue())
			Expect(res.Units).To(Equal(fermi.UnitsPerCell))
			Expect(res.EFermi).To(BeNumerically(">", 1.5))
			Expect(res.EFermi).To(BeNumerically("<", 3.0))
			Expect(res.N0).To(BeNumerically("~", 1e-6, 1e-14))
			Expect(res.Species).To(HaveLen(2))
			Expect(res.Species[0].ChargeStates).To(BeEmpty())
			Expect(res.Species[1].Fixed).To(BeTrue())
		})

		It("should solve a YAML system with decomposed concentrations per volume", func() {
			req := httptest.NewRequest(http.MethodPost, "/solve?decomposed=true", systemBody("yaml", 1e-6))
			req.Header.Set("Content-Type", "application/x-yaml")
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var res fermi.Results
			Expect(json.Unmarshal(rec.Body.Bytes(), &res)).To(Succeed())
			Expect(res.Units).To(Equal(fermi.UnitsPerCm3))
			Expect(res.N0).To(BeNumerically("~", 1e16, 1e8))
			Expect(res.Species[0].ChargeStates).To(HaveLen(3))
		})

		It("should apply the temperature in the query", func() {
			req := httptest.NewRequest(http.MethodPost, "/solve?temperature=900", systemBody("json", 1e-6))
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var res fermi.Results
			Expect(json.Unmarshal(rec.Body.Bytes(), &res)).To(Succeed())
			Expect(res.Temperature).To(Equal(900.0))
		})

		It("should reject invalid input", func() {
			req := httptest.NewRequest(http.MethodPost, "/solve", bytes.NewBufferString(`{"temperature": }`))
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("error"))
		})

		It("should reject a non-finite band gap", func() {
			body := regexp.MustCompile(`(?m)^bandgap: .*$`).ReplaceAll(systemBody("yaml", 1e-6).Bytes(), []byte("bandgap: .nan"))
			Expect(string(body)).To(ContainSubstring("bandgap: .nan"))
			req := httptest.NewRequest(http.MethodPost, "/solve?format=yaml", bytes.NewReader(body))
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("band gap must be finite"))
		})

		It("should reject invalid options", func() {
			req := httptest.NewRequest(http.MethodPost, "/solve?decomposed=maybe", systemBody("json", 1e-6))
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject file references", func() {
			body := bytes.NewBufferString(`{"totdos": "/etc/passwd", "volume": 100, "temperature": 300, "nelect": 8, "bandgap": 3, "species": []}`)
			req := httptest.NewRequest(http.MethodPost, "/solve", body)
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should report the bounds when no solution exists", func() {
			req := httptest.NewRequest(http.MethodPost, "/solve", systemBody("json", 1e6))
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

			var res errorResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &res)).To(Succeed())
			Expect(res.Error).To(ContainSubstring(fermi.ErrBoundsExhausted.Error()))
			Expect(*res.Emin).To(Equal(-4.0))
			Expect(*res.Emax).To(Equal(7.0))
		})
	})

	Context("POST /levels", func() {
		It("should return transition levels", func() {
			req := httptest.NewRequest(http.MethodPost, "/levels", systemBody("json", 1e-6))
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var res levelsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &res)).To(Succeed())
			Expect(res.Levels["V_O"]).To(HaveLen(2))
			Expect(res.Levels["V_O"][0].E).To(BeNumerically("~", 0.5, 1e-12))
			Expect(res.Profiles).To(HaveKey("D"))
		})
	})
})
