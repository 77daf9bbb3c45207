// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ginLogger logs requests with logrus
func ginLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path // handlers may change c.Request.URL
		start := time.Now()
		c.Next()
		latency := int(math.Ceil(float64(time.Since(start).Nanoseconds()) / 1e6))
		status := c.Writer.Status()
		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}
		entry := logger.WithFields(logrus.Fields{
			"status":  status,
			"latency": latency,
			"method":  c.Request.Method,
			"path":    path,
			"size":    size,
		})
		msg := fmt.Sprintf("%s %s %d (%dms)", c.Request.Method, path, status, latency)
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error(msg)
		case status >= http.StatusBadRequest:
			entry.Warnf("%s: %s", msg, c.Errors.String())
		default:
			entry.Debug(msg)
		}
	}
}
