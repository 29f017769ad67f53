// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package system

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ReqLoggerKey is the gin context key of the request-scoped logger.
const ReqLoggerKey = "reqLogger"

// RequestIDHeader carries the correlation id set by clients.
const RequestIDHeader = "X-Request-ID"

// NewCLILogger builds the logger used by clusterctl. Without verbose it only
// passes fatal entries, since command errors are already reported to the
// user; with verbose every request is logged at debug level.
func NewCLILogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.FatalLevel
	encCfg := zap.NewProductionEncoderConfig()
	if verbose {
		level = zapcore.DebugLevel
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// RequestLogger stores a logger annotated with the request's method, path and
// correlation id under ReqLoggerKey.
func RequestLogger(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := base.With("method", c.Request.Method, "path", c.Request.URL.Path)
		if id := c.GetHeader(RequestIDHeader); id != "" {
			l = l.With("requestID", id)
		}
		c.Set(ReqLoggerKey, l)
		c.Next()
	}
}

// GetReqLogger returns the request-scoped sugared logger from gin.Context if present,
// otherwise returns fallback.
func GetReqLogger(c *gin.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return fallback
	}
	if v, ok := c.Get(ReqLoggerKey); ok {
		if l, ok2 := v.(*zap.SugaredLogger); ok2 {
			return l
		}
	}
	return fallback
}
