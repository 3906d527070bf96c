package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orda-service/internal/logger"
	"go.uber.org/zap"
)

type Options struct {
	APIPrefix  string
	StaticDir  string
	ForceHTTPS bool

	// ResourceAuth guards the resource routes, AdminAuth key generation.
	// Nil disables the check.
	ResourceAuth gin.HandlerFunc
	AdminAuth    gin.HandlerFunc

	Metrics *Metrics
	// Ping backs /health; nil reports healthy.
	Ping func(ctx context.Context) error
}

func NewRouter(log *zap.Logger, h *Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(log), Headers(opts.ForceHTTPS))

	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		if opts.Ping != nil {
			if err := opts.Ping(c.Request.Context()); err != nil {
				logger.FromContext(c.Request.Context()).Error("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h.RegisterRoutes(r.Group(opts.APIPrefix), opts.ResourceAuth, opts.AdminAuth)
	r.NoRoute(StaticFallback(opts.StaticDir, opts.APIPrefix))

	return r
}
