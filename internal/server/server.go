// Package server implements the public submission and gallery HTTP API.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/guestbook/internal/guestbook"
	"go.uber.org/zap"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	Service *guestbook.Service
	Store   *guestbook.Store
	Listen  string
	Log     *zap.Logger
	Out     io.Writer
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Service == nil {
		return fmt.Errorf("server: service is required")
	}
	if opts.Store == nil {
		return fmt.Errorf("server: store is required")
	}
	if opts.Listen == "" {
		opts.Listen = ":8000"
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	router := newRouter(opts)

	srv := &http.Server{
		Addr:    opts.Listen,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Guestbook API listening on %s\n", opts.Listen)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// newRouter builds the Gin router with middleware and routes.
func newRouter(opts StartOpts) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLog(opts.Log))
	registerRoutes(router, opts)
	return router
}
