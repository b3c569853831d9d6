package bridge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/guestbook/internal/printer"
	"go.uber.org/zap"
)

// StartOpts holds configuration for the bridge server.
type StartOpts struct {
	Device Device
	Listen string
	Log    *zap.Logger
	Out    io.Writer
}

// Start launches the bridge HTTP server. It blocks until ctx is cancelled,
// then shuts down gracefully. Access logging stays at debug level so a
// chatty kiosk does not flood the journal.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Device == nil {
		return fmt.Errorf("bridge: device is required")
	}
	if opts.Listen == "" {
		opts.Listen = "127.0.0.1:8765"
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	router := newRouter(opts.Device, opts.Log)

	srv := &http.Server{
		Addr:    opts.Listen,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Printer bridge listening on %s\n", opts.Listen)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("bridge: %w", err)
	}
	return nil
}

// newRouter builds the bridge router: POST /print only.
func newRouter(dev Device, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/print", handlePrint(dev, log))
	return router
}

type printRequest struct {
	Message string `json:"message"`
}

func handlePrint(dev Device, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req printRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.String(http.StatusBadRequest, "Missing message")
			return
		}
		message := strings.TrimSpace(req.Message)
		if message == "" {
			c.String(http.StatusBadRequest, "Missing message")
			return
		}

		if err := dev.Write(printer.Encode(message)); err != nil {
			log.Error("device write failed", zap.Error(err))
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		log.Debug("printed", zap.Int("bytes", len(message)))
		c.String(http.StatusOK, "OK")
	}
}
