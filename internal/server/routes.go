package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/guestbook/internal/guestbook"
	"github.com/zulandar/guestbook/internal/printer"
	"go.uber.org/zap"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	router.POST("/submit", handleSubmit(opts.Service, opts.Log))
	router.GET("/gallery", handleGallery(opts.Store, opts.Log))
	router.GET("/healthz", handleHealth(opts.Store))
}

type submitRequest struct {
	Message string `json:"message"`
}

func handleSubmit(svc *guestbook.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		msg, err := svc.Submit(c.Request.Context(), req.Message, c.ClientIP())
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, gin.H{"status": "ok", "id": msg.ID})
		case errors.Is(err, guestbook.ErrPayloadTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "message too long"})
		case errors.Is(err, guestbook.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "message contains no printable content"})
		case errors.Is(err, guestbook.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions, slow down"})
		case errors.Is(err, guestbook.ErrDailyLimit):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "daily message limit reached, try again tomorrow"})
		case errors.Is(err, printer.ErrUnavailable):
			// The row was persisted before the print attempt.
			c.JSON(http.StatusBadGateway, gin.H{
				"status": "stored",
				"id":     msg.ID,
				"error":  "printer unavailable, message stored",
			})
		default:
			log.Error("submit failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
	}
}

type galleryEntry struct {
	ID          uint   `json:"id"`
	Message     string `json:"message"`
	SubmittedAt string `json:"submitted_at"`
	Commentary  string `json:"commentary,omitempty"`
}

func handleGallery(store *guestbook.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := store.ListApproved()
		if err != nil {
			log.Error("gallery query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		entries := make([]galleryEntry, 0, len(msgs))
		for _, m := range msgs {
			e := galleryEntry{ID: m.ID, Message: m.Text, SubmittedAt: m.SubmittedAt}
			if m.Commentary != nil {
				e.Commentary = *m.Commentary
			}
			entries = append(entries, e)
		}
		c.JSON(http.StatusOK, entries)
	}
}

func handleHealth(store *guestbook.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
