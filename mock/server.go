// Package mock serves a local stand-in for the remote waitlist API, for
// development and tests.
package mock

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tabsye/waitlist/logger"
	"github.com/tabsye/waitlist/tracker"
	"github.com/tabsye/waitlist/waitlist"
)

var log = logger.New("mock")

// Server is the mock waitlist API.
type Server struct {
	reg    *registry
	engine *gin.Engine
	now    func() time.Time
}

// New creates a Server with an empty registry.
func New() *Server {
	s := &Server{
		reg: newRegistry(),
		now: time.Now,
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	Attach(engine.Group("/api/waitlist"), s)
	s.engine = engine
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Entries returns every registered signup in registration order.
func (s *Server) Entries() []Entry {
	return s.reg.snapshot()
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		log.Info("mock waitlist api listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("mock waitlist api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Attach registers the waitlist endpoints on group.
func Attach(group *gin.RouterGroup, s *Server) {
	group.GET("/count", s.countHandler)
	group.POST("/add", s.addHandler)
	group.GET("/exists", s.existsHandler)
	group.POST("/exists", s.existsHandler)
}

func (s *Server) countHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": s.reg.count()})
}

func (s *Server) addHandler(c *gin.Context) {
	var req waitlist.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	kind, err := tracker.ParseKind(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "type must be email or mobile"})
		return
	}
	value := req.Email
	if kind == tracker.KindMobile {
		value = req.Mobile
	}
	value = strings.TrimSpace(value)
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": string(kind) + " is required"})
		return
	}

	entry := &Entry{
		Type:      kind,
		Value:     value,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		CreatedAt: s.now().UTC(),
	}
	if !s.reg.add(entry) {
		log.Debug("add %s: duplicate", kind)
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "This " + string(kind) + " is already registered in the waitlist.",
		})
		return
	}

	log.Debug("add %s: registered id=%s", kind, entry.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": entry.ID})
}

// existsHandler accepts GET ?type=&value= and POST {"type","value"}.
func (s *Server) existsHandler(c *gin.Context) {
	var q struct {
		Type  string `json:"type" form:"type"`
		Value string `json:"value" form:"value"`
	}
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&q)
	} else {
		err = c.ShouldBindJSON(&q)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	kind, err := tracker.ParseKind(q.Type)
	if err != nil || strings.TrimSpace(q.Value) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type and value are required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": s.reg.exists(kind, q.Value)})
}
