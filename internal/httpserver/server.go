package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tinytelemetry/consultas/internal/model"
	"github.com/tinytelemetry/consultas/internal/session"
)

// Server exposes session render data and actions over HTTP.
type Server struct {
	addr      string
	sessions  *session.Store
	logger    zerolog.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time

	shutdownTimeout time.Duration
}

// A webhook request in flight may need the whole client timeout to finish.
const defaultShutdownTimeout = model.DefaultWebhookTimeout + 5*time.Second

// NewServer creates a new HTTP API server.
func NewServer(addr string, sessions *session.Store, logger zerolog.Logger) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		sessions: sessions,
		logger:   logger.With().Str("component", "httpserver").Logger(),
		ctx:      ctx,
		cancel:   cancel,

		shutdownTimeout: defaultShutdownTimeout,
	}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/api/health", s.handleHealth)

	api := r.Group("/api/sessions")
	api.POST("", s.handleCreateSession)
	api.GET("/:id", s.withSession(s.handleRender))
	api.DELETE("/:id", s.handleEndSession)
	api.POST("/:id/consultation", s.withSession(s.handleEnterConsultation))
	api.POST("/:id/back", s.withSession(s.handleBack))
	api.POST("/:id/notes", s.withSession(s.handleSave))
	api.POST("/:id/return", s.withSession(s.handleReturnToList))
	api.POST("/:id/webhook", s.withSession(s.handleWebhook))

	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Webhook calls may take the full client timeout before answering.
		WriteTimeout: model.DefaultWebhookTimeout + 30*time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = listener.Addr().String()

	s.startTime = time.Now()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("http server stopped")
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// SetShutdownTimeout overrides how long Stop waits for in-flight requests.
// Callers with a longer webhook timeout than the default should raise it.
func (s *Server) SetShutdownTimeout(d time.Duration) {
	if d > 0 {
		s.shutdownTimeout = d
	}
}

// Addr returns the listen address, resolved once Start has bound it.
func (s *Server) Addr() string {
	return s.addr
}

type sessionHandler func(c *gin.Context, id string, ctrl *session.Controller)

func (s *Server) withSession(h sessionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		ctrl, err := s.sessions.Get(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h(c, id, ctrl)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(s.startTime).String(),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	id, ctrl := s.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{
		"id":   id,
		"view": ctrl.Render(),
	})
}

func (s *Server) handleEndSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRender(c *gin.Context, id string, ctrl *session.Controller) {
	c.JSON(http.StatusOK, gin.H{"id": id, "view": ctrl.Render()})
}

func (s *Server) handleEnterConsultation(c *gin.Context, id string, ctrl *session.Controller) {
	ctrl.EnterConsultation()
	s.handleRender(c, id, ctrl)
}

func (s *Server) handleBack(c *gin.Context, id string, ctrl *session.Controller) {
	ctrl.Back()
	s.handleRender(c, id, ctrl)
}

func (s *Server) handleReturnToList(c *gin.Context, id string, ctrl *session.Controller) {
	ctrl.ReturnToList()
	s.handleRender(c, id, ctrl)
}

func (s *Server) handleSave(c *gin.Context, id string, ctrl *session.Controller) {
	var in model.NoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	rec, err := ctrl.Save(in)
	if err != nil {
		if errors.Is(err, session.ErrNotOnNoteEntry) {
			c.JSON(http.StatusConflict, gin.H{"error": "not on the note form"})
			return
		}
		var vErr *session.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": vErr.Error(),
				"id":    id,
				"view":  ctrl.Render(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save note"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   id,
		"note": rec,
		"view": ctrl.Render(),
	})
}

func (s *Server) handleWebhook(c *gin.Context, id string, ctrl *session.Controller) {
	res := ctrl.TriggerWebhook(c.Request.Context())
	if errors.Is(res.Err, session.ErrBusy) {
		c.JSON(http.StatusConflict, gin.H{"error": res.Message, "result": res})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     id,
		"result": res,
		"view":   ctrl.Render(),
	})
}
