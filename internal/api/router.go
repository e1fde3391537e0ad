package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/shapedtime/neomovies/internal/auth"
	"github.com/shapedtime/neomovies/internal/neoapi"
	"github.com/shapedtime/neomovies/internal/selector"
)

// Catalog is the part of the remote client the companion server reads from.
type Catalog interface {
	selector.Fetcher
	MultiSearch(ctx context.Context, query string, page int) (*neoapi.MovieResponse, error)
	BaseURL() string
}

// Server represents the companion REST server
type Server struct {
	router  *gin.Engine
	auth    *auth.Controller
	catalog Catalog
	routes  *RouteTracker
	locale  string

	authMu sync.Mutex
}

// NewServer creates a new companion server. routes must be the Navigator the
// auth controller was built with so responses can report redirects.
func NewServer(ctrl *auth.Controller, catalog Catalog, routes *RouteTracker, locale string) *Server {
	gin.SetMode(gin.ReleaseMode)

	if routes == nil {
		routes = &RouteTracker{}
	}

	s := &Server{
		router:  gin.New(),
		auth:    ctrl,
		catalog: catalog,
		routes:  routes,
		locale:  locale,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// Logging middleware
	s.router.Use(func(c *gin.Context) {
		c.Next()
		slog.Info("API request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	})

	// CORS for local frontends
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Accept-Language")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	// Session and auth flow
	api.GET("/session", s.getSession)
	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.register)
	api.POST("/auth/verify", s.verify)
	api.POST("/auth/resend-code", s.resendCode)
	api.POST("/auth/cancel", s.cancelRegistration)
	api.POST("/auth/logout", s.logout)

	// Catalog
	api.GET("/search", s.search)
	api.GET("/torrents/:imdb", s.getTorrents)
	api.GET("/seasons", s.getSeasons)

	// Status
	api.GET("/status", s.getStatus)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// messages picks the catalog for the request's Accept-Language, falling back
// to the configured locale.
func (s *Server) messages(c *gin.Context) *selector.Messages {
	if al := c.GetHeader("Accept-Language"); al != "" {
		return selector.NewMessages(al)
	}
	return selector.NewMessages(s.locale)
}

// RouteTracker is an auth.Navigator that remembers the last route so a
// handler can hand it back to the caller.
type RouteTracker struct {
	mu   sync.Mutex
	last string
}

func (r *RouteTracker) Navigate(route string) {
	r.mu.Lock()
	r.last = route
	r.mu.Unlock()
}

// Take returns the last route and forgets it.
func (r *RouteTracker) Take() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	route := r.last
	r.last = ""
	return route
}

// Error response helper
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
