package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"atlas/internal/config"
)

type ginEngine struct{}

func (ginEngine) Name() string { return config.EngineGin }

func (ginEngine) Serve(ctx context.Context, port int, svc *Service) error {
	return serve(ctx, newServer(port, svc.GinHandler()))
}

// GinHandler returns the gin transport. Routes and payloads mirror the
// stdlib engine exactly; only the routing machinery differs.
func (s *Service) GinHandler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		setSecureHeaders(c.Writer.Header())
		if s.rateLimited(c.Request) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
		}
	})

	r.GET("/api/ping", func(c *gin.Context) {
		code, body := s.Ping()
		c.IndentedJSON(code, body)
	})

	authed := r.Group("/api", func(c *gin.Context) {
		if !s.authorized(c.Request) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthorizedMsg})
		}
	})
	authed.GET("/stats", func(c *gin.Context) {
		code, body := s.Stats()
		c.IndentedJSON(code, body)
	})
	authed.GET("/stats/:section", func(c *gin.Context) {
		code, body := s.StatsSection(c.Param("section"))
		c.IndentedJSON(code, body)
	})
	authed.GET("/history", func(c *gin.Context) {
		code, body := s.History(limitParam(c.Request))
		c.IndentedJSON(code, body)
	})

	r.NoRoute(func(c *gin.Context) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.IndentedJSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	return r
}
