// Package httpapi exposes the pipeline as a JSON endpoint. The HTTP layer
// owns request decoding, CORS, demo mode, and optional SPA serving; the
// pipeline semantics live in the agent package.
package httpapi

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/aletho/quaero/internal/agent"
)

// Default demo content, returned when demo mode short-circuits the
// pipeline. Overridable via Server fields (fed from configuration).
var (
	DefaultDemoAnswer = "• PFAS limits for drinking water tightened across the US, UK, and EU between 2023 and 2025.\n" +
		"• GAC remains the reference treatment; ion exchange wins on footprint but costs more per bed volume.\n" +
		"• Lifecycle cost is dominated by media replacement frequency, which EBCT selection drives directly."
	DefaultDemoSources = []string{
		"https://www.epa.gov/sdwa/per-and-polyfluoroalkyl-substances-pfas",
		"https://www.dwi.gov.uk/pfas-guidance/",
	}
)

// Server handles /api/run requests.
type Server struct {
	Agent *agent.Agent

	// DemoLocked forces demo output for every request (environment toggle).
	DemoLocked  bool
	DemoAnswer  string
	DemoSources []string

	// StaticDir, when it exists, is mounted at / for the web UI build.
	StaticDir string
}

type runRequest struct {
	Query      string   `json:"query"`
	NoSearch   bool     `json:"no_search"`
	MaxResults int      `json:"max_results"`
	SeedURLs   []string `json:"seed_urls"`
	ForceLocal bool     `json:"force_local"`
	DemoMode   bool     `json:"demo_mode"`
}

type runResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Router constructs the gin engine with permissive CORS and all routes
// registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsAllowAll())

	r.POST("/api/run", s.handleRun)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.StaticDir != "" {
		if st, err := os.Stat(s.StaticDir); err == nil && st.IsDir() {
			r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.StaticDir))))
			log.Info().Str("dir", s.StaticDir).Msg("serving static UI")
		}
	}
	return r
}

func (s *Server) handleRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DemoMode || s.DemoLocked {
		c.JSON(http.StatusOK, runResponse{Answer: s.demoAnswer(), Sources: s.demoSources()})
		return
	}

	res := s.Agent.Run(c.Request.Context(), agent.Request{
		Query:       req.Query,
		Seeds:       req.SeedURLs,
		AllowSearch: !req.NoSearch,
		ForceLocal:  req.ForceLocal,
		MaxResults:  req.MaxResults,
	})
	c.JSON(http.StatusOK, runResponse{Answer: res.Answer, Sources: res.Sources})
}

func (s *Server) demoAnswer() string {
	if s.DemoAnswer != "" {
		return s.DemoAnswer
	}
	return DefaultDemoAnswer
}

func (s *Server) demoSources() []string {
	if len(s.DemoSources) > 0 {
		return s.DemoSources
	}
	return DefaultDemoSources
}

// corsAllowAll is the permissive boundary policy: all origins, methods, and
// headers.
func corsAllowAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "*")
		c.Header("Access-Control-Allow-Headers", "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
