// Package httpapi exposes a clustering engine's public operations as a
// JSON API over gin, for hosts that drive the engine remotely instead of
// embedding it.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	cluster "github.com/markerforest/clustermap"
	"github.com/markerforest/clustermap/internal/metrics"
)

// Options carries renderer-facing settings the API hands through untouched.
type Options struct {
	// MarkerImage names the image a renderer should draw for single
	// markers. The engine never looks at it.
	MarkerImage string
}

// Server hosts the HTTP surface over a single SyncEngine.
type Server struct {
	engine *cluster.SyncEngine
	opts   Options
	router *gin.Engine
}

// NewServer builds a Server routing requests onto engine. The router's
// middleware stack (logging, recovery) comes from gin.Default.
// *cluster.InvariantError panics reaching gin's recovery middleware turn
// into 500s and a stack trace in the log; they indicate a bug in the
// engine, not a request to reject.
func NewServer(engine *cluster.SyncEngine, opts Options) *Server {
	s := &Server{engine: engine, opts: opts, router: gin.Default()}
	s.routes()
	return s
}

// Handler returns the server's http.Handler for use with an http.Server or
// tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Use(cors)

	api := s.router.Group("/api/v1")
	api.POST("/markers", s.handleAdd)
	api.DELETE("/markers/:id", s.handleRemove)
	api.DELETE("/markers", s.handleRemoveAll)
	api.PATCH("/markers/:id/visibility", s.handleSetVisibility)
	api.PATCH("/markers/:id/selected", s.handleSetSelected)
	api.POST("/recompute", s.handleRecompute)
	api.GET("/frontier", s.handleFrontier)
	api.GET("/nodes/:id/children", s.handleClusterChildren)
	api.GET("/nodes/:id/markers", s.handleAllMarkersIn)
	api.GET("/renderer", s.handleRendererOptions)

	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func cors(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// addRequest carries a marker position. No "required" binding on the
// floats: zero is a valid coordinate (equator, prime meridian).
type addRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (s *Server) handleAdd(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := s.engine.Add(cluster.GeoCoordinates{Lat: req.Lat, Lon: req.Lon})
	metrics.AddTotal.Inc()
	metrics.MarkersGauge.Set(float64(s.engine.NumberOfMarkers()))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) handleRemove(c *gin.Context) {
	id, err := parseMarkerID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.engine.Remove(id) {
		metrics.RemoveNotFoundTotal.Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown marker id"})
		return
	}
	metrics.RemoveTotal.Inc()
	metrics.MarkersGauge.Set(float64(s.engine.NumberOfMarkers()))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemoveAll(c *gin.Context) {
	s.engine.RemoveAll()
	metrics.MarkersGauge.Set(0)
	c.Status(http.StatusNoContent)
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

func (s *Server) handleSetVisibility(c *gin.Context) {
	id, err := parseMarkerID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	changed := s.engine.SetVisibility(id, req.Visible)
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

type selectedRequest struct {
	Selected bool `json:"selected"`
}

func (s *Server) handleSetSelected(c *gin.Context) {
	id, err := parseMarkerID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req selectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	changed := s.engine.SetSelected(id, req.Selected)
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (s *Server) handleRecompute(c *gin.Context) {
	start := time.Now()
	s.engine.Recompute()
	metrics.RecomputeTotal.Inc()
	metrics.RecomputeDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFrontier(c *gin.Context) {
	scale, err := strconv.ParseFloat(c.DefaultQuery("scale", "1"), 64)
	if err != nil || scale <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scale parameter"})
		return
	}

	start := time.Now()
	f := s.engine.Frontier(scale)
	metrics.FrontierDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	metrics.FrontierPointCount.Observe(float64(len(f.Points)))
	metrics.FrontierClusterCount.Observe(float64(len(f.Clusters)))

	c.JSON(http.StatusOK, f)
}

func (s *Server) handleClusterChildren(c *gin.Context) {
	id, err := parseNodeID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.engine.ClusterChildren(id))
}

func (s *Server) handleAllMarkersIn(c *gin.Context) {
	id, err := parseNodeID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.engine.AllMarkersIn(id))
}

func (s *Server) handleRendererOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"marker_image": s.opts.MarkerImage})
}

func parseMarkerID(c *gin.Context) (cluster.MarkerID, error) {
	v, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return cluster.MarkerID(v), nil
}

func parseNodeID(c *gin.Context) (cluster.NodeID, error) {
	v, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return cluster.NodeID(v), nil
}
