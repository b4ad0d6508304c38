// Package api is the HTTP surface: the route table, JSON envelopes and
// status-code mapping over the metrics layer, plus the websocket streams.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluecape/droidmetrics/internal/adb"
	"github.com/bluecape/droidmetrics/internal/metrics"
)

type Server struct {
	router         *gin.Engine
	service        *metrics.Service
	logger         *slog.Logger
	streamInterval time.Duration
}

func NewServer(service *metrics.Service, logger *slog.Logger, streamInterval time.Duration) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), corsAllowAll())

	server := &Server{
		router:         router,
		service:        service,
		logger:         logger,
		streamInterval: streamInterval,
	}

	server.setupRoutes()
	return server
}

// Router exposes the gin engine so main can mount extra handlers (the
// Prometheus endpoint) and hand the whole thing to the listener.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.index)
	s.router.GET("/health", s.health)

	s.router.GET("/device", s.device)
	s.router.GET("/os", s.osInfo)

	s.router.GET("/cpu", s.cpu)
	s.router.GET("/cpu/frequency", s.cpuFrequency)
	s.router.GET("/cpu/governors", s.cpuGovernors)
	s.router.GET("/cpu/idle", s.cpuIdle)

	s.router.GET("/memory", s.memory)
	s.router.GET("/storage", s.storage)
	s.router.GET("/storage/mounts", s.storageMounts)

	s.router.GET("/battery", s.battery)
	s.router.GET("/power", s.power)

	s.router.GET("/thermal", s.thermal)
	s.router.GET("/thermal/cores", s.coreTemperatures)

	s.router.GET("/network", s.network)
	s.router.GET("/display", s.display)
	s.router.GET("/uptime", s.uptime)
	s.router.GET("/system", s.system)

	s.router.GET("/ws/metrics", s.streamMetrics)
	s.router.GET("/ws/cpu", s.streamCPU)
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     "droidmetrics",
		"version": "2.0.0",
		"endpoints": gin.H{
			"health":            "/health",
			"device":            "/device",
			"os":                "/os",
			"cpu":               "/cpu",
			"cpu_frequency":     "/cpu/frequency",
			"cpu_governors":     "/cpu/governors",
			"cpu_idle":          "/cpu/idle",
			"memory":            "/memory",
			"storage":           "/storage",
			"mounts":            "/storage/mounts",
			"battery":           "/battery",
			"power":             "/power",
			"thermal":           "/thermal",
			"core_temperatures": "/thermal/cores",
			"network":           "/network",
			"display":           "/display",
			"uptime":            "/uptime",
			"system":            "/system",
			"metrics":           "/metrics",
			"ws_metrics":        "/ws/metrics",
			"ws_cpu":            "/ws/cpu",
		},
		"timestamp": time.Now(),
	})
}

func (s *Server) health(c *gin.Context) {
	status, err := s.service.Health(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) device(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Device(c.Request.Context()) })
}

func (s *Server) osInfo(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.OS(c.Request.Context()) })
}

func (s *Server) cpu(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.CPU(c.Request.Context()) })
}

func (s *Server) cpuFrequency(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Frequency(c.Request.Context()) })
}

func (s *Server) cpuGovernors(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Governors(c.Request.Context()) })
}

func (s *Server) cpuIdle(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Idle(c.Request.Context()) })
}

func (s *Server) memory(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Memory(c.Request.Context()) })
}

func (s *Server) storage(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Storage(c.Request.Context()) })
}

func (s *Server) storageMounts(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Mounts(c.Request.Context()) })
}

func (s *Server) battery(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Battery(c.Request.Context()) })
}

func (s *Server) power(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Power(c.Request.Context()) })
}

func (s *Server) thermal(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Thermal(c.Request.Context()) })
}

func (s *Server) coreTemperatures(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.CoreTemperatures(c.Request.Context()) })
}

func (s *Server) network(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Network(c.Request.Context()) })
}

func (s *Server) display(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Display(c.Request.Context()) })
}

func (s *Server) uptime(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.Uptime(c.Request.Context()) })
}

func (s *Server) system(c *gin.Context) {
	s.render(c, func() (any, error) { return s.service.System(c.Request.Context()) })
}

func (s *Server) render(c *gin.Context, fetch func() (any, error)) {
	record, err := fetch()
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// renderError maps the metric layer's failure taxonomy onto status codes: a
// dead bridge means the whole service is degraded, an empty parse usually
// means an unsupported device.
func (s *Server) renderError(c *gin.Context, err error) {
	var connectivity *adb.ConnectivityError
	if errors.As(err, &connectivity) {
		s.logger.Error("Bridge unreachable", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":  "service degraded",
			"detail": err.Error(),
		})
		return
	}

	if errors.Is(err, metrics.ErrEmptyResult) {
		s.logger.Error("Metric produced no records", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "no data for this metric on this device",
			"detail": err.Error(),
		})
		return
	}

	s.logger.Error("Metric request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func corsAllowAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
