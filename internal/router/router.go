package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/healthmate/healthmate-api/internal/config"
	"github.com/healthmate/healthmate-api/internal/handler"
	authhandler "github.com/healthmate/healthmate-api/internal/handler/auth"
	familyhandler "github.com/healthmate/healthmate-api/internal/handler/familymember"
	filehandler "github.com/healthmate/healthmate-api/internal/handler/medicalfile"
	vitalshandler "github.com/healthmate/healthmate-api/internal/handler/vitals"
	"github.com/healthmate/healthmate-api/internal/middleware"
)

type Router struct {
	engine  *gin.Engine
	authn   gin.HandlerFunc
	h       *handler.Handler
	authH   *authhandler.Handler
	familyH *familyhandler.Handler
	fileH   *filehandler.Handler
	vitalsH *vitalshandler.Handler
	metrics *routerMetrics
}

func NewRouter(
	cfg *config.Config,
	resolver middleware.TokenResolver,
	h *handler.Handler,
	authH *authhandler.Handler,
	familyH *familyhandler.Handler,
	fileH *filehandler.Handler,
	vitalsH *vitalshandler.Handler,
) *Router {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:  engine,
		authn:   middleware.Auth(resolver),
		h:       h,
		authH:   authH,
		familyH: familyH,
		fileH:   fileH,
		vitalsH: vitalsH,
		metrics: initRouterMetrics("healthmate"),
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	rateLimiter := middleware.NewRateLimiter(50, 100)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/api/health", r.h.HealthCheck)
	r.engine.GET("/metrics", r.h.MetricsHandler)

	api := r.engine.Group("/api")

	r.authH.RegisterRoutes(api.Group("/auth"), r.authn)

	protected := api.Group("")
	protected.Use(r.authn)

	r.familyH.RegisterRoutes(protected.Group("/family"))
	r.fileH.RegisterRoutes(protected.Group("/files"))
	r.vitalsH.RegisterRoutes(protected.Group("/vitals"))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
