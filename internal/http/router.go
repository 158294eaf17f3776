package http

import (
	"log/slog"
	"time"

	"github.com/bintrack/bintrack/internal/http/handlers"
	"github.com/bintrack/bintrack/internal/http/middlewares"
	"github.com/bintrack/bintrack/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterDeps carries everything the API needs to serve requests.
type RouterDeps struct {
	Env         string
	ServiceName string

	Users     handlers.UsersStore
	Wastebins handlers.WastebinsStore
	Feedback  handlers.FeedbackStore

	// Ping backs /readyz; nil reports ready.
	Ping handlers.Pinger
	// Prom enables request metrics and /metrics when set.
	Prom *observability.Prom

	CORSOrigins []string
	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string

	StoreTimeout   time.Duration
	MaxBodyBytes   int64
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(log *slog.Logger, deps RouterDeps) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}
	if deps.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// ClientIP keys the rate limiter, so forwarded headers count only from known proxies
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		log.Error("invalid trusted proxies, trusting none", "proxies", deps.TrustedProxies, "err", err)
		_ = r.SetTrustedProxies(nil)
	}

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if deps.ServiceName != "" {
		r.Use(otelgin.Middleware(deps.ServiceName))
	}
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.CORSOrigins))

	if deps.RateLimitRPS > 0 {
		rl := middlewares.NewRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst)
		r.Use(rl.RateLimiterMiddleware(middlewares.KeyByIP))
	}

	r.Use(middlewares.MaxBodyBytes(deps.MaxBodyBytes))

	// health
	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Prom != nil {
		r.GET("/metrics", gin.WrapH(deps.Prom.Handler()))
	}

	api := r.Group("/api")
	api.Use(middlewares.RequireJSON())

	users := handlers.NewUsersHandler(deps.Users, deps.StoreTimeout)
	wastebins := handlers.NewWastebinsHandler(deps.Wastebins, deps.StoreTimeout)
	feedback := handlers.NewFeedbackHandler(deps.Feedback, deps.StoreTimeout)

	u := api.Group("/user")
	{
		collection(u, users.List, users.Create)
		u.GET("/:id", users.Get)
		u.PUT("/:id", users.Update)
		u.DELETE("/:id", users.Delete)
	}

	w := api.Group("/wastebin")
	{
		collection(w, wastebins.List, wastebins.Create)
		w.GET("/:id", wastebins.Get)
		w.GET("/byUser/:id", wastebins.ListByUser)
		w.GET("/byuser/:id", wastebins.ListByUser)
		w.PUT("/:id", wastebins.Update)
		w.DELETE("/:id", wastebins.Delete)
	}

	f := api.Group("/feedback")
	{
		collection(f, feedback.List, feedback.Create)
		f.GET("/:id", feedback.Get)
		f.GET("/byuser/:id", feedback.ListByUser)
		f.GET("/byUser/:id", feedback.ListByUser)
		f.PUT("/:id", feedback.Update)
		f.DELETE("/:id", feedback.Delete)
	}

	return r
}

// collection registers list and create with and without a trailing slash.
func collection(g *gin.RouterGroup, list, create gin.HandlerFunc) {
	for _, p := range []string{"", "/"} {
		g.GET(p, list)
		g.POST(p, create)
	}
}
