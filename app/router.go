// Package app wires the HTTP endpoints to their handlers
package app

import (
	"bitwise74/tracker-api/app/auth"
	"bitwise74/tracker-api/app/root"
	"bitwise74/tracker-api/app/subscription"
	"bitwise74/tracker-api/app/tvshow"
	"bitwise74/tracker-api/internal"
	"bitwise74/tracker-api/pkg/middleware"
	"embed"
	"html/template"
	"strings"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//go:embed templates/*.html
var templates embed.FS

// TODO: use redis once more than one instance runs
var cacheStore = persist.NewMemoryStore(time.Minute)

func NewRouter(d *internal.Deps) (*gin.Engine, error) {
	router := gin.New()

	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	var origins []string
	for _, o := range strings.Split(viper.GetString("host.cors"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD" || c.Request.URL.Path == "/metrics"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
		middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: viper.GetInt("security.rate_limit"),
			Burst:             viper.GetInt("security.rate_limit") * 2,
		}),
		middleware.BodySizeLimiter(1<<20),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	session := middleware.NewSessionMiddleware(d.Sessions, d.Users)
	refresh := middleware.NewCatalogRefreshMiddleware(d.Tokens)
	turnstile := middleware.NewTurnstileMiddleware(middleware.TurnstileConfig{
		Enabled: viper.GetBool("cloudflare.turnstile.enabled"),
		Secret:  viper.GetString("cloudflare.turnstile.secret_token"),
	})

	// HEAD /heartbeat		-> Used to check if the server is alive
	router.HEAD("/heartbeat", root.Heartbeat)

	// GET /metrics			-> Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a := router.Group("/auth")
	{
		// POST /auth/register		-> Registers a new account and mails a verification link
		a.POST("/register", turnstile, func(c *gin.Context) { auth.Register(c, d) })

		// GET /auth/verify		-> Target of the verification link
		a.GET("/verify", func(c *gin.Context) { auth.Verify(c, d) })

		// POST /auth/login		-> Logs in a user and returns a session token
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// GET /auth/ping		-> Checks if a session token is still valid
		a.GET("/ping", session, refresh, auth.Ping)
	}

	s := router.Group("/subscriptions", session, refresh)
	{
		// GET /subscriptions		-> Returns the details of every followed show
		s.GET("", func(c *gin.Context) { subscription.List(c, d) })

		// POST /subscriptions/add	-> Follows a show
		s.POST("/add", func(c *gin.Context) { subscription.Add(c, d) })

		// POST /subscriptions/remove	-> Unfollows a show
		s.POST("/remove", func(c *gin.Context) { subscription.Remove(c, d) })
	}

	t := router.Group("/tvshow", session, refresh)
	{
		// GET /tvshow/query		-> Discover or search shows over a page range
		t.GET("/query", cacheFor(60), func(c *gin.Context) { tvshow.Query(c, d) })

		// GET /tvshow/get/:id		-> Returns the details of a single show
		t.GET("/get/:id", cacheFor(5*60), func(c *gin.Context) { tvshow.Get(c, d) })
	}

	return router, nil
}

// Headers set per request by earlier middleware. A cache hit must not
// replay the ones of the request that filled the cache.
var perRequestHeaders = []string{
	"X-Request-Id",
	"Access-Control-Allow-Origin",
	"Access-Control-Allow-Credentials",
	"Access-Control-Expose-Headers",
	"Vary",
}

// cacheFor caches successful responses by request URI. Only catalog reads
// use it since their output doesn't depend on the caller.
func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec),
		cache.WithDiscardHeaders(perRequestHeaders))
}
