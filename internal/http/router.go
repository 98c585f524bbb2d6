package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/libraryhub/internal/auth"
	"github.com/geocoder89/libraryhub/internal/config"
	"github.com/geocoder89/libraryhub/internal/http/handlers"
	"github.com/geocoder89/libraryhub/internal/http/middlewares"
	"github.com/geocoder89/libraryhub/internal/observability"
	"github.com/geocoder89/libraryhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// own registry so tests can build routers side by side
	promReg := prometheus.NewRegistry()
	prom := observability.NewProm(promReg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(otelgin.Middleware("libraryhub"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/", handlers.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	booksRepo := postgres.NewBooksRepo(pool, prom)
	loansRepo := postgres.NewLoansRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager)
	booksHandler := handlers.NewBooksHandler(booksRepo)
	loansHandler := handlers.NewLoansHandler(loansRepo, prom)

	// register/login absorb brute force attempts first
	limiter := middlewares.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	limited := limiter.RateLimiterMiddleware(middlewares.KeyByIP)

	api := r.Group("/api")
	api.Use(middlewares.RequireJSON())

	api.POST("/register", limited, authHandler.Register)
	api.POST("/login", limited, authHandler.Login)

	api.GET("/books", booksHandler.ListBooks)
	api.GET("/borrowed/:userId", loansHandler.ListBorrowed)

	// token enforcement on writes is opt-in; see Config.AuthRequired
	if cfg.AuthRequired {
		api.POST("/books", authMW.RequireAuth(), authMW.RequireRole("librarian"), booksHandler.CreateBook)
		api.POST("/borrow", authMW.RequireAuth(), loansHandler.Borrow)
		api.POST("/return", authMW.RequireAuth(), loansHandler.Return)
	} else {
		api.POST("/books", booksHandler.CreateBook)
		api.POST("/borrow", loansHandler.Borrow)
		api.POST("/return", loansHandler.Return)
	}

	return r
}
