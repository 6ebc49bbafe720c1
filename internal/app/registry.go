package app

import (
	"context"
	"net/http"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/config"
	"go-leave/internal/domain"
	"go-leave/internal/holiday"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/observability/metrics"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// modules is the service graph shared by the HTTP api and the worker.
type modules struct {
	rbac    rbac.Service
	user    user.Service
	holiday holiday.Service
	leave   leave.Service
	balance balance.Service
}

func buildModules(cfg *config.Config, deps *Infra, logger *zap.Logger) (*modules, error) {
	enforcer, err := infra.NewEnforcer(infra.DefaultPolicies)
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(enforcer, logger)

	userRepo := user.NewRepository(deps.GormDB)
	userService := user.NewService(userRepo, rbacService, logger)

	holidayRepo := holiday.NewRepository(deps.GormDB)
	holidayProvider := holiday.NewNagerClient(cfg.HolidayProviderURL, logger)
	holidayService := holiday.NewService(holidayRepo, holidayProvider, userService, holiday.WithLogger(logger))

	leaveRepo := leave.NewRepository(deps.GormDB)
	leaveOpts := []leave.Option{
		leave.WithLogger(logger),
		leave.WithBlockOnTeamConflict(cfg.BlockOnTeamConflict),
		leave.WithOutbox(kafka.NewOutboxRepository(deps.GormDB)),
	}
	if deps.Redis != nil {
		leaveOpts = append(leaveOpts, leave.WithCache(deps.Redis))
	}
	leaveService := leave.NewService(deps.SQLDB, leaveRepo, holidayService, leaveOpts...)

	balanceOpts := []balance.Option{
		balance.WithLogger(logger),
		balance.WithAllocation(cfg.AnnualAllocation),
	}
	if deps.Redis != nil {
		balanceOpts = append(balanceOpts, balance.WithCache(deps.Redis))
	}
	balanceService := balance.NewService(leaveRepo, holidayService, userService, balanceOpts...)

	return &modules{
		rbac:    rbacService,
		user:    userService,
		holiday: holidayService,
		leave:   leaveService,
		balance: balanceService,
	}, nil
}

func registerModules(router *gin.Engine, cfg *config.Config, deps *Infra, logger *zap.Logger) error {
	m, err := buildModules(cfg, deps, logger)
	if err != nil {
		return err
	}

	// --- Handlers ---
	userHandler := user.NewHandler(m.user, logger)
	holidayHandler := holiday.NewHandler(m.holiday, logger)
	leaveHandler := leave.NewHandler(m.leave, logger)
	balanceHandler := balance.NewHandler(m.balance, logger)
	rbacHandler := rbac.NewHandler(m.rbac)

	// --- Platform ---
	router.Use(gin.Recovery(), middleware.RequestID(), metrics.GinMiddleware())
	router.GET("/healthz", healthHandler(deps))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.RateLimitByUser(rate.Limit(cfg.RateLimitRPS), cfg.RateBurst),
		middleware.ResolveActor(m.user),
		middleware.ContextLogger(logger),
	)
	{
		user.RegisterRoutes(api, userHandler)
		holiday.RegisterRoutes(api, holidayHandler,
			middleware.RBACAuthorize(m.rbac, domain.ResourceHoliday, domain.ActionManage))
		leave.RegisterRoutes(api, leaveHandler, middleware.Idempotency(deps.Redis, logger))
		balance.RegisterRoutes(api, balanceHandler)
		rbac.RegisterRoutes(api.Group("", middleware.RequireAdmin()), rbacHandler)
	}

	return nil
}

func healthHandler(deps *Infra) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "ok"}
		code := http.StatusOK
		if err := deps.SQLDB.PingContext(ctx); err != nil {
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if deps.Redis != nil {
			status["redis"] = "ok"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				status["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		c.JSON(code, status)
	}
}
