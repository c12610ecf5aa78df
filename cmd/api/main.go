package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "loanflow-backend/internal/adapter/http"
	"loanflow-backend/internal/adapter/middleware"
	mysqlstore "loanflow-backend/internal/adapter/repository/mysql"
	"loanflow-backend/internal/config"
	"loanflow-backend/internal/domain/loan"
	"loanflow-backend/internal/infrastructure/cache"
	"loanflow-backend/internal/infrastructure/db"
	"loanflow-backend/internal/store/memory"
	"loanflow-backend/internal/testutil/fixture"
	"loanflow-backend/internal/usecase/lifecycle"
	"loanflow-backend/internal/usecase/metrics"
	"loanflow-backend/internal/usecase/query"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid config")
	}

	store, err := openStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("open store")
	}

	baseline, err := cfg.Baseline()
	if err != nil {
		logrus.WithError(err).Fatal("load stats baseline")
	}
	agg, err := metrics.NewAggregator(store, baseline)
	if err != nil {
		logrus.WithError(err).Fatal("init metrics aggregator")
	}

	ctx := context.Background()
	if cfg.DemoSeed {
		if err := fixture.SeedStore(ctx, store, 20); err != nil {
			logrus.WithError(err).Fatal("demo seed")
		}
		logrus.Info("demo loans seeded")
	}
	// Prime the dashboard from whatever the store already holds.
	if err := agg.Recompute(ctx); err != nil {
		logrus.WithError(err).Fatal("initial metrics recompute")
	}

	engine := lifecycle.NewEngine(store, agg)
	queries := query.NewQueries(store)

	h := httpadp.NewHandler(cfg.StoreDriver)
	loans := httpadp.NewLoanHandler(engine, queries)
	dashboard := httpadp.NewDashboardHandler(agg)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	g := e.Group("")
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logrus.WithError(err).Fatal("open redis")
		}
		g.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	}

	g.POST("/loans", loans.Apply, httpadp.RequirePrincipal())
	g.POST("/loans/:loan_id/verify", loans.Verify, httpadp.RequirePrincipal())
	g.POST("/loans/:loan_id/approve", loans.Approve, httpadp.RequirePrincipal())
	g.GET("/loans", loans.List)
	g.GET("/loans/:loan_id", loans.Get)
	g.GET("/users/:user_id/loans", loans.ByApplicant)
	g.GET("/dashboard/stats", dashboard.Stats)
	g.GET("/dashboard/chart", dashboard.Chart)

	addr := ":" + cfg.AppPort
	logrus.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.Fatal(err)
	}
}

func openStore(cfg *config.Config) (loan.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		gdb, err := db.OpenGorm(cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		if err := gdb.AutoMigrate(&loan.Loan{}); err != nil {
			return nil, err
		}
		return mysqlstore.NewStore(gdb), nil
	default:
		return memory.NewStore(), nil
	}
}
