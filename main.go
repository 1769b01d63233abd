package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"attendance_backend/internals/configs"
	database "attendance_backend/internals/databases"
	sessionService "attendance_backend/internals/features/attendance/sessions/service"
	scheduler "attendance_backend/internals/features/users/auth/scheduler"
	helper "attendance_backend/internals/helpers"
	middlewares "attendance_backend/internals/middlewares"
	logMiddleware "attendance_backend/internals/middlewares/logger"
	routes "attendance_backend/internals/route"
	"attendance_backend/internals/seeds"
)

func main() {
	cfg, err := configs.LoadEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
				return helper.JsonError(c, code, fe.Message)
			}
			log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
			return helper.JsonError(c, code, "")
		},
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// Request-ID + per-request deadline
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("requestid", id)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	app.Use(logMiddleware.LoggerMiddleware(cfg.SchoolTimezone))
	app.Use(middlewares.CorsMiddleware(cfg.CorsOrigins))
	app.Use(middlewares.GlobalRateLimiter())

	database.ConnectDB(cfg)
	database.TunePool()
	database.WarmUpQueries()

	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := seeds.RunAllSeeds(database.DB, cfg); err != nil {
		log.Fatalf("seed: %v", err)
	}

	attendance, err := sessionService.New(database.DB, cfg)
	if err != nil {
		log.Fatalf("attendance: %v", err)
	}

	// schedulers after the DB is ready
	cleanup := scheduler.StartBlacklistCleanupScheduler(database.DB, cfg.BlacklistTTLDays, cfg.Location())
	retention := sessionService.StartRetentionScheduler(attendance, cfg.RetentionCron, cfg.RetentionDays)

	routes.SetupRoutes(app, database.DB, cfg, attendance)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	<-cleanup.Stop().Done()
	if retention != nil {
		<-retention.Stop().Done()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
