package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Sammy-Dev/COVID-Guard/internal/accounts"
	"github.com/Sammy-Dev/COVID-Guard/internal/apperr"
	"github.com/Sammy-Dev/COVID-Guard/internal/authflow"
	"github.com/Sammy-Dev/COVID-Guard/internal/config"
	"github.com/Sammy-Dev/COVID-Guard/internal/logging"
	"github.com/Sammy-Dev/COVID-Guard/internal/mailer"
	"github.com/Sammy-Dev/COVID-Guard/internal/router"
	"github.com/Sammy-Dev/COVID-Guard/internal/token"
	"github.com/Sammy-Dev/COVID-Guard/internal/vaccinations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("error creating pgx pool", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("error pinging database", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	tokens := token.NewIssuer(cfg.JWTSecret)
	mail := mailer.NewClient(cfg.SendGridAPIKey, cfg.EmailSender)
	repo := accounts.NewRepo(pool)
	vaccHandler := vaccinations.NewHandler(vaccinations.NewRepo(pool))

	r := &router.Router{
		GeneralPublic:      authflow.NewHandler(authflow.GeneralPublic, repo, tokens, mail, cfg, logger),
		BusinessOwner:      authflow.NewHandler(authflow.BusinessOwner, repo, tokens, mail, cfg, logger),
		HealthProfessional: authflow.NewHandler(authflow.HealthProfessional, repo, tokens, mail, cfg, logger),
		Vaccinations:       vaccHandler,
		Tokens:             tokens,
		LimiterMW: limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: cfg.RateLimitWindow,
		}),
	}
	r.RegisterRoutes(app)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// errorHandler renders every failure as the {errCode, success, message}
// envelope clients match on.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(apperr.Envelope{
		ErrCode: code,
		Success: false,
		Message: message,
	})
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}
