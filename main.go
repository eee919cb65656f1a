package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"sirenecole_backend/internals/configs"
	database "sirenecole_backend/internals/databases"
	scheduler "sirenecole_backend/internals/features/abonnements/scheduler"
	abonnementService "sirenecole_backend/internals/features/abonnements/service"
	paiementService "sirenecole_backend/internals/features/paiements/service"
	programmationService "sirenecole_backend/internals/features/programmations/service"
	tokenService "sirenecole_backend/internals/features/tokens/service"
	"sirenecole_backend/internals/helpers/crypto"
	middlewares "sirenecole_backend/internals/middlewares"
	routes "sirenecole_backend/internals/route"
	seeds "sirenecole_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// Middleware de performance
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// Borne HTTP alignee sur le statement_timeout cote DB
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if v, _ := strconv.ParseBool(os.Getenv("RUN_SEEDS")); v {
		seeds.RunAllSeeds(database.DB)
	}

	// Services partages entre le scheduler et les routes, un seul codec
	// par processus
	codec, err := crypto.NewCodec(configs.SireneEncryptionKey)
	if err != nil {
		log.Fatalf("[ERROR] Codec de chiffrement: %v", err)
	}
	tokens := tokenService.NewTokenService(codec)
	abonnements := abonnementService.NewAbonnementService(tokens)
	programmations := programmationService.NewProgrammationService(codec)

	// Balayage des abonnements echus une fois la DB prete
	scheduler.StartExpirationScheduler(database.DB, abonnements)

	// Midtrans
	useMidtransProd := false
	if v := os.Getenv("MIDTRANS_USE_PROD"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			useMidtransProd = b
		}
	}
	paiementService.InitMidtrans(configs.MidtransServerKey, useMidtransProd)

	// Routes
	routes.SetupRoutes(app, database.DB, abonnements, tokens, programmations)

	// Keep-Alive & timeouts serveur
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("[INFO] Ecoute sur :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Arret propre + fermeture du pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
