package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	auth "github.com/vendora/go-auth"
	"github.com/vendora/go-auth/mailer"
	"github.com/vendora/go-auth/middleware/jwtware"
	"github.com/vendora/go-auth/repository"
)

func main() {
	log := zerolog.New(os.Stdout).With().Str("role", "server").Timestamp().Logger()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(log zerolog.Logger) error {
	cfg, err := auth.LoadConfig()
	if err != nil {
		return err
	}

	logger := auth.WrapZerolog(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := client.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	repos := repository.NewManager(client.Database(cfg.Mongo.Database))
	if err := repos.Ping(ctx); err != nil {
		return err
	}
	if err := repos.EnsureIndexes(ctx); err != nil {
		return err
	}

	smtp := mailer.New(cfg.SMTP).WithLogger(logger)

	tokens := auth.NewTokenService([]byte(cfg.SigningKey), cfg.TokenTTL, cfg.Issuer, logger)
	provider := auth.NewUserProvider(repos.Users()).WithLogger(logger)
	auther := auth.NewAuthenticator(provider, tokens).WithLogger(logger)

	register := auth.NewRegisterUserHandler(repos.Users(), smtp).
		WithLogger(logger).
		WithConfirmationTTL(cfg.ConfirmationTTL).
		WithBcryptCost(cfg.BcryptCost)
	confirm := auth.NewConfirmAccountHandler(repos.Users()).WithLogger(logger)

	controller := auth.NewController(
		auth.WithControllerLogger(logger),
		auth.WithRegisterHandler(register),
		auth.WithConfirmHandler(confirm),
		auth.WithAuther(auther),
		auth.WithProductStore(repos.Products()),
		auth.WithDebug(cfg.Debug),
	)

	app := fiber.New(fiber.Config{AppName: "vendora-auth"})

	protect := jwtware.New(jwtware.Config{Auther: auther})
	admin := jwtware.RequireAdmin()
	controller.RegisterAuthRoutes(app, protect, admin)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.ListenAddr)
	}()

	log.Info().Str("addr", cfg.ListenAddr).Msg("server listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		return app.ShutdownWithTimeout(5 * time.Second)
	}
}
