package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/ledgerly/backend/internal/auth"
	"github.com/ledgerly/backend/internal/budget"
	"github.com/ledgerly/backend/internal/config"
	v1 "github.com/ledgerly/backend/internal/controllers/v1"
	"github.com/ledgerly/backend/internal/events"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/router"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/gomail.v2"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}

	gin.SetMode(cfg.Server.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.Log.Format == "" && gin.IsDebugging()) || cfg.Log.Format == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create data directory
	err = os.MkdirAll(filepath.Dir(cfg.Database.Path), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	err = models.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	location, err := cfg.Location()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	url, err := cfg.URL()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	bus := events.NewBus()
	budgets := budget.NewService(models.DB, bus, budget.SystemClock, location)
	co := v1.New(models.DB, bus, budgets)

	r, teardown, err := router.Config(url, router.Options{
		AllowOrigins: cfg.AllowOrigins(),
		EnablePprof:  cfg.Server.EnablePprof,
		Collectors:   bus.Collectors(),
	})
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(co, auth.NewVerifier(cfg.Auth.JWTSecret), r.Group("/"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.AMQP.URL != "" {
		forwarder, err := events.DialForwarder(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("AMQP")
		}
		defer forwarder.Close()

		sub := bus.SubscribeAll()
		g.Go(func() error {
			return forwarder.Run(ctx, sub)
		})
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("forwarding events")
	}

	if cfg.Mail.Enabled {
		dialer := gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
		notifier := events.NewInvitationNotifier(models.DB, dialer, cfg.Mail.From)

		sub := bus.SubscribeAll()
		g.Go(func() error {
			return notifier.Run(ctx, sub)
		})
		log.Info().Str("host", cfg.Mail.Host).Msg("mailing invitations")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("backend startup complete")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Event streams and workers wait on their subscriptions
		server.RegisterOnShutdown(bus.Close)
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("shutdown")
	}

	log.Info().Msg("backend stopped")
}
