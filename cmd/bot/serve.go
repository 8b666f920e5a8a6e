package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/giveawaybot/internal/common/clock"
	"github.com/KirkDiggler/giveawaybot/internal/common/uuid"
	"github.com/KirkDiggler/giveawaybot/internal/config"
	"github.com/KirkDiggler/giveawaybot/internal/draw"
	"github.com/KirkDiggler/giveawaybot/internal/handlers/discord"
	giveawayService "github.com/KirkDiggler/giveawaybot/internal/services/giveaway"
	"github.com/KirkDiggler/giveawaybot/internal/services/messaging"
	"github.com/KirkDiggler/giveawaybot/internal/services/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const metricsShutdownTimeout = 5 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and run giveaways",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd)
		},
	}
}

func serveRun(cmd *cobra.Command) error {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return errors.New("no config found in context")
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	log := newLogger(cfg)
	log.Info().Str("version", version).Msg("starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	var registerer prometheus.Registerer
	if cfg.MetricsAddr != "" {
		registerer = prometheus.DefaultRegisterer
	}

	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}

	msgSvc, err := messaging.NewService(nil)
	if err != nil {
		return fmt.Errorf("failed to create messaging service: %w", err)
	}

	announcer, err := discord.NewAnnouncer(&discord.AnnouncerConfig{
		Client:           session,
		MessagingService: msgSvc,
		Logger:           log,
	})
	if err != nil {
		return fmt.Errorf("failed to create announcer: %w", err)
	}

	clk := &clock.DefaultClock{}

	sched, err := scheduler.New(&scheduler.Config{
		GiveawayRepo:    st.giveaways,
		Clock:           clk,
		Logger:          log,
		SweepInterval:   cfg.SweepInterval,
		FinalizeTimeout: cfg.FinalizeTimeout,
		Registerer:      registerer,
	})
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	svc, err := giveawayService.New(&giveawayService.Config{
		GiveawayRepo: st.giveaways,
		EntryRepo:    st.entries,
		WinnerRepo:   st.winners,
		Drawer:       draw.New(nil),
		Announcer:    announcer,
		Scheduler:    sched,
		Clock:        clk,
		UUID:         uuid.New(),
		Logger:       log,
		Registerer:   registerer,
	})
	if err != nil {
		return fmt.Errorf("failed to create giveaway service: %w", err)
	}

	// Overdue giveaways are announced over REST, so the scheduler does not
	// wait for the gateway.
	if err := sched.Start(ctx, svc); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	bot, err := discord.New(&discord.Config{
		Session:          session,
		ApplicationID:    cfg.ApplicationID,
		GuildID:          cfg.GuildID,
		GiveawayService:  svc,
		MessagingService: msgSvc,
		Announcer:        announcer,
		Clock:            clk,
		Logger:           log,
	})
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	if err := bot.Start(); err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}
	defer func() {
		if err := bot.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop bot")
		}
	}()

	if cfg.MetricsAddr != "" {
		metricsServer := startMetrics(cfg.MetricsAddr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("failed to stop metrics server")
			}
		}()
	}

	log.Info().Msg("bot is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutting down")

	return nil
}

func startMetrics(addr string, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return server
}
