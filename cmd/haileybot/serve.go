package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/susu3304/haileybot/internal/api"
	"github.com/susu3304/haileybot/internal/auth"
	"github.com/susu3304/haileybot/internal/bot"
	"github.com/susu3304/haileybot/internal/config"
	"github.com/susu3304/haileybot/internal/db"
	"github.com/susu3304/haileybot/internal/payment"
	"github.com/susu3304/haileybot/internal/session"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Discord bot and the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	foods := loadFoods(cfg)
	quotes := buildQuoter(cfg)
	classifier, err := buildClassifier(ctx, cfg, foods)
	if err != nil {
		log.Fatalf("Failed to create classifier: %v", err)
	}

	// The payment journal is optional
	var (
		journal  payment.Journal
		payments api.PaymentLister
	)
	if cfg.DatabaseURL != "" {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		journal = database
		payments = database
	} else {
		log.Println("DATABASE_URL not set; payment journal disabled")
	}

	store := session.NewStore()
	sweeper := session.NewSweeper(store, cfg.SessionTTL)
	sweeper.Start()
	defer sweeper.Stop()

	// Initialize Discord bot
	discordBot, err := bot.New(cfg.DiscordToken, cfg.HTTPTimeout)
	if err != nil {
		log.Fatalf("Failed to create discord bot: %v", err)
	}

	allow := auth.NewAllowlist(cfg.AuthorizedUsers)
	flow := payment.NewFlow(payment.Options{
		Store:     store,
		Messenger: discordBot.Messenger(),
		Journal:   journal,
		Sticker:   cfg.LoadingSticker,
		Delay:     cfg.PaymentDelay,
	})
	discordBot.SetRouter(bot.NewRouter(bot.RouterOptions{
		Allowlist:  allow,
		Messenger:  discordBot.Messenger(),
		Payments:   flow,
		Quotes:     quotes,
		Classifier: classifier,
		Foods:      foods,
	}))

	// Initialize API server
	var apiServer *api.API
	if cfg.APIEnabled() {
		apiServer = api.New(cfg, allow, payments)
	} else {
		log.Println("JWT_SECRET not set; HTTP API disabled")
	}

	// Start Discord bot
	if err := discordBot.Start(); err != nil {
		log.Fatalf("Failed to start discord bot: %v", err)
	}
	defer discordBot.Stop()

	// Start API server
	if apiServer != nil {
		go func() {
			if err := apiServer.Start(); err != nil {
				log.Printf("API server error: %v", err)
			}
		}()
	}

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server shutdown error: %v", err)
	}
	return nil
}
