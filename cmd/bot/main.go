package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"discord-wallet-bot-go/internal/bot"
	"discord-wallet-bot-go/internal/config"
	"discord-wallet-bot-go/internal/database"
	"discord-wallet-bot-go/internal/discord"
	"discord-wallet-bot-go/internal/ledger"
	"discord-wallet-bot-go/internal/logger"
	"discord-wallet-bot-go/internal/member"
	"discord-wallet-bot-go/internal/registry"
	"discord-wallet-bot-go/internal/selection"

	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database
	db, err := database.NewDatabase(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// Initialize Discord REST client
	chat := discord.NewRestClient(&cfg.Discord, log)
	me, err := chat.Me()
	if err != nil {
		log.Fatal("Failed to connect to Discord API", zap.Error(err))
	}
	log.Info("Successfully connected to Discord API.", zap.String("bot_user", me.Username))

	// Wire up the domain components
	directory := member.NewDirectory(db)
	coins := registry.NewRegistry(db)
	walletLedger := ledger.NewService(db, directory, log, &cfg.Economy)
	workflow := selection.NewWorkflow(log, chat, directory, walletLedger, selection.NewRegistry())
	walletBot := bot.New(log, &cfg, chat, directory, walletLedger, coins, workflow)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start the status API server
	apiServer := bot.NewAPIServer(walletBot, cfg.Server.Port, log)
	apiServer.Start()
	defer apiServer.Stop(context.Background())

	// Serve gateway events until shutdown
	gateway := discord.NewGateway(cfg.Discord.Token, log, walletBot.HandleMessage, walletBot.HandleReaction)
	if err := gateway.Run(ctx); err != nil && err != context.Canceled {
		log.Error("Gateway stopped", zap.Error(err))
	}

	log.Info("Bot has been shut down.")
}
