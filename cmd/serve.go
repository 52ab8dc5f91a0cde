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

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"supportbot/clients/discord"
	"supportbot/config"
	"supportbot/core/log"
	"supportbot/db"
	"supportbot/handlers"
	"supportbot/middleware"
	"supportbot/router"
	"supportbot/services/categories"
	"supportbot/services/forms"
	"supportbot/services/guildconfigs"
	"supportbot/services/moderation"
	"supportbot/services/tickets"
	"supportbot/services/txmanager"
	"supportbot/sessions"
	"supportbot/usecases/audit"
	"supportbot/usecases/settings"
	"supportbot/usecases/setup"
	ticketsusecase "supportbot/usecases/tickets"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the gateway and serve interactions",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before connecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.Configure(cfg.LogLevel, cfg.LogFormat)
	log.Info("📋 Starting supportbot", "environment", cfg.Environment, "port", cfg.Port)

	connectCtx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	dbConn, err := db.NewConnection(connectCtx, cfg.DatabaseURL, cfg.DBConnectAttempts)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if serveMigrate {
		if err := db.MigrateUp(connectCtx, dbConn); err != nil {
			return err
		}
		log.Info("✅ Migrations applied")
	}

	ticketsRepo := db.NewPostgresTicketsRepository(dbConn, cfg.DatabaseSchema)
	ticketMessagesRepo := db.NewPostgresTicketMessagesRepository(dbConn, cfg.DatabaseSchema)
	pendingPartnersRepo := db.NewPostgresPendingPartnersRepository(dbConn, cfg.DatabaseSchema)
	moderationRepo := db.NewPostgresModerationActionsRepository(dbConn, cfg.DatabaseSchema)
	guildConfigsRepo := db.NewPostgresGuildConfigsRepository(dbConn, cfg.DatabaseSchema)
	categoriesRepo := db.NewPostgresCustomCategoriesRepository(dbConn, cfg.DatabaseSchema)
	formsRepo := db.NewPostgresFormsRepository(dbConn, cfg.DatabaseSchema)

	txManager := txmanager.NewTransactionManager(dbConn)
	ticketsService := tickets.NewTicketsService(ticketsRepo, ticketMessagesRepo, pendingPartnersRepo, txManager)
	guildConfigsService := guildconfigs.NewGuildConfigsService(guildConfigsRepo)
	categoriesService := categories.NewCategoriesService(categoriesRepo)
	formsService := forms.NewFormsService(formsRepo)
	moderationService := moderation.NewModerationService(moderationRepo)

	session, err := discordgo.New("Bot " + cfg.DiscordConfig.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	discordClient := discord.NewDiscordClient(session)

	store := sessions.NewStore(cfg.SessionTTL)
	defer store.Close()

	ticketsUseCase := ticketsusecase.NewTicketsUseCase(
		discordClient,
		guildConfigsService,
		ticketsService,
		categoriesService,
		formsService,
		store,
	)
	setupUseCase := setup.NewSetupUseCase(discordClient, guildConfigsService, store)
	settingsUseCase := settings.NewSettingsUseCase(
		discordClient,
		guildConfigsService,
		categoriesService,
		formsService,
		store,
	)
	auditUseCase := audit.NewAuditUseCase(discordClient, guildConfigsService, moderationService)

	interactionRouter := router.NewRouter(ticketsUseCase, ticketsUseCase, ticketsUseCase, setupUseCase, settingsUseCase)

	alerts := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackAlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "supportbot",
	})

	processor := handlers.NewEventProcessor(discordClient, interactionRouter, auditUseCase)
	bot := handlers.NewDiscordEventsHandler(
		session,
		processor,
		alerts,
		cfg.EventWorkers,
		cfg.DiscordConfig.AppID,
		cfg.DiscordConfig.DevGuildID,
	)

	httpRouter := mux.NewRouter()
	handlers.NewHealthHTTPHandler(dbConn).SetupEndpoints(httpRouter)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alerts.HTTPMiddleware(httpRouter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := bot.StartBot(); err != nil {
		return err
	}

	return handleGracefulShutdown(cmd.Context(), server, bot)
}

// handleGracefulShutdown serves HTTP until a signal arrives, then stops intake before the
// deferred session store and database teardown run
func handleGracefulShutdown(ctx context.Context, server *http.Server, bot *handlers.DiscordEventsHandler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("✅ Listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("🛑 Shutdown signal received, cleaning up...")
	case err, ok := <-serverErr:
		if ok {
			log.Error("❌ Server error", "error", err)
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ Server shutdown error", "error", err)
	}
	bot.StopBot()

	log.Info("✅ Stopped gracefully")
	return runErr
}
