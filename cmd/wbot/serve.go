package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/ai"
	"github.com/Matheusbritto77/WBot/pkg/bot"
	"github.com/Matheusbritto77/WBot/pkg/cmd"
	"github.com/Matheusbritto77/WBot/pkg/httpclient"
	"github.com/Matheusbritto77/WBot/pkg/log"
	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/otelhelper"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/scheduler"
	"github.com/Matheusbritto77/WBot/pkg/services"
	"github.com/Matheusbritto77/WBot/pkg/timer"
	"github.com/Matheusbritto77/WBot/pkg/transport/gateway"
	"github.com/Matheusbritto77/WBot/pkg/web"
	"github.com/Matheusbritto77/WBot/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	cli "github.com/urfave/cli/v3"
)

const shutdownTimeout = 15 * time.Second

func NewServeCommand() *cli.Command {
	flags := []cli.Flag{
		databaseURLFlag(false),
		pluginsPathFlag(),
		&cli.StringFlag{
			Name:    "listen-address",
			Usage:   "Address the HTTP API listens on",
			Value:   ":9091",
			Sources: cli.EnvVars("LISTEN_ADDRESS"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus provider (gochannel, kafka)",
			Value:   "gochannel",
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringSliceFlag{
			Name:    "kafka-brokers",
			Usage:   "Kafka brokers, used with --event-bus kafka",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.StringFlag{
			Name:    "seen-store",
			Usage:   "First message tracker (memory or a redis:// URL)",
			Value:   "memory",
			Sources: cli.EnvVars("SEEN_STORE"),
		},
		&cli.DurationFlag{
			Name:    "seen-ttl",
			Usage:   "How long a chat stays known after its first message (0 keeps it forever)",
			Sources: cli.EnvVars("SEEN_TTL"),
		},
		&cli.StringFlag{
			Name:    "gateway-url",
			Usage:   "Base URL of the WhatsApp gateway; messages are only logged when empty",
			Sources: cli.EnvVars("GATEWAY_URL"),
		},
		&cli.StringFlag{
			Name:    "gateway-token",
			Usage:   "Bearer token sent to the gateway",
			Sources: cli.EnvVars("GATEWAY_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "gemini-api-key",
			Usage:   "Google Gemini API key; AI replies are disabled when empty",
			Sources: cli.EnvVars("GEMINI_API_KEY"),
		},
		&cli.StringFlag{
			Name:    "gemini-model",
			Usage:   "Default Gemini model, overridden by the gemini_model setting",
			Value:   ai.DefaultModel,
			Sources: cli.EnvVars("GEMINI_MODEL"),
		},
		&cli.DurationFlag{
			Name:    "http-timeout",
			Usage:   "Timeout of gateway and http_request calls",
			Value:   httpclient.DefaultTimeout,
			Sources: cli.EnvVars("HTTP_TIMEOUT"),
		},
		&cli.BoolFlag{
			Name:    "otel-enabled",
			Usage:   "Export traces over OTLP/HTTP",
			Sources: cli.EnvVars("OTEL_ENABLED"),
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the bot, the scheduler and the management API",
		Flags:   append(flags, loggingFlags()...),
		Action:  runServe,
	}
}

func runServe(ctx context.Context, command *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Setup(command.String("log-level"), command.String("log-format"))

	logger := log.WithModule("wbot")
	logger.InfoContext(ctx, "Initializing WBot")

	tracer, shutdownTracer, err := otelhelper.NewTracerOrNoop(ctx, "wbot", command.Bool("otel-enabled"))
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}

	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}()

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := persistence.Close(context.Background()); err != nil {
			logger.Error("Failed to close persistence", "error", err)
		}
	}()

	settings := services.NewSettings(persistence, logger)
	httpTimeout := command.Duration("http-timeout")

	var sink protocol.MessageSink = gateway.NewLogSink(logger)
	if gatewayURL := command.String("gateway-url"); gatewayURL != "" {
		sink = gateway.NewSink(gateway.Config{
			BaseURL:    gatewayURL,
			Token:      command.String("gateway-token"),
			Timeout:    httpTimeout,
			MaxRetries: 2,
		}, logger)
	} else {
		logger.WarnContext(ctx, "No gateway configured, outbound messages are only logged")
	}

	responder, err := newResponder(ctx, command, settings, logger)
	if err != nil {
		return err
	}

	registry, err := cmd.NewRegistry(logger, command.String("plugins-path"), protocol.Dependencies{
		Logger:    logger,
		Sink:      sink,
		Responder: responder,
		HTTP:      httpclient.New(httpclient.Config{Timeout: httpTimeout, UserAgent: "wbot"}, logger),
		Timer:     timer.NewReal(),
	})
	if err != nil {
		return fmt.Errorf("failed to load node plugins: %w", err)
	}

	flows := services.NewFlow(persistence, registry)
	stats := services.NewStats(persistence)
	engine := workflow.NewEngine(flows, registry, tracer, clockwork.NewRealClock(), logger)

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.StringSlice("kafka-brokers"), logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}
	}()

	seenTracker, err := cmd.NewSeenTracker(ctx, command.String("seen-store"), command.Duration("seen-ttl"))
	if err != nil {
		return err
	}

	defer func() {
		if err := seenTracker.Close(); err != nil {
			logger.Error("Failed to close seen tracker", "error", err)
		}
	}()

	cronJobs := services.NewCronJobs(persistence, nil)
	sched := scheduler.New(scheduler.Dependencies{
		Jobs:      cronJobs,
		Flows:     flows,
		Engine:    engine,
		Settings:  settings,
		Responder: responder,
		Sink:      sink,
		Publisher: eventBus,
	}, logger)
	cronJobs.SetReloader(sched)

	controller := bot.NewController(bot.Dependencies{
		Settings:  settings,
		Stats:     stats,
		Engine:    engine,
		Seen:      seenTracker,
		Responder: responder,
		Sink:      sink,
		Publisher: eventBus,
	}, logger)

	manager := NewBotManager(eventBus, controller, logger)
	if err := manager.Start(ctx); err != nil {
		return err
	}

	if err := sched.Start(ctx); err != nil {
		return err
	}

	api := NewAPI(logger, web.NewAPIHandlers(
		flows,
		settings,
		stats,
		cronJobs,
		engine,
		eventBus,
		validator.New(validator.WithRequiredStructEnabled()),
		registry,
	))

	errCh := make(chan error, 1)

	go func() {
		errCh <- api.Start(command.String("listen-address"))
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err = <-errCh:
		if err != nil {
			logger.Error("API server stopped", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(
		err,
		api.Shutdown(shutdownCtx),
		sched.Stop(shutdownCtx),
		manager.Wait(shutdownCtx),
	)
}

func newResponder(ctx context.Context, command *cli.Command, settings *services.Settings, logger *slog.Logger) (protocol.TextResponder, error) {
	apiKey := command.String("gemini-api-key")
	if apiKey == "" {
		logger.WarnContext(ctx, "No Gemini API key configured, AI replies are disabled")

		return ai.Unconfigured{}, nil
	}

	modelSource := func(ctx context.Context) string {
		model, err := settings.Get(ctx, models.SettingGeminiModel)
		if err != nil {
			return ""
		}

		return model
	}

	responder, err := ai.NewGeminiResponder(ctx, apiKey, command.String("gemini-model"), modelSource, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return responder, nil
}
