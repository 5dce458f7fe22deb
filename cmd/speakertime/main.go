package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/speakertime/api"
	"github.com/skillsenselab/speakertime/audio"
	"github.com/skillsenselab/speakertime/config"
	"github.com/skillsenselab/speakertime/diarization/pyannote"
	"github.com/skillsenselab/speakertime/logger"
	"github.com/skillsenselab/speakertime/observability"
	"github.com/skillsenselab/speakertime/resolve"
	"github.com/skillsenselab/speakertime/server"
	"github.com/skillsenselab/speakertime/version"
)

const serviceName = "speakertime"

func main() {
	configFile := flag.String("config", "", "path to config file (yaml)")
	envFile := flag.String("env", "", "path to .env file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetFullVersion())
		return
	}

	if err := run(*configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(configFile, envFile string) error {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	var cfg config.AppConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)
	log.Info("Starting service", logger.Fields(
		"version", version.GetShortVersion(),
		"environment", cfg.Environment,
		logger.FieldStrategy, cfg.Resolver.Strategy,
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.Enabled {
		tp, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: version.GetShortVersion(),
			Environment:    cfg.Environment,
			Endpoint:       cfg.Observability.Endpoint,
			Insecure:       cfg.Observability.Insecure,
		})
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer shutdownWithTimeout(tp.Shutdown, log, "tracer")

		mp, err := observability.InitMeter(ctx, observability.MeterConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: version.GetShortVersion(),
			Environment:    cfg.Environment,
			Endpoint:       cfg.Observability.Endpoint,
			Insecure:       cfg.Observability.Insecure,
		})
		if err != nil {
			return fmt.Errorf("init meter: %w", err)
		}
		defer shutdownWithTimeout(mp.Shutdown, log, "meter")
	}

	var metrics *observability.Metrics
	if cfg.Observability.Enabled {
		m, err := observability.NewMetrics(observability.Meter(cfg.Name))
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		metrics = m
	}

	provider := pyannote.NewProvider(pyannote.Config{
		APIKey:          cfg.Pyannote.APIKey,
		BaseURL:         cfg.Pyannote.BaseURL,
		Timeout:         time.Duration(cfg.Pyannote.TimeoutSeconds) * time.Second,
		PollInterval:    time.Duration(cfg.Pyannote.PollIntervalMS) * time.Millisecond,
		MaxPollAttempts: cfg.Pyannote.MaxPollAttempts,
	}, log)

	session := resolve.NewSession(resolve.NewStrategy(cfg.Resolver.Strategy), log)
	buffer := audio.NewBuffer()

	handlers := api.NewHandlers(session, buffer, provider, metrics, api.Config{
		DiarizePerMinute: cfg.API.DiarizePerMinute,
		WebhookURL:       cfg.Pyannote.WebhookURL,
	}, log)

	srv := server.New(cfg.Server, log)
	srv.RegisterDefaultEndpoints(cfg.Name, handlers.HealthChecker())
	handlers.Register(srv.GinEngine())

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")

	return srv.Stop(context.Background())
}

// shutdownWithTimeout runs an exporter shutdown with its own deadline so a
// hung collector never blocks process exit.
func shutdownWithTimeout(fn func(context.Context) error, log *logger.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.WithError(err).Warn("Shutdown failed", logger.Fields("component", name))
	}
}
