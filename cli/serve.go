// Package cli implements the ado-mcp subcommands.
package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	otelapi "go.opentelemetry.io/otel"

	"github.com/dhippley/ado-mcp/azdo"
	"github.com/dhippley/ado-mcp/config"
	adootel "github.com/dhippley/ado-mcp/otel"
	"github.com/dhippley/ado-mcp/tools"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

const serverName = "ado-mcp"

// Version is overridden at build time via ldflags.
var Version = "dev"

// NewServeCmd creates the "serve" subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Azure DevOps tool catalog over stdio",
		RunE:  runServe,
	}

	cmd.Flags().String("config", "", "Path to ado-mcp.yaml (default: ./ado-mcp.yaml, then the user config dir)")
	cmd.Flags().String("organization-url", "", "Azure DevOps organization URL, e.g. https://dev.azure.com/contoso")
	cmd.Flags().String("project", "", "Default project for tool calls that omit one")
	cmd.Flags().String("team", "", "Default team for board and iteration tools")
	cmd.Flags().String("api-version", "", "Azure DevOps REST api-version override")
	cmd.Flags().Duration("timeout", 0, "HTTP round-trip timeout")
	cmd.Flags().String("probe-schedule", "", "UTC cron expression for the background connection probe")
	cmd.Flags().Bool("no-ping", false, "Skip the startup connection check")
	cmd.Flags().String("otlp-endpoint", "", "OTLP/HTTP collector host:port for traces and metrics")
	cmd.Flags().Bool("otlp-insecure", false, "Disable TLS for the OTLP exporter")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)
	logger.Info("configuration resolved", startupAttrs(cfg)...)

	otlpEndpoint, _ := cmd.Flags().GetString("otlp-endpoint")
	otlpInsecure, _ := cmd.Flags().GetBool("otlp-insecure")
	shutdownTelemetry, err := adootel.SetupProviders(cmd.Context(), adootel.ProviderConfig{
		Endpoint:    otlpEndpoint,
		ServiceName: serverName,
		Insecure:    otlpInsecure,
	})
	if err != nil {
		return exitError(exitRuntime, "initializing telemetry: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", slog.String("error", err.Error()))
		}
	}()

	observer, err := adootel.NewToolObserver(
		otelapi.GetMeterProvider().Meter("ado-mcp/tools"),
		otelapi.GetTracerProvider().Tracer("ado-mcp/tools"),
	)
	if err != nil {
		return exitError(exitRuntime, "initializing tool observability: %v", err)
	}
	tools.SetObserver(observer)
	defer tools.SetObserver(nil)

	client, err := azdo.NewClient(azdo.ClientConfig{
		OrganizationURL: cfg.OrganizationURL,
		PAT:             cfg.PAT,
		APIVersion:      cfg.APIVersion,
		Timeout:         cfg.Timeout,
		Logger:          logger,
		OnRetry:         observer.ObserveRetry,
	})
	if err != nil {
		return exitError(exitConfig, "%s", err)
	}

	noPing, _ := cmd.Flags().GetBool("no-ping")
	if !noPing {
		pingCtx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		err := client.Ping(pingCtx)
		cancel()
		if err != nil {
			return exitError(exitConnect, "connection check failed: %v", err)
		}
		logger.Info("connection check ok")
	}

	if cfg.ProbeSchedule != "" {
		schedule, err := azdo.ParseCronScheduleUTC(cfg.ProbeSchedule)
		if err != nil {
			return exitError(exitConfig, "%s", err)
		}
		probe, err := azdo.NewProbe(azdo.ProbeConfig{
			Client:   client,
			Schedule: schedule,
			Logger:   logger,
		})
		if err != nil {
			return exitError(exitRuntime, "creating connection probe: %v", err)
		}
		if err := probe.Start(cmd.Context()); err != nil {
			return exitError(exitRuntime, "starting connection probe: %v", err)
		}
		defer func() {
			_ = probe.Stop(context.Background())
		}()
	}

	defs, err := tools.Catalog(client, tools.Defaults{
		Project: cfg.Project,
		Team:    cfg.Team,
	})
	if err != nil {
		return exitError(exitRuntime, "building tool catalog: %v", err)
	}

	s := mcpserver.NewMCPServer(serverName, Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	tools.Register(s, defs, logger)

	logger.Info("serving on stdio", slog.Int("tools", len(defs)))
	if err := mcpserver.ServeStdio(s); err != nil && cmd.Context().Err() == nil {
		return exitError(exitRuntime, "server error: %v", err)
	}
	return nil
}

// resolveConfig layers file, environment, and flag values in increasing
// precedence.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	explicitPath, _ := cmd.Flags().GetString("config")
	path, found, err := config.DiscoverPath(explicitPath)
	if err != nil {
		return config.Config{}, exitError(exitConfig, "%s", err)
	}

	var cfg config.Config
	if found {
		cfg, err = config.LoadFile(path)
		if err != nil {
			return config.Config{}, exitError(exitConfig, "%s", err)
		}
	}

	cfg = config.Merge(cfg, config.FromEnv())
	cfg = config.Merge(cfg, configFromFlags(cmd))

	if err := cfg.Validate(); err != nil {
		return config.Config{}, exitError(exitConfig, "%s", err)
	}
	return cfg, nil
}

func configFromFlags(cmd *cobra.Command) config.Config {
	organizationURL, _ := cmd.Flags().GetString("organization-url")
	project, _ := cmd.Flags().GetString("project")
	team, _ := cmd.Flags().GetString("team")
	apiVersion, _ := cmd.Flags().GetString("api-version")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	probeSchedule, _ := cmd.Flags().GetString("probe-schedule")

	return config.Config{
		OrganizationURL: organizationURL,
		Project:         project,
		Team:            team,
		APIVersion:      apiVersion,
		Timeout:         timeout,
		ProbeSchedule:   probeSchedule,
	}
}

// startupAttrs renders the resolved configuration for the startup log,
// PAT redacted.
func startupAttrs(cfg config.Config) []any {
	redacted := cfg.Redacted()
	return []any{
		slog.String("organization", redacted.OrganizationURL),
		slog.String("project", redacted.Project),
		slog.String("team", redacted.Team),
		slog.String("pat", redacted.PAT),
	}
}

// newLogger builds the process logger. Everything goes to stderr since
// stdout carries the stdio transport.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
