// chill-mcp serves the ChillMCP break tools over MCP.
//
// Usage:
//
//	chill-mcp [--boss_alertness 0-100] [--boss_alertness_cooldown seconds]
//	          [--transport stdio|sse] [--sse_addr :8080]
//	          [--activity_log path] [--config chill.yaml]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vthunder/chillmcp/internal/activity"
	"github.com/vthunder/chillmcp/internal/breaks"
	"github.com/vthunder/chillmcp/internal/config"
	"github.com/vthunder/chillmcp/internal/gauge"
	"github.com/vthunder/chillmcp/internal/logging"
	"github.com/vthunder/chillmcp/internal/mcp"
	"github.com/vthunder/chillmcp/internal/mcp/tools"
	"github.com/vthunder/chillmcp/internal/otel"
)

const version = "1.0.0"

func main() {
	// Log to stderr so stdout is clean for JSON-RPC
	log.SetOutput(os.Stderr)
	log.SetPrefix("[chill-mcp] ")

	// Load .env file if present (don't error if missing)
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()
	printBanner(os.Stderr, cfg)

	provider, err := otel.Init(ctx, cfg.OTel(version))
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logging.Warn("otel", "shutdown: %v", err)
		}
	}()

	journal := activity.New(cfg.ActivityLog)
	if journal != nil {
		logging.Info("activity", "Journal at %s", journal.Path())
	}

	controller, err := gauge.New(cfg.Gauge(), gauge.Options{
		OnChange: func(t gauge.Transition) {
			if err := journal.LogTransition(string(t.Kind), t.From, t.To, t.Amount, t.At); err != nil {
				logging.Warn("activity", "write failed: %v", err)
			}
		},
	})
	if err != nil {
		return err
	}

	metrics, err := otel.NewMetrics(provider.Meter, func() (int64, int64) {
		snap := controller.Snapshot()
		return int64(snap.Stress), int64(snap.BossAlert)
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	if err := journal.LogStartup("ChillMCP started", map[string]any{
		"boss_alertness":          cfg.BossAlertness,
		"boss_alertness_cooldown": cfg.BossAlertnessCooldown,
		"transport":               cfg.Transport,
		"version":                 version,
	}); err != nil {
		logging.Warn("activity", "write failed: %v", err)
	}

	server := mcp.NewServer(version, &tools.Dependencies{
		Invoker:     breaks.NewInvoker(controller),
		ActivityLog: journal,
		Tracer:      provider.Tracer,
		Metrics:     metrics,
	})

	if cfg.Transport == config.TransportSSE {
		return server.ServeSSE(cfg.SSEAddr)
	}
	return server.ServeStdio()
}

// printBanner goes to stderr, stdout belongs to the MCP protocol.
func printBanner(w io.Writer, cfg config.Config) {
	fmt.Fprintln(w, "🚀 ChillMCP server starting!")
	fmt.Fprintf(w, "📊 Boss Alertness: %d%%\n", cfg.BossAlertness)
	fmt.Fprintf(w, "⏰ Boss Alert Cooldown: %ds\n", cfg.BossAlertnessCooldown)
	if cfg.Transport == config.TransportSSE {
		fmt.Fprintf(w, "🌐 Transport: sse on %s\n", cfg.SSEAddr)
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))
}
