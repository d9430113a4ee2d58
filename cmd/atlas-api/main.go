// atlas-api serves the read-only telemetry API from the cache file and
// the history database. It never collects anything itself.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"atlas/internal/api"
	"atlas/internal/config"
	"atlas/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "atlas-api",
		Usage: "Serve the read-only telemetry API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "override the configured port",
			},
			&cli.StringFlag{
				Name:  "engine",
				Usage: "override the configured engine (http, gin, off)",
			},
			&cli.StringFlag{
				Name:    "base",
				Usage:   "base directory for cache, config and data",
				Sources: cli.EnvVars("ATLAS_BASE_DIR"),
			},
		},
		Action: run,
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	paths := config.ResolvePaths(cmd.String("base"))
	cfg := config.Load(paths.ConfigFile)

	port := cfg.APIPort
	if n := cmd.Int("port"); n > 0 {
		port = int(n)
	}
	engineName := cfg.APIEngine
	if s := cmd.String("engine"); s != "" {
		engineName = s
	}

	if engineName == config.EngineOff || !cfg.APIEnabled {
		log.Printf("API disabled")
		return nil
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid api_port %d", port)
	}
	eng, err := api.NewEngine(engineName)
	if err != nil {
		return err
	}

	log.Printf("API v%s — %s engine  port %d", version.Version, eng.Name(), port)
	if cfg.APIKey == "" {
		log.Printf("WARNING: No api_key set — API is open to anyone on the network")
	} else {
		log.Printf("Auth enabled (key: %s...)", keyPrefix(cfg.APIKey))
	}

	svc := api.NewService(cfg, paths)
	defer svc.Close()
	return eng.Serve(ctx, port, svc)
}

func keyPrefix(key string) string {
	if len(key) > 16 {
		return key[:16]
	}
	return key
}
