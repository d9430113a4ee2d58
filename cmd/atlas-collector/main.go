// atlas-collector runs the metric collection loop: one snapshot per
// interval, written to the cache file and, when enabled, appended to
// the history database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"atlas/internal/cache"
	"atlas/internal/collector"
	"atlas/internal/config"
	"atlas/internal/history"
	"atlas/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "atlas-collector",
		Usage: "Collect host telemetry on a fixed cadence",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "once",
				Usage: "run a single cycle and exit",
			},
			&cli.IntFlag{
				Name:  "interval",
				Usage: "override the configured interval (seconds)",
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
	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	cfg, err := config.Init(paths.ConfigFile)
	if err != nil {
		return err
	}
	if n := cmd.Int("interval"); n > 0 {
		cfg.Interval = int(n)
	}

	log.Printf("Collector v%s", version.Version)
	log.Printf("Collecting: %s", strings.Join(cfg.EnabledSections(), ", "))
	log.Printf("Interval: %ds  History: %s", cfg.Interval, onOff(cfg.HistoryEnabled))

	store := cache.NewStore(paths.CacheFile)

	var hist *history.Store
	defer func() {
		if hist != nil {
			hist.Close()
		}
	}()

	interval := time.Duration(cfg.Interval) * time.Second
	for {
		start := time.Now()
		if cfg.HistoryEnabled && hist == nil {
			hist = openHistory(paths.DBFile)
		}
		cycle(cfg, store, hist)

		if cmd.Bool("once") {
			return nil
		}

		delay := interval - time.Since(start)
		if delay < 0 {
			delay = 0
		}
		select {
		case <-ctx.Done():
			log.Printf("Shutting down collector")
			return nil
		case <-time.After(delay):
		}
	}
}

// openHistory opens the history store, logging and returning nil on
// failure. The loop calls it again next cycle while it keeps failing,
// so a transient error (locked database, brief disk pressure) heals
// without a restart.
func openHistory(path string) *history.Store {
	hist, err := history.Open(path)
	if err != nil {
		log.Printf("Warning: history unavailable: %v", err)
		return nil
	}
	return hist
}

// cycle runs one collection pass. A failure in any stage is logged and
// the loop carries on; the daemon never dies over one bad cycle.
func cycle(cfg *config.Config, store *cache.Store, hist *history.Store) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error: cycle panic: %v", r)
		}
	}()

	snap := collector.CollectAll(cfg)

	if err := store.Write(snap); err != nil {
		log.Printf("Cache write error: %v", err)
	}
	if hist != nil {
		if err := hist.Append(snap, cfg.HistoryKeepDays); err != nil {
			log.Printf("History error: %v", err)
		}
	}

	log.Printf("CPU:%s  RAM:%s  DISK:%s",
		pct(snap.CPUPercent()), pct(snap.RAMPercent()), pct(snap.DiskPercent()))
}

func pct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
