// atlas-stats reads the snapshot cache and renders the terminal
// dashboard. It is a pure reader: no collection, no network.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"atlas/internal/cache"
	"atlas/internal/config"
	"atlas/internal/dashboard"
	"atlas/internal/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "atlas-stats",
		Usage: "Display the cached telemetry snapshot",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "refresh continuously",
			},
			&cli.IntFlag{
				Name:  "interval",
				Usage: "refresh interval in watch mode (seconds)",
				Value: 30,
			},
			&cli.StringFlag{
				Name:  "section",
				Usage: "show one section only (cpu, ram, disk, ...)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "raw JSON output",
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "path to the cache file",
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
	cachePath := cmd.String("cache")
	if cachePath == "" {
		cachePath = config.ResolvePaths(cmd.String("base")).CacheFile
	}
	store := cache.NewStore(cachePath)

	watch := cmd.Bool("watch")
	interval := time.Duration(cmd.Int("interval")) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	renderer := dashboard.New(os.Stdout, stdoutIsTTY())
	opts := renderOpts{
		section: cmd.String("section"),
		asJSON:  cmd.Bool("json"),
		watch:   watch,
	}

	for {
		snap, ok := store.Read()
		if !ok {
			if !watch {
				return fmt.Errorf("no cache found at %s (start atlas-collector first)", cachePath)
			}
			fmt.Fprintf(os.Stderr, "No cache found at %s — waiting for atlas-collector\n", cachePath)
		} else if err := render(renderer, os.Stdout, snap, opts); err != nil {
			return err
		}

		if !watch {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

type renderOpts struct {
	section string
	asJSON  bool
	watch   bool
}

func render(renderer *dashboard.Renderer, out io.Writer, snap *models.Snapshot, opts renderOpts) error {
	if opts.asJSON {
		var v any = snap
		if opts.section != "" {
			data, ok := snap.Section(opts.section)
			if !ok {
				// Emit the error object for scripts, then fail so the
				// exit code matches the plain mode.
				fmt.Fprintln(out, `{"error": "section not found"}`)
				return fmt.Errorf("unknown section %q (available: %s)",
					opts.section, strings.Join(models.SectionNames(), ", "))
			}
			v = data
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}

	if opts.watch {
		// Clear screen and home the cursor.
		fmt.Fprint(out, "\033[2J\033[H")
	}

	if opts.section != "" {
		if !renderer.RenderSection(snap, opts.section) {
			return fmt.Errorf("unknown section %q (available: %s)",
				opts.section, strings.Join(models.SectionNames(), ", "))
		}
		return nil
	}

	renderer.Render(snap)
	return nil
}

func stdoutIsTTY() bool {
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
