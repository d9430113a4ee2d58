// Package collector implements the metric collectors and assembles
// snapshots. Collectors are independent: each reads ambient system state
// and returns its typed payload or an error, and no collector depends on
// another.
package collector

import (
	"fmt"
	"os"
	"time"

	"atlas/internal/config"
	"atlas/internal/models"
	"atlas/internal/version"
)

// CollectAll runs every enabled collector sequentially and assembles the
// snapshot. A collector failing, or even panicking, only marks its own
// section; every other enabled collector still runs and is included.
func CollectAll(cfg *config.Config) *models.Snapshot {
	snap := &models.Snapshot{
		AtlasVersion: version.Version,
		CollectedAt:  time.Now().UTC().Format(time.RFC3339),
		Hostname:     hostname(),
	}
	if cfg.CollectCPU {
		snap.CPU = section(CPU)
	}
	if cfg.CollectRAM {
		snap.RAM = section(RAM)
	}
	if cfg.CollectDisk {
		snap.Disk = section(Disk)
	}
	if cfg.CollectNetwork {
		snap.Network = section(func() (*models.NetworkStats, error) {
			return Network(cfg.NetSpeedEnabled)
		})
	}
	if cfg.CollectTemp {
		snap.Temperature = section(Temperature)
	}
	if cfg.CollectUptime {
		snap.Uptime = section(Uptime)
	}
	if cfg.CollectOS {
		snap.OS = section(OS)
	}
	if cfg.CollectHardware {
		snap.Hardware = section(Hardware)
	}
	if cfg.CollectProcesses {
		snap.Processes = section(Processes)
	}
	if cfg.CollectUsers {
		snap.Users = section(Users)
	}
	if cfg.CollectBattery {
		snap.Battery = section(Battery)
	}
	if cfg.CollectGPU {
		snap.GPU = section(GPU)
	}
	return snap
}

// section runs one collector, converting an error or a panic into the
// section's error payload so a single bad collector never aborts a cycle.
func section[T any](fn func() (*T, error)) (out *models.Section[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = models.Failed[T](fmt.Sprint(r))
		}
	}()
	v, err := fn()
	if err != nil {
		return models.Failed[T](err.Error())
	}
	return models.Ok(v)
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
