package collector

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"atlas/internal/models"
)

const powerSupplyPath = "/sys/class/power_supply"

// Battery reads charge state from the kernel power-supply class. Hosts
// without a battery report {present: false}.
func Battery() (*models.BatteryStats, error) {
	return readBattery(powerSupplyPath)
}

func readBattery(base string) (*models.BatteryStats, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return &models.BatteryStats{Present: false}, nil
	}
	for _, e := range entries {
		dir := filepath.Join(base, e.Name())
		if readSysFile(dir, "type") != "Battery" {
			continue
		}
		stats := &models.BatteryStats{Present: true}
		if v, err := strconv.ParseFloat(readSysFile(dir, "capacity"), 64); err == nil {
			pct := round1(v)
			stats.Percent = &pct
		}
		status := readSysFile(dir, "status")
		if status != "" {
			plugged := status != "Discharging"
			stats.PluggedIn = &plugged
		}
		// Remaining runtime from instantaneous draw, only meaningful on
		// battery power.
		if status == "Discharging" {
			if secs := timeLeftSeconds(dir); secs != nil {
				stats.TimeLeftSec = secs
			}
		}
		return stats, nil
	}
	return &models.BatteryStats{Present: false}, nil
}

func timeLeftSeconds(dir string) *int64 {
	energy, err1 := strconv.ParseFloat(readSysFile(dir, "energy_now"), 64)
	power, err2 := strconv.ParseFloat(readSysFile(dir, "power_now"), 64)
	if err1 != nil || err2 != nil || power <= 0 {
		return nil
	}
	secs := int64(energy / power * 3600)
	return &secs
}

func readSysFile(dir, name string) string {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
