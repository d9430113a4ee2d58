package collector

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"atlas/internal/models"
)

const thermalZonePath = "/sys/class/thermal"

// Temperature groups sensor readings by sensor key, falling back to the
// kernel thermal zones when gopsutil finds nothing. No sensors at all is
// a note, not an error.
func Temperature() (*models.TemperatureStats, error) {
	stats := &models.TemperatureStats{}

	if readings, err := host.SensorsTemperatures(); err == nil {
		for _, t := range readings {
			if t.SensorKey == "" {
				continue
			}
			reading := models.SensorReading{
				Label:   t.SensorKey,
				Current: round1(t.Temperature),
			}
			if t.High > 0 {
				high := round1(t.High)
				reading.High = &high
			}
			if t.Critical > 0 {
				crit := round1(t.Critical)
				reading.Critical = &crit
			}
			if stats.Sensors == nil {
				stats.Sensors = map[string][]models.SensorReading{}
			}
			stats.Sensors[t.SensorKey] = append(stats.Sensors[t.SensorKey], reading)
		}
	}

	if len(stats.Sensors) == 0 {
		if zones := readThermalZones(thermalZonePath); len(zones) > 0 {
			stats.Sensors = map[string][]models.SensorReading{"thermal_zones": zones}
		}
	}

	if len(stats.Sensors) == 0 {
		stats.Note = "No sensors detected"
	}
	return stats, nil
}

// readThermalZones parses /sys/class/thermal zone files; temp is in
// millidegrees.
func readThermalZones(base string) []models.SensorReading {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	var zones []models.SensorReading
	for _, e := range entries {
		raw, err := os.ReadFile(filepath.Join(base, e.Name(), "temp"))
		if err != nil {
			continue
		}
		milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
		if err != nil {
			continue
		}
		label := e.Name()
		if t, err := os.ReadFile(filepath.Join(base, e.Name(), "type")); err == nil {
			label = strings.TrimSpace(string(t))
		}
		zones = append(zones, models.SensorReading{
			Label:   label,
			Current: round1(milli / 1000),
		})
	}
	return zones
}
