package collector

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"atlas/internal/models"
)

// Uptime reports seconds since boot and the boot time in UTC.
func Uptime() (*models.UptimeStats, error) {
	secs, err := host.Uptime()
	if err != nil {
		return nil, err
	}
	boot, err := host.BootTime()
	if err != nil {
		return nil, err
	}
	return &models.UptimeStats{
		UptimeSeconds: int64(secs),
		UptimeHuman:   humanUptime(int64(secs)),
		BootTime:      time.Unix(int64(boot), 0).UTC().Format(time.RFC3339),
	}, nil
}

func humanUptime(s int64) string {
	return fmt.Sprintf("%dd %02dh %02dm %02ds",
		s/86400, (s%86400)/3600, (s%3600)/60, s%60)
}
