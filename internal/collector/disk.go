package collector

import (
	"github.com/shirou/gopsutil/v3/disk"

	"atlas/internal/models"
)

// Disk lists physical partitions with usage, plus cumulative IO totals
// summed across devices. Partitions we cannot stat (permissions, stale
// mounts) are skipped, not fatal.
func Disk() (*models.DiskStats, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}
	stats := &models.DiskStats{Partitions: []models.DiskPartition{}}
	for _, p := range parts {
		usage, err := disk.Usage(p.Mountpoint)
		if err != nil {
			continue
		}
		stats.Partitions = append(stats.Partitions, models.DiskPartition{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
			Percent:    round1(usage.UsedPercent),
			TotalGB:    bytesToGB(usage.Total),
			UsedGB:     bytesToGB(usage.Used),
			FreeGB:     bytesToGB(usage.Free),
		})
	}

	if counters, err := disk.IOCounters(); err == nil && len(counters) > 0 {
		var read, write uint64
		for _, c := range counters {
			read += c.ReadBytes
			write += c.WriteBytes
		}
		r := bytesToMB(read)
		w := bytesToMB(write)
		stats.IOReadMB = &r
		stats.IOWriteMB = &w
	}
	return stats, nil
}
