package collector

import (
	"sort"

	"github.com/shirou/gopsutil/v3/process"

	"atlas/internal/models"
)

const topN = 5

// Processes counts processes and reports the top five by CPU and by
// memory. Processes that vanish or deny access mid-scan are skipped.
func Processes() (*models.ProcessStats, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	infos := make([]models.ProcessInfo, 0, len(procs))
	running := 0
	for _, p := range procs {
		info := models.ProcessInfo{PID: p.Pid}
		if name, err := p.Name(); err == nil {
			info.Name = name
		} else {
			continue
		}
		if user, err := p.Username(); err == nil {
			info.User = user
		}
		if pct, err := p.CPUPercent(); err == nil {
			info.CPUPct = round2(pct)
		}
		if pct, err := p.MemoryPercent(); err == nil {
			info.MemPct = round2(float64(pct))
		}
		if status, err := p.Status(); err == nil && len(status) > 0 {
			info.Status = status[0]
		}
		if info.Status == process.Running {
			running++
		}
		infos = append(infos, info)
	}

	stats := &models.ProcessStats{
		Total:   len(infos),
		Running: running,
		TopCPU:  topBy(infos, func(p models.ProcessInfo) float64 { return p.CPUPct }),
		TopMem:  topBy(infos, func(p models.ProcessInfo) float64 { return p.MemPct }),
	}
	return stats, nil
}

func topBy(infos []models.ProcessInfo, key func(models.ProcessInfo) float64) []models.ProcessInfo {
	sorted := make([]models.ProcessInfo, len(infos))
	copy(sorted, infos)
	sort.Slice(sorted, func(i, j int) bool { return key(sorted[i]) > key(sorted[j]) })
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	return sorted
}
