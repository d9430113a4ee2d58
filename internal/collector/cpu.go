package collector

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"atlas/internal/models"
)

// CPU samples overall load over one second, per-core load, core counts,
// model and frequency.
func CPU() (*models.CPUStats, error) {
	overall, err := cpu.Percent(time.Second, false)
	if err != nil {
		return nil, err
	}
	stats := &models.CPUStats{Architecture: runtime.GOARCH}
	if len(overall) > 0 {
		stats.Percent = round1(overall[0])
	}

	if perCore, err := cpu.Percent(0, true); err == nil {
		stats.PercentPerCore = make([]float64, len(perCore))
		for i, p := range perCore {
			stats.PercentPerCore[i] = round1(p)
		}
	}

	stats.CoresLogical, _ = cpu.Counts(true)
	stats.CoresPhysical, _ = cpu.Counts(false)

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		stats.Model = infos[0].ModelName
		if infos[0].Mhz > 0 {
			max := round1(infos[0].Mhz)
			stats.FreqMHzMax = &max
		}
	}
	if stats.Model == "" {
		if f, err := os.Open("/proc/cpuinfo"); err == nil {
			stats.Model = cpuModelFromCPUInfo(f)
			f.Close()
		}
	}
	if stats.Model == "" {
		stats.Model = "Unknown"
	}

	if cur := currentFreqMHz(); cur != nil {
		stats.FreqMHzCurrent = cur
	}
	return stats, nil
}

// cpuModelFromCPUInfo falls back to /proc/cpuinfo for hosts where gopsutil
// reports no model name (common on ARM boards).
func cpuModelFromCPUInfo(r io.Reader) string {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.ToLower(sc.Text())
		if strings.HasPrefix(line, "model name") || strings.HasPrefix(line, "hardware") {
			if _, v, ok := strings.Cut(sc.Text(), ":"); ok {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func currentFreqMHz() *float64 {
	raw, err := os.ReadFile("/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq")
	if err != nil {
		return nil
	}
	khz, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil || khz <= 0 {
		return nil
	}
	mhz := round1(khz / 1000)
	return &mhz
}
