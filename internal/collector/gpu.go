package collector

import (
	"strconv"
	"strings"
	"time"

	"atlas/internal/models"
)

const (
	nvidiaTimeout   = 5 * time.Second
	vcgencmdTimeout = 3 * time.Second
)

// GPU queries nvidia-smi first, then the Raspberry Pi vcgencmd. Missing
// tools mean no GPU to report, never a failure.
func GPU() (*models.GPUStats, error) {
	out, err := runCommand(nvidiaTimeout, "nvidia-smi",
		"--query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu",
		"--format=csv,noheader,nounits")
	if err == nil && out != "" {
		if gpus := parseNvidiaSMI(out); len(gpus) > 0 {
			return &models.GPUStats{GPUs: gpus}, nil
		}
	}

	if mem, err := runCommand(vcgencmdTimeout, "vcgencmd", "get_mem", "gpu"); err == nil {
		gpu := models.GPUInfo{
			Name:   "VideoCore (RPi)",
			GPUMem: mem,
			Driver: "videocore",
		}
		if th, err := runCommand(vcgencmdTimeout, "vcgencmd", "get_throttled"); err == nil {
			gpu.Throttled = th
		}
		return &models.GPUStats{GPUs: []models.GPUInfo{gpu}}, nil
	}

	return &models.GPUStats{GPUs: []models.GPUInfo{}, Note: "No GPU tools found"}, nil
}

// parseNvidiaSMI parses the CSV produced by --format=csv,noheader,nounits
// with the name,util,mem.used,mem.total,temp query.
func parseNvidiaSMI(out string) []models.GPUInfo {
	var gpus []models.GPUInfo
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Split(line, ",")
		if len(fields) < 5 {
			continue
		}
		gpu := models.GPUInfo{
			Name:   strings.TrimSpace(fields[0]),
			Driver: "nvidia",
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64); err == nil {
			gpu.UtilPercent = &v
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64); err == nil {
			gpu.MemUsedMB = &v
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64); err == nil {
			gpu.MemTotalMB = &v
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64); err == nil {
			gpu.TempCelsius = &v
		}
		gpus = append(gpus, gpu)
	}
	return gpus
}
