package collector

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"atlas/internal/models"
)

const dmiTimeout = 3 * time.Second

// Hardware queries the DMI inventory through dmidecode and picks up
// Raspberry Pi identifiers from /proc/cpuinfo. dmidecode usually needs
// root; a host where nothing is readable yields a note payload.
func Hardware() (*models.HardwareStats, error) {
	stats := &models.HardwareStats{}
	fields := []struct {
		dmi string
		dst *string
	}{
		{"system-manufacturer", &stats.Manufacturer},
		{"system-product-name", &stats.ProductName},
		{"system-serial-number", &stats.SerialNumber},
		{"system-uuid", &stats.UUID},
		{"bios-vendor", &stats.BIOSVendor},
		{"bios-version", &stats.BIOSVersion},
		{"chassis-type", &stats.ChassisType},
	}
	for _, f := range fields {
		out, err := runCommand(dmiTimeout, "dmidecode", "-s", f.dmi)
		if err != nil {
			continue
		}
		if out != "" && !strings.Contains(strings.ToLower(out), "not present") {
			*f.dst = out
		}
	}

	if f, err := os.Open("/proc/cpuinfo"); err == nil {
		parseRPiCPUInfo(f, stats)
		f.Close()
	}

	if *stats == (models.HardwareStats{}) {
		stats.Note = "Limited — dmidecode may need sudo"
	}
	return stats, nil
}

// parseRPiCPUInfo fills the Raspberry Pi fields that appear at the end of
// /proc/cpuinfo on Pi kernels.
func parseRPiCPUInfo(r io.Reader, stats *models.HardwareStats) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		switch strings.TrimSpace(k) {
		case "Model":
			stats.RPiModel = v
		case "Serial":
			stats.RPiSerial = v
		case "Revision":
			stats.RPiRevision = v
		}
	}
}
