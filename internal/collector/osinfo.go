package collector

import (
	"bufio"
	"io"
	"net"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"atlas/internal/models"
)

// OS identifies the operating system, including the distro pretty name
// from /etc/os-release where available.
func OS() (*models.OSStats, error) {
	info, err := host.Info()
	if err != nil {
		return nil, err
	}
	stats := &models.OSStats{
		System:   info.OS,
		Node:     info.Hostname,
		Release:  info.KernelVersion,
		Machine:  info.KernelArch,
		Hostname: info.Hostname,
		FQDN:     fqdn(info.Hostname),
	}
	if f, err := os.Open("/etc/os-release"); err == nil {
		stats.DistroName, stats.DistroVersion = parseOSRelease(f)
		f.Close()
	}
	return stats, nil
}

// parseOSRelease extracts PRETTY_NAME and VERSION_ID.
func parseOSRelease(r io.Reader) (name, version string) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if v, ok := strings.CutPrefix(line, "PRETTY_NAME="); ok {
			name = strings.Trim(strings.TrimSpace(v), `"`)
		}
		if v, ok := strings.CutPrefix(line, "VERSION_ID="); ok {
			version = strings.Trim(strings.TrimSpace(v), `"`)
		}
	}
	return name, version
}

func fqdn(hostname string) string {
	if cname, err := net.LookupCNAME(hostname); err == nil && cname != "" {
		return strings.TrimSuffix(cname, ".")
	}
	return hostname
}
