package collector

import (
	"os"
	"strconv"
	"strings"
	"time"

	gnet "github.com/shirou/gopsutil/v3/net"

	"atlas/internal/models"
)

// netSampleWindow is the fixed speed sampling window. The network
// collector's cost is at least this long whenever speed sampling is on,
// which the orchestrator accounts for as ordinary cycle time.
const netSampleWindow = time.Second

// Network reads traffic counters and interface details. With speed
// enabled it measures throughput as the counter delta over a one second
// window; the window is self-contained, so speed fields are present from
// the very first cycle.
func Network(speed bool) (*models.NetworkStats, error) {
	stats := &models.NetworkStats{}

	var after gnet.IOCountersStat
	if speed {
		before, err := totalCounters()
		if err != nil {
			return nil, err
		}
		time.Sleep(netSampleWindow)
		after, err = totalCounters()
		if err != nil {
			return nil, err
		}
		up := round3(float64(after.BytesSent-before.BytesSent) * 8 / 1e6)
		dn := round3(float64(after.BytesRecv-before.BytesRecv) * 8 / 1e6)
		stats.SpeedUpMbps = &up
		stats.SpeedDownMbps = &dn
	} else {
		var err error
		after, err = totalCounters()
		if err != nil {
			return nil, err
		}
	}

	stats.SentTotalMB = bytesToMB(after.BytesSent)
	stats.RecvTotalMB = bytesToMB(after.BytesRecv)
	stats.PacketsSent = after.PacketsSent
	stats.PacketsRecv = after.PacketsRecv
	stats.ErrorsIn = after.Errin
	stats.ErrorsOut = after.Errout

	if ifaces, err := gnet.Interfaces(); err == nil {
		for _, iface := range ifaces {
			info := models.NetInterface{
				Name:      iface.Name,
				Addresses: []models.NetAddress{},
				MTU:       iface.MTU,
			}
			for _, flag := range iface.Flags {
				if flag == "up" {
					info.IsUp = true
				}
			}
			if mbps := linkSpeedMbps(iface.Name); mbps != nil {
				info.SpeedMbps = mbps
			}
			for _, addr := range iface.Addrs {
				family := "inet"
				if strings.Contains(addr.Addr, ":") {
					family = "inet6"
				}
				info.Addresses = append(info.Addresses, models.NetAddress{
					Family:  family,
					Address: addr.Addr,
				})
			}
			stats.Interfaces = append(stats.Interfaces, info)
		}
	}
	return stats, nil
}

func totalCounters() (gnet.IOCountersStat, error) {
	counters, err := gnet.IOCounters(false)
	if err != nil {
		return gnet.IOCountersStat{}, err
	}
	if len(counters) == 0 {
		return gnet.IOCountersStat{}, nil
	}
	return counters[0], nil
}

// linkSpeedMbps reads the negotiated link speed from sysfs. Wireless and
// virtual interfaces report -1 there; those return nil.
func linkSpeedMbps(name string) *int {
	raw, err := os.ReadFile("/sys/class/net/" + name + "/speed")
	if err != nil {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
