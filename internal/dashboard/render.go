package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"atlas/internal/models"
	"atlas/internal/version"
)

// Render prints the full dashboard for one snapshot.
func (r *Renderer) Render(snap *models.Snapshot) {
	r.renderHeader(snap)
	for _, name := range models.SectionNames() {
		r.renderSection(snap, name)
	}
	r.println("")
	r.println(r.divider(56, "─"))
	r.println(r.c(ansiDim, "  ATLAS v"+version.Version))
	r.println(r.divider(56, "─"))
	r.println("")
}

// RenderSection prints the header plus one named section. It reports
// false for unknown names so the caller can list what is available.
func (r *Renderer) RenderSection(snap *models.Snapshot, name string) bool {
	known := false
	for _, n := range models.SectionNames() {
		if n == name {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	r.renderHeader(snap)
	r.renderSection(snap, name)
	r.println("")
	return true
}

func (r *Renderer) renderSection(snap *models.Snapshot, name string) {
	switch name {
	case "cpu":
		if snap.CPU != nil {
			r.renderCPU(snap.CPU)
		}
	case "ram":
		if snap.RAM != nil {
			r.renderRAM(snap.RAM)
		}
	case "disk":
		if snap.Disk != nil {
			r.renderDisk(snap.Disk)
		}
	case "network":
		if snap.Network != nil {
			r.renderNetwork(snap.Network)
		}
	case "temperature":
		if snap.Temperature != nil {
			r.renderTemperature(snap.Temperature)
		}
	case "uptime":
		if snap.Uptime != nil {
			r.renderUptime(snap.Uptime)
		}
	case "os":
		if snap.OS != nil {
			r.renderOS(snap.OS)
		}
	case "hardware":
		if snap.Hardware != nil {
			r.renderHardware(snap.Hardware)
		}
	case "processes":
		if snap.Processes != nil {
			r.renderProcesses(snap.Processes)
		}
	case "users":
		if snap.Users != nil {
			r.renderUsers(snap.Users)
		}
	case "battery":
		if snap.Battery != nil {
			r.renderBattery(snap.Battery)
		}
	case "gpu":
		if snap.GPU != nil {
			r.renderGPU(snap.GPU)
		}
	}
}

func (r *Renderer) renderHeader(snap *models.Snapshot) {
	r.println("")
	r.println(r.divider(56, "═"))
	r.println(r.c(ansiBlu, "  ║ ") + r.c(ansiCyn+ansiBold, " ⬡  ATLAS") +
		r.c(ansiDim, " v"+snap.AtlasVersion) +
		r.c(ansiBlu, "  ─  ") +
		r.c(ansiWht+ansiBold, strings.ToUpper(snap.Hostname)))
	if snap.OS != nil && snap.OS.Data != nil {
		osStr := strings.TrimSpace(osLabel(snap.OS.Data) + " " + snap.OS.Data.Release)
		if osStr != "" {
			r.println(r.c(ansiBlu, "  ║ ") + r.c(ansiDim, "    "+osStr))
		}
	}
	r.println(r.c(ansiBlu, "  ║ ") + r.c(ansiDim, "    Cache: "+r.fmtAge(snap.CollectedAt)))
	r.println(r.divider(56, "═"))
}

func osLabel(o *models.OSStats) string {
	if o.DistroName != "" {
		return o.DistroName
	}
	return o.System
}

// sectionError prints the header plus the captured error and reports
// whether there was one.
func (r *Renderer) sectionError(title, errMsg string) bool {
	if errMsg == "" {
		return false
	}
	r.println("")
	r.println(r.sectionHeader(title))
	r.println(r.c(ansiDim, "    error: "+errMsg))
	return true
}

func (r *Renderer) renderCPU(s *models.Section[models.CPUStats]) {
	if r.sectionError("CPU", s.Err) {
		return
	}
	cpu := s.Data
	r.println("")
	r.println(r.sectionHeader("CPU"))
	detail := fmt.Sprintf("  %d cores", cpu.CoresLogical)
	if cpu.FreqMHzCurrent != nil {
		detail += fmt.Sprintf("  %.0f MHz", *cpu.FreqMHzCurrent)
	}
	r.println("  " + r.bar(cpu.Percent) + " " + r.pctLabel(cpu.Percent) + r.c(ansiDim, detail))
	model := cpu.Model
	if len(model) > 40 {
		model = model[:40]
	}
	r.println(r.c(ansiDim, "    "+model))

	if len(cpu.PercentPerCore) > 1 {
		row := "    "
		for i, p := range cpu.PercentPerCore {
			row += r.c(pctColor(p), fmt.Sprintf("C%d:%.0f%%", i, p)) + "  "
		}
		r.println(row)
	}
}

func (r *Renderer) renderRAM(s *models.Section[models.RAMStats]) {
	if r.sectionError("MEMORY", s.Err) {
		return
	}
	ram := s.Data
	r.println("")
	r.println(r.sectionHeader("MEMORY"))
	r.println("  " + r.bar(ram.Percent) + " " + r.pctLabel(ram.Percent) +
		r.c(ansiDim, fmt.Sprintf("  %.2f / %.2f GB  (free: %.2f GB)", ram.UsedGB, ram.TotalGB, ram.FreeGB)))
	if ram.SwapTotalGB > 0 {
		r.println("  " + r.bar(ram.SwapPercent) + " " + r.pctLabel(ram.SwapPercent) +
			r.c(ansiDim, fmt.Sprintf("  SWAP  %.2f / %.2f GB", ram.SwapUsedGB, ram.SwapTotalGB)))
	}
}

func (r *Renderer) renderDisk(s *models.Section[models.DiskStats]) {
	if r.sectionError("DISK", s.Err) {
		return
	}
	disk := s.Data
	r.println("")
	r.println(r.sectionHeader("DISK"))
	for _, part := range disk.Partitions {
		r.println("  " + r.bar(part.Percent) + " " + r.pctLabel(part.Percent) +
			r.c(ansiDim, fmt.Sprintf("  %.1f/%.1fGB", part.UsedGB, part.TotalGB)) +
			r.c(ansiWht, "  "+part.Mountpoint) +
			r.c(ansiDim, "  "+part.Fstype))
	}
	if disk.IOReadMB != nil && disk.IOWriteMB != nil {
		r.println(r.c(ansiDim, fmt.Sprintf("    I/O  Read: %s  Write: %s",
			fmtMB(*disk.IOReadMB), fmtMB(*disk.IOWriteMB))))
	}
}

func (r *Renderer) renderNetwork(s *models.Section[models.NetworkStats]) {
	if r.sectionError("NETWORK", s.Err) {
		return
	}
	net := s.Data
	r.println("")
	r.println(r.sectionHeader("NETWORK"))
	var up, dn float64
	if net.SpeedUpMbps != nil {
		up = *net.SpeedUpMbps
	}
	if net.SpeedDownMbps != nil {
		dn = *net.SpeedDownMbps
	}
	r.println(fmt.Sprintf("  %s %-16s  %s %s",
		r.c(ansiGrn+ansiBold, "↑"), r.c(ansiGrn, fmtMbps(up)),
		r.c(ansiCyn+ansiBold, "↓"), r.c(ansiCyn, fmtMbps(dn))))
	r.println(r.c(ansiDim, fmt.Sprintf("    Total sent: %s  recv: %s  errors: %d/%d",
		fmtMB(net.SentTotalMB), fmtMB(net.RecvTotalMB), net.ErrorsIn, net.ErrorsOut)))
	for _, iface := range net.Interfaces {
		if !iface.IsUp {
			continue
		}
		var addrs []string
		for _, a := range iface.Addresses {
			if a.Family == "inet" && !strings.HasPrefix(a.Address, "127.") {
				addrs = append(addrs, a.Address)
			}
		}
		if len(addrs) == 0 {
			continue
		}
		if len(addrs) > 2 {
			addrs = addrs[:2]
		}
		line := r.c(ansiDim, fmt.Sprintf("    %-12s", iface.Name)) + r.c(ansiWht, strings.Join(addrs, "  "))
		if iface.SpeedMbps != nil {
			line += r.c(ansiDim, fmt.Sprintf("  %dMbps", *iface.SpeedMbps))
		}
		r.println(line)
	}
}

func (r *Renderer) renderTemperature(s *models.Section[models.TemperatureStats]) {
	if r.sectionError("TEMPERATURE", s.Err) {
		return
	}
	temp := s.Data
	if len(temp.Sensors) == 0 {
		return
	}
	r.println("")
	r.println(r.sectionHeader("TEMPERATURE"))
	for _, key := range sortedKeys(temp.Sensors) {
		for _, reading := range temp.Sensors[key] {
			label := reading.Label
			if label == "" {
				label = key
			}
			deg := reading.Current
			col := ansiGrn
			if deg > 75 {
				col = ansiRed
			} else if deg > 60 {
				col = ansiYlw
			}
			barPct := deg / 85 * 100
			if barPct > 100 {
				barPct = 100
			}
			r.println("  " + r.bar(barPct) + " " +
				r.c(col+ansiBold, fmt.Sprintf("%5.1f°C", deg)) +
				r.c(ansiDim, "  "+label))
		}
	}
}

func (r *Renderer) renderUptime(s *models.Section[models.UptimeStats]) {
	if r.sectionError("UPTIME", s.Err) {
		return
	}
	up := s.Data
	boot := up.BootTime
	if len(boot) > 19 {
		boot = boot[:19]
	}
	boot = strings.ReplaceAll(boot, "T", " ")
	r.println("")
	r.println(r.sectionHeader("UPTIME"))
	r.println(r.c(ansiDim, "    "+up.UptimeHuman) + r.c(ansiDim, "   (boot: "+boot+")"))
}

func (r *Renderer) renderOS(s *models.Section[models.OSStats]) {
	if r.sectionError("OS", s.Err) {
		return
	}
	o := s.Data
	r.println("")
	r.println(r.sectionHeader("OS"))
	fields := []struct{ label, val string }{
		{"Hostname", o.Hostname},
		{"OS", osLabel(o)},
		{"Kernel", o.Release},
		{"Architecture", o.Machine},
		{"FQDN", o.FQDN},
	}
	for _, f := range fields {
		if f.val != "" {
			r.println(r.c(ansiDim, fmt.Sprintf("    %-14s", f.label)) + r.c(ansiWht, f.val))
		}
	}
}

func (r *Renderer) renderHardware(s *models.Section[models.HardwareStats]) {
	if r.sectionError("HARDWARE", s.Err) {
		return
	}
	hw := s.Data
	fields := []struct{ label, val string }{
		{"Manufacturer", hw.Manufacturer},
		{"Product", hw.ProductName},
		{"Serial", hw.SerialNumber},
		{"UUID", hw.UUID},
		{"BIOS", hw.BIOSVendor},
		{"BIOS Ver", hw.BIOSVersion},
		{"Chassis", hw.ChassisType},
		{"RPi Model", hw.RPiModel},
		{"RPi Serial", hw.RPiSerial},
		{"RPi Revision", hw.RPiRevision},
	}
	have := false
	for _, f := range fields {
		if f.val != "" {
			have = true
			break
		}
	}
	if !have {
		return
	}
	r.println("")
	r.println(r.sectionHeader("HARDWARE"))
	for _, f := range fields {
		if f.val != "" {
			r.println(r.c(ansiDim, fmt.Sprintf("    %-16s", f.label)) + r.c(ansiWht, f.val))
		}
	}
}

func (r *Renderer) renderProcesses(s *models.Section[models.ProcessStats]) {
	if r.sectionError("PROCESSES", s.Err) {
		return
	}
	procs := s.Data
	r.println("")
	r.println(r.sectionHeader("PROCESSES"))
	r.println(r.c(ansiDim, "    Total: ") + r.c(ansiWht, fmt.Sprint(procs.Total)) +
		r.c(ansiDim, "   Running: ") + r.c(ansiWht, fmt.Sprint(procs.Running)))

	r.renderTopList("Top CPU:", procs.TopCPU, ansiYlw, func(p models.ProcessInfo) float64 { return p.CPUPct })
	r.renderTopList("Top Memory:", procs.TopMem, ansiCyn, func(p models.ProcessInfo) float64 { return p.MemPct })
}

func (r *Renderer) renderTopList(title string, list []models.ProcessInfo, col string, pct func(models.ProcessInfo) float64) {
	if len(list) == 0 {
		return
	}
	r.println(r.c(ansiDim, "\n    "+title))
	for _, p := range list {
		r.println(r.c(ansiDim, fmt.Sprintf("      %6d  ", p.PID)) +
			r.c(col, fmt.Sprintf("%5.1f%%  ", pct(p))) +
			r.c(ansiWht, fmt.Sprintf("%-24s", p.Name)) +
			r.c(ansiDim, "  "+p.User))
	}
}

func (r *Renderer) renderUsers(s *models.Section[models.UserStats]) {
	if r.sectionError("USERS", s.Err) {
		return
	}
	users := s.Data
	if len(users.LoggedIn) == 0 {
		return
	}
	r.println("")
	r.println(r.sectionHeader("USERS"))
	for _, u := range users.LoggedIn {
		started := u.Started
		if len(started) > 19 {
			started = started[:19]
		}
		host := u.Host
		if host == "" {
			host = "local"
		}
		r.println(r.c(ansiWht, fmt.Sprintf("    %-16s", u.Name)) +
			r.c(ansiDim, fmt.Sprintf("  %-8s  %-16s  %s", u.Terminal, host, started)))
	}
}

func (r *Renderer) renderBattery(s *models.Section[models.BatteryStats]) {
	if r.sectionError("BATTERY", s.Err) {
		return
	}
	batt := s.Data
	if !batt.Present {
		return
	}
	var pct float64
	if batt.Percent != nil {
		pct = *batt.Percent
	}
	state := "On battery"
	if batt.PluggedIn != nil && *batt.PluggedIn {
		state = "Plugged in"
	}
	timeStr := ""
	if batt.TimeLeftSec != nil && *batt.TimeLeftSec > 0 {
		h := *batt.TimeLeftSec / 3600
		m := (*batt.TimeLeftSec % 3600) / 60
		timeStr = fmt.Sprintf("  %dh %02dm remaining", h, m)
	}
	r.println("")
	r.println(r.sectionHeader("BATTERY"))
	r.println("  " + r.bar(pct) + " " + r.pctLabel(pct) + r.c(ansiDim, "  "+state+timeStr))
}

func (r *Renderer) renderGPU(s *models.Section[models.GPUStats]) {
	if r.sectionError("GPU", s.Err) {
		return
	}
	gpu := s.Data
	if len(gpu.GPUs) == 0 {
		return
	}
	r.println("")
	r.println(r.sectionHeader("GPU"))
	for _, g := range gpu.GPUs {
		if g.UtilPercent != nil {
			r.println("  " + r.bar(*g.UtilPercent) + " " + r.pctLabel(*g.UtilPercent) +
				r.c(ansiDim, "  "+g.Name))
			if g.TempCelsius != nil {
				line := r.c(ansiDim, fmt.Sprintf("    Temp: %.0f°C", *g.TempCelsius))
				if g.MemUsedMB != nil && g.MemTotalMB != nil {
					line += r.c(ansiDim, fmt.Sprintf("  VRAM: %.0f/%.0f MB", *g.MemUsedMB, *g.MemTotalMB))
				}
				r.println(line)
			}
			continue
		}
		r.println(r.c(ansiWht, "    "+g.Name))
		if g.GPUMem != "" {
			r.println(r.c(ansiDim, "    GPU Memory: "+g.GPUMem))
		}
		if g.Throttled != "" {
			r.println(r.c(ansiDim, "    Throttle:   "+g.Throttled))
		}
	}
}

func sortedKeys(m map[string][]models.SensorReading) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
