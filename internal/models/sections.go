package models

// CPUStats describes processor load and identity.
type CPUStats struct {
	Percent        float64   `json:"percent"`
	PercentPerCore []float64 `json:"percent_per_core"`
	CoresLogical   int       `json:"cores_logical"`
	CoresPhysical  int       `json:"cores_physical"`
	Model          string    `json:"model"`
	Architecture   string    `json:"architecture"`
	FreqMHzCurrent *float64  `json:"freq_mhz_current"`
	FreqMHzMax     *float64  `json:"freq_mhz_max"`
}

// RAMStats describes virtual memory and swap usage. Sizes are GB with two
// decimals, percentages have one decimal.
type RAMStats struct {
	Percent     float64 `json:"percent"`
	TotalGB     float64 `json:"total_gb"`
	UsedGB      float64 `json:"used_gb"`
	FreeGB      float64 `json:"free_gb"`
	CachedGB    float64 `json:"cached_gb"`
	SwapTotalGB float64 `json:"swap_total_gb"`
	SwapUsedGB  float64 `json:"swap_used_gb"`
	SwapPercent float64 `json:"swap_percent"`
}

// DiskPartition is one mounted filesystem.
type DiskPartition struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype"`
	Percent    float64 `json:"percent"`
	TotalGB    float64 `json:"total_gb"`
	UsedGB     float64 `json:"used_gb"`
	FreeGB     float64 `json:"free_gb"`
}

// DiskStats lists partitions plus cumulative IO totals.
type DiskStats struct {
	Partitions []DiskPartition `json:"partitions"`
	IOReadMB   *float64        `json:"io_read_mb"`
	IOWriteMB  *float64        `json:"io_write_mb"`
}

// NetAddress is one address bound to an interface.
type NetAddress struct {
	Family    string `json:"family"`
	Address   string `json:"address"`
	Netmask   string `json:"netmask,omitempty"`
	Broadcast string `json:"broadcast,omitempty"`
}

// NetInterface describes one network interface and its addresses.
type NetInterface struct {
	Name      string       `json:"name"`
	Addresses []NetAddress `json:"addresses"`
	IsUp      bool         `json:"is_up"`
	SpeedMbps *int         `json:"speed_mbps,omitempty"`
	MTU       int          `json:"mtu,omitempty"`
}

// NetworkStats describes traffic totals and, when speed sampling is
// enabled, throughput measured over a one second window. The speed fields
// are absent when sampling is disabled.
type NetworkStats struct {
	SpeedUpMbps   *float64       `json:"speed_up_mbps,omitempty"`
	SpeedDownMbps *float64       `json:"speed_dn_mbps,omitempty"`
	SentTotalMB   float64        `json:"sent_total_mb"`
	RecvTotalMB   float64        `json:"recv_total_mb"`
	PacketsSent   uint64         `json:"packets_sent"`
	PacketsRecv   uint64         `json:"packets_recv"`
	ErrorsIn      uint64         `json:"errors_in"`
	ErrorsOut     uint64         `json:"errors_out"`
	Interfaces    []NetInterface `json:"interfaces"`
}

// SensorReading is one temperature reading in Celsius, one decimal.
type SensorReading struct {
	Label    string   `json:"label"`
	Current  float64  `json:"current"`
	High     *float64 `json:"high,omitempty"`
	Critical *float64 `json:"critical,omitempty"`
}

// TemperatureStats groups readings by sensor name. Note is set when no
// sensors could be detected.
type TemperatureStats struct {
	Sensors map[string][]SensorReading `json:"sensors,omitempty"`
	Note    string                     `json:"note,omitempty"`
}

// UptimeStats reports time since boot.
type UptimeStats struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	UptimeHuman   string `json:"uptime_human"`
	BootTime      string `json:"boot_time"`
}

// OSStats identifies the operating system.
type OSStats struct {
	System        string `json:"system"`
	Node          string `json:"node"`
	Release       string `json:"release"`
	Machine       string `json:"machine"`
	Hostname      string `json:"hostname"`
	FQDN          string `json:"fqdn"`
	DistroName    string `json:"distro_name,omitempty"`
	DistroVersion string `json:"distro_version,omitempty"`
}

// HardwareStats is the DMI inventory plus Raspberry Pi identifiers. Note is
// set when nothing could be read (dmidecode typically needs root).
type HardwareStats struct {
	Manufacturer string `json:"manufacturer,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	UUID         string `json:"uuid,omitempty"`
	BIOSVendor   string `json:"bios_vendor,omitempty"`
	BIOSVersion  string `json:"bios_version,omitempty"`
	ChassisType  string `json:"chassis_type,omitempty"`
	RPiModel     string `json:"rpi_model,omitempty"`
	RPiSerial    string `json:"rpi_serial,omitempty"`
	RPiRevision  string `json:"rpi_revision,omitempty"`
	Note         string `json:"note,omitempty"`
}

// ProcessInfo is one process in a top-N list.
type ProcessInfo struct {
	PID    int32   `json:"pid"`
	Name   string  `json:"name"`
	User   string  `json:"user"`
	CPUPct float64 `json:"cpu_pct"`
	MemPct float64 `json:"mem_pct"`
	Status string  `json:"status"`
}

// ProcessStats counts processes and lists the top consumers.
type ProcessStats struct {
	Total   int           `json:"total"`
	Running int           `json:"running"`
	TopCPU  []ProcessInfo `json:"top_cpu"`
	TopMem  []ProcessInfo `json:"top_mem"`
}

// UserSession is one logged-in session.
type UserSession struct {
	Name     string `json:"name"`
	Terminal string `json:"terminal"`
	Host     string `json:"host"`
	Started  string `json:"started"`
}

// UserStats lists logged-in users.
type UserStats struct {
	LoggedIn []UserSession `json:"logged_in"`
	Count    int           `json:"count"`
}

// BatteryStats reports battery charge. Present is false on hosts with no
// battery; the remaining fields are then absent.
type BatteryStats struct {
	Present     bool     `json:"present"`
	Percent     *float64 `json:"percent,omitempty"`
	PluggedIn   *bool    `json:"plugged_in,omitempty"`
	TimeLeftSec *int64   `json:"time_left_sec,omitempty"`
}

// GPUInfo is one detected GPU. NVIDIA devices fill the util/memory/temp
// fields; Raspberry Pi VideoCore fills GPUMem and Throttled.
type GPUInfo struct {
	Name        string   `json:"name"`
	UtilPercent *float64 `json:"util_percent,omitempty"`
	MemUsedMB   *float64 `json:"mem_used_mb,omitempty"`
	MemTotalMB  *float64 `json:"mem_total_mb,omitempty"`
	TempCelsius *float64 `json:"temp_celsius,omitempty"`
	GPUMem      string   `json:"gpu_mem,omitempty"`
	Throttled   string   `json:"throttled,omitempty"`
	Driver      string   `json:"driver"`
}

// GPUStats lists detected GPUs. Note is set when no GPU or no query tool
// was found; that is a normal result, not an error.
type GPUStats struct {
	GPUs []GPUInfo `json:"gpus"`
	Note string    `json:"note,omitempty"`
}
