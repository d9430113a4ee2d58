// Package models defines the snapshot produced once per collection cycle
// and the typed payload carried by each metric section.
package models

import "encoding/json"

// Section carries one collector's payload. A collector that failed
// internally carries only the error message; on the wire that serializes
// as {"error": "<msg>"} while the rest of the snapshot stays valid.
// Success is per-section; there is no snapshot-wide success flag.
type Section[T any] struct {
	Data *T
	Err  string
}

// Ok wraps a successful payload.
func Ok[T any](v *T) *Section[T] {
	return &Section[T]{Data: v}
}

// Failed wraps a collection failure.
func Failed[T any](msg string) *Section[T] {
	return &Section[T]{Err: msg}
}

func (s Section[T]) MarshalJSON() ([]byte, error) {
	if s.Err != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{s.Err})
	}
	return json.Marshal(s.Data)
}

func (s *Section[T]) UnmarshalJSON(b []byte) error {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &probe); err == nil && probe.Error != "" {
		s.Err = probe.Error
		s.Data = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s.Data = &v
	s.Err = ""
	return nil
}

// Snapshot is one complete, timestamped set of collected sections.
// Sections not enabled at collection time are nil and omitted from JSON.
// A snapshot is never mutated after it has been written to the cache.
type Snapshot struct {
	AtlasVersion string `json:"atlas_version"`
	CollectedAt  string `json:"collected_at"`
	Hostname     string `json:"hostname"`

	CPU         *Section[CPUStats]         `json:"cpu,omitempty"`
	RAM         *Section[RAMStats]         `json:"ram,omitempty"`
	Disk        *Section[DiskStats]        `json:"disk,omitempty"`
	Network     *Section[NetworkStats]     `json:"network,omitempty"`
	Temperature *Section[TemperatureStats] `json:"temperature,omitempty"`
	Uptime      *Section[UptimeStats]      `json:"uptime,omitempty"`
	OS          *Section[OSStats]          `json:"os,omitempty"`
	Hardware    *Section[HardwareStats]    `json:"hardware,omitempty"`
	Processes   *Section[ProcessStats]     `json:"processes,omitempty"`
	Users       *Section[UserStats]        `json:"users,omitempty"`
	Battery     *Section[BatteryStats]     `json:"battery,omitempty"`
	GPU         *Section[GPUStats]         `json:"gpu,omitempty"`
}

// SectionNames is the fixed set of section names in canonical order.
func SectionNames() []string {
	return []string{
		"cpu", "ram", "disk", "network", "temperature", "uptime",
		"os", "hardware", "processes", "users", "battery", "gpu",
	}
}

// Section returns the named section payload, or false when the name is
// unknown or the section was not collected.
func (s *Snapshot) Section(name string) (any, bool) {
	switch name {
	case "cpu":
		if s.CPU != nil {
			return s.CPU, true
		}
	case "ram":
		if s.RAM != nil {
			return s.RAM, true
		}
	case "disk":
		if s.Disk != nil {
			return s.Disk, true
		}
	case "network":
		if s.Network != nil {
			return s.Network, true
		}
	case "temperature":
		if s.Temperature != nil {
			return s.Temperature, true
		}
	case "uptime":
		if s.Uptime != nil {
			return s.Uptime, true
		}
	case "os":
		if s.OS != nil {
			return s.OS, true
		}
	case "hardware":
		if s.Hardware != nil {
			return s.Hardware, true
		}
	case "processes":
		if s.Processes != nil {
			return s.Processes, true
		}
	case "users":
		if s.Users != nil {
			return s.Users, true
		}
	case "battery":
		if s.Battery != nil {
			return s.Battery, true
		}
	case "gpu":
		if s.GPU != nil {
			return s.GPU, true
		}
	}
	return nil, false
}

// Sections lists the names of sections present in this snapshot, in
// canonical order. The enabled set varies by configuration, so this is
// always computed from the live snapshot.
func (s *Snapshot) Sections() []string {
	var out []string
	for _, name := range SectionNames() {
		if _, ok := s.Section(name); ok {
			out = append(out, name)
		}
	}
	return out
}

// CPUPercent returns the overall CPU percent, or nil when the cpu section
// is absent or failed. Used for history summaries.
func (s *Snapshot) CPUPercent() *float64 {
	if s.CPU == nil || s.CPU.Data == nil {
		return nil
	}
	v := s.CPU.Data.Percent
	return &v
}

// RAMPercent returns the memory percent, or nil when unavailable.
func (s *Snapshot) RAMPercent() *float64 {
	if s.RAM == nil || s.RAM.Data == nil {
		return nil
	}
	v := s.RAM.Data.Percent
	return &v
}

// DiskPercent returns the first partition's used percent, or nil when the
// disk section is absent, failed, or saw no partitions.
func (s *Snapshot) DiskPercent() *float64 {
	if s.Disk == nil || s.Disk.Data == nil || len(s.Disk.Data.Partitions) == 0 {
		return nil
	}
	v := s.Disk.Data.Partitions[0].Percent
	return &v
}
