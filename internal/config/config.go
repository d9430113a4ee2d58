// Package config loads the ATLAS configuration document. Defaults cover
// every option; a user file overrides them and may carry unknown keys,
// which are preserved verbatim across saves. Configuration is read once
// per process start.
package config

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Engine names accepted for api_engine.
const (
	EngineHTTP = "http"
	EngineGin  = "gin"
	EngineOff  = "off"
)

// Config holds every recognized option. JSON tags match the on-disk
// document, which is shared with existing installs.
type Config struct {
	// On by default.
	CollectCPU  bool `json:"collect_cpu"`
	CollectRAM  bool `json:"collect_ram"`
	CollectDisk bool `json:"collect_disk"`

	// Off by default; enable what you need.
	CollectNetwork   bool `json:"collect_network"`
	CollectTemp      bool `json:"collect_temp"`
	CollectUptime    bool `json:"collect_uptime"`
	CollectOS        bool `json:"collect_os"`
	CollectHardware  bool `json:"collect_hardware"`
	CollectProcesses bool `json:"collect_processes"`
	CollectUsers     bool `json:"collect_users"`
	CollectBattery   bool `json:"collect_battery"`
	CollectGPU       bool `json:"collect_gpu"`

	// False saves the one second speed sampling window per cycle.
	NetSpeedEnabled bool `json:"net_speed_enabled"`

	// Seconds between cycle starts.
	Interval int `json:"interval"`

	HistoryEnabled  bool `json:"history_enabled"`
	HistoryKeepDays int  `json:"history_keep_days"`

	APIEngine  string `json:"api_engine"`
	APIPort    int    `json:"api_port"`
	APIKey     string `json:"api_key"`
	APIEnabled bool   `json:"api_enabled"`

	// Unknown keys from the user file, kept so a save never drops them.
	extra map[string]json.RawMessage
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		CollectCPU:      true,
		CollectRAM:      true,
		CollectDisk:     true,
		NetSpeedEnabled: true,
		Interval:        30,
		HistoryKeepDays: 7,
		APIEngine:       EngineHTTP,
		APIPort:         19890,
		APIEnabled:      true,
	}
}

// Paths locates the ATLAS directories under one base dir.
type Paths struct {
	Base       string
	CacheFile  string
	ConfigFile string
	DBFile     string
}

// DefaultBaseDir is used unless ATLAS_BASE_DIR overrides it.
const DefaultBaseDir = "/opt/atlas"

// ResolvePaths builds the directory layout, honoring a .env file and the
// ATLAS_BASE_DIR environment variable. An empty base uses the default.
func ResolvePaths(base string) Paths {
	_ = godotenv.Load()
	if base == "" {
		base = os.Getenv("ATLAS_BASE_DIR")
	}
	if base == "" {
		base = DefaultBaseDir
	}
	return Paths{
		Base:       base,
		CacheFile:  filepath.Join(base, "cache", "stats.json"),
		ConfigFile: filepath.Join(base, "config", "atlas.json"),
		DBFile:     filepath.Join(base, "data", "atlas.db"),
	}
}

// EnsureDirs creates the cache, config and data directories.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{
		filepath.Dir(p.CacheFile),
		filepath.Dir(p.ConfigFile),
		filepath.Dir(p.DBFile),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

// Load reads the config file, overlaying it on defaults. A missing or
// unreadable file falls back entirely to defaults; it never aborts.
func Load(path string) *Config {
	cfg := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: config read error: %v — using defaults", err)
		}
		return cfg
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		log.Printf("Warning: config parse error: %v — using defaults", err)
		return Defaults()
	}

	// Keep keys we do not recognize so Save writes them back.
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err == nil {
		for k := range knownKeys() {
			delete(all, k)
		}
		if len(all) > 0 {
			cfg.extra = all
		}
	}

	cfg.sanitize()
	return cfg
}

// Init loads the config, creating the file with defaults and a freshly
// generated API key on first run.
func Init(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Defaults()
		cfg.APIKey = GenerateKey()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		log.Printf("Config created: %s", path)
		log.Printf("API Key: %s", cfg.APIKey)
		return cfg, nil
	}
	return Load(path), nil
}

// Save writes the document, known fields first, then any preserved
// unknown keys. Pretty-printed for hand editing.
func (c *Config) Save(path string) error {
	known, err := json.Marshal(c)
	if err != nil {
		return err
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(known, &doc); err != nil {
		return err
	}
	for k, v := range c.extra {
		if _, ok := doc[k]; !ok {
			doc[k] = v
		}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(out, '\n'), 0o600)
}

// EnabledSections lists the sections collection is turned on for, in
// canonical order.
func (c *Config) EnabledSections() []string {
	flags := []struct {
		name string
		on   bool
	}{
		{"cpu", c.CollectCPU},
		{"ram", c.CollectRAM},
		{"disk", c.CollectDisk},
		{"network", c.CollectNetwork},
		{"temperature", c.CollectTemp},
		{"uptime", c.CollectUptime},
		{"os", c.CollectOS},
		{"hardware", c.CollectHardware},
		{"processes", c.CollectProcesses},
		{"users", c.CollectUsers},
		{"battery", c.CollectBattery},
		{"gpu", c.CollectGPU},
	}
	var out []string
	for _, f := range flags {
		if f.on {
			out = append(out, f.name)
		}
	}
	return out
}

// Extra exposes preserved unknown keys, mainly for tests.
func (c *Config) Extra() map[string]json.RawMessage {
	return c.extra
}

// sanitize replaces invalid values with their defaults rather than
// failing the load.
func (c *Config) sanitize() {
	if c.Interval <= 0 {
		log.Printf("Warning: invalid interval %d — using 30", c.Interval)
		c.Interval = 30
	}
	if c.HistoryKeepDays <= 0 {
		log.Printf("Warning: invalid history_keep_days %d — using 7", c.HistoryKeepDays)
		c.HistoryKeepDays = 7
	}
}

func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	raw, _ := json.Marshal(Defaults())
	var m map[string]json.RawMessage
	_ = json.Unmarshal(raw, &m)
	for k := range m {
		keys[k] = struct{}{}
	}
	return keys
}

const keyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateKey produces an API key in the atl_ format used since v1.
func GenerateKey() string {
	chars, err := randomChars(rand.Reader, 44)
	if err != nil {
		// crypto/rand failing means the system is unusable anyway
		panic(err)
	}
	return "atl_" + string(chars)
}

// randomChars draws n characters from keyAlphabet. Source bytes at or
// above the largest multiple of the alphabet size are discarded so
// every character is equally likely.
func randomChars(src io.Reader, n int) ([]byte, error) {
	const reject = byte(256 - 256%len(keyAlphabet))
	out := make([]byte, 0, n)
	buf := make([]byte, 2*n)
	for len(out) < n {
		if _, err := io.ReadFull(src, buf); err != nil {
			return nil, err
		}
		for _, c := range buf {
			if c >= reject {
				continue
			}
			out = append(out, keyAlphabet[int(c)%len(keyAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return out, nil
}
