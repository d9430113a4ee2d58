package collector

import (
	"context"
	"math"
	"os/exec"
	"strings"
	"time"
)

// Rounding precision is part of the API contract: one decimal for
// percentages and temperatures, two for GB sizes, three for Mbps speeds.

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func bytesToGB(b uint64) float64 { return round2(float64(b) / 1e9) }
func bytesToMB(b uint64) float64 { return round1(float64(b) / 1e6) }

// runCommand executes an external tool under a deadline. A missing binary
// or a timeout yields empty output and the error; callers treat both as
// non-fatal.
func runCommand(timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
