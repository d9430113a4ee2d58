// Package dashboard renders the cached snapshot as a terminal
// dashboard. It only ever reads the cache file; it never collects.
package dashboard

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ANSI escape codes. Color is decided once at construction, so the
// renderer itself stays free of tty checks.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiRed   = "\033[91m"
	ansiYlw   = "\033[93m"
	ansiGrn   = "\033[92m"
	ansiCyn   = "\033[96m"
	ansiBlu   = "\033[94m"
	ansiWht   = "\033[97m"
)

const barWidth = 24

// Renderer writes the dashboard to w. With color off every escape code
// is suppressed, which is also what the tests assert against.
type Renderer struct {
	w     io.Writer
	color bool
	now   func() time.Time
}

// New returns a renderer. Pass color=false when stdout is not a tty.
func New(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color, now: time.Now}
}

func (r *Renderer) c(col, txt string) string {
	if !r.color {
		return txt
	}
	return col + txt + ansiReset
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.w, s)
}

// pctColor picks the load color: red from 90, yellow from 75, green
// below.
func pctColor(pct float64) string {
	switch {
	case pct >= 90:
		return ansiRed
	case pct >= 75:
		return ansiYlw
	default:
		return ansiGrn
	}
}

// bar renders a fixed-width usage bar.
func (r *Renderer) bar(pct float64) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * barWidth)
	inner := r.c(pctColor(pct), strings.Repeat("█", filled)) +
		r.c(ansiDim, strings.Repeat("░", barWidth-filled))
	return r.c(ansiDim, "[") + inner + r.c(ansiDim, "]")
}

func (r *Renderer) pctLabel(pct float64) string {
	return r.c(pctColor(pct)+ansiBold, fmt.Sprintf("%5.1f%%", pct))
}

func (r *Renderer) divider(width int, char string) string {
	return r.c(ansiBlu, "  "+strings.Repeat(char, width))
}

func (r *Renderer) sectionHeader(title string) string {
	return r.c(ansiBlu, "  ┤ ") + r.c(ansiWht+ansiBold, title) + r.c(ansiBlu, " ├")
}

// fmtMB prints a megabyte count, switching to GB from 1000 MB.
func fmtMB(mb float64) string {
	if mb < 1000 {
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.2f GB", mb/1000)
}

// fmtMbps prints a link rate, switching to Kbps below 1 Mbps.
func fmtMbps(mbps float64) string {
	if mbps == 0 {
		return "0 Kbps"
	}
	if mbps < 1 {
		return fmt.Sprintf("%.0f Kbps", mbps*1000)
	}
	return fmt.Sprintf("%.2f Mbps", mbps)
}

// fmtAge turns an RFC3339 timestamp into a rough "how stale" label.
func (r *Renderer) fmtAge(iso string) string {
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "unknown"
	}
	diff := int(r.now().UTC().Sub(ts).Seconds())
	switch {
	case diff < 60:
		return fmt.Sprintf("%ds ago", diff)
	case diff < 3600:
		return fmt.Sprintf("%dm ago", diff/60)
	default:
		return fmt.Sprintf("%dh ago", diff/3600)
	}
}
