package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Amr-9/trongen/pkg/generator"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorPurple = "\033[35m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// Console renders results to a terminal or, in JSON mode, as one JSON
// object per line.
type Console struct {
	w     io.Writer
	json  bool
	color bool
}

// NewConsole creates a console writing to w.
func NewConsole(w io.Writer, jsonOutput, color bool) *Console {
	return &Console{w: w, json: jsonOutput, color: color}
}

func (c *Console) paint(code, s string) string {
	if !c.color {
		return s
	}
	return code + s + ColorReset
}

// PrintBanner shows the tool header. Nothing is printed in JSON mode.
func (c *Console) PrintBanner(version string) {
	if c.json {
		return
	}
	fmt.Fprintln(c.w)
	fmt.Fprintf(c.w, "  %s %s\n", c.paint(ColorCyan+ColorBold, "TRONGEN"), c.paint(ColorDim, "Tron address generator • v"+version))
	fmt.Fprintln(c.w)
}

// PrintResult shows one generated address.
func (c *Console) PrintResult(index int, result generator.Result) error {
	if c.json {
		return json.NewEncoder(c.w).Encode(result)
	}

	fmt.Fprintf(c.w, "    %s\n", c.paint(ColorGreen+ColorBold, fmt.Sprintf("#%d TRON ADDRESS", index)))
	fmt.Fprintf(c.w, "       %s\n", c.paint(ColorGreen+ColorBold, result.Address))
	fmt.Fprintf(c.w, "       %s\n", c.paint(ColorDim, result.HexAddress))
	if result.PrivateKey != "" {
		fmt.Fprintf(c.w, "    %s\n", c.paint(ColorPurple+ColorBold, "🔑 PRIVATE KEY"))
		fmt.Fprintf(c.w, "       %s\n", c.paint(ColorYellow, result.PrivateKey))
	}
	fmt.Fprintln(c.w)
	return nil
}

// PrintSummary shows batch statistics. Nothing is printed in JSON mode.
func (c *Console) PrintSummary(stats generator.Stats, outputFile string) {
	if c.json {
		return
	}
	elapsed := time.Duration(stats.ElapsedSecs * float64(time.Second))
	fmt.Fprintf(c.w, "    ⏱   %s   │   📊  %s addresses / %s attempts (%s)",
		FormatDuration(elapsed), FormatNumber(stats.Generated), FormatNumber(stats.Attempts), FormatRate(stats.Rate))
	if outputFile != "" {
		fmt.Fprintf(c.w, "   │   💾  %s", outputFile)
	}
	fmt.Fprintln(c.w)
	if stats.Failures > 0 {
		fmt.Fprintf(c.w, "    %s\n", c.paint(ColorRed+ColorBold, fmt.Sprintf("✗ %d generation(s) failed", stats.Failures)))
	}
	if stats.Generated > 0 {
		fmt.Fprintf(c.w, "    %s\n", c.paint(ColorRed+ColorBold, "⚠  KEEP YOUR PRIVATE KEYS SECRET!"))
	}
}

// PrintError shows a failure message.
func (c *Console) PrintError(err error) {
	if c.json {
		_ = json.NewEncoder(c.w).Encode(map[string]string{"error": err.Error()})
		return
	}
	fmt.Fprintf(c.w, "    %s\n", c.paint(ColorRed, "✗ "+err.Error()))
}

// FormatResults renders results as the wallet file content.
func FormatResults(results []generator.Result, generatedAt time.Time) string {
	content := fmt.Sprintf("Tron Addresses\n==============\n\nGenerated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05"))
	for i, r := range results {
		content += fmt.Sprintf("#%d\nAddress:     %s\nHex Address: %s\nPrivate Key: %s\n\n", i+1, r.Address, r.HexAddress, r.PrivateKey)
	}
	content += "⚠️ WARNING: Keep these private keys secret and secure!\n"
	return content
}

// FormatRate formats an address rate nicely
func FormatRate(rate float64) string {
	if rate >= 1000000 {
		return fmt.Sprintf("%.1fM/s", rate/1000000)
	}
	if rate >= 1000 {
		return fmt.Sprintf("%.1fK/s", rate/1000)
	}
	return fmt.Sprintf("%.0f/s", rate)
}

// FormatNumber adds commas to large numbers
func FormatNumber(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatDuration formats duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
