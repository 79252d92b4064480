package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	safeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	cautionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
)

func header(title string) {
	fmt.Println(boldStyle.Render(title))
}

// labelStyle picks a color for a risk label
func labelStyle(label string) lipgloss.Style {
	switch label {
	case "Safe":
		return safeStyle
	case "Caution":
		return cautionStyle
	case "High Risk":
		return dangerStyle
	default:
		return dimStyle
	}
}

// gauge renders a fixed-width bar for a 0-100 value
func gauge(value int, style lipgloss.Style) string {
	const width = 20
	filled := value * width / 100
	if filled > width {
		filled = width
	}
	return style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}

// sparkline renders recent scores as block characters
func sparkline(scores []int) string {
	if len(scores) == 0 {
		return dimStyle.Render("no scan data yet")
	}
	blocks := []rune("▁▂▃▄▅▆▇█")
	var b strings.Builder
	for _, score := range scores {
		idx := score * (len(blocks) - 1) / 100
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

func renderVerdict(result scanOutput) {
	if result.IsPhishing {
		header(dangerStyle.Render("HIGH RISK DETECTED"))
	} else {
		header(safeStyle.Render("EMAIL VERIFIED"))
	}
	fmt.Printf("Risk score: %d/100\n", result.Score)
	if result.Language != "" {
		fmt.Printf("Language: %s\n", result.Language)
	}
	for _, reason := range result.Reasons {
		fmt.Printf("  • %s\n", reason)
	}
	if len(result.MaliciousURLs) > 0 {
		fmt.Println(dangerStyle.Render("Malicious URLs:"))
		for _, url := range result.MaliciousURLs {
			fmt.Printf("  %s\n", url)
		}
	}
}
