package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleSuccess.Render(iconSuccess), fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleWarning.Render(iconWarning), fmt.Sprintf(format, args...))
}

func printFile(w io.Writer, label, path string) {
	fmt.Fprintf(w, "  %s %s %s\n", styleLabel.Render(label), iconArrow, styleValue.Render(path))
}

func printStat(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render(label+":"), styleNumber.Render(fmt.Sprint(value)))
}
