package main

import (
	"fmt"
	"io"
	"strings"

	"aircheck/internal/api"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func renderDaemonStatus(out io.Writer, status api.DaemonStatus) {
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  %-16s %s\n", "Running:", yesNo(status.Running))
	fmt.Fprintf(out, "  %-16s %d\n", "PID:", status.PID)
	fmt.Fprintf(out, "  %-16s %s\n", "Catalog:", status.CatalogDBPath)
	fmt.Fprintf(out, "  %-16s %s\n", "Lock:", status.LockFilePath)
	if status.LogPath != "" {
		fmt.Fprintf(out, "  %-16s %s\n", "Log:", status.LogPath)
	}

	for _, line := range renderSectionHeader("Schedule", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  %-16s %d\n", "Triggers:", status.TriggerCount)
	fmt.Fprintf(out, "  %-16s %d\n", "Active claims:", len(status.HeldClaims))
	for _, job := range status.ActiveJobs {
		tool := job.Tool
		if tool == "" {
			tool = "-"
		}
		fmt.Fprintf(out, "  %-16s show %d via %s (%s)\n", "Capturing:", job.ShowID, tool, job.Status)
	}

	for _, line := range renderSectionHeader("Catalog", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  %-16s %d\n", "Stations:", status.Stats.Stations)
	fmt.Fprintf(out, "  %-16s %d (%d active)\n", "Shows:", status.Stats.Shows, status.Stats.ActiveShows)
	fmt.Fprintf(out, "  %-16s %d (%s)\n", "Recordings:", status.Stats.Recordings, formatBytes(status.Stats.RecordingBytes))

	if len(status.Dependencies) > 0 {
		for _, line := range renderSectionHeader("Tools", colorize) {
			fmt.Fprintln(out, line)
		}
		for _, dep := range status.Dependencies {
			marker := colorText("ok", ansiGreen, colorize)
			if !dep.Available {
				marker = colorText("missing", ansiYellow, colorize)
				if !dep.Optional {
					marker = colorText("missing", ansiRed, colorize)
				}
			}
			detail := dep.Detail
			if detail != "" {
				detail = " (" + detail + ")"
			}
			fmt.Fprintf(out, "  %-16s %s%s\n", dep.Name+":", marker, detail)
		}
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		line = ansiBlue + line + ansiReset
	}
	return []string{line}
}

func colorText(s, color string, colorize bool) string {
	if !colorize {
		return s
	}
	return color + s + ansiReset
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
