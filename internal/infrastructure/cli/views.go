package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/infrastructure/history"
	"github.com/doeshing/wtf-go/internal/pkg/filesystem"
)

const (
	promptColumnWidth  = 40
	commandColumnWidth = 50
)

// renderConfig prints the resolved settings. API keys are reported as set or
// not set, never shown.
func renderConfig(w io.Writer, cfg domain.Config, paths filesystem.Paths) {
	var sections []int
	rows := [][]string{
		{"Global Settings", ""},
		{"  Default Provider", cfg.DefaultProvider},
		{"  Default Model", cfg.DefaultModel},
	}
	sections = append(sections, 0)

	for _, name := range cfg.ProviderNames() {
		settings := cfg.Providers[name]
		sections = append(sections, len(rows))

		keyStatus := errorStyle.Render("✗ not set")
		if _, ok := cfg.ResolveAPIKey(name); ok {
			keyStatus = okStyle.Render("✓ set")
		}
		models := make([]string, 0, len(settings.Models))
		for _, model := range settings.Models {
			models = append(models, "• "+model)
		}

		rows = append(rows,
			[]string{providerTitle(name) + " Provider", ""},
			[]string{"  API Key", keyStatus},
			[]string{"  Env Variable", valueOr(settings.EnvKey, "-")},
			[]string{"  Default Model", warnStyle.Render(settings.DefaultModel)},
			[]string{"  Available Models", strings.Join(models, "\n")},
		)
	}

	isSection := make(map[int]bool, len(sections))
	for _, row := range sections {
		isSection[row] = true
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		BorderRow(true).
		Headers("Setting", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case isSection[row]:
				return sectionStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("WTF Configuration"))
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Config file:  %s\n", infoStyle.Render(paths.ConfigFile))
	fmt.Fprintf(w, "History file: %s (%s)\n", infoStyle.Render(paths.HistoryFile), fileSize(paths.HistoryFile))
	fmt.Fprintf(w, "Log file:     %s (%s)\n", infoStyle.Render(paths.LogFile), fileSize(paths.LogFile))
	fmt.Fprintln(w)
}

// renderHistory prints the newest limit entries, newest first.
func renderHistory(w io.Writer, entries []domain.HistoryEntry, limit int, now time.Time) {
	views := history.Recent(entries, limit, now)
	if len(views) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No history yet"))
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("When", "Prompt", "Command", "Provider", "Model", "Latency", "Status").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, view := range views {
		entry := view.Entry
		latency := "-"
		if l := entry.Latency(); l > 0 {
			latency = fmt.Sprintf("%.2fs", l)
		}
		status := okStyle.Render("✓")
		if !entry.Success {
			status = errorStyle.Render("✗")
		}
		t.Row(
			view.When,
			truncate.StringWithTail(entry.Prompt, promptColumnWidth, "…"),
			truncate.StringWithTail(valueOr(entry.Command, "-"), commandColumnWidth, "…"),
			entry.MetaString(domain.MetaProvider, "-"),
			entry.MetaString(domain.MetaModel, "-"),
			latency,
			status,
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Command History"))
	fmt.Fprintln(w, t.Render())
}

// renderHealth prints one line per doctor check.
func renderHealth(w io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		var symbol string
		switch check.Status {
		case domain.HealthOK:
			symbol = okStyle.Render("✓")
		case domain.HealthWarn:
			symbol = warnStyle.Render("!")
		default:
			symbol = errorStyle.Render("✗")
		}
		fmt.Fprintf(w, "%s %-17s %s\n", symbol, check.Name, check.Details)
	}
}

// renderWelcome greets a user whose configuration was just created.
func renderWelcome(w io.Writer, paths filesystem.Paths) {
	fmt.Fprintln(w, titleStyle.Render("Welcome to wtf!"))
	fmt.Fprintf(w, "A default configuration was written to %s\n\n", paths.ConfigFile)
	fmt.Fprintln(w, "Add an API key for at least one provider:")
	fmt.Fprintln(w, "  OpenAI:    https://platform.openai.com/api-keys")
	fmt.Fprintln(w, "  Anthropic: https://console.anthropic.com/settings/keys")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Then either export it (OPENAI_API_KEY / ANTHROPIC_API_KEY) or run:")
	fmt.Fprintln(w, "  wtf-config set-key openai sk-...")
	fmt.Fprintln(w)
}

func providerTitle(name string) string {
	switch name {
	case domain.ProviderOpenAI:
		return "OpenAI"
	case "":
		return ""
	default:
		return strings.ToUpper(name[:1]) + name[1:]
	}
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
