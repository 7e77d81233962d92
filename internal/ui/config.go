package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quorum-sh/quorum/internal/config"
	"github.com/quorum-sh/quorum/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  quorum config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Server.APIURL = promptValue(reader, "API URL", cfg.Server.APIURL)
	cfg.Server.SiteURL = promptValue(reader, "Share link base URL", cfg.Server.SiteURL)
	cfg.Realtime.AbsentDebounceMS = promptInt(reader, "Absence reason debounce (ms)", cfg.Realtime.AbsentDebounceMS)
	cfg.Realtime.ReconnectBaseMS = promptInt(reader, "Reconnect base delay (ms)", cfg.Realtime.ReconnectBaseMS)
	cfg.Realtime.ReconnectMaxMS = promptInt(reader, "Reconnect max delay (ms)", cfg.Realtime.ReconnectMaxMS)
	cfg.LLM.Provider = promptValue(reader, "LLM provider (empty to disable)", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.DraftPath = promptValue(reader, "Draft database path", cfg.Storage.DraftPath)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[server]")
	fmt.Printf("  api_url            = %s\n", cfg.Server.APIURL)
	fmt.Printf("  site_url           = %s\n", cfg.Server.SiteURL)
	fmt.Println("\n[realtime]")
	fmt.Printf("  absent_debounce_ms = %d\n", cfg.Realtime.AbsentDebounceMS)
	fmt.Printf("  reconnect_base_ms  = %d\n", cfg.Realtime.ReconnectBaseMS)
	fmt.Printf("  reconnect_max_ms   = %d\n", cfg.Realtime.ReconnectMaxMS)
	fmt.Println("\n[llm]")
	fmt.Printf("  provider           = %s\n", cfg.LLM.Provider)
	fmt.Printf("  model              = %s\n", cfg.LLM.Model)
	fmt.Printf("  base_url           = %s\n", cfg.LLM.BaseURL)
	fmt.Println("\n[storage]")
	fmt.Printf("  draft_path         = %s\n", cfg.Storage.DraftPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme              = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		input := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(input)
		if err == nil && n > 0 {
			return n
		}
		fmt.Printf("  %q is not a positive number\n", input)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
