package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"xwscraper/pkg/auth"
	"xwscraper/pkg/config"
	"xwscraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage xwscraper configuration files.

Configuration is merged from, highest priority first:
  - Command line flags
  - Environment variables (XWSCRAPER_*, NYT_COOKIE) and .env files
  - <config>.local.yaml next to the configuration file
  - Configuration file
  - Default values`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file.

The file is created as 'xwscraper.yaml' in the current directory unless a
different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after all sources are merged. The token is masked.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# xwscraper configuration
#
# Every value can also be set through the environment, e.g.
# XWSCRAPER_TOKEN, XWSCRAPER_PUZZLE_TYPE, XWSCRAPER_OUTPUT, XWSCRAPER_LOG_LEVEL.
# Put machine specific overrides in xwscraper.local.yaml.

nyt:
  # NYT-S cookie value. Prefer 'xwscraper auth login' over storing it here.
  token: ""
  base_url: "https://www.nytimes.com"
  # Per request timeout, e.g. 30s. 0 disables it.
  request_timeout: 30s

scrape:
  # daily, mini or bonus
  puzzle_type: "daily"
  # YYYY-MM-DD. Leave empty for the last seven days.
  start_date: ""
  end_date: ""

output:
  # File or directory. Directories get <puzzle_type>_puzzle_times.<format>.
  path: "./data/"
  # json or csv
  format: "json"

logging:
  # debug, info, warn, error
  level: "info"
  # Optional JSON log file
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = "xwscraper.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0600); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Fprintln(ui.Out, "\nNext steps:")
	fmt.Fprintln(ui.Out, "1. Store a token with 'xwscraper auth login'")
	fmt.Fprintln(ui.Out, "2. Run 'xwscraper config validate' to check the configuration")
	fmt.Fprintln(ui.Out, "3. Scrape with 'xwscraper solve-times'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	display := *cfg
	if display.NYT.Token != "" {
		display.NYT.Token = auth.SanitizeAccount(&auth.Account{Token: display.NYT.Token}).Token
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(ui.Out)
	fmt.Fprint(ui.Out, string(data))
	if configFile != "" {
		ui.PrintInfo("Configuration file", configFile)
		if _, err := os.Stat(config.LocalOverridePath(configFile)); err == nil {
			ui.PrintInfo("Local override", config.LocalOverridePath(configFile))
		}
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	if cfg.NYT.Token == "" {
		ui.PrintWarning("No token configured", "solve-times will fall back to stored accounts")
	} else if _, err := auth.NormalizeToken(cfg.NYT.Token); err != nil {
		return fmt.Errorf("configured token: %w", err)
	}

	ui.PrintSuccess("Configuration is valid")
	fmt.Fprintln(ui.Out, "\nConfiguration summary:")
	fmt.Fprintf(ui.Out, "  Puzzle type: %s\n", cfg.Scrape.PuzzleType)
	fmt.Fprintf(ui.Out, "  Date range: %s .. %s\n", cfg.Scrape.StartDate, cfg.Scrape.EndDate)
	fmt.Fprintf(ui.Out, "  Output: %s (%s)\n", cfg.Output.Path, cfg.Output.Format)
	fmt.Fprintf(ui.Out, "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
