package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"xwscraper/pkg/auth"
	"xwscraper/pkg/config"
	"xwscraper/pkg/logger"
	"xwscraper/pkg/nyt"
	"xwscraper/pkg/ui"
)

var (
	skipVerify bool
	showGuide  bool
	logoutAll  bool
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored NYT-S tokens",
	Long: `Manage stored NYT subscriber tokens.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables XWSCRAPER_TOKEN / NYT_COOKIE (read only)

Never share your token or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store an NYT-S token",
	Long: `Store an NYT-S token under a name ("default" when omitted).

The token is read without echo and checked against the NYT before it is
saved, unless --skip-verify is given.`,
	Example: `  # Interactive login
  xwscraper auth login

  # Store a second account
  xwscraper auth login work

  # Pipe a token in
  echo "$TOKEN" | xwscraper auth login --skip-verify`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored tokens",
	Example: `  # Remove one account
  xwscraper auth logout work

  # Remove every stored account
  xwscraper auth logout --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	Long:  `List stored accounts with masked tokens, most recently saved first.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)

	loginCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "store the token without checking it")
	loginCmd.Flags().BoolVar(&showGuide, "guide", true, "show how to find the NYT-S cookie")
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "remove every stored account")
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	name := "default"
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}
	if name == "" || name == auth.EnvAccountName {
		return fmt.Errorf("account name %q is reserved", name)
	}

	reader := bufio.NewReader(os.Stdin)
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	if interactive {
		if showGuide {
			auth.ShowTokenGuide(ui.Out)
		} else {
			auth.ShowQuickTokenGuide(ui.Out)
		}
		if existing, _ := manager.Retrieve(name); existing != nil {
			fmt.Fprintf(ui.Out, "\nAccount '%s' already exists. Replace its token? (y/N): ", name)
			if !confirm(reader) {
				return nil
			}
		}
		fmt.Fprint(ui.Out, "\nNYT-S cookie value (hidden): ")
	}

	raw, err := readSecret(reader)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	token, err := auth.NormalizeToken(raw)
	if err != nil {
		return err
	}

	if !skipVerify {
		ui.PrintInfo("Verifying token", cfg.NYT.BaseURL)
		if err := verifyToken(cmd.Context(), cfg, token); err != nil {
			return err
		}
	}

	if err := manager.Store(&auth.Account{Name: name, Token: token}); err != nil {
		return err
	}

	logger.WithField("account", name).Info("Token stored")
	ui.PrintSuccess("Account saved: " + name)
	fmt.Fprintln(ui.Out, "\nScrape with it:")
	fmt.Fprintf(ui.Out, "  $ xwscraper solve-times --account %s\n", name)
	return nil
}

// verifyToken makes the same liveness request a scrape starts with
func verifyToken(ctx context.Context, cfg *config.Config, token string) error {
	client := nyt.NewClient(nyt.Options{
		BaseURL:   cfg.NYT.BaseURL,
		Token:     token,
		UserAgent: cfg.NYT.UserAgent,
		Timeout:   cfg.NYT.RequestTimeout,
		Logger:    logger.GetLogger(),
	})
	defer client.Close()
	return client.Ping(ctx)
}

func runLogout(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(nil); err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if logoutAll {
		accounts, err := manager.List()
		if err != nil {
			return err
		}
		removed := 0
		for _, account := range accounts {
			if account.Name == auth.EnvAccountName {
				continue
			}
			if err := manager.Delete(account.Name); err != nil {
				return fmt.Errorf("failed to remove %s: %w", account.Name, err)
			}
			removed++
		}
		ui.PrintSuccess(fmt.Sprintf("Removed %d accounts", removed))
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("name an account to remove, or pass --all")
	}
	if err := manager.Delete(args[0]); err != nil {
		return err
	}
	ui.PrintSuccess("Account removed: " + args[0])
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(nil); err != nil {
		return err
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "use 'xwscraper auth login' to add one")
		return nil
	}

	ui.PrintHighlight("Stored Accounts")
	printAccounts(ui.Out, accounts)
	return nil
}

func printAccounts(w io.Writer, accounts []*auth.Account) {
	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		marker := ""
		if i == 0 {
			marker = " (default)"
		}
		fmt.Fprintf(w, "%d. %s%s\n", i+1, sanitized.Name, marker)
		fmt.Fprintf(w, "   Token: %s\n", sanitized.Token)
		fmt.Fprintf(w, "   Last Modified: %s\n", sanitized.LastModified.Format(time.DateTime))
	}
}

func confirm(reader *bufio.Reader) bool {
	input, _ := reader.ReadString('\n')
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y")
}

// readSecret reads a line from stdin without echo when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(ui.Out)
		if err == nil {
			return string(secret), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
