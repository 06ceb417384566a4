package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"xwscraper/pkg/auth"
	"xwscraper/pkg/errors"
	"xwscraper/pkg/logger"
	"xwscraper/pkg/nyt"
	"xwscraper/pkg/output"
	"xwscraper/pkg/scraper"
	"xwscraper/pkg/ui"
)

var (
	// solve-times flags
	puzzleType  string
	startDate   string
	endDate     string
	outputPath  string
	asCSV       bool
	asJSON      bool
	tokenFlag   string
	accountName string
	hostLimit   int
	blankGuess  string
)

// solveTimesCmd represents the solve-times command
var solveTimesCmd = &cobra.Command{
	Use:   "solve-times",
	Short: "Scrape personal puzzle solve times",
	Long: `Fetch every puzzle of one type published in a date range, with your
solve statistics and board, and save them to a file.

Dates are inclusive and use YYYY-MM-DD. A start date before the first puzzle
of the type is moved forward to that date.

When the output path is a directory (or ends in /) the file is named
<puzzle-type>_puzzle_times.<json|csv>.`,
	Example: `  # Last seven days of dailies as JSON in ./data/
  xwscraper solve-times

  # January 2023 minis as CSV
  xwscraper solve-times -p mini -s 2023-01-01 -e 2023-01-31 --csv

  # Use a specific stored account and output file
  xwscraper solve-times -a work -f ./out/dailies.json`,
	Args: cobra.NoArgs,
	RunE: runSolveTimes,
}

func init() {
	rootCmd.AddCommand(solveTimesCmd)

	solveTimesCmd.Flags().StringVarP(&puzzleType, "puzzle-type", "p", "", "type of puzzle: daily, mini or bonus (default daily)")
	solveTimesCmd.Flags().StringVarP(&startDate, "start-date", "s", "", "first date to scrape (default 7 days ago)")
	solveTimesCmd.Flags().StringVarP(&endDate, "end-date", "e", "", "last date to scrape (default today)")
	solveTimesCmd.Flags().StringVarP(&outputPath, "filepath", "f", "", "file or folder to save results to (default ./data/)")
	solveTimesCmd.Flags().BoolVar(&asCSV, "csv", false, "save output as CSV")
	solveTimesCmd.Flags().BoolVar(&asJSON, "json", false, "save output as JSON (default)")
	solveTimesCmd.Flags().StringVarP(&tokenFlag, "token", "t", "", "NYT-S token (overrides stored accounts)")
	solveTimesCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	solveTimesCmd.Flags().IntVar(&hostLimit, "host-limit", 0, "maximum concurrent requests to the NYT (default 20)")
	solveTimesCmd.Flags().StringVar(&blankGuess, "blank-guess", nyt.DefaultBlankFill.Guess, "guess recorded for blank squares")
	solveTimesCmd.MarkFlagsMutuallyExclusive("csv", "json")
	solveTimesCmd.MarkFlagsMutuallyExclusive("token", "account")
}

func solveTimesFlags() map[string]interface{} {
	flags := map[string]interface{}{
		"puzzle-type": puzzleType,
		"start-date":  startDate,
		"end-date":    endDate,
		"filepath":    outputPath,
	}
	switch {
	case asCSV:
		flags["filetype"] = string(output.CSV)
	case asJSON:
		flags["filetype"] = string(output.JSON)
	}
	return flags
}

func runSolveTimes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(solveTimesFlags())
	if err != nil {
		return err
	}
	log := logger.GetLogger().WithField("component", "cli")

	writer, err := output.NewWriter(cfg.Output.Path, cfg.Output.Format)
	if err != nil {
		return err
	}

	token, source, err := resolveToken(tokenFlag, accountName, cfg.NYT.Token, lazyManager{})
	if err != nil {
		ui.PrintInfo("Hint", "run 'xwscraper auth login' or set XWSCRAPER_TOKEN")
		return err
	}
	log.WithField("source", source).Debug("Using NYT-S token")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pt := nyt.PuzzleType(cfg.Scrape.PuzzleType)
	ui.PrintInfo("Puzzle type", string(pt))
	ui.PrintInfo("Date range", fmt.Sprintf("%s .. %s", cfg.Scrape.StartDate, cfg.Scrape.EndDate))

	tracker := ui.NewBatchTracker(ui.Out, quiet)
	s := scraper.New(scraper.Options{
		BaseURL:   cfg.NYT.BaseURL,
		UserAgent: cfg.NYT.UserAgent,
		Timeout:   cfg.NYT.RequestTimeout,
		HostLimit: hostLimit,
		BlankFill: &nyt.BlankFill{Guess: blankGuess, Timestamp: nyt.DefaultBlankFill.Timestamp},
		Observer:  tracker,
		Logger:    logger.GetLogger(),
	})

	res, err := s.Scrape(ctx, scraper.Request{
		Token:      token,
		PuzzleType: pt,
		StartDate:  cfg.Scrape.StartDate,
		EndDate:    cfg.Scrape.EndDate,
	})
	tracker.Finish()
	if err != nil {
		log.WithError(err).Error("Scrape failed")
		return err
	}

	if res.Clamped {
		ui.PrintWarning(fmt.Sprintf("No %s puzzles before %s, starting there", res.PuzzleType, res.Start))
	}

	path, err := writer.Write(output.BaseName(res.PuzzleType), res.Records)
	if err != nil {
		return err
	}

	if !quiet {
		ui.RenderSummary(ui.Out, res)
	}
	ui.PrintSuccess(fmt.Sprintf("Saved %d puzzles to %s", len(res.Records), path))
	return nil
}

// tokenSource resolves stored tokens by account name, "" for the default
type tokenSource interface {
	Token(name string) (string, error)
}

// lazyManager opens the credential manager only when a stored token is needed
type lazyManager struct{}

func (lazyManager) Token(name string) (string, error) {
	manager, err := auth.NewManager()
	if err != nil {
		return "", err
	}
	return manager.Token(name)
}

// resolveToken picks the token by precedence: explicit flag, named account,
// configuration or environment, then the default stored account.
// The second return value names where the token came from.
func resolveToken(flagToken, account, configured string, store tokenSource) (string, string, error) {
	if flagToken != "" {
		token, err := auth.NormalizeToken(flagToken)
		if err != nil {
			return "", "", errors.Wrap(errors.ErrorTypeAuth, err, "invalid --token")
		}
		return token, "flag", nil
	}
	if account != "" {
		token, err := store.Token(account)
		if err != nil {
			return "", "", errors.Wrap(errors.ErrorTypeAuth, err, "account %q", account)
		}
		return token, "account:" + account, nil
	}
	if configured != "" {
		token, err := auth.NormalizeToken(configured)
		if err != nil {
			return "", "", errors.Wrap(errors.ErrorTypeAuth, err, "invalid configured token")
		}
		return token, "config", nil
	}
	token, err := store.Token("")
	if err != nil {
		return "", "", errors.Wrap(errors.ErrorTypeAuth, err, "no NYT-S token found")
	}
	return token, "stored", nil
}
