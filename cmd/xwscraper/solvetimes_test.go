package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xwscraper/internal/nyttest"
	"xwscraper/pkg/auth"
	"xwscraper/pkg/errors"
	"xwscraper/pkg/nyt"
	"xwscraper/pkg/ui"
)

func TestResolveTokenPrecedence(t *testing.T) {
	manager, store := auth.NewMockManager()
	require.NoError(t, store.Store(&auth.Account{Name: "work", Token: "work-token"}))

	token, source, err := resolveToken("NYT-S=flag-token", "work", "config-token", manager)
	require.NoError(t, err)
	assert.Equal(t, "flag-token", token)
	assert.Equal(t, "flag", source)

	token, source, err = resolveToken("", "work", "config-token", manager)
	require.NoError(t, err)
	assert.Equal(t, "work-token", token)
	assert.Equal(t, "account:work", source)

	token, source, err = resolveToken("", "", "config-token", manager)
	require.NoError(t, err)
	assert.Equal(t, "config-token", token)
	assert.Equal(t, "config", source)

	token, source, err = resolveToken("", "", "", manager)
	require.NoError(t, err)
	assert.Equal(t, "work-token", token)
	assert.Equal(t, "stored", source)
}

func TestResolveTokenErrors(t *testing.T) {
	manager, _ := auth.NewMockManager()

	_, _, err := resolveToken("", "", "", manager)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuth))

	_, _, err = resolveToken("", "missing", "", manager)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuth))

	_, _, err = resolveToken("two words", "", "", manager)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuth))
}

func TestSolveTimesFlags(t *testing.T) {
	t.Cleanup(func() { asCSV, asJSON = false, false })

	asCSV = true
	flags := solveTimesFlags()
	assert.Equal(t, "csv", flags["filetype"])

	asCSV, asJSON = false, true
	flags = solveTimesFlags()
	assert.Equal(t, "json", flags["filetype"])

	asJSON = false
	flags = solveTimesFlags()
	_, ok := flags["filetype"]
	assert.False(t, ok)
}

func TestRunSolveTimesWritesFile(t *testing.T) {
	srv := nyttest.NewServer("cli-token")
	defer srv.Close()
	srv.AddRange(nyt.Daily, "2023-01-01", "2023-01-10", 100)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "xwscraper.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0600))

	savedOut := ui.Out
	t.Cleanup(func() {
		ui.Out = savedOut
		configFile, baseURL, quiet = "", "", false
		puzzleType, startDate, endDate, outputPath, tokenFlag = "", "", "", "", ""
		asCSV = false
	})

	configFile = cfgPath
	baseURL = srv.URL()
	quiet = true
	puzzleType = "daily"
	startDate = "2023-01-03"
	endDate = "2023-01-07"
	outputPath = filepath.Join(dir, "out") + string(os.PathSeparator)
	tokenFlag = "cli-token"

	solveTimesCmd.SetContext(context.Background())
	require.NoError(t, runSolveTimes(solveTimesCmd, nil))

	data, err := os.ReadFile(filepath.Join(dir, "out", "daily_puzzle_times.json"))
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 5)
	for _, rec := range records {
		assert.Contains(t, rec, "board.guess")
		assert.NotContains(t, rec, "board")
	}
	assert.Equal(t, 1, srv.PingRequests())
	assert.Equal(t, 1, srv.ListRequests())
	assert.Equal(t, 5, srv.DetailRequests())
}
