package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/Veraticus/financelama/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLama(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestImportCategorizeView(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	db := filepath.Join(dir, "lama.db")

	export := testutil.WriteWindows1252(t, dir, "giro.csv", testutil.GiroCSV(
		testutil.GiroRow{Day: "01.05.2023", Orderer: "Arbeitgeber AG", Reason: "Gehalt Mai", Value: "1.234,56"},
		testutil.GiroRow{Day: "03.05.2023", Orderer: "REWE SAGT DANKE", Reason: "Einkauf", Value: "-50,00"},
	))

	out, err := runLama(t, "import", "--database", db, "--no-progress", export)
	require.NoError(t, err)
	assert.Contains(t, out, "2/2 new")

	out, err = runLama(t, "import", "--database", db, "--no-progress", export)
	require.NoError(t, err)
	assert.Contains(t, out, "0/2 new")

	out, err = runLama(t, "categorize", "--database", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Categorized 2 transactions")

	out, err = runLama(t, "report", "set", "--database", db, "wochenende", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 rows to wochenende")

	out, err = runLama(t, "view", "--database", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Arbeitgeber AG")
	assert.Contains(t, out, "wochenende")
	assert.NotContains(t, out, "REWE SAGT DANKE")

	out, err = runLama(t, "imports", "--database", db)
	require.NoError(t, err)
	assert.Contains(t, out, "giro.csv")
}

func TestImportReportsFailedFiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	db := filepath.Join(t.TempDir(), "lama.db")
	testutil.WriteFile(t, dir, "notes.txt", "Hello;World\n")

	out, err := runLama(t, "import", "--database", db, "--no-progress", dir)
	require.Error(t, err)
	assert.Contains(t, out, "unknown format")
}

func TestParseSelector(t *testing.T) {
	sel, err := parseSelector([]string{"617-620", "630", "640,642-643"})
	require.NoError(t, err)
	assert.Equal(t, []int64{630, 640}, sel.IDs)
	assert.Equal(t, []model.IDRange{{From: 617, To: 620}, {From: 642, To: 643}}, sel.Ranges)

	_, err = parseSelector([]string{"abc"})
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)

	_, err = parseSelector([]string{","})
	assert.ErrorIs(t, err, common.ErrEmptySelection)

	_, err = parseSelector([]string{"9-3"})
	assert.Error(t, err)
}
