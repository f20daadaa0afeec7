package cashflow

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	res, err := New().Run(baseScenario(t, 1500, 1000))
	require.NoError(t, err)

	dir := t.TempDir()
	yearsPath := filepath.Join(dir, "years.csv")
	monthsPath := filepath.Join(dir, "months.csv")
	require.NoError(t, WriteYearsCSV(yearsPath, res.Years))
	require.NoError(t, WriteMonthsCSV(monthsPath, res.Months))

	rows := readCSV(t, yearsPath)
	require.Len(t, rows, 6)
	assert.Equal(t, "year", rows[0][0])
	assert.Equal(t, "2025", rows[1][1])
	assert.Equal(t, "10650.000000", rows[1][13])

	rows = readCSV(t, monthsPath)
	assert.Len(t, rows, 61)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
