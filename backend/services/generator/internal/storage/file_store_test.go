package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"plugsim/backend/services/generator/internal/dataset"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local) }

func sampleDataset(n int) *dataset.Dataset {
	ds := dataset.New("")
	for i := 0; i < n; i++ {
		ds.Append("2022-01-01", "12:00", [3]float64{float64(i), float64(2 * i), float64(3 * i)})
	}
	return ds
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestSaveEmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, zaptest.NewLogger(t), WithClock(fixedNow))

	rows, path, err := store.Save(dataset.New(""))
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, zaptest.NewLogger(t), WithClock(fixedNow))

	rows, path, err := store.Save(sampleDataset(5))
	require.NoError(t, err)
	assert.Equal(t, 5, rows)
	assert.Equal(t, filepath.Join(dir, "Photovoltaic_Production_20240309_140507.csv"), path)

	lines := readLines(t, path)
	require.Len(t, lines, 6)
	assert.Equal(t, "id,date,time,pwr_1min,pwr_2min,pwr_3min", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,2022-01-01,12:00,"))
	assert.True(t, strings.HasPrefix(lines[5], "4,2022-01-01,12:00,"))
}

func TestSaveRoundTripsPowerValues(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, zaptest.NewLogger(t), WithClock(fixedNow))

	ds := dataset.New("")
	ds.Append("2022-01-01", "00:15", [3]float64{7.05189074060205e-05, 1.4e-05 / 3, 8.1e-06})
	ds.Append("2022-01-01", "12:00", [3]float64{123.456789012345, 246.91357802469, 296.2962936296})
	ds.Append("2022-01-01", "23:45", [3]float64{0, 2.0 / 3, 1e-300})

	rows, path, err := store.Save(ds)
	require.NoError(t, err)
	require.Equal(t, ds.Len(), rows)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, ds.Len()+1)

	for i, row := range ds.Rows() {
		for col, want := range []float64{row.Pwr1Min, row.Pwr2Min, row.Pwr3Min} {
			got, err := strconv.ParseFloat(records[i+1][3+col], 64)
			require.NoError(t, err)
			assert.Equal(t, want, got, "row %d column %d", i, col)
		}
	}
}

func TestSaveSameSecondNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, zaptest.NewLogger(t), WithClock(fixedNow))

	_, first, err := store.Save(sampleDataset(2))
	require.NoError(t, err)
	_, second, err := store.Save(sampleDataset(3))
	require.NoError(t, err)
	_, third, err := store.Save(sampleDataset(4))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(dir, "Photovoltaic_Production_20240309_140507_1.csv"), second)
	assert.Equal(t, filepath.Join(dir, "Photovoltaic_Production_20240309_140507_2.csv"), third)
	assert.Len(t, readLines(t, first), 3)
	assert.Len(t, readLines(t, second), 4)
	assert.Len(t, readLines(t, third), 5)
}

func TestSaveMissingFolder(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"), zaptest.NewLogger(t), WithClock(fixedNow))

	rows, _, err := store.Save(sampleDataset(1))
	require.Error(t, err)
	assert.Zero(t, rows)

	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSaveGzip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, zaptest.NewLogger(t), WithClock(fixedNow), WithGzip(true))

	rows, path, err := store.Save(sampleDataset(3))
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.True(t, strings.HasSuffix(path, ".csv.gz"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)

	var lines []string
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	assert.Len(t, lines, 4)
}
