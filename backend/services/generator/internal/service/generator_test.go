package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"plugsim/backend/libs/random"
	"plugsim/backend/libs/shelly"
	"plugsim/backend/services/generator/internal/calendar"
	"plugsim/backend/services/generator/internal/daylight"
	"plugsim/backend/services/generator/internal/telemetry"
)

// scriptedSource returns counters[k] on the k-th call and fails after failAfter calls when set.
type scriptedSource struct {
	counters  [][3]float64
	calls     int
	failAfter int
}

func (s *scriptedSource) ReadMeter(ctx context.Context, meterID int) (shelly.MeterDoc, error) {
	if s.failAfter > 0 && s.calls >= s.failAfter {
		return shelly.MeterDoc{}, &shelly.MeterError{ID: meterID, StatusCode: 503}
	}
	c := s.counters[s.calls%len(s.counters)]
	s.calls++
	return shelly.MeterDoc{Counters: c, IsValid: true}, nil
}

func defaultPlan(days int) Plan {
	return Plan{
		FirstDay:        time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:            days,
		Hours:           24,
		IntervalMinutes: 15,
		MeterID:         shelly.MeterID,
		WeightScale:     daylight.DefaultScale,
	}
}

func TestRunTwoDaysInProcess(t *testing.T) {
	logger := zaptest.NewLogger(t)
	source := telemetry.NewInProcess(shelly.NewDevice(random.New(5), logger))
	gen := NewGenerator(source, random.New(6), logger)

	ds, err := gen.Run(context.Background(), defaultPlan(2))
	require.NoError(t, err)
	require.Equal(t, 192, ds.Len())

	for i, row := range ds.Rows() {
		assert.Equal(t, i, row.ID)
		assert.GreaterOrEqual(t, row.Pwr1Min, 0.0)
		assert.GreaterOrEqual(t, row.Pwr2Min, row.Pwr1Min)
	}
	rows := ds.Rows()
	assert.Equal(t, "2022-01-01", rows[0].Date)
	assert.Equal(t, "00:00", rows[0].Time)
	assert.Equal(t, "2022-01-01", rows[95].Date)
	assert.Equal(t, "23:45", rows[95].Time)
	assert.Equal(t, "2022-01-02", rows[96].Date)
	assert.Equal(t, "00:00", rows[96].Time)
}

func TestFillIsExactWithFixedInputs(t *testing.T) {
	grid, err := calendar.NewGrid(time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), 2, 24, 15)
	require.NoError(t, err)

	curve := make(daylight.Curve, grid.Slots())
	for i := 0; i < 48; i++ {
		curve[i] = float64(i) / 48
		curve[95-i] = curve[i]
	}
	triples := [][3]float64{{30, 60, 72}, {50, 100, 110}, {99, 150, 180}}
	source := &scriptedSource{counters: triples}

	ds, err := NewGenerator(source, random.New(1), zaptest.NewLogger(t)).Fill(context.Background(), grid, curve, 0, "")
	require.NoError(t, err)
	require.Equal(t, 192, ds.Len())

	for k, row := range ds.Rows() {
		slot := k % 96
		c := triples[k%len(triples)]
		w := curve[slot]
		assert.Equal(t, c[0]*w, row.Pwr1Min, "row %d", k)
		assert.Equal(t, c[1]*w, row.Pwr2Min, "row %d", k)
		assert.Equal(t, c[2]*w, row.Pwr3Min, "row %d", k)
		assert.Equal(t, grid.Times[slot], row.Time)
		assert.Equal(t, grid.Dates[k/96], row.Date)
	}
}

func TestFillAbortsOnReadFailure(t *testing.T) {
	grid, err := calendar.NewGrid(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 3, 24, 15)
	require.NoError(t, err)
	curve := make(daylight.Curve, grid.Slots())
	source := &scriptedSource{counters: [][3]float64{{1, 2, 3}}, failAfter: 100}

	ds, err := NewGenerator(source, random.New(1), zaptest.NewLogger(t)).Fill(context.Background(), grid, curve, 0, "")
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, shelly.ErrMeterUnavailable))
	assert.Contains(t, err.Error(), "2022-01-02 01:00")
}

func TestRunRejectsUnknownMeter(t *testing.T) {
	logger := zaptest.NewLogger(t)
	source := telemetry.NewInProcess(shelly.NewDevice(random.New(0), logger))
	plan := defaultPlan(1)
	plan.MeterID = 3

	_, err := NewGenerator(source, random.New(0), logger).Run(context.Background(), plan)
	assert.True(t, errors.Is(err, shelly.ErrMeterUnavailable))
}

func TestRunZeroDays(t *testing.T) {
	logger := zaptest.NewLogger(t)
	source := telemetry.NewInProcess(shelly.NewDevice(random.New(0), logger))

	ds, err := NewGenerator(source, random.New(0), logger).Run(context.Background(), defaultPlan(0))
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
}

func TestFillRejectsMismatchedCurve(t *testing.T) {
	grid, err := calendar.NewGrid(time.Now(), 1, 24, 15)
	require.NoError(t, err)
	_, err = NewGenerator(&scriptedSource{}, random.New(1), zaptest.NewLogger(t)).Fill(context.Background(), grid, daylight.Curve{1, 1}, 0, "")
	assert.Error(t, err)
}
