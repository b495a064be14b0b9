package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"plugsim/backend/libs/random"
	"plugsim/backend/services/generator/internal/calendar"
	"plugsim/backend/services/generator/internal/dataset"
	"plugsim/backend/services/generator/internal/daylight"
	"plugsim/backend/services/generator/internal/telemetry"
)

// Plan describes one generator run.
type Plan struct {
	FirstDay        time.Time
	Days            int
	Hours           int
	IntervalMinutes int
	MeterID         int
	WeightScale     float64
	DatasetName     string
}

// Generator turns meter readings into a photovoltaic production dataset.
type Generator struct {
	source telemetry.Source
	rnd    random.Source
	logger *zap.Logger
}

// NewGenerator returns a generator reading from source. rnd drives the daylight curve.
func NewGenerator(source telemetry.Source, rnd random.Source, logger *zap.Logger) *Generator {
	return &Generator{source: source, rnd: rnd, logger: logger}
}

// Run builds the grid and the daylight curve for plan and fills a dataset.
func (g *Generator) Run(ctx context.Context, plan Plan) (*dataset.Dataset, error) {
	grid, err := calendar.NewGrid(plan.FirstDay, plan.Days, plan.Hours, plan.IntervalMinutes)
	if err != nil {
		return nil, err
	}
	curve, err := daylight.NewCurve(g.rnd, grid.Slots(), plan.WeightScale)
	if err != nil {
		return nil, err
	}
	return g.Fill(ctx, grid, curve, plan.MeterID, plan.DatasetName)
}

// Fill reads one meter sample per grid cell, day-major, scales its counters by the curve weight
// of the cell's slot and appends the row. Any read failure aborts the run and nothing is returned.
func (g *Generator) Fill(ctx context.Context, grid calendar.Grid, curve daylight.Curve, meterID int, name string) (*dataset.Dataset, error) {
	if len(curve) != grid.Slots() {
		return nil, fmt.Errorf("generator: curve has %d weights for %d slots", len(curve), grid.Slots())
	}

	ds := dataset.New(name)
	g.logger.Info("generating mock meter data",
		zap.Int("days", len(grid.Dates)),
		zap.Int("slots_per_day", grid.Slots()),
		zap.Int("cells", grid.Size()),
	)

	for _, date := range grid.Dates {
		g.logger.Info("current day", zap.String("date", date))
		for i, timeOfDay := range grid.Times {
			doc, err := g.source.ReadMeter(ctx, meterID)
			if err != nil {
				return nil, fmt.Errorf("generator: read meter %d at %s %s: %w", meterID, date, timeOfDay, err)
			}
			ds.Append(date, timeOfDay, curve.Apply(i, doc.Counters))
		}
	}
	return ds, nil
}
