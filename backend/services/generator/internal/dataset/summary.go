package dataset

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary describes one power column the way a describe() table does. Std is the sample
// standard deviation and is 0 for fewer than two rows.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"25%"`
	Median float64 `json:"50%"`
	Q75    float64 `json:"75%"`
	Max    float64 `json:"max"`
}

// Summary returns statistics for the three power columns.
func (d *Dataset) Summary() []ColumnSummary {
	p1 := make([]float64, len(d.rows))
	p2 := make([]float64, len(d.rows))
	p3 := make([]float64, len(d.rows))
	for i, r := range d.rows {
		p1[i], p2[i], p3[i] = r.Pwr1Min, r.Pwr2Min, r.Pwr3Min
	}
	return []ColumnSummary{
		describe(ColumnPwr1Min, p1),
		describe(ColumnPwr2Min, p2),
		describe(ColumnPwr3Min, p3),
	}
}

func describe(name string, values []float64) ColumnSummary {
	s := ColumnSummary{Column: name, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = quantile(0.25, sorted)
	s.Median = quantile(0.5, sorted)
	s.Q75 = quantile(0.75, sorted)
	return s
}

// quantile interpolates linearly between closest ranks, matching pandas' default.
func quantile(p float64, sorted []float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
