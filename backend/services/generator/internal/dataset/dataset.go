// Package dataset holds the photovoltaic production table produced by a generator run.
package dataset

import (
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DefaultName names the table and the files it is written to.
const DefaultName = "Photovoltaic_Production"

// Column names, in file order.
const (
	ColumnID      = "id"
	ColumnDate    = "date"
	ColumnTime    = "time"
	ColumnPwr1Min = "pwr_1min"
	ColumnPwr2Min = "pwr_2min"
	ColumnPwr3Min = "pwr_3min"
)

// Columns lists the header of a serialized dataset.
var Columns = []string{ColumnID, ColumnDate, ColumnTime, ColumnPwr1Min, ColumnPwr2Min, ColumnPwr3Min}

// Row is one grid cell.
type Row struct {
	ID      int     `json:"id"`
	Date    string  `json:"date"`
	Time    string  `json:"time"`
	Pwr1Min float64 `json:"pwr_1min"`
	Pwr2Min float64 `json:"pwr_2min"`
	Pwr3Min float64 `json:"pwr_3min"`
}

// Dataset is an append-only, id-indexed table.
type Dataset struct {
	name string
	rows []Row
}

// New returns an empty dataset called name.
func New(name string) *Dataset {
	if name == "" {
		name = DefaultName
	}
	return &Dataset{name: name}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return d.name
}

// Len returns the row count.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Append adds a row with the next sequential id and returns it.
func (d *Dataset) Append(date, timeOfDay string, power [3]float64) Row {
	row := Row{
		ID:      len(d.rows),
		Date:    date,
		Time:    timeOfDay,
		Pwr1Min: power[0],
		Pwr2Min: power[1],
		Pwr3Min: power[2],
	}
	d.rows = append(d.rows, row)
	return row
}

// Rows returns a copy of all rows in id order.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	copy(out, d.rows)
	return out
}

// Frame converts the rows into a dataframe with the id index as first column.
func (d *Dataset) Frame() dataframe.DataFrame {
	n := len(d.rows)
	ids := make([]int, n)
	dates := make([]string, n)
	times := make([]string, n)
	p1 := make([]float64, n)
	p2 := make([]float64, n)
	p3 := make([]float64, n)
	for i, r := range d.rows {
		ids[i] = r.ID
		dates[i] = r.Date
		times[i] = r.Time
		p1[i] = r.Pwr1Min
		p2[i] = r.Pwr2Min
		p3[i] = r.Pwr3Min
	}

	return dataframe.New(
		series.New(ids, series.Int, ColumnID),
		series.New(dates, series.String, ColumnDate),
		series.New(times, series.String, ColumnTime),
		series.New(p1, series.Float, ColumnPwr1Min),
		series.New(p2, series.Float, ColumnPwr2Min),
		series.New(p3, series.Float, ColumnPwr3Min),
	)
}

// WriteCSV serializes the dataset with a header line. Powers are written in their shortest
// exact decimal form so the file parses back to the in-memory values.
func (d *Dataset) WriteCSV(w io.Writer) error {
	df := d.textFrame()
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}

// textFrame holds every column as preformatted text; gota's float series would round to six
// decimals on output.
func (d *Dataset) textFrame() dataframe.DataFrame {
	if len(d.rows) == 0 {
		return d.Frame()
	}
	records := make([][]string, 0, len(d.rows)+1)
	records = append(records, append([]string(nil), Columns...))
	for _, r := range d.rows {
		records = append(records, []string{
			strconv.Itoa(r.ID),
			r.Date,
			r.Time,
			formatPower(r.Pwr1Min),
			formatPower(r.Pwr2Min),
			formatPower(r.Pwr3Min),
		})
	}
	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

func formatPower(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
