// internal/forecast/matrix.go
package forecast

import (
	"sort"
	"time"
)

// SalesMatrix is a dense per-day, per-SKU matrix of sales quantities. The same
// shape is used for past sales (aggregated integers stored as floats) and for
// forecasted future sales (real-valued). Rows are consecutive calendar days
// starting at Start; columns are SKUs in lexicographic order.
type SalesMatrix struct {
	start  time.Time
	skus   []string
	colIdx map[string]int
	cells  [][]float64 // cells[day][column]
}

// NewSalesMatrix creates a zero-filled matrix spanning days consecutive days
// starting at start. SKU columns are sorted lexicographically regardless of
// input order so that iteration and output are reproducible.
func NewSalesMatrix(start time.Time, skus []string, days int) *SalesMatrix {
	sorted := append([]string(nil), skus...)
	sort.Strings(sorted)

	colIdx := make(map[string]int, len(sorted))
	for i, sku := range sorted {
		colIdx[sku] = i
	}

	cells := make([][]float64, days)
	for i := range cells {
		cells[i] = make([]float64, len(sorted))
	}

	return &SalesMatrix{
		start:  truncateToDay(start),
		skus:   sorted,
		colIdx: colIdx,
		cells:  cells,
	}
}

// Start returns the date of the first row.
func (m *SalesMatrix) Start() time.Time {
	return m.start
}

// Days returns the number of rows.
func (m *SalesMatrix) Days() int {
	return len(m.cells)
}

// End returns the date of the last row. Zero-day matrices have no rows, so
// callers must check Days first.
func (m *SalesMatrix) End() time.Time {
	return m.DateAt(len(m.cells) - 1)
}

// DateAt returns the calendar date of row i.
func (m *SalesMatrix) DateAt(i int) time.Time {
	return m.start.AddDate(0, 0, i)
}

// SKUs returns the column identifiers in lexicographic order. The returned
// slice is a copy.
func (m *SalesMatrix) SKUs() []string {
	return append([]string(nil), m.skus...)
}

// HasSKU reports whether the matrix has a column for the given SKU.
func (m *SalesMatrix) HasSKU(sku string) bool {
	_, ok := m.colIdx[sku]
	return ok
}

// At returns the value for the given row and SKU.
func (m *SalesMatrix) At(day int, sku string) float64 {
	return m.cells[day][m.colIdx[sku]]
}

// Column returns a copy of the full daily series for one SKU, oldest first.
func (m *SalesMatrix) Column(sku string) []float64 {
	col, ok := m.colIdx[sku]
	if !ok {
		return nil
	}
	series := make([]float64, len(m.cells))
	for day := range m.cells {
		series[day] = m.cells[day][col]
	}
	return series
}

// Total returns the sum of all values in one SKU's column.
func (m *SalesMatrix) Total(sku string) float64 {
	var sum float64
	col, ok := m.colIdx[sku]
	if !ok {
		return 0
	}
	for day := range m.cells {
		sum += m.cells[day][col]
	}
	return sum
}

// WithSKUs returns a matrix whose column set is the union of the receiver's
// columns and the given SKUs, with any new columns zero filled. The receiver
// is left untouched. Used to opt SKUs without sales history into a flat zero
// forecast.
func (m *SalesMatrix) WithSKUs(skus []string) *SalesMatrix {
	extra := make([]string, 0, len(skus))
	for _, sku := range skus {
		if !m.HasSKU(sku) {
			extra = append(extra, sku)
		}
	}
	if len(extra) == 0 {
		return m
	}

	merged := NewSalesMatrix(m.start, append(m.SKUs(), extra...), len(m.cells))
	for _, sku := range m.skus {
		for day := range m.cells {
			merged.set(day, sku, m.At(day, sku))
		}
	}
	return merged
}

func (m *SalesMatrix) set(day int, sku string, v float64) {
	m.cells[day][m.colIdx[sku]] = v
}

func (m *SalesMatrix) add(day int, sku string, v float64) {
	m.cells[day][m.colIdx[sku]] += v
}

func (m *SalesMatrix) setColumn(col int, series []float64) {
	for day := range m.cells {
		m.cells[day][col] = series[day]
	}
}

// truncateToDay discards the time-of-day component, keeping the calendar date
// in UTC.
func truncateToDay(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
