package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"property-insights/models"
)

var matchHeader = []string{
	"rank", "id", "name", "location", "primary_type", "price", "roi", "score",
	"budget", "roi_fit", "risk", "type", "location_fit",
}

// CSVWriter exports ranked matches to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(matchHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteMatches appends one row per match on the page. Ranks continue from
// the page offset.
func (c *CSVWriter) WriteMatches(page *models.RankedPage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := (page.Page - 1) * page.Limit
	for i, m := range page.Data {
		l := m.Project
		b := m.Breakdown
		row := []string{
			strconv.Itoa(offset + i + 1),
			l.ID,
			l.Name,
			l.Location,
			l.PrimaryType(),
			optional(priceValue(l.Price)),
			optional(l.ROI),
			formatFloat(m.Score),
			formatFloat(b.Budget),
			formatFloat(b.ROI),
			formatFloat(b.Risk),
			formatFloat(b.PropertyType),
			formatFloat(b.Location),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func priceValue(p *models.Price) *float64 {
	if p == nil {
		return nil
	}
	return &p.Value
}

// optional renders absent values as an empty cell, so they stay distinct
// from zero.
func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
