package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"FolioPull/internal/domain/models"
	"FolioPull/internal/render"
)

// CSVFileSink overwrites a CSV export with every cycle. The file is replaced
// atomically so readers never see a partial export.
type CSVFileSink struct {
	path string
}

func NewCSVFileSink(path string) *CSVFileSink {
	return &CSVFileSink{path: path}
}

func (s *CSVFileSink) Name() string { return "csv" }

func (s *CSVFileSink) Path() string { return s.path }

func (s *CSVFileSink) Publish(_ context.Context, c *models.Cycle) error {
	var buf bytes.Buffer
	if err := render.WriteCSV(&buf, c); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".portfolio-*.csv")
	if err != nil {
		return fmt.Errorf("create temp csv: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
