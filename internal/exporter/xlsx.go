package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet name used for XLSX exports
const DefaultSheet = "Sheet1"

// WriteXLSX writes the scored dataset to a new workbook at filePath. Scored values are
// stored as numbers, every other cell (sentinels included) as text.
func WriteXLSX(filePath, sheet string, s *Scored) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, len(s.Headers))
	for i, h := range s.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, record := range s.Records {
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
			if s.IsNumeric(i, j) && v != "" {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					row[j] = n
				}
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
