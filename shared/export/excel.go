package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLen = 31

// SheetWriter builds a spreadsheet one sheet at a time.
type SheetWriter interface {
	AddSheet(name string) error
	WriteHeader(columns []string) error
	WriteRow(row []any) error
	Save(w io.Writer) error
	Close() error
}

type excelWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func NewSheetWriter() SheetWriter {
	return &excelWriter{
		file: excelize.NewFile(),
	}
}

func (w *excelWriter) AddSheet(name string) error {
	// Excel caps sheet names at 31 characters.
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}

	if w.currentSheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1

	return nil
}

func (w *excelWriter) WriteHeader(columns []string) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}

		if err := w.file.SetCellValue(w.currentSheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}

	w.currentRow++

	return nil
}

func (w *excelWriter) WriteRow(row []any) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}

		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
	}

	w.currentRow++

	return nil
}

func (w *excelWriter) Save(wr io.Writer) error {
	if err := w.file.Write(wr); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func (w *excelWriter) Close() error {
	return w.file.Close() //nolint:wrapcheck
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]any) error {
	writer := NewSheetWriter()
	defer writer.Close()

	if err := writer.AddSheet(sheet); err != nil {
		return err
	}

	if err := writer.WriteHeader(header); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writer.WriteRow(row); err != nil {
			return err
		}
	}

	return writer.Save(w)
}
