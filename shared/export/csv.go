package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM lets spreadsheet applications detect the encoding of exported
// files that contain non-ASCII guest names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the header and rows as RFC 4180 CSV prefixed with a UTF-8
// byte order mark.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
