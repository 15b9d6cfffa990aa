package evidence

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVReader handles CSV files; every cell is a candidate line.
type CSVReader struct{}

func (p *CSVReader) Extract(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}

	var sb strings.Builder
	for _, record := range records {
		for _, cell := range record {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(cell)
		}
	}
	return sb.String(), nil
}
