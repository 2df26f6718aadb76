package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/panellens/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// WriteCSV writes a table as CSV: one header row with the table's columns, then one line per row.
// Fields missing from a row are written empty.
func WriteCSV(w io.Writer, t domain.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	line := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, column := range t.Columns {
			line[j] = formatValue(row[column])
		}
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case decimal.Decimal:
		return x.String()
	case domain.Confidence:
		return x.String()
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
