package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/panellens/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var requiredColumns = []string{
	"year", "quarter", "brand", "application", "size_inches", "panel_maker", "units_k",
}

// Loader reads shipment rows from CSV exports of the industry spreadsheets
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadShipments parses a header-driven shipment CSV.
// Column names are matched case-insensitively and may appear in any order;
// "technology" is optional. Errors name the 1-based line of the bad row.
func (l *Loader) LoadShipments(r io.Reader) ([]domain.Shipment, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("shipments CSV is empty")
		}
		return nil, fmt.Errorf("failed to read shipments CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("shipments CSV is missing columns: %s", strings.Join(missing, ", "))
	}

	var shipments []domain.Shipment
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError already carries the line number
			return nil, fmt.Errorf("shipments CSV: %w", err)
		}
		if isBlank(record) {
			continue
		}

		shipment, err := parseShipment(record, index)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("shipments CSV line %d: %w", line, err)
		}
		shipments = append(shipments, shipment)
	}

	return shipments, nil
}

func parseShipment(record []string, index map[string]int) (domain.Shipment, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	year, err := cast.ToIntE(field("year"))
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("invalid year %q", field("year"))
	}

	quarter, err := parseQuarter(field("quarter"))
	if err != nil {
		return domain.Shipment{}, err
	}

	size, err := cast.ToFloat64E(field("size_inches"))
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("invalid size_inches %q", field("size_inches"))
	}

	units, err := decimal.NewFromString(strings.ReplaceAll(field("units_k"), ",", ""))
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("invalid units_k %q", field("units_k"))
	}

	return domain.Shipment{
		Year:        year,
		Quarter:     quarter,
		Brand:       field("brand"),
		Application: field("application"),
		SizeInches:  size,
		PanelMaker:  field("panel_maker"),
		Technology:  field("technology"),
		UnitsK:      units,
	}, nil
}

// parseQuarter accepts "3" as well as "Q3"
func parseQuarter(s string) (int, error) {
	q, err := cast.ToIntE(strings.TrimPrefix(strings.ToUpper(s), "Q"))
	if err != nil {
		return 0, fmt.Errorf("invalid quarter %q", s)
	}
	return q, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// stripBOM drops a leading UTF-8 byte order mark
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}
