package domain

// Confidence summarizes how well the inputs pin an inferred product
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Valid reports whether c is one of the three known labels
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

func (c Confidence) String() string {
	return string(c)
}

// Column names read and written by product inference
const (
	ColumnBrand               = "brand"
	ColumnApplication         = "application"
	ColumnSizeInches          = "size_inches"
	ColumnPanelMaker          = "panel_maker"
	ColumnInferredProduct     = "inferred_product"
	ColumnInferenceConfidence = "inference_confidence"
)

// Inference is the best-guess product for one shipment row
type Inference struct {
	Product      string     `json:"product"`
	Confidence   Confidence `json:"confidence"`
	Alternatives []string   `json:"alternatives"`
}

// Record is a single row with fields addressed by column name.
// Values are loosely typed; missing or malformed fields are tolerated by inference.
type Record map[string]any

// Table is a tabular batch of records with an explicit column order
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// Len returns the number of rows in the table
func (t Table) Len() int {
	return len(t.Rows)
}
